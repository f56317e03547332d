package orderserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	orderhttpmapper "github.com/Apurer/order-engine/internal/domains/orders/adapters/http/mapper"
	ordersapp "github.com/Apurer/order-engine/internal/domains/orders/application"
	ordertypes "github.com/Apurer/order-engine/internal/domains/orders/application/types"
	"github.com/Apurer/order-engine/internal/domains/orders/domain"
	ordersports "github.com/Apurer/order-engine/internal/domains/orders/ports"
)

// OrderAPI wires HTTP transport with the orders bounded context service and workflows.
type OrderAPI struct {
	service   ordersports.Service
	workflows ordersports.WorkflowOrchestrator
	problems  *ErrorResponder
}

// NewOrderAPI creates an OrderAPI backed by the provided service. A nil
// workflows orchestrator runs checkouts against the service directly.
func NewOrderAPI(service ordersports.Service, workflows ordersports.WorkflowOrchestrator, errs *ErrorResponder) OrderAPI {
	return OrderAPI{service: service, workflows: workflows, problems: errs}
}

// Post /api/order/create-pos
// Records a counter sale for the calling seller
func (api *OrderAPI) CreatePOSOrder(c *gin.Context) {
	var payload orderhttpmapper.CreatePOSOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.problems.BadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToPOSCheckoutInput(actorID(c), idempotencyKey(c), payload)
	placed, err := api.checkout(c.Request.Context(), input)
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "POS order created successfully",
		"order":   orderhttpmapper.FromProjection(placed),
	})
}

// Post /api/order/create
// Places an online order for the calling buyer
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	var payload orderhttpmapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.problems.BadRequest(c, err)
		return
	}
	input := orderhttpmapper.ToOnlineCheckoutInput(actorID(c), idempotencyKey(c), payload)
	placed, err := api.checkout(c.Request.Context(), input)
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order Placed",
		"order":   orderhttpmapper.FromProjection(placed),
	})
}

func (api *OrderAPI) checkout(ctx context.Context, input ordertypes.CheckoutInput) (*ordertypes.OrderProjection, error) {
	if api.workflows != nil {
		return api.workflows.Checkout(ctx, input)
	}
	return api.service.Checkout(ctx, input)
}

// Put /api/order/update-status
// Moves line items to a new status, or records a payment decision
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	var payload orderhttpmapper.UpdateStatusRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.problems.BadRequest(c, err)
		return
	}
	if payload.PaymentConfirmationAction != "" {
		api.confirmPayment(c, payload)
		return
	}
	result, err := api.service.UpdateItemStatuses(c.Request.Context(), orderhttpmapper.ToUpdateItemStatusInput(actorID(c), payload))
	if errors.Is(err, ordersapp.ErrNoChange) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "No items needed status update"})
		return
	}
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      "Item statuses updated successfully",
		"updatedItems": orderhttpmapper.FromUpdatedItems(result.UpdatedItems),
		"order":        orderhttpmapper.FromProjection(result.Order),
	})
}

func (api *OrderAPI) confirmPayment(c *gin.Context, payload orderhttpmapper.UpdateStatusRequest) {
	updated, err := api.service.ConfirmPayment(c.Request.Context(), orderhttpmapper.ToConfirmPaymentInput(actorID(c), payload))
	if errors.Is(err, ordersapp.ErrNoChange) {
		c.JSON(http.StatusOK, gin.H{"success": false, "message": "Payment decision already recorded"})
		return
	}
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	message := "Payment confirmed successfully."
	if updated.Order != nil && updated.Order.PaymentConfirmationStatus == domain.ConfirmationRejected {
		message = "Payment rejected successfully."
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"order":   orderhttpmapper.FromProjection(updated),
	})
}

// Get /api/order/list
// Lists the calling buyer's orders, newest first
func (api *OrderAPI) ListOrders(c *gin.Context) {
	result, err := api.service.ListOrders(c.Request.Context(), actorID(c))
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	orders := orderhttpmapper.FromProjectionList(result)
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders, "count": len(orders)})
}

// Get /api/order/seller-orders
// Lists every order for sellers, newest first
func (api *OrderAPI) ListSellerOrders(c *gin.Context) {
	result, err := api.service.ListSellerOrders(c.Request.Context(), actorID(c))
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orderhttpmapper.FromProjectionList(result)})
}

// Get /api/order/:id
// Loads one order visible to the caller
func (api *OrderAPI) GetOrder(c *gin.Context) {
	order, err := api.service.GetOrder(c.Request.Context(), ordertypes.OrderLookup{ActorID: actorID(c), OrderID: c.Param("id")})
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": orderhttpmapper.FromProjection(order)})
}
