/*
 * Order Engine API
 *
 * Point-of-sale and online checkout, per-item fulfillment, and stock restocking.
 *
 * API version: 1.0.0
 */

package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds routes to an existing gin engine. Middleware
// must be registered on the engine before calling this.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}

	return router
}

// DefaultHandleFunc answers routes without a handler.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

type ApiHandleFunctions struct {

	// Routes for the OrderAPI part of the API
	OrderAPI OrderAPI
	// Routes for the InventoryAPI part of the API
	InventoryAPI InventoryAPI
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{
			"CreatePOSOrder",
			http.MethodPost,
			"/api/order/create-pos",
			handleFunctions.OrderAPI.CreatePOSOrder,
		},
		{
			"CreateOrder",
			http.MethodPost,
			"/api/order/create",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/api/order/update-status",
			handleFunctions.OrderAPI.UpdateOrderStatus,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/api/order/list",
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"ListSellerOrders",
			http.MethodGet,
			"/api/order/seller-orders",
			handleFunctions.OrderAPI.ListSellerOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/api/order/:id",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"UpdateStock",
			http.MethodPut,
			"/api/product/update-stock",
			handleFunctions.InventoryAPI.UpdateStock,
		},
	}
}
