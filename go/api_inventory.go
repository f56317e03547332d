package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	inventoryhttpmapper "github.com/Apurer/order-engine/internal/domains/inventory/adapters/http/mapper"
	inventoryports "github.com/Apurer/order-engine/internal/domains/inventory/ports"
)

// InventoryAPI exposes stock maintenance to sellers.
type InventoryAPI struct {
	service  inventoryports.Service
	problems *ErrorResponder
}

// NewInventoryAPI creates an InventoryAPI backed by the inventory service.
func NewInventoryAPI(service inventoryports.Service, errs *ErrorResponder) InventoryAPI {
	return InventoryAPI{service: service, problems: errs}
}

// Put /api/product/update-stock
// Adds units to a product and marks it available
func (api *InventoryAPI) UpdateStock(c *gin.Context) {
	var payload inventoryhttpmapper.UpdateStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.problems.BadRequest(c, err)
		return
	}
	product, err := api.service.Restock(c.Request.Context(), inventoryhttpmapper.ToRestockInput(actorID(c), payload))
	if err != nil {
		api.problems.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Stock updated successfully!",
		"product": inventoryhttpmapper.FromDomainProduct(product),
	})
}
