package types

// RestockInput adds units to a product's stock on behalf of a seller.
type RestockInput struct {
	ActorID   string
	ProductID string
	Quantity  int
}
