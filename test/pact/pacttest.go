//go:build pact
// +build pact

package pacttest

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "order-engine-api"
	ConsumerName = "seller-portal"

	StateProductInStock    = "product pact-product has 10 units in stock"
	StateProductOutOfStock = "product pact-product is out of stock"
	StateOrderExists       = "order 00000000-0000-4000-8000-000000000001 exists"
	StateNoOrders          = "no orders exist"
)

const (
	SellerID  = "pact-seller"
	ProductID = "pact-product"
	MissingID = "00000000-0000-4000-8000-0000000000ff"
	InStock   = 10
	UnitPrice = "3.50"
)

// ExistingOrderID is the storage id the provider assigns to the first order
// placed after a reset.
var ExistingOrderID = SequentialID(1)

// SequentialID renders the deterministic ids used by the provider.
func SequentialID(n int) string {
	return fmt.Sprintf("00000000-0000-4000-8000-%012x", n)
}

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the seller portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExamplePOSOrderPayload provides stable request data for counter sales.
func ExamplePOSOrderPayload(quantity int) map[string]any {
	return map[string]any{
		"items": []map[string]any{{"product": ProductID, "quantity": quantity}},
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
