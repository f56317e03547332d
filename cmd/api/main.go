package main

import (
	"context"
	"log"

	"github.com/Apurer/order-engine/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("order engine api exited: %v", err)
	}
}
