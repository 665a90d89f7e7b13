package main

import (
	"context"

	"github.com/arogya-systems/hip-exchange/internal/service"
)

func main() {
	ctx := context.Background()

	svc, err := service.NewHIPExchangeService(ctx)
	if err != nil {
		panic(err)
	}

	if err := svc.Start(ctx); err != nil {
		panic(err)
	}
}
