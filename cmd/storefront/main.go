package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/paodecos/storefront/config"
	"github.com/paodecos/storefront/internal/app"
	"github.com/paodecos/storefront/internal/storeapi"
	"github.com/paodecos/storefront/internal/webserver"
)

var (
	configFile = flag.String("c", "storefront.yml", "config file path")
	printConf  = flag.Bool("p", false, "print effective configuration and exit")
)

func main() {
	flag.Parse()

	cfg := config.LoadConfig(*configFile)
	if *printConf {
		fmt.Printf("%+v\n", *cfg)
		return
	}

	application := app.NewApplication(cfg)
	application.Init(cfg)
	defer application.Release()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	webserver.Init(application)
	storeapi.RegisterRoutes()

	// Page-load equivalent: populate the catalog before the first visitor,
	// without blocking startup on a slow feed.
	go application.InitialLoad(ctx)

	errCh := make(chan error, 1)
	go func() {
		errCh <- webserver.Listen()
	}()

	select {
	case err := <-errCh:
		zap.S().Fatalf("web server stopped: %v", err)
	case <-ctx.Done():
		zap.S().Info("shutdown signal received")
	}
}
