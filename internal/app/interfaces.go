package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"

	"github.com/paodecos/storefront/config"
	"github.com/paodecos/storefront/internal/cart"
	"github.com/paodecos/storefront/internal/catalog"
	"github.com/paodecos/storefront/internal/checkout"
)

type ConfigProvider interface {
	Config() *config.AppConfig
}

type CatalogProvider interface {
	Catalog() *catalog.Catalog
}

type CartProvider interface {
	Cart() *cart.Store
}

type CheckoutProvider interface {
	Checkout() *checkout.Service
}

type BusProvider interface {
	Bus() EventBus.Bus
}

type SchedulerProvider interface {
	Scheduler() *cron.Cron
}

// AppContext is what the web layer consumes; handlers never reach into
// Application internals directly.
type AppContext interface {
	ConfigProvider
	CatalogProvider
	CartProvider
	CheckoutProvider
	BusProvider
	SchedulerProvider
}
