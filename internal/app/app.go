package app

import (
	"context"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/robfig/cron/v3"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/paodecos/storefront/config"
	"github.com/paodecos/storefront/internal/cart"
	"github.com/paodecos/storefront/internal/catalog"
	"github.com/paodecos/storefront/internal/checkout"
	"github.com/paodecos/storefront/internal/domain"
)

type Application struct {
	appConfig *config.AppConfig
	bdb       *bbolt.DB
	bus       EventBus.Bus
	sched     *cron.Cron
	catalog   *catalog.Catalog
	cart      *cart.Store
	checkout  *checkout.Service
}

// Ensure Application implements all provider interfaces
var (
	_ ConfigProvider    = (*Application)(nil)
	_ CatalogProvider   = (*Application)(nil)
	_ CartProvider      = (*Application)(nil)
	_ CheckoutProvider  = (*Application)(nil)
	_ BusProvider       = (*Application)(nil)
	_ SchedulerProvider = (*Application)(nil)
	_ AppContext        = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig { return a.appConfig }

func (a *Application) Catalog() *catalog.Catalog { return a.catalog }

func (a *Application) Cart() *cart.Store { return a.cart }

func (a *Application) Checkout() *checkout.Service { return a.checkout }

func (a *Application) Bus() EventBus.Bus { return a.bus }

func (a *Application) Scheduler() *cron.Cron { return a.sched }

func (a *Application) Init(cfg *config.AppConfig) {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	if err := os.MkdirAll(cfg.System.Workdir, 0o755); err != nil {
		zap.S().Errorf("workdir create failed: %v", err)
	}

	// Cart persistence lives in a single bbolt file, the local key-value
	// store standing in for the browser's local storage. If the file cannot
	// be opened the cart degrades to memory-only rather than failing startup.
	bdb, err := bbolt.Open(cfg.GetCartStoreFile(), 0o600, &bbolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		zap.S().Errorf("cart store open failed, running memory-only: %v", err)
		bdb = nil
	}
	a.bdb = bdb

	a.bus = EventBus.New()

	a.catalog, err = catalog.New(cfg, a.bus)
	if err != nil {
		panic(err)
	}
	a.cart, err = cart.NewStore(bdb, a.bus)
	if err != nil {
		zap.S().Errorf("cart store init failed, running memory-only: %v", err)
		a.cart, _ = cart.NewStore(nil, a.bus)
	}
	a.checkout = checkout.New(cfg, checkout.LogOpener{})

	a.subscribeObservers()
	a.initJob()
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// subscribeObservers wires default bus observers. UI collaborators subscribe
// to the same topics instead of the stores calling back into rendering code.
func (a *Application) subscribeObservers() {
	_ = a.bus.Subscribe(domain.EventCartUpdated, func(itemCount int) {
		zap.L().Debug("cart updated", zap.Int("item_count", itemCount))
	})
	_ = a.bus.Subscribe(domain.EventCatalogLoaded, func(count int) {
		zap.L().Debug("catalog loaded", zap.Int("products", count))
	})
	_ = a.bus.Subscribe(domain.EventCatalogError, func(err error) {
		zap.L().Debug("catalog load error", zap.Error(err))
	})
}

// InitialLoad performs the page-load catalog fetch. A failure is recoverable:
// the catalog stays empty and the UI shows the retry affordance backed by the
// reload endpoint.
func (a *Application) InitialLoad(ctx context.Context) {
	if _, err := a.catalog.Load(ctx); err != nil {
		zap.S().Warnf("initial catalog load failed: %v", err)
	}
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.bdb != nil {
		_ = a.bdb.Close()
	}
	_ = zap.L().Sync()
}
