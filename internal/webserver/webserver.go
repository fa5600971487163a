// Package webserver hosts the echo instance serving the storefront API. It
// owns middleware and listening; route handlers live in storeapi and register
// themselves through the Api helpers.
package webserver

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/paodecos/storefront/internal/app"
)

var server *WebServer

type WebServer struct {
	root   *echo.Echo
	appctx app.AppContext
}

type webValidator struct {
	validate *validator.Validate
}

func (v *webValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func Init(appctx app.AppContext) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.Debug = appctx.Config().System.Debug
	e.Validator = &webValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				zap.L().Warn("http request",
					zap.String("method", v.Method), zap.String("uri", v.URI),
					zap.Int("status", v.Status), zap.Error(v.Error))
			} else {
				zap.L().Debug("http request",
					zap.String("method", v.Method), zap.String("uri", v.URI),
					zap.Int("status", v.Status))
			}
			return nil
		},
	}))

	server = &WebServer{root: e, appctx: appctx}
	return server
}

// AppCtx exposes the application context to registered handlers.
func AppCtx() app.AppContext {
	return server.appctx
}

// Echo returns the underlying echo instance (used by tests).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func Listen() error {
	cfg := server.appctx.Config()
	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	zap.S().Infof("starting web server on %s", addr)
	return server.root.Start(addr)
}

func ApiGET(path string, h echo.HandlerFunc) {
	server.root.GET("/api"+path, h)
}

func ApiPOST(path string, h echo.HandlerFunc) {
	server.root.POST("/api"+path, h)
}

func ApiPUT(path string, h echo.HandlerFunc) {
	server.root.PUT("/api"+path, h)
}

func ApiDELETE(path string, h echo.HandlerFunc) {
	server.root.DELETE("/api"+path, h)
}
