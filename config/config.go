package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host string `yaml:"host" json:"host"`
	Port int    `yaml:"port" json:"port"`
}

// FeedConfig describes the remote product feed. Format is either
// "sheetdb" (JSON array of row objects) or "csv" (published CSV export).
type FeedConfig struct {
	URL     string `yaml:"url" json:"url"`
	Format  string `yaml:"format" json:"format"`
	Timeout int    `yaml:"timeout" json:"timeout"` // seconds
	Refresh string `yaml:"refresh" json:"refresh"` // cron spec, empty disables
}

type CartConfig struct {
	StoreFile string `yaml:"store_file" json:"store_file"`
}

type CheckoutConfig struct {
	Phone    string `yaml:"phone" json:"phone"`
	Greeting string `yaml:"greeting" json:"greeting"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System   SysConfig      `yaml:"system" json:"system"`
	Web      WebConfig      `yaml:"web" json:"web"`
	Feed     FeedConfig     `yaml:"feed" json:"feed"`
	Cart     CartConfig     `yaml:"cart" json:"cart"`
	Checkout CheckoutConfig `yaml:"checkout" json:"checkout"`
	Logger   LogConfig      `yaml:"logger" json:"logger"`
}

func (c *AppConfig) GetCartStoreFile() string {
	if c.Cart.StoreFile != "" {
		return c.Cart.StoreFile
	}
	return filepath.Join(c.System.Workdir, "cart.db")
}

func (c *AppConfig) GetLogDir() string {
	return filepath.Join(c.System.Workdir, "logs")
}

var DefaultAppConfig = &AppConfig{
	System: SysConfig{
		Appid:    "Storefront",
		Location: "America/Argentina/Buenos_Aires",
		Workdir:  "/var/storefront",
		Debug:    true,
	},
	Web: WebConfig{
		Host: "0.0.0.0",
		Port: 1816,
	},
	Feed: FeedConfig{
		URL:     "https://sheetdb.io/api/v1/2su9b1nwyjo5q",
		Format:  "sheetdb",
		Timeout: 10,
		Refresh: "",
	},
	Cart: CartConfig{
		StoreFile: "",
	},
	Checkout: CheckoutConfig{
		Phone:    "5493472580548",
		Greeting: "¡Hola! Me interesa realizar una compra:",
	},
	Logger: LogConfig{
		Mode:       "development",
		FileEnable: true,
		Filename:   "/var/storefront/storefront.log",
	},
}

func setEnvValue(name string, val *string) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue
	}
}

func setEnvBoolValue(name string, val *bool) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = evalue == "true" || evalue == "1" || evalue == "on"
	}
}

func setEnvIntValue(name string, val *int) {
	evalue := os.Getenv(name)
	if evalue != "" {
		*val = cast.ToInt(evalue)
	}
}

// LoadConfig reads the yaml configuration file and applies environment
// overrides. A missing or unreadable file yields the built-in defaults.
func LoadConfig(cfile string) *AppConfig {
	cfg := new(AppConfig)
	*cfg = *DefaultAppConfig
	if cfile != "" {
		if data, err := os.ReadFile(cfile); err == nil {
			_ = yaml.Unmarshal(data, cfg)
		}
	}

	setEnvValue("STOREFRONT_SYSTEM_WORKDIR", &cfg.System.Workdir)
	setEnvBoolValue("STOREFRONT_SYSTEM_DEBUG", &cfg.System.Debug)
	setEnvValue("STOREFRONT_WEB_HOST", &cfg.Web.Host)
	setEnvIntValue("STOREFRONT_WEB_PORT", &cfg.Web.Port)
	setEnvValue("STOREFRONT_FEED_URL", &cfg.Feed.URL)
	setEnvValue("STOREFRONT_FEED_FORMAT", &cfg.Feed.Format)
	setEnvIntValue("STOREFRONT_FEED_TIMEOUT", &cfg.Feed.Timeout)
	setEnvValue("STOREFRONT_FEED_REFRESH", &cfg.Feed.Refresh)
	setEnvValue("STOREFRONT_CART_STORE_FILE", &cfg.Cart.StoreFile)
	setEnvValue("STOREFRONT_CHECKOUT_PHONE", &cfg.Checkout.Phone)
	setEnvValue("STOREFRONT_LOGGER_MODE", &cfg.Logger.Mode)
	setEnvBoolValue("STOREFRONT_LOGGER_FILE_ENABLE", &cfg.Logger.FileEnable)
	setEnvValue("STOREFRONT_LOGGER_FILENAME", &cfg.Logger.Filename)

	cfg.Feed.Format = strings.ToLower(strings.TrimSpace(cfg.Feed.Format))
	if cfg.Feed.Format == "" {
		cfg.Feed.Format = "sheetdb"
	}
	if cfg.Feed.Timeout <= 0 {
		cfg.Feed.Timeout = 10
	}
	return cfg
}
