package conf

import "time"

const (
	DefaultHTTPAddr     = "127.0.0.1:5031"
	DefaultScanInterval = 5 * time.Second
)

type TUIConfig struct {
	ConfigDir       string        `mapstructure:"-" json:"config_dir"`
	DLLs            []string      `mapstructure:"dlls" json:"dlls"`
	LastSelectedApp string        `mapstructure:"last_selected_app" json:"last_selected_app"`
	ScanInterval    time.Duration `mapstructure:"scan_interval" json:"scan_interval"`
	AutoRefresh     bool          `mapstructure:"auto_refresh" json:"auto_refresh"`
	HTTPEnabled     bool          `mapstructure:"http_enabled" json:"http_enabled"`
	HTTPAddr        string        `mapstructure:"http_addr" json:"http_addr"`
}

var TUIDefaults = map[string]any{
	"dlls":          []string{},
	"scan_interval": DefaultScanInterval.String(),
	"auto_refresh":  true,
	"http_addr":     DefaultHTTPAddr,
}
