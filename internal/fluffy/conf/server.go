package conf

import "time"

type ServerConfig struct {
	HTTPAddr     string        `mapstructure:"http_addr" json:"http_addr"`
	ScanInterval time.Duration `mapstructure:"scan_interval" json:"scan_interval"`
	DLLs         []string      `mapstructure:"dlls" json:"dlls"`
}

var ServerDefaults = map[string]any{
	"scan_interval": DefaultScanInterval.String(),
}

func (c *ServerConfig) GetHTTPAddr() string {
	if c.HTTPAddr == "" {
		c.HTTPAddr = DefaultHTTPAddr
	}
	return c.HTTPAddr
}

func (c *ServerConfig) GetScanInterval() time.Duration {
	if c.ScanInterval <= 0 {
		return DefaultScanInterval
	}
	return c.ScanInterval
}

func (c *ServerConfig) GetDLLs() []string {
	return c.DLLs
}
