package conf

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sjzar/fluffy/internal/errors"
	"github.com/sjzar/fluffy/pkg/config"
)

const (
	AppName          = "fluffy"
	ServerConfigName = "fluffy-server"
	EnvPrefix        = "FLUFFY"
	EnvConfigDir     = "FLUFFY_DIR"
)

// LoadTUIConfig 加载 TUI 配置，配置文件不存在时自动创建
func LoadTUIConfig(configPath string) (*TUIConfig, *config.Manager, error) {

	if configPath == "" {
		configPath = os.Getenv(EnvConfigDir)
	}

	tcm, err := config.New(AppName, configPath, "", "", true)
	if err != nil {
		log.Error().Err(err).Msg("load tui config failed")
		return nil, nil, err
	}

	conf := &TUIConfig{}
	config.SetDefaults(tcm.Viper, TUIDefaults)

	if err := tcm.Load(conf); err != nil {
		log.Error().Err(err).Msg("load tui config failed")
		return nil, nil, err
	}
	if err := validate(conf.ScanInterval, conf.HTTPAddr); err != nil {
		log.Error().Err(err).Msg("load tui config failed")
		return nil, nil, err
	}
	conf.ConfigDir = tcm.Path

	b, _ := json.Marshal(conf)
	log.Info().Msgf("tui config: %s", string(b))

	return conf, tcm, nil
}

// LoadServiceConfig 加载服务配置，命令行参数优先
func LoadServiceConfig(configPath string, cmdConf map[string]any) (*ServerConfig, *config.Manager, error) {

	if configPath == "" {
		configPath = os.Getenv(EnvConfigDir)
	}

	scm, err := config.New(AppName, configPath, ServerConfigName, EnvPrefix, false)
	if err != nil {
		log.Error().Err(err).Msg("load server config failed")
		return nil, nil, err
	}

	conf := &ServerConfig{}
	config.SetDefaults(scm.Viper, ServerDefaults)

	// Load cmd Conf
	for key, value := range cmdConf {
		scm.SetConfig(key, value)
	}

	if err := scm.Load(conf); err != nil {
		log.Error().Err(err).Msg("load server config failed")
		return nil, nil, err
	}
	if err := validate(conf.ScanInterval, conf.HTTPAddr); err != nil {
		log.Error().Err(err).Msg("load server config failed")
		return nil, nil, err
	}

	b, _ := json.Marshal(conf)
	log.Info().Msgf("server config: %s", string(b))

	return conf, scm, nil
}

// validate 检查扫描间隔和监听地址，空地址使用默认值
func validate(scanInterval time.Duration, httpAddr string) error {
	if scanInterval < 0 {
		return errors.ConfigInvalid("scan_interval", fmt.Errorf("must not be negative, got %s", scanInterval))
	}
	if httpAddr != "" {
		if _, _, err := net.SplitHostPort(httpAddr); err != nil {
			return errors.ConfigInvalid("http_addr", err)
		}
	}
	return nil
}
