package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sjzar/fluffy/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTUIConfigDefaults(t *testing.T) {
	dir := t.TempDir()

	conf, cm, err := LoadTUIConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, conf.ConfigDir)
	assert.Empty(t, conf.DLLs)
	assert.Equal(t, 5*time.Second, conf.ScanInterval)
	assert.True(t, conf.AutoRefresh)
	assert.Equal(t, DefaultHTTPAddr, conf.HTTPAddr)

	_, err = os.Stat(filepath.Join(dir, AppName+".json"))
	require.NoError(t, err, "config file should be created on first run")

	require.NoError(t, cm.SetConfig("dlls", []string{"a.dll", "b.dll"}))
	require.NoError(t, cm.SetConfig("last_selected_app", "demo.exe"))

	reloaded, _, err := LoadTUIConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.dll", "b.dll"}, reloaded.DLLs)
	assert.Equal(t, "demo.exe", reloaded.LastSelectedApp)
}

func TestLoadTUIConfigFile(t *testing.T) {
	dir := t.TempDir()
	doc := `{"dlls":["C:\\hooks\\x.dll"],"last_selected_app":"notepad.exe","scan_interval":"2s","auto_refresh":false}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName+".json"), []byte(doc), 0644))

	conf, _, err := LoadTUIConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\hooks\x.dll`}, conf.DLLs)
	assert.Equal(t, "notepad.exe", conf.LastSelectedApp)
	assert.Equal(t, 2*time.Second, conf.ScanInterval)
	assert.False(t, conf.AutoRefresh)
}

func TestLoadServiceConfigCmdOverride(t *testing.T) {
	dir := t.TempDir()

	conf, _, err := LoadServiceConfig(dir, map[string]any{"http_addr": "127.0.0.1:9000"})
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", conf.GetHTTPAddr())
	assert.Equal(t, DefaultScanInterval, conf.GetScanInterval())
}

func TestLoadTUIConfigInvalid(t *testing.T) {
	dir := t.TempDir()
	doc := `{"scan_interval":"-1s"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, AppName+".json"), []byte(doc), 0644))

	_, _, err := LoadTUIConfig(dir)
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeConfig, errors.GetType(err))
	assert.Contains(t, err.Error(), "scan_interval")
}

func TestLoadServiceConfigInvalidAddr(t *testing.T) {
	_, _, err := LoadServiceConfig(t.TempDir(), map[string]any{"http_addr": "localhost"})
	require.Error(t, err)
	assert.Equal(t, errors.ErrTypeConfig, errors.GetType(err))
	assert.Contains(t, err.Error(), "http_addr")
}
