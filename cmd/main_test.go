package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pressle-logger/services/ingest"
	"pressle-logger/utils"
)

func parse(t *testing.T, args ...string) (*pflag.FlagSet, options) {
	t.Helper()
	var opts options
	fs := newFlagSet(&opts)
	fs.SetOutput(io.Discard)
	require.NoError(t, fs.Parse(args))
	return fs, opts
}

func TestFlagDefaults(t *testing.T) {
	_, opts := parse(t)
	assert.Equal(t, 115200, opts.baud)
	assert.Equal(t, "info", opts.logLevel)
	assert.True(t, opts.fsync)
	assert.False(t, opts.headless)
	assert.False(t, opts.listPorts)
	assert.Empty(t, opts.csvPath)
	assert.Empty(t, opts.logFile)
}

func TestFlagsParse(t *testing.T) {
	fs, opts := parse(t,
		"-p", "/dev/ttyACM0",
		"-b", "9600",
		"-o", "out/run.csv",
		"--log", "run.log",
		"--log-level", "debug",
		"--fsync=false",
		"--headless",
		"--list-ports",
	)
	assert.Equal(t, "run.log", opts.logFile)
	assert.Equal(t, "debug", opts.logLevel)
	assert.True(t, opts.listPorts)

	cfg, err := loadConfig(fs, opts)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, "out/run.csv", cfg.Storage.CSVPath)
	assert.False(t, cfg.Storage.Fsync)
	assert.True(t, cfg.Display.Headless)
}

func TestUnknownFlagRejected(t *testing.T) {
	var opts options
	fs := newFlagSet(&opts)
	fs.SetOutput(io.Discard)
	assert.Error(t, fs.Parse([]string{"--cvs", "x.csv"}))
}

func TestLoadConfigPositional(t *testing.T) {
	fs, opts := parse(t, "/dev/cu.usbmodem101", "57600", "out/run.csv")
	cfg, err := loadConfig(fs, opts)
	require.NoError(t, err)
	assert.Equal(t, "/dev/cu.usbmodem101", cfg.Serial.Port)
	assert.Equal(t, 57600, cfg.Serial.BaudRate)
	assert.Equal(t, "out/run.csv", cfg.Storage.CSVPath)
	assert.True(t, cfg.Storage.Fsync)
	assert.False(t, cfg.Display.Headless)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logger.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
serial:
  port: /dev/ttyACM0
  baud_rate: 9600
display:
  headless: true
`), 0644))

	fs, opts := parse(t, "--config", path, "-b", "230400", "--fsync=false", "--metrics-addr", ":9102")
	cfg, err := loadConfig(fs, opts)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 230400, cfg.Serial.BaudRate)
	assert.True(t, cfg.Display.Headless)
	assert.False(t, cfg.Storage.Fsync)
	assert.Equal(t, ":9102", cfg.Metrics.ListenAddr)
}

func TestLoadConfigErrors(t *testing.T) {
	fs, opts := parse(t)
	_, err := loadConfig(fs, opts)
	assert.ErrorContains(t, err, "serial.port")

	fs, opts = parse(t, "/dev/x", "fast")
	_, err = loadConfig(fs, opts)
	assert.ErrorContains(t, err, "invalid baud rate")

	fs, opts = parse(t, "a", "1", "b", "c")
	_, err = loadConfig(fs, opts)
	assert.ErrorContains(t, err, "unexpected argument")
}

func TestOpenTransportSimulated(t *testing.T) {
	fs, opts := parse(t, "--simulate")
	cfg, err := loadConfig(fs, opts)
	require.NoError(t, err)

	tr, err := openTransport(cfg)
	require.NoError(t, err)
	defer tr.Close()
	_, ok := tr.(*ingest.SimulatedDevice)
	assert.True(t, ok)
}

func TestMetricsRouter(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := utils.NewMetrics(reg)
	m.TelemetryRows.Add(3)
	h := newMetricsRouter(reg)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pressle_telemetry_rows_written_total 3")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
