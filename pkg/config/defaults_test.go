package config

import (
	"testing"
	"time"

	"github.com/bitrpc/bitrpc/internal/bytesize"
	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{
			ListenAddress:      "0.0.0.0:1234",
			MaxFrameBytes:      bytesize.ByteSize(1024),
			MaxInFlightPerConn: 7,
		},
		ShutdownTimeout: time.Minute,
	}
	ApplyDefaults(cfg)

	assert.Equal(t, "0.0.0.0:1234", cfg.Server.ListenAddress)
	assert.Equal(t, bytesize.ByteSize(1024), cfg.Server.MaxFrameBytes)
	assert.Equal(t, 7, cfg.Server.MaxInFlightPerConn)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, "INFO", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "stdout", cfg.Logging.Output)
	assert.Equal(t, "127.0.0.1:9753", cfg.Server.ListenAddress)
	assert.Equal(t, bytesize.ByteSize(16*bytesize.MiB), cfg.Server.MaxFrameBytes)
	assert.Equal(t, 1024, cfg.Server.MaxInFlightPerConn)
	assert.Equal(t, 5*time.Second, cfg.Client.ConnectTimeout)
	assert.Equal(t, 30*time.Second, cfg.Client.CallTimeoutDefault)
	assert.Equal(t, 4096, cfg.Client.MaxInFlight)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestApplyDefaults_LowercaseLevelNormalized(t *testing.T) {
	cfg := &Config{Logging: LoggingConfig{Level: "debug"}}
	ApplyDefaults(cfg)
	assert.Equal(t, "DEBUG", cfg.Logging.Level)
}

func TestApplyMetricsDefaults_PortOnlySetWhenEnabled(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.Equal(t, 0, cfg.Metrics.Port)

	cfg2 := &Config{Metrics: MetricsConfig{Enabled: true}}
	ApplyDefaults(cfg2)
	assert.Equal(t, 9090, cfg2.Metrics.Port)
}

func TestGetDefaultConfig_IsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	assert.NoError(t, Validate(cfg))
}
