package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_DefaultConfigIsValid(t *testing.T) {
	cfg := GetDefaultConfig()
	require.NoError(t, Validate(cfg))
}

func TestValidate_MissingListenAddress(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.ListenAddress = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Server.ListenAddress")
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Logging.Level = "VERBOSE"

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Logging.Level")
}

func TestValidate_ZeroShutdownTimeout(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.ShutdownTimeout = 0

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ShutdownTimeout")
}

func TestValidate_SampleRateOutOfRange(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Telemetry.SampleRate = 1.5

	err := Validate(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SampleRate")
}

func TestValidate_NegativeMaxInFlight(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.MaxInFlightPerConn = -1

	err := Validate(cfg)
	require.Error(t, err)
}

func TestValidate_HandlerTimeoutOptional(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.Server.HandlerTimeout = 0
	require.NoError(t, Validate(cfg))

	cfg.Server.HandlerTimeout = time.Second
	require.NoError(t, Validate(cfg))
}
