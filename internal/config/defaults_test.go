package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults_EmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultServerHost, cfg.Server.Host)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, DefaultPrimaryPath, cfg.Dataset.PrimaryPath)
	assert.Empty(t, cfg.Dataset.SecondaryPath)
	assert.Equal(t, ",", cfg.Dataset.Delimiter)
	assert.Equal(t, 200, cfg.Dashboard.BubbleSizeDefault)
	assert.Equal(t, 50, cfg.Dashboard.BubbleSizeMin)
	assert.Equal(t, 500, cfg.Dashboard.BubbleSizeMax)
	assert.Equal(t, "opportunity_y", cfg.Dashboard.AxisLayout)
	assert.Equal(t, DefaultRedisTTL, cfg.Redis.DefaultTTL)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestApplyDefaults_PreserveExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Server.Port = 9999
	cfg.Dataset.ReloadInterval = time.Minute
	cfg.Dashboard.BubbleSizeDefault = 120
	ApplyDefaults(cfg)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Dataset.ReloadInterval)
	assert.Equal(t, 120, cfg.Dashboard.BubbleSizeDefault)
}

func TestApplyDefaults_Nil(t *testing.T) {
	assert.NotPanics(t, func() { ApplyDefaults(nil) })
}

func TestNewDefaultConfig_MetricsEnabled(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Redis.Enabled)
}

//Personal.AI order the ending
