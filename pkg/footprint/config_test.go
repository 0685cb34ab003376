package footprint

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/zalando/go-keyring"
)

func newTestConfig(t *testing.T) *Config {
	t.Helper()
	return NewConfig(test.NewApp().Preferences())
}

func TestConfigDefaults(t *testing.T) {
	cfg := newTestConfig(t)

	assert.Equal(t, DefaultSensitivity, cfg.GetSensitivity())
	assert.Equal(t, DefaultContrast, cfg.GetContrast())
	assert.Equal(t, "US 9", cfg.GetShoeSize())
	assert.NotEmpty(t, cfg.GetAdvisoryEndpoint())
	assert.NotEmpty(t, cfg.GetAdvisoryModel())
}

func TestConfigSensitivityClamped(t *testing.T) {
	cfg := newTestConfig(t)

	cfg.SetSensitivity(150)
	assert.Equal(t, SensitivityMax, cfg.GetSensitivity())

	cfg.SetSensitivity(-20)
	assert.Equal(t, SensitivityMin, cfg.GetSensitivity())

	cfg.SetSensitivity(62.5)
	assert.Equal(t, 62.5, cfg.GetSensitivity())
}

func TestConfigContrastClamped(t *testing.T) {
	cfg := newTestConfig(t)

	cfg.SetContrast(10)
	assert.Equal(t, ContrastMin, cfg.GetContrast())

	cfg.SetContrast(999)
	assert.Equal(t, ContrastMax, cfg.GetContrast())

	cfg.SetContrast(180)
	assert.Equal(t, 180.0, cfg.GetContrast())
}

func TestConfigShoeSize(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.SetShoeSize("EU 43")
	assert.Equal(t, "EU 43", cfg.GetShoeSize())
}

func TestConfigAdvisoryAPIKeyRoundTrip(t *testing.T) {
	keyring.MockInit()
	cfg := newTestConfig(t)

	assert.Empty(t, cfg.GetAdvisoryAPIKey())

	cfg.SetAdvisoryAPIKey("sk-test-123")
	assert.Equal(t, "sk-test-123", cfg.GetAdvisoryAPIKey())

	// Empty key deletes the entry.
	cfg.SetAdvisoryAPIKey("")
	assert.Empty(t, cfg.GetAdvisoryAPIKey())
}
