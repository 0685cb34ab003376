package footprint

import (
	"strings"

	"fyne.io/fyne/v2"
	"github.com/marcusgo82/stridelab/config"
	"github.com/marcusgo82/stridelab/util"
	"github.com/marcusgo82/stridelab/util/log"
	"github.com/zalando/go-keyring"
)

// Preference keys and defaults for the calibration and advisory settings.
const (
	sensitivityPrefKey      = "scan_sensitivity"
	contrastPrefKey         = "scan_contrast"
	shoeSizePrefKey         = "shoe_size"
	advisoryEndpointPrefKey = "advisory_endpoint"
	advisoryModelPrefKey    = "advisory_model"

	// DefaultSensitivity admits a balanced share of contact pixels.
	DefaultSensitivity = 50.0
	// DefaultContrast is the neutral contrast setting.
	DefaultContrast = 100.0
	// SensitivityMin and SensitivityMax bound the sensitivity slider.
	SensitivityMin = 0.0
	SensitivityMax = 100.0
	// ContrastMin and ContrastMax bound the contrast slider.
	ContrastMin = 50.0
	ContrastMax = 250.0

	defaultShoeSize         = "US 9"
	defaultAdvisoryEndpoint = "https://api.openai.com/v1/chat/completions"
	defaultAdvisoryModel    = "gpt-4o-mini"

	advisoryKeyringUser = "advisory_api_key"
)

// Config holds the user-adjustable footprint settings, backed by Fyne
// preferences. The advisory API key lives in the system keyring, never in
// the preferences file.
type Config struct {
	fyne.Preferences
}

// NewConfig creates a Config over the given preferences store.
func NewConfig(p fyne.Preferences) *Config {
	return &Config{Preferences: p}
}

// GetSensitivity returns the scan sensitivity, clamped to [0,100].
func (c *Config) GetSensitivity() float64 {
	return util.Clamp(c.FloatWithFallback(sensitivityPrefKey, DefaultSensitivity), SensitivityMin, SensitivityMax)
}

// SetSensitivity stores the scan sensitivity, clamped to [0,100].
func (c *Config) SetSensitivity(v float64) {
	c.SetFloat(sensitivityPrefKey, util.Clamp(v, SensitivityMin, SensitivityMax))
}

// GetContrast returns the scan contrast, clamped to [50,250].
func (c *Config) GetContrast() float64 {
	return util.Clamp(c.FloatWithFallback(contrastPrefKey, DefaultContrast), ContrastMin, ContrastMax)
}

// SetContrast stores the scan contrast, clamped to [50,250].
func (c *Config) SetContrast(v float64) {
	c.SetFloat(contrastPrefKey, util.Clamp(v, ContrastMin, ContrastMax))
}

// GetShoeSize returns the user's shoe size label.
func (c *Config) GetShoeSize() string {
	return c.StringWithFallback(shoeSizePrefKey, defaultShoeSize)
}

// SetShoeSize stores the user's shoe size label.
func (c *Config) SetShoeSize(size string) {
	c.SetString(shoeSizePrefKey, size)
}

// GetAdvisoryEndpoint returns the generative advisory endpoint URL.
func (c *Config) GetAdvisoryEndpoint() string {
	return c.StringWithFallback(advisoryEndpointPrefKey, defaultAdvisoryEndpoint)
}

// SetAdvisoryEndpoint stores the generative advisory endpoint URL.
func (c *Config) SetAdvisoryEndpoint(url string) {
	c.SetString(advisoryEndpointPrefKey, url)
}

// GetAdvisoryModel returns the model name sent to the advisory endpoint.
func (c *Config) GetAdvisoryModel() string {
	return c.StringWithFallback(advisoryModelPrefKey, defaultAdvisoryModel)
}

// SetAdvisoryModel stores the model name sent to the advisory endpoint.
func (c *Config) SetAdvisoryModel(model string) {
	c.SetString(advisoryModelPrefKey, model)
}

// GetAdvisoryAPIKey retrieves the advisory API key from the system
// keyring. Returns the empty string when no key is stored.
func (c *Config) GetAdvisoryAPIKey() string {
	key, err := keyring.Get(keyringService(), advisoryKeyringUser)
	if err != nil {
		if err != keyring.ErrNotFound {
			log.Printf("Failed to read advisory API key from keyring: %v", err)
		}
		return ""
	}
	return key
}

// SetAdvisoryAPIKey stores the advisory API key in the system keyring. An
// empty key deletes the entry.
func (c *Config) SetAdvisoryAPIKey(key string) {
	if key == "" {
		if err := keyring.Delete(keyringService(), advisoryKeyringUser); err != nil && err != keyring.ErrNotFound {
			log.Printf("Failed to delete advisory API key from keyring: %v", err)
		}
		return
	}
	if err := keyring.Set(keyringService(), advisoryKeyringUser, key); err != nil {
		log.Printf("Failed to store advisory API key in keyring: %v", err)
	}
}

func keyringService() string {
	return strings.ToLower(config.AppName)
}
