package footprint

import "time"

// TuningConfig holds the internal magic numbers for calibration and the
// analysis flow. These are currently static but centralized here to allow
// for future remote configuration.
type TuningConfig struct {
	// Calibration geometry
	MinBandWidthPct float64 `json:"min_band_width_pct"` // Default: 5 (narrowest draggable band)
	DefaultForefoot Band    `json:"default_forefoot"`
	DefaultArch     Band    `json:"default_arch"`
	DefaultHeel     Band    `json:"default_heel"`

	// Focus seeding (smartcrop)
	FocusAspectW int `json:"focus_aspect_w"` // Default: 2 (portrait footprint)
	FocusAspectH int `json:"focus_aspect_h"` // Default: 5

	// Cosmetic analysis progress animation. Purely presentation, the
	// computation itself is synchronous.
	ProgressDuration time.Duration `json:"progress_duration"`
	ProgressTick     time.Duration `json:"progress_tick"`
}

// DefaultTuningConfig returns the standard calibration values.
func DefaultTuningConfig() TuningConfig {
	return TuningConfig{
		MinBandWidthPct:  5,
		DefaultForefoot:  Band{X: 25, Y: 18, Width: 50},
		DefaultArch:      Band{X: 32, Y: 48, Width: 36},
		DefaultHeel:      Band{X: 30, Y: 78, Width: 40},
		FocusAspectW:     2,
		FocusAspectH:     5,
		ProgressDuration: 3 * time.Second,
		ProgressTick:     50 * time.Millisecond,
	}
}
