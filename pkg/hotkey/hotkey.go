//go:build windows || linux

package hotkey

import (
	"time"

	"golang.design/x/hotkey"

	"github.com/marcusgo82/stridelab/util/log"
)

// Actions are the application operations bound to global shortcuts.
type Actions struct {
	// Rescan re-runs the contact scan with the current settings.
	Rescan func()
	// Reset discards the loaded image and returns to the upload step.
	Reset func()
}

// StartListeners initializes and starts the global hotkey listeners.
// It registers shortcuts for Rescan and Reset.
func StartListeners(actions Actions) {
	// Ctrl + Alt + S (Rescan)
	hkRescan := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, modAlt}, hotkey.KeyS)

	// Ctrl + Alt + R (Reset)
	hkReset := hotkey.New([]hotkey.Modifier{hotkey.ModCtrl, modAlt}, hotkey.KeyR)

	// Helper to register and listen
	registerAndListen := func(hk *hotkey.Hotkey, name string, action func()) {
		if action == nil {
			return
		}
		if err := hk.Register(); err != nil {
			log.Printf("Failed to register hotkey %s: %v", name, err)
			return
		}
		log.Printf("Registered hotkey: %s", name)

		go func() {
			for range hk.Keydown() {
				log.Debugf("Hotkey pressed: %s", name)
				action()
				// Simple debounce; the channel handles repeats reasonably well
				time.Sleep(200 * time.Millisecond)
			}
		}()
	}

	registerAndListen(hkRescan, "Rescan Footprint", actions.Rescan)
	registerAndListen(hkReset, "Reset Session", actions.Reset)
}
