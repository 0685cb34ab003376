//go:build !windows && !linux

package hotkey

import "github.com/marcusgo82/stridelab/util/log"

// Actions are the application operations bound to global shortcuts.
type Actions struct {
	Rescan func()
	Reset  func()
}

// StartListeners is a no-op on platforms where global hotkeys need main
// thread cooperation we do not wire up.
func StartListeners(actions Actions) {
	log.Println("Global hotkeys not supported on this platform")
}
