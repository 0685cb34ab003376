package hotkey

import "golang.design/x/hotkey"

// modAlt is the Alt modifier for this platform.
const modAlt = hotkey.ModAlt
