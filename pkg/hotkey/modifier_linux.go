package hotkey

import "golang.design/x/hotkey"

// modAlt is the Alt modifier for this platform (Mod1 maps to Alt on X11).
const modAlt = hotkey.Mod1
