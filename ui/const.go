package ui

import "time"

const (
	mainWindowTitle  = "StrideLab - Footprint Analyzer"
	mainWindowWidth  = 980
	mainWindowHeight = 680

	// bandHeightPx is the on-screen height of a measurement band.
	bandHeightPx = 28
	// edgeGrabPx is how close to a band edge a drag must start to count
	// as a resize instead of a move.
	edgeGrabPx = 10

	// settleDelay debounces slider-driven overlay refreshes.
	settleDelay = 60 * time.Millisecond
)
