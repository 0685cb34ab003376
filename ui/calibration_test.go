package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marcusgo82/stridelab/pkg/footprint"
)

// Default geometry on a 400x400 display:
// forefoot x=100..300 centerY=72, arch x=128..272 centerY=192,
// heel x=120..280 centerY=312. Band strips are bandHeightPx tall.
func defaultTestBands() map[footprint.BandKind]footprint.Band {
	t := footprint.DefaultTuningConfig()
	return map[footprint.BandKind]footprint.Band{
		footprint.BandForefoot: t.DefaultForefoot,
		footprint.BandArch:     t.DefaultArch,
		footprint.BandHeel:     t.DefaultHeel,
	}
}

func TestHitTestBandInterior(t *testing.T) {
	kind, action, ok := hitTestBands(defaultTestBands(), 200, 72, 400, 400)
	assert.True(t, ok)
	assert.Equal(t, footprint.BandForefoot, kind)
	assert.Equal(t, footprint.ActionMove, action)

	kind, action, ok = hitTestBands(defaultTestBands(), 200, 312, 400, 400)
	assert.True(t, ok)
	assert.Equal(t, footprint.BandHeel, kind)
	assert.Equal(t, footprint.ActionMove, action)
}

func TestHitTestBandEdges(t *testing.T) {
	// Left edge of the forefoot band, inside the grab zone.
	kind, action, ok := hitTestBands(defaultTestBands(), 95, 72, 400, 400)
	assert.True(t, ok)
	assert.Equal(t, footprint.BandForefoot, kind)
	assert.Equal(t, footprint.ActionResizeLeft, action)

	// Right edge.
	kind, action, ok = hitTestBands(defaultTestBands(), 305, 72, 400, 400)
	assert.True(t, ok)
	assert.Equal(t, footprint.BandForefoot, kind)
	assert.Equal(t, footprint.ActionResizeRight, action)
}

func TestHitTestEdgeBeatsInterior(t *testing.T) {
	// A grab just inside the band but within the edge zone resizes.
	_, action, ok := hitTestBands(defaultTestBands(), 102, 72, 400, 400)
	assert.True(t, ok)
	assert.Equal(t, footprint.ActionResizeLeft, action)
}

func TestHitTestMiss(t *testing.T) {
	// Vertically between the arch and heel strips.
	_, _, ok := hitTestBands(defaultTestBands(), 200, 250, 400, 400)
	assert.False(t, ok)

	// Horizontally outside every band.
	_, _, ok = hitTestBands(defaultTestBands(), 10, 72, 400, 400)
	assert.False(t, ok)
}

func TestHitTestDegenerateDisplay(t *testing.T) {
	_, _, ok := hitTestBands(defaultTestBands(), 200, 72, 0, 0)
	assert.False(t, ok)
}
