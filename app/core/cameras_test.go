package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func inf() float64 { return math.Inf(1) }

func TestCameraManagerGetCreatesOnce(t *testing.T) {
	m := NewCameraManager()

	_, ok := m.Lookup(MapCamera)
	assert.False(t, ok)

	c := m.Get(MapCamera)
	c.Offset = xy(-3, -4)
	assert.Same(t, c, m.Get(MapCamera))

	got, ok := m.Lookup(MapCamera)
	assert.True(t, ok)
	assert.Same(t, c, got)
	assert.NotSame(t, c, m.Get(TextWindowCamera))
}

func TestCameraManagerIdentityFallback(t *testing.T) {
	m := NewCameraManager()
	p := Pair{12, 34}

	assert.Equal(t, DrawParam{Dest: xy(12, 34), Scale: xy(1, 1)}, m.DrawParam(ParentMapCamera, p))
	assert.Equal(t, xy(12, 34), m.InverseTransform(ParentMapCamera, p))
	assert.Equal(t, xy(12, 34), m.ForwardTransform(ParentMapCamera, p))
	assert.False(t, m.IsWithin(ParentMapCamera, p))
}

func TestCameraManagerDelegates(t *testing.T) {
	m := NewCameraManager()
	c := m.Get(MapCamera)
	c.Scale = 2
	c.Offset = xy(10, 20)

	assert.Equal(t, xy(34, 88), m.ForwardTransform(MapCamera, Pair{12, 34}))
	assert.Equal(t, xy(12, 34), m.InverseTransform(MapCamera, Pair{34, 88}))
	assert.Equal(t, xy(2, 2), m.DrawParam(MapCamera, Pair{0, 0}).Scale)
}

func TestCameraNameString(t *testing.T) {
	assert.Equal(t, "Map", MapCamera.String())
	assert.Equal(t, "ParentMap", ParentMapCamera.String())
	assert.Equal(t, "TextWindow", TextWindowCamera.String())
}
