package popup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAcquireClosesOtherPopup(t *testing.T) {
	c := NewCoordinator(nil)
	var closed []Kind
	c.Register(SlashMenu, func() {
		closed = append(closed, SlashMenu)
		c.Release(SlashMenu)
	})
	c.Register(Toolbar, func() {
		closed = append(closed, Toolbar)
		c.Release(Toolbar)
	})

	c.Acquire(SlashMenu)
	assert.Equal(t, SlashMenu, c.Active())
	assert.Empty(t, closed)

	c.Acquire(Toolbar)
	assert.Equal(t, Toolbar, c.Active())
	assert.Equal(t, []Kind{SlashMenu}, closed)

	c.Acquire(Toolbar)
	assert.Equal(t, []Kind{SlashMenu}, closed)

	c.Release(SlashMenu)
	assert.Equal(t, Toolbar, c.Active())
	c.Release(Toolbar)
	assert.Equal(t, None, c.Active())
}

func TestUnregisterReleasesSlot(t *testing.T) {
	c := NewCoordinator(nil)
	c.Register(SlashMenu, func() {})
	c.Acquire(SlashMenu)
	c.Unregister(SlashMenu)
	assert.Equal(t, None, c.Active())
	assert.NotPanics(t, func() { c.Acquire(Toolbar) })
}

func TestNilCoordinator(t *testing.T) {
	var c *Coordinator
	assert.NotPanics(t, func() {
		c.Register(Toolbar, func() {})
		c.Acquire(Toolbar)
		c.Release(Toolbar)
	})
	assert.Equal(t, None, c.Active())
	assert.Equal(t, "toolbar", Toolbar.String())
}
