package theme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewThemeWithName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"default", "default"},
		{"Light", "light"},
		{"terminal", "mono"},
		{" dark ", "default"},
		{"neon", "default"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewThemeWithName(tt.name).Name)
		})
	}
}

func TestIcons(t *testing.T) {
	t.Cleanup(func() { UseASCII(false) })

	UseASCII(true)
	assert.Equal(t, "H1", Icon("heading1"))
	assert.Equal(t, "[ok]", IconSuccess)
	assert.Equal(t, "", Icon("nothing"))

	UseASCII(false)
	assert.NotEqual(t, "H1", Icon("heading1"))
	assert.Equal(t, nerdIcons["success"], IconSuccess)
}

func TestIconSetsCoverSameNames(t *testing.T) {
	for name := range nerdIcons {
		_, ok := asciiIcons[name]
		assert.True(t, ok, "ascii icon missing for %s", name)
	}
	assert.Len(t, asciiIcons, len(nerdIcons))
}
