package popup

import (
	"testing"

	"github.com/grovetools/richedit/editor"
	"github.com/stretchr/testify/assert"
)

func TestPlace(t *testing.T) {
	tests := []struct {
		name      string
		anchor    editor.Rect
		size      editor.Size
		viewport  editor.Size
		offset    int
		want      editor.Point
		placement Placement
	}{
		{"fits below", editor.Rect{X: 10, Y: 5, W: 20, H: 1}, editor.Size{W: 30, H: 3}, editor.Size{W: 80, H: 24}, 1, editor.Point{X: 10, Y: 7}, Bottom},
		{"flips above", editor.Rect{X: 10, Y: 22, W: 5, H: 1}, editor.Size{W: 30, H: 3}, editor.Size{W: 80, H: 24}, 1, editor.Point{X: 10, Y: 18}, Top},
		{"shifts left", editor.Rect{X: 70, Y: 0, W: 5, H: 1}, editor.Size{W: 30, H: 3}, editor.Size{W: 80, H: 24}, 0, editor.Point{X: 50, Y: 1}, Bottom},
		{"no room above stays below", editor.Rect{X: 0, Y: 1, W: 5, H: 1}, editor.Size{W: 10, H: 3}, editor.Size{W: 80, H: 3}, 0, editor.Point{X: 0, Y: 2}, Bottom},
		{"wider than viewport", editor.Rect{X: 5, Y: 0, W: 5, H: 1}, editor.Size{W: 100, H: 1}, editor.Size{W: 80, H: 24}, 0, editor.Point{X: 0, Y: 1}, Bottom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, placement := Place(tt.anchor, tt.size, tt.viewport, tt.offset)
			assert.Equal(t, tt.want, pos)
			assert.Equal(t, tt.placement, placement)
		})
	}
}
