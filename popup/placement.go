package popup

import "github.com/grovetools/richedit/editor"

// Placement is the side of the anchor a popup is drawn on.
type Placement int

const (
	Bottom Placement = iota
	Top
)

func (p Placement) String() string {
	if p == Top {
		return "top"
	}
	return "bottom"
}

// Place positions a box of size next to anchor inside viewport. The box goes
// below the anchor when it fits, flips above when it would be clipped at the
// bottom, and shifts horizontally to stay inside the viewport.
func Place(anchor editor.Rect, size, viewport editor.Size, offset int) (editor.Point, Placement) {
	placement := Bottom
	y := anchor.Bottom() + offset
	if y+size.H > viewport.H {
		if top := anchor.Top() - offset - size.H; top >= 0 {
			y, placement = top, Top
		}
	}

	x := anchor.X
	if x+size.W > viewport.W {
		x = viewport.W - size.W
	}
	if x < 0 {
		x = 0
	}
	return editor.Point{X: x, Y: y}, placement
}

func (p Placement) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}
