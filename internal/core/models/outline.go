package models

// Color is a linear RGBA colour.
type Color struct{ R, G, B, A float64 }

var (
	ColorRed   = Color{R: 1, A: 1}
	ColorGreen = Color{G: 1, A: 1}
	ColorWhite = Color{R: 1, G: 1, B: 1, A: 1}
)

type OutlineMode uint8

const (
	OutlineAll OutlineMode = iota
	OutlineVisible
	OutlineHidden
)

// Outline is the visual highlight capability the renderer draws around an object.
type Outline struct {
	Mode    OutlineMode
	Width   float64
	Color   Color
	Enabled bool
}

func NewOutline() *Outline {
	return &Outline{Mode: OutlineAll, Width: 5, Color: ColorWhite}
}

func (*Outline) TypeID() ComponentID { return ComponentOutline }

// SetColor enables the outline and recolours it.
func (o *Outline) SetColor(c Color) {
	o.Enabled = true
	o.Color = c
}

// ColorOutline recolours obj's outline when it has one.
func ColorOutline(obj *SceneObject, c Color) bool {
	if obj == nil {
		return false
	}
	out, ok := obj.Outline()
	if !ok {
		return false
	}
	out.SetColor(c)
	return true
}
