package shape

import (
	"fmt"
	"strings"

	"bitlife/src/random"
)

//Coord is a cell position relative to the shape's bounding box
type Coord struct {
	X int
	Y int
}

//Shape is a named pattern which can be stamped onto the universe
type Shape struct {
	Name        string  //shape name
	Description string  //shape descr
	Width       int     //bounding box width
	Height      int     //bounding box height
	Cells       []Coord //live cells inside the bounding box
}

//Transformation is applied to the shape coordinates before placement
type Transformation int

const (
	Identity Transformation = iota
	RotateLeft
	RotateRight
	Reflect
)

var transformationNames = map[Transformation]string{
	Identity:    "identity",
	RotateLeft:  "rotate-left",
	RotateRight: "rotate-right",
	Reflect:     "reflect",
}

func (t Transformation) String() string {
	if n, ok := transformationNames[t]; ok {
		return n
	}
	return fmt.Sprintf("Transformation(%d)", int(t))
}

//ParseTransformation converts the name back to a Transformation, empty string means identity
func ParseTransformation(name string) (Transformation, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Identity, nil
	}
	for t, n := range transformationNames {
		if n == name {
			return t, nil
		}
	}
	return Identity, fmt.Errorf("unknown transformation %q", name)
}

//RandomTransformation picks one of the four transformations with equal probability
func RandomTransformation(src random.Source) Transformation {
	switch x := src.Float64(); {
	case x < 0.25:
		return Identity
	case x < 0.5:
		return RotateLeft
	case x < 0.75:
		return RotateRight
	default:
		return Reflect
	}
}

//Transform maps the coordinate inside a w x h box
func Transform(c Coord, w int, h int, t Transformation) Coord {
	switch t {
	case RotateRight:
		return Coord{h - c.Y - 1, c.X}
	case RotateLeft:
		return Coord{c.Y, w - c.X - 1}
	case Reflect:
		return Coord{w - c.X - 1, h - c.Y - 1}
	default:
		return c
	}
}

//Transformed returns new coordinates of the shape cells, the shape itself is not changed
func (s Shape) Transformed(t Transformation) []Coord {
	out := make([]Coord, len(s.Cells))
	for i, c := range s.Cells {
		out[i] = Transform(c, s.Width, s.Height, t)
	}
	return out
}

//Bounds returns the bounding box of the shape after the transformation
func (s Shape) Bounds(t Transformation) (w int, h int) {
	if t == RotateLeft || t == RotateRight {
		return s.Height, s.Width
	}
	return s.Width, s.Height
}
