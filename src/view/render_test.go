package view

import (
	"strings"
	"testing"

	"bitlife/src/random"
	"bitlife/src/shape"
	"bitlife/src/universe"
	. "github.com/onsi/gomega"
)

func TestRenderRowsMatchesUniverse(t *testing.T) {
	g := NewWithT(t)
	u := universe.Random(13, 7, universe.WithSource(random.NewSeeded(21)))
	rows := RenderRows(u.CellBuffer(), 13, 7, 0, 0, "X", "-")
	g.Expect(strings.Join(rows, "\n") + "\n").To(Equal(u.String()))
}

func TestRenderRowsCrops(t *testing.T) {
	g := NewWithT(t)
	u := universe.Empty(6, 4)
	u.Place([]shape.Coord{{0, 0}, {5, 0}, {1, 3}}, 0, 0)
	rows := RenderRows(u.CellBuffer(), 6, 4, 3, 2, "#", ".")
	g.Expect(rows).To(Equal([]string{"#..", "..."}))

	rows = RenderRows(u.CellBuffer(), 6, 4, 10, 10, "#", ".")
	g.Expect(rows).To(HaveLen(4))
	g.Expect(rows[3]).To(Equal(".#...."))
}
