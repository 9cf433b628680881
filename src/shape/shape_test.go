package shape

import (
	"testing"

	. "github.com/onsi/gomega"
)

var transformations = []Transformation{Identity, RotateLeft, RotateRight, Reflect}

type sequence []float64

func (s *sequence) Float64() float64 {
	v := (*s)[0]
	*s = (*s)[1:]
	return v
}

func TestTransformFormulas(t *testing.T) {
	g := NewWithT(t)
	c := Coord{0, 1}
	g.Expect(Transform(c, 3, 3, Identity)).To(Equal(Coord{0, 1}))
	g.Expect(Transform(c, 3, 3, RotateRight)).To(Equal(Coord{1, 0}))
	g.Expect(Transform(c, 3, 3, RotateLeft)).To(Equal(Coord{1, 2}))
	g.Expect(Transform(c, 3, 3, Reflect)).To(Equal(Coord{2, 1}))
}

func TestTransformBijection(t *testing.T) {
	g := NewWithT(t)
	for _, size := range []int{1, 2, 3, 5} {
		for _, tr := range transformations {
			seen := map[Coord]bool{}
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					c := Transform(Coord{x, y}, size, size, tr)
					g.Expect(c.X).To(BeNumerically(">=", 0))
					g.Expect(c.X).To(BeNumerically("<", size))
					g.Expect(c.Y).To(BeNumerically(">=", 0))
					g.Expect(c.Y).To(BeNumerically("<", size))
					g.Expect(seen).NotTo(HaveKey(c), "%v maps two cells onto %v", tr, c)
					seen[c] = true
				}
			}
		}
	}
}

func TestRotationsAreInverse(t *testing.T) {
	g := NewWithT(t)
	for _, box := range [][2]int{{3, 3}, {4, 4}, {5, 2}, {1, 3}} {
		w, h := box[0], box[1]
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := Coord{x, y}
				//a rotation transposes the box
				g.Expect(Transform(Transform(c, w, h, RotateLeft), h, w, RotateRight)).To(Equal(c))
				g.Expect(Transform(Transform(c, w, h, RotateRight), h, w, RotateLeft)).To(Equal(c))
				g.Expect(Transform(Transform(c, w, h, Reflect), w, h, Reflect)).To(Equal(c))
			}
		}
	}
}

func TestRandomTransformationQuartiles(t *testing.T) {
	g := NewWithT(t)
	src := sequence{0, 0.2499, 0.25, 0.4999, 0.5, 0.7499, 0.75, 0.9999}
	want := []Transformation{Identity, Identity, RotateLeft, RotateLeft, RotateRight, RotateRight, Reflect, Reflect}
	for i, w := range want {
		g.Expect(RandomTransformation(&src)).To(Equal(w), "draw %d", i)
	}
}

func TestParseTransformation(t *testing.T) {
	g := NewWithT(t)
	for _, tr := range transformations {
		p, err := ParseTransformation(tr.String())
		g.Expect(err).NotTo(HaveOccurred())
		g.Expect(p).To(Equal(tr))
	}
	p, err := ParseTransformation("")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(p).To(Equal(Identity))
	_, err = ParseTransformation("flip")
	g.Expect(err).To(HaveOccurred())
}

func TestTransformedKeepsShape(t *testing.T) {
	g := NewWithT(t)
	cells := Glider.Transformed(Reflect)
	g.Expect(cells).To(ConsistOf(Coord{2, 2}, Coord{1, 2}, Coord{2, 1}, Coord{0, 1}, Coord{2, 0}))
	g.Expect(Glider.Cells[0]).To(Equal(Coord{0, 0}))
}

func TestCatalogShapesFitBounds(t *testing.T) {
	g := NewWithT(t)
	g.Expect(Names()).To(ContainElements("glider", "blinker", "block", "lwss", "r-pentomino", "sample"))
	for _, name := range Names() {
		s, ok := Lookup(name)
		g.Expect(ok).To(BeTrue())
		for _, tr := range transformations {
			w, h := s.Bounds(tr)
			for _, c := range s.Transformed(tr) {
				g.Expect(c.X).To(BeNumerically("<", w), "%s %v", name, tr)
				g.Expect(c.Y).To(BeNumerically("<", h), "%s %v", name, tr)
				g.Expect(c.X).To(BeNumerically(">=", 0))
				g.Expect(c.Y).To(BeNumerically(">=", 0))
			}
		}
	}
	_, ok := Lookup("unknown")
	g.Expect(ok).To(BeFalse())
}
