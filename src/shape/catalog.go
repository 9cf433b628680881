package shape

import "sort"

//Glider is the 5-cell pattern used by the spawn command
var Glider = Shape{
	Name:        "glider",
	Description: "moves one cell diagonally every four generations",
	Width:       3,
	Height:      3,
	Cells:       []Coord{{0, 0}, {1, 0}, {0, 1}, {2, 1}, {0, 2}},
}

var catalog = map[string]Shape{}

func init() {
	for _, s := range []Shape{
		Glider,
		{"blinker", "period 2 oscillator", 1, 3, []Coord{{0, 0}, {0, 1}, {0, 2}}},
		{"block", "still life", 2, 2, []Coord{{0, 0}, {1, 0}, {0, 1}, {1, 1}}},
		{"lwss", "lightweight spaceship", 5, 4, []Coord{
			{1, 0}, {4, 0}, {0, 1}, {0, 2}, {4, 2}, {0, 3}, {1, 3}, {2, 3}, {3, 3}}},
		{"r-pentomino", "methuselah, stabilises after 1103 generations", 3, 3, []Coord{
			{1, 0}, {2, 0}, {0, 1}, {1, 1}, {1, 2}}},
		{"sample", "the test sample with 3 stable patterns", 6, 4, []Coord{
			{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3}, {4, 2}, {4, 3}, {5, 3}}},
	} {
		Register(s)
	}
}

//Register adds the shape to the catalog, replacing any shape with the same name
func Register(s Shape) {
	catalog[s.Name] = s
}

//Lookup returns the shape registered under name
func Lookup(name string) (Shape, bool) {
	s, ok := catalog[name]
	return s, ok
}

//Names returns sorted names of the registered shapes
func Names() (names []string) {
	names = make([]string, 0, len(catalog))
	for k := range catalog {
		names = append(names, k)
	}
	sort.Strings(names)
	return
}
