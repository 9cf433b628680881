package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	. "github.com/onsi/gomega"

	"bitlife/src/shape"
	"bitlife/src/universe"
)

func TestDefaultConfig(t *testing.T) {
	g := NewWithT(t)
	cfg := DefaultConfig()
	g.Expect(cfg.Validate()).To(Succeed())
	g.Expect(cfg.Width).To(Equal(universe.DefWidth))
	g.Expect(cfg.Height).To(Equal(universe.DefHeight))
	g.Expect(cfg.Interval).To(Equal(universe.DefSimulationInterval))
	g.Expect(cfg.Shapes).To(HaveLen(1))
}

func TestLoadOverridesDefaults(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "life.yaml")
	data := []byte(`
width: 64
height: 32
interval: 250ms
seed: 9
shapes:
  - name: glider
    x: 10
    y: 12
    transform: rotate-left
  - name: lwss
    x: 30
    y: 5
`)
	g.Expect(os.WriteFile(path, data, 0644)).To(Succeed())

	cfg, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Width).To(Equal(64))
	g.Expect(cfg.Height).To(Equal(32))
	g.Expect(cfg.Interval).To(Equal(250 * time.Millisecond))
	g.Expect(cfg.MaxSteps).To(Equal(universe.DefMaxSteps))
	g.Expect(cfg.Seed).To(Equal(int64(9)))
	g.Expect(cfg.Shapes).To(Equal([]Placement{
		{Name: "glider", X: 10, Y: 12, Transform: "rotate-left"},
		{Name: "lwss", X: 30, Y: 5},
	}))

	o := cfg.Options()
	g.Expect(o.Width).To(Equal(64))
	g.Expect(o.Seed).To(Equal(int64(9)))
}

func TestLoadRejectsInvalid(t *testing.T) {
	g := NewWithT(t)
	dir := t.TempDir()
	for name, body := range map[string]string{
		"zero.yaml":      "width: 0\n",
		"skipped.yaml":   "max_skipped_ticks: -1\n",
		"shape.yaml":     "shapes:\n  - name: spaceship\n",
		"transform.yaml": "shapes:\n  - name: glider\n    transform: mirror\n",
		"syntax.yaml":    "width: [\n",
	} {
		path := filepath.Join(dir, name)
		g.Expect(os.WriteFile(path, []byte(body), 0644)).To(Succeed())
		_, err := Load(path)
		g.Expect(err).To(HaveOccurred(), name)
	}
	_, err := Load(filepath.Join(dir, "missing.yaml"))
	g.Expect(err).To(HaveOccurred())
}

func TestSaveLoad(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "saved.yaml")
	cfg := DefaultConfig()
	cfg.Seed = 77
	cfg.Interactive = true
	cfg.CSV = "out.csv"
	g.Expect(Save(path, cfg)).To(Succeed())

	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded).To(Equal(cfg))
}

func TestApply(t *testing.T) {
	g := NewWithT(t)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 10, 10
	cfg.Shapes = []Placement{{Name: "block", X: 2, Y: 2}, {Name: "glider", X: 6, Y: 6, Transform: "reflect"}}
	r := universe.NewRunner(cfg.Options(), nil)
	defer r.Close()

	cfg.Apply(r)
	g.Expect(r.Status().LiveCells).To(Equal(9))
	r.View(func(u *universe.Universe) {
		g.Expect(u.Alive(1, 1)).To(BeTrue())
		for _, c := range shape.Glider.Transformed(shape.Reflect) {
			g.Expect(u.Alive(uint32(c.X+5), uint32(c.Y+5))).To(BeTrue())
		}
	})
}
