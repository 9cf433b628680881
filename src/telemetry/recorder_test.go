package telemetry

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	. "github.com/onsi/gomega"

	"bitlife/src/shape"
	"bitlife/src/universe"
)

func TestRecorderWritesOneRowPerGeneration(t *testing.T) {
	g := NewWithT(t)
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	stateCh := make(chan universe.Status, 10)
	r := universe.NewRunner(&universe.Options{Width: 5, Height: 5, MaxSteps: 3, MaxSkippedTicks: 5}, stateCh)
	defer r.Close()
	r.RegisterViewer(rec)
	r.SettleShape("blinker", 2, 2, shape.Identity)

	r.Run()
	timeout := time.After(5 * time.Second)
	for finished := false; !finished; {
		select {
		case st := <-stateCh:
			finished = st.RunningMode == universe.RunningStateFinished
		case <-timeout:
			t.Fatal("timeout waiting for the run to finish")
		}
	}
	//the last generation is recorded before the run reports finished
	g.Expect(bytes.Count(buf.Bytes(), []byte("\n"))).To(Equal(5))
	g.Expect(rec.Err()).NotTo(HaveOccurred())

	var rows []*Record
	g.Expect(gocsv.UnmarshalBytes(buf.Bytes(), &rows)).To(Succeed())
	g.Expect(rows).To(HaveLen(4))
	for i, row := range rows {
		g.Expect(row.Generation).To(Equal(i))
		g.Expect(row.LiveCells).To(Equal(3))
	}
	g.Expect(rows[0].Mode).To(Equal("manual"))
	g.Expect(rows[3].Mode).To(Equal("run"))
}

func TestRecorderRecordsFinishedGeneration(t *testing.T) {
	g := NewWithT(t)
	var buf bytes.Buffer
	rec := NewRecorder(&buf)

	stateCh := make(chan universe.Status, 10)
	r := universe.NewRunner(&universe.Options{Width: 6, Height: 6, MaxSkippedTicks: 5}, stateCh)
	defer r.Close()
	r.RegisterViewer(rec)
	r.SettleShape("block", 3, 3, shape.Identity)

	r.Run()
	timeout := time.After(5 * time.Second)
	var st universe.Status
	for st.RunningMode != universe.RunningStateFinished {
		select {
		case st = <-stateCh:
		case <-timeout:
			t.Fatal("timeout waiting for the run to finish")
		}
	}
	g.Expect(st.FinishReason).To(Equal(universe.FinishStable))

	var rows []*Record
	g.Expect(gocsv.UnmarshalBytes(buf.Bytes(), &rows)).To(Succeed())
	g.Expect(rows).To(HaveLen(2))
	g.Expect(rows[0].Mode).To(Equal("manual"))
	g.Expect(rows[1].Generation).To(Equal(1))
	g.Expect(rows[1].LiveCells).To(Equal(4))
	g.Expect(rows[1].Mode).To(Equal("finished"))
}

func TestRecorderHeader(t *testing.T) {
	g := NewWithT(t)
	var buf bytes.Buffer
	rec := NewRecorder(&buf)
	r := universe.NewRunner(&universe.Options{Width: 3, Height: 3}, nil)
	defer r.Close()
	r.RegisterViewer(rec)

	r.Settle([]shape.Coord{{0, 0}})
	r.Settle([]shape.Coord{{1, 1}})
	g.Expect(buf.String()).To(Equal("generation,live_cells,iteration_us,mode\n0,1,0,manual\n"))
}

func TestCreate(t *testing.T) {
	g := NewWithT(t)
	rec, err := Create("")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(rec).To(BeNil())
	g.Expect(rec.Close()).To(Succeed())

	path := filepath.Join(t.TempDir(), "gen.csv")
	rec, err = Create(path)
	g.Expect(err).NotTo(HaveOccurred())
	r := universe.NewRunner(&universe.Options{Width: 3, Height: 3}, nil)
	defer r.Close()
	r.RegisterViewer(rec)
	r.Settle([]shape.Coord{{2, 2}})
	g.Expect(rec.Close()).To(Succeed())

	data, err := os.ReadFile(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(string(data)).To(HavePrefix("generation,"))

	_, err = Create(filepath.Join(t.TempDir(), "missing", "gen.csv"))
	g.Expect(err).To(HaveOccurred())
}
