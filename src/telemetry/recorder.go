package telemetry

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"bitlife/src/universe"
)

//Record is one CSV row
type Record struct {
	Generation      int    `csv:"generation"`
	LiveCells       int    `csv:"live_cells"`
	IterationMicros int64  `csv:"iteration_us"`
	Mode            string `csv:"mode"`
}

//Recorder is a viewer which appends a Record every time the runner reports a new generation
type Recorder struct {
	mu            sync.Mutex
	w             io.Writer
	closer        io.Closer
	c             universe.Controller
	last          int
	headerWritten bool
	err           error
}

//NewRecorder writes records to w
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w, last: -1}
}

//Create opens the CSV file at path, returns nil if path is empty (recording disabled)
func Create(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	r := NewRecorder(f)
	r.closer = f
	return r, nil
}

//Register implements universe.Viewer
func (r *Recorder) Register(c universe.Controller) {
	r.c = c
}

//Start implements universe.Viewer
func (r *Recorder) Start() {}

//Refresh writes the current status if the generation changed since the last row
func (r *Recorder) Refresh() {
	if r == nil || r.c == nil {
		return
	}
	st := r.c.Status()
	r.mu.Lock()
	defer r.mu.Unlock()
	if st.IterationNum == r.last || r.err != nil {
		return
	}
	r.last = st.IterationNum
	r.err = r.write(Record{
		Generation:      st.IterationNum,
		LiveCells:       st.LiveCells,
		IterationMicros: st.IterationTime.Microseconds(),
		Mode:            st.RunningMode.String(),
	})
}

func (r *Recorder) write(rec Record) error {
	records := []*Record{&rec}
	if !r.headerWritten {
		r.headerWritten = true
		return gocsv.Marshal(records, r.w)
	}
	return gocsv.MarshalWithoutHeaders(records, r.w)
}

//Err returns the first write error, recording stops after it
func (r *Recorder) Err() error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

//Close closes the underlying file when the recorder owns it
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}
