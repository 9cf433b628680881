package view

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"bitlife/src/universe"
)

//ConsoleOut is the non-interactive viewer: prints the configuration, the progress and the final field
type ConsoleOut struct {
	mu        sync.Mutex
	c         universe.Controller
	w         io.Writer
	startTime time.Time
	lastIter  int
	finished  bool
}

func NewConsoleOut() *ConsoleOut {
	return NewConsoleOutTo(os.Stdout)
}

//NewConsoleOutTo creates the viewer printing to w
func NewConsoleOutTo(w io.Writer) *ConsoleOut {
	return &ConsoleOut{w: w, lastIter: -1}
}

func (c *ConsoleOut) Refresh() {
	st := c.c.Status()
	c.mu.Lock()
	defer c.mu.Unlock()
	if st.RunningMode == universe.RunningStateFinished {
		if c.finished {
			return
		}
		c.finished = true
		totalTime := time.Since(c.startTime).Round(time.Millisecond)
		resultData := map[string]interface{}{
			"Last iteration": st.IterationNum,
			"Total time":     totalTime,
			"Live cells":     st.LiveCells,
			"Finish reason":  st.FinishReason,
		}
		fmt.Fprintln(c.w, aurora.Red("\nFinished:"))
		c.printHashData(resultData)
		c.printField()
	} else if st.RunningMode == universe.RunningStateRun && st.IterationNum != c.lastIter {
		c.lastIter = st.IterationNum
		if st.IterationNum%10 == 0 {
			fmt.Fprintf(c.w, "  Iterations done: %v, live cells: %v\n", st.IterationNum, st.LiveCells)
		}
	}
}

func (c *ConsoleOut) Register(ctl universe.Controller) {
	c.c = ctl
	o := c.c.Options()
	fmt.Fprintln(c.w, aurora.Green("Running configuration:"))
	c.printHashData(map[string]interface{}{
		"Dimension":      fmt.Sprintf("%v x %v", o.Width, o.Height),
		"Interval":       o.Interval,
		"Max iterations": fmt.Sprintf("%v steps", o.MaxSteps),
		"Seed":           o.Seed,
	})
}

func (c *ConsoleOut) Start() {
	c.mu.Lock()
	c.startTime = time.Now()
	c.finished = false
	c.mu.Unlock()
	fmt.Fprintln(c.w, "\nSimulation started...")
}

//printField prints the field, the rows are read from the raw cell buffer
func (c *ConsoleOut) printField() {
	o := c.c.Options()
	var rows []string
	c.c.View(func(u *universe.Universe) {
		rows = RenderRows(u.CellBuffer(), int(u.Width()), int(u.Height()), 0, 0, "█", "░")
	})
	fmt.Fprintf(c.w, "\nField %v x %v:\n%s\n", o.Width, o.Height, strings.Join(rows, "\n"))
}

func (c *ConsoleOut) printHashData(d map[string]interface{}) {
	propNames := make([]string, 0, len(d))
	for k := range d {
		propNames = append(propNames, k)
	}
	sort.Strings(propNames)
	for _, propName := range propNames {
		fmt.Fprintf(c.w, "  %s: %v\n", propName, d[propName])
	}
}
