package universe

import (
	"log/slog"
	"sync"
	"time"

	"bitlife/src/random"
	"bitlife/src/shape"
)

//Options represents the Runner's configurable options
type Options struct {
	Width           int
	Height          int
	Interval        time.Duration
	MaxSteps        int
	MaxSkippedTicks int
	Seed            int64 //seed of the random source, 0 means the process-wide source
}

//Status represents the status of the Universe at concrete moment
type Status struct {
	IterationNum  int
	RunningMode   RunningState
	LiveCells     int
	IterationTime time.Duration
	FinishReason  string //why the run finished, set in RunningStateFinished only
}

//Viewer is the interface to any Viewer - the object who can display simulation data or control the engine
type Viewer interface {
	Refresh()
	Register(c Controller)
	Start()
}

//Controller is the host-facing side of the Runner, used by the viewers
type Controller interface {
	Status() Status
	Options() Options
	View(fn func(u *Universe))
	StateCh() chan Status
	SettleShape(name string, x int, y int, t shape.Transformation)
	SettleWithRandomData()
	Settle(cells []shape.Coord)
	InverseCell(x int, y int)
	SpawnShapeAt(x int, y int)
	RegisterViewer(v Viewer)
	Run()
	Stop()
	Step()
	Clear()
	Close()
}

//The universe running status at the concrete moment
type RunningState int

//default options
const (
	DefSimulationInterval = time.Millisecond * 100
	DefMaxSteps           = 1000
	DefWidth              = 40
	DefHeight             = 15
	DefMaxSkippedTicks    = 5
)

const (
	RunningStateManual RunningState = iota
	RunningStateStep
	RunningStateRun
	RunningStateFinished
)

func (s RunningState) String() string {
	switch s {
	case RunningStateManual:
		return "manual"
	case RunningStateStep:
		return "step"
	case RunningStateRun:
		return "run"
	case RunningStateFinished:
		return "finished"
	}
	return "unknown"
}

//finish reasons
const (
	FinishMaxSteps     = "max steps reached"
	FinishExtinct      = "no live cells"
	FinishStable       = "stable state"
	FinishSkippedTicks = "too many skipped ticks"
)

var DefaultOptions = Options{
	Width:           DefWidth,
	Height:          DefHeight,
	Interval:        DefSimulationInterval,
	MaxSteps:        DefMaxSteps,
	MaxSkippedTicks: DefMaxSkippedTicks,
}

/*
	Runner drives the Universe generation by generation
	Run, Stop, Step, Clear and SettleWithRandomData are executed by the main loop goroutine,
	the editing calls (Settle, SettleShape, InverseCell, SpawnShapeAt) run on the caller's goroutine;
	both and the viewers take the engine lock, so mutations never overlap and never overlap a view of the buffer
*/
type Runner struct {
	options Options
	state   struct {
		Status
		sync.Mutex
	}
	engine struct {
		*Universe
		sync.Mutex
	}
	stateCh   chan Status
	views     []Viewer
	controlCh chan func()
	closeCh   chan bool
	log       *slog.Logger
}

//NewRunner creates the Runner with an empty universe and starts the main loop
//opts are passed to the Universe, a non-zero Seed injects a seeded random source first
func NewRunner(o *Options, stateCh chan Status, opts ...Option) *Runner {
	if o == nil {
		o = &DefaultOptions
	}
	if o.Width <= 0 || o.Height <= 0 {
		panic("universe: width and height must be positive")
	}
	if o.MaxSkippedTicks < 0 {
		o.MaxSkippedTicks = 0
	}
	if o.Seed != 0 {
		opts = append([]Option{WithSource(random.NewSeeded(o.Seed))}, opts...)
	}

	r := Runner{
		options:   *o,
		controlCh: make(chan func(), 1),
		closeCh:   make(chan bool, 1),
		stateCh:   stateCh,
		log:       slog.Default().With("component", "runner"),
	}
	r.engine.Universe = Empty(uint32(o.Width), uint32(o.Height), opts...)
	go r.mainLoop()
	return &r
}

//SettleShape places the named shape from the catalog centered on x, y
func (r *Runner) SettleShape(name string, x int, y int, t shape.Transformation) {
	s, ok := shape.Lookup(name)
	if !ok {
		r.log.Warn("unknown shape", "name", name)
		return
	}
	r.edit(func(u *Universe) {
		u.SpawnAt(s, x, y, t)
	})
}

//Settle settles the universe with live cells at the given coordinates
func (r *Runner) Settle(cells []shape.Coord) {
	r.edit(func(u *Universe) {
		u.Place(cells, 0, 0)
	})
}

//InverseCell inverses the cell state at point x, y, coordinates wrap around the edges
func (r *Runner) InverseCell(x int, y int) {
	r.edit(func(u *Universe) {
		u.flip(u.wrapIndex(x, y))
	})
}

//SpawnShapeAt places a randomly transformed glider centered on x, y
func (r *Runner) SpawnShapeAt(x int, y int) {
	r.edit(func(u *Universe) {
		u.SpawnAt(shape.Glider, x, y, shape.RandomTransformation(u.src))
	})
}

//SettleWithRandomData populates the universe with random data
func (r *Runner) SettleWithRandomData() {
	if m := r.mode(); m == RunningStateManual || m == RunningStateFinished {
		r.controlCh <- r.clear
		r.controlCh <- func() {
			r.edit(func(u *Universe) {
				u.Reseed()
			})
		}
	}
}

//RegisterViewer registers the viewer - the runner will call the viewer when the state is changed
func (r *Runner) RegisterViewer(v Viewer) {
	r.views = append(r.views, v)
	v.Register(r)
}

//StateCh returns the channel with the runner's status updates
func (r *Runner) StateCh() chan Status {
	return r.stateCh
}

//Status returns current universe status represented by Status struct
func (r *Runner) Status() Status {
	r.state.Lock()
	defer r.state.Unlock()
	return r.state.Status
}

//Options returns current runner configuration represented by Options struct
func (r *Runner) Options() Options {
	return r.options
}

//View calls fn with the universe locked, fn must not keep the cell buffer after returning
func (r *Runner) View(fn func(u *Universe)) {
	r.engine.Lock()
	defer r.engine.Unlock()
	fn(r.engine.Universe)
}

//Run starts the universe simulation, returns immediately
func (r *Runner) Run() {
	r.controlCh <- r.run
}

//Stop stops the universe simulation, returns immediately
//the Status struct will be written the stateCh on finish
func (r *Runner) Stop() {
	r.controlCh <- r.stop
}

//Step do one simulation step, returns immediately
//the Status struct will be written to the stateCh on start and on finish
func (r *Runner) Step() {
	r.controlCh <- r.step
}

//Clear clears the universe (kill all cells and reset all counters), returns immediately
//the Status struct will be written to the stateCh on finish
func (r *Runner) Clear() {
	r.controlCh <- r.clear
}

//Close stops the main loop, returns immediately
func (r *Runner) Close() {
	r.closeCh <- true
}

//mainLoop - the main cycle, should start as a goroutine
//waits for command and executes
func (r *Runner) mainLoop() {
	var c = false
	for !c {
		select {
		case cmd := <-r.controlCh:
			cmd()
		case c = <-r.closeCh:
		}
	}
	//controlCh stays open, a run goroutine may still be sending its last step
	close(r.closeCh)
}

//edit applies fn to the locked universe, then refreshes the live cells counter and the views
func (r *Runner) edit(fn func(u *Universe)) {
	r.engine.Lock()
	fn(r.engine.Universe)
	live := r.engine.LiveCells()
	r.engine.Unlock()

	r.state.Lock()
	r.state.LiveCells = live
	r.state.Unlock()
	r.refreshView()
}

func (r *Runner) mode() RunningState {
	r.state.Lock()
	defer r.state.Unlock()
	return r.state.RunningMode
}

//setRunningState switch the state of the universe to RunningState and returns the new status
func (r *Runner) setRunningState(to RunningState) Status {
	r.state.Lock()
	defer r.state.Unlock()
	r.state.RunningMode = to
	if to != RunningStateFinished {
		r.state.FinishReason = ""
	}
	return r.state.Status
}

//publish writes the status to the stateCh to signal upper control software
func (r *Runner) publish(st Status) {
	if r.stateCh != nil {
		r.stateCh <- st
	}
}

//switchRunningState switch the state of the universe to RunningState and publishes it
func (r *Runner) switchRunningState(to RunningState) {
	r.publish(r.setRunningState(to))
}

//settle switches to the state, refreshes the views and only then publishes the status,
//so a reader of the stateCh sees the views already up to date
func (r *Runner) settle(to RunningState) {
	st := r.setRunningState(to)
	r.refreshView()
	r.publish(st)
}

//finish ends the run with the reason
func (r *Runner) finish(reason string) {
	r.state.Lock()
	r.state.FinishReason = reason
	st := r.state.Status
	r.state.Unlock()
	r.log.Info("run finished", "reason", reason, "iteration", st.IterationNum, "liveCells", st.LiveCells)
	r.settle(RunningStateFinished)
}

//run starts the universe simulation
//simulation will stop on Stop() calling or when the boundary conditions are reached
//a step is sent every Interval; when the previous step is still calculating the tick is skipped
//and more than MaxSkippedTicks skipped ticks in a row finish the run
func (r *Runner) run() {
	r.log.Info("run started", "width", r.options.Width, "height", r.options.Height, "interval", r.options.Interval)
	go func() {
		r.switchRunningState(RunningStateRun)
		skipped := 0
		var pending chan struct{} //closed when the last sent step is done
		busy := func() bool {
			if pending == nil {
				return false
			}
			select {
			case <-pending:
				pending = nil
				return false
			default:
				return true
			}
		}
		for {
			if r.options.Interval <= 0 && pending != nil {
				//without interval there is nothing to skip, wait for the step
				<-pending
				pending = nil
			}
			//the mode is Step while a sent step is calculating
			if m := r.mode(); m != RunningStateRun && m != RunningStateStep {
				break
			}
			if busy() {
				skipped++
				if skipped > r.options.MaxSkippedTicks {
					r.controlCh <- r.abort(skipped)
					break
				}
			} else {
				skipped = 0
				done := make(chan struct{})
				pending = done
				r.controlCh <- func() {
					r.step()
					close(done)
				}
			}
			if r.options.Interval > 0 {
				time.Sleep(r.options.Interval)
			}
		}
	}()
}

//abort finishes the run if it is still going
func (r *Runner) abort(skipped int) func() {
	return func() {
		if r.mode() == RunningStateRun {
			r.log.Warn("run aborted, too many skipped ticks", "skipped", skipped, "interval", r.options.Interval)
			r.finish(FinishSkippedTicks)
		}
	}
}

//stop stops the universe running cycle
func (r *Runner) stop() {
	if r.mode() == RunningStateRun {
		r.switchRunningState(RunningStateManual)
	}
}

//step does the new one state calculation for entire universe
func (r *Runner) step() {
	if maxIter := r.options.MaxSteps; maxIter != 0 && r.Status().IterationNum >= maxIter {
		r.finish(FinishMaxSteps)
		return
	}
	rm := r.mode()
	r.switchRunningState(RunningStateStep)
	hasLiveCells, changed := r.nextIteration()
	switch {
	case !hasLiveCells:
		r.finish(FinishExtinct)
	case !changed:
		r.finish(FinishStable)
	default:
		r.settle(rm)
	}
}

//nextIteration advances the universe by one generation and updates all related metrics
func (r *Runner) nextIteration() (hasLiveCells bool, changed bool) {
	r.engine.Lock()
	start := time.Now()
	changed = r.engine.Advance()
	liveCells := r.engine.LiveCells()
	elapsed := time.Since(start)
	r.engine.Unlock()

	r.state.Lock()
	r.state.IterationNum++
	r.state.LiveCells = liveCells
	r.state.IterationTime = elapsed
	r.state.Unlock()
	return liveCells > 0, changed
}

//clear clears the universe data, reset all counters
func (r *Runner) clear() {
	r.engine.Lock()
	r.engine.Clear()
	r.engine.Unlock()

	r.state.Lock()
	r.state.IterationNum = 0
	r.state.LiveCells = 0
	r.state.IterationTime = 0
	r.state.Unlock()
	r.settle(RunningStateManual)
}

//refreshView calls Refresh event for all registered views
func (r *Runner) refreshView() {
	for _, v := range r.views {
		v.Refresh()
	}
}
