package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/integrii/flaggy"

	"bitlife/src/config"
	"bitlife/src/shape"
	"bitlife/src/telemetry"
	"bitlife/src/universe"
	"bitlife/src/view"
)

//flagOptions holds the raw command line values, zero values mean "not set"
type flagOptions struct {
	configPath  string
	savePath    string
	width       int
	height      int
	interval    time.Duration
	maxSteps    int
	seed        int64
	interactive bool
	randomData  bool
	csv         string
	pattern     string
	transform   string
}

func main() {
	fo := parseFlags()
	if fo.interactive {
		//the terminal belongs to the UI
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	} else {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	if err := run(fo); err != nil {
		slog.Error("simulation failed", "err", err)
		os.Exit(1)
	}
}

func run(fo *flagOptions) (err error) {
	cfg, err := loadConfig(fo)
	if err != nil {
		return err
	}
	if fo.savePath != "" {
		if err := config.Save(fo.savePath, cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	}

	var stateCh chan universe.Status
	if !cfg.Interactive {
		stateCh = make(chan universe.Status, 10) //the buffered channel to getting the universe status
	}

	r := universe.NewRunner(cfg.Options(), stateCh)
	defer r.Close()

	rec, err := telemetry.Create(cfg.CSV)
	if err != nil {
		return err
	}
	defer func() { err = closeWith(rec, err) }()
	if rec != nil {
		r.RegisterViewer(rec)
	}

	if cfg.Interactive {
		v := view.NewViewTerminal()
		r.RegisterViewer(v)
		cfg.Apply(r)
		v.Start()
		return rec.Err()
	}

	v := view.NewConsoleOut()
	r.RegisterViewer(v)
	cfg.Apply(r)
	if cfg.Random {
		//wait for the clear issued by the random settling
		<-stateCh
	}
	v.Start()
	r.Run()
	for {
		st := <-stateCh
		if st.RunningMode == universe.RunningStateFinished {
			slog.Info("simulation finished", "reason", st.FinishReason, "iteration", st.IterationNum)
			break
		}
	}
	return rec.Err()
}

//closeWith closes c and returns the close error unless err is already set
func closeWith(c io.Closer, err error) error {
	if cerr := c.Close(); cerr != nil && err == nil {
		return fmt.Errorf("closing: %w", cerr)
	}
	return err
}

//loadConfig reads the config file (or the defaults) and applies the command line values on top
func loadConfig(fo *flagOptions) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if fo.configPath != "" {
		var err error
		if cfg, err = config.Load(fo.configPath); err != nil {
			return nil, err
		}
	}
	if fo.width > 0 {
		cfg.Width = fo.width
	}
	if fo.height > 0 {
		cfg.Height = fo.height
	}
	if fo.interval > 0 {
		cfg.Interval = fo.interval
	}
	if fo.maxSteps > 0 {
		cfg.MaxSteps = fo.maxSteps
	}
	if fo.seed != 0 {
		cfg.Seed = fo.seed
	}
	if fo.csv != "" {
		cfg.CSV = fo.csv
	}
	cfg.Interactive = cfg.Interactive || fo.interactive
	cfg.Random = cfg.Random || fo.randomData
	if fo.pattern != "" {
		cfg.Shapes = []config.Placement{{Name: fo.pattern, X: cfg.Width / 2, Y: cfg.Height / 2, Transform: fo.transform}}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseFlags() *flagOptions {
	fo := &flagOptions{}
	flaggy.SetName("bitlife")
	flaggy.SetDescription("Conway's Game of Life on a toroidal bit-packed grid")
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.String(&fo.configPath, "c", "config", "YAML configuration file")
	flaggy.String(&fo.savePath, "", "save", "Write the effective configuration to this YAML file")
	flaggy.Int(&fo.width, "x", "width", "Width of a simulation field")
	flaggy.Int(&fo.height, "y", "height", "Height of a simulation field")
	flaggy.Duration(&fo.interval, "i", "interval", "Simulation speed (interval between the steps) in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&fo.maxSteps, "s", "maxSteps", "Limit the simulation to maxSteps")
	flaggy.Int64(&fo.seed, "", "seed", "Seed of the random source, 0 means random")
	flaggy.Bool(&fo.interactive, "n", "interactive", "Start interactive mode")
	flaggy.Bool(&fo.randomData, "r", "random", "Settle with random data")
	flaggy.String(&fo.csv, "", "csv", "Write per-generation statistics to this CSV file")
	flaggy.String(&fo.pattern, "p", "pattern", "Pattern placed in the middle of the field ["+strings.Join(shape.Names(), "|")+"]")
	flaggy.String(&fo.transform, "t", "transform", "Transformation of the pattern [identity|rotate-left|rotate-right|reflect]")

	flaggy.Parse()
	return fo
}
