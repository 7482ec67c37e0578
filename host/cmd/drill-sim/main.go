// Command drill-sim runs the drill controller against a simulated rig.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"soildrill/config"
	"soildrill/core"
	"soildrill/drill"
	"soildrill/sim"
)

type Options struct {
	Config   string `long:"config" short:"c" description:"YAML configuration file"`
	Scenario string `long:"scenario" short:"s" default:"nominal" description:"Scenario to run"`
	Cycles   int    `long:"cycles" short:"n" default:"1" description:"Number of drill cycles"`
	List     bool   `long:"list" description:"List scenarios and exit"`
	Verbose  bool   `long:"verbose" short:"v" description:"Log every sample and firmware debug output"`
}

// rearmDelay is how long the simulated operator leaves the remote off
// between cycles.
const rearmDelay = 50 * (core.TimerFreq / 1000)

var errScriptPending = errors.New("scenario steps still pending")

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "Runs drill cycles against a simulated rig and logs every event"
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		Level(level).With().Timestamp().Logger()

	cfg, err := loadConfig(opts.Config)
	if err != nil {
		log.Fatal().Err(err).Msg("configuration")
	}
	if opts.List {
		listScenarios(cfg)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	reports, err := run(ctx, cfg, opts, log)
	failed := 0
	for _, r := range reports {
		if r.Outcome != drill.OutcomeComplete {
			failed++
		}
	}
	log.Info().Int("cycles", len(reports)).Int("failed", failed).Msg("simulation finished")
	if err != nil {
		log.Fatal().Err(err).Msg("simulation stopped")
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func listScenarios(cfg *config.Config) {
	var names []string
	for name := range sim.Builtin() {
		names = append(names, name)
	}
	for _, sc := range cfg.Scenarios {
		names = append(names, sc.Name)
	}
	sort.Strings(names)
	for _, name := range names {
		sc, err := cfg.Scenario(name)
		if err != nil {
			continue
		}
		fmt.Printf("%-20s %s\n", name, sc.Description)
	}
}

// run drives opts.Cycles cycles of the selected scenario. Between cycles
// the rig is serviced and the remote is switched off and back on so the
// controller rearms.
func run(ctx context.Context, cfg *config.Config, opts Options, log zerolog.Logger) ([]drill.CycleReport, error) {
	dcfg, err := cfg.Drill.ToDrill()
	if err != nil {
		return nil, err
	}
	sc, err := cfg.Scenario(opts.Scenario)
	if err != nil {
		return nil, err
	}
	rig := sc.NewRig()

	core.SetDebugWriter(func(s string) { log.Debug().Msg(s) })
	core.SetDebugEnabled(opts.Verbose)

	ctrl, err := drill.NewController(dcfg, rig.Peripherals(), newEventLogger(log, rig))
	if err != nil {
		return nil, err
	}

	log.Info().Str("scenario", sc.Name).Str("description", sc.Description).
		Uint16("target", dcfg.TargetTicks).Msg("starting")

	var reports []drill.CycleReport
	for i := 0; i < opts.Cycles; i++ {
		if i > 0 {
			if n := rig.Pending(); n > 0 {
				return reports, fmt.Errorf("cycle %d: %w (%d)", i+1, errScriptPending, n)
			}
			rig.Apply(sim.Service(), sim.SetRemote(core.RemoteOff))
			rig.Script(&sim.Step{
				Name:    "rearm",
				Delay:   rearmDelay,
				Actions: []sim.Action{sim.SetRemote(core.RemoteEnabled)},
			})
		}

		report, err := ctrl.RunCycle(ctx)
		if err != nil {
			return reports, err
		}
		reports = append(reports, report)
		logReport(log, report, rig)
	}
	return reports, nil
}

func logReport(log zerolog.Logger, r drill.CycleReport, rig *sim.Rig) {
	line1, line2 := rig.Display()
	ev := log.Info()
	if r.Outcome != drill.OutcomeComplete {
		ev = log.Warn()
	}
	ev.Uint32("cycle", r.Cycle).
		Str("outcome", r.Outcome.String()).
		Str("phase", r.Phase.String()).
		Str("recovery", r.Recovery.String()).
		Bool("init_failed", r.InitFailed).
		Int("drive_calls", rig.DriveCalls).
		Int("disable_calls", rig.DisableAllCalls).
		Str("display", line1+" | "+line2).
		Msg("cycle report")
}
