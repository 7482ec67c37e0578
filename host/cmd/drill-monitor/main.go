// Command drill-monitor shows live telemetry from a drill controller.
package main

import (
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"soildrill/host/monitor"
	"soildrill/host/serial"
)

type Options struct {
	Device   string        `long:"device" short:"d" default:"/dev/ttyACM0" description:"Serial device of the controller"`
	Baud     int           `long:"baud" short:"b" default:"115200" description:"Baud rate (ignored by USB CDC)"`
	Log      string        `long:"log" default:"drill-monitor.log" description:"Log file"`
	Interval time.Duration `long:"interval" default:"500ms" description:"Status poll interval"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	parser.LongDescription = "Live telemetry view of a soil drilling controller"
	if _, err := parser.Parse(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	// the terminal belongs to the TUI, so logs go to a file
	logFile, err := os.OpenFile(opts.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("open log file")
	}
	defer logFile.Close()
	log := zerolog.New(logFile).With().Timestamp().Str("device", opts.Device).Logger()

	cfg := serial.DefaultConfig(opts.Device)
	cfg.Baud = opts.Baud
	mon, err := monitor.Connect(cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("connect")
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("connect")
	}
	defer mon.Close()

	if err := mon.RetrieveDictionary(); err != nil {
		log.Error().Err(err).Msg("dictionary")
		stderrLog := zerolog.New(os.Stderr)
		stderrLog.Fatal().Err(err).Msg("dictionary")
	}
	mon.LogDictionary()

	p := tea.NewProgram(newModel(mon, opts.Interval, log), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("tui")
		os.Exit(1)
	}
}
