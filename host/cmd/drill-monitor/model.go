package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"soildrill/drill"
	"soildrill/telemetry"
)

const (
	headerHeight = 4 // title, status line, verdict line, blank
	legendHeight = 2
	footerHeight = 8 // log box
	maxLogs      = 6
	borderSize   = 2

	transSeries = "translational"
	rotatSeries = "rotational"
)

var seriesColors = map[string]string{
	transSeries: "46",
	rotatSeries: "51",
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	chartStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Bold(true)
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// link is the part of monitor.Monitor the TUI uses.
type link interface {
	Updates() <-chan telemetry.Update
	RequestStatus() error
	DumpEvents() error
	Constant(name string) (string, bool)
}

type model struct {
	link     link
	interval time.Duration
	log      zerolog.Logger

	chart  *streamlinechart.Model
	target float64

	status  drill.Status
	verdict drill.Verdict
	sampled bool
	logs    []string

	width    int
	height   int
	quitting bool
}

type updateMsg telemetry.Update
type tickMsg time.Time
type errMsg struct {
	what string
	err  error
}

func waitForUpdate(l link) tea.Cmd {
	return func() tea.Msg {
		return updateMsg(<-l.Updates())
	}
}

// send runs a blocking link request off the update loop
func send(what string, fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return errMsg{what: what, err: err}
		}
		return nil
	}
}

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func newModel(l link, interval time.Duration, log zerolog.Logger) model {
	target := 200.0
	if v, ok := l.Constant("TARGET_TICKS"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			target = float64(n)
		}
	}
	chart := streamlinechart.New(80, 16, streamlinechart.WithYRange(0, target*1.1))
	for name, color := range seriesColors {
		chart.SetDataSetStyles(name, runes.ThinLineStyle, lipgloss.NewStyle().Foreground(lipgloss.Color(color)))
	}
	return model{
		link:     l,
		interval: interval,
		log:      log,
		chart:    &chart,
		target:   target,
	}
}

func (m *model) addLog(msg string) {
	m.log.Info().Msg(msg)
	m.logs = append(m.logs, msg)
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

func (m *model) chartSize() (width, height int) {
	if m.width == 0 || m.height == 0 {
		return 80, 16
	}
	width = max(m.width-borderSize-2, 40)
	height = max(m.height-headerHeight-legendHeight-footerHeight-borderSize, 8)
	return width, height
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		waitForUpdate(m.link),
		send("dump events", m.link.DumpEvents),
		tick(m.interval),
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chart.Resize(m.chartSize())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "d":
			return m, send("dump events", m.link.DumpEvents)
		}
		return m, nil

	case tickMsg:
		return m, tea.Batch(send("status", m.link.RequestStatus), tick(m.interval))

	case errMsg:
		m.addLog(msg.what + " failed: " + msg.err.Error())
		return m, nil

	case updateMsg:
		m.apply(telemetry.Update(msg))
		return m, waitForUpdate(m.link)
	}
	return m, nil
}

func (m *model) apply(u telemetry.Update) {
	switch {
	case u.Status != nil:
		m.status = *u.Status
	case u.Ring != nil:
		r := u.Ring
		m.addLog(fmt.Sprintf("ring %s t=%dms v1=%d v2=%d",
			drill.EventKindName(r.Kind), r.Clock/1000, r.Value1, r.Value2))
	case u.Event != nil:
		m.applyEvent(*u.Event)
	}
}

func (m *model) applyEvent(ev drill.Event) {
	switch ev.Kind {
	case drill.EventSample:
		m.status.Snapshot = ev.Snapshot
		m.verdict = ev.Verdict
		m.sampled = true
		m.chart.PushDataSet(transSeries, float64(ev.Snapshot.Translational))
		m.chart.PushDataSet(rotatSeries, float64(ev.Snapshot.Rotational))
		m.chart.DrawAll()
	case drill.EventPhase:
		m.status.Cycle = ev.Cycle
		m.status.Phase = ev.Phase
		m.addLog(fmt.Sprintf("cycle %d: %s", ev.Cycle, ev.Phase))
	case drill.EventFault:
		m.addLog(fmt.Sprintf("cycle %d: fault %s at %d", ev.Cycle, ev.Cause, ev.Snapshot.Translational))
	case drill.EventRecovery:
		m.addLog(fmt.Sprintf("cycle %d: recovery %s", ev.Cycle, ev.Recovery))
	case drill.EventOutcome:
		m.status.LastOutcome = ev.Outcome
		if ev.Outcome == drill.OutcomeComplete {
			m.status.Completed++
		} else {
			m.status.Failed++
		}
		m.addLog(fmt.Sprintf("cycle %d: %s", ev.Cycle, ev.Outcome))
	}
}

func (m model) View() string {
	if m.quitting {
		return "Monitor stopped.\n"
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Soil Drill Monitor"))
	sb.WriteString(statusStyle.Render(fmt.Sprintf("  target %.0f ticks", m.target)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("cycle %d  phase %-10s  trans %5d  rotat %5d  completed %d  failed %d\n",
		m.status.Cycle, m.status.Phase, m.status.Snapshot.Translational, m.status.Snapshot.Rotational,
		m.status.Completed, m.status.Failed))
	sb.WriteString(m.renderVerdict())
	sb.WriteString("\n\n")

	sb.WriteString(chartStyle.Render(m.chart.View()))
	sb.WriteString("\n")
	sb.WriteString(renderLegend())
	sb.WriteString("\n")

	logStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Width(max(m.width-4, 20))
	lines := statusStyle.Render("Press 'd' to dump the event ring, 'q' to quit")
	if len(m.logs) > 0 {
		lines = strings.Join(m.logs, "\n")
	}
	sb.WriteString(logStyle.Render(lines))
	sb.WriteString("\n")
	return sb.String()
}

func (m model) renderVerdict() string {
	if !m.sampled {
		return statusStyle.Render("no samples yet")
	}
	checks := []struct {
		name string
		ok   bool
	}{
		{"ENC", m.verdict.Encoder},
		{"OBST", m.verdict.Obstacle},
		{"GYRO", m.verdict.Gyro},
		{"ACCEL", m.verdict.Accel},
		{"VIB", m.verdict.Vibration},
	}
	items := make([]string, 0, len(checks))
	for _, f := range checks {
		if f.ok {
			items = append(items, okStyle.Render(f.name))
		} else {
			items = append(items, failStyle.Render(f.name))
		}
	}
	return strings.Join(items, " ")
}

func renderLegend() string {
	var items []string
	for _, name := range []string{transSeries, rotatSeries} {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(seriesColors[name])).Bold(true)
		items = append(items, style.Render("━━")+" "+name)
	}
	return strings.Join(items, "  ")
}
