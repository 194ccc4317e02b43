package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/TheusHen/EEGFrontier/pkg/pipeline"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// dashboardModel steps the Supervisor's main loop on every tick and renders
// its live acquisition state. Unlike the teacher's tui.go, which only
// decodes packets a remote firmware already produced, this dashboard drives
// the loop itself: benchsim's supervisor and its terminal are the same
// process.
type dashboardModel struct {
	sup      *pipeline.Supervisor
	stats    *liveStats
	quitting bool
	width    int
}

func runDashboard(sup *pipeline.Supervisor, stats *liveStats) error {
	m := dashboardModel{sup: sup, stats: stats, width: 80}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m dashboardModel) Init() tea.Cmd {
	return tickCmd()
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		// Step the core loop for a few hundred iterations per tick so the
		// terminal redraw rate doesn't throttle DRDY servicing.
		for i := 0; i < 200; i++ {
			m.sup.Step()
		}
		return m, tickCmd()
	}
	return m, nil
}

func (m dashboardModel) View() string {
	if m.quitting {
		return "Shutting down...\n"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		Background(lipgloss.Color("235")).
		Padding(0, 1)

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("12")).
		Bold(true)

	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	warnStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("11"))

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	snap := m.stats.Snapshot()

	var s strings.Builder
	s.WriteString(titleStyle.Render("EEGFRONTIER BENCHSIM"))
	s.WriteString("\n")
	s.WriteString(fmt.Sprintf("mode=%s   sample_index=%d   press 'q' to quit\n\n",
		modeName(m.sup.Mode()), m.sup.SampleIndex()))

	edgeTiming := fmt.Sprintf(
		"%s %v   %s %d us   %s %d/%d us   %s %d/%d us",
		labelStyle.Render("streaming:"), valueStyle.Render(fmt.Sprintf("%v", snap.Streaming)),
		labelStyle.Render("interval:"), snap.IntervalLastUs,
		labelStyle.Render("interval min/max:"), snap.IntervalMinUs, snap.IntervalMaxUs,
		labelStyle.Render("jitter last/max:"), snap.JitterAbsLastUs, snap.JitterAbsMaxUs,
	)
	s.WriteString(boxStyle.Render("EdgeTiming\n" + edgeTiming))
	s.WriteString("\n\n")

	counters := fmt.Sprintf(
		"%s %d   %s %d   %s %d   %s %d",
		labelStyle.Render("edges:"), snap.EdgesTotal,
		labelStyle.Render("recoveries:"), snap.RecoveriesTotal,
		labelStyle.Render("status invalid:"), snap.StatusInvalidTotal,
		labelStyle.Render("lead-off any:"), snap.LeadOffAnyTotal,
	)
	s.WriteString(boxStyle.Render("Counters\n" + counters))
	s.WriteString("\n\n")

	ringLine := fmt.Sprintf("%s %d/%d bytes", labelStyle.Render("queued:"), snap.TxQueuedBytes, snap.TxMaxQueuedBytes)
	if snap.TxBytesDroppedTotal > 0 {
		ringLine += "   " + warnStyle.Render(fmt.Sprintf("dropped: %d bytes / %d packets", snap.TxBytesDroppedTotal, snap.TxPacketsDroppedTotal))
	}
	s.WriteString(boxStyle.Render("Ring occupancy\n" + ringLine))
	s.WriteString("\n")

	return s.String()
}

func modeName(m pipeline.OutputMode) string {
	if m == pipeline.ModeCSV {
		return "CSV"
	}
	return "BIN"
}
