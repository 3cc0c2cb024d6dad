package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// elapsedAfter is how long a call runs before the view starts showing
// a running duration next to the label.
const elapsedAfter = 5 * time.Second

type spinDoneMsg struct {
	err error
}

type spinWaitModel struct {
	spinner   spinner.Model
	label     string
	work      tea.Cmd
	startedAt time.Time
	err       error
	finished  bool
}

func newSpinWaitModel(label string, work tea.Cmd) spinWaitModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return spinWaitModel{
		spinner:   s,
		label:     label,
		work:      work,
		startedAt: time.Now(),
	}
}

func (m spinWaitModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.work)
}

func (m spinWaitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case spinDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m spinWaitModel) View() string {
	if m.finished {
		return ""
	}

	elapsed := time.Since(m.startedAt)
	if elapsed < elapsedAfter {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.label)
	}
	return fmt.Sprintf("%s %s (%s)", m.spinner.View(), m.label, elapsed.Round(time.Second))
}

// runWithSpinner keeps the terminal alive while a slow backend call
// runs; transcription and generation take long enough that silence
// looks like a hang. When output is not a terminal the label is
// printed once and the call runs inline.
func runWithSpinner(ctx context.Context, output io.Writer, label string, work func(context.Context) error) error {
	if file, ok := output.(*os.File); !ok || !isatty.IsTerminal(file.Fd()) {
		_, _ = fmt.Fprintln(output, label)
		return work(ctx)
	}

	workCmd := func() tea.Msg {
		return spinDoneMsg{err: work(ctx)}
	}

	p := tea.NewProgram(
		newSpinWaitModel(label, workCmd),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(spinWaitModel)
	if !ok {
		return fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.err
}
