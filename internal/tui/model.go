// Package tui runs the reserve flow in a terminal.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/bodul/folio/internal/reserve"
)

// clipboardWriteAll is a package-level variable to allow mocking in tests.
var clipboardWriteAll = clipboard.WriteAll

const defaultPayDelay = 800 * time.Millisecond

type clipboardSharer struct{}

func (clipboardSharer) Name() string    { return "clipboard" }
func (clipboardSharer) Available() bool { return true }
func (clipboardSharer) Share(text string) error {
	return clipboardWriteAll(text)
}

// paidMsg completes the mocked payment.
type paidMsg struct{}

// Model is the bubbletea model for the reserve flow.
type Model struct {
	flow     *reserve.Flow
	currency string
	tag      language.Tag
	msgs     map[string]string

	row, col int
	paying   bool
	payDelay time.Duration
	spinner  spinner.Model
	status   string
	failed   bool

	styles Styles
}

// New returns a model driving flow. Prices are shown in currency, numbers are
// formatted for locale and msgs holds the reserve namespace of that locale.
func New(flow *reserve.Flow, currency, locale string, msgs map[string]string) Model {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	return Model{
		flow:     flow,
		currency: currency,
		tag:      tag,
		msgs:     msgs,
		payDelay: defaultPayDelay,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		styles:   DefaultStyles(),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles key presses and the payment timer.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case paidMsg:
		if !m.paying {
			return m, nil
		}
		m.paying = false
		if _, err := m.flow.Checkout(); err != nil {
			m.setError(err)
		}
		return m, nil

	case spinner.TickMsg:
		if !m.paying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m Model) handleKey(k string) (tea.Model, tea.Cmd) {
	switch k {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "esc":
		m.paying = false
		m.status = ""
		m.flow.Escape()
		return m, nil
	}
	if m.paying {
		return m, nil
	}
	m.status = ""

	grid := m.flow.Grid()
	switch m.flow.Screen() {
	case reserve.Home:
		if k == "enter" || k == " " {
			m.apply(m.flow.Start())
		}

	case reserve.Select:
		switch k {
		case "up", "k":
			m.row = max(m.row-1, 0)
		case "down", "j":
			m.row = min(m.row+1, grid.Rows-1)
		case "left", "h":
			m.col = max(m.col-1, 0)
		case "right", "l":
			m.col = min(m.col+1, grid.Cols-1)
		case " ", "x":
			m.apply(m.flow.Toggle(reserve.Cell{Row: m.row, Col: m.col}))
		case "r":
			m.apply(m.flow.Reset())
		case "n", "enter":
			m.apply(m.flow.Next())
		}

	case reserve.Summary:
		switch k {
		case "e":
			m.apply(m.flow.Edit())
		case "enter", "c":
			m.paying = true
			return m, tea.Batch(m.spinner.Tick, tea.Tick(m.payDelay, func(time.Time) tea.Msg { return paidMsg{} }))
		}

	case reserve.Success:
		switch k {
		case "m":
			m.apply(m.flow.More())
		case "s":
			m.share()
		}
	}
	return m, nil
}

func (m *Model) apply(err error) {
	if err != nil {
		m.setError(err)
	}
}

func (m *Model) setError(err error) {
	m.failed = true
	switch {
	case errors.Is(err, reserve.ErrEmptySelection):
		m.status = m.t("reserve.error.empty")
	default:
		m.status = err.Error()
	}
}

func (m *Model) share() {
	text := m.summaryText()
	switch reserve.Share(text, clipboardSharer{}) {
	case reserve.ShareNone:
		m.failed = true
		m.status = m.t("reserve.tui.copy_failed")
	default:
		m.failed = false
		m.status = m.t("reserve.shared")
	}
}

// t returns the message for key, or the key itself when the catalog lacks it.
func (m Model) t(key string) string {
	if v, ok := m.msgs[key]; ok {
		return v
	}
	return key
}

func (m Model) summaryText() string {
	if r := m.flow.Receipt(); r != nil {
		return reserve.ShareText(m.tag, r.Area, r.Cost, m.currency)
	}
	return reserve.ShareText(m.tag, m.flow.Area(), m.flow.Cost(), m.currency)
}

// View renders the current screen.
func (m Model) View() string {
	var b strings.Builder
	s := m.styles

	switch m.flow.Screen() {
	case reserve.Home:
		b.WriteString(s.Title.Render(m.t("reserve.home.title")))
		b.WriteString("\n")
		b.WriteString(s.Body.Render(m.t("reserve.home.body")))
		b.WriteString("\n")
		b.WriteString(s.Hint.Render(m.t("reserve.tui.home_hint")))

	case reserve.Select:
		b.WriteString(s.Title.Render(m.t("reserve.select.title")))
		b.WriteString("\n")
		b.WriteString(m.renderGrid())
		b.WriteString("\n")
		b.WriteString(m.renderMetrics())
		hint := m.t("reserve.tui.select_hint")
		if m.flow.CanNext() {
			hint = m.t("reserve.tui.select_next_hint")
		}
		b.WriteString(s.Hint.Render(hint))

	case reserve.Summary:
		b.WriteString(s.Title.Render(m.t("reserve.summary.title")))
		b.WriteString("\n")
		b.WriteString(strings.Replace(m.t("reserve.tui.selected_count"), "%d", strconv.Itoa(len(m.flow.Selected())), 1))
		b.WriteString("\n")
		b.WriteString(m.renderMetrics())
		if m.paying {
			b.WriteString("\n")
			b.WriteString(m.spinner.View())
			b.WriteString(" ")
			b.WriteString(m.t("reserve.tui.paying"))
		} else {
			b.WriteString(s.Hint.Render(m.t("reserve.tui.summary_hint")))
		}

	case reserve.Success:
		b.WriteString(s.Title.Render(m.t("reserve.success.title")))
		b.WriteString("\n")
		b.WriteString(s.Success.Render(m.t("reserve.success.body")))
		b.WriteString("\n")
		if r := m.flow.Receipt(); r != nil {
			fmt.Fprintf(&b, "%s %s\n", m.t("reserve.certificate"), r.Certificate)
		}
		b.WriteString(m.renderMetrics())
		b.WriteString(s.Hint.Render(m.t("reserve.tui.success_hint")))
	}

	if m.status != "" {
		b.WriteString("\n")
		if m.failed {
			b.WriteString(s.Error.Render(m.status))
		} else {
			b.WriteString(s.Success.Render(m.status))
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderGrid() string {
	g := m.flow.Grid()
	var b strings.Builder
	for r := 0; r < g.Rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := reserve.Cell{Row: r, Col: c}
			glyph, style := "·", m.styles.Cell
			if m.flow.IsSelected(cell) {
				glyph, style = "■", m.styles.Selected
			}
			text := " " + glyph + " "
			if r == m.row && c == m.col {
				style = style.Inherit(m.styles.Cursor)
			}
			b.WriteString(style.Render(text))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderMetrics() string {
	return m.styles.Metric.Render(fmt.Sprintf("%s %d m²  %s %s",
		m.t("reserve.area"), m.flow.Area(),
		m.t("reserve.cost"), reserve.FormatPrice(m.tag, m.flow.Cost(), m.currency))) + "\n"
}

// Run starts the terminal program and blocks until the user quits or ctx is done.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run reserve ui: %w", err)
	}
	return nil
}
