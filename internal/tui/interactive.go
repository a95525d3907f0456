package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/spikesim/internal/analysis"
	"github.com/san-kum/spikesim/internal/config"
	"github.com/san-kum/spikesim/internal/experiment"
	"github.com/san-kum/spikesim/internal/models"
	"github.com/san-kum/spikesim/internal/sim"
)

type state int

const (
	stateMenu state = iota
	stateExplore
)

// resultMsg carries a finished run back to the UI. gen identifies the
// parameter edit that requested it.
type resultMsg struct {
	gen    int
	result *sim.Result
	err    error
}

type model struct {
	state   state
	cursor  int
	catalog []models.Descriptor

	params      models.Params
	fields      []models.Field
	paramCursor int
	editing     bool
	editBuf     string
	presets     []string
	presetIdx   int

	gen       int
	computing bool
	result    *sim.Result
	train     analysis.SpikeTrain
	err       error

	theme int
	st    styles

	width  int
	height int
}

// NewInteractiveApp returns the explorer, starting at the model menu.
func NewInteractiveApp(theme string) tea.Model {
	return newModel(theme)
}

func newModel(theme string) model {
	t := GetTheme(theme)
	idx := 0
	for i, th := range Themes {
		if th.Name == t.Name {
			idx = i
		}
	}
	return model{
		state:   stateMenu,
		catalog: experiment.ListModels(),
		theme:   idx,
		st:      newStyles(t),
		width:   80,
		height:  24,
	}
}

func (m model) cycleTheme() model {
	m.theme = (m.theme + 1) % len(Themes)
	m.st = newStyles(Themes[m.theme])
	return m
}

func (m model) Init() tea.Cmd { return nil }

// simulate runs p off the UI goroutine. The parameter set is copied first so
// later edits cannot race with the run.
func simulate(gen int, p models.Params) tea.Cmd {
	p = models.Clone(p)
	return func() tea.Msg {
		result, err := experiment.Analyze(p)
		return resultMsg{gen: gen, result: result, err: err}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case resultMsg:
		// Only the newest request may update the display.
		if msg.gen != m.gen {
			return m, nil
		}
		m.computing = false
		m.err = msg.err
		if msg.err == nil {
			m.result = msg.result
			m.train = analysis.NewSpikeTrain(msg.result, models.SpikeThreshold(m.params))
		}
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateExplore:
		return m.exploreKey(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "t":
		return m.cycleTheme(), nil
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.catalog)-1 {
			m.cursor++
		}
	case "enter", " ":
		id := m.catalog[m.cursor].ID
		p, err := experiment.DefaultParameters(id)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.fields, _ = models.Fields(id)
		m.presets = config.ListPresets(id)
		m.presetIdx = 0
		m.paramCursor = 0
		m.result = nil
		m.state = stateExplore
		return m.apply(p)
	}
	return m, nil
}

func (m model) exploreKey(msg tea.KeyMsg) (model, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			m.editing = false
			val, err := strconv.ParseFloat(m.editBuf, 64)
			m.editBuf = ""
			if err != nil {
				m.err = fmt.Errorf("not a number: %w", err)
				return m, nil
			}
			return m.setField(m.fields[m.paramCursor].Name, val)
		case "esc":
			m.editing = false
			m.editBuf = ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' || c == 'e' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
		m.gen++
		m.computing = false
		m.result = nil
		m.err = nil
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.fields)-1 {
			m.paramCursor++
		}
	case "enter":
		m.editing = true
		m.editBuf = strconv.FormatFloat(m.value(m.paramCursor), 'g', -1, 64)
	case "left", "h":
		v := m.value(m.paramCursor)
		return m.setField(m.fields[m.paramCursor].Name, v-adjustStep(v))
	case "right", "l":
		v := m.value(m.paramCursor)
		return m.setField(m.fields[m.paramCursor].Name, v+adjustStep(v))
	case "p":
		if len(m.presets) == 0 {
			return m, nil
		}
		m.presetIdx = (m.presetIdx + 1) % len(m.presets)
		p, err := config.GetPreset(m.params.Model(), m.presets[m.presetIdx])
		if err != nil {
			m.err = err
			return m, nil
		}
		return m.apply(p)
	case "t":
		return m.cycleTheme(), nil
	case "d":
		p, err := experiment.DefaultParameters(m.params.Model())
		if err != nil {
			m.err = err
			return m, nil
		}
		return m.apply(p)
	}
	return m, nil
}

func (m model) value(i int) float64 {
	return models.Values(m.params)[m.fields[i].Name]
}

// setField edits one parameter and requests a rerun. Invalid edits are
// reported and leave the current parameters untouched.
func (m model) setField(name string, v float64) (model, tea.Cmd) {
	p := models.Clone(m.params)
	if err := models.Set(p, name, v); err != nil {
		m.err = err
		return m, nil
	}
	if err := p.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	return m.apply(p)
}

func (m model) apply(p models.Params) (model, tea.Cmd) {
	m.params = p
	m.err = nil
	m.gen++
	m.computing = true
	return m, simulate(m.gen, p)
}

// adjustStep is one tenth of the leading decimal digit of v.
func adjustStep(v float64) float64 {
	if v == 0 {
		return 0.1
	}
	return math.Pow(10, math.Floor(math.Log10(math.Abs(v))+1e-9)-1)
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateExplore:
		return m.viewExplore()
	}
	return ""
}

func (m model) viewMenu() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(m.st.faint.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("          " + m.st.primary.Render("s p i k e s i m") + "\n")
	b.WriteString(m.st.faint.Render("    ╺━━━━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	b.WriteString("\n")

	for i, d := range m.catalog {
		if i == m.cursor {
			b.WriteString("      " + m.st.primary.Render("▸ ") + m.st.text.Render(fmt.Sprintf("%-26s", d.Name)) + m.st.muted.Render(d.Category) + "\n")
		} else {
			b.WriteString("        " + m.st.muted.Render(fmt.Sprintf("%-26s", d.Name)) + m.st.faint.Render(d.Category) + "\n")
		}
	}
	if m.cursor < len(m.catalog) {
		b.WriteString("\n      " + m.st.faint.Render(m.catalog[m.cursor].Description) + "\n")
	}

	if m.err != nil {
		b.WriteString("\n      " + m.st.err.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(m.st.muted.Render("      ↑↓ select   enter explore   t theme   q quit") + "\n")

	return b.String()
}

func (m model) viewExplore() string {
	var b strings.Builder

	desc, _ := models.Lookup(m.params.Model())
	status := m.st.success.Render("●")
	if m.computing {
		status = m.st.warning.Render("○")
	}
	b.WriteString(fmt.Sprintf("\n   %s %s", status, m.st.primary.Render(desc.Name)))
	if len(m.presets) > 0 {
		b.WriteString("  " + m.st.muted.Render("preset "+m.presets[m.presetIdx]))
	}
	b.WriteString("\n" + m.st.faint.Render("   "+strings.Repeat("─", 40)) + "\n\n")

	values := models.Values(m.params)
	for i, f := range m.fields {
		val := fmt.Sprintf("%10.4g", values[f.Name])
		if m.editing && i == m.paramCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"▋")
		}
		unit := m.st.faint.Render(f.Unit)
		if i == m.paramCursor {
			b.WriteString("   " + m.st.primary.Render("▸ ") + m.st.text.Render(fmt.Sprintf("%-18s", f.Name)) + m.st.highlight.Render(val) + " " + unit + "\n")
		} else {
			b.WriteString("     " + m.st.muted.Render(fmt.Sprintf("%-18s", f.Name)) + m.st.muted.Render(val) + " " + unit + "\n")
		}
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("   " + m.st.err.Render(m.err.Error()) + "\n\n")
	}

	if m.result != nil && m.result.Len() > 1 {
		b.WriteString(m.plot() + "\n\n")
		b.WriteString(fmt.Sprintf("   %s %d  %s %.1f Hz  %s %.2f mV\n",
			m.st.muted.Render("spikes"), len(m.train.Times),
			m.st.muted.Render("rate"), m.train.Rate,
			m.st.muted.Render("peak"), m.result.Metrics["peak_voltage"]))
	}

	b.WriteString("\n" + m.st.muted.Render("   ↑↓ select  ←→ adjust  enter edit  p preset  d defaults  esc back") + "\n")

	return b.String()
}

func (m model) plot() string {
	w := m.width - 14
	if w < 40 {
		w = 40
	}
	h := m.height - len(m.fields) - 16
	if h < 8 {
		h = 8
	}
	return asciigraph.Plot(m.result.Voltage,
		asciigraph.Height(h),
		asciigraph.Width(w),
		asciigraph.Offset(5),
		asciigraph.Caption(fmt.Sprintf("membrane potential (mV), %.0f ms", m.params.Common().Duration)),
	)
}

// RunInteractive opens the explorer with the named theme.
func RunInteractive(theme string) error {
	p := tea.NewProgram(NewInteractiveApp(theme), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
