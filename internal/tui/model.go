// Package tui is a terminal front end for meal analysis built on Bubble Tea.
// It drives a collector.Form in-process against an analysis.Analyzer.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/guttosm/nutriplate/internal/analysis"
	"github.com/guttosm/nutriplate/internal/collector"
	"github.com/guttosm/nutriplate/internal/domain/model"
	"github.com/guttosm/nutriplate/internal/media"
)

// Field indexes, in focus order.
const (
	fieldAdultMales = iota
	fieldAdultFemales
	fieldChildren
	fieldText
	fieldImagePath
	fieldCount
)

var counterFields = map[int]collector.Member{
	fieldAdultMales:   collector.AdultMales,
	fieldAdultFemales: collector.AdultFemales,
	fieldChildren:     collector.Children,
}

type keyMap struct {
	Next       key.Binding
	Prev       key.Binding
	Attach     key.Binding
	Submit     key.Binding
	ClearImage key.Binding
	Reset      key.Binding
	Quit       key.Binding
}

var keys = keyMap{
	Next:       key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next")),
	Prev:       key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("shift+tab", "prev")),
	Attach:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "attach photo")),
	Submit:     key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "analyze")),
	ClearImage: key.NewBinding(key.WithKeys("ctrl+x"), key.WithHelp("ctrl+x", "clear photo")),
	Reset:      key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "clear result")),
	Quit:       key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
}

// analysisDoneMsg carries the outcome of one submission.
type analysisDoneMsg struct {
	result *model.AnalysisResult
	err    error
}

// Option configures a Model.
type Option func(*Model)

// WithImageOptions sets how attached photos are normalized.
func WithImageOptions(opts media.Options) Option {
	return func(m *Model) {
		m.imageOpts = opts
	}
}

// WithContext sets the parent context for analysis calls.
func WithContext(ctx context.Context) Option {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// Model is the Bubble Tea model.
type Model struct {
	form      *collector.Form
	analyzer  analysis.Analyzer
	imageOpts media.Options
	ctx       context.Context

	inputs    []textinput.Model
	focus     int
	spinner   spinner.Model
	imageName string
	notice    string
	width     int
}

// New returns a model seeded with the default family.
func New(analyzer analysis.Analyzer, opts ...Option) Model {
	m := Model{
		form:      collector.NewForm(),
		analyzer:  analyzer,
		imageOpts: media.DefaultOptions(),
		ctx:       context.Background(),
	}
	for _, opt := range opts {
		opt(&m)
	}

	m.inputs = make([]textinput.Model, fieldCount)
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = "> "
		switch i {
		case fieldAdultMales, fieldAdultFemales, fieldChildren:
			ti.CharLimit = 3
			ti.Width = 5
			ti.SetValue("1")
		case fieldText:
			ti.CharLimit = 1000
			ti.Width = 60
			ti.Placeholder = "e.g. 250g rice, 100g moong dal"
		case fieldImagePath:
			ti.CharLimit = 512
			ti.Width = 60
			ti.Placeholder = "path to a meal photo, then enter"
		}
		m.inputs[i] = ti
	}
	m.inputs[m.focus].Focus()

	m.spinner = spinner.New()
	m.spinner.Spinner = spinner.Dot
	m.spinner.Style = accentStyle

	return m
}

// Form exposes the underlying form state.
func (m Model) Form() *collector.Form {
	return m.form
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case analysisDoneMsg:
		m.form.Pending = false
		if msg.err != nil {
			m.form.Error = msg.err.Error()
			return m, nil
		}
		m.form.Result = msg.result
		return m, nil

	case spinner.TickMsg:
		if !m.form.Pending {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Submit):
			return m.submit()
		case key.Matches(msg, keys.ClearImage):
			m.form.ClearImage()
			m.imageName = ""
			m.notice = ""
			return m, nil
		case key.Matches(msg, keys.Reset):
			m.form.Reset()
			return m, nil
		case key.Matches(msg, keys.Next):
			return m.moveFocus(1), nil
		case key.Matches(msg, keys.Prev):
			return m.moveFocus(-1), nil
		case key.Matches(msg, keys.Attach) && m.focus == fieldImagePath:
			m.attachImage(m.inputs[fieldImagePath].Value())
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.syncField(m.focus)
	return m, cmd
}

func (m Model) moveFocus(delta int) Model {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + fieldCount) % fieldCount
	m.inputs[m.focus].Focus()
	return m
}

func (m *Model) syncField(field int) {
	value := m.inputs[field].Value()
	if member, ok := counterFields[field]; ok {
		m.form.SetCount(member, value)
		return
	}
	if field == fieldText {
		m.form.SetText(value)
	}
}

// attachImage reads, normalizes and attaches the photo at path.
func (m *Model) attachImage(path string) {
	path = strings.TrimSpace(path)
	if path == "" {
		m.form.ClearImage()
		m.imageName = ""
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		m.notice = fmt.Sprintf("cannot read photo: %v", err)
		return
	}
	normalized, err := media.Normalize(data, m.imageOpts)
	if err != nil {
		m.notice = fmt.Sprintf("cannot use photo: %v", err)
		return
	}

	m.form.SetImageBytes(normalized.Data, media.JPEGMIMEType)
	m.imageName = filepath.Base(path)
	m.notice = fmt.Sprintf("attached %s (%dx%d)", m.imageName, normalized.Width, normalized.Height)
	m.inputs[fieldImagePath].SetValue("")
}

// submit starts one analysis unless the form is disabled. The request runs
// on a copy of the form so the update loop never shares it with the command.
func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.form.CanSubmit() {
		return m, nil
	}

	snapshot := *m.form
	m.form.Pending = true
	m.form.Result = nil
	m.form.Error = ""

	ctx, analyzer := m.ctx, m.analyzer
	run := func() tea.Msg {
		err := snapshot.Submit(ctx, analyzer)
		return analysisDoneMsg{result: snapshot.Result, err: err}
	}
	return m, tea.Batch(m.spinner.Tick, run)
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("NutriPlate"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %.1f consumption units", m.form.Family.ConsumptionUnits())))
	b.WriteString("\n\n")

	labels := []string{"Adult males", "Adult females", "Children", "Meal", "Photo"}
	for i, input := range m.inputs {
		label := labelStyle.Render(labels[i])
		if i == m.focus {
			label = focusStyle.Inherit(labelStyle).Render(labels[i])
		}
		b.WriteString(label + input.View() + "\n")
	}

	if m.imageName != "" {
		b.WriteString(mutedStyle.Render("photo: "+m.imageName) + "\n")
	}
	if m.notice != "" {
		b.WriteString(mutedStyle.Render(m.notice) + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.form.Pending:
		b.WriteString(m.spinner.View() + " Analyzing...\n")
	case m.form.Error != "":
		b.WriteString(errorStyle.Render("✖ "+m.form.Error) + "\n")
	case m.form.Result != nil:
		b.WriteString(RenderResult(m.form.Result, m.width) + "\n")
	case !m.form.CanSubmit():
		b.WriteString(mutedStyle.Render("Describe the meal or attach a photo to analyze.") + "\n")
	}

	help := []key.Binding{keys.Next, keys.Submit, keys.Attach, keys.ClearImage, keys.Reset, keys.Quit}
	parts := make([]string, 0, len(help))
	for _, h := range help {
		parts = append(parts, h.Help().Key+" "+h.Help().Desc)
	}
	b.WriteString("\n" + helpStyle.Render(strings.Join(parts, " • ")))

	return b.String()
}
