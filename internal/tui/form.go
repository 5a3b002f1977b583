package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/recipes/internal/form"
	"github.com/idilsaglam/recipes/internal/logging"
	"github.com/idilsaglam/recipes/internal/model"
	"github.com/idilsaglam/recipes/internal/schema"
	"github.com/idilsaglam/recipes/internal/ui"
)

const formTitle = "Add Your Favorite Recipe"

var placeholders = map[model.Field]string{
	model.FieldName:         "Enter your recipe name here",
	model.FieldSource:       "Where did it come from?",
	model.FieldIngredients:  "What ingredients do you need for your dish?",
	model.FieldInstructions: "What are the steps needed to make this recipe?",
}

var textareaRows = map[model.Field]int{
	model.FieldIngredients:  8,
	model.FieldInstructions: 12,
}

// focusButton is the focus index of the submit button, after the five fields.
var focusButton = len(model.Fields())

// Options wires the form to its collaborators.
type Options struct {
	Form   *form.Form
	Schema *schema.Schema
	// Dispatch hands a normalised recipe to the submission client. It must
	// not block; its outcome never comes back to the form.
	Dispatch func(model.Recipe)
	Logger   *slog.Logger
}

// async results, applied on the event loop
type (
	fieldCheckedMsg       form.FieldResult
	eligibilityCheckedMsg form.EligibilityResult
	dispatchedMsg         struct{ name string }
)

type modelTUI struct {
	form     *form.Form
	dispatch func(model.Recipe)
	log      *slog.Logger

	keys keyMap
	help help.Model

	inputs   map[model.Field]*textinput.Model
	areas    map[model.Field]*textarea.Model
	category int // index into model.Options()
	limits   map[model.Field]int
	titles   map[model.Field]string

	focus     int
	width     int
	submitted int
}

func newModel(opt Options) modelTUI {
	if opt.Logger == nil {
		opt.Logger = logging.Discard()
	}
	if opt.Dispatch == nil {
		opt.Dispatch = func(model.Recipe) {}
	}
	m := modelTUI{
		form:     opt.Form,
		dispatch: opt.Dispatch,
		log:      opt.Logger,
		keys:     defaultKeys(),
		help:     help.New(),
		inputs:   map[model.Field]*textinput.Model{},
		areas:    map[model.Field]*textarea.Model{},
		limits:   map[model.Field]int{},
		titles:   map[model.Field]string{},
		width:    80,
	}
	for _, f := range model.Fields() {
		m.limits[f] = opt.Schema.MaxLength(f)
		m.titles[f] = opt.Schema.Title(f)
	}

	for _, f := range []model.Field{model.FieldName, model.FieldSource} {
		ti := textinput.New()
		ti.Prompt = "> "
		ti.Placeholder = placeholders[f]
		ti.CharLimit = m.limits[f]
		ti.Width = m.limits[f]
		m.inputs[f] = &ti
	}
	for _, f := range []model.Field{model.FieldIngredients, model.FieldInstructions} {
		ta := textarea.New()
		ta.ShowLineNumbers = false
		ta.Placeholder = placeholders[f]
		ta.CharLimit = m.limits[f]
		ta.SetHeight(textareaRows[f])
		ta.SetWidth(m.width - 8)
		m.areas[f] = &ta
	}
	m.inputs[model.FieldName].Focus()
	return m
}

// Run shows the form until the user quits and returns how many recipes were
// handed to Dispatch during the session.
func Run(ctx context.Context, opt Options) (int, error) {
	p := tea.NewProgram(newModel(opt), tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return 0, err
	}
	fm, ok := final.(modelTUI)
	if !ok {
		return 0, nil
	}
	return fm.submitted, nil
}

func (m modelTUI) Init() tea.Cmd { return textinput.Blink }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width)
		return m, nil

	case fieldCheckedMsg:
		if !m.form.ApplyField(form.FieldResult(msg)) {
			m.log.Debug("stale field validation dropped", "field", msg.Field, "seq", msg.Seq)
		}
		return m, nil

	case eligibilityCheckedMsg:
		if !m.form.ApplyEligibility(form.EligibilityResult(msg)) {
			m.log.Debug("stale eligibility dropped", "seq", msg.Seq)
		}
		return m, nil

	case dispatchedMsg:
		m.log.Debug("recipe handed to submitter", "name", msg.name)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			cmd := m.setFocus(m.focus + 1)
			return m, cmd
		case key.Matches(msg, m.keys.Prev):
			cmd := m.setFocus(m.focus - 1)
			return m, cmd
		case key.Matches(msg, m.keys.Submit):
			return m.submit()
		}
		if m.focus == focusButton {
			if key.Matches(msg, m.keys.Press) {
				return m.submit()
			}
			return m, nil
		}
		if m.focused() == model.FieldCategory {
			var cmd tea.Cmd
			switch {
			case key.Matches(msg, m.keys.Left):
				cmd = m.cycleCategory(-1)
			case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Press):
				cmd = m.cycleCategory(1)
			}
			return m, cmd
		}
	}
	cmd := m.updateControl(msg)
	return m, cmd
}

func (m modelTUI) focused() model.Field {
	if m.focus < 0 || m.focus >= focusButton {
		return ""
	}
	return model.Fields()[m.focus]
}

// updateControl forwards msg to the focused text control and turns a value
// change into the change handler's checks.
func (m *modelTUI) updateControl(msg tea.Msg) tea.Cmd {
	f := m.focused()
	var before, after string
	var cmd tea.Cmd
	switch {
	case m.inputs[f] != nil:
		ti := m.inputs[f]
		before = ti.Value()
		*ti, cmd = ti.Update(msg)
		after = ti.Value()
	case m.areas[f] != nil:
		ta := m.areas[f]
		before = ta.Value()
		*ta, cmd = ta.Update(msg)
		after = ta.Value()
	default:
		return nil
	}
	if before == after {
		return cmd
	}
	return tea.Batch(cmd, m.change(f, after))
}

func (m *modelTUI) cycleCategory(step int) tea.Cmd {
	opts := model.Options()
	m.category = (m.category + step + len(opts)) % len(opts)
	return m.change(model.FieldCategory, string(opts[m.category]))
}

// change runs the form's change handler and schedules both validations.
func (m *modelTUI) change(f model.Field, v string) tea.Cmd {
	fc, ec, err := m.form.Change(f, v)
	if err != nil {
		m.log.Error("change rejected", "field", f, "err", err)
		return nil
	}
	return tea.Batch(checkField(fc), checkEligibility(ec))
}

func checkField(c form.FieldCheck) tea.Cmd {
	return func() tea.Msg { return fieldCheckedMsg(c.Run()) }
}

func checkEligibility(c form.EligibilityCheck) tea.Cmd {
	return func() tea.Msg { return eligibilityCheckedMsg(c.Run()) }
}

func (m modelTUI) submit() (tea.Model, tea.Cmd) {
	if m.form.Disabled() {
		return m, nil
	}
	payload, recheck := m.form.Submit()
	m.submitted++
	m.clearControls()

	dispatch := m.dispatch
	send := func() tea.Msg {
		dispatch(payload)
		return dispatchedMsg{name: payload.Name}
	}
	focus := m.setFocus(0)
	return m, tea.Batch(send, checkEligibility(recheck), focus)
}

// clearControls mirrors the reset draft in the widgets.
func (m *modelTUI) clearControls() {
	for _, ti := range m.inputs {
		ti.Reset()
	}
	for _, ta := range m.areas {
		ta.Reset()
	}
	m.category = 0
}

func (m *modelTUI) setFocus(i int) tea.Cmd {
	n := focusButton + 1
	m.focus = (i%n + n) % n
	var cmd tea.Cmd
	for j, f := range model.Fields() {
		on := j == m.focus
		switch {
		case m.inputs[f] != nil:
			if on {
				cmd = m.inputs[f].Focus()
			} else {
				m.inputs[f].Blur()
			}
		case m.areas[f] != nil:
			if on {
				cmd = m.areas[f].Focus()
			} else {
				m.areas[f].Blur()
			}
		}
	}
	return cmd
}

func (m *modelTUI) resize(w int) {
	if w <= 0 {
		return
	}
	m.width = w
	for _, ta := range m.areas {
		ta.SetWidth(max(20, w-8))
	}
	m.help.Width = w
}

// setCursorMode is used by tests to keep cursors from ticking.
func (m *modelTUI) setCursorMode(mode cursor.Mode) {
	for _, ti := range m.inputs {
		ti.Cursor.SetMode(mode)
	}
	for _, ta := range m.areas {
		ta.Cursor.SetMode(mode)
	}
}

func (m modelTUI) View() string {
	t := ui.Current()
	var b strings.Builder
	b.WriteString(t.Title.Render(formTitle))
	b.WriteString("\n")

	for i, f := range model.Fields() {
		b.WriteString("\n")
		if msg := m.form.Error(f); msg != "" {
			b.WriteString(t.Error.Render(msg))
			b.WriteString("\n")
		}
		label := t.Muted.Render("  " + m.titles[f])
		if i == m.focus {
			label = t.Focused.Render(t.SymCursor + " " + m.titles[f])
		}
		b.WriteString(label)
		b.WriteString("\n")

		switch {
		case m.inputs[f] != nil:
			b.WriteString(m.inputs[f].View())
		case m.areas[f] != nil:
			b.WriteString(m.areas[f].View())
			b.WriteString("\n")
			b.WriteString(t.Muted.Render(ui.Meter(len([]rune(m.areas[f].Value())), m.limits[f], 20)))
		default:
			b.WriteString(m.categoryView(i == m.focus))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.buttonView())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return ui.PanelString([]string{b.String()})
}

func (m modelTUI) categoryView(focused bool) string {
	t := ui.Current()
	c := model.Options()[m.category]
	text := fmt.Sprintf("‹ %s ›", c.Label())
	if focused {
		return t.Accent.Render(text)
	}
	if c == model.CategoryNone {
		return t.Muted.Render(text)
	}
	return text
}

func (m modelTUI) buttonView() string {
	t := ui.Current()
	label := "Submit Recipe"
	if m.form.Disabled() {
		return t.Disabled.Render("[ " + label + " ]")
	}
	if m.focus == focusButton {
		return t.SymCursor + " " + t.Button.Render(label)
	}
	return "  " + t.Button.Render(label)
}
