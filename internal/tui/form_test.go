package tui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/recipes/internal/form"
	"github.com/idilsaglam/recipes/internal/model"
	"github.com/idilsaglam/recipes/internal/schema"
	"github.com/idilsaglam/recipes/internal/submit"
)

type recorder struct {
	mu  sync.Mutex
	got []model.Recipe
}

func (r *recorder) dispatch(rec model.Recipe) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, rec)
}

func (r *recorder) recipes() []model.Recipe {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.Recipe(nil), r.got...)
}

func newTestModel(t *testing.T, dispatch func(model.Recipe)) modelTUI {
	t.Helper()
	s := schema.MustDefault()
	m := newModel(Options{Form: form.New(s), Schema: s, Dispatch: dispatch})
	m.setCursorMode(cursor.CursorStatic)
	return m
}

// send delivers msg and then resolves every command it produced, feeding the
// resulting messages back in the order they come out.
func send(t *testing.T, m modelTUI, msg tea.Msg) modelTUI {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(modelTUI)
	return drain(t, m, cmd)
}

func drain(t *testing.T, m modelTUI, cmd tea.Cmd) modelTUI {
	t.Helper()
	if cmd == nil {
		return m
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		for _, c := range msg {
			m = drain(t, m, c)
		}
	case fieldCheckedMsg, eligibilityCheckedMsg, dispatchedMsg:
		m = send(t, m, msg)
	}
	return m
}

func typeText(t *testing.T, m modelTUI, s string) modelTUI {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func press(t *testing.T, m modelTUI, k tea.KeyType) modelTUI {
	t.Helper()
	return send(t, m, tea.KeyMsg{Type: k})
}

func fillForm(t *testing.T, m modelTUI) modelTUI {
	t.Helper()
	m = typeText(t, m, "  Pancakes  ") // name
	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "Grandma") // source
	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyRight) // category: breakfast
	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, " flour, eggs, milk ") // ingredients
	m = press(t, m, tea.KeyTab)
	m = typeText(t, m, "Mix. Fry.") // instructions
	return m
}

func TestTypingStoresRawValue(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeText(t, m, "  Pancakes  ")

	require.Equal(t, "  Pancakes  ", m.form.Values().Name)
	require.Equal(t, "", m.form.Error(model.FieldName))
	require.True(t, m.form.Disabled())
}

func TestBlankFieldShowsError(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeText(t, m, "   ")

	require.Equal(t, "Name is required", m.form.Error(model.FieldName))
	require.Contains(t, m.View(), "Name is required")
}

func TestFocusCycles(t *testing.T) {
	m := newTestModel(t, nil)
	require.Equal(t, 0, m.focus)

	for i := 1; i <= focusButton; i++ {
		m = press(t, m, tea.KeyTab)
		require.Equal(t, i, m.focus)
	}
	m = press(t, m, tea.KeyTab)
	require.Equal(t, 0, m.focus, "tab wraps to the first field")

	m = press(t, m, tea.KeyShiftTab)
	require.Equal(t, focusButton, m.focus, "shift+tab wraps to the button")
}

func TestCategorySelector(t *testing.T) {
	m := newTestModel(t, nil)
	m = press(t, m, tea.KeyTab)
	m = press(t, m, tea.KeyTab)
	require.Equal(t, model.FieldCategory, m.focused())

	m = press(t, m, tea.KeyLeft)
	require.Equal(t, model.CategoryMiscellaneous, m.form.Values().Category)
	require.Equal(t, "", m.form.Error(model.FieldCategory))

	m = press(t, m, tea.KeyRight)
	require.Equal(t, model.CategoryNone, m.form.Values().Category)
	require.Equal(t, "Please select a recipe category", m.form.Error(model.FieldCategory))
}

func TestSubmitEnabledOnlyWhenComplete(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(t, rec.dispatch)

	m = press(t, m, tea.KeyCtrlS)
	require.Empty(t, rec.recipes(), "disabled form must not submit")

	m = fillForm(t, m)
	require.False(t, m.form.Disabled())
	require.Contains(t, m.View(), "Submit Recipe")
}

func TestSubmitDispatchesTrimmedPayloadAndResets(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(t, rec.dispatch)
	m = fillForm(t, m)

	m = press(t, m, tea.KeyCtrlS)

	got := rec.recipes()
	require.Len(t, got, 1)
	require.Equal(t, model.Recipe{
		Name:         "Pancakes",
		Source:       "Grandma",
		Category:     model.CategoryBreakfast,
		Ingredients:  "flour, eggs, milk",
		Instructions: "Mix. Fry.",
	}, got[0])

	require.Equal(t, model.NewRecipe(), m.form.Values())
	require.True(t, m.form.Disabled())
	require.Equal(t, 1, m.submitted)
	require.Equal(t, 0, m.focus)
	for _, ti := range m.inputs {
		require.Equal(t, "", ti.Value())
	}
	for _, ta := range m.areas {
		require.Equal(t, "", ta.Value())
	}
	require.Equal(t, 0, m.category)
}

func TestSubmitFromButton(t *testing.T) {
	rec := &recorder{}
	m := newTestModel(t, rec.dispatch)
	m = fillForm(t, m)
	m = press(t, m, tea.KeyTab)
	require.Equal(t, focusButton, m.focus)

	m = press(t, m, tea.KeyEnter)
	require.Len(t, rec.recipes(), 1)
}

func TestResetDoesNotWaitForFailingNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close() // every request now fails to connect

	d := submit.NewDispatcher(submit.New(url))
	m := newTestModel(t, d.Dispatch)
	m = fillForm(t, m)

	m = press(t, m, tea.KeyCtrlS)
	require.Equal(t, model.NewRecipe(), m.form.Values())
	require.Equal(t, 1, m.submitted)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, d.Wait(ctx))
	require.Equal(t, model.NewRecipe(), m.form.Values(), "failure does not touch the form")
}

func TestTextareaRespectsCharLimit(t *testing.T) {
	m := newTestModel(t, nil)
	for range 3 {
		m = press(t, m, tea.KeyTab)
	}
	require.Equal(t, model.FieldIngredients, m.focused())

	m = typeText(t, m, strings.Repeat("a", 301))
	require.Len(t, m.form.Values().Ingredients, 300)
	require.Equal(t, "", m.form.Error(model.FieldIngredients))
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewRendersLabelsAndPlaceholders(t *testing.T) {
	m := newTestModel(t, nil)
	v := m.View()
	require.Contains(t, v, formTitle)
	for _, label := range []string{"Name", "Source", "Category", "Ingredients", "Instructions"} {
		require.Contains(t, v, label)
	}
	require.Contains(t, v, "-- select recipe category --")
	require.Contains(t, v, "0/300")
}
