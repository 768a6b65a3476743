package views

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/composer"
	"github.com/tgienger/ask/internal/models"
)

type questionFixture struct {
	view      *QuestionView
	composer  *composer.Composer
	catalog   *fakeCatalog
	submitter *fakeSubmitter
	reporter  *fakeReporter
	nav       *fakeNavigator
}

func newQuestionFixture(t *testing.T, catalogErr error) *questionFixture {
	t.Helper()
	f := &questionFixture{
		catalog: &fakeCatalog{
			themes: []models.Theme{{ID: 1, Title: "Technology"}, {ID: 2, Title: "Culture"}},
			err:    catalogErr,
		},
		submitter: &fakeSubmitter{},
		reporter:  &fakeReporter{},
		nav:       &fakeNavigator{},
	}
	l := zerolog.Nop()
	f.composer = composer.New(composer.Deps{
		Catalog:   f.catalog,
		Submitter: f.submitter,
		Reporter:  f.reporter,
		Navigator: f.nav,
		Logger:    &l,
	})
	f.view = NewQuestionView(f.composer)
	f.view.Update(tea.WindowSizeMsg{Width: 100, Height: 50})

	// run the initial load to completion
	msgs := collect(t, f.view.loadThemes())
	for _, m := range msgs {
		f.view.Update(m)
	}
	return f
}

func (f *questionFixture) tab(n int) {
	for i := 0; i < n; i++ {
		f.view.Update(tea.KeyMsg{Type: tea.KeyTab})
	}
}

func TestQuestionTypingMirrorsIntoDraft(t *testing.T) {
	f := newQuestionFixture(t, nil)

	f.view.Update(keyRunes("Why Go?"))
	f.tab(1)
	f.view.Update(keyRunes("short"))

	if got := f.composer.Question(); got != "Why Go?" {
		t.Fatalf("question = %q", got)
	}
	if got := f.composer.Teaser(); got != "short" {
		t.Fatalf("teaser = %q", got)
	}
}

func TestQuestionToggleTheme(t *testing.T) {
	f := newQuestionFixture(t, nil)
	f.tab(fieldThemes)

	space := keyRunes(" ")
	f.view.Update(space)
	if !f.composer.IsSelected(1) {
		t.Fatal("first theme should be selected")
	}

	f.view.Update(tea.KeyMsg{Type: tea.KeyDown})
	f.view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f.view.Update(tea.KeyMsg{Type: tea.KeyUp})
	f.view.Update(space)

	if got := f.composer.SelectedThemes(); !reflect.DeepEqual(got, []int64{2}) {
		t.Fatalf("selected = %v", got)
	}
	if !strings.Contains(f.view.View(), "[x] Culture") {
		t.Fatalf("selected theme not rendered:\n%s", f.view.View())
	}
}

func TestQuestionAddTagClearsInput(t *testing.T) {
	f := newQuestionFixture(t, nil)
	f.tab(fieldTagInput)

	f.view.Update(keyRunes("golang"))
	if got := f.composer.TagInput(); got != "golang" {
		t.Fatalf("tag input = %q", got)
	}
	f.view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	f.view.Update(keyRunes("golang"))
	f.view.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if got := f.composer.TagValues(); !reflect.DeepEqual(got, []string{"golang", "golang"}) {
		t.Fatalf("tags = %v", got)
	}
	if f.view.tagInput.Value() != "" || f.composer.TagInput() != "" {
		t.Fatal("tag input should be cleared after adding")
	}
}

func TestQuestionRemoveChipRemovesEveryMatch(t *testing.T) {
	f := newQuestionFixture(t, nil)
	f.composer.AddTag("a")
	f.composer.AddTag("b")
	f.composer.AddTag("a")
	f.tab(fieldTags)

	f.view.Update(keyRunes("x"))

	if got := f.composer.TagValues(); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("tags = %v", got)
	}
	if f.view.chipCursor != 0 {
		t.Fatalf("chip cursor = %d", f.view.chipCursor)
	}
}

func TestQuestionSubmitDispatchesAndNavigates(t *testing.T) {
	f := newQuestionFixture(t, nil)
	f.view.Update(keyRunes("Q"))
	f.composer.ToggleTheme(2, true)
	f.composer.AddTag("t")

	_, cmd := f.view.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if f.view.inFlight != 1 {
		t.Fatalf("in flight = %d", f.view.inFlight)
	}
	msgs := collect(t, cmd)
	res, ok := find[submitResultMsg](msgs)
	if !ok {
		t.Fatalf("no submit result in %v", msgs)
	}
	if res.err != nil {
		t.Fatalf("submit error: %v", res.err)
	}
	f.view.Update(res)

	want := models.Payload{Question: "Q", Teaser: "", SelectedThemes: []int64{2}, Tags: []string{"t"}}
	if len(f.submitter.payloads) != 1 || !reflect.DeepEqual(f.submitter.payloads[0], want) {
		t.Fatalf("payloads = %#v", f.submitter.payloads)
	}
	if !reflect.DeepEqual(f.nav.calls, []string{"prior", composer.HomeScreen}) {
		t.Fatalf("navigation = %v", f.nav.calls)
	}
	if f.view.inFlight != 0 {
		t.Fatalf("in flight = %d", f.view.inFlight)
	}
}

func TestQuestionSubmitFailureStaysOnForm(t *testing.T) {
	f := newQuestionFixture(t, nil)
	f.submitter.err = errors.New("503")
	f.tab(fieldSubmit)

	_, cmd := f.view.Update(tea.KeyMsg{Type: tea.KeyEnter})
	res, _ := find[submitResultMsg](collect(t, cmd))
	var subErr *composer.SubmissionError
	if !errors.As(res.err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", res.err)
	}
	if len(f.nav.calls) != 0 {
		t.Fatalf("should not navigate, got %v", f.nav.calls)
	}
	if f.reporter.count() != 1 {
		t.Fatalf("reported %d errors", f.reporter.count())
	}
}

func TestQuestionEscNavigatesBack(t *testing.T) {
	f := newQuestionFixture(t, nil)
	_, cmd := f.view.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := find[NavigateBack](collect(t, cmd)); !ok {
		t.Fatal("esc should emit NavigateBack")
	}
}

func TestQuestionThemesFailureShowsRetryHint(t *testing.T) {
	f := newQuestionFixture(t, errors.New("catalog down"))

	if !strings.Contains(f.view.View(), "Themes unavailable") {
		t.Fatalf("missing retry hint:\n%s", f.view.View())
	}
	if f.reporter.count() != 1 {
		t.Fatalf("reported %d errors", f.reporter.count())
	}

	// r only retries while the theme list is focused
	f.view.Update(keyRunes("r"))
	if f.catalog.callCount() != 1 {
		t.Fatal("r in the question field should be typed, not retry")
	}

	f.catalog.mu.Lock()
	f.catalog.err = nil
	f.catalog.mu.Unlock()

	f.tab(fieldThemes)
	_, cmd := f.view.Update(keyRunes("r"))
	for _, m := range collect(t, cmd) {
		f.view.Update(m)
	}
	if f.catalog.callCount() != 2 {
		t.Fatalf("catalog called %d times", f.catalog.callCount())
	}
	if got := len(f.composer.Themes()); got != 2 {
		t.Fatalf("themes after retry = %d", got)
	}
}

func TestQuestionHelpPopup(t *testing.T) {
	f := newQuestionFixture(t, nil)
	f.tab(fieldSubmit)
	f.view.Update(keyRunes("?"))
	if !strings.Contains(f.view.View(), "Keyboard Shortcuts") {
		t.Fatal("help popup not shown")
	}
	f.view.Update(keyRunes("a"))
	if f.view.showHelpPopup {
		t.Fatal("any key should close the popup")
	}
}
