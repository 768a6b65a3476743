package views

import (
	"context"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/ask/internal/models"
)

type fakeFeed struct {
	questions []models.Question
	err       error
	limit     int
}

func (f *fakeFeed) RecentQuestions(ctx context.Context, limit int) ([]models.Question, error) {
	f.limit = limit
	return f.questions, f.err
}

type fakeProfiles struct {
	profile models.Profile
	err     error
}

func (f *fakeProfiles) Profile(ctx context.Context) (models.Profile, error) {
	return f.profile, f.err
}

type fakeSession struct {
	resets int
	err    error
}

func (f *fakeSession) Reset(ctx context.Context) error {
	f.resets++
	return f.err
}

type fakeCatalog struct {
	mu     sync.Mutex
	themes []models.Theme
	err    error
	calls  int
}

func (f *fakeCatalog) FetchAll(ctx context.Context) ([]models.Theme, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.themes, f.err
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSubmitter struct {
	mu       sync.Mutex
	payloads []models.Payload
	err      error
}

func (f *fakeSubmitter) Submit(ctx context.Context, p models.Payload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return f.err
}

type fakeReporter struct {
	mu   sync.Mutex
	errs []error
}

func (f *fakeReporter) Capture(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs = append(f.errs, err)
}

func (f *fakeReporter) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.errs)
}

type fakeNavigator struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeNavigator) GoToPriorScreen() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "prior")
}

func (f *fakeNavigator) GoToNamedScreen(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and every command batched inside it, returning the
// produced messages
func collect(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, collect(t, c)...)
		}
		return msgs
	}
	return []tea.Msg{msg}
}

// find returns the first message of type T
func find[T any](msgs []tea.Msg) (T, bool) {
	for _, m := range msgs {
		if v, ok := m.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
