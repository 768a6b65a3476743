package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/db"
	"github.com/tgienger/ask/internal/models"
	"github.com/tgienger/ask/internal/ui/views"
)

type memSettings struct {
	mu     sync.Mutex
	values map[string]string
	failOn string
}

func (m *memSettings) GetSetting(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

func (m *memSettings) SetSetting(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if key == m.failOn {
		return errors.New("read-only")
	}
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func (m *memSettings) get(key string) string {
	v, _ := m.GetSetting(key)
	return v
}

type stubProfiles struct{}

func (stubProfiles) Profile(context.Context) (models.Profile, error) {
	return models.Profile{FirstName: "Ada"}, nil
}

func newTestApp(t *testing.T, settings *memSettings) (*App, *db.DB) {
	t.Helper()
	database, err := db.New(db.MemoryPath)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	app := NewApp(Deps{
		Catalog:     database,
		Submitter:   database,
		Feed:        database,
		Profiles:    stubProfiles{},
		Session:     database,
		Settings:    settings,
		Logger:      zerolog.Nop(),
		FeedLimit:   10,
		ShowProfile: true,
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return app, database
}

func TestAppStartsOnHome(t *testing.T) {
	app, _ := newTestApp(t, &memSettings{})
	app.Init()
	if app.Current() != ScreenHome {
		t.Fatalf("current = %q", app.Current())
	}
}

func TestAppRestoresProfileScreen(t *testing.T) {
	settings := &memSettings{values: map[string]string{settingLastScreen: ScreenProfile}}
	app, _ := newTestApp(t, settings)
	app.Init()
	if app.Current() != ScreenProfile {
		t.Fatalf("current = %q", app.Current())
	}
}

func TestAppOpenAndLeaveQuestionClosesComposer(t *testing.T) {
	settings := &memSettings{}
	app, _ := newTestApp(t, settings)

	app.Update(views.OpenQuestion{})
	if app.Current() != ScreenQuestion {
		t.Fatalf("current = %q", app.Current())
	}
	q := app.top().model.(*views.QuestionView)

	app.Update(views.NavigateBack{})
	if app.Current() != ScreenHome {
		t.Fatalf("current = %q", app.Current())
	}
	if !q.Composer().Closed() {
		t.Fatal("leaving the question screen should close its composer")
	}
	if got := settings.get(settingLastScreen); got != ScreenHome {
		t.Fatalf("last screen = %q", got)
	}
}

func TestAppBackOnHomeIsNoop(t *testing.T) {
	app, _ := newTestApp(t, &memSettings{})
	app.Update(views.NavigateBack{})
	if app.Current() != ScreenHome || len(app.stack) != 1 {
		t.Fatalf("stack = %v", app.stack)
	}
}

func TestAppProfileRemembered(t *testing.T) {
	settings := &memSettings{}
	app, _ := newTestApp(t, settings)

	app.Update(views.OpenProfile{})
	if got := settings.get(settingLastScreen); got != ScreenProfile {
		t.Fatalf("last screen = %q", got)
	}
	app.Update(views.NavigateTo{Name: ScreenProfile})
	if len(app.stack) != 2 {
		t.Fatalf("profile pushed twice, depth %d", len(app.stack))
	}
}

func TestAppSettingFailureDoesNotBlockNavigation(t *testing.T) {
	app, _ := newTestApp(t, &memSettings{failOn: settingLastScreen})
	app.Update(views.OpenProfile{})
	if app.Current() != ScreenProfile {
		t.Fatalf("current = %q", app.Current())
	}
}

func TestAppLoggedOutReplacesStack(t *testing.T) {
	app, _ := newTestApp(t, &memSettings{})
	app.Update(views.OpenQuestion{})
	q := app.top().model.(*views.QuestionView)
	app.Update(views.OpenProfile{})

	app.Update(views.LoggedOut{})
	if app.Current() != ScreenSignedOut || len(app.stack) != 1 {
		t.Fatalf("stack = %v", app.stack)
	}
	if !q.Composer().Closed() {
		t.Fatal("composer should be closed on log out")
	}
	if !strings.Contains(app.View(), "Signed out") {
		t.Fatal("signed out screen not rendered")
	}

	// a late navigation has no home to return to
	app.Update(views.NavigateTo{Name: ScreenHome})
	if app.Current() != ScreenSignedOut {
		t.Fatalf("current = %q", app.Current())
	}
}

func TestNavigatorDropsMessagesUntilAttached(t *testing.T) {
	nav := &Navigator{}
	nav.GoToPriorScreen()

	var got []tea.Msg
	nav.attach(func(msg tea.Msg) { got = append(got, msg) })
	nav.GoToPriorScreen()
	nav.GoToNamedScreen(ScreenHome)

	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if _, ok := got[0].(views.NavigateBack); !ok {
		t.Fatalf("first = %T", got[0])
	}
	if to, ok := got[1].(views.NavigateTo); !ok || to.Name != ScreenHome {
		t.Fatalf("second = %#v", got[1])
	}
}

// A successful submission travels through the composer, the navigator and
// back into the app, ending on a refreshed home screen.
func TestAppSubmitReturnsHome(t *testing.T) {
	app, database := newTestApp(t, &memSettings{})

	sent := make(chan tea.Msg, 4)
	app.SetSend(func(msg tea.Msg) { sent <- msg })

	app.Update(views.OpenQuestion{})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Is this on?")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if cmd == nil {
		t.Fatal("submit should return a command")
	}

	for i := 0; i < 2; i++ {
		select {
		case msg := <-sent:
			app.Update(msg)
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for navigation")
		}
	}

	if app.Current() != ScreenHome {
		t.Fatalf("current = %q", app.Current())
	}
	qs, err := database.RecentQuestions(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecentQuestions: %v", err)
	}
	if len(qs) != 1 || qs[0].Question != "Is this on?" {
		t.Fatalf("stored = %#v", qs)
	}
}
