package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/composer"
	"github.com/tgienger/ask/internal/ui/views"
)

// Screen names, also stored as the last_screen setting
const (
	ScreenHome      = composer.HomeScreen
	ScreenQuestion  = "question"
	ScreenProfile   = "profile"
	ScreenSignedOut = "signed-out"

	settingLastScreen = "last_screen"
)

// Settings persists small key/value preferences
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Deps are the collaborators the screens are built from
type Deps struct {
	Catalog   composer.ThemeCatalog
	Submitter composer.PostSubmitter
	Feed      views.QuestionFeed
	Profiles  views.ProfileSource
	Session   views.Session
	Settings  Settings
	Reporter  composer.ErrorReporter
	Logger    zerolog.Logger

	FeedLimit   int
	ShowProfile bool
}

type screen struct {
	name  string
	model tea.Model
}

// Navigator turns composer navigation into app messages. It is safe to call
// from any goroutine once the program is attached.
type Navigator struct {
	mu   sync.Mutex
	send func(tea.Msg)
}

func (n *Navigator) attach(send func(tea.Msg)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.send = send
}

func (n *Navigator) dispatch(msg tea.Msg) {
	n.mu.Lock()
	send := n.send
	n.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

func (n *Navigator) GoToPriorScreen() {
	n.dispatch(views.NavigateBack{})
}

func (n *Navigator) GoToNamedScreen(name string) {
	n.dispatch(views.NavigateTo{Name: name})
}

type App struct {
	deps  Deps
	log   zerolog.Logger
	nav   *Navigator
	home  *views.HomeView
	stack []screen

	width  int
	height int
}

// Creates a new application
func NewApp(deps Deps) *App {
	home := views.NewHomeView(deps.Feed, deps.FeedLimit, deps.Reporter, deps.Logger, deps.ShowProfile)
	return &App{
		deps:  deps,
		log:   deps.Logger.With().Str("component", "app").Logger(),
		nav:   &Navigator{},
		home:  home,
		stack: []screen{{name: ScreenHome, model: home}},
	}
}

// SetSend connects the navigator to a running program, usually
// tea.Program.Send
func (a *App) SetSend(send func(tea.Msg)) {
	a.nav.attach(send)
}

// Current returns the name of the screen on top of the stack
func (a *App) Current() string {
	return a.top().name
}

func (a *App) top() screen {
	return a.stack[len(a.stack)-1]
}

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.home.Init()}

	// Reopen the profile if it was the last screen shown
	if a.deps.Settings != nil && a.deps.ShowProfile {
		last, err := a.deps.Settings.GetSetting(settingLastScreen)
		if err == nil && last == ScreenProfile {
			cmds = append(cmds, a.push(ScreenProfile, a.newProfile()))
		}
	}
	return tea.Batch(cmds...)
}

func (a *App) newQuestion() tea.Model {
	c := composer.New(composer.Deps{
		Catalog:   a.deps.Catalog,
		Submitter: a.deps.Submitter,
		Reporter:  a.deps.Reporter,
		Navigator: a.nav,
		Logger:    &a.deps.Logger,
	})
	return views.NewQuestionView(c)
}

func (a *App) newProfile() tea.Model {
	return views.NewProfileView(a.deps.Profiles, a.deps.Session, a.deps.Reporter, a.deps.Logger)
}

func (a *App) push(name string, model tea.Model) tea.Cmd {
	a.stack = append(a.stack, screen{name: name, model: model})
	a.remember(name)
	a.log.Debug().Str("screen", name).Int("depth", len(a.stack)).Msg("push")

	return tea.Batch(model.Init(), a.resize())
}

func (a *App) pop() {
	if len(a.stack) == 1 {
		return
	}
	a.teardown(a.top())
	a.stack = a.stack[:len(a.stack)-1]
	a.remember(a.top().name)
	a.log.Debug().Str("screen", a.top().name).Int("depth", len(a.stack)).Msg("pop")
}

// teardown closes the composer of a question screen so late completions
// neither write to it nor navigate
func (a *App) teardown(s screen) {
	if q, ok := s.model.(*views.QuestionView); ok {
		q.Composer().Close()
	}
}

func (a *App) remember(name string) {
	if a.deps.Settings == nil || name == ScreenQuestion || name == ScreenSignedOut {
		return
	}
	if err := a.deps.Settings.SetSetting(settingLastScreen, name); err != nil {
		a.log.Warn().Err(err).Msg("Failed to save last screen")
	}
}

func (a *App) resize() tea.Cmd {
	width, height := a.width, a.height
	return func() tea.Msg {
		return tea.WindowSizeMsg{Width: width, Height: height}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// every screen on the stack keeps its layout current
		for _, s := range a.stack {
			s.model.Update(msg)
		}
		return a, nil

	case views.OpenQuestion:
		return a, a.push(ScreenQuestion, a.newQuestion())

	case views.OpenProfile:
		return a, a.push(ScreenProfile, a.newProfile())

	case views.NavigateBack:
		a.pop()
		if a.Current() == ScreenHome {
			return a, a.home.Reload()
		}
		return a, nil

	case views.NavigateTo:
		return a, a.navigateTo(msg.Name)

	case views.LoggedOut:
		for _, s := range a.stack {
			a.teardown(s)
		}
		a.stack = []screen{{name: ScreenSignedOut, model: views.NewSignedOutView()}}
		a.log.Info().Msg("signed out")
		return a, a.resize()
	}

	var cmd tea.Cmd
	top := a.top()
	top.model, cmd = top.model.Update(msg)
	a.stack[len(a.stack)-1] = top
	return a, cmd
}

func (a *App) navigateTo(name string) tea.Cmd {
	switch name {
	case ScreenHome:
		for len(a.stack) > 1 {
			a.pop()
		}
		if a.Current() != ScreenHome {
			// signed out; there is no home to return to
			return nil
		}
		return a.home.Reload()
	case ScreenProfile:
		if a.Current() == ScreenProfile {
			return nil
		}
		return a.push(ScreenProfile, a.newProfile())
	case ScreenQuestion:
		return a.push(ScreenQuestion, a.newQuestion())
	}
	a.log.Warn().Str("screen", name).Msg("unknown screen")
	return nil
}

func (a *App) View() string {
	return a.top().model.View()
}
