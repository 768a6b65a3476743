package views

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/composer"
	"github.com/tgienger/ask/internal/models"
	"github.com/tgienger/ask/internal/ui/keys"
	"github.com/tgienger/ask/internal/ui/styles"
)

const underConstruction = "Your dashboard is under construction. Questions you post will show up here soon."

type profileLoadedMsg struct {
	profile models.Profile
}

type profileFailedMsg struct {
	err error
}

type logoutFailedMsg struct {
	err error
}

// ProfileView shows who is signed in and offers to log out
type ProfileView struct {
	source   ProfileSource
	session  Session
	reporter composer.ErrorReporter
	log      zerolog.Logger

	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int

	profile    models.Profile
	loaded     bool
	failed     bool
	confirming bool
	loggingOut bool
}

func NewProfileView(source ProfileSource, session Session, reporter composer.ErrorReporter, l zerolog.Logger) *ProfileView {
	return &ProfileView{
		source:   source,
		session:  session,
		reporter: reporter,
		log:      l.With().Str("component", "profile").Logger(),
		styles:   styles.NewStyles(),
		keys:     keys.DefaultKeyMap(),
	}
}

func (v *ProfileView) Init() tea.Cmd {
	return v.loadProfile
}

func (v *ProfileView) loadProfile() tea.Msg {
	ctx, cancel := withTimeout()
	defer cancel()

	p, err := v.source.Profile(ctx)
	if err != nil {
		return profileFailedMsg{err: err}
	}
	return profileLoadedMsg{profile: p}
}

func (v *ProfileView) logout() tea.Msg {
	ctx, cancel := withTimeout()
	defer cancel()

	if v.session != nil {
		if err := v.session.Reset(ctx); err != nil {
			return logoutFailedMsg{err: err}
		}
	}
	return LoggedOut{}
}

func (v *ProfileView) capture(err error) {
	if v.reporter != nil {
		v.reporter.Capture(err)
	}
}

func (v *ProfileView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case profileLoadedMsg:
		v.profile = msg.profile
		v.loaded = true
		v.failed = false
		return v, nil

	case profileFailedMsg:
		v.log.Error().Err(msg.err).Msg("Failed to load profile")
		v.capture(msg.err)
		v.loaded = true
		v.failed = true
		return v, nil

	case logoutFailedMsg:
		v.log.Error().Err(msg.err).Msg("Failed to log out")
		v.capture(msg.err)
		v.loggingOut = false
		return v, nil

	case tea.KeyMsg:
		if v.loggingOut {
			return v, nil
		}
		if v.confirming {
			return v.updateConfirmLogout(msg)
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.Back):
			return v, emit(NavigateBack{})
		case key.Matches(msg, v.keys.Retry):
			if v.failed {
				v.loaded = false
				return v, v.loadProfile
			}
		case key.Matches(msg, v.keys.Enter):
			v.confirming = true
		}
	}
	return v, nil
}

func (v *ProfileView) updateConfirmLogout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.confirming = false
		v.loggingOut = true
		v.log.Info().Msg("logging out")
		return v, v.logout
	case "n", "N", "esc":
		v.confirming = false
		v.log.Info().Msg("logout cancelled")
	}
	return v, nil
}

func (v *ProfileView) View() string {
	if v.confirming {
		return v.renderLogoutConfirm()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	var body []string
	switch {
	case !v.loaded:
		body = []string{s.TitleMuted.Render("Loading...")}
	case v.failed:
		body = []string{
			s.Error.Render("Profile unavailable"),
			"",
			s.TitleMuted.Render("Press 'r' to retry"),
		}
	default:
		body = v.renderProfile()
	}

	button := s.ButtonFocused.Render(" Log out ")
	if v.loggingOut {
		button = s.TitleMuted.Render("Logging out…")
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		append(append([]string{s.Title.Render("Profile"), ""}, body...),
			"",
			button,
			"",
			s.Subtitle.Render(wordwrap.String(underConstruction, clamp(contentWidth-10, 20, 50))),
			"",
			s.TitleMuted.Render("↵: log out • Esc: back • q: quit"),
		)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *ProfileView) renderProfile() []string {
	s := v.styles
	p := v.profile

	lines := []string{v.renderAvatar()}
	if p.ProfileImage != "" {
		lines = append(lines, s.TitleMuted.Render(p.ProfileImage))
	}

	name := p.FullName()
	if name == "" {
		name = "Anonymous"
	}
	lines = append(lines, "", s.Name.Render(name))
	if p.Job != "" {
		lines = append(lines, s.Subtitle.Render(p.Job))
	}
	return lines
}

// renderAvatar shows the first letter of the first name, or a placeholder
// glyph when a profile image is set
func (v *ProfileView) renderAvatar() string {
	if v.profile.ProfileImage != "" {
		return v.styles.Avatar.Render("◉")
	}
	initial := v.profile.Initial()
	if initial == "" {
		initial = "?"
	}
	return v.styles.Avatar.Render(initial)
}

func (v *ProfileView) renderLogoutConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Log out?"),
		"",
		s.TitleMuted.Render("Local settings will be cleared."),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

// SignedOutView is shown after logging out
type SignedOutView struct {
	styles *styles.Styles
	keys   keys.KeyMap
	width  int
	height int
}

func NewSignedOutView() *SignedOutView {
	return &SignedOutView{styles: styles.NewStyles(), keys: keys.DefaultKeyMap()}
}

func (v *SignedOutView) Init() tea.Cmd { return nil }

func (v *SignedOutView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
	case tea.KeyMsg:
		if key.Matches(msg, v.keys.Quit, v.keys.Back, v.keys.Enter) {
			return v, tea.Quit
		}
	}
	return v, nil
}

func (v *SignedOutView) View() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("Signed out"),
		"",
		s.TitleMuted.Render("Press any of q, esc or ↵ to exit"),
	)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
