package views

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/composer"
	"github.com/tgienger/ask/internal/models"
	"github.com/tgienger/ask/internal/ui/keys"
	"github.com/tgienger/ask/internal/ui/styles"
)

type questionItem struct {
	question models.Question
}

func (i questionItem) Title() string {
	if strings.TrimSpace(i.question.Question) == "" {
		return "(no question text)"
	}
	return firstLine(i.question.Question)
}

func (i questionItem) Description() string {
	parts := []string{i.question.CreatedAt.Local().Format("Jan 2 15:04")}
	if titles := themeTitles(i.question.Themes); titles != "" {
		parts = append(parts, titles)
	}
	if len(i.question.Tags) > 0 {
		parts = append(parts, "#"+strings.Join(i.question.Tags, " #"))
	}
	return strings.Join(parts, " • ")
}

func (i questionItem) FilterValue() string { return i.question.Question }

type questionDelegate struct {
	styles *styles.Styles
	width  int
}

func (d questionDelegate) Height() int                               { return 2 }
func (d questionDelegate) Spacing() int                              { return 1 }
func (d questionDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d questionDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	q, ok := item.(questionItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	// rows are a fixed two lines high
	title := titleStyle.Render(truncate.StringWithTail(q.Title(), uint(width-4), "…"))
	desc := descStyle.Render(truncate.StringWithTail(q.Description(), uint(width-4), "…"))

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

type questionsLoadedMsg struct {
	questions []models.Question
}

type feedFailedMsg struct {
	err error
}

// HomeView lists recently posted questions
type HomeView struct {
	feed        QuestionFeed
	limit       int
	reporter    composer.ErrorReporter
	log         zerolog.Logger
	showProfile bool

	list     list.Model
	delegate *questionDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	failed   bool

	// Read-only detail of the selected question
	viewing *models.Question

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

func NewHomeView(feed QuestionFeed, limit int, reporter composer.ErrorReporter, l zerolog.Logger, showProfile bool) *HomeView {
	s := styles.NewStyles()

	delegate := &questionDelegate{styles: s, width: 80}

	li := list.New([]list.Item{}, delegate, 0, 0)
	li.Title = "Recent questions"
	li.SetShowStatusBar(false)
	li.SetFilteringEnabled(true)
	li.Styles.Title = s.Title
	li.SetShowHelp(false)

	return &HomeView{
		feed:        feed,
		limit:       limit,
		reporter:    reporter,
		log:         l.With().Str("component", "home").Logger(),
		showProfile: showProfile,
		list:        li,
		delegate:    delegate,
		styles:      s,
		keys:        keys.DefaultKeyMap(),
	}
}

func (v *HomeView) Init() tea.Cmd {
	return v.loadQuestions
}

// Reload refetches the feed
func (v *HomeView) Reload() tea.Cmd {
	v.viewing = nil
	return v.loadQuestions
}

func (v *HomeView) loadQuestions() tea.Msg {
	if v.feed == nil {
		return questionsLoadedMsg{}
	}
	ctx, cancel := withTimeout()
	defer cancel()

	questions, err := v.feed.RecentQuestions(ctx, v.limit)
	if err != nil {
		return feedFailedMsg{err: err}
	}
	return questionsLoadedMsg{questions: questions}
}

func (v *HomeView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case questionsLoadedMsg:
		items := make([]list.Item, len(msg.questions))
		for i, q := range msg.questions {
			items[i] = questionItem{question: q}
		}
		v.list.SetItems(items)
		v.loaded = true
		v.failed = false
		return v, nil

	case feedFailedMsg:
		v.log.Error().Err(msg.err).Msg("Failed to load questions")
		if v.reporter != nil {
			v.reporter.Capture(msg.err)
		}
		v.loaded = true
		v.failed = true
		return v, nil

	case tea.KeyMsg:
		// Handle help popup first - any key closes it
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.viewing != nil {
			if key.Matches(msg, v.keys.Back, v.keys.Enter) {
				v.viewing = nil
			}
			return v, nil
		}

		// let the list own keys while the filter is being typed
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.New):
			return v, emit(OpenQuestion{})
		case key.Matches(msg, v.keys.Profile):
			if v.showProfile {
				return v, emit(OpenProfile{})
			}
			return v, nil
		case key.Matches(msg, v.keys.Retry):
			v.loaded = false
			return v, v.loadQuestions
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(questionItem); ok {
				q := item.question
				v.viewing = &q
			}
			return v, nil
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *HomeView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.viewing != nil {
		return v.renderQuestion(*v.viewing)
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if v.failed {
		return v.renderMessage("Questions unavailable", "Press 'r' to retry")
	}

	if len(v.list.Items()) == 0 {
		return v.renderMessage("No Questions", "Press 'n' to ask your first question")
	}

	content := v.list.View() + "\n" + v.renderHelp()
	return styles.CenterView(content, v.width, v.height)
}

func (v *HomeView) renderMessage(title, hint string) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render(title),
		"",
		s.TitleMuted.Render(hint),
		"",
		s.ButtonPrimary.Render(" Ask a Question "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *HomeView) renderQuestion(q models.Question) string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	wrap := clamp(contentWidth-6, 20, 70)

	lines := []string{
		s.Title.Render("Question"),
		"",
		wordwrap.String(q.Question, wrap),
	}
	if q.Teaser != "" {
		lines = append(lines, "", s.Label.Render("Teaser"), wordwrap.String(q.Teaser, wrap))
	}
	if titles := themeTitles(q.Themes); titles != "" {
		lines = append(lines, "", s.Label.Render("Themes"), wordwrap.String(titles, wrap))
	}
	if len(q.Tags) > 0 {
		chips := make([]string, len(q.Tags))
		for i, t := range q.Tags {
			chips[i] = s.Chip.Render(t)
		}
		lines = append(lines, "", s.Label.Render("Tags"), lipgloss.JoinHorizontal(lipgloss.Top, chips...))
	}
	lines = append(lines,
		"",
		s.TitleMuted.Render("Posted "+q.CreatedAt.Local().Format("Mon Jan 2 15:04")),
		"",
		s.TitleMuted.Render("Esc: back"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left, lines...)
	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *HomeView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	// At narrow widths, show hint to press ? for help
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	items := []string{
		v.styles.HelpKey.Render("↵") + " view",
		v.styles.HelpKey.Render("n") + " ask",
	}
	if v.showProfile {
		items = append(items, v.styles.HelpKey.Render("p")+" profile")
	}
	items = append(items, v.styles.HelpKey.Render("q")+" quit")
	return v.styles.Help.Render(strings.Join(items, " • "))
}

func (v *HomeView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      view question",
		s.HelpKey.Render("n") + "      ask a question",
	}
	if v.showProfile {
		helpItems = append(helpItems, s.HelpKey.Render("p")+"      profile")
	}
	helpItems = append(helpItems,
		s.HelpKey.Render("r")+"      reload",
		s.HelpKey.Render("/")+"      filter",
		s.HelpKey.Render("q")+"      quit",
		"",
		s.TitleMuted.Render("Press any key to close"),
	)

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func themeTitles(themes []models.Theme) string {
	titles := make([]string, 0, len(themes))
	for _, t := range themes {
		if t.Title != "" {
			titles = append(titles, t.Title)
		}
	}
	return strings.Join(titles, ", ")
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
