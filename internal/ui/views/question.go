package views

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tgienger/ask/internal/composer"
	"github.com/tgienger/ask/internal/ui/keys"
	"github.com/tgienger/ask/internal/ui/styles"
)

// Fields of the question form, in tab order
const (
	fieldQuestion = iota
	fieldTeaser
	fieldThemes
	fieldTagInput
	fieldTags
	fieldSubmit
	fieldCount
)

type themesResultMsg struct {
	err error
}

type submitResultMsg struct {
	err error
}

// QuestionView is the form for composing and posting a question. The draft
// itself lives in the composer; the widgets mirror it.
type QuestionView struct {
	composer *composer.Composer
	styles   *styles.Styles
	keys     keys.KeyMap

	width  int
	height int

	focusIdx    int
	question    textarea.Model
	teaser      textarea.Model
	tagInput    textinput.Model
	themeCursor int
	chipCursor  int
	spinner     spinner.Model
	inFlight    int

	// Help popup (shown with ? at narrow widths)
	showHelpPopup bool
}

func NewQuestionView(c *composer.Composer) *QuestionView {
	s := styles.NewStyles()

	question := textarea.New()
	question.Placeholder = "What do you want to ask?"
	question.CharLimit = 2000
	question.SetWidth(50)
	question.SetHeight(4)
	question.ShowLineNumbers = false

	teaser := textarea.New()
	teaser.Placeholder = "A short teaser (optional)"
	teaser.CharLimit = 500
	teaser.SetWidth(50)
	teaser.SetHeight(2)
	teaser.ShowLineNumbers = false

	tagInput := textinput.New()
	tagInput.Placeholder = "Add a tag and press enter"
	tagInput.CharLimit = 50

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(styles.Current.Accent)

	v := &QuestionView{
		composer: c,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		question: question,
		teaser:   teaser,
		tagInput: tagInput,
		spinner:  spin,
	}
	v.updateFocus()
	return v
}

// Composer returns the draft behind the form
func (v *QuestionView) Composer() *composer.Composer {
	return v.composer
}

func (v *QuestionView) Init() tea.Cmd {
	return tea.Batch(v.loadThemes(), v.spinner.Tick, textarea.Blink)
}

func (v *QuestionView) loadThemes() tea.Cmd {
	done := v.composer.LoadThemes(context.Background())
	return func() tea.Msg {
		return themesResultMsg{err: <-done}
	}
}

func (v *QuestionView) submit() tea.Cmd {
	v.inFlight++
	done := v.composer.Submit(context.Background())
	return tea.Batch(v.spinner.Tick, func() tea.Msg {
		return submitResultMsg{err: <-done}
	})
}

func (v *QuestionView) busy() bool {
	return v.inFlight > 0 || v.composer.ThemesLoading()
}

func (v *QuestionView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		inputWidth := clamp(styles.ContentWidth(msg.Width)-8, 20, 60)
		v.question.SetWidth(inputWidth)
		v.teaser.SetWidth(inputWidth)
		v.tagInput.Width = inputWidth - 2
		return v, nil

	case themesResultMsg:
		// the composer already holds the outcome; clamp the cursor to it
		v.themeCursor = clamp(v.themeCursor, 0, max(len(v.composer.Themes())-1, 0))
		return v, nil

	case submitResultMsg:
		// failures were reported by the composer and leave the form as is
		v.inFlight = max(v.inFlight-1, 0)
		return v, nil

	case spinner.TickMsg:
		if !v.busy() {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}
		return v.updateKeys(msg)
	}

	return v, v.updateInput(msg)
}

func (v *QuestionView) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		return v, emit(NavigateBack{})

	case key.Matches(msg, v.keys.Submit):
		return v, v.submit()

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % fieldCount
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.ShiftTab):
		v.focusIdx = (v.focusIdx + fieldCount - 1) % fieldCount
		v.updateFocus()
		return v, nil
	}

	switch v.focusIdx {
	case fieldThemes:
		return v, v.updateThemes(msg)
	case fieldTags:
		return v, v.updateChips(msg)
	case fieldTagInput:
		if key.Matches(msg, v.keys.Enter) {
			v.composer.AddTag(v.tagInput.Value())
			v.tagInput.SetValue(v.composer.TagInput())
			return v, nil
		}
	case fieldSubmit:
		if key.Matches(msg, v.keys.Enter) {
			return v, v.submit()
		}
		if key.Matches(msg, v.keys.Help) {
			v.showHelpPopup = true
		}
		return v, nil
	}

	return v, v.updateInput(msg)
}

func (v *QuestionView) updateThemes(msg tea.KeyMsg) tea.Cmd {
	themes := v.composer.Themes()
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.themeCursor > 0 {
			v.themeCursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.themeCursor < len(themes)-1 {
			v.themeCursor++
		}
	case key.Matches(msg, v.keys.Toggle):
		if v.themeCursor < len(themes) {
			id := themes[v.themeCursor].ID
			v.composer.ToggleTheme(id, !v.composer.IsSelected(id))
		}
	case key.Matches(msg, v.keys.Retry):
		if v.composer.ThemesErr() != nil && !v.composer.ThemesLoading() {
			return tea.Batch(v.loadThemes(), v.spinner.Tick)
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return nil
}

func (v *QuestionView) updateChips(msg tea.KeyMsg) tea.Cmd {
	tags := v.composer.Tags()
	switch {
	case key.Matches(msg, v.keys.Left):
		if v.chipCursor > 0 {
			v.chipCursor--
		}
	case key.Matches(msg, v.keys.Right):
		if v.chipCursor < len(tags)-1 {
			v.chipCursor++
		}
	case key.Matches(msg, v.keys.Delete):
		if v.chipCursor < len(tags) {
			v.composer.RemoveTag(tags[v.chipCursor].Value)
			v.chipCursor = clamp(v.chipCursor, 0, max(len(v.composer.Tags())-1, 0))
		}
	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
	}
	return nil
}

// updateInput forwards msg to the focused text widget and mirrors its value
// into the draft
func (v *QuestionView) updateInput(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focusIdx {
	case fieldQuestion:
		v.question, cmd = v.question.Update(msg)
		v.composer.SetQuestion(v.question.Value())
	case fieldTeaser:
		v.teaser, cmd = v.teaser.Update(msg)
		v.composer.SetTeaser(v.teaser.Value())
	case fieldTagInput:
		v.tagInput, cmd = v.tagInput.Update(msg)
		v.composer.SetTagInput(v.tagInput.Value())
	}
	return cmd
}

func (v *QuestionView) updateFocus() {
	v.question.Blur()
	v.teaser.Blur()
	v.tagInput.Blur()

	switch v.focusIdx {
	case fieldQuestion:
		v.question.Focus()
	case fieldTeaser:
		v.teaser.Focus()
	case fieldTagInput:
		v.tagInput.Focus()
	}
}

func (v *QuestionView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 62)

	questionStyle := s.Input
	teaserStyle := s.Input
	themesStyle := s.Input
	tagInputStyle := s.Input
	tagsStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case fieldQuestion:
		questionStyle = s.InputFocused
	case fieldTeaser:
		teaserStyle = s.InputFocused
	case fieldThemes:
		themesStyle = s.InputFocused
	case fieldTagInput:
		tagInputStyle = s.InputFocused
	case fieldTags:
		tagsStyle = s.InputFocused
	case fieldSubmit:
		btnStyle = s.ButtonFocused
	}

	submitRow := btnStyle.Render(" Post ")
	if v.inFlight > 0 {
		submitRow = lipgloss.JoinHorizontal(lipgloss.Center,
			submitRow, "  ", s.TitleMuted.Render(v.spinner.View()+" Posting…"))
	}

	form := lipgloss.JoinVertical(lipgloss.Left,
		s.Title.Render("Ask a Question"),
		"",
		"Question:",
		questionStyle.Render(v.question.View()),
		"",
		"Teaser:",
		teaserStyle.Render(v.teaser.View()),
		"",
		"Themes:",
		v.renderThemes(themesStyle, inputWidth),
		"",
		"Tags:",
		tagInputStyle.Width(inputWidth).Render(v.tagInput.View()),
		v.renderChips(tagsStyle, inputWidth),
		"",
		submitRow,
		"",
		v.renderHelp(),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		form,
	)
	return styles.CenterView(centered, v.width, v.height)
}

// renderThemes renders one toggle row per catalog entry
func (v *QuestionView) renderThemes(containerStyle lipgloss.Style, width int) string {
	s := v.styles

	if v.composer.ThemesLoading() {
		return containerStyle.Width(width).Render(v.spinner.View() + " Loading themes…")
	}

	themes := v.composer.Themes()
	if len(themes) == 0 {
		// a failed fetch stays in the empty state until retried
		msg := "Loading themes…"
		if v.composer.ThemesErr() != nil {
			msg = "Themes unavailable. Press 'r' here to retry"
		} else if v.composer.ThemesLoaded() {
			msg = "No themes available"
		}
		return containerStyle.Width(width).Render(s.TitleMuted.Render(msg))
	}

	items := make([]string, 0, len(themes))
	for i, t := range themes {
		checkbox := "[ ]"
		rowStyle := s.ThemeOff
		if v.composer.IsSelected(t.ID) {
			checkbox = "[x]"
			rowStyle = s.ThemeOn
		}
		text := rowStyle.Render(checkbox + " " + t.Title)

		if v.focusIdx == fieldThemes && i == v.themeCursor {
			items = append(items, s.ListSelected.Render(checkbox+" "+t.Title))
		} else {
			items = append(items, s.ListItem.Render(text))
		}
	}
	return containerStyle.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, items...))
}

// renderChips renders the tags as removable chips, one per instance
func (v *QuestionView) renderChips(containerStyle lipgloss.Style, width int) string {
	s := v.styles
	tags := v.composer.Tags()
	if len(tags) == 0 {
		return containerStyle.Width(width).Render(s.TitleMuted.Render("No tags"))
	}

	chips := make([]string, 0, len(tags))
	for i, t := range tags {
		label := t.Value
		if label == "" {
			label = "␣"
		}
		if v.focusIdx == fieldTags && i == v.chipCursor {
			chips = append(chips, s.ChipFocus.Render(label+" ✕"))
		} else {
			chips = append(chips, s.Chip.Render(label))
		}
	}
	return containerStyle.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, chips...))
}

func (v *QuestionView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.TitleMuted.Render("Tab: next • Ctrl+S: post • Esc: back")
	}

	var hint string
	switch v.focusIdx {
	case fieldThemes:
		hint = "↑↓: select theme • Space/↵: toggle • "
	case fieldTagInput:
		hint = "↵: add tag • "
	case fieldTags:
		hint = "←→: select tag • x: remove • "
	}
	return v.styles.TitleMuted.Render(fmt.Sprintf("%sTab: next • Ctrl+S: post • Esc: back", hint))
}

func (v *QuestionView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("tab") + "     next field",
		s.HelpKey.Render("space") + "   toggle theme",
		s.HelpKey.Render("r") + "       retry loading themes",
		s.HelpKey.Render("↵") + "       add tag",
		s.HelpKey.Render("x") + "       remove tag",
		s.HelpKey.Render("ctrl+s") + "  post question",
		s.HelpKey.Render("esc") + "     back",
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.Popup.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
