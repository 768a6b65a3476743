package views

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tgienger/ask/internal/models"
)

// RequestTimeout bounds every fetch a view starts on its own
var RequestTimeout = 10 * time.Second

// QuestionFeed lists recently posted questions for the home screen
type QuestionFeed interface {
	RecentQuestions(ctx context.Context, limit int) ([]models.Question, error)
}

// ProfileSource loads the signed in user's profile
type ProfileSource interface {
	Profile(ctx context.Context) (models.Profile, error)
}

// Session clears locally stored session state on log out
type Session interface {
	Reset(ctx context.Context) error
}

// OpenQuestion asks the app to push the question composer
type OpenQuestion struct{}

// OpenProfile asks the app to push the profile screen
type OpenProfile struct{}

// NavigateBack pops the current screen
type NavigateBack struct{}

// NavigateTo resets the stack to a named screen
type NavigateTo struct {
	Name string
}

// LoggedOut is sent once the session has been cleared
type LoggedOut struct{}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), RequestTimeout)
}

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}
