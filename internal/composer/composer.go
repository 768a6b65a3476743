// Package composer holds the question draft and orchestrates theme loading,
// tag editing and submission for the question screen.
package composer

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tgienger/ask/internal/models"
)

// HomeScreen is the named screen shown after a successful submission
const HomeScreen = "home"

// ThemeCatalog fetches the themes an author can attach to a question
type ThemeCatalog interface {
	FetchAll(ctx context.Context) ([]models.Theme, error)
}

// PostSubmitter hands a payload to the posting service. A nil error means
// the payload was accepted.
type PostSubmitter interface {
	Submit(ctx context.Context, payload models.Payload) error
}

// ErrorReporter is a fire-and-forget sink for failures
type ErrorReporter interface {
	Capture(err error)
}

// Navigator moves between screens
type Navigator interface {
	GoToPriorScreen()
	GoToNamedScreen(name string)
}

// Deps are the collaborators of a Composer. Reporter and Navigator may be nil.
type Deps struct {
	Catalog   ThemeCatalog
	Submitter PostSubmitter
	Reporter  ErrorReporter
	Navigator Navigator
	Logger    *zerolog.Logger
}

var (
	errNoCatalog   = errors.New("no theme catalog configured")
	errNoSubmitter = errors.New("no post submitter configured")
)

// Composer owns a single question draft. All methods are safe to call from
// the UI goroutine while theme loads and submissions complete in the
// background.
type Composer struct {
	catalog   ThemeCatalog
	submitter PostSubmitter
	reporter  ErrorReporter
	nav       Navigator
	log       zerolog.Logger

	mu       sync.Mutex
	question string
	teaser   string
	selected map[int64]struct{}
	tags     []models.Tag
	tagInput string

	themes    []models.Theme
	loaded    bool
	loading   bool
	loadGen   uint64
	themesErr error
	closed    bool
}

// New creates a composer with an empty draft
func New(deps Deps) *Composer {
	log := zerolog.Nop()
	if deps.Logger != nil {
		log = deps.Logger.With().Str("component", "composer").Logger()
	}
	return &Composer{
		catalog:   deps.Catalog,
		submitter: deps.Submitter,
		reporter:  deps.Reporter,
		nav:       deps.Navigator,
		log:       log,
		selected:  make(map[int64]struct{}),
		tags:      []models.Tag{},
	}
}

// SetQuestion replaces the question body verbatim
func (c *Composer) SetQuestion(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.question = text
}

// Question returns the question body
func (c *Composer) Question() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.question
}

// SetTeaser replaces the explanatory text verbatim
func (c *Composer) SetTeaser(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.teaser = text
}

// Teaser returns the explanatory text
func (c *Composer) Teaser() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.teaser
}

// LoadThemes starts fetching the theme catalog. The returned channel
// receives the outcome once and is then closed; callers are free to ignore
// it. Only the most recent load applies its result, and nothing is applied
// after Close.
func (c *Composer) LoadThemes(ctx context.Context) <-chan error {
	done := make(chan error, 1)

	c.mu.Lock()
	c.loadGen++
	gen := c.loadGen
	c.loading = !c.closed
	c.mu.Unlock()

	go func() {
		defer close(done)

		themes, err := c.fetchThemes(ctx)
		if err != nil {
			fetchErr := &CatalogFetchError{Err: err}
			c.mu.Lock()
			if c.current(gen) {
				c.loading = false
				c.themesErr = fetchErr
			}
			c.mu.Unlock()
			c.log.Error().Err(err).Msg("theme catalog fetch failed")
			c.report(fetchErr)
			done <- fetchErr
			return
		}

		c.mu.Lock()
		if c.current(gen) {
			c.themes = slices.Clone(themes)
			c.loaded = true
			c.loading = false
			c.themesErr = nil
			c.pruneSelection()
		}
		c.mu.Unlock()
		c.log.Debug().Int("count", len(themes)).Msg("theme catalog loaded")
		done <- nil
	}()

	return done
}

func (c *Composer) fetchThemes(ctx context.Context) (themes []models.Theme, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	if c.catalog == nil {
		return nil, errNoCatalog
	}
	return c.catalog.FetchAll(ctx)
}

// current reports whether a load of generation gen may still write state.
// Callers hold c.mu.
func (c *Composer) current(gen uint64) bool {
	return !c.closed && gen == c.loadGen
}

// pruneSelection drops selected IDs missing from the loaded catalog.
// Callers hold c.mu.
func (c *Composer) pruneSelection() {
	known := c.catalogIDs()
	for id := range c.selected {
		if _, ok := known[id]; !ok {
			delete(c.selected, id)
			c.log.Warn().Int64("theme_id", id).Msg("dropping selection missing from catalog")
		}
	}
}

func (c *Composer) catalogIDs() map[int64]struct{} {
	ids := make(map[int64]struct{}, len(c.themes))
	for _, t := range c.themes {
		ids[t.ID] = struct{}{}
	}
	return ids
}

// Themes returns the loaded catalog, empty until a load succeeds
func (c *Composer) Themes() []models.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.themes)
}

// ThemesLoaded reports whether a catalog fetch has succeeded
func (c *Composer) ThemesLoaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// ThemesLoading reports whether a catalog fetch is in flight
func (c *Composer) ThemesLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ThemesErr returns the error of the last failed catalog fetch
func (c *Composer) ThemesErr() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.themesErr
}

// ToggleTheme adds or removes id from the selection. It never fails and
// does not check id against the catalog.
func (c *Composer) ToggleTheme(id int64, active bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if active {
		c.selected[id] = struct{}{}
		return
	}
	delete(c.selected, id)
}

// IsSelected reports whether id is part of the selection
func (c *Composer) IsSelected(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.selected[id]
	return ok
}

// SelectedThemes returns the selected IDs in ascending order
func (c *Composer) SelectedThemes() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedIDs(nil)
}

// selectedIDs returns sorted selected IDs, restricted to known when non-nil.
// Callers hold c.mu.
func (c *Composer) selectedIDs(known map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(c.selected))
	for id := range c.selected {
		if known != nil {
			if _, ok := known[id]; !ok {
				continue
			}
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Snapshot copies the draft into a payload. Selected themes that are not in
// the loaded catalog are left out.
func (c *Composer) Snapshot() models.Payload {
	c.mu.Lock()
	defer c.mu.Unlock()

	tags := make([]string, len(c.tags))
	for i, t := range c.tags {
		tags[i] = t.Value
	}
	return models.Payload{
		Question:       c.question,
		Teaser:         c.teaser,
		SelectedThemes: c.selectedIDs(c.catalogIDs()),
		Tags:           tags,
	}
}

// Submit snapshots the draft and dispatches it without waiting. Once the
// submitter accepts the payload the navigator is sent to the prior screen
// and then home. Failures are reported and otherwise swallowed; the
// returned channel receives the outcome once. Concurrent calls each
// dispatch their own snapshot.
func (c *Composer) Submit(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	payload := c.Snapshot()
	c.log.Info().
		Int("tags", len(payload.Tags)).
		Ints64("themes", payload.SelectedThemes).
		Msg("dispatching question")

	go func() {
		defer close(done)
		if err := c.dispatch(ctx, payload); err != nil {
			subErr := &SubmissionError{Err: err}
			c.log.Error().Err(err).Msg("question submission failed")
			c.report(subErr)
			done <- subErr
			return
		}
		done <- nil
	}()

	return done
}

func (c *Composer) dispatch(ctx context.Context, payload models.Payload) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError(r)
		}
	}()
	if c.submitter == nil {
		return errNoSubmitter
	}
	if err := c.submitter.Submit(ctx, payload); err != nil {
		return err
	}
	c.log.Info().Msg("question accepted")

	if c.nav == nil || c.Closed() {
		return nil
	}
	c.nav.GoToPriorScreen()
	c.nav.GoToNamedScreen(HomeScreen)
	return nil
}

func (c *Composer) report(err error) {
	if c.reporter != nil {
		c.reporter.Capture(err)
	}
}

// Close marks the screen as torn down. Pending theme loads are discarded
// and accepted submissions no longer navigate.
func (c *Composer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.loading = false
}

// Closed reports whether Close was called
func (c *Composer) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
