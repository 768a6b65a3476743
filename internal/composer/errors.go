package composer

import "fmt"

// CatalogFetchError wraps a failure of ThemeCatalog.FetchAll
type CatalogFetchError struct {
	Err error
}

func (e *CatalogFetchError) Error() string {
	return fmt.Sprintf("fetch theme catalog: %v", e.Err)
}

func (e *CatalogFetchError) Unwrap() error { return e.Err }

// SubmissionError wraps any failure raised while dispatching a payload
type SubmissionError struct {
	Err error
}

func (e *SubmissionError) Error() string {
	return fmt.Sprintf("submit question: %v", e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// panicError turns a recovered panic value into an error
func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
