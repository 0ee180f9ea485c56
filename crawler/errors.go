package crawler

import "fmt"

// FetchError reports a failed page download: network error, timeout, or a
// non-2xx status. It is fatal to the ingestion run.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.Status)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ExtractionError reports that no title could be resolved through any
// fallback, including the page's generic title metadata. Missing optional
// fields never produce this error.
type ExtractionError struct {
	URL string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: no title found", e.URL)
}
