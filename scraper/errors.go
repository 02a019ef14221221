package scraper

import "fmt"

// SourceFetchError reports that one source could not be fetched or parsed.
// The collector logs it and moves on to the next source.
type SourceFetchError struct {
	URL string
	Err error
}

func (e *SourceFetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *SourceFetchError) Unwrap() error {
	return e.Err
}
