package domain

import "errors"

var (
	// ErrEmptyQuery signals a missing or blank query string.
	ErrEmptyQuery = errors.New("query is empty")
	// ErrInvalidLimit signals a limit outside the accepted range.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrCacheMiss signals no live cache entry for the key.
	ErrCacheMiss = errors.New("cache miss")
	// ErrSearchProviderError signals a search provider failure.
	ErrSearchProviderError = errors.New("search provider error")
	// ErrVerifierError signals a text-LLM verification failure.
	ErrVerifierError = errors.New("verifier error")
	// ErrVisionError signals a vision-LLM extraction failure.
	ErrVisionError = errors.New("vision extraction error")
	// ErrScrapeError signals a page fetch or parse failure.
	ErrScrapeError = errors.New("scrape error")
	// ErrScreenshotError signals a screenshot render failure.
	ErrScreenshotError = errors.New("screenshot error")
	// ErrNoCredentials signals missing provider credentials at startup or request time.
	ErrNoCredentials = errors.New("missing provider credentials")
)
