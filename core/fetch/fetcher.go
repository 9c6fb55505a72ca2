// Package fetch implements the Fetcher interface.
// It performs HTTP GET requests against the story site, always attaching the
// age-gate agreement parameter, and parses the response into a document tree.
package fetch

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/gaurav-prasanna/storypdf/core"
	"github.com/gaurav-prasanna/storypdf/core/source"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultUserAgent = "storypdf/1.0 (+https://github.com/gaurav-prasanna/storypdf)"
)

// Options tune the transport. The zero value is usable.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	RetryCount int     // 0 disables retries
	RateLimit  float64 // requests per second, <= 0 means unlimited
	UserAgent  string
	Logger     *zerolog.Logger // transport-level diagnostics from resty
}

// HTTPFetcher fetches story pages via HTTP.
type HTTPFetcher struct {
	client  *resty.Client
	baseURL string
	limiter *rate.Limiter
}

// New creates an HTTPFetcher.
func New(opts Options) *HTTPFetcher {
	if opts.BaseURL == "" {
		opts.BaseURL = source.DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	client := resty.New().
		SetTimeout(opts.Timeout).
		SetRetryCount(opts.RetryCount).
		SetLogger(restyLogger{log: logger.With().Str("component", "resty").Logger()}).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml").
		SetQueryParam(source.AgreementParam, source.AgreementValue)

	f := &HTTPFetcher{
		client:  client,
		baseURL: opts.BaseURL,
	}
	if opts.RateLimit > 0 {
		f.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}
	return f
}

// Fetch retrieves and parses the page at url.
// The HTTP status is logged but not checked: an error page is parsed like any
// other and the extractor reports what is missing from it.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, &core.TransportError{URL: url, Err: err}
		}
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return nil, &core.TransportError{URL: url, Err: err}
	}

	zerolog.Ctx(ctx).Info().
		Int("status", resp.StatusCode()).
		Str("reason", http.StatusText(resp.StatusCode())).
		Str("url", url).
		Msg("fetched page")

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, &core.ExtractionError{Region: "document", Reason: err.Error()}
	}
	return doc, nil
}

// FetchStory retrieves the frontpage of a story.
func (f *HTTPFetcher) FetchStory(ctx context.Context, storyID string) (*goquery.Document, error) {
	return f.Fetch(ctx, source.StoryURL(f.baseURL, storyID))
}

// FetchChapter retrieves the page of one chapter.
func (f *HTTPFetcher) FetchChapter(ctx context.Context, storyID string, chapter core.Chapter) (*goquery.Document, error) {
	return f.Fetch(ctx, source.ChapterURL(f.baseURL, storyID, chapter.ID, chapter.URLNumber()))
}

// restyLogger routes resty's internal messages (retries, warnings) to zerolog.
type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) { l.log.Error().Msgf(format, v...) }
func (l restyLogger) Warnf(format string, v ...interface{})  { l.log.Warn().Msgf(format, v...) }
func (l restyLogger) Debugf(format string, v ...interface{}) { l.log.Debug().Msgf(format, v...) }
