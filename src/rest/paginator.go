package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"easykaiko/src/interfaces"
	"easykaiko/src/logger"
	"easykaiko/src/models"
	"easykaiko/src/serializers"
)

// ErrServerReported matches every *ServerError with errors.Is.
var ErrServerReported = errors.New("server reported error")

// -----------------------------------------------------------------------------

// ServerError is returned when a page envelope carries result "error".
type ServerError struct {
	Message string
	URL     string
}

func (e *ServerError) Error() string {
	return e.Message
}

func (e *ServerError) Is(target error) bool {
	return target == ErrServerReported
}

// -----------------------------------------------------------------------------

// Paginator fetches every page of a REST query by following next_url.
type Paginator struct {
	Name       string
	apiKey     string
	httpClient *http.Client
	serializer interfaces.ISerializer
	logger     *logger.Logger
}

// -----------------------------------------------------------------------------

// NewPaginator creates a Paginator. A nil httpClient means http.DefaultClient.
func NewPaginator(apiKey string, httpClient *http.Client, log *logger.Logger) *Paginator {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Paginator{
		Name:       "RESTPaginator",
		apiKey:     apiKey,
		httpClient: httpClient,
		serializer: serializers.NewJSONSerializer(),
		logger:     log,
	}
}

// -----------------------------------------------------------------------------

// FetchAll requests endpoint with params, then every continuation URL without
// params, and returns the concatenated records of all pages.
// Nothing is returned when any page fails.
func (p *Paginator) FetchAll(ctx context.Context, endpoint string, params url.Values) ([]json.RawMessage, error) {
	records := make([]json.RawMessage, 0)

	next := endpoint
	pages := 0
	for next != "" {
		page, err := p.fetchPage(ctx, next, params)
		if err != nil {
			return nil, err
		}
		pages++

		if page.Result == models.ResultError {
			message := page.Message
			if message == "" {
				message = "unknown"
			}
			p.logger.Error("%s : page %d of %s failed: %s", p.Name, pages, endpoint, message)
			return nil, &ServerError{Message: message, URL: next}
		}

		records = append(records, page.Data...)
		next = page.NextURL
		// the continuation URL carries the whole query
		params = nil
	}

	p.logger.Debug("%s : fetched %d records in %d pages from %s", p.Name, len(records), pages, endpoint)
	return records, nil
}

// -----------------------------------------------------------------------------

// fetchPage issues one authenticated GET and decodes the envelope.
func (p *Paginator) fetchPage(ctx context.Context, target string, params url.Values) (*models.MPageEnvelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	if len(params) > 0 {
		q := req.URL.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("X-Api-Key", p.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", target, err)
	}

	var page models.MPageEnvelope
	if err := p.serializer.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("failed to decode page from %s (status %d): %w", target, resp.StatusCode, err)
	}
	return &page, nil
}
