package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/biruk-1/Health-coach-sub000/internal/config"
	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/pkg/log"
)

const (
	coachesPath = "/health-coaches"

	defaultRequestTimeout = 10 * time.Second
	defaultLookupTimeout  = 5 * time.Second
	defaultRateLimit      = 20
	defaultBurst          = 40

	// maxBodyBytes bounds a bulk response; the full dataset is a few MB.
	maxBodyBytes = 64 << 20
	maxErrorBody = 512
)

// Client talks to the remote directory HTTP API.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	lookupTimeout time.Duration
	limiter       *rate.Limiter
}

// NewClient creates a remote directory client.
func NewClient(cfg config.RemoteConfig) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("remote base URL required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid remote base URL: %w", err)
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	lookupTimeout := cfg.LookupTimeout
	if lookupTimeout <= 0 {
		lookupTimeout = defaultLookupTimeout
	}
	limit := rate.Limit(cfg.RateLimit)
	if cfg.RateLimit <= 0 {
		limit = defaultRateLimit
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &Client{
		baseURL:       base,
		httpClient:    &http.Client{Timeout: requestTimeout},
		lookupTimeout: lookupTimeout,
		limiter:       rate.NewLimiter(limit, burst),
	}, nil
}

// listEnvelope is the wire shape of a listing response.
type listEnvelope struct {
	Coaches    []domain.CoachRecord `json:"coaches"`
	Total      *int                 `json:"total"`
	Page       *int                 `json:"page"`
	PageSize   *int                 `json:"pageSize"`
	TotalPages *int                 `json:"totalPages"`
}

// ListCoaches fetches one page of coaches matching q.
func (c *Client) ListCoaches(ctx context.Context, q domain.SearchQuery) (*domain.PageResult, error) {
	q = q.Normalize()

	params := url.Values{}
	if q.Specialty != "" {
		params.Set("specialty", q.Specialty)
	}
	if q.MinRating != nil {
		params.Set("rating", strconv.FormatFloat(*q.MinRating, 'f', -1, 64))
	}
	if q.SearchTerm != "" {
		params.Set("searchTerm", q.SearchTerm)
	}
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("limit", strconv.Itoa(q.PageSize))

	endpoint := c.baseURL + coachesPath + "?" + params.Encode()

	var env listEnvelope
	found, err := c.getJSON(ctx, endpoint, &env)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &StatusError{Method: http.MethodGet, URL: endpoint, StatusCode: http.StatusNotFound}
	}

	return decodePage(endpoint, env)
}

// ListAll fetches the entire remote dataset without pagination.
func (c *Client) ListAll(ctx context.Context) ([]domain.CoachRecord, error) {
	endpoint := c.baseURL + coachesPath + "?all=true"

	var env listEnvelope
	found, err := c.getJSON(ctx, endpoint, &env)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &StatusError{Method: http.MethodGet, URL: endpoint, StatusCode: http.StatusNotFound}
	}
	if env.Coaches == nil {
		return nil, &ParseError{URL: endpoint, Err: errors.New("missing coaches")}
	}
	if err := validateRecords(env.Coaches); err != nil {
		return nil, &ParseError{URL: endpoint, Err: err}
	}

	return env.Coaches, nil
}

// GetCoach fetches one coach by id. A 404 yields (nil, nil). The request is
// cancelled once the lookup timeout elapses and ErrLookupTimeout is returned.
func (c *Client) GetCoach(ctx context.Context, id string) (*domain.CoachRecord, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeoutCause(ctx, c.lookupTimeout, ErrLookupTimeout)
	defer cancel()

	endpoint := c.baseURL + coachesPath + "/" + url.PathEscape(id)

	var rec domain.CoachRecord
	found, err := c.getJSON(ctx, endpoint, &rec)
	if err != nil {
		if errors.Is(context.Cause(ctx), ErrLookupTimeout) {
			return nil, fmt.Errorf("%w after %s: %s", ErrLookupTimeout, c.lookupTimeout, id)
		}
		return nil, err
	}
	if !found {
		return nil, nil
	}

	rec.Specialty, err = domain.ParseSpecialty(string(rec.Specialty))
	if err != nil {
		return nil, &ParseError{URL: endpoint, Err: err}
	}
	if err := rec.Validate(); err != nil {
		return nil, &ParseError{URL: endpoint, Err: err}
	}

	return &rec, nil
}

// getJSON performs a GET and decodes a 2xx body into out. It reports
// found=false for 404 responses.
func (c *Client) getJSON(ctx context.Context, endpoint string, out interface{}) (bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return false, fmt.Errorf("%w: rate limiter: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if reqID := log.RequestID(ctx); reqID != "" {
		req.Header.Set(log.HeaderRequestID, reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return false, &StatusError{
			Method:     http.MethodGet,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out); err != nil {
		if ctx.Err() != nil {
			return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return false, &ParseError{URL: endpoint, Err: err}
	}

	return true, nil
}

func decodePage(endpoint string, env listEnvelope) (*domain.PageResult, error) {
	if env.Coaches == nil || env.Total == nil || env.Page == nil || env.PageSize == nil || env.TotalPages == nil {
		return nil, &ParseError{URL: endpoint, Err: errors.New("missing pagination fields")}
	}
	if *env.PageSize < 1 || *env.Page < 1 || *env.Total < 0 || *env.TotalPages < 0 {
		return nil, &ParseError{URL: endpoint, Err: errors.New("pagination fields out of range")}
	}
	if len(env.Coaches) > *env.PageSize {
		return nil, &ParseError{URL: endpoint, Err: fmt.Errorf("%d coaches exceed page size %d", len(env.Coaches), *env.PageSize)}
	}
	if err := validateRecords(env.Coaches); err != nil {
		return nil, &ParseError{URL: endpoint, Err: err}
	}

	return &domain.PageResult{
		Coaches:    env.Coaches,
		Total:      *env.Total,
		Page:       *env.Page,
		PageSize:   *env.PageSize,
		TotalPages: *env.TotalPages,
		Source:     domain.SourceRemote,
	}, nil
}

func validateRecords(records []domain.CoachRecord) error {
	for i := range records {
		spec, err := domain.ParseSpecialty(string(records[i].Specialty))
		if err != nil {
			return fmt.Errorf("coach %d: %w", i, err)
		}
		records[i].Specialty = spec
		if err := records[i].Validate(); err != nil {
			return fmt.Errorf("coach %d: %w", i, err)
		}
	}
	return nil
}
