// Package equilibrator is the HTTP client for the standard-ΔG estimation
// service.  It resolves compound identifiers and names for the compound
// stage and answers the ΔG queries of the reaction stage.
//
// The client never retries.  A failed call is returned to the pipeline, which
// records it in the cache entry and moves on.
package equilibrator

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/turtacn/gem-thermo/internal/config"
	"github.com/turtacn/gem-thermo/internal/domain/compound"
	"github.com/turtacn/gem-thermo/internal/domain/thermo"
	"github.com/turtacn/gem-thermo/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/gem-thermo/pkg/errors"
)

// Service endpoints.
const (
	pathCompoundSearch       = "/v1/compounds/search"
	pathCompoundSearchByName = "/v1/compounds/search-by-name"
	pathReactionParse        = "/v1/reactions/parse"
	pathStandardDG           = "/v1/reactions/standard-dg"
	pathStandardDGPhased     = "/v1/reactions/standard-dg/phased"
	pathMulticompartmentalDG = "/v1/reactions/multicompartmental-dg"
)

// maxErrorBody bounds how much of an error response is kept in messages.
const maxErrorBody = 512

// Client talks to the estimation service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	limiter    *rate.Limiter
	logger     logging.Logger
}

var (
	_ compound.Lookup  = (*Client)(nil)
	_ thermo.Estimator = (*Client)(nil)
)

// NewClient builds a Client from cfg.  A zero rate limit disables throttling.
func NewClient(cfg config.EquilibratorConfig, logger logging.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, errors.InvalidConfig("equilibrator base URL must be an absolute http(s) URL").WithDetail(cfg.BaseURL)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultEquilibratorTimeout
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		userAgent:  cfg.UserAgent,
		limiter:    rate.NewLimiter(limit, burst),
		logger:     logger.Named("equilibrator"),
	}
	if c.userAgent == "" {
		c.userAgent = config.DefaultUserAgent
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Wire types
// ─────────────────────────────────────────────────────────────────────────────

type parseRequest struct {
	Formula string `json:"formula"`
}

type standardDGRequest struct {
	Reaction *thermo.ParsedReaction `json:"reaction"`
}

type phasedRequest struct {
	Terms []thermo.PhasedTerm `json:"terms"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// ─────────────────────────────────────────────────────────────────────────────
// compound.Lookup
// ─────────────────────────────────────────────────────────────────────────────

// FindByIdentifier looks up a "namespace:id" query.
func (c *Client) FindByIdentifier(ctx context.Context, query string) (*compound.Match, error) {
	var m compound.Match
	if err := c.get(ctx, pathCompoundSearch, url.Values{"query": {query}}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// SearchByName looks up a compound by common name.
func (c *Client) SearchByName(ctx context.Context, name string) (*compound.Match, error) {
	var m compound.Match
	if err := c.get(ctx, pathCompoundSearchByName, url.Values{"name": {name}}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// thermo.Estimator
// ─────────────────────────────────────────────────────────────────────────────

// ParseFormula asks the service to parse and balance-check formula.
func (c *Client) ParseFormula(ctx context.Context, formula string) (*thermo.ParsedReaction, error) {
	var out thermo.ParsedReaction
	if err := c.post(ctx, pathReactionParse, parseRequest{Formula: formula}, &out); err != nil {
		return nil, err
	}
	if out.Formula == "" {
		out.Formula = formula
	}
	return &out, nil
}

// StandardDG estimates ΔG'° of a parsed reaction.
func (c *Client) StandardDG(ctx context.Context, rxn *thermo.ParsedReaction) (*thermo.Estimate, error) {
	if rxn == nil {
		return nil, errors.New(errors.ErrCodeFormulaInvalid, "no parsed reaction")
	}
	var out thermo.Estimate
	if err := c.post(ctx, pathStandardDG, standardDGRequest{Reaction: rxn}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StandardDGPhased estimates ΔG'° of a reaction given as phased terms.
func (c *Client) StandardDGPhased(ctx context.Context, terms []thermo.PhasedTerm) (*thermo.Estimate, error) {
	if len(terms) == 0 {
		return nil, errors.New(errors.ErrCodeFormulaInvalid, "no terms to estimate")
	}
	var out thermo.Estimate
	if err := c.post(ctx, pathStandardDGPhased, phasedRequest{Terms: terms}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MulticompartmentalDG estimates ΔG'° of a transmembrane reaction.
func (c *Client) MulticompartmentalDG(ctx context.Context, q thermo.MulticompartmentalQuery) (*thermo.Estimate, error) {
	if q.Inner == nil || q.Outer == nil {
		return nil, errors.New(errors.ErrCodeNoTransmembraneInfo, "both half reactions are required")
	}
	var out thermo.Estimate
	if err := c.post(ctx, pathMulticompartmentalDG, q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Transport
// ─────────────────────────────────────────────────────────────────────────────

func (c *Client) get(ctx context.Context, path string, query url.Values, result interface{}) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// do performs one request.  Errors returned here are what ends up in cache
// entries, so their messages carry the status and the service's message but
// never the request id.
func (c *Client) do(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceRateLimited, "waiting for request slot")
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.ErrCodeSerialization, "encode request body")
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceRequest, "build request")
	}
	requestID := uuid.New().String()
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.logger.Warn("request failed",
			logging.String("method", method),
			logging.String("path", path),
			logging.String("request_id", requestID),
			logging.Err(err))
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), errors.ErrCodeTimeout, "request cancelled")
		}
		return errors.Wrap(err, errors.ErrCodeServiceRequest, "estimation service unreachable")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceResponse, "read response body")
	}

	c.logger.Debug("request done",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.String("request_id", requestID),
		logging.Duration("elapsed", elapsed))

	if resp.StatusCode >= 400 {
		return statusError(resp.StatusCode, respBody)
	}
	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return errors.Wrap(err, errors.ErrCodeServiceResponse, "decode response body")
		}
	}
	return nil
}

// statusError maps an HTTP error response to an AppError.
func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var er errorResponse
	if len(body) > 0 && json.Unmarshal(body, &er) == nil {
		switch {
		case er.Message != "":
			msg = er.Message
		case er.Detail != "":
			msg = er.Detail
		}
	}
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}

	code := errors.ErrCodeServiceResponse
	switch {
	case status == http.StatusNotFound:
		code = errors.ErrCodeNotFound
	case status == http.StatusTooManyRequests:
		code = errors.ErrCodeServiceRateLimited
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		code = errors.ErrCodeFormulaUnparsable
	}

	text := fmt.Sprintf("estimation service returned %d", status)
	if msg != "" {
		text += ": " + msg
	}
	return errors.New(code, text)
}

//Personal.AI order the ending
