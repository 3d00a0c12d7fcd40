// Package ynab reads transactions and category budgets from the YNAB REST API.
package ynab

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fjacquet/budget-analyzer/internal/analysiserror"
	"fjacquet/budget-analyzer/internal/dateutils"
	"fjacquet/budget-analyzer/internal/logging"
	"fjacquet/budget-analyzer/internal/models"

	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public YNAB API endpoint.
	DefaultBaseURL = "https://api.ynab.com/v1"

	defaultTimeout = 30 * time.Second
	defaultBackoff = 500 * time.Millisecond
	maxBackoff     = 30 * time.Second
	maxBodySize    = 64 << 20 // 64 MB, a full transaction history can be large
	userAgent      = "fjacquet/budget-analyzer/1.0"
)

// Options tunes the client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
}

// Client fetches budget data for one API token.
type Client struct {
	token      string
	baseURL    string
	http       *http.Client
	timeout    time.Duration
	maxRetries int
	limiter    *rate.Limiter
	backoff    time.Duration
	logger     logging.Logger
}

// NewClient creates a client authenticating with the given personal access token.
func NewClient(token string, opts Options, logger logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	maxRetries := opts.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}

	return &Client{
		token:      strings.TrimSpace(token),
		baseURL:    baseURL,
		http:       &http.Client{},
		timeout:    timeout,
		maxRetries: maxRetries,
		limiter:    limiter,
		backoff:    defaultBackoff,
		logger:     logger.WithField(logging.FieldComponent, "ynab"),
	}
}

type transactionsResponse struct {
	Data struct {
		Transactions    []models.RawTransaction `json:"transactions"`
		ServerKnowledge int64                   `json:"server_knowledge"`
	} `json:"data"`
}

type categoriesResponse struct {
	Data struct {
		CategoryGroups  []models.RawCategoryGroup `json:"category_groups"`
		ServerKnowledge int64                     `json:"server_knowledge"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Detail string `json:"detail"`
	} `json:"error"`
}

// FetchTransactions returns the budget's transactions. A non-zero since limits the
// result to transactions on or after that date.
func (c *Client) FetchTransactions(ctx context.Context, budgetID string, since time.Time) ([]models.RawTransaction, error) {
	query := url.Values{}
	if !since.IsZero() {
		query.Set("since_date", dateutils.ToISODate(since))
	}

	body, err := c.get(ctx, "fetch transactions", budgetPath(budgetID, "transactions"), query)
	if err != nil {
		return nil, err
	}

	var resp transactionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &analysiserror.SourceError{Operation: "fetch transactions", Err: fmt.Errorf("parsing response: %w", err)}
	}

	c.logger.Debug("Fetched transactions",
		logging.F(logging.FieldBudgetID, budgetID),
		logging.F(logging.FieldCount, len(resp.Data.Transactions)))
	return resp.Data.Transactions, nil
}

// FetchCategoryBudgets returns the budget's category groups with the current
// month's budgeted, activity and balance amounts.
func (c *Client) FetchCategoryBudgets(ctx context.Context, budgetID string) ([]models.RawCategoryGroup, error) {
	body, err := c.get(ctx, "fetch categories", budgetPath(budgetID, "categories"), nil)
	if err != nil {
		return nil, err
	}

	var resp categoriesResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &analysiserror.SourceError{Operation: "fetch categories", Err: fmt.Errorf("parsing response: %w", err)}
	}

	c.logger.Debug("Fetched category groups",
		logging.F(logging.FieldBudgetID, budgetID),
		logging.F(logging.FieldCount, len(resp.Data.CategoryGroups)))
	return resp.Data.CategoryGroups, nil
}

func budgetPath(budgetID, resource string) string {
	return fmt.Sprintf("/budgets/%s/%s", url.PathEscape(budgetID), resource)
}

// get performs an authenticated GET, retrying timeouts, rate limiting and server
// errors with exponential backoff.
func (c *Client) get(ctx context.Context, operation, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var lastErr *analysiserror.SourceError
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoffFor(attempt, lastErr)
			c.logger.Warn("Retrying request",
				logging.F(logging.FieldOperation, operation),
				logging.F(logging.FieldAttempt, attempt),
				logging.F(logging.FieldStatus, lastErr.StatusCode),
				logging.F("wait", wait.String()))
			if err := sleep(ctx, wait); err != nil {
				return nil, &analysiserror.SourceError{Operation: operation, Err: err}
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return nil, &analysiserror.SourceError{Operation: operation, Err: err}
		}

		body, srcErr := c.do(ctx, operation, target)
		if srcErr == nil {
			return body, nil
		}
		if !srcErr.Retryable || ctx.Err() != nil {
			return nil, srcErr
		}
		lastErr = srcErr
	}
	return nil, lastErr
}

// retryAfterError carries the server's Retry-After hint on a 429.
type retryAfterError struct {
	after time.Duration
}

func (e *retryAfterError) Error() string {
	return fmt.Sprintf("retry after %s", e.after)
}

func (e *retryAfterError) Unwrap() error {
	return analysiserror.ErrRateLimited
}

func (c *Client) do(ctx context.Context, operation, target string) ([]byte, *analysiserror.SourceError) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &analysiserror.SourceError{Operation: operation, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	//nolint:gosec // URL is built from the configured base URL
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &analysiserror.SourceError{Operation: operation, Retryable: isTimeout(err), Err: fmt.Errorf("request failed: %w", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug("Request completed",
		logging.F(logging.FieldOperation, operation),
		logging.F(logging.FieldStatus, resp.StatusCode),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &analysiserror.SourceError{Operation: operation, StatusCode: resp.StatusCode, Retryable: isTimeout(err), Err: fmt.Errorf("reading response: %w", err)}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, &analysiserror.SourceError{Operation: operation, StatusCode: resp.StatusCode, Err: withDetail(analysiserror.ErrUnauthorized, body)}
	case resp.StatusCode == http.StatusNotFound:
		return nil, &analysiserror.SourceError{Operation: operation, StatusCode: resp.StatusCode, Err: withDetail(analysiserror.ErrNotFound, body)}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &analysiserror.SourceError{Operation: operation, StatusCode: resp.StatusCode, Retryable: true, Err: &retryAfterError{after: parseRetryAfter(resp.Header.Get("Retry-After"))}}
	case resp.StatusCode >= 500:
		return nil, &analysiserror.SourceError{Operation: operation, StatusCode: resp.StatusCode, Retryable: true, Err: withDetail(errors.New("server error"), body)}
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return nil, &analysiserror.SourceError{Operation: operation, StatusCode: resp.StatusCode, Err: withDetail(errors.New("unexpected status"), body)}
	}
	return body, nil
}

// backoffFor doubles the base delay per attempt, preferring the server's
// Retry-After hint when one was given.
func (c *Client) backoffFor(attempt int, last *analysiserror.SourceError) time.Duration {
	var hint *retryAfterError
	if last != nil && errors.As(last, &hint) && hint.after > 0 {
		return min(hint.after, maxBackoff)
	}
	wait := c.backoff << (attempt - 1)
	if wait <= 0 || wait > maxBackoff {
		return maxBackoff
	}
	return wait
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(value string) time.Duration {
	seconds, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

// withDetail appends the API's error detail, when the body carries one.
func withDetail(err error, body []byte) error {
	var apiErr errorResponse
	if json.Unmarshal(body, &apiErr) != nil || apiErr.Error.Detail == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, apiErr.Error.Detail)
}
