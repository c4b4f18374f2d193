// Package crm provides the HTTP client for the external lead directory.
// It is a pure I/O adapter: no state beyond a connection-level rate limiter,
// no business logic.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"leadwatch_backend/platform/apperr"
	"leadwatch_backend/platform/config"
	"leadwatch_backend/platform/logger"
	"leadwatch_backend/platform/phone"

	"golang.org/x/time/rate"
)

// MaxPageSize caps every list call. The directory paginates, but only the
// first page is ever requested; leads beyond the cap are not observed.
const MaxPageSize = 100

const requestTimeout = 10 * time.Second

// Client is the HTTP client for the lead directory API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New creates a new directory client. The remote API is rate limited, so the
// client throttles itself to the configured requests per second.
func New(cfg config.DirectoryConfig, log *logger.Logger) *Client {
	rps := cfg.GetDirectoryRequestsPerSecond()
	if rps <= 0 {
		rps = 5
	}

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    cfg.GetDirectoryBaseURL(),
		apiKey:     cfg.GetDirectoryAPIKey(),
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		log:        log,
	}
}

// ListAssignedLeads fetches the first page of leads currently sitting in the
// given watch target. Lead phone numbers are normalized to E.164.
func (c *Client) ListAssignedLeads(ctx context.Context, sel Selector) ([]Lead, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(MaxPageSize))
	if sel.PoolID != "" {
		params.Set("pool", sel.PoolID)
	}
	if sel.Source != "" {
		params.Set("source", sel.Source)
	}

	var leads []Lead
	if err := c.get(ctx, "/api/v1/leads?"+params.Encode(), &leads); err != nil {
		return nil, err
	}

	for i := range leads {
		leads[i].Phone = phone.NormalizeE164(leads[i].Phone)
	}

	return leads, nil
}

// ListCallsSince fetches call log entries on a lead at or after the given instant.
func (c *Client) ListCallsSince(ctx context.Context, externalID string, since time.Time) ([]Call, error) {
	params := url.Values{}
	params.Set("since", since.UTC().Format(time.RFC3339))

	path := fmt.Sprintf("/api/v1/leads/%s/calls?%s", url.PathEscape(externalID), params.Encode())

	var calls []Call
	if err := c.get(ctx, path, &calls); err != nil {
		return nil, err
	}

	return calls, nil
}

// AddTag applies a tag to a lead. The directory treats a duplicate tag as a
// no-op, so repeating the call is safe.
func (c *Client) AddTag(ctx context.Context, externalID, tag string) error {
	path := fmt.Sprintf("/api/v1/leads/%s/tags", url.PathEscape(externalID))
	return c.post(ctx, path, map[string]string{"name": tag})
}

// ClearAssignment removes the lead's owner and returns it to the given pool.
// Legacy escalation path, kept selectable via configuration.
func (c *Client) ClearAssignment(ctx context.Context, externalID, poolID string) error {
	path := fmt.Sprintf("/api/v1/leads/%s/unassign", url.PathEscape(externalID))
	return c.post(ctx, path, map[string]string{"poolId": poolID})
}

// ListSources fetches the CRM source taxonomy. Administrative convenience;
// the engine itself never calls this.
func (c *Client) ListSources(ctx context.Context) ([]Source, error) {
	var sources []Source
	if err := c.get(ctx, "/api/v1/sources", &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.DirectoryError("decode "+path, err)
		return apperr.Upstream("directory response decode failed", err)
	}

	return nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.DirectoryError(method+" "+path, err)
		return nil, apperr.Upstream("directory request failed", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		msg := fmt.Sprintf("directory returned status %d", resp.StatusCode)
		c.log.DirectoryError(method+" "+path, fmt.Errorf("%s", msg))

		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return nil, apperr.Upstream("directory rejected credentials", fmt.Errorf("%s", msg))
		case http.StatusTooManyRequests:
			return nil, apperr.Upstream("directory rate limited", fmt.Errorf("%s", msg))
		default:
			return nil, apperr.Upstream(msg, nil)
		}
	}

	return resp, nil
}
