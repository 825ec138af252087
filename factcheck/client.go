// Package factcheck looks up free text against a claim-search API.
package factcheck

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/lepinkainen/truthscore/truth"
)

const (
	// DefaultEndpoint is the Google Fact Check Tools claim search.
	DefaultEndpoint = "https://factchecktools.googleapis.com/v1alpha1/claims:search"
	// DefaultTimeout bounds one outbound request.
	DefaultTimeout = 10 * time.Second

	maxResponseBytes = 4 << 20
)

// HTTPDoer is the part of *http.Client the verifier uses.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options configures a Client.
type Options struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	// HTTP overrides the transport; when nil an *http.Client with Timeout is used.
	HTTP   HTTPDoer
	Logger *zap.Logger
}

// Client queries the claim-search endpoint.
type Client struct {
	endpoint string
	apiKey   string
	timeout  time.Duration
	http     HTTPDoer
	logger   *zap.Logger
}

// NewClient builds a Client, filling defaults for empty options.
func NewClient(opts Options) *Client {
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.HTTP == nil {
		opts.HTTP = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Client{
		endpoint: opts.Endpoint,
		apiKey:   opts.APIKey,
		timeout:  opts.Timeout,
		http:     opts.HTTP,
		logger:   opts.Logger,
	}
}

// Search returns the first claim matching text, or nil when the API has none.
func (c *Client) Search(ctx context.Context, text string) (*Claim, error) {
	if strings.TrimSpace(text) == "" {
		return nil, truth.New(truth.KindEmptyInput, "factcheck.search", "empty query")
	}
	if c.apiKey == "" {
		return nil, truth.New(truth.KindConfig, "factcheck.search", "fact-check API key not configured")
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, truth.Wrap(truth.KindConfig, "factcheck.search", "invalid endpoint", err)
	}
	q := u.Query()
	q.Set("query", text)
	u.RawQuery = q.Encode()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, truth.Wrap(truth.KindNetwork, "factcheck.search", "failed to build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, truth.Wrap(truth.KindNetwork, "factcheck.search", fmt.Sprintf("request timed out after %s", c.timeout), err)
		}
		return nil, truth.Wrap(truth.KindNetwork, "factcheck.search", "request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, truth.Wrap(truth.KindNetwork, "factcheck.search", "failed to read response", err)
	}

	c.logger.Debug("fact-check response",
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, truth.New(truth.KindNetwork, "factcheck.search",
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, snippet(body)))
	}

	return parseResponse(body)
}

// Verify returns "<claim> - Veracidade: <rating>" for the first claim, or the
// fixed no-verification message when there is none.
func (c *Client) Verify(ctx context.Context, text string) (string, error) {
	claim, err := c.Search(ctx, text)
	if err != nil {
		return "", err
	}
	if claim == nil {
		return truth.MsgNoVerification, nil
	}
	return truth.ClaimVerdict(claim.Text, claim.Rating), nil
}

func parseResponse(body []byte) (*Claim, error) {
	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, truth.Wrap(truth.KindFormat, "factcheck.parse", "response is not valid JSON", err)
	}
	if len(resp.Claims) == 0 {
		return nil, nil
	}

	first := resp.Claims[0]
	if first.Text == nil {
		return nil, truth.New(truth.KindFormat, "factcheck.parse", "claim has no text")
	}
	if len(first.ClaimReview) == 0 {
		return nil, truth.New(truth.KindFormat, "factcheck.parse", "claim has no review")
	}
	review := first.ClaimReview[0]
	if review.TextualRating == nil {
		return nil, truth.New(truth.KindFormat, "factcheck.parse", "review has no textual rating")
	}

	return &Claim{
		Text:      *first.Text,
		Rating:    *review.TextualRating,
		Claimant:  first.Claimant,
		Publisher: review.Publisher.Name,
		URL:       review.URL,
	}, nil
}

// snippet shortens an error body to at most snippetRunes characters.
func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if utf8.RuneCountInString(s) > snippetRunes {
		s = string([]rune(s)[:snippetRunes]) + "..."
	}
	return s
}

const snippetRunes = 200
