package opentdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"psp.com/trivia-quiz/backend/internal/quiz"
)

const (
	DefaultBaseURL = "https://opentdb.com"
	userAgent      = "Trivia-Quiz-Bot/1.0 (+https://example.org)"
)

// Response codes of api.php.
const (
	codeSuccess      = 0
	codeNoResults    = 1
	codeInvalidParam = 2
	codeTokenMissing = 3
	codeTokenEmpty   = 4
	codeRateLimit    = 5
)

// Client talks to the Open Trivia Database.
type Client struct {
	baseURL    string
	httpClient *http.Client

	catTTL  time.Duration
	catMu   sync.Mutex
	catList []Category
	catTS   time.Time
}

func NewClient(baseURL string, httpClient *http.Client, categoryTTL time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 8 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient, catTTL: categoryTTL}
}

type questionsResp struct {
	ResponseCode int             `json:"response_code"`
	Results      []quiz.Question `json:"results"`
}

// Questions implements quiz.Source. An empty result set yields
// quiz.ErrNoResults; every other failure is a *quiz.TransportError.
func (c *Client) Questions(ctx context.Context, p quiz.Params) ([]quiz.Question, error) {
	var out questionsResp
	if err := c.getJSON(ctx, c.questionsURL(p), &out); err != nil {
		return nil, &quiz.TransportError{Err: err}
	}
	switch out.ResponseCode {
	case codeSuccess:
	case codeNoResults:
		return nil, quiz.ErrNoResults
	default:
		return nil, &quiz.TransportError{Err: fmt.Errorf("opentdb response code %d (%s)", out.ResponseCode, codeText(out.ResponseCode))}
	}
	if len(out.Results) == 0 {
		return nil, quiz.ErrNoResults
	}
	return out.Results, nil
}

func (c *Client) questionsURL(p quiz.Params) string {
	q := url.Values{}
	q.Set("amount", strconv.Itoa(p.Amount))
	q.Set("difficulty", string(p.Difficulty))
	if p.CategoryID > 0 {
		q.Set("category", strconv.Itoa(p.CategoryID))
	}
	return c.baseURL + "/api.php?" + q.Encode()
}

func (c *Client) getJSON(ctx context.Context, u string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", u, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", u, err)
	}
	return nil
}

func codeText(code int) string {
	switch code {
	case codeInvalidParam:
		return "invalid parameter"
	case codeTokenMissing:
		return "token not found"
	case codeTokenEmpty:
		return "token empty"
	case codeRateLimit:
		return "rate limit"
	}
	return "unknown"
}
