package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fallback messages per operation, shown when the server response carries
// no detail text.
const (
	fallbackStart  = "Failed to start test"
	fallbackResume = "Unable to resume section"
	fallbackNext   = "No more items available"
	fallbackAnswer = "Unable to submit answer"
	fallbackPlay   = "Play limit reached"
	fallbackFinish = "Unable to finish test"
	fallbackReport = "Unable to load report"
)

// Client talks to the adaptive scoring service over HTTP/JSON.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
	}
}

// StartTest opens a new adaptive session.
func (c *Client) StartTest(ctx context.Context, req StartRequest) (*StartResult, error) {
	var out StartResult
	if err := c.do(ctx, http.MethodPost, "/api/test/start", req, &out, "start test", fallbackStart); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResumeSection unblocks the next fetch after an inter-section pause.
func (c *Client) ResumeSection(ctx context.Context, testID string) (*ResumeResult, error) {
	var out ResumeResult
	path := fmt.Sprintf("/api/test/%s/resume", testID)
	if err := c.do(ctx, http.MethodPost, path, struct{}{}, &out, "resume section", fallbackResume); err != nil {
		return nil, err
	}
	return &out, nil
}

// NextItem requests the next scoring unit. Exactly one of the returned item
// and pause descriptor is non-nil on success. A failure here is how the
// service signals the end of the test.
func (c *Client) NextItem(ctx context.Context, testID string) (*Item, *Pause, error) {
	var out struct {
		Pause     bool              `json:"pause"`
		Domain    string            `json:"domain"`
		Questions int               `json:"questions"`
		ItemID    string            `json:"item_id"`
		Stem      string            `json:"stem"`
		Options   []string          `json:"options"`
		Model     string            `json:"model"`
		Metadata  map[string]string `json:"metadata"`
		MaxPlays  int               `json:"max_plays"`
	}
	path := fmt.Sprintf("/api/test/%s/next", testID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, "fetch next item", fallbackNext); err != nil {
		return nil, nil, err
	}
	if out.Pause {
		return nil, &Pause{Domain: out.Domain, Questions: out.Questions}, nil
	}
	return &Item{
		ItemID:   out.ItemID,
		Stem:     out.Stem,
		Options:  out.Options,
		Domain:   out.Domain,
		Model:    out.Model,
		Metadata: out.Metadata,
		MaxPlays: out.MaxPlays,
	}, nil, nil
}

// SubmitAnswer sends a scored response for the current item.
func (c *Client) SubmitAnswer(ctx context.Context, testID string, payload AnswerPayload) (*AnswerResult, error) {
	var out AnswerResult
	path := fmt.Sprintf("/api/test/%s/answer", testID)
	if err := c.do(ctx, http.MethodPost, path, payload, &out, "submit answer", fallbackAnswer); err != nil {
		return nil, err
	}
	return &out, nil
}

// RecordPlay requests authorization for one audio replay of itemID.
func (c *Client) RecordPlay(ctx context.Context, testID, itemID string) (*PlayResult, error) {
	var out PlayResult
	path := fmt.Sprintf("/api/test/%s/play", testID)
	body := struct {
		ItemID string `json:"item_id"`
	}{ItemID: itemID}
	if err := c.do(ctx, http.MethodPost, path, body, &out, "authorize play", fallbackPlay); err != nil {
		return nil, err
	}
	return &out, nil
}

// FinishTest closes the session. The server treats this as idempotent.
func (c *Client) FinishTest(ctx context.Context, testID string) (*FinishResult, error) {
	var out FinishResult
	path := fmt.Sprintf("/api/test/%s/finish", testID)
	body := struct {
		Confirm bool `json:"confirm"`
	}{Confirm: true}
	if err := c.do(ctx, http.MethodPost, path, body, &out, "finish test", fallbackFinish); err != nil {
		return nil, err
	}
	return &out, nil
}

// Report fetches the final scoring report. Valid only after finish.
func (c *Client) Report(ctx context.Context, testID string) (*Report, error) {
	var out Report
	path := fmt.Sprintf("/api/report/%s", testID)
	if err := c.do(ctx, http.MethodGet, path, nil, &out, "fetch report", fallbackReport); err != nil {
		return nil, err
	}
	return &out, nil
}

// do performs one request/response round-trip. Any transport error or
// non-200 status is wrapped in a *RequestError carrying the server detail
// message when one was present.
func (c *Client) do(ctx context.Context, method, path string, body, out any, op, fallback string) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &RequestError{Op: op, Fallback: fallback, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var detail struct {
			Detail string `json:"detail"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&detail)
		return &RequestError{Op: op, Status: resp.StatusCode, Detail: detail.Detail, Fallback: fallback}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}
