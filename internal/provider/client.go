package provider

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

	"github.com/burnbox/burnbox/internal/model"
)

// defaultTimeout bounds every provider call when no other timeout is
// configured.
const defaultTimeout = 15 * time.Second

// Client is a thin HTTP client for the disposable-mail provider API.
// All operations are GET requests against a single endpoint with the
// operation name in the "f" query parameter and JSON responses. The
// client performs no retries; retry policy belongs to the caller.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a provider client for the given endpoint URL. A
// non-positive timeout falls back to the 15 second default.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// CreateMailbox requests a fresh address from the provider. The returned
// account carries the session token required by all subsequent calls.
func (c *Client) CreateMailbox(ctx context.Context) (model.Account, error) {
	params := url.Values{}
	params.Set("f", fnCreateMailbox)
	params.Set("ip", "127.0.0.1")
	params.Set("agent", "burnbox")

	var resp addressResponse
	if err := c.get(ctx, "create", params, &resp); err != nil {
		return model.Account{}, err
	}

	if resp.EmailAddr == "" || resp.SidToken == "" {
		return model.Account{}, &Error{
			Op:  "create",
			Err: errors.New("response missing email_addr or sid_token"),
		}
	}

	issued, _ := resp.EmailTimestamp.Int64()
	return model.Account{
		EmailAddress: resp.EmailAddr,
		SessionToken: resp.SidToken,
		IssuedAt:     issued,
	}, nil
}

// ListMessages returns the full current mailbox listing for the session
// token. The offset is fixed at 0; the provider snapshot replaces any
// previous list wholesale. A missing "list" field is an empty inbox, not
// an error: the provider does not distinguish an empty mailbox from an
// expired token unless it returns an explicit error status.
func (c *Client) ListMessages(ctx context.Context, token string) ([]model.Message, error) {
	params := url.Values{}
	params.Set("f", fnListMessages)
	params.Set("offset", "0")
	params.Set("sid_token", token)

	var resp listResponse
	if err := c.get(ctx, "list", params, &resp); err != nil {
		return nil, err
	}

	messages := make([]model.Message, 0, len(resp.List))
	for _, w := range resp.List {
		messages = append(messages, w.toMessage())
	}
	return messages, nil
}

// FetchMessage retrieves the full content of one message by id.
func (c *Client) FetchMessage(ctx context.Context, token, id string) (model.MessageDetail, error) {
	params := url.Values{}
	params.Set("f", fnFetchMessage)
	params.Set("email_id", id)
	params.Set("sid_token", token)

	var resp wireMessage
	if err := c.get(ctx, "fetch", params, &resp); err != nil {
		return model.MessageDetail{}, err
	}

	if resp.MailID == "" {
		return model.MessageDetail{}, &Error{
			Op:  "fetch",
			Err: fmt.Errorf("message %s unknown to provider", id),
		}
	}

	return resp.toDetail(), nil
}

// RenameMailbox asks the provider to change the local part of the
// address. Best-effort; not part of the refresh loop.
func (c *Client) RenameMailbox(ctx context.Context, token, localPart string) error {
	params := url.Values{}
	params.Set("f", fnRenameMailbox)
	params.Set("email_user", localPart)
	params.Set("sid_token", token)

	return c.get(ctx, "rename", params, nil)
}

// ForgetMailbox asks the provider to discard the mailbox. Best-effort;
// the local session is cleared regardless of the outcome.
func (c *Client) ForgetMailbox(ctx context.Context, token string) error {
	params := url.Values{}
	params.Set("f", fnForgetMailbox)
	params.Set("sid_token", token)

	return c.get(ctx, "forget", params, nil)
}

// get performs a GET request with the given query parameters and
// unmarshals the JSON response into result when non-nil. Every failure
// mode is wrapped in *Error tagged with op.
func (c *Client) get(ctx context.Context, op string, params url.Values, result interface{}) error {
	reqURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("creating request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Op: op, Err: fmt.Errorf("executing request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Op:     op,
			Status: resp.StatusCode,
			Err:    fmt.Errorf("unexpected status: %s", strings.TrimSpace(string(body))),
		}
	}

	if result == nil {
		return nil
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("unmarshaling response: %w", err)}
	}

	return nil
}
