// Package polar implements the Polar AccessLink transaction flow.
package polar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/janhq/health-assistant/internal/domain/ingest"
)

// Token is the registration artifact written by the OAuth flow.
type Token struct {
	AccessToken string          `json:"access_token"`
	XUserID     json.RawMessage `json:"x_user_id"`
}

// UserID returns x_user_id whether it was stored as a number or a string.
func (t Token) UserID() string {
	return strings.Trim(strings.TrimSpace(string(t.XUserID)), `"`)
}

// LoadToken reads the token file.
func LoadToken(path string) (*Token, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read polar token: %w", err)
	}
	var tok Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return nil, fmt.Errorf("decode polar token: %w", err)
	}
	if tok.AccessToken == "" || tok.UserID() == "" || tok.UserID() == "null" {
		return nil, errors.New("polar token: access_token or x_user_id missing")
	}
	return &tok, nil
}

type Client struct {
	httpClient *resty.Client
	userID     string
}

var _ ingest.PolarClient = (*Client)(nil)

func NewClient(baseURL string, tok *Token) *Client {
	return &Client{
		httpClient: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetAuthToken(tok.AccessToken).
			SetHeader("Accept", "application/json").
			SetTimeout(30 * time.Second),
		userID: tok.UserID(),
	}
}

func (c *Client) UserID() string {
	return c.userID
}

func (c *Client) transactionPath(kind ingest.TransactionKind) string {
	return fmt.Sprintf("/users/%s/%s", c.userID, kind)
}

// CreateTransaction opens a transaction. It returns nil, nil on 204.
func (c *Client) CreateTransaction(ctx context.Context, kind ingest.TransactionKind) (*ingest.Transaction, error) {
	var tx ingest.Transaction
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&tx).
		Post(c.transactionPath(kind))
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", kind, err)
	}
	switch resp.StatusCode() {
	case http.StatusCreated, http.StatusOK:
		return &tx, nil
	case http.StatusNoContent:
		return nil, nil
	default:
		return nil, statusError("create "+string(kind), resp)
	}
}

func (c *Client) ListTransaction(ctx context.Context, kind ingest.TransactionKind, id int64) ([]string, error) {
	var tx ingest.Transaction
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(&tx).
		Get(fmt.Sprintf("%s/%d", c.transactionPath(kind), id))
	if err != nil {
		return nil, fmt.Errorf("list %s %d: %w", kind, id, err)
	}
	if resp.IsError() {
		return nil, statusError(fmt.Sprintf("list %s %d", kind, id), resp)
	}
	return tx.Links(kind), nil
}

func (c *Client) CommitTransaction(ctx context.Context, kind ingest.TransactionKind, id int64) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		Put(fmt.Sprintf("%s/%d", c.transactionPath(kind), id))
	if err != nil {
		return fmt.Errorf("commit %s %d: %w", kind, id, err)
	}
	if resp.StatusCode() != http.StatusNoContent && resp.StatusCode() != http.StatusOK {
		return statusError(fmt.Sprintf("commit %s %d", kind, id), resp)
	}
	return nil
}

// GetExerciseSummary follows an absolute resource link from a transaction.
func (c *Client) GetExerciseSummary(ctx context.Context, url string) (*ingest.ExerciseSummary, error) {
	var out ingest.ExerciseSummary
	if err := c.getLink(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetActivitySummary(ctx context.Context, url string) (*ingest.ActivitySummary, error) {
	var out ingest.ActivitySummary
	if err := c.getLink(ctx, url, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getLink(ctx context.Context, url string, out any) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetResult(out).
		Get(url)
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	if resp.IsError() {
		return statusError("get "+url, resp)
	}
	return nil
}

func statusError(op string, resp *resty.Response) error {
	return fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), strings.TrimSpace(resp.String()))
}
