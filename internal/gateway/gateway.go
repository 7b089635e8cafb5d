// Package gateway is the thin HTTP wrapper over the remote authority's
// polling API: join, updates, state, command. It owns no game state and
// performs no retries; callers decide what a failed tick means.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrUnauthorized marks a credential rejection. It is the one error the
// reconciliation loop treats as fatal to the session.
var ErrUnauthorized = errors.New("gateway: invalid or expired token")

type Client struct {
	base  string
	http  *http.Client
	token string
}

func NewClient(host string, port int) *Client {
	return &Client{
		base: fmt.Sprintf("http://%s:%d", host, port),
		http: &http.Client{Timeout: 10 * time.Second},
	}
}

// Join establishes a session and stores the issued credential for all
// subsequent calls.
func (c *Client) Join(ctx context.Context, name string) (Session, error) {
	var res JoinResponse
	if err := c.post(ctx, "/join", JoinRequest{Name: name}, &res); err != nil {
		return Session{}, fmt.Errorf("join: %w", err)
	}
	c.token = res.Token
	return Session{Token: res.Token, Seat: res.PlayerID, Message: res.Message}, nil
}

// Updates fetches one pending notification. An empty string means none were
// waiting (the gateway's "No new updates." sentinel is filtered here).
func (c *Client) Updates(ctx context.Context) (string, error) {
	var res UpdatesResponse
	if err := c.get(ctx, "/updates", &res); err != nil {
		return "", fmt.Errorf("updates: %w", err)
	}
	if res.Message == "No new updates." {
		return "", nil
	}
	return res.Message, nil
}

// State fetches the full authoritative snapshot.
func (c *Client) State(ctx context.Context) (State, error) {
	var res State
	if err := c.get(ctx, "/state", &res); err != nil {
		return State{}, fmt.Errorf("state: %w", err)
	}
	return res, nil
}

// Command submits a free-form action string and returns the authority's
// result text, which may be empty.
func (c *Client) Command(ctx context.Context, command string) (string, error) {
	var res CommandResponse
	err := c.post(ctx, "/command", CommandRequest{Token: c.token, Command: command}, &res)
	if err != nil {
		return "", fmt.Errorf("command %q: %w", command, err)
	}
	return res.Message, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	u := c.base + path + "?token=" + url.QueryEscape(c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode != http.StatusOK {
		var detail errorBody
		b, _ := io.ReadAll(resp.Body)
		if json.Unmarshal(b, &detail) == nil && detail.Detail != "" {
			return fmt.Errorf("%s: %s", resp.Status, detail.Detail)
		}
		return fmt.Errorf("%s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
