// Package client implements the polling frontend of the idea board: a small
// JSON API client and the Board, which holds the local state rendered by the
// terminal frontend.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhchabran/ideaboard"
)

// An APIError is a non-2xx response from the ideas API, carrying the error
// message found in the body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: %v (status %v)", e.Message, e.StatusCode)
}

// A Client talks to the ideas REST API at a given base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

// ListIdeas fetches every idea, newest first.
func (c *Client) ListIdeas(ctx context.Context) ([]*ideaboard.Idea, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/ideas", nil)
	if err != nil {
		return nil, err
	}

	var ideas []*ideaboard.Idea
	if err := c.do(req, http.StatusOK, &ideas); err != nil {
		return nil, err
	}

	return ideas, nil
}

// CreateIdea submits the text as is; the server owns validation and trimming.
func (c *Client) CreateIdea(ctx context.Context, text string) (*ideaboard.Idea, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ideas", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	idea := ideaboard.Idea{}
	if err := c.do(req, http.StatusCreated, &idea); err != nil {
		return nil, err
	}

	return &idea, nil
}

// UpvoteIdea asks for a single increment on the given idea and returns the
// updated record.
func (c *Client) UpvoteIdea(ctx context.Context, id int64) (*ideaboard.Idea, error) {
	url := fmt.Sprintf("%v/api/ideas/%v/upvote", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}

	idea := ideaboard.Idea{}
	if err := c.do(req, http.StatusOK, &idea); err != nil {
		return nil, err
	}

	return &idea, nil
}

// do runs the request and decodes the body into out, turning any unexpected
// status into an APIError built from the `{"error": ...}` body.
func (c *Client) do(req *http.Request, wantStatus int, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		var payload struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
			payload.Error = http.StatusText(resp.StatusCode)
		}

		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
