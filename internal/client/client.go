// Package client talks to a running devmatch server over HTTP.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/okian/devmatch/internal/domain/model"
)

// ErrRemote reports a non-2xx answer from a running service.
var ErrRemote = errors.New("remote request failed")

// Client queries the recommendation endpoint of a devmatch server.
type Client struct {
	http *resty.Client
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// Recommend fetches the recommendations of one project.
func (c *Client) Recommend(ctx context.Context, projectID string) (model.Result, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("projectId", projectID).
		Get("/projects/{projectId}/recommendations")
	if err != nil {
		return model.Result{}, fmt.Errorf("get recommendations: %w", err)
	}
	if resp.IsError() {
		return model.Result{}, fmt.Errorf("%w: status %d: %s", ErrRemote, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	var out model.Result
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return model.Result{}, fmt.Errorf("decode recommendations: %w", err)
	}
	return out, nil
}
