// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package remote is the boundary to the publishing platform's REST API.
// Calls are fire-and-forget: issuing one returns immediately and the typed
// result is dispatched as an action on the bus, so consumers advance their
// state on their own ordered channel instead of blocking on the network.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"pressdesk/internal/bus"
)

// callTimeout bounds every remote HTTP call. Retry and cancellation policy
// live here, not in the consumers: a superseded request is never cancelled,
// its eventual reply is simply dropped by token or identifier mismatch.
const callTimeout = 30 * time.Second

// PostParams is the parameter set sent with create and update calls.
type PostParams struct {
	Title   string     `json:"title,omitempty"`
	Content string     `json:"content,omitempty"`
	Status  string     `json:"status,omitempty"`
	Slug    string     `json:"slug,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
}

// Client performs remote content calls and dispatches their results.
type Client struct {
	baseURL    string
	token      string
	pageSize   int
	dispatcher *bus.Dispatcher
	client     *http.Client
}

// NewClient creates a remote client for the given site base URL. token is
// sent as a bearer credential with every request.
func NewClient(baseURL, token string, pageSize int, dispatcher *bus.Dispatcher) *Client {
	return &Client{
		baseURL:    baseURL,
		token:      token,
		pageSize:   pageSize,
		dispatcher: dispatcher,
		client:     &http.Client{Timeout: callTimeout},
	}
}

// CreatePost creates a new remote post. The result arrives on the bus as a
// PostCreatedAction echoing the given token.
func (c *Client) CreatePost(token uuid.UUID, params PostParams) {
	go func() {
		body, _, err := c.do(http.MethodPost, "/wp/v2/posts?context=edit", params)
		action := PostCreatedAction{Token: token}
		if err != nil {
			action.Err = err
		} else {
			action.Payload, action.Err = decodePost(body)
		}
		c.dispatcher.Dispatch(action)
	}()
}

// UpdatePost updates an existing remote post.
func (c *Client) UpdatePost(postID int64, params PostParams) {
	go func() {
		path := fmt.Sprintf("/wp/v2/posts/%d?context=edit", postID)
		body, _, err := c.do(http.MethodPost, path, params)
		action := PostUpdatedAction{PostID: postID}
		if err != nil {
			action.Err = err
		} else {
			action.Payload, action.Err = decodePost(body)
		}
		c.dispatcher.Dispatch(action)
	}()
}

// Autosave persists in-progress content for a remote post without an
// explicit status change.
func (c *Client) Autosave(postID int64, title, content string) {
	go func() {
		path := fmt.Sprintf("/wp/v2/posts/%d/autosaves?context=edit", postID)
		body, _, err := c.do(http.MethodPost, path, PostParams{Title: title, Content: content})
		action := AutosaveAction{PostID: postID}
		if err != nil {
			action.Err = err
		} else {
			action.Payload, action.Err = decodeRevision(body)
		}
		c.dispatcher.Dispatch(action)
	}()
}

// FetchPost retrieves the full edit-context representation of a post.
func (c *Client) FetchPost(postID int64) {
	go func() {
		path := fmt.Sprintf("/wp/v2/posts/%d?context=edit", postID)
		body, _, err := c.do(http.MethodGet, path, nil)
		action := PostFetchedAction{PostID: postID}
		if err != nil {
			action.Err = err
		} else {
			action.Payload, action.Err = decodePost(body)
		}
		c.dispatcher.Dispatch(action)
	}()
}

// FetchPostIDs retrieves one page of the post index for list sync. hasMore
// is derived from the X-WP-TotalPages response header.
func (c *Client) FetchPostIDs(listName string, page int) {
	go func() {
		path := fmt.Sprintf(
			"/wp/v2/posts?context=edit&_fields=id,date_gmt,modified_gmt&per_page=%d&page=%d",
			c.pageSize, page,
		)
		body, header, err := c.do(http.MethodGet, path, nil)
		action := PostIDsFetchedAction{ListName: listName, Page: page}
		if err != nil {
			action.Err = err
		} else {
			action.Payload, action.Err = decodePostIDs(body)
			if totalPages, convErr := strconv.Atoi(header.Get("X-WP-TotalPages")); convErr == nil {
				action.HasMore = page < totalPages
			}
		}
		c.dispatcher.Dispatch(action)
	}()
}

// do performs one HTTP call and returns the response body and headers.
func (c *Client) do(method, path string, payload any) ([]byte, http.Header, error) {
	ctx, cancel := context.WithTimeout(context.Background(), callTimeout)
	defer cancel()

	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, fmt.Errorf("remote marshal: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, nil, fmt.Errorf("remote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("remote http: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("remote read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("remote call failed",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
		)
		return nil, nil, fmt.Errorf("remote API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, resp.Header, nil
}
