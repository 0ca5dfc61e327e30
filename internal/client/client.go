// Package client is a small HTTP client for the ragchat server API, used by
// the terminal chat front end.
package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"ragchat/internal/domain"
)

// Client talks to a running ragchat server.
type Client struct {
	baseURL string
	http    *http.Client
}

// ChatResponse is the server's answer to one message.
type ChatResponse struct {
	Answer    string               `json:"answer"`
	Context   []domain.ContextItem `json:"context"`
	SessionID string               `json:"sessionId"`
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		// Generation calls can take a while; no client-side deadline.
		http: &http.Client{Timeout: 0},
	}
}

// CreateSession asks the server for a fresh session id.
func (c *Client) CreateSession() (string, error) {
	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.post("/api/session/create", nil, &resp); err != nil {
		return "", err
	}
	return resp.SessionID, nil
}

// Send submits a message and returns the blocking answer.
func (c *Client) Send(sessionID, message string) (ChatResponse, error) {
	body := map[string]string{"message": message, "sessionId": sessionID}
	var resp ChatResponse
	if err := c.post("/api/chat/send", body, &resp); err != nil {
		return ChatResponse{}, err
	}
	return resp, nil
}

// History fetches up to limit messages for a session, oldest first.
func (c *Client) History(sessionID string, limit int) ([]domain.Message, error) {
	url := fmt.Sprintf("%s/api/session/%s/history?limit=%d", c.baseURL, sessionID, limit)
	res, err := c.http.Get(url)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("history request failed: %s", res.Status)
	}
	var resp struct {
		History []domain.Message `json:"history"`
	}
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, err
	}
	return resp.History, nil
}

// ClearSession deletes a session's history.
func (c *Client) ClearSession(sessionID string) error {
	req, err := http.NewRequest(http.MethodDelete, c.baseURL+"/api/session/"+sessionID, nil)
	if err != nil {
		return err
	}
	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("clear session failed: %s", res.Status)
	}
	return nil
}

func (c *Client) post(path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return err
		}
	}
	res, err := c.http.Post(c.baseURL+path, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		var errResp struct {
			Error string `json:"error"`
		}
		if json.NewDecoder(res.Body).Decode(&errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("%s: %s", res.Status, errResp.Error)
		}
		return fmt.Errorf("request failed: %s", res.Status)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
