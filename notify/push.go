package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
)

const apiTimeout = 10 * time.Second

// Action is one button on a notification banner
type Action struct {
	Action string `json:"action"`
	Title  string `json:"title"`
}

// Notification is one push payload delivered over the event stream
type Notification struct {
	Title          string   `json:"title"`
	Body           string   `json:"body"`
	Tag            string   `json:"tag"`
	URL            string   `json:"url"`
	NotificationID string   `json:"notification_id"`
	Actions        []Action `json:"actions,omitempty"`
}

// respondRequest reports a banner action back to the server
type respondRequest struct {
	NotificationID string `json:"notification_id"`
	Action         string `json:"action"`
	Source         string `json:"source"`
}

// API is the HTTP client for the push notification endpoints
type API struct {
	baseURL string
	client  *http.Client
}

// NewAPI creates a push API client rooted at baseURL
func NewAPI(baseURL string) *API {
	return &API{
		baseURL: baseURL,
		client:  &http.Client{Timeout: apiTimeout},
	}
}

// VAPIDKey fetches the server's VAPID public key
func (a *API) VAPIDKey(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/push/vapid-key", nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch vapid key: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("vapid key: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read vapid key: %w", err)
	}

	var key struct {
		PublicKey string `json:"public_key"`
	}
	if err := sonic.Unmarshal(body, &key); err != nil {
		return "", fmt.Errorf("decode vapid key: %w", err)
	}
	return key.PublicKey, nil
}

// Subscribe registers a push subscription with the server
func (a *API) Subscribe(ctx context.Context, subscription any) error {
	return a.post(ctx, "/api/push/subscribe", subscription)
}

// Respond reports the action the user took on a banner
func (a *API) Respond(ctx context.Context, notificationID, action string) error {
	return a.post(ctx, "/api/push/respond", respondRequest{
		NotificationID: notificationID,
		Action:         action,
		Source:         "banner",
	})
}

func (a *API) post(ctx context.Context, path string, body any) error {
	data, err := sonic.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("post %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}
