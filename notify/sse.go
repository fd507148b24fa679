package notify

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"

	"voicelink/logging"
)

// Stream subscribes to the push event stream and delivers notifications
// to out until the stream ends or ctx is cancelled. Connection
// heartbeats and keepalive comments are consumed silently; payloads
// that do not parse as notifications are logged and skipped.
func (a *API) Stream(ctx context.Context, out chan<- Notification) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/api/push/events", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	// The stream stays open indefinitely; bypass the client timeout.
	client := &http.Client{Transport: a.client.Transport}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("open event stream: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("event stream: unexpected status %d", resp.StatusCode)
	}

	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if payload == "" {
			continue
		}

		var probe struct {
			Type string `json:"type"`
		}
		if err := sonic.Unmarshal([]byte(payload), &probe); err != nil {
			logging.Debugw("skipping unparseable push event", "err", err)
			continue
		}
		if probe.Type == "connected" {
			continue
		}

		var n Notification
		if err := sonic.Unmarshal([]byte(payload), &n); err != nil || n.NotificationID == "" {
			logging.Debugw("skipping push event without notification id")
			continue
		}

		select {
		case out <- n:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("read event stream: %w", err)
	}
	return ctx.Err()
}
