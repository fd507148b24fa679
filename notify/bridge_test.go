package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"voicelink/metrics"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakePresenter struct {
	mu        sync.Mutex
	shown     []Notification
	dismissed int
}

func (p *fakePresenter) Show(n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = append(p.shown, n)
}

func (p *fakePresenter) Dismiss() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.dismissed++
}

func (p *fakePresenter) snapshot() ([]Notification, int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Notification, len(p.shown))
	copy(out, p.shown)
	return out, p.dismissed
}

func TestVAPIDKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/push/vapid-key" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"public_key":"BNxyz123"}`)
	}))
	defer srv.Close()

	key, err := NewAPI(srv.URL).VAPIDKey(context.Background())
	if err != nil {
		t.Fatalf("VAPIDKey: %v", err)
	}
	if key != "BNxyz123" {
		t.Errorf("key = %q, want BNxyz123", key)
	}
}

func TestSubscribePostsJSON(t *testing.T) {
	var got []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/push/subscribe" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		got, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	sub := map[string]string{"endpoint": "https://push.example/abc"}
	if err := NewAPI(srv.URL).Subscribe(context.Background(), sub); err != nil {
		t.Fatalf("Subscribe: %v", err)
	}

	var echoed map[string]string
	if err := sonic.Unmarshal(got, &echoed); err != nil {
		t.Fatalf("server received invalid JSON: %v", err)
	}
	if echoed["endpoint"] != "https://push.example/abc" {
		t.Errorf("subscription body = %s", got)
	}
}

func TestStreamSkipsHeartbeatsAndComments(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"connected\"}\n\n")
		fmt.Fprint(w, ": keepalive\n\n")
		fmt.Fprint(w, "data: {\"title\":\"Reminder\",\"body\":\"Standup in 5\",\"tag\":\"cal\",\"notification_id\":\"n-1\"}\n\n")
	}))
	defer srv.Close()

	out := make(chan Notification, 4)
	go func() {
		defer close(out)
		if err := NewAPI(srv.URL).Stream(context.Background(), out); err != nil {
			t.Errorf("Stream: %v", err)
		}
	}()

	var got []Notification
	for n := range out {
		got = append(got, n)
	}
	if len(got) != 1 {
		t.Fatalf("delivered %d notifications, want 1", len(got))
	}
	if got[0].NotificationID != "n-1" || got[0].Title != "Reminder" {
		t.Errorf("unexpected notification: %+v", got[0])
	}
}

// A newer notification replaces the banner on screen; responding then
// reports the newer notification's id.
func TestNewerBannerReplacesOlder(t *testing.T) {
	var respondBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/push/respond" {
			respondBody, _ = io.ReadAll(r.Body)
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	m := metrics.New(prometheus.NewRegistry())
	presenter := &fakePresenter{}
	bridge := NewBridge(NewAPI(srv.URL), presenter, m)

	bridge.Show(Notification{Title: "First", NotificationID: "n-1"})
	bridge.Show(Notification{Title: "Second", NotificationID: "n-2"})

	shown, dismissed := presenter.snapshot()
	if len(shown) != 2 {
		t.Fatalf("shown %d banners, want 2", len(shown))
	}
	if dismissed != 1 {
		t.Errorf("dismissed = %d, want 1 (replacement)", dismissed)
	}
	if got := testutil.ToFloat64(m.BannersReplaced); got != 1 {
		t.Errorf("replaced count = %v, want 1", got)
	}
	if cur := bridge.Current(); cur == nil || cur.NotificationID != "n-2" {
		t.Fatalf("current banner = %+v, want n-2", cur)
	}

	if err := bridge.Respond(context.Background(), "accept"); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	var req respondRequest
	if err := sonic.Unmarshal(respondBody, &req); err != nil {
		t.Fatalf("respond body invalid: %v", err)
	}
	if req.NotificationID != "n-2" || req.Action != "accept" || req.Source != "banner" {
		t.Errorf("respond request = %+v", req)
	}

	if cur := bridge.Current(); cur != nil {
		t.Errorf("banner still current after respond: %+v", cur)
	}
	if _, dismissed := presenter.snapshot(); dismissed != 2 {
		t.Errorf("dismissed = %d, want 2", dismissed)
	}
}

// A failed respond report still dismisses the banner.
func TestRespondFailureStillDismisses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := metrics.New(prometheus.NewRegistry())
	presenter := &fakePresenter{}
	bridge := NewBridge(NewAPI(srv.URL), presenter, m)

	bridge.Show(Notification{Title: "Only", NotificationID: "n-9"})
	if err := bridge.Respond(context.Background(), "dismiss"); err == nil {
		t.Error("Respond should surface the server error")
	}

	if cur := bridge.Current(); cur != nil {
		t.Errorf("banner still current after failed respond: %+v", cur)
	}
	if _, dismissed := presenter.snapshot(); dismissed != 1 {
		t.Errorf("dismissed = %d, want 1", dismissed)
	}
	if got := testutil.ToFloat64(m.RespondFailures); got != 1 {
		t.Errorf("respond failure count = %v, want 1", got)
	}
}

func TestRespondWithoutBannerIsNoOp(t *testing.T) {
	bridge := NewBridge(NewAPI("http://unused"), &fakePresenter{}, nil)
	if err := bridge.Respond(context.Background(), "accept"); err != nil {
		t.Errorf("Respond with no banner: %v", err)
	}
}

func TestBridgeRunDeliversStreamEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/push/events" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"title\":\"Hi\",\"notification_id\":\"n-5\"}\n\n")
		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
		<-r.Context().Done()
	}))
	defer srv.Close()

	presenter := &fakePresenter{}
	bridge := NewBridge(NewAPI(srv.URL), presenter, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		bridge.Run(ctx) //nolint:errcheck
	}()

	deadline := time.After(2 * time.Second)
	for {
		if cur := bridge.Current(); cur != nil && cur.NotificationID == "n-5" {
			break
		}
		select {
		case <-deadline:
			t.Fatal("notification never surfaced")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop on cancel")
	}
}
