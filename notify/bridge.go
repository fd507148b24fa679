package notify

import (
	"context"
	"sync"
	"time"

	"voicelink/logging"
	"voicelink/metrics"
)

const streamRetryDelay = 3 * time.Second

// Presenter surfaces a banner to the user. At most one banner is shown
// at a time; Show on a new notification implies the previous banner is
// gone.
type Presenter interface {
	Show(n Notification)
	Dismiss()
}

// Bridge turns push events into in-app banners and reports the user's
// response. It holds at most one current banner; a newer notification
// replaces the one on screen.
type Bridge struct {
	api       *API
	presenter Presenter
	metrics   *metrics.Metrics

	mu      sync.Mutex
	current *Notification
}

// NewBridge creates a bridge over the push API and a banner presenter
func NewBridge(api *API, presenter Presenter, m *metrics.Metrics) *Bridge {
	return &Bridge{api: api, presenter: presenter, metrics: m}
}

// Run consumes the push event stream until ctx is cancelled,
// reconnecting after stream loss.
func (b *Bridge) Run(ctx context.Context) error {
	events := make(chan Notification, 8)

	go func() {
		defer close(events)
		for ctx.Err() == nil {
			if err := b.api.Stream(ctx, events); err != nil && ctx.Err() == nil {
				logging.Warnw("push event stream lost", "err", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(streamRetryDelay):
			}
		}
	}()

	for n := range events {
		b.Show(n)
	}
	return ctx.Err()
}

// Show makes n the current banner, replacing any banner on screen
func (b *Bridge) Show(n Notification) {
	b.mu.Lock()
	replaced := b.current != nil
	b.current = &n
	b.mu.Unlock()

	if replaced {
		b.presenter.Dismiss()
		if b.metrics != nil {
			b.metrics.BannersReplaced.Inc()
		}
	}
	b.presenter.Show(n)
	if b.metrics != nil {
		b.metrics.BannersShown.Inc()
	}
	logging.Infow("notification banner shown", "notification_id", n.NotificationID, "tag", n.Tag)
}

// Current returns the notification on screen, or nil
func (b *Bridge) Current() *Notification {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Respond reports the user's banner action to the server, then
// dismisses the banner whether or not the report succeeded.
func (b *Bridge) Respond(ctx context.Context, action string) error {
	b.mu.Lock()
	n := b.current
	b.current = nil
	b.mu.Unlock()

	if n == nil {
		return nil
	}

	err := b.api.Respond(ctx, n.NotificationID, action)
	if err != nil {
		logging.Warnw("notification response failed", "notification_id", n.NotificationID, "err", err)
		if b.metrics != nil {
			b.metrics.RespondFailures.Inc()
		}
	}
	b.presenter.Dismiss()
	return err
}

// DismissCurrent clears the banner without reporting a response
func (b *Bridge) DismissCurrent() {
	b.mu.Lock()
	had := b.current != nil
	b.current = nil
	b.mu.Unlock()

	if had {
		b.presenter.Dismiss()
	}
}
