package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the voice client
type Metrics struct {
	// Outbound audio
	FramesSent    prometheus.Counter
	FramesDropped prometheus.Counter

	// Inbound control
	MessagesReceived prometheus.Counter
	ParseErrors      prometheus.Counter

	// Playback
	ChunksQueued prometheus.Counter
	ChunksPlayed prometheus.Counter
	DecodeErrors prometheus.Counter
	QueueChunks  prometheus.Gauge
	PlaybackGaps prometheus.Histogram

	// Session
	SessionsStarted prometheus.Counter
	ConnectTimeouts prometheus.Counter
	BargeIns        prometheus.Counter
	SessionDuration prometheus.Histogram

	// Notifications
	BannersShown    prometheus.Counter
	BannersReplaced prometheus.Counter
	RespondFailures prometheus.Counter
}

// New creates and registers all metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		FramesSent: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_frames_sent_total",
			Help: "Total number of audio frames written to the channel",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_frames_dropped_total",
			Help: "Total number of audio frames dropped while the channel was not open",
		}),
		MessagesReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_messages_received_total",
			Help: "Total number of inbound control messages",
		}),
		ParseErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_parse_errors_total",
			Help: "Total number of malformed inbound control messages",
		}),
		ChunksQueued: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_playback_chunks_queued_total",
			Help: "Total number of playback chunks received into the jitter buffer",
		}),
		ChunksPlayed: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_playback_chunks_played_total",
			Help: "Total number of playback chunks rendered",
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_playback_decode_errors_total",
			Help: "Total number of playback chunks skipped due to decode failures",
		}),
		QueueChunks: factory.NewGauge(prometheus.GaugeOpts{
			Name: "voicelink_playback_queue_chunks",
			Help: "Current number of chunks waiting in the jitter buffer",
		}),
		PlaybackGaps: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicelink_playback_gap_seconds",
			Help:    "Idle gap between the playback cursor and the next rendered chunk",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_sessions_started_total",
			Help: "Total number of conversation sessions started",
		}),
		ConnectTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_connect_timeouts_total",
			Help: "Total number of channel connects that exceeded the timeout bound",
		}),
		BargeIns: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_barge_ins_total",
			Help: "Total number of playback interruptions",
		}),
		SessionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "voicelink_session_duration_seconds",
			Help:    "Duration of conversation sessions",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~1 hour
		}),
		BannersShown: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_banners_shown_total",
			Help: "Total number of notification banners presented",
		}),
		BannersReplaced: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_banners_replaced_total",
			Help: "Total number of banners replaced before dismissal",
		}),
		RespondFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "voicelink_notification_respond_failures_total",
			Help: "Total number of failed notification response reports",
		}),
	}
}
