package playback

import (
	"sync"
	"time"

	"voicelink/audio"
	"voicelink/logging"
	"voicelink/metrics"
)

const drainTick = 10 * time.Millisecond

// Sink renders decoded float samples at the scheduler's sample rate.
// Write blocks for the device, not for wall-clock pacing; the scheduler
// owns pacing through its cursor.
type Sink interface {
	Write(samples []float32) error
}

// Clock abstracts time.Now for tests
type Clock func() time.Time

// Scheduler renders queued chunks back-to-back despite network jitter.
// The first chunk after an idle period waits out a pre-roll delay that
// absorbs early jitter so the opening words of a reply are not
// truncated. After pre-roll, every chunk is scheduled against a
// monotonic cursor: it starts at max(now, cursor) and advances the
// cursor by its own duration, giving sample-accurate concatenation
// instead of arrival-time playback.
type Scheduler struct {
	queue      *Queue
	sink       Sink
	sampleRate int
	preRoll    time.Duration
	clock      Clock
	metrics    *metrics.Metrics

	// onFinished fires when the queue empties and the cursor is reached
	onFinished func()

	mu     sync.Mutex
	active bool
	gen    int
	cursor time.Time
}

// Config holds scheduler parameters
type Config struct {
	SampleRate    int
	PreRoll       time.Duration
	MaxQueueBytes int
	Clock         Clock
	Metrics       *metrics.Metrics
	OnFinished    func()
}

// NewScheduler creates a scheduler rendering to sink
func NewScheduler(sink Sink, cfg Config) *Scheduler {
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Scheduler{
		queue:      NewQueue(cfg.MaxQueueBytes),
		sink:       sink,
		sampleRate: cfg.SampleRate,
		preRoll:    cfg.PreRoll,
		clock:      clock,
		metrics:    cfg.Metrics,
		onFinished: cfg.OnFinished,
	}
}

// Enqueue accepts a received chunk. The first chunk after an idle
// period arms the pre-roll and starts a drain pass.
func (s *Scheduler) Enqueue(chunk []byte) error {
	if err := s.queue.Push(chunk); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ChunksQueued.Inc()
		s.metrics.QueueChunks.Set(float64(s.queue.Len()))
	}

	s.mu.Lock()
	if s.active {
		s.mu.Unlock()
		return nil
	}
	s.active = true
	gen := s.gen
	s.mu.Unlock()

	go s.run(gen)
	return nil
}

// Playing reports whether a drain pass is live (pre-roll included)
func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Flush clears the pending queue, cancels a pending pre-roll and resets
// the cursor. Audio already handed to the sink is not silenced; a brief
// tail may survive an interruption.
func (s *Scheduler) Flush() {
	s.mu.Lock()
	s.gen++
	s.active = false
	s.cursor = time.Time{}
	s.mu.Unlock()

	s.queue.Clear()
	if s.metrics != nil {
		s.metrics.QueueChunks.Set(0)
	}
}

func (s *Scheduler) run(gen int) {
	if !s.sleepFor(s.preRoll, gen) {
		return
	}
	s.drain(gen)
}

// drain renders chunks until the queue empties and the cursor is
// reached, re-arming on a short tick while either condition holds.
func (s *Scheduler) drain(gen int) {
	for {
		if s.cancelled(gen) {
			return
		}

		chunk, ok := s.queue.Pop()
		if !ok {
			s.mu.Lock()
			reached := !s.clock().Before(s.cursor)
			s.mu.Unlock()
			if reached {
				s.finish(gen)
				return
			}
			time.Sleep(drainTick)
			continue
		}
		if s.metrics != nil {
			s.metrics.QueueChunks.Set(float64(s.queue.Len()))
		}

		samples, err := audio.DecodePCM16(chunk)
		if err != nil {
			// One malformed fragment must not abort the playback loop.
			logging.Warnw("skipping undecodable playback chunk", "err", err, "bytes", len(chunk))
			if s.metrics != nil {
				s.metrics.DecodeErrors.Inc()
			}
			continue
		}

		s.mu.Lock()
		// A flush may have landed since the pop; it must keep its
		// cursor reset.
		if s.gen != gen {
			s.mu.Unlock()
			return
		}
		start := s.clock()
		if start.Before(s.cursor) {
			start = s.cursor
		} else if !s.cursor.IsZero() && s.metrics != nil {
			s.metrics.PlaybackGaps.Observe(start.Sub(s.cursor).Seconds())
		}
		dur := time.Duration(len(samples)) * time.Second / time.Duration(s.sampleRate)
		s.cursor = start.Add(dur)
		s.mu.Unlock()

		if !s.sleepUntil(start, gen) {
			return
		}

		if err := s.sink.Write(samples); err != nil {
			logging.Errorw("sink write failed", "err", err, "samples", len(samples))
			continue
		}
		if s.metrics != nil {
			s.metrics.ChunksPlayed.Inc()
		}
	}
}

// sleepFor waits d in cancellable ticks. Returns false when flushed.
func (s *Scheduler) sleepFor(d time.Duration, gen int) bool {
	deadline := s.clock().Add(d)
	return s.sleepUntil(deadline, gen)
}

func (s *Scheduler) sleepUntil(t time.Time, gen int) bool {
	for {
		if s.cancelled(gen) {
			return false
		}
		d := t.Sub(s.clock())
		if d <= 0 {
			return true
		}
		if d > drainTick {
			d = drainTick
		}
		time.Sleep(d)
	}
}

func (s *Scheduler) cancelled(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen != gen
}

func (s *Scheduler) finish(gen int) {
	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		return
	}
	s.active = false
	s.mu.Unlock()

	if s.onFinished != nil {
		s.onFinished()
	}
}
