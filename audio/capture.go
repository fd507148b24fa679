package audio

import (
	"context"
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"

	"voicelink/logging"
)

// ErrCaptureDenied is returned when the input device cannot be opened,
// typically because microphone access is unavailable or refused.
var ErrCaptureDenied = errors.New("audio capture unavailable")

// Capturer delivers native-rate float frames from the microphone.
type Capturer interface {
	// Open acquires the input device
	Open() error

	// Start captures frames and sends them to out until the context is
	// cancelled. Each delivered slice is owned by the receiver.
	Start(ctx context.Context, out chan<- []float32) error

	// Close releases the input device
	Close() error
}

// CaptureConfig holds capture device parameters
type CaptureConfig struct {
	SampleRate      int
	FramesPerBuffer int
}

// PortAudioCapturer captures mono float32 audio via PortAudio
type PortAudioCapturer struct {
	stream *portaudio.Stream
	buf    []float32
	config CaptureConfig
}

// NewPortAudioCapturer creates a capturer; portaudio.Initialize must
// have been called by the owner.
func NewPortAudioCapturer(config CaptureConfig) *PortAudioCapturer {
	return &PortAudioCapturer{
		config: config,
		buf:    make([]float32, config.FramesPerBuffer),
	}
}

func (c *PortAudioCapturer) Open() error {
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(c.config.SampleRate), c.config.FramesPerBuffer, c.buf)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureDenied, err)
	}
	c.stream = stream
	return nil
}

func (c *PortAudioCapturer) Start(ctx context.Context, out chan<- []float32) error {
	if c.stream == nil {
		return errors.New("capture stream not opened")
	}

	if err := c.stream.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrCaptureDenied, err)
	}
	defer c.stream.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.stream.Read(); err != nil {
				logging.Warnw("capture read failed", "err", err)
				continue
			}

			frame := make([]float32, len(c.buf))
			copy(frame, c.buf)

			select {
			case out <- frame:
			case <-ctx.Done():
				return ctx.Err()
			default:
				// Receiver is behind; drop the frame rather than stall
				// the device callback cadence.
			}
		}
	}
}

func (c *PortAudioCapturer) Close() error {
	if c.stream != nil {
		err := c.stream.Close()
		c.stream = nil
		return err
	}
	return nil
}
