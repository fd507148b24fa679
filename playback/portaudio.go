package playback

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// PortAudioSink renders float32 mono audio via PortAudio
type PortAudioSink struct {
	stream *portaudio.Stream
	buf    []float32
}

// NewPortAudioSink creates a sink; portaudio.Initialize must have been
// called by the owner.
func NewPortAudioSink(sampleRate, framesPerBuffer int) (*PortAudioSink, error) {
	s := &PortAudioSink{buf: make([]float32, framesPerBuffer)}
	stream, err := portaudio.OpenDefaultStream(0, 1, float64(sampleRate), framesPerBuffer, s.buf)
	if err != nil {
		return nil, fmt.Errorf("open playback stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		return nil, fmt.Errorf("start playback stream: %w", err)
	}
	s.stream = stream
	return s, nil
}

// Write renders samples, blocking on the device. The final partial
// buffer is zero-padded.
func (s *PortAudioSink) Write(samples []float32) error {
	if s.stream == nil {
		return errors.New("playback stream not opened")
	}

	for off := 0; off < len(samples); off += len(s.buf) {
		n := copy(s.buf, samples[off:])
		for i := n; i < len(s.buf); i++ {
			s.buf[i] = 0
		}
		if err := s.stream.Write(); err != nil {
			return err
		}
	}
	return nil
}

// Close stops and releases the output stream
func (s *PortAudioSink) Close() error {
	if s.stream == nil {
		return nil
	}
	s.stream.Stop()
	err := s.stream.Close()
	s.stream = nil
	return err
}
