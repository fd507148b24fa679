package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all client configuration
type Config struct {
	ServerURL        string        // http(s) origin of the voice backend
	Engine           string        // speech engine requested in the start message
	VoiceID          string        // voice requested in the start message
	DeviceSampleRate int           // native capture/playback rate of the audio device
	TargetSampleRate int           // fixed wire rate (PCM16 mono)
	FramesPerBuffer  int           // capture buffer size in frames
	ConnectTimeout   time.Duration // bound on the WebSocket open handshake
	PreRoll          time.Duration // playback pre-roll after an idle period
	MaxQueueBytes    int           // playback queue ceiling in bytes (0 = unbounded)
	MetricsPort      int           // port for /metrics and /health (0 disables)
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	config := &Config{
		ServerURL:        "http://localhost:8000",
		Engine:           "nova",
		DeviceSampleRate: 48000,
		TargetSampleRate: 16000,
		FramesPerBuffer:  2048,
		ConnectTimeout:   20 * time.Second,
		PreRoll:          1100 * time.Millisecond,
		MaxQueueBytes:    0,
		MetricsPort:      0,
	}

	// Optional: SERVER_URL
	if url := os.Getenv("SERVER_URL"); url != "" {
		config.ServerURL = url
	}

	// Optional: ENGINE
	if engine := os.Getenv("ENGINE"); engine != "" {
		config.Engine = engine
	}

	// Optional: VOICE_ID
	config.VoiceID = os.Getenv("VOICE_ID")

	// Optional: DEVICE_SAMPLE_RATE
	if rate := os.Getenv("DEVICE_SAMPLE_RATE"); rate != "" {
		r, err := strconv.Atoi(rate)
		if err != nil || r <= 0 {
			return nil, fmt.Errorf("invalid DEVICE_SAMPLE_RATE: %q", rate)
		}
		config.DeviceSampleRate = r
	}

	// Optional: FRAMES_PER_BUFFER
	if frames := os.Getenv("FRAMES_PER_BUFFER"); frames != "" {
		f, err := strconv.Atoi(frames)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("invalid FRAMES_PER_BUFFER: %q", frames)
		}
		config.FramesPerBuffer = f
	}

	// Optional: CONNECT_TIMEOUT (in seconds)
	if timeout := os.Getenv("CONNECT_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil || t <= 0 {
			return nil, fmt.Errorf("invalid CONNECT_TIMEOUT: %q", timeout)
		}
		config.ConnectTimeout = time.Duration(t) * time.Second
	}

	// Optional: PREROLL_MS
	if preroll := os.Getenv("PREROLL_MS"); preroll != "" {
		p, err := strconv.Atoi(preroll)
		if err != nil || p < 0 {
			return nil, fmt.Errorf("invalid PREROLL_MS: %q", preroll)
		}
		config.PreRoll = time.Duration(p) * time.Millisecond
	}

	// Optional: MAX_QUEUE_BYTES (0 keeps the queue unbounded)
	if max := os.Getenv("MAX_QUEUE_BYTES"); max != "" {
		m, err := strconv.Atoi(max)
		if err != nil || m < 0 {
			return nil, fmt.Errorf("invalid MAX_QUEUE_BYTES: %q", max)
		}
		config.MaxQueueBytes = m
	}

	// Optional: METRICS_PORT
	if port := os.Getenv("METRICS_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil || p < 0 || p > 65535 {
			return nil, fmt.Errorf("invalid METRICS_PORT: %q", port)
		}
		config.MetricsPort = p
	}

	return config, nil
}
