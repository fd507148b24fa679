package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"voicelink/audio"
	"voicelink/config"
	"voicelink/logging"
	"voicelink/metrics"
	"voicelink/notify"
	"voicelink/playback"
	"voicelink/session"

	"github.com/gordonklaus/portaudio"
	"github.com/prometheus/client_golang/prometheus"
)

// terminalPresenter prints notification banners to stdout
type terminalPresenter struct{}

func (terminalPresenter) Show(n notify.Notification) {
	fmt.Printf("\n*** %s: %s", n.Title, n.Body)
	for _, a := range n.Actions {
		fmt.Printf(" [%s]", a.Title)
	}
	fmt.Println()
}

func (terminalPresenter) Dismiss() {}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.Init()
	defer logger.Sync() //nolint:errcheck

	m := metrics.New(prometheus.DefaultRegisterer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional metrics endpoint
	if cfg.MetricsPort > 0 {
		msrv := metrics.NewServer(cfg.MetricsPort)
		go func() {
			if err := msrv.Start(); err != nil && err.Error() != "http: Server closed" {
				logging.Errorw("metrics server error", "err", err)
			}
		}()
		defer func() {
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			msrv.Shutdown(shutdownCtx) //nolint:errcheck
		}()
	}

	if err := portaudio.Initialize(); err != nil {
		log.Fatalf("Failed to initialize audio: %v", err)
	}
	defer portaudio.Terminate() //nolint:errcheck

	capturer := audio.NewPortAudioCapturer(audio.CaptureConfig{
		SampleRate:      cfg.DeviceSampleRate,
		FramesPerBuffer: cfg.FramesPerBuffer,
	})
	newSink := func() (session.PlaybackSink, error) {
		return playback.NewPortAudioSink(cfg.TargetSampleRate, cfg.FramesPerBuffer)
	}

	callbacks := session.Callbacks{
		OnState: func(st session.State) {
			fmt.Printf("[%s]\n", st)
		},
		OnTranscript: func(role session.Role, text string) {
			fmt.Printf("%s: %s\n", role, text)
		},
		OnStatus: func(text string) {
			fmt.Printf("... %s\n", text)
		},
	}

	client := session.NewClient(cfg, capturer, newSink, m, callbacks)

	// Notification banners ride alongside the conversation
	bridge := notify.NewBridge(notify.NewAPI(cfg.ServerURL), terminalPresenter{}, m)
	go bridge.Run(ctx) //nolint:errcheck

	sess, err := client.StartSession(ctx)
	if err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		logging.Infow("shutdown signal received")
		client.Shutdown(5 * time.Second)
		cancel()
	case <-sess.Done():
	}

	logging.Infow("client stopped")
}
