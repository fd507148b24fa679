// Command sendfile streams a prerecorded audio file to the voice
// backend as if it were live microphone input and prints what comes
// back. Useful for exercising a server without audio hardware.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"voicelink/transport"
)

const (
	wireSampleRate = 16000
	chunkMillis    = 100
	// 100ms of mono PCM16 at the wire rate
	chunkSize = wireSampleRate * 2 * chunkMillis / 1000
)

type startMessage struct {
	Type    string `json:"type"`
	Engine  string `json:"engine"`
	VoiceID string `json:"voice_id"`
}

type endMessage struct {
	Type string `json:"type"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8000", "voice backend origin")
	audioFile := flag.String("file", "examples/user.pcm", "audio file to send (raw PCM16 or WAV)")
	engine := flag.String("engine", "nova", "speech engine")
	flag.Parse()

	log.Printf("connecting to %s...", *serverURL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := transport.Dial(ctx, *serverURL, 20*time.Second, nil)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer ch.Close()

	if err := ch.SendControl(startMessage{Type: "start", Engine: *engine}); err != nil {
		log.Fatalf("failed to send start: %v", err)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	done := make(chan struct{})

	// Print server responses
	go func() {
		defer close(done)
		var received int
		for ev := range ch.Events() {
			switch {
			case ev.Err != nil:
				log.Printf("connection lost: %v", ev.Err)
				return
			case ev.Audio != nil:
				received += len(ev.Audio)
				log.Printf("playback chunk: %d bytes (%d total)", len(ev.Audio), received)
			case ev.Control != nil:
				switch ev.Control.Type {
				case "transcript_user", "transcript_ai":
					fmt.Printf("%s: %s\n", ev.Control.Type, ev.Control.Text)
				case "done":
					log.Println("conversation done")
					return
				default:
					log.Printf("status: %s %s", ev.Control.Type, ev.Control.Text)
				}
			}
		}
	}()

	audioData, err := loadAudioFile(*audioFile)
	if err != nil {
		log.Fatalf("failed to load audio: %v", err)
	}
	log.Printf("sending %s (%d bytes)...", *audioFile, len(audioData))

	// Pace the chunks like a live capture would
	for i := 0; i < len(audioData); i += chunkSize {
		end := i + chunkSize
		if end > len(audioData) {
			end = len(audioData)
		}
		ch.SendAudio(audioData[i:end])
		time.Sleep(chunkMillis * time.Millisecond)
	}

	log.Println("audio sent, ending conversation...")
	if err := ch.SendControl(endMessage{Type: "end"}); err != nil {
		log.Printf("failed to send end: %v", err)
	}

	select {
	case <-done:
	case <-interrupt:
		log.Println("interrupted, closing...")
	case <-time.After(30 * time.Second):
		log.Println("timeout waiting for response")
	}
}

// loadAudioFile reads raw PCM16 bytes, skipping a standard WAV header
// when present.
func loadAudioFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if len(data) > 44 && string(data[0:4]) == "RIFF" {
		return data[44:], nil
	}
	return data, nil
}
