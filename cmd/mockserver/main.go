// Command mockserver is a local stand-in for the voice backend. It
// accepts duplex connections on /ws/audio, echoes captured audio back
// as playback chunks and walks through a scripted conversation, which
// is enough to exercise the client end to end without a real engine.
package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"voicelink/messages"

	"github.com/gorilla/websocket"
)

type server struct {
	httpServer *http.Server
	upgrader   websocket.Upgrader
}

func newServer(port int) *server {
	s := &server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/audio", s.handleAudio)
	mux.HandleFunc("/health", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, `{"status":"ok","service":"mockserver"}`)
}

func (s *server) handleAudio(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Printf("client connected from %s", r.RemoteAddr)

	var writeMu sync.Mutex
	sendJSON := func(v any) {
		writeMu.Lock()
		defer writeMu.Unlock()
		data, err := messages.Marshal(v)
		if err != nil {
			log.Printf("marshal: %v", err)
			return
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("write: %v", err)
		}
	}
	sendBinary := func(chunk []byte) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteMessage(websocket.BinaryMessage, chunk); err != nil {
			log.Printf("write: %v", err)
		}
	}

	type tagged struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	}

	var echoed int
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			log.Printf("client gone: %v", err)
			return
		}

		switch msgType {
		case websocket.BinaryMessage:
			// Echo captured audio back as playback chunks, with a
			// scripted transcript around the first echo.
			echoed++
			if echoed == 1 {
				sendJSON(tagged{Type: "transcript_user", Text: "hello"})
				sendJSON(tagged{Type: "speaking"})
				sendJSON(tagged{Type: "transcript_ai", Text: "hello back"})
			}
			sendBinary(data)

		case websocket.TextMessage:
			in, err := messages.ParseInbound(data)
			if err != nil {
				log.Printf("bad control message: %v", err)
				continue
			}
			switch in.Type {
			case messages.TypeStart:
				log.Printf("conversation started")
			case messages.TypeEnd:
				log.Printf("conversation ended by client")
				sendJSON(tagged{Type: "done"})
				return
			case messages.TypeGPS:
				log.Printf("location fix received")
			case messages.TypePhoto:
				sendJSON(tagged{Type: "photo_received"})
				sendJSON(tagged{Type: "photo_analyzing"})
				sendJSON(tagged{Type: "photo_analyzed", Text: "a photo of something interesting"})
			default:
				log.Printf("unhandled control type %q", in.Type)
			}
		}
	}
}

func main() {
	port := flag.Int("port", 8000, "listen port")
	flag.Parse()

	srv := newServer(*port)
	log.Printf("mock voice server listening on :%d", *port)
	if err := srv.httpServer.ListenAndServe(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
