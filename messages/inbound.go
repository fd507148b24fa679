package messages

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Inbound message types
const (
	TypeTranscriptUser = "transcript_user"
	TypeTranscriptAI   = "transcript_ai"
	TypeThinking       = "thinking"
	TypeSpeaking       = "speaking"
	TypeBargeIn        = "barge_in"
	TypeToolUse        = "tool_use"
	TypePhotoReceived  = "photo_received"
	TypePhotoAnalyzing = "photo_analyzing"
	TypePhotoAnalyzed  = "photo_analyzed"
	TypePhotoError     = "photo_error"
	TypeDone           = "done"
	TypeError          = "error"
)

// Inbound is a tagged control message from the remote peer. Fields other
// than Type are populated per tag: Text for transcripts, errors and
// photo results; Tool for tool_use.
type Inbound struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	Tool string `json:"tool,omitempty"`
}

// ParseInbound decodes a textual wire payload. A payload that is not a
// JSON object or is missing its type tag is a parse error for that
// message only; the caller discards it and continues.
func ParseInbound(data []byte) (*Inbound, error) {
	var msg Inbound
	if err := sonic.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("malformed control message: %w", err)
	}
	if msg.Type == "" {
		return nil, fmt.Errorf("control message missing type tag")
	}
	return &msg, nil
}

// IsTranscript reports whether the message appends to the transcript log.
func (m *Inbound) IsTranscript() bool {
	return m.Type == TypeTranscriptUser || m.Type == TypeTranscriptAI
}

// Marshal encodes an outbound message for the wire.
func Marshal(v any) ([]byte, error) {
	return sonic.Marshal(v)
}
