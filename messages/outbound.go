package messages

// Outbound message types
const (
	TypeStart = "start"
	TypeEnd   = "end"
	TypeGPS   = "gps"
	TypePhoto = "photo"
)

// StartMessage begins a conversation with the remote speech peer
type StartMessage struct {
	Type    string `json:"type"`
	Engine  string `json:"engine"`
	VoiceID string `json:"voice_id"`
}

// EndMessage ends the conversation
type EndMessage struct {
	Type string `json:"type"`
}

// GPSMessage reports the last-known location fix
type GPSMessage struct {
	Type     string  `json:"type"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Accuracy float64 `json:"accuracy"`
}

// PhotoMessage carries a captured photo as a base64 JPEG data URL
type PhotoMessage struct {
	Type string `json:"type"`
	Data string `json:"data"`
}

// NewStartMessage creates a start message
func NewStartMessage(engine, voiceID string) *StartMessage {
	return &StartMessage{Type: TypeStart, Engine: engine, VoiceID: voiceID}
}

// NewEndMessage creates an end message
func NewEndMessage() *EndMessage {
	return &EndMessage{Type: TypeEnd}
}

// NewGPSMessage creates a gps message
func NewGPSMessage(lat, lon, accuracy float64) *GPSMessage {
	return &GPSMessage{Type: TypeGPS, Lat: lat, Lon: lon, Accuracy: accuracy}
}

// NewPhotoMessage creates a photo message
func NewPhotoMessage(dataURL string) *PhotoMessage {
	return &PhotoMessage{Type: TypePhoto, Data: dataURL}
}
