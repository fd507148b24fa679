package audio

import (
	"encoding/binary"
	"fmt"
)

// EncodePCM16 serializes samples as little-endian PCM16 wire bytes.
func EncodePCM16(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	return buf
}

// DecodePCM16 converts little-endian PCM16 wire bytes back to normalized
// float samples. A buffer with a trailing odd byte is malformed.
func DecodePCM16(data []byte) ([]float32, error) {
	if len(data)%2 != 0 {
		return nil, fmt.Errorf("pcm16 buffer has odd length %d", len(data))
	}
	samples := make([]float32, len(data)/2)
	for i := range samples {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = Dequantize(s)
	}
	return samples, nil
}
