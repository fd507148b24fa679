package audio

import (
	"math"
	"testing"
)

func TestResampleOutputLength(t *testing.T) {
	tests := []struct {
		name    string
		srcLen  int
		srcRate int
		dstRate int
	}{
		{"48k to 16k", 2048, 48000, 16000},
		{"44.1k to 16k", 4410, 44100, 16000},
		{"24k to 16k", 960, 24000, 16000},
		{"16k to 16k", 320, 16000, 16000},
		{"8k to 16k upsample", 160, 8000, 16000},
		{"odd length", 1001, 44100, 16000},
		{"single sample", 1, 48000, 16000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := make([]float32, tt.srcLen)
			for i := range src {
				src[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / float64(tt.srcRate)))
			}
			out := Resample(src, tt.srcRate, tt.dstRate)
			want := tt.srcLen * tt.dstRate / tt.srcRate
			if len(out) != want {
				t.Errorf("output length: want %d got %d", want, len(out))
			}
		})
	}
}

func TestResampleEmptyAndInvalid(t *testing.T) {
	if out := Resample(nil, 48000, 16000); out != nil {
		t.Errorf("nil input should produce nil output, got %d samples", len(out))
	}
	if out := Resample([]float32{0.5}, 0, 16000); out != nil {
		t.Errorf("zero source rate should produce nil output")
	}
}

func TestQuantizeClampsAndUsesFullRange(t *testing.T) {
	tests := []struct {
		in   float32
		want int16
	}{
		{0, 0},
		{1, 32767},
		{-1, -32768},
		{2.5, 32767},
		{-3, -32768},
		{0.5, 16383},
	}
	for _, tt := range tests {
		if got := Quantize(tt.in); got != tt.want {
			t.Errorf("Quantize(%v): want %d got %d", tt.in, tt.want, got)
		}
	}
}

// Encode then decode must reproduce each sample within one quantization
// step, with no drift across chunk boundaries.
func TestEncodeDecodeRoundTrip(t *testing.T) {
	const n = 1600
	src := make([]float32, n)
	for i := range src {
		src[i] = float32(math.Sin(2*math.Pi*float64(i)/100)) * 0.95
	}

	samples := make([]int16, n)
	for i, v := range src {
		samples[i] = Quantize(v)
	}

	// Split into chunks like the wire does, then decode each.
	const chunkSamples = 160
	var decoded []float32
	encoded := EncodePCM16(samples)
	for off := 0; off < len(encoded); off += chunkSamples * 2 {
		chunk, err := DecodePCM16(encoded[off : off+chunkSamples*2])
		if err != nil {
			t.Fatalf("DecodePCM16: %v", err)
		}
		decoded = append(decoded, chunk...)
	}

	if len(decoded) != n {
		t.Fatalf("decoded length: want %d got %d", n, len(decoded))
	}

	const step = 1.0 / 32767
	for i := range src {
		if diff := math.Abs(float64(src[i] - decoded[i])); diff > step {
			t.Fatalf("sample %d drifted by %v (> %v): %v -> %v", i, diff, step, src[i], decoded[i])
		}
	}
}

func TestDecodePCM16OddLength(t *testing.T) {
	if _, err := DecodePCM16([]byte{0x01, 0x02, 0x03}); err == nil {
		t.Fatal("expected error for odd-length buffer")
	}
}

func TestResampleIsMonotoneOnRamp(t *testing.T) {
	// A linear ramp must stay monotone through linear interpolation.
	src := make([]float32, 480)
	for i := range src {
		src[i] = float32(i) / float32(len(src))
	}
	out := Resample(src, 48000, 16000)
	for i := 1; i < len(out); i++ {
		if out[i] < out[i-1] {
			t.Fatalf("ramp not monotone at %d: %d < %d", i, out[i], out[i-1])
		}
	}
}
