package audio

// Resample converts a native-rate float buffer to signed 16-bit samples
// at dstRate using linear interpolation. The output holds exactly
// floor(len(src)*dstRate/srcRate) samples. No anti-aliasing filter is
// applied; buffer windows are short and the content is speech.
func Resample(src []float32, srcRate, dstRate int) []int16 {
	if len(src) == 0 || srcRate <= 0 || dstRate <= 0 {
		return nil
	}

	outLen := len(src) * dstRate / srcRate
	out := make([]int16, outLen)
	step := float64(srcRate) / float64(dstRate)

	for i := 0; i < outLen; i++ {
		pos := float64(i) * step
		idx := int(pos)
		frac := pos - float64(idx)

		// Clamp at the source end rather than reading past it.
		if idx >= len(src)-1 {
			idx = len(src) - 1
			frac = 0
		}

		sample := float64(src[idx])
		if frac > 0 {
			sample = (1-frac)*sample + frac*float64(src[idx+1])
		}

		out[i] = Quantize(float32(sample))
	}

	return out
}

// Quantize converts a float sample to int16, clamping to [-1, 1] and
// scaling by 32767 for non-negative values and 32768 for negative ones,
// so the full symmetric int16 range is used without overflow.
func Quantize(v float32) int16 {
	if v > 1 {
		v = 1
	} else if v < -1 {
		v = -1
	}
	if v >= 0 {
		return int16(v * 32767)
	}
	return int16(v * 32768)
}

// Dequantize is the inverse of Quantize, using the same distinct
// positive/negative divisors.
func Dequantize(s int16) float32 {
	if s >= 0 {
		return float32(s) / 32767
	}
	return float32(s) / 32768
}
