package audiocapture

import "math"

// Resample converts src between sample rates by linear interpolation over
// evenly spaced source positions. The output length preserves duration:
// round(len(src) * to / from). Push-to-talk utterances are short, so
// interpolation is used instead of a sinc kernel.
func Resample(src []float32, from, to int) []float32 {
	if len(src) == 0 || from == to || from <= 0 || to <= 0 {
		return src
	}

	targetLen := int(math.Round(float64(len(src)) * float64(to) / float64(from)))
	if targetLen <= 0 {
		return nil
	}

	out := make([]float32, targetLen)
	if targetLen == 1 || len(src) == 1 {
		for i := range out {
			out[i] = src[0]
		}
		return out
	}

	step := float64(len(src)-1) / float64(targetLen-1)
	for i := range out {
		pos := float64(i) * step
		j := int(pos)
		if j >= len(src)-1 {
			out[i] = src[len(src)-1]
			continue
		}
		frac := float32(pos - float64(j))
		out[i] = src[j] + (src[j+1]-src[j])*frac
	}
	return out
}
