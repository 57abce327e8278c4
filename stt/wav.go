package stt

import (
	"bytes"
	"encoding/binary"
)

// EncodeWAV converts float32 PCM samples to a 16-bit mono RIFF WAV file.
func EncodeWAV(samples []float32, sampleRate int) []byte {
	dataSize := len(samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))

	le := binary.LittleEndian

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, le, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk
	buf.WriteString("fmt ")
	binary.Write(buf, le, uint32(16))           // chunk size
	binary.Write(buf, le, uint16(1))            // PCM
	binary.Write(buf, le, uint16(1))            // mono
	binary.Write(buf, le, uint32(sampleRate))   // sample rate
	binary.Write(buf, le, uint32(sampleRate*2)) // byte rate
	binary.Write(buf, le, uint16(2))            // block align
	binary.Write(buf, le, uint16(16))           // bits per sample

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, le, uint32(dataSize))
	for _, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		binary.Write(buf, le, int16(s*32767))
	}

	return buf.Bytes()
}
