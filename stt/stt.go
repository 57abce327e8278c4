// Package stt provides speech-to-text provider interface and
// implementations.
package stt

import "strings"

// Provider defines the interface for speech-to-text providers. Both local
// (whisper.cpp) and remote (OpenAI API) implementations satisfy it.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Transcribe converts audio samples to text.
	// samples: PCM float32 at 16000 Hz; language: source language code
	// (empty for auto-detect).
	Transcribe(samples []float32, language string) (string, error)

	// Close releases resources held by the provider.
	Close() error
}

// Engine wraps a Provider with the no-speech policy: very short input is
// rejected without invoking the provider, and known silence artifacts in
// the output are mapped to an empty result.
type Engine struct {
	provider   Provider
	language   string
	sampleRate int
}

// NewEngine creates an engine around the given provider.
func NewEngine(provider Provider, language string, sampleRate int) *Engine {
	return &Engine{provider: provider, language: language, sampleRate: sampleRate}
}

// Transcribe returns the spoken text, or "" when no speech was detected.
func (e *Engine) Transcribe(samples []float32) (string, error) {
	// Below ~0.1s there is nothing to transcribe.
	if len(samples) < e.sampleRate/10 {
		return "", nil
	}

	text, err := e.provider.Transcribe(samples, e.language)
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if IsHallucination(text) {
		return "", nil
	}
	return text, nil
}

// Close releases the underlying provider.
func (e *Engine) Close() error { return e.provider.Close() }
