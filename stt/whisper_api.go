package stt

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// WhisperAPI implements Provider using the OpenAI transcription API.
type WhisperAPI struct {
	client openai.Client
	model  string
}

// WhisperAPIConfig holds configuration for WhisperAPI.
type WhisperAPIConfig struct {
	APIKey  string
	BaseURL string // optional, for API-compatible servers
	Model   string // defaults to "whisper-1"
}

// NewWhisperAPI creates a new API-backed provider.
func NewWhisperAPI(cfg WhisperAPIConfig) (*WhisperAPI, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key required for whisper-api engine")
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &WhisperAPI{
		client: openai.NewClient(opts...),
		model:  cfg.Model,
	}, nil
}

func (w *WhisperAPI) Name() string { return "whisper-api" }

// Transcribe uploads the audio as WAV and returns the recognized text.
func (w *WhisperAPI) Transcribe(samples []float32, language string) (string, error) {
	wav := EncodeWAV(samples, 16000)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	params := openai.AudioTranscriptionNewParams{
		Model: openai.AudioModel(w.model),
		File:  openai.File(bytes.NewReader(wav), "audio.wav", "audio/wav"),
	}
	if language != "" && language != "auto" {
		params.Language = openai.String(language)
	}

	resp, err := w.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

func (w *WhisperAPI) Close() error { return nil }
