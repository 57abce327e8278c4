package stt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const modelBaseURL = "https://huggingface.co/ggerganov/whisper.cpp/resolve/main/"

// Accepted whisper.cpp model names.
var modelSizes = map[string]bool{
	"tiny": true, "tiny.en": true,
	"base": true, "base.en": true,
	"small": true, "small.en": true,
	"medium": true, "medium.en": true,
	"large": true,
}

// WhisperLocal implements Provider using a local whisper.cpp CLI. The model
// file is downloaded on first use if missing.
type WhisperLocal struct {
	modelSize string
	modelPath string
	binPath   string

	mu sync.Mutex // serializes the model download
}

// WhisperLocalConfig holds configuration for WhisperLocal.
type WhisperLocalConfig struct {
	ModelSize string // "tiny", "base", "small", "medium", "large" (+ ".en")
	ModelDir  string // directory for model files; defaults to ~/.holdtype/models
	BinPath   string // whisper.cpp binary; searched on PATH if empty
}

// NewWhisperLocal creates a new WhisperLocal provider.
func NewWhisperLocal(cfg WhisperLocalConfig) (*WhisperLocal, error) {
	if cfg.ModelSize == "" {
		cfg.ModelSize = "base"
	}
	if !modelSizes[cfg.ModelSize] {
		return nil, fmt.Errorf("invalid model size: %s", cfg.ModelSize)
	}

	if cfg.ModelDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.ModelDir = filepath.Join(homeDir, ".holdtype", "models")
	}

	w := &WhisperLocal{
		modelSize: cfg.ModelSize,
		modelPath: filepath.Join(cfg.ModelDir, fmt.Sprintf("ggml-%s.bin", cfg.ModelSize)),
		binPath:   cfg.BinPath,
	}
	if w.binPath == "" {
		w.binPath = findWhisperBinary()
	}
	return w, nil
}

func (w *WhisperLocal) Name() string { return "whisper-local" }

// Transcribe converts audio samples to text via the whisper.cpp CLI.
func (w *WhisperLocal) Transcribe(samples []float32, language string) (string, error) {
	if w.binPath == "" {
		return "", fmt.Errorf("whisper.cpp binary not found, please install whisper.cpp")
	}
	if err := w.ensureModel(); err != nil {
		return "", err
	}

	audioPath := filepath.Join(os.TempDir(), fmt.Sprintf("holdtype-%s.wav", uuid.NewString()))
	if err := os.WriteFile(audioPath, EncodeWAV(samples, 16000), 0644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}
	defer os.Remove(audioPath)

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-oj", // JSON to stdout
		"--no-prints",
	}
	if language != "" && language != "auto" {
		args = append(args, "-l", language)
	}

	cmd := exec.Command(w.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("whisper-cpp failed: %w, stderr: %s", err, stderr.String())
	}

	var out whisperCppOutput
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		// Older builds print plain text despite -oj.
		return strings.TrimSpace(stdout.String()), nil
	}

	var text strings.Builder
	for _, seg := range out.Transcription {
		text.WriteString(seg.Text)
	}
	return strings.TrimSpace(text.String()), nil
}

func (w *WhisperLocal) Close() error { return nil }

// ensureModel downloads the model file on first use.
func (w *WhisperLocal) ensureModel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := os.Stat(w.modelPath); err == nil {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(w.modelPath), 0755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	url := modelBaseURL + filepath.Base(w.modelPath)
	slog.Info("downloading whisper model", "model", w.modelSize, "url", url)

	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model: http status %d", resp.StatusCode)
	}

	tmpPath := w.modelPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // no-op after successful rename
	}()

	if _, err := io.Copy(f, resp.Body); err != nil {
		return fmt.Errorf("write model: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmpPath, w.modelPath); err != nil {
		return fmt.Errorf("rename model file: %w", err)
	}

	slog.Info("whisper model ready", "path", w.modelPath)
	return nil
}

// findWhisperBinary locates a whisper.cpp CLI on PATH or in common install
// locations. whisper-cli is the current upstream name.
func findWhisperBinary() string {
	names := []string{"whisper-cli", "whisper-cpp", "whisper", "main"}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	homeDir, _ := os.UserHomeDir()
	locations := []string{
		"/usr/local/bin",
		"/opt/homebrew/bin",
		filepath.Join(homeDir, ".local", "bin"),
		filepath.Join(homeDir, "whisper.cpp"),
	}
	for _, loc := range locations {
		for _, name := range names {
			path := filepath.Join(loc, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}
	return ""
}

// whisperCppOutput is the JSON emitted by whisper.cpp with -oj.
type whisperCppOutput struct {
	Transcription []struct {
		Text string `json:"text"`
	} `json:"transcription"`
}
