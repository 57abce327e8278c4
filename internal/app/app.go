// Package app orchestrates the dictation loop: hotkey edges drive a small
// state machine through recording, transcription, and text injection.
package app

import (
	"log/slog"
	"sync"
	"time"

	"github.com/holdtype/holdtype/inject"
)

// State is the dictation state machine position.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateTranscribing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateTranscribing:
		return "transcribing"
	}
	return "unknown"
}

// Recorder captures microphone audio between Start and Stop.
type Recorder interface {
	Start() error
	Stop() []float32
}

// Transcriber converts captured audio to text.
type Transcriber interface {
	Transcribe(samples []float32) (string, error)
}

// Injector delivers text into the focused window.
type Injector interface {
	Inject(text string, opts inject.Options) error
}

// StatusSink receives state changes for user-facing indicators.
type StatusSink interface {
	Recording()
	Transcribing()
	Idle(preview string)
}

// Config holds the orchestrator's tunables.
type Config struct {
	SampleRate   int
	MinDuration  time.Duration // utterances shorter than this are discarded
	TypingDelay  time.Duration
	PrependSpace bool
}

// Service runs the push-to-talk loop.
type Service struct {
	log  *slog.Logger
	cfg  Config
	rec  Recorder
	stt  Transcriber
	out  Injector
	sink StatusSink

	mu    sync.Mutex
	state State
}

// New creates a Service wired to its collaborators.
func New(log *slog.Logger, cfg Config, rec Recorder, stt Transcriber, out Injector, sink StatusSink) *Service {
	return &Service{log: log, cfg: cfg, rec: rec, stt: stt, out: out, sink: sink}
}

// State returns the current state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// OnActivate starts recording. Called on the hotkey press edge; edges
// arriving in any state other than idle are ignored, so a press during an
// in-flight transcription cannot start an overlapping session.
func (s *Service) OnActivate() {
	s.mu.Lock()
	if s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		s.log.Debug("activation ignored", "state", st)
		return
	}
	if err := s.rec.Start(); err != nil {
		s.mu.Unlock()
		s.log.Error("start recording", "error", err)
		return
	}
	s.state = StateRecording
	s.mu.Unlock()

	// Outside the lock, like every other sink call: sinks may read the
	// service state from their callbacks.
	s.sink.Recording()
	s.log.Debug("recording started")
}

// OnDeactivate stops recording and hands the audio to transcription.
// Called on the hotkey release edge.
func (s *Service) OnDeactivate() {
	s.mu.Lock()
	if s.state != StateRecording {
		s.mu.Unlock()
		return
	}

	samples := s.rec.Stop()
	dur := time.Duration(len(samples)) * time.Second / time.Duration(s.cfg.SampleRate)
	if dur < s.cfg.MinDuration {
		s.state = StateIdle
		s.mu.Unlock()
		s.log.Debug("utterance too short, discarded", "duration", dur)
		s.sink.Idle("")
		return
	}

	s.state = StateTranscribing
	s.mu.Unlock()

	s.sink.Transcribing()
	s.log.Debug("transcribing", "duration", dur, "samples", len(samples))
	go s.finish(samples)
}

// finish runs transcription and injection off the hotkey thread.
func (s *Service) finish(samples []float32) {
	preview := ""

	text, err := s.stt.Transcribe(samples)
	switch {
	case err != nil:
		s.log.Error("transcription failed", "error", err)
	case text == "":
		s.log.Debug("no speech detected")
	default:
		err = s.out.Inject(text, inject.Options{
			KeyDelay:     s.cfg.TypingDelay,
			LeadingSpace: s.cfg.PrependSpace,
		})
		if err != nil {
			s.log.Error("inject failed", "error", err, "text", text)
		} else {
			s.log.Info("dictated", "chars", len(text))
			preview = text
		}
	}

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()
	s.sink.Idle(preview)
}
