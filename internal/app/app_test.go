package app

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/holdtype/holdtype/inject"
)

type fakeRecorder struct {
	samples  []float32
	startErr error
	starts   int
	stops    int
}

func (f *fakeRecorder) Start() error { f.starts++; return f.startErr }

func (f *fakeRecorder) Stop() []float32 { f.stops++; return f.samples }

type fakeEngine struct {
	mu      sync.Mutex
	text    string
	err     error
	calls   int
	block   chan struct{} // when non-nil, Transcribe waits on it
	started chan struct{} // signalled when Transcribe begins
}

func (f *fakeEngine) Transcribe(samples []float32) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.started != nil {
		f.started <- struct{}{}
	}
	if f.block != nil {
		<-f.block
	}
	return f.text, f.err
}

func (f *fakeEngine) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeInjector struct {
	mu    sync.Mutex
	texts []string
	opts  []inject.Options
	err   error
}

func (f *fakeInjector) Inject(text string, opts inject.Options) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	f.opts = append(f.opts, opts)
	return f.err
}

// fakeSink records sink calls and signals each return to idle.
type fakeSink struct {
	mu       sync.Mutex
	events   []string
	previews []string
	idle     chan struct{}
}

func newFakeSink() *fakeSink { return &fakeSink{idle: make(chan struct{}, 8)} }

func (f *fakeSink) Recording() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "recording")
}

func (f *fakeSink) Transcribing() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, "transcribing")
}

func (f *fakeSink) Idle(preview string) {
	f.mu.Lock()
	f.events = append(f.events, "idle")
	f.previews = append(f.previews, preview)
	f.mu.Unlock()
	f.idle <- struct{}{}
}

func (f *fakeSink) waitIdle(t *testing.T) {
	t.Helper()
	select {
	case <-f.idle:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for idle")
	}
}

func testConfig() Config {
	return Config{
		SampleRate:   16000,
		MinDuration:  300 * time.Millisecond,
		TypingDelay:  10 * time.Millisecond,
		PrependSpace: true,
	}
}

func newService(rec Recorder, stt Transcriber, out Injector, sink StatusSink) *Service {
	return New(slog.New(slog.DiscardHandler), testConfig(), rec, stt, out, sink)
}

func TestDictationRoundTrip(t *testing.T) {
	rec := &fakeRecorder{samples: make([]float32, 16000)} // 1s
	eng := &fakeEngine{text: "hello world"}
	inj := &fakeInjector{}
	sink := newFakeSink()
	s := newService(rec, eng, inj, sink)

	s.OnActivate()
	if got := s.State(); got != StateRecording {
		t.Fatalf("state after activate = %v, want recording", got)
	}
	s.OnDeactivate()
	sink.waitIdle(t)

	if got := s.State(); got != StateIdle {
		t.Fatalf("state after finish = %v, want idle", got)
	}
	if len(inj.texts) != 1 || inj.texts[0] != "hello world" {
		t.Fatalf("injected %v, want [hello world]", inj.texts)
	}
	if !inj.opts[0].LeadingSpace {
		t.Error("LeadingSpace not propagated")
	}
	if inj.opts[0].KeyDelay != 10*time.Millisecond {
		t.Errorf("KeyDelay = %v, want 10ms", inj.opts[0].KeyDelay)
	}
	if sink.previews[len(sink.previews)-1] != "hello world" {
		t.Errorf("idle preview = %q", sink.previews[len(sink.previews)-1])
	}
}

func TestShortTapDiscarded(t *testing.T) {
	// 0.1s of audio at 16 kHz, below the 300ms minimum.
	rec := &fakeRecorder{samples: make([]float32, 1600)}
	eng := &fakeEngine{text: "should not run"}
	inj := &fakeInjector{}
	sink := newFakeSink()
	s := newService(rec, eng, inj, sink)

	s.OnActivate()
	s.OnDeactivate()
	sink.waitIdle(t)

	if eng.callCount() != 0 {
		t.Errorf("engine called %d times on short tap, want 0", eng.callCount())
	}
	if len(inj.texts) != 0 {
		t.Errorf("injected %v on short tap, want nothing", inj.texts)
	}
	if got := s.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
}

func TestActivateIgnoredWhileTranscribing(t *testing.T) {
	rec := &fakeRecorder{samples: make([]float32, 16000)}
	eng := &fakeEngine{text: "x", block: make(chan struct{}), started: make(chan struct{}, 1)}
	inj := &fakeInjector{}
	sink := newFakeSink()
	s := newService(rec, eng, inj, sink)

	s.OnActivate()
	s.OnDeactivate()
	<-eng.started

	// A press while the previous utterance is in flight must not start
	// a new recording.
	s.OnActivate()
	if rec.starts != 1 {
		t.Fatalf("recorder started %d times, want 1", rec.starts)
	}
	if got := s.State(); got != StateTranscribing {
		t.Fatalf("state = %v, want transcribing", got)
	}

	close(eng.block)
	sink.waitIdle(t)

	// Once idle again a new session may begin.
	s.OnActivate()
	if rec.starts != 2 {
		t.Fatalf("recorder started %d times after idle, want 2", rec.starts)
	}
}

func TestDeactivateIgnoredWhenNotRecording(t *testing.T) {
	rec := &fakeRecorder{}
	sink := newFakeSink()
	s := newService(rec, &fakeEngine{}, &fakeInjector{}, sink)

	s.OnDeactivate()
	if rec.stops != 0 {
		t.Errorf("recorder stopped %d times, want 0", rec.stops)
	}
	if len(sink.events) != 0 {
		t.Errorf("sink events = %v, want none", sink.events)
	}
}

func TestRecorderStartFailureStaysIdle(t *testing.T) {
	rec := &fakeRecorder{startErr: errors.New("no device")}
	sink := newFakeSink()
	s := newService(rec, &fakeEngine{}, &fakeInjector{}, sink)

	s.OnActivate()
	if got := s.State(); got != StateIdle {
		t.Fatalf("state = %v, want idle", got)
	}
	if len(sink.events) != 0 {
		t.Errorf("sink events = %v, want none", sink.events)
	}
}

func TestTranscriptionErrorReturnsToIdle(t *testing.T) {
	rec := &fakeRecorder{samples: make([]float32, 16000)}
	eng := &fakeEngine{err: errors.New("api down")}
	inj := &fakeInjector{}
	sink := newFakeSink()
	s := newService(rec, eng, inj, sink)

	s.OnActivate()
	s.OnDeactivate()
	sink.waitIdle(t)

	if len(inj.texts) != 0 {
		t.Errorf("injected %v after engine error, want nothing", inj.texts)
	}
	if got := s.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
}

func TestEmptyTranscriptSkipsInjection(t *testing.T) {
	rec := &fakeRecorder{samples: make([]float32, 16000)}
	eng := &fakeEngine{text: ""}
	inj := &fakeInjector{}
	sink := newFakeSink()
	s := newService(rec, eng, inj, sink)

	s.OnActivate()
	s.OnDeactivate()
	sink.waitIdle(t)

	if len(inj.texts) != 0 {
		t.Errorf("injected %v for empty transcript, want nothing", inj.texts)
	}
	if sink.previews[len(sink.previews)-1] != "" {
		t.Errorf("preview = %q, want empty", sink.previews[0])
	}
}

// stateReadingSink reads the service state from inside every callback,
// which deadlocks if a sink call is ever made while the state mutex is
// held.
type stateReadingSink struct {
	svc  *Service
	seen []State
	idle chan struct{}
}

func (f *stateReadingSink) Recording() { f.seen = append(f.seen, f.svc.State()) }

func (f *stateReadingSink) Transcribing() { f.seen = append(f.seen, f.svc.State()) }

func (f *stateReadingSink) Idle(string) {
	f.seen = append(f.seen, f.svc.State())
	f.idle <- struct{}{}
}

func TestSinkMayReadStateFromCallbacks(t *testing.T) {
	rec := &fakeRecorder{samples: make([]float32, 16000)}
	sink := &stateReadingSink{idle: make(chan struct{}, 1)}
	s := newService(rec, &fakeEngine{text: "ok"}, &fakeInjector{}, sink)
	sink.svc = s

	s.OnActivate()
	s.OnDeactivate()
	select {
	case <-sink.idle:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for idle, sink callback likely deadlocked")
	}

	want := []State{StateRecording, StateTranscribing, StateIdle}
	if len(sink.seen) != len(want) {
		t.Fatalf("states seen = %v, want %v", sink.seen, want)
	}
	for i := range want {
		if sink.seen[i] != want[i] {
			t.Errorf("callback %d saw state %v, want %v", i, sink.seen[i], want[i])
		}
	}
}

func TestSinkEventOrder(t *testing.T) {
	rec := &fakeRecorder{samples: make([]float32, 16000)}
	sink := newFakeSink()
	s := newService(rec, &fakeEngine{text: "ok"}, &fakeInjector{}, sink)

	s.OnActivate()
	s.OnDeactivate()
	sink.waitIdle(t)

	want := []string{"recording", "transcribing", "idle"}
	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != len(want) {
		t.Fatalf("events = %v, want %v", sink.events, want)
	}
	for i := range want {
		if sink.events[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, sink.events[i], want[i])
		}
	}
}
