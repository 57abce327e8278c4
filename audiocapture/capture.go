// Package audiocapture owns the microphone input stream for push-to-talk
// recording. The device is opened once and reused across many start/stop
// cycles; samples are buffered only while the recorder is armed and are
// resampled to the target rate on Stop.
package audiocapture

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// DefaultTargetRate is the output sample rate expected by the
// transcription engines.
const DefaultTargetRate = 16000

// ErrClosed is returned by Start after Close has released the device.
var ErrClosed = errors.New("audiocapture: recorder closed")

// Config holds recorder configuration.
type Config struct {
	// Device selects the capture device: "auto" or "default" for the
	// system default, or a numeric index into ListDevices.
	Device string
	// TargetRate is the output sample rate; defaults to DefaultTargetRate.
	TargetRate int
}

// Recorder records mono float32 audio from a microphone while armed.
// Device callbacks append to the buffer under the same lock Stop takes,
// so Stop never observes a partially appended block.
type Recorder struct {
	targetRate int
	nativeRate int

	ctx *malgo.AllocatedContext
	dev *malgo.Device

	mu     sync.Mutex
	armed  bool
	closed bool
	blocks [][]float32
}

// New opens the configured capture device at its native sample rate and
// starts the stream. The stream stays open until Close; Start and Stop only
// arm and disarm buffering.
func New(cfg Config) (*Recorder, error) {
	if cfg.TargetRate == 0 {
		cfg.TargetRate = DefaultTargetRate
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		slog.Debug("miniaudio", "message", message)
	})
	if err != nil {
		return nil, fmt.Errorf("init audio context: %w", err)
	}

	r := &Recorder{targetRate: cfg.TargetRate, ctx: ctx}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceConfig.Capture.Format = malgo.FormatF32
	deviceConfig.Capture.Channels = 1
	deviceConfig.SampleRate = 0 // device native rate
	deviceConfig.PeriodSizeInMilliseconds = 100

	if id, err := resolveDevice(ctx, cfg.Device); err != nil {
		freeContext(ctx)
		return nil, err
	} else if id != nil {
		deviceConfig.Capture.DeviceID = id.Pointer()
	}

	callbacks := malgo.DeviceCallbacks{
		Data: func(_, pInput []byte, _ uint32) {
			r.ingest(decodeF32(pInput))
		},
	}

	dev, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		freeContext(ctx)
		return nil, fmt.Errorf("open capture device: %w", err)
	}
	if err := dev.Start(); err != nil {
		dev.Uninit()
		freeContext(ctx)
		return nil, fmt.Errorf("start capture device: %w", err)
	}

	r.dev = dev
	r.nativeRate = int(dev.SampleRate())
	slog.Info("microphone ready", "native_rate", r.nativeRate, "target_rate", r.targetRate)
	return r, nil
}

// Start arms the recorder, discarding any previously buffered audio.
// Calling Start while already armed is a no-op: a repeated activation edge
// must not reset the buffer mid-recording.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.armed {
		return nil
	}
	r.blocks = nil
	r.armed = true
	return nil
}

// Stop disarms the recorder and returns the captured audio resampled to the
// target rate. Calling Stop while idle returns an empty waveform.
func (r *Recorder) Stop() []float32 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = false

	if len(r.blocks) == 0 {
		return nil
	}

	total := 0
	for _, b := range r.blocks {
		total += len(b)
	}
	audio := make([]float32, 0, total)
	for _, b := range r.blocks {
		audio = append(audio, b...)
	}
	r.blocks = nil

	return Resample(audio, r.nativeRate, r.targetRate)
}

// TargetRate returns the output sample rate.
func (r *Recorder) TargetRate() int { return r.targetRate }

// Close disarms the recorder and releases the device stream. Start fails
// with ErrClosed afterwards.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.armed = false
	r.blocks = nil
	dev := r.dev
	ctx := r.ctx
	r.dev = nil
	r.ctx = nil
	r.mu.Unlock()

	if dev != nil {
		_ = dev.Stop()
		dev.Uninit()
	}
	if ctx != nil {
		freeContext(ctx)
	}
	return nil
}

// ingest appends one callback block while armed. Runs on the audio I/O
// thread.
func (r *Recorder) ingest(block []float32) {
	if len(block) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.armed {
		return
	}
	r.blocks = append(r.blocks, block)
}

// decodeF32 reinterprets little-endian float32 PCM bytes as samples.
func decodeF32(p []byte) []float32 {
	n := len(p) / 4
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
	}
	return out
}

func freeContext(ctx *malgo.AllocatedContext) {
	_ = ctx.Uninit()
	ctx.Free()
}
