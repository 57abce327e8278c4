// holdtype is a push-to-talk dictation tool: hold a hotkey, speak, release,
// and the transcript is typed at the cursor.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"github.com/holdtype/holdtype/audiocapture"
	"github.com/holdtype/holdtype/config"
	"github.com/holdtype/holdtype/hotkey"
	"github.com/holdtype/holdtype/inject"
	"github.com/holdtype/holdtype/internal/app"
	"github.com/holdtype/holdtype/stt"
	"github.com/holdtype/holdtype/tray"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	var (
		configPath  = flag.String("config", "", "config file path")
		hotkeySpec  = flag.String("hotkey", "", "override hotkey chord, e.g. ctrl+shift")
		model       = flag.String("model", "", "override whisper model size")
		device      = flag.String("device", "", "capture device index, or auto")
		listDevices = flag.Bool("list-devices", false, "list capture devices and exit")
		noTray      = flag.Bool("no-tray", false, "run without a tray icon")
		verbose     = flag.Bool("verbose", false, "debug logging")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})))

	if *showVersion {
		fmt.Printf("holdtype %s (%s, %s)\n", version, commit, date)
		return
	}

	if *listDevices {
		if err := printDevices(); err != nil {
			slog.Error("list devices", "error", err)
			os.Exit(1)
		}
		return
	}

	path := *configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			slog.Error("resolve config path", "error", err)
			os.Exit(1)
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		slog.Error("load config", "path", path, "error", err)
		os.Exit(1)
	}
	if *hotkeySpec != "" {
		cfg.Hotkey = *hotkeySpec
	}
	if *model != "" {
		cfg.Model = *model
	}
	if *device != "" {
		cfg.AudioDevice = *device
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, *noTray); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, noTray bool) error {
	provider, err := buildProvider(cfg)
	if err != nil {
		return err
	}
	engine := stt.NewEngine(provider, cfg.Language, cfg.SampleRate)
	defer engine.Close()

	var rec app.Recorder
	recorder, err := audiocapture.New(audiocapture.Config{
		Device:     cfg.AudioDevice,
		TargetRate: cfg.SampleRate,
	})
	if err != nil {
		// Startup continues; dictation attempts will report the failure.
		slog.Error("open capture device", "error", err)
		rec = noopRecorder{}
	} else {
		defer recorder.Close()
		rec = recorder
	}

	injector := inject.New(slog.Default())

	var sink app.StatusSink
	var icon *tray.Icon
	if noTray {
		sink = &tray.LogSink{Log: slog.Default()}
	} else {
		icon = tray.NewIcon()
		sink = icon
	}

	svc := app.New(slog.Default(), app.Config{
		SampleRate:   cfg.SampleRate,
		MinDuration:  cfg.MinUtterance(),
		TypingDelay:  cfg.TypingDelay(),
		PrependSpace: cfg.PrependSpace,
	}, rec, engine, injector, sink)

	listener, err := hotkey.NewListener(cfg.Hotkey, svc.OnActivate, svc.OnDeactivate)
	if err != nil {
		return fmt.Errorf("hotkey %q: %w", cfg.Hotkey, err)
	}
	if err := listener.Start(); err != nil {
		// Keyboard access may come back (udev rule, group change); the
		// process stays up so the tray can show the failure state.
		slog.Error("start hotkey listener", "error", err)
	}
	defer listener.Stop()

	slog.Info("ready",
		"hotkey", cfg.Hotkey,
		"engine", provider.Name(),
		"model", cfg.Model,
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	if noTray {
		<-sigCh
		slog.Info("shutting down")
		return nil
	}

	// The tray owns the main thread; a signal tears it down.
	go func() {
		<-sigCh
		slog.Info("shutting down")
		tray.Quit()
	}()
	icon.Run(func() {})
	return nil
}

func buildProvider(cfg *config.Config) (stt.Provider, error) {
	switch cfg.Engine {
	case config.EngineWhisperAPI:
		return stt.NewWhisperAPI(stt.WhisperAPIConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.APIBaseURL,
		})
	default:
		return stt.NewWhisperLocal(stt.WhisperLocalConfig{
			ModelSize: cfg.Model,
		})
	}
}

func printDevices() error {
	devices, err := audiocapture.ListDevices()
	if err != nil {
		return err
	}
	for _, d := range devices {
		marker := " "
		if d.IsDefault {
			marker = "*"
		}
		fmt.Printf("%s %d: %s\n", marker, d.Index, d.Name)
	}
	return nil
}

// noopRecorder stands in when no capture device could be opened.
type noopRecorder struct{}

func (noopRecorder) Start() error { return fmt.Errorf("no capture device available") }

func (noopRecorder) Stop() []float32 { return nil }
