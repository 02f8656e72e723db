package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/app"
	"github.com/ayusman/voxcraft/internal/capture"
	"github.com/ayusman/voxcraft/internal/config"
	"github.com/ayusman/voxcraft/internal/detector"
	"github.com/ayusman/voxcraft/internal/generator"
	"github.com/ayusman/voxcraft/internal/logging"
	"github.com/ayusman/voxcraft/internal/metrics"
	"github.com/ayusman/voxcraft/internal/server"
	"github.com/ayusman/voxcraft/internal/store"
	"github.com/ayusman/voxcraft/internal/tray"
)

const shutdownTimeout = 5 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "voxcraft: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(config.Options{
		File:     *configPath,
		EnvFiles: envFiles(),
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("voxcraft starting", zap.Strings("config_sources", cfg.Sources))

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			log.Warn("sentry disabled", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Data.DBPath), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(cfg.Data.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	collector := metrics.New()

	a := app.New(app.Config{
		Camera: capture.NewCamera(capture.Options{
			DeviceID: cfg.Camera.DeviceID,
			Width:    cfg.Camera.Width,
			Height:   cfg.Camera.Height,
			FPS:      cfg.Camera.FPS,
			Mirror:   cfg.Camera.Mirror,
		}),
		Detector:        newDetector(cfg, log),
		Generator:       newGenerator(cfg, log),
		Store:           st,
		Metrics:         collector,
		Logger:          log,
		RenderFPS:       cfg.Render.FPS,
		TrackFPS:        cfg.Camera.FPS,
		Cooldown:        cfg.Render.Cooldown,
		GenerateTimeout: cfg.Gemini.Timeout,
	})
	defer a.Close()

	if cfg.Camera.ActiveOnStart {
		if err := a.SetCameraActive(true); err != nil {
			log.Warn("starting without hand tracking", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go a.Run(ctx)

	webDir := cfg.Server.StaticDir
	if webDir == "" {
		webDir = findWebDir()
	}
	if webDir != "" {
		log.Info("serving static files", zap.String("dir", webDir))
	}

	httpServer := &http.Server{
		Addr: cfg.Server.Addr,
		Handler: server.New(server.Config{
			StaticDir:      webDir,
			App:            a,
			Metrics:        collector,
			Logger:         log.Named("http"),
			AllowedOrigins: cfg.Server.AllowedOrigins,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			stop()
		}
	}()

	if cfg.Tray {
		// systray owns the main thread until it quits.
		runTray(ctx, a, stop, uiURL(cfg.Server.Addr), log)
		stop()
	}
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http shutdown", zap.Error(err))
	}

	select {
	case err := <-serveErr:
		return fmt.Errorf("http server: %w", err)
	default:
		return nil
	}
}

// newDetector starts the MediaPipe detector, falling back to a detector that
// never sees a hand so the editor stays usable without Python.
func newDetector(cfg *config.Config, log *zap.Logger) detector.Detector {
	dc := detector.DefaultConfig()
	dc.MinConfidence = cfg.Detector.MinConfidence
	dc.MinTrackingConf = cfg.Detector.MinTrackingConfidence
	dc.ScriptPath = cfg.Detector.ScriptPath

	d, err := detector.NewMediaPipeDetector(dc, log.Named("mediapipe"))
	if err != nil {
		log.Warn("hand detection unavailable, gestures disabled", zap.Error(err))
		return detector.NewMockDetector()
	}
	return d
}

func newGenerator(cfg *config.Config, log *zap.Logger) generator.Generator {
	if !cfg.GenerationEnabled() {
		log.Info("GEMINI_API_KEY not set, generation disabled")
		return nil
	}
	g, err := generator.NewGemini(generator.Config{
		APIKey:  cfg.Gemini.APIKey,
		Model:   cfg.Gemini.Model,
		BaseURL: cfg.Gemini.BaseURL,
		Timeout: cfg.Gemini.Timeout,
	}, log.Named("gemini"))
	if err != nil {
		log.Warn("generation disabled", zap.Error(err))
		return nil
	}
	return g
}

func runTray(ctx context.Context, a *app.App, quit func(), url string, log *zap.Logger) {
	t := tray.New(a)
	t.OnOpen(func() {
		if err := openBrowser(url); err != nil {
			log.Warn("open browser", zap.String("url", url), zap.Error(err))
		}
	})
	t.OnQuit(quit)

	go func() {
		ticker := time.NewTicker(500 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				t.Quit()
				return
			case <-ticker.C:
				t.SetHandStatus(string(a.LastFrame().Hand.Status))
				t.Refresh()
			}
		}
	}()

	t.Run()
}

func uiURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}
	return "http://" + addr
}

func openBrowser(url string) error {
	switch runtime.GOOS {
	case "darwin":
		return exec.Command("open", url).Start()
	case "windows":
		return exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	default:
		return exec.Command("xdg-open", url).Start()
	}
}

// envFiles lists dotenv files in priority order: the working directory
// first, then ~/.voxcraft/.env.
func envFiles() []string {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".voxcraft", ".env"))
	}
	return files
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.voxcraft/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".voxcraft", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
