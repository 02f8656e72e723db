package app

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/detector"
)

// maxReadFailures is how many consecutive failed reads end a tracking run.
const maxReadFailures = 30

// SetCameraActive starts or stops hand tracking. Starting opens the camera;
// stopping cancels the tracker and waits for it to release the camera.
func (a *App) SetCameraActive(active bool) error {
	a.camMu.Lock()
	defer a.camMu.Unlock()

	running := a.trackDone != nil
	if running && !a.tracking.Load() {
		// The tracker gave up on its own and is on its way out.
		<-a.trackDone
		a.trackCancel()
		a.trackCancel, a.trackDone = nil, nil
		running = false
	}

	switch {
	case active && !running:
		return a.startTracking()
	case !active && running:
		a.trackCancel()
		<-a.trackDone
		a.trackCancel, a.trackDone = nil, nil
		a.log.Info("hand tracking stopped")
	}
	return nil
}

// CameraActive reports whether the tracker is running.
func (a *App) CameraActive() bool {
	return a.tracking.Load()
}

// Pose returns the most recently published hand pose, or nil.
func (a *App) Pose() *detector.HandLandmarks {
	return a.pose.Load()
}

// Preview returns the latest annotated camera frame as JPEG, or nil.
func (a *App) Preview() []byte {
	if p := a.preview.Load(); p != nil {
		return *p
	}
	return nil
}

func (a *App) startTracking() error {
	if a.config.Camera == nil || a.config.Detector == nil {
		return fmt.Errorf("%w: no camera or detector configured", ErrCameraUnavailable)
	}
	if err := a.config.Camera.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrCameraUnavailable, err)
	}
	a.config.Camera.SetFPS(a.config.TrackFPS)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	a.trackCancel, a.trackDone = cancel, done
	a.tracking.Store(true)

	go a.track(ctx, done)
	a.log.Info("hand tracking started", zap.Int("fps", a.config.TrackFPS))
	return nil
}

func (a *App) track(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		a.pose.Store(nil)
		a.preview.Store(nil)
		a.tracking.Store(false)
	}()
	defer func() {
		if err := a.config.Camera.Close(); err != nil {
			a.log.Warn("close camera", zap.Error(err))
		}
	}()
	defer sentry.Recover()

	ticker := time.NewTicker(time.Second / time.Duration(a.config.TrackFPS))
	defer ticker.Stop()

	failures := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if err := a.trackOnce(); err != nil {
			failures++
			if failures >= maxReadFailures {
				a.log.Error("camera stopped delivering frames", zap.Error(err))
				return
			}
			continue
		}
		failures = 0
	}
}

// trackOnce reads one frame, publishes the detected pose and the annotated
// preview. Only camera errors are returned; detector errors clear the pose.
func (a *App) trackOnce() error {
	frame, err := a.config.Camera.ReadFrame()
	if err != nil {
		return err
	}
	defer frame.Close()

	hands, err := a.config.Detector.Detect(frame)
	if err != nil {
		a.log.Debug("hand detection failed", zap.Error(err))
	}
	hand := detector.First(hands)
	a.pose.Store(hand)

	detector.DrawLandmarks(frame, hand)
	if jpg, err := detector.EncodeJPEG(frame); err == nil {
		a.preview.Store(&jpg)
	}
	return nil
}
