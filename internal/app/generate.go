package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/ayusman/voxcraft/internal/generator"
	"github.com/ayusman/voxcraft/internal/store"
)

// GenerateResult reports the outcome of a generation request. A failed
// generation leaves the scene untouched and is not an error for the caller.
type GenerateResult struct {
	Applied    bool          `json:"applied"`
	Name       string        `json:"name,omitempty"`
	VoxelCount int           `json:"voxel_count"`
	Error      string        `json:"error,omitempty"`
	Duration   time.Duration `json:"duration"`
}

// Generate asks the generator for a structure and, on success, replaces the
// scene with it. Only one generation runs at a time; a concurrent call
// returns ErrBusy. Placement keeps working while the model is thinking.
func (a *App) Generate(ctx context.Context, prompt string) (GenerateResult, error) {
	if a.config.Generator == nil {
		return GenerateResult{}, ErrGenerationDisabled
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return GenerateResult{}, generator.ErrEmptyPrompt
	}
	if !a.generating.CompareAndSwap(false, true) {
		return GenerateResult{}, ErrBusy
	}
	defer a.generating.Store(false)

	ctx, cancel := context.WithTimeout(ctx, a.config.GenerateTimeout)
	defer cancel()

	span := sentry.StartSpan(ctx, "app.Generate")
	defer span.Finish()
	ctx = span.Context()

	start := time.Now()
	st, err := a.config.Generator.Generate(ctx, prompt)
	elapsed := time.Since(start)

	rec := &store.Generation{Prompt: prompt, Duration: elapsed}
	res := GenerateResult{Duration: elapsed}

	if err != nil {
		a.log.Warn("generation failed",
			zap.String("prompt", prompt),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		a.reportFailure(prompt, err)

		rec.Error = err.Error()
		res.Error = err.Error()
		a.recordGeneration(rec, "failure")
		return res, nil
	}

	a.ReplaceAll(st)
	a.log.Info("structure generated",
		zap.String("prompt", prompt),
		zap.String("name", st.Name),
		zap.Int("voxels", len(st.Voxels)),
		zap.Duration("elapsed", elapsed))

	rec.Name, rec.VoxelCount = st.Name, len(st.Voxels)
	res.Applied, res.Name, res.VoxelCount = true, st.Name, len(st.Voxels)
	a.recordGeneration(rec, "success")
	return res, nil
}

// Generations returns the most recent generation records.
func (a *App) Generations(limit int) ([]*store.Generation, error) {
	if a.config.Store == nil {
		return nil, ErrNoStore
	}
	return a.config.Store.Generations().List(limit)
}

func (a *App) recordGeneration(rec *store.Generation, status string) {
	if a.metrics != nil {
		a.metrics.Generation(status, rec.Duration)
	}
	if a.config.Store == nil {
		return
	}
	if err := a.config.Store.Generations().Append(rec); err != nil {
		a.log.Warn("record generation", zap.Error(err))
	}
}

func (a *App) reportFailure(prompt string, err error) {
	if errors.Is(err, context.Canceled) {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("component", "generator")
		scope.SetContext("generation", sentry.Context{"prompt": prompt})
	})
	hub.CaptureException(err)
}
