// Package pipeline turns a photograph of an appliance panel into an ON/OFF
// decision.
//
// The stages run in a fixed order:
//
//  1. Median denoise (device color)
//  2. Conversion to hue/saturation/value
//  3. Two hue range masks, one each side of the red hue wrap
//  4. Saturating union of the masks
//  5. Gaussian smoothing of the union
//  6. Reduction to intensity
//  7. Circle detection
//  8. Classification: any circle means ON
//
// Every stage produces a new buffer. An optional Observer sees each
// intermediate image; when it is nil no preview images are rendered and
// circles are not drawn.
package pipeline

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/ironsheep/ovenstate/internal/config"
	"github.com/ironsheep/ovenstate/internal/detection"
	"github.com/ironsheep/ovenstate/internal/imaging"
)

// Result is the outcome of one run.
type Result struct {
	// State is On or Off; a run that cannot decide returns an error instead.
	State State `json:"state"`

	// Message is the report line, e.g. "Oven is OFF".
	Message string `json:"message"`

	// Circles are the detected candidates in the coordinates of the input
	// image, after undoing any ROI crop.
	Circles detection.Circles `json:"circles"`
}

// Pipeline runs the detection stages with a fixed configuration. A Pipeline
// holds no per-run state and may be used from several goroutines.
type Pipeline struct {
	cfg      config.Config
	detector detection.Detector
	logger   *slog.Logger
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithDetector replaces the circle detector.
func WithDetector(d detection.Detector) Option {
	return func(p *Pipeline) { p.detector = d }
}

// WithLogger sets the logger used for stage timing.
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New validates cfg and returns a pipeline using it.
func New(cfg config.Config, opts ...Option) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Pipeline{
		cfg:      cfg,
		detector: detection.NewDetector(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Config returns the configuration the pipeline was built with.
func (p *Pipeline) Config() config.Config { return p.cfg }

// RunFile loads the image at path and runs the pipeline on it.
func (p *Pipeline) RunFile(path string, obs Observer) (*Result, error) {
	src, err := imaging.LoadRGB(path)
	if err != nil {
		return nil, err
	}
	return p.Run(src, obs)
}

// Run classifies src.
//
// Any failure aborts the run; no partial result is returned and an error is
// never reported as Off.
func (p *Pipeline) Run(src imaging.RGB, obs Observer) (*Result, error) {
	if src.Empty() {
		return nil, fmt.Errorf("pipeline: input: %w", imaging.ErrEmptyImage)
	}
	started := time.Now()

	work := src
	var offset image.Point
	if roi := p.cfg.ROI; roi != nil {
		cropped, err := imaging.Crop(src, *roi)
		if err != nil {
			return nil, &config.Error{Field: "roi", Value: config.FormatRegion(*roi), Reason: err.Error()}
		}
		work, offset = cropped, roi.Offset()
	}

	var denoised imaging.RGB
	if err := p.stage(StageDenoised, func() (err error) {
		denoised, err = imaging.MedianBlur(work, p.cfg.DenoiseKernel)
		return err
	}); err != nil {
		return nil, err
	}
	if err := emit(obs, StageDenoised, func() image.Image { return denoised.Image() }); err != nil {
		return nil, err
	}

	var hsv imaging.HSV
	_ = p.stage(StageHSV, func() error {
		hsv = imaging.ToHSV(denoised)
		return nil
	})
	if err := emit(obs, StageHSV, func() image.Image { return hsv.Image() }); err != nil {
		return nil, err
	}

	var low, high imaging.HSV
	_ = p.stage(StageLowRed, func() error {
		low = imaging.MaskRange(hsv, p.cfg.LowRed)
		return nil
	})
	if err := emit(obs, StageLowRed, func() image.Image { return low.Image() }); err != nil {
		return nil, err
	}
	_ = p.stage(StageHighRed, func() error {
		high = imaging.MaskRange(hsv, p.cfg.HighRed)
		return nil
	})
	if err := emit(obs, StageHighRed, func() image.Image { return high.Image() }); err != nil {
		return nil, err
	}

	var combined imaging.HSV
	if err := p.stage(StageCombined, func() (err error) {
		combined, err = imaging.CombineSaturating(low, high)
		return err
	}); err != nil {
		return nil, err
	}
	if err := emit(obs, StageCombined, func() image.Image { return combined.Image() }); err != nil {
		return nil, err
	}

	var smoothed imaging.HSV
	if err := p.stage(StageSmoothed, func() (err error) {
		smoothed, err = imaging.GaussianBlur(combined, p.cfg.SmoothKernel, p.cfg.SmoothSigma)
		return err
	}); err != nil {
		return nil, err
	}
	if err := emit(obs, StageSmoothed, func() image.Image { return smoothed.Image() }); err != nil {
		return nil, err
	}

	var gray imaging.Gray
	_ = p.stage(StageGray, func() error {
		gray = imaging.ReduceToGray(smoothed)
		return nil
	})
	if err := emit(obs, StageGray, func() image.Image { return gray.Image() }); err != nil {
		return nil, err
	}

	detectStarted := time.Now()
	circles, err := p.detector.DetectCircles(gray, p.cfg.Hough)
	if err != nil {
		return nil, fmt.Errorf("pipeline: detect circles: %w", err)
	}
	p.logger.Debug("pipeline: stage complete",
		"stage", "detect_circles",
		"circles", len(circles),
		"elapsed", time.Since(detectStarted))

	if offset != (image.Point{}) && circles != nil {
		shifted := make(detection.Circles, len(circles))
		for i, c := range circles {
			shifted[i] = c.Translate(float64(offset.X), float64(offset.Y))
		}
		circles = shifted
	}

	state := Classify(circles)

	if obs != nil && !circles.Empty() {
		annotated, err := detection.Annotate(src, circles, detection.OutlineColor, detection.OutlineThickness)
		if err != nil {
			return nil, fmt.Errorf("pipeline: %s: %w", StageAnnotated, err)
		}
		if err := emit(obs, StageAnnotated, func() image.Image { return annotated.Image() }); err != nil {
			return nil, err
		}
	}

	p.logger.Info("pipeline: classification complete",
		"state", state.String(),
		"circles", len(circles),
		"elapsed", time.Since(started))

	return &Result{
		State:   state,
		Message: state.Message(),
		Circles: circles,
	}, nil
}

// stage runs fn, logs its duration and wraps any error with the stage name.
func (p *Pipeline) stage(stage Stage, fn func() error) error {
	started := time.Now()
	if err := fn(); err != nil {
		return fmt.Errorf("pipeline: %s: %w", stage, err)
	}
	p.logger.Debug("pipeline: stage complete", "stage", string(stage), "elapsed", time.Since(started))
	return nil
}

// emit hands the rendered stage image to obs. render is only called when an
// observer is present.
func emit(obs Observer, stage Stage, render func() image.Image) error {
	if obs == nil {
		return nil
	}
	if err := obs.Observe(stage, render()); err != nil {
		return fmt.Errorf("pipeline: observer %s: %w", stage, err)
	}
	return nil
}
