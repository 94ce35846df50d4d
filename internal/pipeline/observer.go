package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"github.com/disintegration/imaging"
)

// Stage names an intermediate result of the pipeline. The value doubles as
// the base file name used by DirSink.
type Stage string

const (
	StageDenoised  Stage = "blur_image"
	StageHSV       Stage = "hsv_image"
	StageLowRed    Stage = "lower_red_hue"
	StageHighRed   Stage = "higher_red_hue"
	StageCombined  Stage = "full_image"
	StageSmoothed  Stage = "full_image_blur"
	StageGray      Stage = "full_image_gray"
	StageAnnotated Stage = "original_image_with_circles"
)

// Stages lists every stage in the order the pipeline emits them.
// StageAnnotated is only emitted when circles were found.
func Stages() []Stage {
	return []Stage{
		StageDenoised, StageHSV, StageLowRed, StageHighRed,
		StageCombined, StageSmoothed, StageGray, StageAnnotated,
	}
}

// ParseStage returns the Stage called name.
func ParseStage(name string) (Stage, error) {
	for _, s := range Stages() {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown stage: %s", name)
}

// Observer receives intermediate images for inspection.
//
// The pipeline calls Observe once per stage, in order, with an image it no
// longer uses. A returned error aborts the run.
type Observer interface {
	Observe(stage Stage, img image.Image) error
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(stage Stage, img image.Image) error

// Observe calls f.
func (f ObserverFunc) Observe(stage Stage, img image.Image) error { return f(stage, img) }

// DirSink writes every observed stage as <dir>/<stage>.jpg.
type DirSink struct {
	dir string
}

// NewDirSink creates dir if needed and returns a sink writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Path returns the file written for stage.
func (s *DirSink) Path(stage Stage) string {
	return filepath.Join(s.dir, string(stage)+".jpg")
}

// Observe implements Observer.
func (s *DirSink) Observe(stage Stage, img image.Image) error {
	if err := imaging.Save(img, s.Path(stage), imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to write %s: %w", stage, err)
	}
	return nil
}

// MemorySink keeps the observed images in memory. It is safe for
// concurrent use.
type MemorySink struct {
	mu     sync.Mutex
	images map[Stage]image.Image
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{images: make(map[Stage]image.Image)}
}

// Observe implements Observer.
func (s *MemorySink) Observe(stage Stage, img image.Image) error {
	s.mu.Lock()
	s.images[stage] = img
	s.mu.Unlock()
	return nil
}

// Image returns the image recorded for stage.
func (s *MemorySink) Image(stage Stage) (image.Image, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	img, ok := s.images[stage]
	return img, ok
}
