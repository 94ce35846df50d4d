// Package config holds the tunable constants of the detection pipeline and
// loads overrides from the environment.
//
// Every value has a default matching the reference indicator setup, so an
// empty environment yields a working configuration. Overrides come from
// OVENSTATE_* variables, optionally seeded from a .env file. Malformed values
// are reported as *Error rather than silently replaced by defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/ovenstate/internal/detection"
	"github.com/ironsheep/ovenstate/internal/imaging"
)

// Environment variable names.
const (
	EnvLowRed         = "OVENSTATE_LOW_RED"
	EnvHighRed        = "OVENSTATE_HIGH_RED"
	EnvDenoiseKernel  = "OVENSTATE_DENOISE_KERNEL"
	EnvSmoothKernel   = "OVENSTATE_SMOOTH_KERNEL"
	EnvSmoothSigma    = "OVENSTATE_SMOOTH_SIGMA"
	EnvDP             = "OVENSTATE_DP"
	EnvMinDist        = "OVENSTATE_MIN_DIST"
	EnvCannyHigh      = "OVENSTATE_CANNY_HIGH"
	EnvAccumThreshold = "OVENSTATE_ACCUM_THRESHOLD"
	EnvMinRadius      = "OVENSTATE_MIN_RADIUS"
	EnvMaxRadius      = "OVENSTATE_MAX_RADIUS"
	EnvLogLevel       = "OVENSTATE_LOG_LEVEL"
)

// Error reports a configuration value that cannot be used.
type Error struct {
	Field  string
	Value  string
	Reason string
}

func (e *Error) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: %s=%q: %s", e.Field, e.Value, e.Reason)
}

// Config is the full set of pipeline parameters.
type Config struct {
	// LowRed and HighRed capture red on both sides of the hue wrap.
	LowRed  imaging.HueRange `json:"low_red"`
	HighRed imaging.HueRange `json:"high_red"`

	// DenoiseKernel is the median filter window size (odd).
	DenoiseKernel int `json:"denoise_kernel"`

	// SmoothKernel and SmoothSigma configure the Gaussian blur of the mask.
	SmoothKernel int     `json:"smooth_kernel"`
	SmoothSigma  float64 `json:"smooth_sigma"`

	// Hough configures circle detection.
	Hough detection.HoughParams `json:"hough"`

	// ROI restricts detection to part of the image. Nil means the whole image.
	ROI *imaging.Region `json:"roi,omitempty"`

	// LogLevel is the minimum level written to the log.
	LogLevel slog.Level `json:"-"`
}

// Default returns the reference configuration.
func Default() Config {
	return Config{
		LowRed: imaging.HueRange{
			Lower: imaging.HSVTriple{H: 0, S: 100, V: 100},
			Upper: imaging.HSVTriple{H: 10, S: 255, V: 255},
		},
		HighRed: imaging.HueRange{
			Lower: imaging.HSVTriple{H: 160, S: 100, V: 100},
			Upper: imaging.HSVTriple{H: 179, S: 255, V: 255},
		},
		DenoiseKernel: 3,
		SmoothKernel:  9,
		SmoothSigma:   2.0,
		Hough:         detection.DefaultHoughParams(),
		LogLevel:      slog.LevelWarn,
	}
}

// Load returns Default overridden by the environment.
//
// envFiles are read first with godotenv; they never override variables that
// are already set. With no envFiles, ".env" in the working directory is used
// if it exists. The result is validated.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, &Error{Field: ".env", Reason: err.Error()}
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, &Error{Field: strings.Join(envFiles, ","), Reason: err.Error()}
	}

	cfg := Default()
	var err error

	if cfg.LowRed, err = getEnvAsHueRange(EnvLowRed, cfg.LowRed); err != nil {
		return Config{}, err
	}
	if cfg.HighRed, err = getEnvAsHueRange(EnvHighRed, cfg.HighRed); err != nil {
		return Config{}, err
	}
	if cfg.DenoiseKernel, err = getEnvAsInt(EnvDenoiseKernel, cfg.DenoiseKernel); err != nil {
		return Config{}, err
	}
	if cfg.SmoothKernel, err = getEnvAsInt(EnvSmoothKernel, cfg.SmoothKernel); err != nil {
		return Config{}, err
	}
	if cfg.SmoothSigma, err = getEnvAsFloat(EnvSmoothSigma, cfg.SmoothSigma); err != nil {
		return Config{}, err
	}
	if cfg.Hough.DP, err = getEnvAsFloat(EnvDP, cfg.Hough.DP); err != nil {
		return Config{}, err
	}
	if cfg.Hough.MinDist, err = getEnvAsFloat(EnvMinDist, cfg.Hough.MinDist); err != nil {
		return Config{}, err
	}
	if cfg.Hough.CannyHigh, err = getEnvAsFloat(EnvCannyHigh, cfg.Hough.CannyHigh); err != nil {
		return Config{}, err
	}
	if cfg.Hough.AccumThreshold, err = getEnvAsInt(EnvAccumThreshold, cfg.Hough.AccumThreshold); err != nil {
		return Config{}, err
	}
	if cfg.Hough.MinRadius, err = getEnvAsInt(EnvMinRadius, cfg.Hough.MinRadius); err != nil {
		return Config{}, err
	}
	if cfg.Hough.MaxRadius, err = getEnvAsInt(EnvMaxRadius, cfg.Hough.MaxRadius); err != nil {
		return Config{}, err
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, &Error{Field: EnvLogLevel, Value: v, Reason: "expected debug, info, warn or error"}
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every parameter for values the pipeline cannot use.
func (c Config) Validate() error {
	if err := c.LowRed.Validate(); err != nil {
		return &Error{Field: "low_red", Reason: err.Error()}
	}
	if err := c.HighRed.Validate(); err != nil {
		return &Error{Field: "high_red", Reason: err.Error()}
	}
	if c.DenoiseKernel <= 0 || c.DenoiseKernel%2 == 0 {
		return &Error{Field: "denoise_kernel", Value: strconv.Itoa(c.DenoiseKernel), Reason: "must be a positive odd number"}
	}
	if c.SmoothKernel <= 0 || c.SmoothKernel%2 == 0 {
		return &Error{Field: "smooth_kernel", Value: strconv.Itoa(c.SmoothKernel), Reason: "must be a positive odd number"}
	}
	if !(c.SmoothSigma > 0) || math.IsInf(c.SmoothSigma, 0) {
		return &Error{Field: "smooth_sigma", Value: strconv.FormatFloat(c.SmoothSigma, 'g', -1, 64), Reason: "must be positive"}
	}
	if err := c.Hough.Validate(); err != nil {
		return &Error{Field: "hough", Reason: err.Error()}
	}
	if c.ROI != nil && (c.ROI.X1 < 0 || c.ROI.Y1 < 0 || c.ROI.X1 >= c.ROI.X2 || c.ROI.Y1 >= c.ROI.Y2) {
		return &Error{Field: "roi", Value: FormatRegion(*c.ROI), Reason: "need 0 <= x1 < x2 and 0 <= y1 < y2"}
	}
	return nil
}

// ParseRegion parses "x1,y1,x2,y2".
func ParseRegion(s string) (imaging.Region, error) {
	v, err := parseInts(s, 4)
	if err != nil {
		return imaging.Region{}, &Error{Field: "roi", Value: s, Reason: err.Error()}
	}
	r := imaging.Region{X1: v[0], Y1: v[1], X2: v[2], Y2: v[3]}
	if r.X1 < 0 || r.Y1 < 0 || r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return imaging.Region{}, &Error{Field: "roi", Value: s, Reason: "need 0 <= x1 < x2 and 0 <= y1 < y2"}
	}
	return r, nil
}

// FormatRegion is the inverse of ParseRegion.
func FormatRegion(r imaging.Region) string {
	return fmt.Sprintf("%d,%d,%d,%d", r.X1, r.Y1, r.X2, r.Y2)
}

// ParseHueRange parses "h,s,v-h,s,v" into an inclusive range.
func ParseHueRange(s string) (imaging.HueRange, error) {
	lo, hi, ok := strings.Cut(s, "-")
	if !ok {
		return imaging.HueRange{}, fmt.Errorf("expected h,s,v-h,s,v")
	}
	lower, err := parseTriple(lo)
	if err != nil {
		return imaging.HueRange{}, err
	}
	upper, err := parseTriple(hi)
	if err != nil {
		return imaging.HueRange{}, err
	}
	r := imaging.HueRange{Lower: lower, Upper: upper}
	if err := r.Validate(); err != nil {
		return imaging.HueRange{}, err
	}
	return r, nil
}

func parseTriple(s string) (imaging.HSVTriple, error) {
	v, err := parseInts(s, 3)
	if err != nil {
		return imaging.HSVTriple{}, err
	}
	for _, n := range v {
		if n < 0 || n > 255 {
			return imaging.HSVTriple{}, fmt.Errorf("component %d outside 0-255", n)
		}
	}
	return imaging.HSVTriple{H: uint8(v[0]), S: uint8(v[1]), V: uint8(v[2])}, nil
}

func parseInts(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("expected %d comma-separated integers", n)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer", p)
		}
		out[i] = v
	}
	return out, nil
}

func getEnvAsInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(value)
	if err != nil {
		return 0, &Error{Field: key, Value: value, Reason: "not an integer"}
	}
	return v, nil
}

func getEnvAsFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &Error{Field: key, Value: value, Reason: "not a number"}
	}
	return v, nil
}

func getEnvAsHueRange(key string, defaultValue imaging.HueRange) (imaging.HueRange, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	r, err := ParseHueRange(value)
	if err != nil {
		return imaging.HueRange{}, &Error{Field: key, Value: value, Reason: err.Error()}
	}
	return r, nil
}
