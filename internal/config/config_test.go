package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/ovenstate/internal/imaging"
)

// clearEnv unsets every OVENSTATE_* variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvLowRed, EnvHighRed, EnvDenoiseKernel, EnvSmoothKernel, EnvSmoothSigma,
		EnvDP, EnvMinDist, EnvCannyHigh, EnvAccumThreshold, EnvMinRadius,
		EnvMaxRadius, EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults do not validate: %v", err)
	}
	if cfg.DenoiseKernel != 3 || cfg.SmoothKernel != 9 || cfg.SmoothSigma != 2.0 {
		t.Errorf("filters: got %d/%d/%v, want 3/9/2", cfg.DenoiseKernel, cfg.SmoothKernel, cfg.SmoothSigma)
	}
	if cfg.Hough.DP != 1.2 || cfg.Hough.MinDist != 100 {
		t.Errorf("hough: got dp %v min dist %v", cfg.Hough.DP, cfg.Hough.MinDist)
	}
	if cfg.LowRed.Upper.H != 10 || cfg.HighRed.Lower.H != 160 || cfg.HighRed.Upper.H != 179 {
		t.Errorf("hue ranges: got %+v / %+v", cfg.LowRed, cfg.HighRed)
	}
	if cfg.ROI != nil {
		t.Error("ROI should be off by default")
	}
	if cfg.LogLevel != slog.LevelWarn {
		t.Errorf("log level: got %v, want WARN", cfg.LogLevel)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DenoiseKernel != Default().DenoiseKernel {
		t.Errorf("denoise kernel: got %d", cfg.DenoiseKernel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvLowRed, "0,120,90-8,255,255")
	t.Setenv(EnvDenoiseKernel, "5")
	t.Setenv(EnvSmoothSigma, "1.5")
	t.Setenv(EnvDP, "1")
	t.Setenv(EnvAccumThreshold, "50")
	t.Setenv(EnvMaxRadius, "80")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	wantLow := imaging.HueRange{
		Lower: imaging.HSVTriple{H: 0, S: 120, V: 90},
		Upper: imaging.HSVTriple{H: 8, S: 255, V: 255},
	}
	if cfg.LowRed != wantLow {
		t.Errorf("low red: got %+v, want %+v", cfg.LowRed, wantLow)
	}
	if cfg.DenoiseKernel != 5 || cfg.SmoothSigma != 1.5 {
		t.Errorf("filters: got %d / %v", cfg.DenoiseKernel, cfg.SmoothSigma)
	}
	if cfg.Hough.DP != 1 || cfg.Hough.AccumThreshold != 50 || cfg.Hough.MaxRadius != 80 {
		t.Errorf("hough: got %+v", cfg.Hough)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("log level: got %v, want DEBUG", cfg.LogLevel)
	}
	if cfg.HighRed != Default().HighRed {
		t.Error("unset high red should keep its default")
	}
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "pipeline.env")
	// godotenv does not override variables that are already set, so the
	// cleared ones must be unset rather than empty.
	os.Unsetenv(EnvSmoothKernel)
	t.Cleanup(func() { os.Unsetenv(EnvSmoothKernel) })

	if err := os.WriteFile(envFile, []byte(EnvSmoothKernel+"=7\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(envFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SmoothKernel != 7 {
		t.Errorf("smooth kernel: got %d, want 7 from the env file", cfg.SmoothKernel)
	}
}

func TestLoad_MissingExplicitEnvFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	var cfgErr *Error
	if !errors.As(err, &cfgErr) {
		t.Fatalf("got %v, want *Error", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key, value, field string
	}{
		{EnvDenoiseKernel, "abc", EnvDenoiseKernel},
		{EnvDenoiseKernel, "4", "denoise_kernel"},
		{EnvSmoothKernel, "-9", "smooth_kernel"},
		{EnvSmoothSigma, "0", "smooth_sigma"},
		{EnvSmoothSigma, "wide", EnvSmoothSigma},
		{EnvDP, "0.5", "hough"},
		{EnvMinDist, "x", EnvMinDist},
		{EnvAccumThreshold, "1.5", EnvAccumThreshold},
		{EnvLowRed, "10,100,100-0,255,255", EnvLowRed},
		{EnvHighRed, "160,100,100", EnvHighRed},
		{EnvHighRed, "160,100,100-200,255,255", EnvHighRed},
		{EnvLogLevel, "loud", EnvLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
					t.Setenv(tt.key, tt.value)

			_, err := Load()
			var cfgErr *Error
			if !errors.As(err, &cfgErr) {
				t.Fatalf("got %v, want *Error", err)
			}
			if cfgErr.Field != tt.field {
				t.Errorf("field: got %q, want %q", cfgErr.Field, tt.field)
			}
		})
	}
}

func TestParseRegion(t *testing.T) {
	r, err := ParseRegion("10, 20,110,220")
	if err != nil {
		t.Fatalf("ParseRegion failed: %v", err)
	}
	if r != (imaging.Region{X1: 10, Y1: 20, X2: 110, Y2: 220}) {
		t.Errorf("got %+v", r)
	}
	if s := FormatRegion(r); s != "10,20,110,220" {
		t.Errorf("FormatRegion: got %q", s)
	}

	for _, bad := range []string{"", "1,2,3", "1,2,3,4,5", "a,b,c,d", "5,5,5,10", "-1,0,10,10", "10,10,0,0"} {
		if _, err := ParseRegion(bad); err == nil {
			t.Errorf("ParseRegion(%q) accepted", bad)
		}
	}
}

func TestValidate_ROI(t *testing.T) {
	cfg := Default()
	cfg.ROI = &imaging.Region{X1: 50, Y1: 0, X2: 10, Y2: 10}

	var cfgErr *Error
	if err := cfg.Validate(); !errors.As(err, &cfgErr) || cfgErr.Field != "roi" {
		t.Errorf("got %v, want roi error", err)
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Field: "denoise_kernel", Value: "4", Reason: "must be a positive odd number"}
	want := `invalid configuration: denoise_kernel="4": must be a positive odd number`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
