package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()

	if !cfg.EnableResolutionCheck {
		t.Error("Expected resolution check enabled by default")
	}
	if !cfg.EnableDeskew {
		t.Error("Expected deskew enabled by default")
	}
	if cfg.EnableDenoise {
		t.Error("Expected denoise disabled by default")
	}
	if cfg.MinDPI != 150 {
		t.Errorf("Expected MinDPI 150, got %d", cfg.MinDPI)
	}
	if cfg.HighConfidence != 0.85 {
		t.Errorf("Expected HighConfidence 0.85, got %g", cfg.HighConfidence)
	}
	if cfg.MediumConfidence != 0.60 {
		t.Errorf("Expected MediumConfidence 0.60, got %g", cfg.MediumConfidence)
	}
	if cfg.MaxLevenshteinDistance != 2 {
		t.Errorf("Expected MaxLevenshteinDistance 2, got %d", cfg.MaxLevenshteinDistance)
	}
	if cfg.DigitMode != DigitsArabicIndic {
		t.Errorf("Expected arabic_indic digit mode, got %q", cfg.DigitMode)
	}
	if cfg.Language != "ara" {
		t.Errorf("Expected language ara, got %q", cfg.Language)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected default config to validate, got: %v", err)
	}
}

func TestBuildersDoNotMutateReceiver(t *testing.T) {
	base := Default()
	modified := base.WithDeskew(false).WithMinDPI(300).WithDigitMode(DigitsWestern)

	if !base.EnableDeskew || base.MinDPI != 150 || base.DigitMode != DigitsArabicIndic {
		t.Error("Expected base config to be unchanged by builders")
	}
	if modified.EnableDeskew || modified.MinDPI != 300 || modified.DigitMode != DigitsWestern {
		t.Error("Expected modified config to carry builder values")
	}
}

func TestWithConfidenceBand(t *testing.T) {
	cfg := Default().WithConfidenceBand(0.5, 0.9)
	if cfg.MediumConfidence != 0.5 || cfg.HighConfidence != 0.9 {
		t.Errorf("Expected band [0.5, 0.9), got [%g, %g)", cfg.MediumConfidence, cfg.HighConfidence)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"inverted band", Default().WithConfidenceBand(0.9, 0.6)},
		{"medium above one", Default().WithConfidenceBand(1.5, 1.6)},
		{"negative high", Default().WithConfidenceBand(-0.2, -0.1)},
		{"unknown digit mode", Default().WithDigitMode("roman")},
	}

	for _, tc := range cases {
		if err := tc.cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", tc.name)
		}
	}
}

func TestWithLanguageIgnoresEmpty(t *testing.T) {
	cfg := Default().WithLanguage("")
	if cfg.Language != "ara" {
		t.Errorf("Expected empty language to keep default, got %q", cfg.Language)
	}
}

func TestWithPreprocessWorkersIgnoresNonPositive(t *testing.T) {
	cfg := Default().WithPreprocessWorkers(0)
	if cfg.PreprocessWorkers != 4 {
		t.Errorf("Expected non-positive workers to keep default, got %d", cfg.PreprocessWorkers)
	}
}
