package config

import "fmt"

// DigitMode selects how digits are normalized during text correction.
type DigitMode string

const (
	// DigitsArabicIndic converts Western digits to Arabic-Indic.
	DigitsArabicIndic DigitMode = "arabic_indic"
	// DigitsWestern converts Arabic-Indic digits to Western.
	DigitsWestern DigitMode = "western"
	// DigitsPreserve leaves digits untouched.
	DigitsPreserve DigitMode = "preserve"
)

// Config is the pipeline configuration value object. Every stage
// receives it explicitly; there is no ambient configuration. Builders
// return modified copies, so a base Config can be shared safely and
// overridden per call.
type Config struct {
	// Preprocessing toggles
	EnableResolutionCheck     bool
	MinDPI                    int
	EnableDeskew              bool
	EnableBorderRemoval       bool
	EnableContrastEnhancement bool
	EnableDenoise             bool

	// Confidence thresholds in [0, 1]
	HighConfidence   float64
	MediumConfidence float64

	// Correction
	EnableDictionaryCorrection bool
	MaxLevenshteinDistance     int
	DigitMode                  DigitMode

	// Advisory scan-quality warnings on page results
	EnableQualityWarnings bool

	// Engine and scheduling
	Language          string
	PreprocessWorkers int
}

// Default returns the module-level defaults. Denoise stays off because
// the recognition model tolerates minor noise.
func Default() Config {
	return Config{
		EnableResolutionCheck:      true,
		MinDPI:                     150,
		EnableDeskew:               true,
		EnableBorderRemoval:        true,
		EnableContrastEnhancement:  true,
		EnableDenoise:              false,
		HighConfidence:             0.85,
		MediumConfidence:           0.60,
		EnableDictionaryCorrection: true,
		MaxLevenshteinDistance:     2,
		DigitMode:                  DigitsArabicIndic,
		EnableQualityWarnings:      false,
		Language:                   "ara",
		PreprocessWorkers:          4,
	}
}

// WithResolutionCheck toggles the minimum-resolution upscale step.
func (c Config) WithResolutionCheck(enabled bool) Config {
	c.EnableResolutionCheck = enabled
	return c
}

// WithMinDPI sets the DPI floor used by the resolution check.
func (c Config) WithMinDPI(dpi int) Config {
	c.MinDPI = dpi
	return c
}

// WithDeskew toggles rotation correction.
func (c Config) WithDeskew(enabled bool) Config {
	c.EnableDeskew = enabled
	return c
}

// WithBorderRemoval toggles scan-border cropping.
func (c Config) WithBorderRemoval(enabled bool) Config {
	c.EnableBorderRemoval = enabled
	return c
}

// WithContrastEnhancement toggles adaptive histogram equalization.
func (c Config) WithContrastEnhancement(enabled bool) Config {
	c.EnableContrastEnhancement = enabled
	return c
}

// WithDenoise toggles the optional denoising pass.
func (c Config) WithDenoise(enabled bool) Config {
	c.EnableDenoise = enabled
	return c
}

// WithDictionaryCorrection toggles legal-dictionary word correction.
func (c Config) WithDictionaryCorrection(enabled bool) Config {
	c.EnableDictionaryCorrection = enabled
	return c
}

// WithDigitMode sets the digit normalization mode.
func (c Config) WithDigitMode(mode DigitMode) Config {
	c.DigitMode = mode
	return c
}

// WithMaxLevenshteinDistance sets the dictionary correction cutoff.
func (c Config) WithMaxLevenshteinDistance(distance int) Config {
	c.MaxLevenshteinDistance = distance
	return c
}

// WithConfidenceBand sets the medium and high confidence thresholds
// that gate dictionary correction and low-confidence warnings.
func (c Config) WithConfidenceBand(medium, high float64) Config {
	c.MediumConfidence = medium
	c.HighConfidence = high
	return c
}

// WithQualityWarnings toggles advisory scan-quality warnings.
func (c Config) WithQualityWarnings(enabled bool) Config {
	c.EnableQualityWarnings = enabled
	return c
}

// WithLanguage sets the recognition language code.
func (c Config) WithLanguage(language string) Config {
	if language != "" {
		c.Language = language
	}
	return c
}

// WithPreprocessWorkers sets the preprocessing worker pool size.
func (c Config) WithPreprocessWorkers(workers int) Config {
	if workers > 0 {
		c.PreprocessWorkers = workers
	}
	return c
}

// Validate reports malformed configuration. A bad Config is a
// programmer error and should fail fast at startup.
func (c Config) Validate() error {
	if c.MinDPI <= 0 {
		return fmt.Errorf("MinDPI must be > 0 (got %d)", c.MinDPI)
	}
	if c.MediumConfidence < 0 || c.MediumConfidence > 1 {
		return fmt.Errorf("MediumConfidence must be in [0, 1] (got %g)", c.MediumConfidence)
	}
	if c.HighConfidence < 0 || c.HighConfidence > 1 {
		return fmt.Errorf("HighConfidence must be in [0, 1] (got %g)", c.HighConfidence)
	}
	if c.MediumConfidence > c.HighConfidence {
		return fmt.Errorf("MediumConfidence %g exceeds HighConfidence %g", c.MediumConfidence, c.HighConfidence)
	}
	if c.MaxLevenshteinDistance < 0 {
		return fmt.Errorf("MaxLevenshteinDistance must be >= 0 (got %d)", c.MaxLevenshteinDistance)
	}
	switch c.DigitMode {
	case DigitsArabicIndic, DigitsWestern, DigitsPreserve:
	default:
		return fmt.Errorf("unknown digit mode: %q", c.DigitMode)
	}
	if c.PreprocessWorkers <= 0 {
		return fmt.Errorf("PreprocessWorkers must be > 0 (got %d)", c.PreprocessWorkers)
	}
	return nil
}
