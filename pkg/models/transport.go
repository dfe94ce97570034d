package models

// ConfigOverrides carries optional per-request overrides for the
// pipeline configuration. Nil fields fall back to the service defaults.
type ConfigOverrides struct {
	EnableResolutionCheck      *bool    `json:"enable_resolution_check,omitempty"`
	EnableDeskew               *bool    `json:"enable_deskew,omitempty"`
	EnableBorderRemoval        *bool    `json:"enable_border_removal,omitempty"`
	EnableContrastEnhancement  *bool    `json:"enable_contrast_enhancement,omitempty"`
	EnableDenoise              *bool    `json:"enable_denoise,omitempty"`
	EnableDictionaryCorrection *bool    `json:"enable_dictionary_correction,omitempty"`
	DigitMode                  *string  `json:"digit_mode,omitempty"`
	MaxLevenshteinDistance     *int     `json:"max_levenshtein_distance,omitempty"`
	MediumConfidence           *float64 `json:"medium_confidence,omitempty"`
	HighConfidence             *float64 `json:"high_confidence,omitempty"`
}

// ProcessRequest asks the service to OCR one document given the ordered
// URLs of its page images.
type ProcessRequest struct {
	PageURLs     []string         `json:"page_urls" binding:"required"`
	DocID        string           `json:"doc_id,omitempty"`
	ExpectedText string           `json:"expected_text,omitempty"`
	Overrides    *ConfigOverrides `json:"overrides,omitempty"`
}

// BatchRequest bundles several documents into one call.
type BatchRequest struct {
	Documents []ProcessRequest `json:"documents" binding:"required"`
}

// AccuracyReport compares pipeline output against a caller-supplied
// reference transcription.
type AccuracyReport struct {
	CharacterErrorRate float64 `json:"character_error_rate"`
	WordErrorRate      float64 `json:"word_error_rate"`
}

// ProcessResponse is the service-level result for one document.
type ProcessResponse struct {
	Result   OCRDocumentResult `json:"result"`
	Text     TextPayload       `json:"text"`
	Accuracy *AccuracyReport   `json:"accuracy,omitempty"`
}
