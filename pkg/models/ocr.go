package models

// Point is a single (x, y) coordinate in image pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// OCRWord is a recognized text span with its bounding quadrilateral and
// recognition confidence. Corners are ordered clockwise starting from
// the top-left. Words are immutable once produced by recognition;
// correction passes replace them rather than mutating in place.
type OCRWord struct {
	Text       string   `json:"text"`
	BBox       [4]Point `json:"bbox"`
	Confidence float64  `json:"confidence"`
}

// OCRLine is a line of text composed of one or more words. Text starts
// as the space-join of the constituent words and may diverge from them
// after correction passes (merged or corrected form); Words keep the
// traceability back to the originally recognized units.
type OCRLine struct {
	Words      []OCRWord `json:"words"`
	Text       string    `json:"text"`
	BBox       [4]Point  `json:"bbox"`
	Confidence float64   `json:"confidence"`
}

// OCRPageResult is the full result for one page: recognized lines, the
// newline-joined raw text, an aggregated confidence and any warnings
// collected along the way.
type OCRPageResult struct {
	PageNumber int       `json:"page_number"`
	Lines      []OCRLine `json:"lines"`
	RawText    string    `json:"raw_text"`
	Confidence float64   `json:"confidence"`
	Warnings   []string  `json:"warnings,omitempty"`
	HasErrors  bool      `json:"has_errors"`
}

// OCRDocumentResult is the assembled multi-page result. It is built
// once at the end of the pipeline and not modified afterwards.
type OCRDocumentResult struct {
	Source            string          `json:"source"`
	DocID             string          `json:"doc_id"`
	Pages             []OCRPageResult `json:"pages"`
	RawText           string          `json:"raw_text"`
	TotalPages        int             `json:"total_pages"`
	OverallConfidence float64         `json:"overall_confidence"`
	Warnings          []string        `json:"warnings,omitempty"`
}

// TextPayload is the minimal shape handed to downstream text pipelines.
type TextPayload struct {
	RawText string `json:"raw_text"`
	DocID   string `json:"doc_id"`
}

// TextPayload reduces the document result to its downstream shape.
func (r OCRDocumentResult) TextPayload() TextPayload {
	return TextPayload{RawText: r.RawText, DocID: r.DocID}
}
