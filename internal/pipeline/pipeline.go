package pipeline

import (
	"context"
	"fmt"
	"image"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-legal-ocr/internal/assemble"
	"go-legal-ocr/internal/correct"
	"go-legal-ocr/internal/engine"
	"go-legal-ocr/internal/logger"
	"go-legal-ocr/internal/preprocess"
	"go-legal-ocr/pkg/config"
	"go-legal-ocr/pkg/models"
)

// Document is one unit of work for the orchestrator: a set of page
// images belonging to a single legal document. An empty DocID gets a
// generated one. Config, when set, overrides the orchestrator default
// for this document only.
type Document struct {
	Source string
	DocID  string
	Images []image.Image
	Config *config.Config
}

// Orchestrator drives the full pipeline: preprocessing in parallel,
// recognition, correction and assembly. A document never fails with
// an error; failures are recorded on the result so batch processing
// continues.
type Orchestrator struct {
	adapter *engine.Adapter
	eng     engine.Engine
	dict    *correct.Dictionary
	cfg     config.Config
	pool    *Pool
}

// NewOrchestrator builds an orchestrator around an OCR engine and a
// correction dictionary.
func NewOrchestrator(eng engine.Engine, dict *correct.Dictionary, cfg config.Config) *Orchestrator {
	return &Orchestrator{
		adapter: engine.NewAdapter(eng),
		eng:     eng,
		dict:    dict,
		cfg:     cfg,
		pool:    NewPool(cfg.PreprocessWorkers),
	}
}

// ProcessDocument runs one document through the pipeline. The result
// always comes back, even on unexpected panics deep in image code; in
// that case it carries a processing warning and zero confidence.
func (o *Orchestrator) ProcessDocument(ctx context.Context, doc Document) (result models.OCRDocumentResult) {
	cfg := o.cfg
	if doc.Config != nil {
		cfg = *doc.Config
	}

	docID := doc.DocID
	if docID == "" {
		docID = uuid.NewString()[:8]
	}

	defer func() {
		if r := recover(); r != nil {
			logger.WithField("doc_id", docID).
				Error(fmt.Sprintf("Document processing panicked: %v", r))
			result = failedDocument(doc.Source, docID, fmt.Sprintf("processing failed: %v", r))
		}
	}()

	logger.WithFields(logrus.Fields{
		"doc_id": docID,
		"pages":  len(doc.Images),
	}).Info("Processing document")

	processed := o.preprocessPages(doc.Images, cfg)
	pages := o.adapter.RecognizePages(ctx, processed, cfg)

	if cfg.EnableQualityWarnings {
		attachQualityWarnings(processed, pages)
	}

	result = assemble.AssembleDocument(doc.Source, docID, pages, cfg, o.dict)

	logger.WithFields(logrus.Fields{
		"doc_id":     docID,
		"confidence": result.OverallConfidence,
		"warnings":   len(result.Warnings),
	}).Info("Document processed")
	return result
}

// preprocessPages enhances all pages concurrently, preserving order.
func (o *Orchestrator) preprocessPages(images []image.Image, cfg config.Config) []image.Image {
	out := make([]image.Image, len(images))
	for i, img := range images {
		i, img := i, img
		o.pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					logger.WithFields(logrus.Fields{
						"page":  i + 1,
						"panic": fmt.Sprintf("%v", r),
					}).Warn("Page preprocessing panicked, using original image")
					out[i] = img
				}
			}()
			out[i] = preprocess.Preprocess(img, cfg)
		})
	}
	o.pool.Wait()
	return out
}

// ProcessBatch handles documents sequentially. Recognition holds the
// engine lock anyway, so batch-level parallelism would only contend.
func (o *Orchestrator) ProcessBatch(ctx context.Context, docs []Document) []models.OCRDocumentResult {
	results := make([]models.OCRDocumentResult, 0, len(docs))
	for _, doc := range docs {
		results = append(results, o.ProcessDocument(ctx, doc))
	}
	return results
}

// Reset releases engine resources and drops cached dictionary state.
func (o *Orchestrator) Reset() error {
	o.dict.Reset()
	return o.eng.Reset()
}

// Close shuts the worker pool down and resets the engine.
func (o *Orchestrator) Close() error {
	o.pool.Close()
	return o.eng.Reset()
}

func attachQualityWarnings(images []image.Image, pages []models.OCRPageResult) {
	for i := range pages {
		if i >= len(images) || images[i] == nil {
			continue
		}
		report := preprocess.Assess(images[i])
		pages[i].Warnings = append(pages[i].Warnings, report.Warnings(pages[i].PageNumber)...)
	}
}

// failedDocument is the zero-page placeholder for a document that
// could not be processed at all.
func failedDocument(source, docID string, warning string) models.OCRDocumentResult {
	return models.OCRDocumentResult{
		Source:   source,
		DocID:    docID,
		Warnings: []string{warning},
	}
}
