package service

import (
	"context"
	"fmt"

	apperrors "go-legal-ocr/internal/errors"
	"go-legal-ocr/internal/logger"
	"go-legal-ocr/internal/pipeline"
	"go-legal-ocr/internal/quality"
	"go-legal-ocr/internal/repository"
	"go-legal-ocr/pkg/config"
	"go-legal-ocr/pkg/models"
)

// OCRService is the application boundary for document recognition.
type OCRService interface {
	ProcessDocument(ctx context.Context, req models.ProcessRequest) (*models.ProcessResponse, error)
	ProcessBatch(ctx context.Context, req models.BatchRequest) ([]models.ProcessResponse, error)
}

type ocrService struct {
	repo         repository.DocumentRepository
	orchestrator *pipeline.Orchestrator
	baseConfig   config.Config
}

// NewOCRService wires the repository and the pipeline orchestrator
// into one request-handling service.
func NewOCRService(repo repository.DocumentRepository, orchestrator *pipeline.Orchestrator, baseConfig config.Config) OCRService {
	return &ocrService{
		repo:         repo,
		orchestrator: orchestrator,
		baseConfig:   baseConfig,
	}
}

// ProcessDocument validates the request, fetches all page scans and
// runs a single document through the pipeline. When the request
// carries an expected transcription, an accuracy report is attached.
func (s *ocrService) ProcessDocument(ctx context.Context, req models.ProcessRequest) (*models.ProcessResponse, error) {
	if len(req.PageURLs) == 0 {
		return nil, apperrors.NewValidationError("at least one page URL is required", nil)
	}
	for i, url := range req.PageURLs {
		if err := s.repo.ValidateURL(url); err != nil {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("page %d URL rejected", i+1), err)
		}
	}

	cfg, err := s.applyOverrides(req.Overrides)
	if err != nil {
		return nil, err
	}

	images, err := s.repo.FetchPages(ctx, req.PageURLs)
	if err != nil {
		return nil, err
	}

	result := s.orchestrator.ProcessDocument(ctx, pipeline.Document{
		Source: req.PageURLs[0],
		DocID:  req.DocID,
		Images: images,
		Config: &cfg,
	})

	resp := &models.ProcessResponse{
		Result: result,
		Text:   result.TextPayload(),
	}
	if req.ExpectedText != "" {
		report := quality.Evaluate(req.ExpectedText, result.RawText)
		resp.Accuracy = &report
	}
	return resp, nil
}

// ProcessBatch handles each document independently. A document that
// fails validation or fetching is reported in its response slot; the
// rest of the batch proceeds.
func (s *ocrService) ProcessBatch(ctx context.Context, req models.BatchRequest) ([]models.ProcessResponse, error) {
	if len(req.Documents) == 0 {
		return nil, apperrors.NewValidationError("batch must contain at least one document", nil)
	}

	responses := make([]models.ProcessResponse, 0, len(req.Documents))
	for i, docReq := range req.Documents {
		resp, err := s.ProcessDocument(ctx, docReq)
		if err != nil {
			logger.WithError(err).WithField("index", i).
				Warn("Batch document failed")
			result := models.OCRDocumentResult{
				DocID:    docReq.DocID,
				Warnings: []string{fmt.Sprintf("processing failed: %v", err)},
			}
			if len(docReq.PageURLs) > 0 {
				result.Source = docReq.PageURLs[0]
			}
			responses = append(responses, models.ProcessResponse{
				Result: result,
				Text:   result.TextPayload(),
			})
			continue
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

// applyOverrides layers per-request settings over the service default
// configuration using the builder methods, then validates the result.
func (s *ocrService) applyOverrides(o *models.ConfigOverrides) (config.Config, error) {
	cfg := s.baseConfig
	if o == nil {
		return cfg, nil
	}

	if o.EnableResolutionCheck != nil {
		cfg = cfg.WithResolutionCheck(*o.EnableResolutionCheck)
	}
	if o.EnableDeskew != nil {
		cfg = cfg.WithDeskew(*o.EnableDeskew)
	}
	if o.EnableBorderRemoval != nil {
		cfg = cfg.WithBorderRemoval(*o.EnableBorderRemoval)
	}
	if o.EnableContrastEnhancement != nil {
		cfg = cfg.WithContrastEnhancement(*o.EnableContrastEnhancement)
	}
	if o.EnableDenoise != nil {
		cfg = cfg.WithDenoise(*o.EnableDenoise)
	}
	if o.EnableDictionaryCorrection != nil {
		cfg = cfg.WithDictionaryCorrection(*o.EnableDictionaryCorrection)
	}
	if o.DigitMode != nil {
		cfg = cfg.WithDigitMode(config.DigitMode(*o.DigitMode))
	}
	if o.MaxLevenshteinDistance != nil {
		cfg = cfg.WithMaxLevenshteinDistance(*o.MaxLevenshteinDistance)
	}
	if o.MediumConfidence != nil || o.HighConfidence != nil {
		medium := cfg.MediumConfidence
		high := cfg.HighConfidence
		if o.MediumConfidence != nil {
			medium = *o.MediumConfidence
		}
		if o.HighConfidence != nil {
			high = *o.HighConfidence
		}
		cfg = cfg.WithConfidenceBand(medium, high)
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, apperrors.NewValidationError("invalid configuration overrides", err)
	}
	return cfg, nil
}
