package container

import (
	"fmt"
	"net/http"

	appconfig "go-legal-ocr/internal/config"
	"go-legal-ocr/internal/correct"
	"go-legal-ocr/internal/engine"
	"go-legal-ocr/internal/factory"
	"go-legal-ocr/internal/pipeline"
	"go-legal-ocr/internal/repository"
	"go-legal-ocr/internal/service"
	"go-legal-ocr/internal/storage"
	"go-legal-ocr/internal/transport"
	"go-legal-ocr/pkg/config"
)

// Container holds all application dependencies
type Container struct {
	config       *appconfig.Config
	pageFetcher  storage.ImageFetcher
	ocrEngine    engine.Engine
	dictionary   *correct.Dictionary
	repository   repository.DocumentRepository
	orchestrator *pipeline.Orchestrator
	ocrService   service.OCRService
	handler      http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer() (*Container, error) {
	// Load configuration
	cfg, err := appconfig.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Build dependency graph
	factories := factory.NewComponentFactory()

	pageFetcher, err := factories.StorageFactory.CreateStorage(factory.StorageType(cfg.StorageBackend), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage backend: %w", err)
	}

	ocrEngine, err := factories.EngineFactory.CreateEngine(factory.TesseractEngine)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}

	dictionary := correct.NewDictionary(cfg.DictionaryPath)

	pipelineConfig := config.Default().
		WithLanguage(cfg.OCRLanguage).
		WithPreprocessWorkers(cfg.PreprocessWorkers)
	if err := pipelineConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline config: %w", err)
	}

	documentRepository := repository.NewDocumentRepository(pageFetcher)
	orchestrator := pipeline.NewOrchestrator(ocrEngine, dictionary, pipelineConfig)
	ocrService := service.NewOCRService(documentRepository, orchestrator, pipelineConfig)
	handler := transport.NewHandler(ocrService, cfg)

	return &Container{
		config:       cfg,
		pageFetcher:  pageFetcher,
		ocrEngine:    ocrEngine,
		dictionary:   dictionary,
		repository:   documentRepository,
		orchestrator: orchestrator,
		ocrService:   ocrService,
		handler:      handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *appconfig.Config {
	return c.config
}

// Close releases the engine and worker pool
func (c *Container) Close() error {
	return c.orchestrator.Close()
}
