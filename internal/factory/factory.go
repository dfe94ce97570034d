package factory

import (
	"fmt"

	"go-legal-ocr/internal/config"
	"go-legal-ocr/internal/engine"
	"go-legal-ocr/internal/storage"
)

// EngineType represents different OCR backends
type EngineType string

const (
	// TesseractEngine recognizes through a local Tesseract install
	TesseractEngine EngineType = "tesseract"
)

// StorageType represents different page storage backends
type StorageType string

const (
	// HTTPStorage for HTTP-based page fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// EngineFactory creates OCR engines
type EngineFactory interface {
	CreateEngine(engineType EngineType) (engine.Engine, error)
}

// StorageFactory creates page fetchers
type StorageFactory interface {
	CreateStorage(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error)
}

// engineFactory implements EngineFactory
type engineFactory struct{}

// NewEngineFactory creates a new engine factory
func NewEngineFactory() EngineFactory {
	return &engineFactory{}
}

// CreateEngine creates an OCR engine based on the specified type
func (f *engineFactory) CreateEngine(engineType EngineType) (engine.Engine, error) {
	switch engineType {
	case TesseractEngine:
		return engine.NewTesseractEngine(), nil
	default:
		return nil, fmt.Errorf("unsupported engine type: %s", engineType)
	}
}

// storageFactory implements StorageFactory
type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateStorage creates a page fetcher based on the specified type
func (f *storageFactory) CreateStorage(storageType StorageType, cfg *config.Config) (storage.ImageFetcher, error) {
	switch storageType {
	case HTTPStorage:
		return storage.NewHTTPImageFetcher(), nil
	case AzureStorage:
		return storage.NewAzureFetcher(cfg.AzureAccountName, cfg.AzureAccountKey)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", storageType)
	}
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	EngineFactory  EngineFactory
	StorageFactory StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		EngineFactory:  NewEngineFactory(),
		StorageFactory: NewStorageFactory(),
	}
}
