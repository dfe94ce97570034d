package repository

import (
	"context"
	"fmt"
	"image"

	apperrors "go-legal-ocr/internal/errors"
	"go-legal-ocr/internal/storage"
	"go-legal-ocr/pkg/validation"
)

// DocumentRepository retrieves the page scans of a document from
// wherever they live.
type DocumentRepository interface {
	// FetchPages downloads all page images in order. A single failed
	// page fails the whole document; partial documents produce worse
	// results than a clean retry.
	FetchPages(ctx context.Context, urls []string) ([]image.Image, error)

	// ValidateURL checks a page URL without fetching it.
	ValidateURL(url string) error
}

type documentRepository struct {
	fetcher   storage.ImageFetcher
	validator *validation.URLValidator
}

// NewDocumentRepository creates a repository over any page fetcher.
func NewDocumentRepository(fetcher storage.ImageFetcher) DocumentRepository {
	return &documentRepository{
		fetcher:   fetcher,
		validator: validation.NewURLValidator(),
	}
}

func (r *documentRepository) FetchPages(ctx context.Context, urls []string) ([]image.Image, error) {
	images := make([]image.Image, 0, len(urls))
	for i, pageURL := range urls {
		img, err := r.fetcher.FetchImage(ctx, pageURL)
		if err != nil {
			return nil, apperrors.NewNetworkError(
				fmt.Sprintf("failed to fetch page %d of %d", i+1, len(urls)), err)
		}
		images = append(images, img)
	}
	return images, nil
}

func (r *documentRepository) ValidateURL(url string) error {
	return r.validator.ValidatePageURL(url)
}
