package docs

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/priyamehta/cddrisk/internal/docextract"
	"github.com/priyamehta/cddrisk/internal/domain"
)

// PageExtractor produces per-page image bytes from a PDF: embedded raster
// images where the page has them, a rasterized rendering of the page
// otherwise.
type PageExtractor interface {
	PageImages(ctx context.Context, pdf []byte) ([]docextract.PageImages, error)
}

// PDFClassifier classifies every page-derived image of a PDF and reconciles
// the per-page results into one consistent document type.
type PDFClassifier struct {
	extractor  PageExtractor
	classifier *Classifier
	logger     *slog.Logger
}

// NewPDFClassifier constructs a PDFClassifier.
func NewPDFClassifier(extractor PageExtractor, classifier *Classifier, logger *slog.Logger) *PDFClassifier {
	return &PDFClassifier{extractor: extractor, classifier: classifier, logger: logger}
}

// ClassifyPDF returns the reconciled classification sequence plus the
// overrides applied. Only extraction failures are errors; classification
// failures degrade to unknown entries and are absorbed by reconciliation.
func (p *PDFClassifier) ClassifyPDF(ctx context.Context, pdf []byte) ([]domain.DocumentClassification, []Override, error) {
	pages, err := p.extractor.PageImages(ctx, pdf)
	if err != nil {
		return nil, nil, fmt.Errorf("extract pdf pages: %w", err)
	}

	var classified []PageClassification
	for _, page := range pages {
		for _, img := range page.Images {
			classification := p.classifier.Classify(ctx, img)
			p.logger.Debug("classified pdf image",
				"page", page.Page,
				"rasterized", page.Rasterized,
				"docType", classification.Type,
			)
			classified = append(classified, PageClassification{
				Page:           page.Page,
				Classification: classification,
			})
		}
	}

	results, overrides := Reconcile(classified)
	for _, o := range overrides {
		p.logger.Warn("page classification overridden for consistency",
			"page", o.Page+1,
			"detected", o.From,
			"assumed", o.To,
		)
	}
	return results, overrides, nil
}
