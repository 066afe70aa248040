package docs

import (
	"context"
	"log/slog"
	"strings"

	"github.com/priyamehta/cddrisk/internal/domain"
)

// VisionGenerator is the slice of the LLM client the classifier needs.
type VisionGenerator interface {
	GenerateWithImages(ctx context.Context, prompt string, images [][]byte) (string, error)
}

const classifyPrompt = "Identify the document type in this image (e.g., passport, driver's license, national ID, income). Return only the document type as a single phrase, no additional text."

const unidentifiedDescription = "The document type could not be identified."

// docTypeMap is the only recognized vocabulary; every other reply collapses
// to unknown.
var docTypeMap = map[string]domain.DocumentClassification{
	"passport": {
		Type:        domain.DocPassport,
		Description: "The image appears to show a passport, which is an official document issued by a government, certifying the holder's identity and citizenship for international travel.",
	},
	"national id": {
		Type:        domain.DocNationalID,
		Description: "The image appears to show a national ID card, specifically an Indian Aadhaar card, which is a 12-digit unique identity number issued by the Unique Identification Authority of India, serving as proof of residency and a biometric identifier.",
	},
	"driver's license": {
		Type:        domain.DocDriversLicense,
		Description: "The image appears to show a driver's license, which is an official document permitting an individual to operate motorized vehicles.",
	},
	"income": {
		Type:        domain.DocIncome,
		Description: "The image appears to show an income verification document, typically used to confirm an individual's earnings or financial status.",
	},
}

// Classifier classifies a single document image through the vision endpoint.
type Classifier struct {
	gen    VisionGenerator
	logger *slog.Logger
}

// NewClassifier constructs a Classifier.
func NewClassifier(gen VisionGenerator, logger *slog.Logger) *Classifier {
	return &Classifier{gen: gen, logger: logger}
}

// Classify sends the image to the vision model and maps its free-text reply
// to a canonical document type. Transport and decode failures are reported
// in the result, never returned: the classification degrades to unknown with
// the error text as its description.
func (c *Classifier) Classify(ctx context.Context, image []byte) domain.DocumentClassification {
	reply, err := c.gen.GenerateWithImages(ctx, classifyPrompt, [][]byte{image})
	if err != nil {
		c.logger.Error("vision classification call failed", "error", err)
		return domain.DocumentClassification{Type: domain.DocUnknown, Description: err.Error()}
	}

	if classification, ok := docTypeMap[strings.ToLower(strings.TrimSpace(reply))]; ok {
		return classification
	}
	return domain.DocumentClassification{Type: domain.DocUnknown, Description: unidentifiedDescription}
}
