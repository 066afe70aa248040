package docs

import "github.com/priyamehta/cddrisk/internal/domain"

// PageClassification is one classified image tagged with the zero-based page
// it came from. A page with several embedded images contributes several
// entries.
type PageClassification struct {
	Page           int
	Classification domain.DocumentClassification
}

// Override records a page whose classification was replaced by the anchor
// type during reconciliation.
type Override struct {
	Page int
	From domain.DocumentType
	To   domain.DocumentType
}

// Reconcile enforces single-document-type consistency across a multi-page
// submission. The first classification on page 0 establishes the anchor
// type; every entry on a later page that disagrees is overridden to the
// anchor (type only, its description is kept) and the override is recorded.
// Page 0 is authoritative even when a later classification was confident and
// different. Entries still unknown after reconciliation are dropped from the
// returned sequence.
func Reconcile(pages []PageClassification) ([]domain.DocumentClassification, []Override) {
	if len(pages) == 0 {
		return nil, nil
	}

	anchor := pages[0].Classification.Type

	var results []domain.DocumentClassification
	var overrides []Override
	for _, p := range pages {
		classification := p.Classification
		if p.Page > 0 && classification.Type != anchor {
			overrides = append(overrides, Override{
				Page: p.Page,
				From: classification.Type,
				To:   anchor,
			})
			classification.Type = anchor
		}
		if classification.Type == domain.DocUnknown {
			continue
		}
		results = append(results, classification)
	}

	return results, overrides
}
