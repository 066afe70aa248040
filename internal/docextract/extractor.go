// Package docextract pulls raw material out of uploaded PDFs for the
// classification and review flows: per-page image bytes and plain text. No
// classification logic lives here.
package docextract

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"sort"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PageImages groups the image bytes derived from one zero-based page.
// Rasterized is set when the page carried no embedded raster images and the
// whole page was rendered instead.
type PageImages struct {
	Page       int
	Images     [][]byte
	Rasterized bool
}

// Extractor extracts embedded page images, falling back to rasterizing the
// page at RasterDPI when a page embeds none.
type Extractor struct {
	// RasterDPI is the rendering resolution for pages without embedded
	// images. Zero means the default of 150.
	RasterDPI float64
}

const defaultRasterDPI = 150

func (e *Extractor) rasterDPI() float64 {
	if e.RasterDPI > 0 {
		return e.RasterDPI
	}
	return defaultRasterDPI
}

// PageImages returns one entry per page, in page order.
func (e *Extractor) PageImages(ctx context.Context, pdf []byte) ([]PageImages, error) {
	conf := model.NewDefaultConfiguration()

	pageCount, err := api.PageCount(bytes.NewReader(pdf), conf)
	if err != nil {
		return nil, fmt.Errorf("page count: %w", err)
	}

	embedded, err := extractEmbeddedImages(pdf, conf)
	if err != nil {
		return nil, err
	}

	result := make([]PageImages, 0, pageCount)
	var doc *fitz.Document
	defer func() {
		if doc != nil {
			doc.Close()
		}
	}()

	for page := 0; page < pageCount; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if images := embedded[page+1]; len(images) > 0 {
			result = append(result, PageImages{Page: page, Images: images})
			continue
		}

		// Lazily open the renderer; most submissions have embedded images
		// on every page.
		if doc == nil {
			doc, err = fitz.NewFromMemory(pdf)
			if err != nil {
				return nil, fmt.Errorf("open pdf for rasterization: %w", err)
			}
		}

		img, err := doc.ImageDPI(page, e.rasterDPI())
		if err != nil {
			return nil, fmt.Errorf("rasterize page %d: %w", page+1, err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode page %d raster: %w", page+1, err)
		}
		result = append(result, PageImages{Page: page, Images: [][]byte{buf.Bytes()}, Rasterized: true})
	}

	return result, nil
}

// extractEmbeddedImages returns raster image bytes keyed by one-based page
// number, ordered by object number within a page.
func extractEmbeddedImages(pdf []byte, conf *model.Configuration) (map[int][][]byte, error) {
	pageImages, err := api.ExtractImagesRaw(bytes.NewReader(pdf), nil, conf)
	if err != nil {
		return nil, fmt.Errorf("extract embedded images: %w", err)
	}

	byPage := make(map[int][][]byte)
	for _, imgs := range pageImages {
		objNrs := make([]int, 0, len(imgs))
		for objNr := range imgs {
			objNrs = append(objNrs, objNr)
		}
		sort.Ints(objNrs)

		for _, objNr := range objNrs {
			img := imgs[objNr]
			data, err := io.ReadAll(img)
			if err != nil {
				return nil, fmt.Errorf("read embedded image obj %d: %w", objNr, err)
			}
			byPage[img.PageNr] = append(byPage[img.PageNr], data)
		}
	}
	return byPage, nil
}
