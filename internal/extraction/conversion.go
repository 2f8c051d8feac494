package extraction

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/gen2brain/heic"
)

// Native PDF resolution is 72 DPI; invoices are rendered at 2x scale for
// better OCR accuracy.
const renderDPI = 144

// pdfToImage renders page 1 of a PDF as a PNG bitmap
func pdfToImage(pdfData []byte) ([]byte, error) {
	doc, err := fitz.NewFromMemory(pdfData)
	if err != nil {
		return nil, fmt.Errorf("%w: opening PDF: %v", ErrDocumentDecode, err)
	}
	defer doc.Close()

	if doc.NumPage() < 1 {
		return nil, fmt.Errorf("%w: PDF has no pages", ErrDocumentDecode)
	}

	// Only page 1 is analyzed; multi-page documents are out of scope
	img, err := doc.ImageDPI(0, renderDPI)
	if err != nil {
		return nil, fmt.Errorf("%w: rendering PDF page: %v", ErrDocumentDecode, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding PNG: %v", ErrDocumentDecode, err)
	}

	return buf.Bytes(), nil
}

// heicToPNG converts a HEIC/HEIF image to PNG. The OCR engine cannot read
// HEIC directly, so these are the only images that get re-encoded.
func heicToPNG(imageData []byte) ([]byte, error) {
	img, err := heic.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding HEIC/HEIF image: %v", ErrDocumentDecode, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("%w: encoding PNG: %v", ErrDocumentDecode, err)
	}

	return buf.Bytes(), nil
}

// isHEICFormat checks if the image data is in HEIC/HEIF format
// HEIC files typically start with specific magic bytes
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	// HEIC files carry an ftyp box at offset 4 with a HEIC-related brand
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	return strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// Rasterize converts an uploaded document into a bitmap the OCR engine can
// consume. PDFs are rendered (page 1 only); images pass through as-is except
// HEIC/HEIF, which is converted to PNG. Unsupported media types fail before
// any processing begins.
func Rasterize(data []byte, contentType string) ([]byte, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))

	switch {
	case mimeType == "application/pdf":
		return pdfToImage(data)
	case strings.HasPrefix(mimeType, "image/"):
		if isHEICFormat(data) || isHEICMimeType(mimeType) {
			return heicToPNG(data)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedMediaType, contentType)
	}
}
