package extraction

import "errors"

var (
	// ErrUnsupportedMediaType is returned for uploads that are neither PDF nor image
	ErrUnsupportedMediaType = errors.New("only PDF or image files are supported")

	// ErrDocumentDecode is returned when a document cannot be decoded into a bitmap
	ErrDocumentDecode = errors.New("decoding document")

	// ErrExtraction is returned when the OCR engine fails
	ErrExtraction = errors.New("extracting text")

	// ErrSynthesis is returned when the completion provider fails or returns no choices
	ErrSynthesis = errors.New("synthesizing record")

	// ErrMalformedRecord is returned when the completion reply is not valid JSON
	ErrMalformedRecord = errors.New("parsing record")
)
