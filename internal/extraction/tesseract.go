package extraction

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// Tesseract implements the Recognizer interface by shelling out to the
// tesseract CLI
type Tesseract struct {
	binary   string
	language string
}

// NewTesseract creates a new Tesseract Recognizer instance. The binary must
// be installed on the system along with the language data for the configured
// language (default "eng").
func NewTesseract(binary string, language string) (*Tesseract, error) {
	if binary == "" {
		binary = "tesseract"
	}
	if language == "" {
		language = "eng"
	}

	if _, err := exec.LookPath(binary); err != nil {
		return nil, fmt.Errorf("tesseract binary not found: %w", err)
	}

	return &Tesseract{
		binary:   binary,
		language: language,
	}, nil
}

// RecognizeText runs OCR on a bitmap and returns the recognized text, trimmed
// of leading and trailing whitespace. Empty output is valid: a blank page
// recognizes to an empty string, not an error.
func (t *Tesseract) RecognizeText(imageData []byte) (string, error) {
	tmp, err := os.CreateTemp("", "invoice-scan-*.png")
	if err != nil {
		return "", fmt.Errorf("%w: creating temp image: %v", ErrExtraction, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(imageData); err != nil {
		tmp.Close()
		return "", fmt.Errorf("%w: writing temp image: %v", ErrExtraction, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: closing temp image: %v", ErrExtraction, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(t.binary, tmp.Name(), "stdout", "-l", t.language)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	slog.Debug("Running OCR", "binary", t.binary, "language", t.language, "image_size", len(imageData))

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%w: %v: %s", ErrExtraction, err, strings.TrimSpace(stderr.String()))
	}

	// tesseract writes progress chatter to stderr even on success
	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		slog.Debug("OCR diagnostics", "output", msg)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// Close closes the recognizer (no-op for the CLI engine)
func (t *Tesseract) Close() error {
	return nil
}
