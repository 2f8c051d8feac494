package invoice

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/zombor/invoice-scanner/internal/extraction"
)

// IDGenerator generates unique IDs for submissions
type IDGenerator interface {
	Generate() string
}

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultIDGenerator generates IDs using UnixNano timestamp
type defaultIDGenerator struct{}

func (g *defaultIDGenerator) Generate() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// Service drives the document-to-record pipeline. At most one document is in
// flight at a time; the busy flag is the only shared state and it is owned
// exclusively by ProcessDocument.
type Service struct {
	recognizer  extraction.Recognizer
	completer   extraction.Completer
	submitter   Submitter
	db          DB
	idGenerator IDGenerator
	timeSource  TimeSource
	busy        atomic.Bool
}

// NewService creates a new Service with default ID generator and time source
func NewService(recognizer extraction.Recognizer, completer extraction.Completer, submitter Submitter, db DB) *Service {
	return &Service{
		recognizer:  recognizer,
		completer:   completer,
		submitter:   submitter,
		db:          db,
		idGenerator: &defaultIDGenerator{},
		timeSource:  &defaultTimeSource{},
	}
}

// NewServiceWithDeps creates a new Service with custom dependencies for testing
func NewServiceWithDeps(recognizer extraction.Recognizer, completer extraction.Completer, submitter Submitter, db DB, idGen IDGenerator, timeSrc TimeSource) *Service {
	return &Service{
		recognizer:  recognizer,
		completer:   completer,
		submitter:   submitter,
		db:          db,
		idGenerator: idGen,
		timeSource:  timeSrc,
	}
}

// Busy reports whether a pipeline run is currently in flight
func (s *Service) Busy() bool {
	return s.busy.Load()
}

// ProcessDocument runs one uploaded document through the full pipeline:
// rasterize, recognize text, synthesize a record, submit it to the remote
// store. Stages run strictly in sequence and the first failure aborts the
// rest. The busy flag is cleared on every exit path.
func (s *Service) ProcessDocument(filename string, data []byte, contentType string) (*Submission, error) {
	if !s.busy.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer s.busy.Store(false)

	bitmap, err := extraction.Rasterize(data, contentType)
	if err != nil {
		slog.Error("Failed to rasterize document",
			"filename", filename,
			"content_type", contentType,
			"file_size", len(data),
			"error", err,
		)
		return nil, err
	}

	rawText, err := s.recognizer.RecognizeText(bitmap)
	if err != nil {
		slog.Error("Failed to recognize text", "filename", filename, "error", err)
		return nil, err
	}

	record, err := extraction.SynthesizeRecord(s.completer, rawText)
	if err != nil {
		slog.Error("Failed to synthesize record", "filename", filename, "error", err)
		return nil, err
	}

	// Submission happens only once a fully-parsed record exists
	if err := s.submitter.SubmitRecord(record); err != nil {
		slog.Error("Failed to submit record", "filename", filename, "error", err)
		return nil, err
	}

	submission := &Submission{
		ID:          s.idGenerator.Generate(),
		Filename:    filename,
		Record:      *record,
		SubmittedAt: s.timeSource.Now(),
	}

	// The remote store already accepted the record, so a local history
	// failure is logged rather than failing the run
	if err := s.db.SaveSubmission(submission); err != nil {
		slog.Warn("Failed to save submission history", "id", submission.ID, "error", err)
	}

	return submission, nil
}

// GetSubmission retrieves a submission by ID
func (s *Service) GetSubmission(id string) (*Submission, error) {
	submission, err := s.db.GetSubmission(id)
	if err != nil {
		return nil, fmt.Errorf("getting submission: %w", err)
	}
	return submission, nil
}

// ListSubmissions returns all submissions
func (s *Service) ListSubmissions() ([]*Submission, error) {
	submissions, err := s.db.ListSubmissions()
	if err != nil {
		return nil, fmt.Errorf("listing submissions: %w", err)
	}
	return submissions, nil
}

// DeleteSubmission removes a submission from the local history
func (s *Service) DeleteSubmission(id string) error {
	if _, err := s.db.GetSubmission(id); err != nil {
		return fmt.Errorf("getting submission for deletion: %w", err)
	}
	if err := s.db.DeleteSubmission(id); err != nil {
		return fmt.Errorf("deleting submission: %w", err)
	}
	return nil
}
