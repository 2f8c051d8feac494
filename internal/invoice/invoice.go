package invoice

import (
	"errors"
	"time"

	"github.com/zombor/invoice-scanner/internal/extraction"
)

// ErrBusy is returned when a document is uploaded while another pipeline run
// is still in flight
var ErrBusy = errors.New("a document is already being processed")

// ErrSubmission is returned when the remote store rejects a record or the
// request fails outright
var ErrSubmission = errors.New("submitting record")

// Submission represents one invoice record accepted by the remote store
type Submission struct {
	ID          string                   `json:"id"`
	Filename    string                   `json:"filename"`
	Record      extraction.InvoiceRecord `json:"record"`
	SubmittedAt time.Time                `json:"submitted_at"`
}
