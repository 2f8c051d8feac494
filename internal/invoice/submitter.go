package invoice

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zombor/invoice-scanner/internal/extraction"
)

// Submitter defines the interface for persisting records to the remote store
type Submitter interface {
	// SubmitRecord sends a fully-parsed record to the remote store
	SubmitRecord(record *extraction.InvoiceRecord) error
	// Close closes the submitter and releases resources
	Close() error
}

// SheetsSubmitter implements the Submitter interface against a spreadsheet
// web-app endpoint that accepts form-encoded rows
type SheetsSubmitter struct {
	endpoint string
	client   *http.Client
}

// NewSheetsSubmitter creates a new SheetsSubmitter instance
func NewSheetsSubmitter(endpoint string) (*SheetsSubmitter, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("sheets endpoint is required")
	}

	return &SheetsSubmitter{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// formValues serializes a record as form key/value pairs, one entry per
// schema field. The keys are the columns the remote sheet expects.
func formValues(record *extraction.InvoiceRecord) url.Values {
	return url.Values{
		"invoice_number": {record.InvoiceNumber},
		"supplier":       {record.Supplier},
		"invoice_date":   {record.InvoiceDate},
		"due_date":       {record.DueDate},
		"total_amount":   {strconv.FormatFloat(record.TotalAmount, 'f', -1, 64)},
		"currency":       {record.Currency},
		"description":    {record.Description},
		"po":             {record.PurchaseOrder},
		"IGST":           {record.IGST},
		"CGST":           {record.CGST},
		"SGST":           {record.SGST},
	}
}

// SubmitRecord posts the record once. HTTP 200 is the only success; there is
// no retry and no idempotency key, so resubmitting an identical record
// appends a new row.
func (s *SheetsSubmitter) SubmitRecord(record *extraction.InvoiceRecord) error {
	body := formValues(record).Encode()

	resp, err := s.client.Post(s.endpoint, "application/x-www-form-urlencoded", strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSubmission, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: remote store returned status %d", ErrSubmission, resp.StatusCode)
	}

	return nil
}

// Close closes the submitter (no-op for HTTP client)
func (s *SheetsSubmitter) Close() error {
	return nil
}
