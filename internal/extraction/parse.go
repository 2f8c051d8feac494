package extraction

import (
	"encoding/json"
	"fmt"
	"strings"
)

// stripFence removes an optional markdown code-block wrapper from a model
// reply. Only replies that start with a ```json fence are touched: the
// opening marker and a trailing closing marker are dropped. Everything else
// passes through unchanged, so stripping is idempotent.
func stripFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```json") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// parseInvoiceJSON parses a completion reply strictly as JSON into an
// InvoiceRecord. There is no coercion of partial replies: anything that is
// not valid JSON after fence stripping aborts the run.
func parseInvoiceJSON(text string) (*InvoiceRecord, error) {
	text = stripFence(text)

	var record InvoiceRecord
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}

	return &record, nil
}
