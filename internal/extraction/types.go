package extraction

// InvoiceRecord is the structured output of the pipeline. Every field is
// present in every record; values the model could not find unmarshal to the
// zero value, never a missing key.
type InvoiceRecord struct {
	InvoiceNumber string  `json:"invoice_number"`
	Supplier      string  `json:"supplier"`
	InvoiceDate   string  `json:"invoice_date"`
	DueDate       string  `json:"due_date"`
	TotalAmount   float64 `json:"total_amount"`
	Currency      string  `json:"currency"`
	Description   string  `json:"description"`
	PurchaseOrder string  `json:"po"`
	IGST          string  `json:"IGST"`
	CGST          string  `json:"CGST"`
	SGST          string  `json:"SGST"`
}

// Recognizer defines the interface for OCR operations
type Recognizer interface {
	// RecognizeText runs OCR on a bitmap and returns the recognized text
	RecognizeText(imageData []byte) (string, error)
	// Close closes the recognizer and releases resources
	Close() error
}

// Completer defines the interface for text-completion providers
type Completer interface {
	// Complete submits a prompt and returns the first completion's text
	Complete(prompt string) (string, error)
	// Close closes the completer and releases resources
	Close() error
}
