package extraction

import "fmt"

// invoicePromptTemplate is the versioned contract shared by all completion
// providers. The key order and shape are what the remote store expects back;
// changing either changes the wire contract of the whole pipeline.
const invoicePromptTemplate = `You are an AI assistant that extracts structured invoice data from the provided text. Analyse the provided text and only return JSON in this format:
{
  "invoice_number": "",
  "supplier": "",
  "invoice_date": "",
  "due_date": "",
  "total_amount": 0,
  "currency": "",
  "description": "",
  "po": "",
  "IGST": "",
  "CGST": "",
  "SGST": ""
}
Text: %s`

// BuildPrompt constructs the extraction prompt for a piece of recognized text.
// The text is appended verbatim; an empty string is a legal subject and
// legitimately yields an all-empty record.
func BuildPrompt(rawText string) string {
	return fmt.Sprintf(invoicePromptTemplate, rawText)
}

// SynthesizeRecord converts recognized text into a structured invoice record
// by prompting a completion provider and strictly parsing its reply.
func SynthesizeRecord(completer Completer, rawText string) (*InvoiceRecord, error) {
	reply, err := completer.Complete(BuildPrompt(rawText))
	if err != nil {
		return nil, err
	}

	record, err := parseInvoiceJSON(reply)
	if err != nil {
		return nil, err
	}

	return record, nil
}
