package s3

import "strings"

type Document struct {
	ID   string       `json:"id"`
	Data []byte       `json:"data"`
	Kind DocumentKind `json:"kind"`
	Type DocumentType `json:"type"`
}

type DocumentKind string

const (
	DocumentKindPdf DocumentKind = "pdf"
)

type DocumentType string

const (
	DocumentTypeInvoice DocumentType = "invoice"
)

// NewPdfDocument wraps rendered bytes; a trailing .pdf on id is dropped since
// the object key adds it back
func NewPdfDocument(id string, data []byte, docType DocumentType) *Document {
	return &Document{
		ID:   strings.TrimSuffix(id, ".pdf"),
		Data: data,
		Kind: DocumentKindPdf,
		Type: docType,
	}
}
