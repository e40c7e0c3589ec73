// Package nfe extracts inventory line items from Brazilian electronic
// fiscal invoice (NF-e) XML documents.
package nfe

import "errors"

// Namespace of the NF-e schema; item elements outside it are ignored.
const Namespace = "http://www.portalfiscal.inf.br/nfe"

// CodeNone is the sentinel product code used when a line item carries no
// EAN/GTIN, matching the placeholder the fiscal schema itself uses.
const CodeNone = "SEM GTIN"

// Fallbacks for optional line-item fields.
const (
	DefaultUnit = "UN"
	DefaultNCM  = "00000000"
	DefaultCFOP = "5102"
)

// ErrNoItems is returned for a well-formed document with no <det> line items.
var ErrNoItems = errors.New("no invoice items found")

// ParseError wraps an XML decoding failure; the document produced no items.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "malformed invoice XML: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LineItem is one <det>/<prod> entry of an invoice, normalized with the
// defaults above. It exists only for the duration of one import.
type LineItem struct {
	Code        string
	Description string
	Quantity    int
	UnitCost    float64
	Unit        string
	NCM         string
	CFOP        string
}
