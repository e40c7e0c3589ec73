package nfe

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strconv"
	"strings"
)

// detElement mirrors the repeating item-detail block of an NF-e document.
// Every product field is decoded as raw text so missing or malformed values
// can fall back per field instead of failing the whole document.
type detElement struct {
	Prod *prodElement `xml:"prod"`
}

type prodElement struct {
	EAN         string `xml:"cEAN"`
	Description string `xml:"xProd"`
	NCM         string `xml:"NCM"`
	CFOP        string `xml:"CFOP"`
	Unit        string `xml:"uCom"`
	Quantity    string `xml:"qCom"`
	UnitValue   string `xml:"vUnCom"`
}

// Parse extracts the line items of an NF-e document. It walks the token
// stream so <det> elements are found at any depth (with or without the
// <nfeProc> wrapper). Malformed XML yields a *ParseError, a document without
// line items yields ErrNoItems; a <det> without a <prod> block is dropped.
func Parse(doc []byte) ([]LineItem, error) {
	dec := xml.NewDecoder(bytes.NewReader(doc))

	var items []LineItem
	sawElement := false
	sawDet := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawElement = true
		if start.Name.Local != "det" || start.Name.Space != Namespace {
			continue
		}
		sawDet = true

		var det detElement
		if err := dec.DecodeElement(&det, &start); err != nil {
			return nil, &ParseError{Err: err}
		}
		if det.Prod == nil {
			continue
		}
		items = append(items, newLineItem(det.Prod))
	}

	if !sawElement {
		return nil, &ParseError{Err: errors.New("document contains no XML elements")}
	}
	if !sawDet {
		return nil, ErrNoItems
	}
	return items, nil
}

func newLineItem(prod *prodElement) LineItem {
	return LineItem{
		Code:        fieldOrDefault(prod.EAN, CodeNone),
		Description: strings.TrimSpace(prod.Description),
		Quantity:    wholeUnits(prod.Quantity),
		UnitCost:    amount(prod.UnitValue),
		Unit:        fieldOrDefault(prod.Unit, DefaultUnit),
		NCM:         fieldOrDefault(prod.NCM, DefaultNCM),
		CFOP:        fieldOrDefault(prod.CFOP, DefaultCFOP),
	}
}

// fieldOrDefault is the single accessor for optional text fields: blank or
// absent values take the declared fallback.
func fieldOrDefault(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

// wholeUnits coerces the fiscal quantity (a decimal string such as
// "10.0000") to a whole-unit count. Missing or non-numeric values become 0.
func wholeUnits(value string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// amount parses a monetary value, falling back to 0 on malformed input.
func amount(value string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0
	}
	return f
}
