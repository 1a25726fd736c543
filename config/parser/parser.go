// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package parser reads build configuration files. A single file may
// hold several YAML documents; each one becomes a raw key/value
// mapping, in file order.
package parser

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseError occurs when the file content is not a sequence of YAML mappings.
type ParseError struct {
	Message string
	cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return e.Message
}

// Unwrap implements the implicit interface used by errors.Is and errors.As.
func (e *ParseError) Unwrap() error {
	return e.cause
}

// Parse decodes all documents from r. Each document must be a mapping
// with string keys. Closing r stays with the caller.
func Parse(r io.Reader) ([]map[string]any, error) {
	var docs []map[string]any

	dec := yaml.NewDecoder(r)
	for {
		var raw any
		derr := dec.Decode(&raw)
		if errors.Is(derr, io.EOF) {
			break
		}
		if derr != nil {
			return nil, &ParseError{
				Message: fmt.Sprintf("YAML: %s", derr),
				cause:   derr,
			}
		}

		doc, ok := raw.(map[string]any)
		if !ok {
			return nil, &ParseError{
				Message: fmt.Sprintf("expected mapping, got %v", raw),
			}
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		return nil, &ParseError{Message: "empty config"}
	}
	return docs, nil
}
