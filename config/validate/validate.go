// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package validate implements the primitive value checks shared by all
// build configuration schemas. Each check either returns a normalized
// value or fails with an *Error carrying a stable code.
package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
)

// Stable codes reported by the primitive validators.
const (
	InvalidBool      = "invalid-bool"
	InvalidChoice    = "invalid-choice"
	InvalidList      = "invalid-list"
	InvalidDict      = "invalid-dictionary"
	InvalidDirectory = "invalid-directory"
	InvalidFile      = "invalid-file"
	InvalidPath      = "invalid-path"
	InvalidString    = "invalid-string"
	ValueNotFound    = "value-not-found"
)

// Error is a failed primitive check.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

func errorf(code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Bool checks that value is a boolean. The integers 0 and 1 are
// accepted as aliases for false and true.
func Bool(value any) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		if v == 0 || v == 1 {
			return v == 1, nil
		}
	}
	return false, errorf(InvalidBool, "expected one of (0, 1, true, false), got %v", value)
}

// String checks that value is a string.
func String(value any) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", errorf(InvalidString, "expected string, got %v", value)
	}
	return s, nil
}

// List checks that value is a list.
func List(value any) ([]any, error) {
	switch v := value.(type) {
	case []any:
		return v, nil
	case []string:
		l := make([]any, len(v))
		for i, s := range v {
			l[i] = s
		}
		return l, nil
	}
	return nil, errorf(InvalidList, "expected list, got %v", value)
}

// Dict checks that value is a mapping with string keys.
func Dict(value any) (map[string]any, error) {
	m, ok := value.(map[string]any)
	if !ok {
		return nil, errorf(InvalidDict, "expected dictionary, got %v", value)
	}
	return m, nil
}

// Choice checks that value is one of choices. Numeric values are
// compared by value, so a document stating 2.0 matches a supported
// version listed as 2.
func Choice(value any, choices ...any) (any, error) {
	for _, choice := range choices {
		if equal(value, choice) {
			return choice, nil
		}
	}
	return nil, errorf(InvalidChoice, "expected one of (%s), got %v", formatChoices(choices), value)
}

// Required checks that key is present in raw and returns its value.
func Required(key string, raw map[string]any) (any, error) {
	value, ok := raw[key]
	if !ok {
		return nil, errorf(ValueNotFound, "key %s not found", key)
	}
	return value, nil
}

// File checks that value names an existing file, resolved against
// basePath, and returns its absolute path.
func File(value any, basePath string) (string, error) {
	path, err := resolvePath(value, basePath)
	if err != nil {
		return "", err
	}
	info, serr := os.Stat(path)
	if serr != nil || info.IsDir() {
		return "", errorf(InvalidFile, "path %s does not exist", path)
	}
	return path, nil
}

// Directory checks that value names an existing directory, resolved
// against basePath, and returns its absolute path.
func Directory(value any, basePath string) (string, error) {
	path, err := resolvePath(value, basePath)
	if err != nil {
		return "", err
	}
	info, serr := os.Stat(path)
	if serr != nil || !info.IsDir() {
		return "", errorf(InvalidDirectory, "path %s is not a directory", path)
	}
	return path, nil
}

func resolvePath(value any, basePath string) (string, error) {
	s, err := String(value)
	if err != nil {
		return "", err
	}
	if !filepath.IsAbs(s) {
		s = filepath.Join(basePath, s)
	}
	abs, aerr := filepath.Abs(s)
	if aerr != nil {
		return "", errorf(InvalidPath, "path %s could not be resolved", s)
	}
	return abs, nil
}

func equal(a, b any) bool {
	af, aok := Number(a)
	bf, bok := Number(b)
	if aok || bok {
		return aok && bok && af == bf
	}
	return reflect.DeepEqual(a, b)
}

// Number reports value as a float64 when it is any numeric type.
func Number(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	}
	return 0, false
}

func formatChoices(choices []any) string {
	parts := make([]string, len(choices))
	for i, c := range choices {
		parts[i] = fmt.Sprintf("%v", c)
	}
	return strings.Join(parts, ", ")
}
