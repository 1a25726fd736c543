// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/docforge/buildconf/config/validate"
)

// BuildConfig is one configuration document bound to a schema version.
// Validate must be called before any field accessor is read; Load does
// this and never returns a partially validated config.
type BuildConfig interface {
	// Version is the schema version the document is validated against.
	Version() int

	// Validate checks every field of the document in schema order and
	// populates the typed accessors. The first failing key aborts with
	// an *InvalidConfigError.
	Validate() error

	// Source returns the configuration file path and the zero based
	// position of this document within it.
	Source() (file string, position int)

	// Option reads a field by its document key. Names the active
	// schema version does not define fail with *OptionNotSupportedError,
	// making cross version reads a first class, catchable error.
	Option(name string) (any, error)
}

// Build groups the build environment settings of a document.
type Build struct {
	// Image is the fully qualified docker image used by the builders.
	Image string
}

// errNotValidated guards field reads on a config whose Validate has
// not completed. Load never exposes such a config.
var errNotValidated = errors.New("configuration has not been validated")

// base carries what every schema version shares: the raw document, the
// environment defaults and the source attribution used in errors.
type base struct {
	env            EnvConfig
	defaults       Defaults
	raw            map[string]any
	sourceFile     string
	sourcePosition int
	basePath       string
}

func newBase(env EnvConfig, raw map[string]any, sourceFile string, sourcePosition int) (base, error) {
	defaults, err := env.Defaults()
	if err != nil {
		return base{}, err
	}
	return base{
		env:            env,
		defaults:       defaults,
		raw:            raw,
		sourceFile:     sourceFile,
		sourcePosition: sourcePosition,
		basePath:       filepath.Dir(sourceFile),
	}, nil
}

// Source returns the configuration file and the document position
// within it.
func (b *base) Source() (string, int) {
	return b.sourceFile, b.sourcePosition
}

// errorf fails validation of key, prefixing the message with the
// source file and document position.
func (b *base) errorf(key, code, format string, args ...any) error {
	return &InvalidConfigError{
		Key:            key,
		Code:           code,
		SourceFile:     b.sourceFile,
		SourcePosition: b.sourcePosition,
		Message: fmt.Sprintf(
			"%s [%d]: %s",
			b.sourceFile,
			b.sourcePosition,
			fmt.Sprintf(format, args...),
		),
	}
}

// wrap translates a primitive validator failure into an
// *InvalidConfigError for key, preserving the validator's code and
// message. Errors which are already config errors pass through
// untouched, so wrap may scope a block with any number of validator
// calls.
func (b *base) wrap(key string, err error) error {
	if err == nil {
		return nil
	}
	var verr *validate.Error
	if errors.As(err, &verr) {
		return &InvalidConfigError{
			Key:            key,
			Code:           verr.Code,
			SourceFile:     b.sourceFile,
			SourcePosition: b.sourcePosition,
			Message:        verr.Message,
		}
	}
	return err
}

// coerceVersion applies the version coercion policy: strings are tried
// as an integer first, then a float; anything else is passed through
// for the choice validator to reject.
func coerceVersion(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return v
}

// resolveFullVersion resolves a bare major version (2 or 3) to the
// highest minor of that series the active image supports. Exact
// versions resolve to themselves.
func resolveFullVersion(version float64, supported []any) float64 {
	if version != 2 && version != 3 {
		return version
	}
	full := version
	for _, v := range supported {
		f, ok := validate.Number(v)
		if ok && f < version+1 && f > full {
			full = f
		}
	}
	return full
}

// formatVersion renders a resolved version the way users write it:
// "2", "2.7", "3.5".
func formatVersion(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// stringify renders a raw scalar for choice validation against string
// whitelists. YAML hands numeric looking tags such as 2.0 over as
// floats, which users still mean as the string "2.0".
func stringify(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatFloat(x, 'f', 1, 64)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", x)
	}
}
