// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/docforge/buildconf/config/parser"
	"github.com/docforge/buildconf/internal/try"

	"go.opentelemetry.io/otel"
)

// ConfigFilenames are the accepted configuration filenames, in
// priority order.
var ConfigFilenames = []string{"readthedocs.yml", ".readthedocs.yml"}

// ParseFunc turns raw file content into an ordered sequence of raw
// documents. It fails with a *parser.ParseError on malformed input.
type ParseFunc func(io.Reader) ([]map[string]any, error)

type loadOptions struct {
	locator Locator
	parse   ParseFunc
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithLocator overrides how the configuration file is located within
// the project root.
func WithLocator(l Locator) LoadOption {
	return func(lo *loadOptions) {
		lo.locator = l
	}
}

// WithParser overrides how file content is split into raw documents.
func WithParser(p ParseFunc) LoadOption {
	return func(lo *loadOptions) {
		lo.parse = p
	}
}

// Load reads the project configuration from dir and returns the
// validated configs for every document in the file.
//
// Per document the schema version is resolved from its "version" key,
// defaulting to 1. Unless env opts in through "allow_v2" the declared
// version is ignored and every document is validated as version 1, so
// v2 only features never silently activate.
func Load(ctx context.Context, dir string, env EnvConfig, opts ...LoadOption) (*Project, error) {
	tracer := otel.Tracer("config")
	spanCtx, span := tracer.Start(ctx, "Load")
	defer span.End()

	lo := &loadOptions{
		locator: defaultLocator,
		parse:   parser.Parse,
	}
	for _, opt := range opts {
		opt(lo)
	}

	filename, found := lo.locator.Locate(dir, ConfigFilenames)
	if !found {
		return nil, &Error{
			Code:    ConfigRequired,
			Message: fmt.Sprintf("no files %s found", quoteFilenames(ConfigFilenames)),
		}
	}

	docs, err := parseFile(filename, lo.parse)
	if err != nil {
		var perr *parser.ParseError
		if errors.As(err, &perr) {
			return nil, &Error{
				Code:    ConfigSyntaxInvalid,
				Message: fmt.Sprintf("parse error in %s: %s", filename, perr.Message),
			}
		}
		return nil, err
	}

	configs := make([]BuildConfig, 0, len(docs))
	for i, doc := range docs {
		version := any(1)
		if env.AllowV2() {
			if v, ok := doc["version"]; ok {
				version = v
			}
		}
		cfg, err := New(version, env, doc, filename, i)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	project := NewProject(configs...)

	_, vspan := tracer.Start(spanCtx, "Project.Validate")
	err = project.Validate()
	vspan.End()
	if err != nil {
		return nil, err
	}
	return project, nil
}

func parseFile(filename string, parse ParseFunc) (_ []map[string]any, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	defer try.Close(&err, f)

	return parse(f)
}

// New binds a raw document to the schema class for version. Version
// may be an integer or a numeric string; anything unrecognized fails
// with VERSION_INVALID.
func New(version any, env EnvConfig, raw map[string]any, sourceFile string, sourcePosition int) (BuildConfig, error) {
	switch schemaVersion(version) {
	case 1:
		return NewV1(env, raw, sourceFile, sourcePosition)
	case 2:
		return NewV2(env, raw, sourceFile, sourcePosition)
	default:
		return nil, &Error{
			Code:    VersionInvalid,
			Message: "invalid version of the configuration file",
		}
	}
}

func schemaVersion(v any) int {
	switch x := v.(type) {
	case int:
		return x
	case int64:
		return int(x)
	case float64:
		if x == float64(int64(x)) {
			return int(x)
		}
	case string:
		n, err := strconv.Atoi(x)
		if err == nil {
			return n
		}
	}
	return 0
}

func quoteFilenames(filenames []string) string {
	quoted := make([]string, len(filenames))
	for i, name := range filenames {
		quoted[i] = strconv.Quote(name)
	}
	if len(quoted) > 1 {
		return strings.Join(quoted[:len(quoted)-1], ", ") + " or " + quoted[len(quoted)-1]
	}
	return strings.Join(quoted, ", ")
}
