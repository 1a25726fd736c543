// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config loads, versions and validates a project's build
// configuration file ahead of a documentation build.
//
// A configuration file may hold several documents; each one is
// validated against a schema version (1 or 2) and the results are
// collected, in file order, into a Project. Validation is strict and
// fails on the first offending key, reporting the source file, the
// document position within that file, the dotted key path and a stable
// machine-readable code.
//
// The usual entry point is Load:
//
//	project, err := config.Load(ctx, root, config.EnvConfig{
//	    "allow_v2": true,
//	    "defaults": map[string]any{
//	        "requirements_file": "requirements.txt",
//	    },
//	})
//
// Environment-supplied defaults flow in through EnvConfig and shape
// validation at every schema level. The caller's map is never mutated.
package config
