// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import "fmt"

// Stable error codes for file level and cross field failures. The
// primitive validators carry their own codes, which InvalidConfigError
// passes through unchanged.
const (
	ConfigNotSupported     = "config-not-supported"
	VersionInvalid         = "version-invalid"
	BaseInvalid            = "base-invalid"
	BaseNotADirectory      = "base-not-a-directory"
	ConfigSyntaxInvalid    = "config-syntax-invalid"
	ConfigRequired         = "config-required"
	EnvInvalid             = "env-invalid"
	NameRequired           = "name-required"
	NameInvalid            = "name-invalid"
	ConfFileRequired       = "conf-file-required"
	PythonInvalid          = "python-invalid"
	SubmodulesInvalid      = "submodules-invalid"
	InvalidKeysCombination = "invalid-keys-combination"
)

// Error is a file level configuration failure: no configuration file
// found, a syntax error, or an unsupported schema version.
type Error struct {
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// OptionNotSupportedError occurs when reading a configuration option
// which is not defined for the active schema version.
type OptionNotSupportedError struct {
	Option string
}

// Error implements the error interface.
func (e *OptionNotSupportedError) Error() string {
	return fmt.Sprintf("the %q configuration option is not supported in this version", e.Option)
}

// Code returns the stable code shared by all unsupported option failures.
func (e *OptionNotSupportedError) Code() string {
	return ConfigNotSupported
}

// InvalidConfigError occurs when a specific key fails validation. It
// carries everything needed to point a user at the offending part of
// their configuration: the dotted key path, the originating validator
// code and the source location.
type InvalidConfigError struct {
	Key            string
	Code           string
	SourceFile     string
	SourcePosition int
	Message        string
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %q: %s", e.Key, e.Message)
}
