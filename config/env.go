// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// EnvConfig holds project and environment level defaults supplied by
// the caller. Recognized top level keys:
//
//   - "defaults": per project defaults, see Defaults
//   - "allow_v2": opt in flag for schema version 2
//   - "output_base": base directory for build output (schema v1)
//   - "name": fallback project name (schema v1)
//   - "build": default build settings, e.g. {"image": "readthedocs/build:2.0"}
//   - "python": {"supported_versions": [...]} interpreter whitelist (schema v1)
//   - "docker_image_settings": per image overrides of the supported
//     version table, keyed by fully qualified image name
//
// The map is read only: validation never writes into it, so the same
// EnvConfig may be reused across Load calls.
type EnvConfig map[string]any

// Defaults are the per project defaults nested under the "defaults"
// key of an EnvConfig.
type Defaults struct {
	Name                string   `config:"name"`
	BuildImage          string   `config:"build_image"`
	InstallProject      bool     `config:"install_project"`
	UseSystemPackages   bool     `config:"use_system_packages"`
	PythonVersion       any      `config:"python_version"`
	RequirementsFile    string   `config:"requirements_file"`
	Formats             []string `config:"formats"`
	SphinxConfiguration string   `config:"sphinx_configuration"`
}

// AllowV2 reports whether the environment opts into schema version 2.
// Without it every document is validated as version 1, whatever the
// document itself declares.
func (e EnvConfig) AllowV2() bool {
	b, _ := e["allow_v2"].(bool)
	return b
}

// Defaults decodes the "defaults" key into its typed form.
func (e EnvConfig) Defaults() (Defaults, error) {
	var d Defaults
	raw, ok := e["defaults"]
	if !ok || raw == nil {
		return d, nil
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           &d,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return d, err
	}
	err = dec.Decode(raw)
	if err != nil {
		return d, &Error{
			Code:    EnvInvalid,
			Message: fmt.Sprintf("invalid defaults: %s", err),
		}
	}
	return d, nil
}

// supportedVersions extracts a {"supported_versions": [...]} list from
// a python settings mapping.
func supportedVersions(v any) ([]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	l, ok := m["supported_versions"].([]any)
	return l, ok
}

// imageOverride looks up the caller supplied per image override table
// for the given image and returns its supported version list.
func (e EnvConfig) imageOverride(image string) ([]any, bool) {
	table, ok := e["docker_image_settings"].(map[string]any)
	if !ok {
		return nil, false
	}
	entry, ok := table[image].(map[string]any)
	if !ok {
		return nil, false
	}
	return supportedVersions(entry["python"])
}
