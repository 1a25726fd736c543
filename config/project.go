// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

// Project is the ordered collection of build configs coming from one
// configuration file, in document order. It is non empty after a
// successful Load.
type Project struct {
	configs []BuildConfig
}

// NewProject wraps the given build configs, preserving their order.
func NewProject(configs ...BuildConfig) *Project {
	return &Project{configs: configs}
}

// Validate validates every member in file order and propagates the
// first failure. There is no partial success: one bad document
// invalidates the whole project.
func (p *Project) Validate() error {
	for _, c := range p.configs {
		err := c.Validate()
		if err != nil {
			return err
		}
	}
	return nil
}

// Configs returns the build configs in document order.
func (p *Project) Configs() []BuildConfig {
	return p.configs
}

// Len returns the number of documents in the project.
func (p *Project) Len() int {
	return len(p.configs)
}
