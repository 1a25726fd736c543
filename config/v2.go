// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"github.com/docforge/buildconf/config/validate"
)

// All is the reserved keyword accepted in place of a list for the
// formats, submodules.include and submodules.exclude fields.
const All = "all"

// Supported values for version 2 documents.
var (
	v2Formats           = []any{"htmlzip", "pdf", "epub"}
	v2BuildImages       = []any{"1.0", "2.0", "3.0", "stable", "latest"}
	v2InstallOptions    = []any{"pip", "setup.py"}
	v2DefaultBuildImage = "latest"

	// user facing builder name to internal builder identifier
	v2SphinxBuilders = map[string]string{
		"html":       "sphinx",
		"htmldir":    "sphinx_htmldir",
		"singlehtml": "sphinx_singlehtml",
	}
)

// PythonV2 groups the python settings of a version 2 document.
type PythonV2 struct {
	Version               float64
	Requirements          string
	InstallWithPip        bool
	InstallWithSetup      bool
	ExtraRequirements     []string
	UseSystemSitePackages bool
}

// Conda groups the conda settings of a version 2 document. A nil
// *Conda means the section is absent and conda is disabled.
type Conda struct {
	Environment string
}

// Mkdocs groups the mkdocs settings. A nil *Mkdocs means mkdocs is not
// the doc engine for this document.
type Mkdocs struct {
	Configuration string
	FailOnWarning bool
}

// Sphinx groups the sphinx settings. Sphinx is the default doc engine:
// when neither sphinx nor mkdocs is declared it is synthesized with
// defaults. A nil *Sphinx means mkdocs was chosen instead.
type Sphinx struct {
	Builder       string
	Configuration string
	FailOnWarning bool
}

// Submodules is the git submodule checkout policy. Include and Exclude
// are mutually exclusive; the All keyword sets IncludeAll or
// ExcludeAll instead of listing names.
type Submodules struct {
	Include    []string
	IncludeAll bool
	Exclude    []string
	ExcludeAll bool
	Recursive  bool
}

// V2 is version 2, the current schema of the configuration file.
type V2 struct {
	base

	validated bool

	formats    []string
	conda      *Conda
	build      Build
	python     PythonV2
	mkdocs     *Mkdocs
	sphinx     *Sphinx
	submodules Submodules

	fullVersion float64
}

// NewV2 binds a raw document to the current schema. Validate must be
// called before any accessor is read.
func NewV2(env EnvConfig, raw map[string]any, sourceFile string, sourcePosition int) (*V2, error) {
	b, err := newBase(env, raw, sourceFile, sourcePosition)
	if err != nil {
		return nil, err
	}
	return &V2{base: b}, nil
}

// Version implements the BuildConfig interface.
func (c *V2) Version() int {
	return 2
}

// Validate implements the BuildConfig interface. Order matters: python
// needs the resolved build image, the doc type exclusivity check runs
// before either engine section is parsed, and sphinx defaults to
// enabled only when mkdocs is absent.
func (c *V2) Validate() error {
	formats, err := c.validateFormats()
	if err != nil {
		return err
	}
	conda, err := c.validateConda()
	if err != nil {
		return err
	}
	build, err := c.validateBuild()
	if err != nil {
		return err
	}
	c.build = build

	python, err := c.validatePython()
	if err != nil {
		return err
	}
	err = c.validateDocTypes()
	if err != nil {
		return err
	}
	mkdocs, err := c.validateMkdocs()
	if err != nil {
		return err
	}
	c.mkdocs = mkdocs

	sphinx, err := c.validateSphinx()
	if err != nil {
		return err
	}
	submodules, err := c.validateSubmodules()
	if err != nil {
		return err
	}

	c.formats = formats
	c.conda = conda
	c.python = python
	c.sphinx = sphinx
	c.submodules = submodules
	c.fullVersion = resolveFullVersion(python.Version, c.validPythonVersions())
	c.validated = true
	return nil
}

// validateFormats accepts the All keyword in place of a list. Unlike
// version 1 there is no environment default: per document formats are
// authoritative.
func (c *V2) validateFormats() ([]string, error) {
	raw, ok := c.raw["formats"]
	if !ok {
		return []string{}, nil
	}
	if raw == All {
		all := make([]string, len(v2Formats))
		for i, f := range v2Formats {
			all[i] = f.(string)
		}
		return all, nil
	}

	list, err := validate.List(raw)
	if err != nil {
		return nil, c.wrap("formats", err)
	}
	formats := make([]string, 0, len(list))
	for _, f := range list {
		chosen, err := validate.Choice(f, v2Formats...)
		if err != nil {
			return nil, c.wrap("formats", err)
		}
		formats = append(formats, chosen.(string))
	}
	return formats, nil
}

func (c *V2) validateConda() (*Conda, error) {
	v, ok := c.raw["conda"]
	if !ok || v == nil {
		return nil, nil
	}
	raw, err := validate.Dict(v)
	if err != nil {
		return nil, c.wrap("conda", err)
	}

	environment, err := validate.Required("environment", raw)
	if err != nil {
		return nil, c.wrap("conda.environment", err)
	}
	path, err := validate.File(environment, c.basePath)
	if err != nil {
		return nil, c.wrap("conda.environment", err)
	}
	return &Conda{Environment: path}, nil
}

// validateBuild normalizes the image choice to a fully qualified
// identifier. A project level default image wins unconditionally.
func (c *V2) validateBuild() (Build, error) {
	rawBuild := map[string]any{}
	if v, ok := c.raw["build"]; ok {
		m, err := validate.Dict(v)
		if err != nil {
			return Build{}, c.wrap("build", err)
		}
		rawBuild = m
	}

	image := any(v2DefaultBuildImage)
	if v, ok := rawBuild["image"]; ok {
		image = v
	}
	tag, err := validate.Choice(image, v2BuildImages...)
	if err != nil {
		return Build{}, c.wrap("build.image", err)
	}
	build := Build{Image: dockerDefaultImage + ":" + tag.(string)}

	if c.defaults.BuildImage != "" {
		build.Image = c.defaults.BuildImage
	}
	return build, nil
}

// validPythonVersions looks up the interpreter versions supported by
// the resolved image. Unknown images fall back to the default image's
// table so version validation never becomes vacuous.
func (c *V2) validPythonVersions() []any {
	versions, ok := dockerImageSettings[c.build.Image]
	if !ok {
		versions = dockerImageSettings[dockerDefaultImage+":"+v2DefaultBuildImage]
	}
	return versions
}

func (c *V2) validatePython() (PythonV2, error) {
	rawPython := map[string]any{}
	if v, ok := c.raw["python"]; ok {
		m, err := validate.Dict(v)
		if err != nil {
			return PythonV2{}, c.wrap("python", err)
		}
		rawPython = m
	}

	var python PythonV2

	version := any(3)
	if v, ok := rawPython["version"]; ok {
		version = v
	}
	chosen, err := validate.Choice(coerceVersion(version), c.validPythonVersions()...)
	if err != nil {
		return python, c.wrap("python.version", err)
	}
	python.Version, _ = validate.Number(chosen)

	requirements := any(c.defaults.RequirementsFile)
	if v, ok := rawPython["requirements"]; ok {
		requirements = v
	}
	if requirements != nil && requirements != "" {
		path, err := validate.File(requirements, c.basePath)
		if err != nil {
			return python, c.wrap("python.requirements", err)
		}
		python.Requirements = path
	}

	var install any
	if c.defaults.InstallProject {
		install = "setup.py"
	}
	if v, ok := rawPython["install"]; ok {
		install = v
	}
	if install != nil {
		install, err = validate.Choice(install, v2InstallOptions...)
		if err != nil {
			return python, c.wrap("python.install", err)
		}
	}
	python.InstallWithSetup = install == "setup.py"
	python.InstallWithPip = install == "pip"

	extras := any([]any{})
	if v, ok := rawPython["extra_requirements"]; ok {
		extras = v
	}
	list, err := validate.List(extras)
	if err != nil {
		return python, c.wrap("python.extra_requirements", err)
	}
	if len(list) > 0 && !python.InstallWithPip {
		return python, c.errorf(
			"python.extra_requirements",
			PythonInvalid,
			"you need to install your project with pip to use extra_requirements",
		)
	}
	for _, extra := range list {
		s, err := validate.String(extra)
		if err != nil {
			return python, c.wrap("python.extra_requirements", err)
		}
		python.ExtraRequirements = append(python.ExtraRequirements, s)
	}

	systemPackages := any(c.defaults.UseSystemPackages)
	if v, ok := rawPython["system_packages"]; ok {
		systemPackages = v
	}
	python.UseSystemSitePackages, err = validate.Bool(systemPackages)
	if err != nil {
		return python, c.wrap("python.system_packages", err)
	}

	return python, nil
}

// validateDocTypes rejects documents declaring both doc engines. It
// runs before either section is parsed to short circuit the work.
func (c *V2) validateDocTypes() error {
	_, hasSphinx := c.raw["sphinx"]
	_, hasMkdocs := c.raw["mkdocs"]
	if hasSphinx && hasMkdocs {
		return c.errorf(
			".",
			InvalidKeysCombination,
			"you can not have the sphinx and mkdocs keys at the same time",
		)
	}
	return nil
}

func (c *V2) validateMkdocs() (*Mkdocs, error) {
	v, ok := c.raw["mkdocs"]
	if !ok || v == nil {
		return nil, nil
	}
	raw, err := validate.Dict(v)
	if err != nil {
		return nil, c.wrap("mkdocs", err)
	}

	mkdocs := &Mkdocs{}
	if configuration, ok := raw["configuration"]; ok && configuration != nil {
		path, err := validate.File(configuration, c.basePath)
		if err != nil {
			return nil, c.wrap("mkdocs.configuration", err)
		}
		mkdocs.Configuration = path
	}

	failOnWarning := any(false)
	if v, ok := raw["fail_on_warning"]; ok {
		failOnWarning = v
	}
	mkdocs.FailOnWarning, err = validate.Bool(failOnWarning)
	if err != nil {
		return nil, c.wrap("mkdocs.fail_on_warning", err)
	}
	return mkdocs, nil
}

// validateMkdocs must run first: sphinx defaults to enabled only when
// mkdocs is absent.
func (c *V2) validateSphinx() (*Sphinx, error) {
	var raw map[string]any
	v, ok := c.raw["sphinx"]
	switch {
	case ok && v != nil:
		m, err := validate.Dict(v)
		if err != nil {
			return nil, c.wrap("sphinx", err)
		}
		raw = m
	case c.mkdocs == nil:
		raw = map[string]any{}
	default:
		return nil, nil
	}

	sphinx := &Sphinx{}

	builder := any("html")
	if v, ok := raw["builder"]; ok {
		builder = v
	}
	builderNames := make([]any, 0, len(v2SphinxBuilders))
	for name := range v2SphinxBuilders {
		builderNames = append(builderNames, name)
	}
	chosen, err := validate.Choice(builder, builderNames...)
	if err != nil {
		return nil, c.wrap("sphinx.builder", err)
	}
	sphinx.Builder = v2SphinxBuilders[chosen.(string)]

	var configuration any
	if c.defaults.SphinxConfiguration != "" {
		configuration = c.defaults.SphinxConfiguration
	}
	if v, ok := raw["configuration"]; ok {
		configuration = v
	}
	if configuration != nil {
		path, err := validate.File(configuration, c.basePath)
		if err != nil {
			return nil, c.wrap("sphinx.configuration", err)
		}
		sphinx.Configuration = path
	}

	failOnWarning := any(false)
	if v, ok := raw["fail_on_warning"]; ok {
		failOnWarning = v
	}
	sphinx.FailOnWarning, err = validate.Bool(failOnWarning)
	if err != nil {
		return nil, c.wrap("sphinx.fail_on_warning", err)
	}
	return sphinx, nil
}

func (c *V2) validateSubmodules() (Submodules, error) {
	rawSubmodules := map[string]any{}
	if v, ok := c.raw["submodules"]; ok {
		m, err := validate.Dict(v)
		if err != nil {
			return Submodules{}, c.wrap("submodules", err)
		}
		rawSubmodules = m
	}

	var submodules Submodules

	include := any([]any{})
	if v, ok := rawSubmodules["include"]; ok {
		include = v
	}
	if include == All {
		submodules.IncludeAll = true
	} else {
		list, err := validate.List(include)
		if err != nil {
			return submodules, c.wrap("submodules.include", err)
		}
		for _, name := range list {
			s, err := validate.String(name)
			if err != nil {
				return submodules, c.wrap("submodules.include", err)
			}
			submodules.Include = append(submodules.Include, s)
		}
	}

	exclude := any([]any{})
	if v, ok := rawSubmodules["exclude"]; ok {
		exclude = v
	}
	if exclude == All {
		submodules.ExcludeAll = true
	} else {
		list, err := validate.List(exclude)
		if err != nil {
			return submodules, c.wrap("submodules.exclude", err)
		}
		for _, name := range list {
			s, err := validate.String(name)
			if err != nil {
				return submodules, c.wrap("submodules.exclude", err)
			}
			submodules.Exclude = append(submodules.Exclude, s)
		}
	}

	includes := submodules.IncludeAll || len(submodules.Include) > 0
	excludes := submodules.ExcludeAll || len(submodules.Exclude) > 0
	if includes && excludes {
		return submodules, c.errorf(
			"submodules",
			SubmodulesInvalid,
			"you can not exclude and include submodules at the same time",
		)
	}

	recursive := any(false)
	if v, ok := rawSubmodules["recursive"]; ok {
		recursive = v
	}
	var err error
	submodules.Recursive, err = validate.Bool(recursive)
	if err != nil {
		return submodules, c.wrap("submodules.recursive", err)
	}
	return submodules, nil
}

// Formats are the documentation formats to be built.
func (c *V2) Formats() []string {
	return c.formats
}

// CondaSettings returns the conda settings, nil when conda is disabled.
func (c *V2) CondaSettings() *Conda {
	return c.conda
}

// BuildSettings returns the build environment settings.
func (c *V2) BuildSettings() Build {
	return c.build
}

// Python is the python related configuration.
func (c *V2) Python() PythonV2 {
	return c.python
}

// PythonVersion is the configured interpreter version.
func (c *V2) PythonVersion() float64 {
	return c.python.Version
}

// PythonFullVersion resolves a bare major version to the highest minor
// the build image supports.
func (c *V2) PythonFullVersion() float64 {
	return c.fullVersion
}

// PythonInterpreter is the interpreter identifier, e.g. "python3.6".
func (c *V2) PythonInterpreter() string {
	return "python" + formatVersion(c.fullVersion)
}

// SphinxSettings returns the sphinx settings, nil when mkdocs is the
// doc engine.
func (c *V2) SphinxSettings() *Sphinx {
	return c.sphinx
}

// MkdocsSettings returns the mkdocs settings, nil when sphinx is the
// doc engine.
func (c *V2) MkdocsSettings() *Mkdocs {
	return c.mkdocs
}

// Doctype is the active doc engine: "mkdocs" when its section is
// present, the sphinx builder identifier otherwise.
func (c *V2) Doctype() string {
	if c.mkdocs != nil {
		return "mkdocs"
	}
	return c.sphinx.Builder
}

// SubmodulesPolicy returns the submodule checkout policy.
func (c *V2) SubmodulesPolicy() Submodules {
	return c.submodules
}

// Option implements the BuildConfig interface.
func (c *V2) Option(name string) (any, error) {
	if !c.validated {
		return nil, errNotValidated
	}
	switch name {
	case "formats":
		return c.Formats(), nil
	case "conda":
		return c.CondaSettings(), nil
	case "build":
		return c.BuildSettings(), nil
	case "python":
		return c.Python(), nil
	case "python_version":
		return c.PythonVersion(), nil
	case "python_full_version":
		return c.PythonFullVersion(), nil
	case "python_interpreter":
		return c.PythonInterpreter(), nil
	case "sphinx":
		return c.SphinxSettings(), nil
	case "mkdocs":
		return c.MkdocsSettings(), nil
	case "doctype":
		return c.Doctype(), nil
	case "submodules":
		return c.SubmodulesPolicy(), nil
	default:
		return nil, &OptionNotSupportedError{Option: name}
	}
}
