// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/docforge/buildconf/config/validate"
)

var nameRe = regexp.MustCompile(`^[-_.0-9a-zA-Z]+$`)

// Supported values for version 1 documents.
var (
	v1PythonVersions = []any{2, 2.7, 3, 3.5}
	v1BuildImages    = []any{"1.0", "2.0", "latest"}
	v1Formats        = []any{"htmlzip", "pdf", "epub"}
)

// PythonV1 groups the python settings of a version 1 document.
type PythonV1 struct {
	Version               float64
	UseSystemSitePackages bool
	PipInstall            bool
	ExtraRequirements     []string
	SetupPyInstall        bool
	SetupPyPath           string
}

// CondaV1 groups the conda settings of a version 1 document. A nil
// *CondaV1 means the section is absent and conda is disabled, which is
// distinct from a present but empty section.
type CondaV1 struct {
	File string
}

// V1 is version 1, the legacy schema of the configuration file.
type V1 struct {
	base

	validated bool

	name             string
	baseDir          string
	outputBase       string
	build            Build
	python           PythonV1
	formats          []string
	conda            *CondaV1
	requirementsFile string

	// resolved during validateBuild; bounds python.version and drives
	// the interpreter derivation.
	pythonSupport []any
	fullVersion   float64
}

// NewV1 binds a raw document to the legacy schema. Validate must be
// called before any accessor is read.
func NewV1(env EnvConfig, raw map[string]any, sourceFile string, sourcePosition int) (*V1, error) {
	b, err := newBase(env, raw, sourceFile, sourcePosition)
	if err != nil {
		return nil, err
	}
	return &V1{base: b}, nil
}

// Version implements the BuildConfig interface.
func (c *V1) Version() int {
	return 1
}

// Validate implements the BuildConfig interface. Fields run in a fixed
// dependency order: python validation needs the build image resolved
// first to bound the valid interpreter versions.
func (c *V1) Validate() error {
	outputBase, err := c.validateOutputBase()
	if err != nil {
		return err
	}
	build, support, err := c.validateBuild()
	if err != nil {
		return err
	}
	c.pythonSupport = support

	name, err := c.validateName()
	if err != nil {
		return err
	}
	baseDir, err := c.validateBase()
	if err != nil {
		return err
	}
	python, err := c.validatePython()
	if err != nil {
		return err
	}
	formats, err := c.validateFormats()
	if err != nil {
		return err
	}
	conda, err := c.validateConda()
	if err != nil {
		return err
	}
	requirements, err := c.validateRequirementsFile()
	if err != nil {
		return err
	}

	c.outputBase = outputBase
	c.build = build
	c.name = name
	c.baseDir = baseDir
	c.python = python
	c.formats = formats
	c.conda = conda
	c.requirementsFile = requirements
	c.fullVersion = resolveFullVersion(python.Version, c.pythonSupport)
	c.validated = true
	return nil
}

func (c *V1) validateOutputBase() (string, error) {
	out := c.basePath
	if v, ok := c.env["output_base"].(string); ok && v != "" {
		out = v
	}
	abs, err := filepath.Abs(out)
	if err != nil {
		return "", c.errorf("output_base", BaseInvalid, "invalid value for output_base: %s", out)
	}
	return abs, nil
}

// validateBuild resolves the build image and the effective interpreter
// support list. Priority order: the environment's interpreter
// whitelist, then the known settings for the chosen image, then the
// caller's per image override table. The project level default image,
// when set, wins over the document's choice but does not change which
// support table was merged.
func (c *V1) validateBuild() (Build, []any, error) {
	image := dockerImage
	if b, ok := c.env["build"].(map[string]any); ok {
		if img, ok := b["image"].(string); ok && img != "" {
			image = img
		}
	}

	if b, ok := c.raw["build"].(map[string]any); ok {
		if img, ok := b["image"]; ok {
			tag, err := validate.Choice(stringify(img), v1BuildImages...)
			if err != nil {
				return Build{}, nil, c.wrap("build", err)
			}
			image = tag.(string)
		}
	}
	if !strings.Contains(image, ":") {
		image = dockerDefaultImage + ":" + image
	}

	support := v1PythonVersions
	if vs, ok := supportedVersions(c.env["python"]); ok {
		support = vs
	}
	if vs, ok := dockerImageSettings[image]; ok {
		support = vs
	}
	if vs, ok := c.env.imageOverride(image); ok {
		support = vs
	}

	if c.defaults.BuildImage != "" {
		image = c.defaults.BuildImage
	}
	return Build{Image: image}, support, nil
}

func (c *V1) validateName() (string, error) {
	name, _ := c.raw["name"].(string)
	if name == "" {
		name, _ = c.env["name"].(string)
	}
	if name == "" {
		return "", c.errorf("name", NameRequired, "missing key %q", "name")
	}
	if !nameRe.MatchString(name) {
		return "", c.errorf(
			"name",
			NameInvalid,
			"invalid name %q, valid values must match %s",
			name,
			nameRe,
		)
	}
	return name, nil
}

func (c *V1) validateBase() (string, error) {
	raw := any(c.basePath)
	if v, ok := c.raw["base"]; ok {
		raw = v
	}
	dir, err := validate.Directory(raw, c.basePath)
	if err != nil {
		return "", c.wrap("base", err)
	}
	return dir, nil
}

func (c *V1) validatePython() (PythonV1, error) {
	version := 2.0
	if v, ok := validate.Number(coerceVersion(c.defaults.PythonVersion)); ok {
		version = v
	}
	python := PythonV1{
		UseSystemSitePackages: c.defaults.UseSystemPackages,
		SetupPyInstall:        c.defaults.InstallProject,
		SetupPyPath:           filepath.Join(c.basePath, "setup.py"),
		Version:               version,
	}

	v, ok := c.raw["python"]
	if !ok {
		return python, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return python, c.errorf("python", PythonInvalid, "%q section must be a mapping", "python")
	}

	if v, ok := raw["use_system_site_packages"]; ok {
		b, err := validate.Bool(v)
		if err != nil {
			return python, c.wrap("python.use_system_site_packages", err)
		}
		python.UseSystemSitePackages = b
	}

	if v, ok := raw["pip_install"]; ok {
		b, err := validate.Bool(v)
		if err != nil {
			return python, c.wrap("python.pip_install", err)
		}
		python.PipInstall = b
	}

	if v, ok := raw["extra_requirements"]; ok {
		list, lok := v.([]any)
		if !lok {
			return python, c.errorf(
				"python.extra_requirements",
				PythonInvalid,
				"%q section must be a list",
				"python.extra_requirements",
			)
		}
		for _, extra := range list {
			s, err := validate.String(extra)
			if err != nil {
				return python, c.wrap("python.extra_requirements", err)
			}
			python.ExtraRequirements = append(python.ExtraRequirements, s)
		}
	}

	if v, ok := raw["setup_py_install"]; ok {
		b, err := validate.Bool(v)
		if err != nil {
			return python, c.wrap("python.setup_py_install", err)
		}
		python.SetupPyInstall = b
	}

	if v, ok := raw["setup_py_path"]; ok {
		path, err := validate.File(v, c.basePath)
		if err != nil {
			return python, c.wrap("python.setup_py_path", err)
		}
		python.SetupPyPath = path
	}

	if v, ok := raw["version"]; ok {
		chosen, err := validate.Choice(coerceVersion(v), c.pythonSupport...)
		if err != nil {
			return python, c.wrap("python.version", err)
		}
		python.Version, _ = validate.Number(chosen)
	}

	return python, nil
}

func (c *V1) validateFormats() ([]string, error) {
	v, ok := c.raw["formats"]
	if !ok || v == nil {
		return append([]string(nil), c.defaults.Formats...), nil
	}

	list, err := validate.List(v)
	if err != nil {
		return nil, c.wrap("format", err)
	}
	if len(list) == 1 && list[0] == "none" {
		return []string{}, nil
	}

	formats := make([]string, 0, len(list))
	for _, f := range list {
		chosen, err := validate.Choice(f, v1Formats...)
		if err != nil {
			return nil, c.wrap("format", err)
		}
		formats = append(formats, chosen.(string))
	}
	return formats, nil
}

func (c *V1) validateConda() (*CondaV1, error) {
	v, ok := c.raw["conda"]
	if !ok {
		return nil, nil
	}
	raw, ok := v.(map[string]any)
	if !ok {
		return nil, c.errorf("conda", PythonInvalid, "%q section must be a mapping", "python")
	}

	conda := &CondaV1{}
	if file, ok := raw["file"]; ok {
		path, err := validate.File(file, c.basePath)
		if err != nil {
			return nil, c.wrap("conda.file", err)
		}
		conda.File = path
	}
	return conda, nil
}

func (c *V1) validateRequirementsFile() (string, error) {
	raw, ok := c.raw["requirements_file"]
	if !ok {
		raw = c.defaults.RequirementsFile
	}
	if raw == nil || raw == "" {
		return "", nil
	}
	_, err := validate.File(raw, c.basePath)
	if err != nil {
		return "", c.wrap("requirements_file", err)
	}
	s, _ := raw.(string)
	return s, nil
}

// Name is the project name.
func (c *V1) Name() string {
	return c.name
}

// Base is the base directory of the project.
func (c *V1) Base() string {
	return c.baseDir
}

// OutputBase is the absolute base directory for build output.
func (c *V1) OutputBase() string {
	return c.outputBase
}

// Formats are the documentation formats to be built.
func (c *V1) Formats() []string {
	return c.formats
}

// Python is the python related configuration.
func (c *V1) Python() PythonV1 {
	return c.python
}

// PythonVersion is the configured interpreter version.
func (c *V1) PythonVersion() float64 {
	return c.python.Version
}

// PythonFullVersion resolves a bare major version to the highest minor
// the build image supports.
func (c *V1) PythonFullVersion() float64 {
	return c.fullVersion
}

// PythonInterpreter is the interpreter identifier, e.g. "python2.7".
func (c *V1) PythonInterpreter() string {
	return "python" + formatVersion(c.fullVersion)
}

// PipInstall reports whether the project should be installed using pip.
func (c *V1) PipInstall() bool {
	return c.python.PipInstall
}

// InstallProject reports whether the project should be installed at all.
func (c *V1) InstallProject() bool {
	return c.python.PipInstall || c.python.SetupPyInstall
}

// ExtraRequirements are the extra pip requirement groups. They only
// apply to pip installs; under a setup.py install they are silently
// dropped, not rejected.
func (c *V1) ExtraRequirements() []string {
	if c.python.PipInstall {
		return c.python.ExtraRequirements
	}
	return nil
}

// UseSystemSitePackages reports whether the build may see system packages.
func (c *V1) UseSystemSitePackages() bool {
	return c.python.UseSystemSitePackages
}

// UseConda reports whether the document declares a conda section.
func (c *V1) UseConda() bool {
	return c.conda != nil
}

// CondaFile is the conda environment file, when one is configured.
func (c *V1) CondaFile() string {
	if c.conda == nil {
		return ""
	}
	return c.conda.File
}

// RequirementsFile is the project requirements file, empty when unset.
func (c *V1) RequirementsFile() string {
	return c.requirementsFile
}

// BuildImage is the docker image used by the builders.
func (c *V1) BuildImage() string {
	return c.build.Image
}

// Option implements the BuildConfig interface.
func (c *V1) Option(name string) (any, error) {
	if !c.validated {
		return nil, errNotValidated
	}
	switch name {
	case "name":
		return c.Name(), nil
	case "base":
		return c.Base(), nil
	case "output_base":
		return c.OutputBase(), nil
	case "formats":
		return c.Formats(), nil
	case "python":
		return c.Python(), nil
	case "python_version":
		return c.PythonVersion(), nil
	case "python_full_version":
		return c.PythonFullVersion(), nil
	case "python_interpreter":
		return c.PythonInterpreter(), nil
	case "pip_install":
		return c.PipInstall(), nil
	case "install_project":
		return c.InstallProject(), nil
	case "extra_requirements":
		return c.ExtraRequirements(), nil
	case "use_system_site_packages":
		return c.UseSystemSitePackages(), nil
	case "use_conda":
		return c.UseConda(), nil
	case "conda_file":
		return c.CondaFile(), nil
	case "requirements_file":
		return c.RequirementsFile(), nil
	case "build_image":
		return c.BuildImage(), nil
	default:
		return nil, &OptionNotSupportedError{Option: name}
	}
}
