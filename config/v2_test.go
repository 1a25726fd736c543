// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestV2(t *testing.T, env EnvConfig, raw map[string]any) *V2 {
	t.Helper()

	dir := t.TempDir()
	if env == nil {
		env = EnvConfig{}
	}
	c, err := NewV2(env, raw, filepath.Join(dir, "readthedocs.yml"), 0)
	require.NoError(t, err)
	return c
}

func TestV2_Validate(t *testing.T) {
	t.Run("populates every field for a valid document", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "mkdocs.yml"), []byte("site_name: docs\n"), 0o600))

		raw := map[string]any{
			"formats": []any{"pdf"},
			"build":   map[string]any{"image": "stable"},
			"python": map[string]any{
				"version": 3.6,
				"install": "pip",
			},
			"mkdocs": map[string]any{
				"configuration":   "mkdocs.yml",
				"fail_on_warning": true,
			},
			"submodules": map[string]any{
				"include":   All,
				"recursive": true,
			},
		}
		c, err := NewV2(EnvConfig{}, raw, filepath.Join(dir, "readthedocs.yml"), 0)
		require.NoError(t, err)
		require.NoError(t, c.Validate())

		require.Equal(t, []string{"pdf"}, c.Formats())
		require.Equal(t, "readthedocs/build:stable", c.BuildSettings().Image)
		require.Equal(t, 3.6, c.PythonVersion())
		require.True(t, c.Python().InstallWithPip)
		require.Nil(t, c.SphinxSettings())
		require.NotNil(t, c.MkdocsSettings())
		require.True(t, c.MkdocsSettings().FailOnWarning)
		require.Equal(t, "mkdocs", c.Doctype())
		require.True(t, c.SubmodulesPolicy().IncludeAll)
		require.True(t, c.SubmodulesPolicy().Recursive)
	})

	t.Run("revalidation is idempotent", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{})
		require.NoError(t, c.Validate())
		doctype, version := c.Doctype(), c.PythonVersion()

		require.NoError(t, c.Validate())
		require.Equal(t, doctype, c.Doctype())
		require.Equal(t, version, c.PythonVersion())
	})
}

func TestV2_ValidateFormats(t *testing.T) {
	t.Run("all keyword expands to every format", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{"formats": All})
		require.NoError(t, c.Validate())
		require.Equal(t, []string{"htmlzip", "pdf", "epub"}, c.Formats())
	})

	t.Run("missing key yields no formats", func(t *testing.T) {
		// v2 deliberately ignores the environment default here
		env := EnvConfig{
			"defaults": map[string]any{"formats": []any{"pdf"}},
		}
		c := newTestV2(t, env, map[string]any{})
		require.NoError(t, c.Validate())
		require.Empty(t, c.Formats())
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{"formats": []any{"docx"}})
		requireInvalidKey(t, c.Validate(), "formats", "invalid-choice")
	})
}

func TestV2_ValidateConda(t *testing.T) {
	t.Run("absent section disables conda", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{})
		require.NoError(t, c.Validate())
		require.Nil(t, c.CondaSettings())
	})

	t.Run("environment key is required", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"conda": map[string]any{},
		})
		requireInvalidKey(t, c.Validate(), "conda.environment", "value-not-found")
	})

	t.Run("environment file must exist", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"conda": map[string]any{"environment": "environment.yml"},
		})
		requireInvalidKey(t, c.Validate(), "conda.environment", "invalid-file")
	})

	t.Run("resolves the environment file", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "environment.yml"), []byte("name: docs\n"), 0o600))

		raw := map[string]any{
			"conda": map[string]any{"environment": "environment.yml"},
		}
		c, err := NewV2(EnvConfig{}, raw, filepath.Join(dir, "readthedocs.yml"), 0)
		require.NoError(t, err)
		require.NoError(t, c.Validate())
		require.Equal(t, filepath.Join(dir, "environment.yml"), c.CondaSettings().Environment)
	})
}

func TestV2_ValidateBuild(t *testing.T) {
	t.Run("defaults to the latest image", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{})
		require.NoError(t, c.Validate())
		require.Equal(t, "readthedocs/build:latest", c.BuildSettings().Image)
	})

	t.Run("rejects tags outside the whitelist", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"build": map[string]any{"image": "4.0"},
		})
		requireInvalidKey(t, c.Validate(), "build.image", "invalid-choice")
	})

	t.Run("project default image wins over the document", func(t *testing.T) {
		env := EnvConfig{
			"defaults": map[string]any{"build_image": "readthedocs/build:2.0"},
		}
		c := newTestV2(t, env, map[string]any{
			"build": map[string]any{"image": "latest"},
		})
		require.NoError(t, c.Validate())
		require.Equal(t, "readthedocs/build:2.0", c.BuildSettings().Image)
	})

	t.Run("image bounds the python versions", func(t *testing.T) {
		// build:2.0 ships up to 3.5
		c := newTestV2(t, nil, map[string]any{
			"build":  map[string]any{"image": "2.0"},
			"python": map[string]any{"version": 3.6},
		})
		requireInvalidKey(t, c.Validate(), "python.version", "invalid-choice")
	})

	t.Run("unknown project default image falls back to the default table", func(t *testing.T) {
		env := EnvConfig{
			"defaults": map[string]any{"build_image": "custom/image:tag"},
		}
		c := newTestV2(t, env, map[string]any{
			"python": map[string]any{"version": 3.6},
		})
		require.NoError(t, c.Validate())
		require.Equal(t, 3.6, c.PythonVersion())
	})
}

func TestV2_ValidatePython(t *testing.T) {
	t.Run("version defaults to 3", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{})
		require.NoError(t, c.Validate())
		require.Equal(t, 3.0, c.PythonVersion())
	})

	t.Run("string versions are coerced", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"python": map[string]any{"version": "3.6"},
		})
		require.NoError(t, c.Validate())
		require.Equal(t, 3.6, c.PythonVersion())
	})

	t.Run("requirements file must exist", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"python": map[string]any{"requirements": "missing.txt"},
		})
		requireInvalidKey(t, c.Validate(), "python.requirements", "invalid-file")
	})

	t.Run("requirements default from the environment", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "reqs.txt"), []byte(""), 0o600))

		env := EnvConfig{
			"defaults": map[string]any{"requirements_file": "reqs.txt"},
		}
		c, err := NewV2(env, map[string]any{}, filepath.Join(dir, "readthedocs.yml"), 0)
		require.NoError(t, err)
		require.NoError(t, c.Validate())
		require.Equal(t, filepath.Join(dir, "reqs.txt"), c.Python().Requirements)
	})

	t.Run("install mode is one of pip or setup.py", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"python": map[string]any{"install": "easy_install"},
		})
		requireInvalidKey(t, c.Validate(), "python.install", "invalid-choice")
	})

	t.Run("install project default selects setup.py", func(t *testing.T) {
		env := EnvConfig{
			"defaults": map[string]any{"install_project": true},
		}
		c := newTestV2(t, env, map[string]any{})
		require.NoError(t, c.Validate())
		require.True(t, c.Python().InstallWithSetup)
		require.False(t, c.Python().InstallWithPip)
	})

	t.Run("extra requirements need a pip install", func(t *testing.T) {
		testCases := []struct {
			name   string
			python map[string]any
		}{
			{
				name: "setup.py install",
				python: map[string]any{
					"install":            "setup.py",
					"extra_requirements": []any{"tests"},
				},
			},
			{
				name: "no install key",
				python: map[string]any{
					"extra_requirements": []any{"tests"},
				},
			},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				c := newTestV2(t, nil, map[string]any{"python": tc.python})
				requireInvalidKey(t, c.Validate(), "python.extra_requirements", PythonInvalid)
			})
		}
	})

	t.Run("extra requirements validate with pip", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"python": map[string]any{
				"install":            "pip",
				"extra_requirements": []any{"tests", "docs"},
			},
		})
		require.NoError(t, c.Validate())
		require.Equal(t, []string{"tests", "docs"}, c.Python().ExtraRequirements)
	})

	t.Run("system packages flag", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"python": map[string]any{"system_packages": true},
		})
		require.NoError(t, c.Validate())
		require.True(t, c.Python().UseSystemSitePackages)
	})
}

func TestV2_ValidateDocTypes(t *testing.T) {
	t.Run("sphinx and mkdocs are mutually exclusive", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"sphinx": map[string]any{},
			"mkdocs": map[string]any{},
		})
		requireInvalidKey(t, c.Validate(), ".", InvalidKeysCombination)
	})
}

func TestV2_ValidateSphinx(t *testing.T) {
	t.Run("synthesized when no doc engine is declared", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{})
		require.NoError(t, c.Validate())
		require.NotNil(t, c.SphinxSettings())
		require.Nil(t, c.MkdocsSettings())
		require.Equal(t, "sphinx", c.SphinxSettings().Builder)
		require.False(t, c.SphinxSettings().FailOnWarning)
		require.Equal(t, "sphinx", c.Doctype())
	})

	t.Run("absent when mkdocs is declared", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"mkdocs": map[string]any{},
		})
		require.NoError(t, c.Validate())
		require.Nil(t, c.SphinxSettings())
	})

	t.Run("maps builder names to internal identifiers", func(t *testing.T) {
		testCases := []struct {
			builder  string
			expected string
		}{
			{builder: "html", expected: "sphinx"},
			{builder: "htmldir", expected: "sphinx_htmldir"},
			{builder: "singlehtml", expected: "sphinx_singlehtml"},
		}

		for _, tc := range testCases {
			t.Run(tc.builder, func(t *testing.T) {
				c := newTestV2(t, nil, map[string]any{
					"sphinx": map[string]any{"builder": tc.builder},
				})
				require.NoError(t, c.Validate())
				require.Equal(t, tc.expected, c.SphinxSettings().Builder)
				require.Equal(t, tc.expected, c.Doctype())
			})
		}
	})

	t.Run("rejects unknown builders", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"sphinx": map[string]any{"builder": "epub"},
		})
		requireInvalidKey(t, c.Validate(), "sphinx.builder", "invalid-choice")
	})

	t.Run("configuration defaults from the environment", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "conf.py"), []byte(""), 0o600))

		env := EnvConfig{
			"defaults": map[string]any{"sphinx_configuration": "conf.py"},
		}
		c, err := NewV2(env, map[string]any{}, filepath.Join(dir, "readthedocs.yml"), 0)
		require.NoError(t, err)
		require.NoError(t, c.Validate())
		require.Equal(t, filepath.Join(dir, "conf.py"), c.SphinxSettings().Configuration)
	})

	t.Run("configuration file must exist", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"sphinx": map[string]any{"configuration": "missing_conf.py"},
		})
		requireInvalidKey(t, c.Validate(), "sphinx.configuration", "invalid-file")
	})
}

func TestV2_ValidateMkdocs(t *testing.T) {
	t.Run("configuration file must exist", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"mkdocs": map[string]any{"configuration": "missing_mkdocs.yml"},
		})
		requireInvalidKey(t, c.Validate(), "mkdocs.configuration", "invalid-file")
	})

	t.Run("fail on warning defaults to false", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"mkdocs": map[string]any{},
		})
		require.NoError(t, c.Validate())
		require.False(t, c.MkdocsSettings().FailOnWarning)
	})
}

func TestV2_ValidateSubmodules(t *testing.T) {
	t.Run("include all with empty exclude validates", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"submodules": map[string]any{
				"include": All,
				"exclude": []any{},
			},
		})
		require.NoError(t, c.Validate())
		require.True(t, c.SubmodulesPolicy().IncludeAll)
		require.False(t, c.SubmodulesPolicy().ExcludeAll)
	})

	t.Run("include and exclude are mutually exclusive", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"submodules": map[string]any{
				"include": []any{"a"},
				"exclude": []any{"b"},
			},
		})
		requireInvalidKey(t, c.Validate(), "submodules", SubmodulesInvalid)
	})

	t.Run("recursive defaults to false", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{})
		require.NoError(t, c.Validate())
		require.False(t, c.SubmodulesPolicy().Recursive)
	})

	t.Run("entries must be strings", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"submodules": map[string]any{
				"include": []any{42},
			},
		})
		requireInvalidKey(t, c.Validate(), "submodules.include", "invalid-string")
	})
}

func TestV2_PythonInterpreter(t *testing.T) {
	t.Run("bare major resolves against the latest image", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{})
		require.NoError(t, c.Validate())
		require.Equal(t, 3.6, c.PythonFullVersion())
		require.Equal(t, "python3.6", c.PythonInterpreter())
	})

	t.Run("bare major two resolves to two seven", func(t *testing.T) {
		c := newTestV2(t, nil, map[string]any{
			"python": map[string]any{"version": 2},
		})
		require.NoError(t, c.Validate())
		require.Equal(t, "python2.7", c.PythonInterpreter())
	})
}

func TestV2_Option(t *testing.T) {
	c := newTestV2(t, nil, map[string]any{})
	require.NoError(t, c.Validate())

	t.Run("reads schema fields by name", func(t *testing.T) {
		doctype, err := c.Option("doctype")
		require.NoError(t, err)
		require.Equal(t, "sphinx", doctype)
	})

	t.Run("rejects legacy only options", func(t *testing.T) {
		_, err := c.Option("use_system_site_packages")

		var oerr *OptionNotSupportedError
		require.ErrorAs(t, err, &oerr)
		require.Equal(t, "use_system_site_packages", oerr.Option)
	})
}
