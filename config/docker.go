// Copyright (c) 2026 Docforge Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

// Default build image. These identifiers map to corresponding settings
// on the build hosts, so they keep their historic names.
const (
	dockerDefaultImage = "readthedocs/build"
	dockerDefaultTag   = "2.0"
	dockerImage        = dockerDefaultImage + ":" + dockerDefaultTag
)

// dockerImageSettings maps a build image to the interpreter versions it
// ships. Read only reference data; it bounds the valid choices for the
// python version field.
var dockerImageSettings = map[string][]any{
	"readthedocs/build:1.0":    {2, 2.7, 3, 3.4},
	"readthedocs/build:2.0":    {2, 2.7, 3, 3.5},
	"readthedocs/build:3.0":    {2, 2.7, 3, 3.3, 3.4, 3.5, 3.6},
	"readthedocs/build:stable": {2, 2.7, 3, 3.3, 3.4, 3.5, 3.6},
	"readthedocs/build:latest": {2, 2.7, 3, 3.3, 3.4, 3.5, 3.6},
}
