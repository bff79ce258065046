// SPDX-License-Identifier: MIT

package project

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/ManuGH/projfile/internal/paths"
	"github.com/ManuGH/projfile/internal/suppress"
)

// platformFileSuffix marks a platform value that names an external platform
// description instead of a built-in platform.
const platformFileSuffix = ".xml"

// File is the in-memory model of one project file.
//
// Setters replace the whole value; there is no append API. File is not safe
// for concurrent use, see Holder for a synchronized handle.
type File struct {
	filename string

	rootPath            string
	buildDir            string
	importProject       string
	analyzeAllVsConfigs bool

	includeDirs   []string
	defines       []string
	undefines     []string
	checkPaths    []string
	excludedPaths []string
	libraries     []string
	platform      string
	suppressions  []suppress.Suppression
	addons        []string
	tags          []string

	clangAnalyzer bool
	clangTidy     bool
}

// New returns an empty project with all defaults applied.
func New() *File {
	f := &File{}
	f.reset()
	return f
}

// NewWithFilename returns an empty project bound to filename.
func NewWithFilename(filename string) *File {
	f := New()
	f.filename = filename
	return f
}

// reset restores every document field to its default. The filename is kept.
func (f *File) reset() {
	filename := f.filename
	*f = File{
		filename:            filename,
		analyzeAllVsConfigs: true,
	}
}

// Clone returns a deep copy of f.
func (f *File) Clone() *File {
	c := *f
	c.includeDirs = slices.Clone(f.includeDirs)
	c.defines = slices.Clone(f.defines)
	c.undefines = slices.Clone(f.undefines)
	c.checkPaths = slices.Clone(f.checkPaths)
	c.excludedPaths = slices.Clone(f.excludedPaths)
	c.libraries = slices.Clone(f.libraries)
	c.suppressions = slices.Clone(f.suppressions)
	c.addons = slices.Clone(f.addons)
	c.tags = slices.Clone(f.tags)
	return &c
}

// Filename returns where the project was loaded from or will be written to.
func (f *File) Filename() string { return f.filename }

// SetFilename sets the default path used by Read and Write.
func (f *File) SetFilename(filename string) { f.filename = filename }

// RootPath returns the project root path. Relative paths in the project
// resolve against it when set, otherwise against the project file's directory.
func (f *File) RootPath() string { return f.rootPath }

// SetRootPath sets the project root path.
func (f *File) SetRootPath(rootPath string) { f.rootPath = rootPath }

// BasePath returns the directory relative paths resolve against.
func (f *File) BasePath() string {
	dir := ""
	if f.filename != "" {
		dir = filepath.ToSlash(filepath.Dir(f.filename))
	}
	if f.rootPath == "" {
		return dir
	}
	return paths.Resolve(dir, f.rootPath)
}

func (f *File) BuildDir() string { return f.buildDir }
func (f *File) SetBuildDir(buildDir string) { f.buildDir = buildDir }

// ImportProject returns the path of an imported build description, such as a
// Visual Studio solution or a compile database.
func (f *File) ImportProject() string { return f.importProject }

func (f *File) SetImportProject(importProject string) { f.importProject = importProject }

// AnalyzeAllVsConfigs reports whether every Visual Studio configuration is
// analyzed. When false only the Debug configuration of the platform is.
func (f *File) AnalyzeAllVsConfigs() bool { return f.analyzeAllVsConfigs }

func (f *File) SetAnalyzeAllVsConfigs(b bool) { f.analyzeAllVsConfigs = b }

// IncludeDirs returns the include directories with normalized separators.
func (f *File) IncludeDirs() []string { return paths.NormalizeAll(f.includeDirs) }

// SetIncludeDirs replaces the include directories. Duplicates are kept.
func (f *File) SetIncludeDirs(dirs []string) { f.includeDirs = slices.Clone(dirs) }

func (f *File) Defines() []string { return slices.Clone(f.defines) }
func (f *File) SetDefines(defines []string) { f.defines = slices.Clone(defines) }
func (f *File) Undefines() []string { return slices.Clone(f.undefines) }
func (f *File) SetUndefines(names []string) { f.undefines = slices.Clone(names) }
func (f *File) Libraries() []string { return slices.Clone(f.libraries) }
func (f *File) SetLibraries(libs []string) { f.libraries = slices.Clone(libs) }
func (f *File) Addons() []string { return slices.Clone(f.addons) }
func (f *File) SetAddons(addons []string) { f.addons = slices.Clone(addons) }
func (f *File) Tags() []string { return slices.Clone(f.tags) }
func (f *File) SetTags(tags []string) { f.tags = slices.Clone(tags) }

// CheckPaths returns the paths to check with normalized separators.
func (f *File) CheckPaths() []string { return paths.NormalizeAll(f.checkPaths) }

func (f *File) SetCheckPaths(p []string) { f.checkPaths = slices.Clone(p) }

// ExcludedPaths returns the paths excluded from the check with normalized separators.
func (f *File) ExcludedPaths() []string { return paths.NormalizeAll(f.excludedPaths) }

func (f *File) SetExcludedPaths(p []string) { f.excludedPaths = slices.Clone(p) }

// Platform returns the target platform. A value ending in ".xml" names a
// platform description file; anything else is a built-in platform name such
// as "unix64" or "win32A".
func (f *File) Platform() string { return f.platform }

func (f *File) SetPlatform(platform string) { f.platform = platform }

// PlatformIsFile reports whether Platform names a platform description file.
func (f *File) PlatformIsFile() bool {
	return strings.HasSuffix(strings.ToLower(f.platform), platformFileSuffix)
}

func (f *File) Suppressions() []suppress.Suppression { return slices.Clone(f.suppressions) }

// SetSuppressions replaces the suppression list.
func (f *File) SetSuppressions(s []suppress.Suppression) { f.suppressions = slices.Clone(s) }

func (f *File) ClangAnalyzer() bool { return f.clangAnalyzer }
func (f *File) SetClangAnalyzer(b bool) { f.clangAnalyzer = b }
func (f *File) ClangTidy() bool { return f.clangTidy }
func (f *File) SetClangTidy(b bool) { f.clangTidy = b }

// ToolEnabled reports whether t is enabled. Unknown tools are never enabled.
func (f *File) ToolEnabled(t Tool) bool {
	switch t {
	case ToolClangAnalyzer:
		return f.clangAnalyzer
	case ToolClangTidy:
		return f.clangTidy
	default:
		return false
	}
}

// SetToolEnabled toggles t. Unknown tools are ignored.
func (f *File) SetToolEnabled(t Tool, enabled bool) {
	switch t {
	case ToolClangAnalyzer:
		f.clangAnalyzer = enabled
	case ToolClangTidy:
		f.clangTidy = enabled
	}
}

// EnabledTools returns the enabled tools in canonical order.
func (f *File) EnabledTools() []Tool {
	var out []Tool
	for _, t := range knownTools {
		if f.ToolEnabled(t) {
			out = append(out, t)
		}
	}
	return out
}

// AddonsAndTools returns the add-ons followed by the names of the enabled
// tools. The result is computed on every call.
func (f *File) AddonsAndTools() []string {
	out := slices.Clone(f.addons)
	for _, t := range f.EnabledTools() {
		out = append(out, string(t))
	}
	return out
}
