// SPDX-License-Identifier: MIT

package project

import (
	"slices"

	"github.com/ManuGH/projfile/internal/suppress"
)

// Snapshot is an exported, comparable view of a File. Paths are reported as
// stored; use the File getters for normalized separators.
type Snapshot struct {
	RootPath            string                `yaml:"rootPath,omitempty"`
	BuildDir            string                `yaml:"buildDir,omitempty"`
	ImportProject       string                `yaml:"importProject,omitempty"`
	AnalyzeAllVsConfigs bool                  `yaml:"analyzeAllVsConfigs"`
	IncludeDirs         []string              `yaml:"includeDirs,omitempty"`
	Defines             []string              `yaml:"defines,omitempty"`
	Undefines           []string              `yaml:"undefines,omitempty"`
	CheckPaths          []string              `yaml:"checkPaths,omitempty"`
	ExcludedPaths       []string              `yaml:"excludedPaths,omitempty"`
	Libraries           []string              `yaml:"libraries,omitempty"`
	Platform            string                `yaml:"platform,omitempty"`
	Suppressions        []SuppressionSnapshot `yaml:"suppressions,omitempty"`
	Addons              []string              `yaml:"addons,omitempty"`
	Tools               []Tool                `yaml:"tools,omitempty"`
	Tags                []string              `yaml:"tags,omitempty"`
}

// SuppressionSnapshot mirrors suppress.Suppression with YAML names.
type SuppressionSnapshot struct {
	ErrorID    string `yaml:"errorId"`
	FileName   string `yaml:"fileName,omitempty"`
	LineNumber int    `yaml:"lineNumber,omitempty"`
	SymbolName string `yaml:"symbolName,omitempty"`
}

// Snapshot returns a deep copy of the document fields of f.
func (f *File) Snapshot() Snapshot {
	s := Snapshot{
		RootPath:            f.rootPath,
		BuildDir:            f.buildDir,
		ImportProject:       f.importProject,
		AnalyzeAllVsConfigs: f.analyzeAllVsConfigs,
		IncludeDirs:         slices.Clone(f.includeDirs),
		Defines:             slices.Clone(f.defines),
		Undefines:           slices.Clone(f.undefines),
		CheckPaths:          slices.Clone(f.checkPaths),
		ExcludedPaths:       slices.Clone(f.excludedPaths),
		Libraries:           slices.Clone(f.libraries),
		Platform:            f.platform,
		Addons:              slices.Clone(f.addons),
		Tools:               f.EnabledTools(),
		Tags:                slices.Clone(f.tags),
	}
	for _, sup := range f.suppressions {
		ss := SuppressionSnapshot{ErrorID: sup.ErrorID, FileName: sup.FileName, SymbolName: sup.SymbolName}
		if sup.HasLine() {
			ss.LineNumber = sup.LineNumber
		}
		s.Suppressions = append(s.Suppressions, ss)
	}
	return s
}

// FromSnapshot builds a File from s. The filename is left empty.
func FromSnapshot(s Snapshot) *File {
	f := New()
	f.rootPath = s.RootPath
	f.buildDir = s.BuildDir
	f.importProject = s.ImportProject
	f.analyzeAllVsConfigs = s.AnalyzeAllVsConfigs
	f.includeDirs = slices.Clone(s.IncludeDirs)
	f.defines = slices.Clone(s.Defines)
	f.undefines = slices.Clone(s.Undefines)
	f.checkPaths = slices.Clone(s.CheckPaths)
	f.excludedPaths = slices.Clone(s.ExcludedPaths)
	f.libraries = slices.Clone(s.Libraries)
	f.platform = s.Platform
	f.addons = slices.Clone(s.Addons)
	f.tags = slices.Clone(s.Tags)
	for _, t := range s.Tools {
		f.SetToolEnabled(t, true)
	}
	for _, ss := range s.Suppressions {
		sup := suppress.New(ss.ErrorID)
		sup.FileName = ss.FileName
		sup.SymbolName = ss.SymbolName
		if ss.LineNumber > 0 {
			sup.LineNumber = ss.LineNumber
		}
		f.suppressions = append(f.suppressions, sup)
	}
	return f
}
