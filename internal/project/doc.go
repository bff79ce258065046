// SPDX-License-Identifier: MIT

// Package project reads and writes project files: the XML documents that
// persist include paths, defines, paths to check, exclusions, libraries,
// platform, suppressions, add-ons, tools and tags for an analysis run.
//
// A File is a plain in-memory model. Read replaces its whole content with the
// decoded document; Write serializes it in canonical element order and
// replaces the destination atomically. Element and attribute names live in a
// single schema table shared by both directions.
package project
