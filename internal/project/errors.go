// SPDX-License-Identifier: MIT

package project

import (
	"errors"
	"fmt"
)

var (
	// ErrIO classifies read failures caused by the file system: the file is
	// missing, unreadable or larger than the configured limit.
	ErrIO = errors.New("project file unreadable")

	// ErrSyntax classifies documents that are not well-formed XML.
	ErrSyntax = errors.New("project file is not well-formed XML")

	// ErrNotProject classifies well-formed documents whose root element is
	// not a project element.
	ErrNotProject = errors.New("not a project file")

	// ErrWrite classifies failures to create or replace the destination file,
	// including values that XML cannot represent.
	ErrWrite = errors.New("project file write failed")

	// ErrInvalidValue classifies model values that XML cannot represent:
	// invalid UTF-8 or characters outside the XML 1.0 range.
	ErrInvalidValue = errors.New("value cannot be represented in XML")

	// ErrHolderStopped is returned by Holder.Reload after Holder.Stop.
	ErrHolderStopped = errors.New("project holder stopped")
)

// errNoFilename is returned when neither an explicit path nor a stored
// filename is available.
var errNoFilename = errors.New("no filename")

// classify wraps err with the sentinel kind and the offending path.
func classify(kind error, path string, err error) error {
	if path == "" {
		return fmt.Errorf("%w: %w", kind, err)
	}
	return fmt.Errorf("%w: %s: %w", kind, path, err)
}
