// SPDX-License-Identifier: MIT

package project

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	xglog "github.com/ManuGH/projfile/internal/log"
	"github.com/ManuGH/projfile/internal/metrics"
	"github.com/ManuGH/projfile/internal/suppress"
	"github.com/google/renameio/v2"
)

const (
	indent    = "    "
	xmlHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
)

// Write serializes f to path, or to f.Filename() when path is empty. A
// non-empty path becomes the new filename.
//
// The destination is replaced atomically: a temporary file is written,
// synced and renamed over path, so a failed write never leaves a partial
// document behind. Errors wrap ErrWrite; values XML cannot represent also
// wrap ErrInvalidValue and leave the destination untouched.
func (f *File) Write(path string) (err error) {
	if path != "" {
		f.filename = path
	}
	logger := xglog.WithComponent("project").With().Str(xglog.FieldPath, f.filename).Logger()
	defer func() {
		if err != nil {
			metrics.RecordWrite(metrics.WriteError)
			logger.Error().Err(err).Str(xglog.FieldEvent, "project.write_failed").Msg("project file not written")
			return
		}
		metrics.RecordWrite(metrics.WriteOK)
		logger.Debug().Str(xglog.FieldEvent, "project.write").Msg("project file written")
	}()

	if f.filename == "" {
		return classify(ErrWrite, "", errNoFilename)
	}

	pendingFile, err := renameio.NewPendingFile(f.filename,
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions())
	if err != nil {
		return classify(ErrWrite, f.filename, fmt.Errorf("create pending file: %w", err))
	}
	defer func() {
		// no-op once committed
		if cerr := pendingFile.Cleanup(); cerr != nil {
			logger.Debug().Err(cerr).Msg("cleanup pending project file")
		}
	}()

	if err := f.Encode(pendingFile); err != nil {
		return classify(ErrWrite, f.filename, err)
	}
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return classify(ErrWrite, f.filename, fmt.Errorf("atomically replace: %w", err))
	}
	return nil
}

// Encode writes the canonical document for f to w: a UTF-8 byte order mark,
// the XML declaration and the project element with its children in schema
// order. Empty lists and empty optional scalars are omitted; the
// analyze-all-vs-configs flag is always written. Elements without text are
// closed in place.
//
// Every value is checked before the first byte is written. A value that is
// not valid UTF-8 or contains a character outside the XML 1.0 range yields an
// error wrapping ErrInvalidValue.
func (f *File) Encode(w io.Writer) error {
	if err := f.checkEncodable(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	e := &documentEncoder{w: bw}
	e.write(string(utf8BOM) + xmlHeader)
	e.open(elemProject, xmlAttr{attrVersion, FormatVersion})
	for i := range schema {
		e.field(f, &schema[i])
	}
	e.close(elemProject)
	if e.err != nil {
		return fmt.Errorf("encode project: %w", e.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush project: %w", err)
	}
	return nil
}

// checkEncodable rejects values that would not survive a write and read.
func (f *File) checkEncodable() error {
	for i := range schema {
		fd := &schema[i]
		switch fd.kind {
		case kindAttrScalar, kindTextScalar:
			if err := checkValue(fd.element, *fd.str(f)); err != nil {
				return err
			}
		case kindAttrList, kindTextList:
			for _, v := range *fd.list(f) {
				if err := checkValue(fd.element+"/"+fd.item, v); err != nil {
					return err
				}
			}
		case kindSuppressions:
			where := fd.element + "/" + fd.item
			for _, s := range f.suppressions {
				for _, v := range []string{s.ErrorID, s.FileName, s.SymbolName} {
					if err := checkValue(where, v); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func checkValue(where, v string) error {
	if !utf8.ValidString(v) {
		return fmt.Errorf("%w: <%s> %q is not valid UTF-8", ErrInvalidValue, where, v)
	}
	for i, r := range v {
		if !isXMLChar(r) {
			return fmt.Errorf("%w: <%s> %q has character %U at byte %d", ErrInvalidValue, where, v, r, i)
		}
	}
	return nil
}

// isXMLChar reports whether r matches the Char production of XML 1.0.
func isXMLChar(r rune) bool {
	switch {
	case r == 0x09, r == 0x0A, r == 0x0D:
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= utf8.MaxRune:
		return true
	}
	return false
}

type xmlAttr struct {
	name, value string
}

// documentEncoder writes indented markup and remembers the first error so the
// schema walk stays linear.
type documentEncoder struct {
	w     *bufio.Writer
	depth int
	err   error
}

func (e *documentEncoder) write(s string) {
	if e.err != nil {
		return
	}
	_, e.err = e.w.WriteString(s)
}

func escape(s string) string {
	var b strings.Builder
	// strings.Builder never fails
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func (e *documentEncoder) tag(name string, attrs []xmlAttr) {
	e.write(strings.Repeat(indent, e.depth) + "<" + name)
	for _, a := range attrs {
		e.write(" " + a.name + `="` + escape(a.value) + `"`)
	}
}

// open writes a start tag on its own line.
func (e *documentEncoder) open(name string, attrs ...xmlAttr) {
	e.tag(name, attrs)
	e.write(">\n")
	e.depth++
}

func (e *documentEncoder) close(name string) {
	e.depth--
	e.write(strings.Repeat(indent, e.depth) + "</" + name + ">\n")
}

// leaf writes <name attrs>text</name>, or <name attrs/> when text is empty.
func (e *documentEncoder) leaf(name, text string, attrs ...xmlAttr) {
	e.tag(name, attrs)
	if text == "" {
		e.write("/>\n")
		return
	}
	e.write(">" + escape(text) + "</" + name + ">\n")
}

func (e *documentEncoder) field(f *File, fd *field) {
	switch fd.kind {
	case kindAttrScalar:
		if v := *fd.str(f); v != "" {
			e.leaf(fd.element, "", xmlAttr{fd.attr, v})
		}
	case kindTextScalar:
		if v := *fd.str(f); v != "" {
			e.leaf(fd.element, v)
		}
	case kindBool:
		e.leaf(fd.element, strconv.FormatBool(f.analyzeAllVsConfigs))
	case kindAttrList:
		values := *fd.list(f)
		if len(values) == 0 {
			return
		}
		e.open(fd.element)
		for _, v := range values {
			e.leaf(fd.item, "", xmlAttr{fd.attr, v})
		}
		e.close(fd.element)
	case kindTextList:
		e.stringList(fd.element, fd.item, *fd.list(f))
	case kindSuppressions:
		if len(f.suppressions) == 0 {
			return
		}
		e.open(fd.element)
		for _, s := range f.suppressions {
			e.suppression(fd.item, s)
		}
		e.close(fd.element)
	case kindTools:
		var names []string
		for _, t := range f.EnabledTools() {
			names = append(names, string(t))
		}
		e.stringList(fd.element, fd.item, names)
	}
}

func (e *documentEncoder) stringList(element, item string, values []string) {
	if len(values) == 0 {
		return
	}
	e.open(element)
	for _, v := range values {
		e.leaf(item, v)
	}
	e.close(element)
}

func (e *documentEncoder) suppression(name string, s suppress.Suppression) {
	var attrs []xmlAttr
	if s.FileName != "" {
		attrs = append(attrs, xmlAttr{attrSuppressionFile, s.FileName})
	}
	if s.HasLine() {
		attrs = append(attrs, xmlAttr{attrSuppressionLine, strconv.Itoa(s.LineNumber)})
	}
	if s.SymbolName != "" {
		attrs = append(attrs, xmlAttr{attrSuppressionSymbol, s.SymbolName})
	}
	e.leaf(name, s.ErrorID, attrs...)
}
