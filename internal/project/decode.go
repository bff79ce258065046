// SPDX-License-Identifier: MIT

package project

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	xglog "github.com/ManuGH/projfile/internal/log"
	"github.com/ManuGH/projfile/internal/metrics"
	"github.com/ManuGH/projfile/internal/suppress"
	"github.com/rs/zerolog"
	"golang.org/x/net/html/charset"
)

// DefaultMaxDocumentBytes bounds the size of a project document that Read accepts.
const DefaultMaxDocumentBytes int64 = 16 * 1024 * 1024

type readOptions struct {
	maxBytes int64
	logger   *zerolog.Logger
}

// ReadOption customizes Read, Load and Decode.
type ReadOption func(*readOptions)

// WithMaxBytes overrides DefaultMaxDocumentBytes. Non-positive values are ignored.
func WithMaxBytes(n int64) ReadOption {
	return func(o *readOptions) {
		if n > 0 {
			o.maxBytes = n
		}
	}
}

// WithLogger routes decoder diagnostics to logger.
func WithLogger(logger zerolog.Logger) ReadOption {
	return func(o *readOptions) { o.logger = &logger }
}

func newReadOptions(opts []ReadOption) readOptions {
	o := readOptions{maxBytes: DefaultMaxDocumentBytes}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		l := xglog.WithComponent("project")
		o.logger = &l
	}
	return o
}

// Load reads the project file at path into a new File.
func Load(path string, opts ...ReadOption) (*File, error) {
	f := NewWithFilename(path)
	if err := f.Read("", opts...); err != nil {
		return nil, err
	}
	return f, nil
}

// Read replaces the content of f with the project file at path. An empty
// path reads f.Filename(); a non-empty one becomes the new filename.
//
// The model is reset before anything is decoded, so on failure f holds the
// defaults. Errors wrap ErrIO, ErrSyntax or ErrNotProject.
func (f *File) Read(path string, opts ...ReadOption) error {
	if path != "" {
		f.filename = path
	}
	f.reset()
	o := newReadOptions(opts)
	logger := o.logger.With().Str(xglog.FieldPath, f.filename).Logger()

	err := f.readFile(o, logger)
	if err != nil {
		f.reset()
		metrics.RecordRead(readResult(err))
		logger.Debug().Err(err).Str(xglog.FieldEvent, "project.read_failed").Msg("project file not loaded")
		return err
	}
	metrics.RecordRead(metrics.ReadOK)
	logger.Debug().Str(xglog.FieldEvent, "project.read").Msg("project file loaded")
	return nil
}

func (f *File) readFile(o readOptions, logger zerolog.Logger) error {
	if f.filename == "" {
		return classify(ErrIO, "", errNoFilename)
	}
	path := filepath.Clean(f.filename)
	// #nosec G304 -- project paths are chosen by the user
	fh, err := os.Open(path)
	if err != nil {
		return classify(ErrIO, path, err)
	}
	defer func() { _ = fh.Close() }()

	data, err := io.ReadAll(io.LimitReader(fh, o.maxBytes+1))
	if err != nil {
		return classify(ErrIO, path, err)
	}
	if int64(len(data)) > o.maxBytes {
		return classify(ErrIO, path, fmt.Errorf("document exceeds %d bytes", o.maxBytes))
	}
	if err := f.decode(bytes.NewReader(data), logger); err != nil {
		return withPath(err, path)
	}
	return nil
}

// Decode replaces the content of f with the project document read from r.
// The filename is left untouched.
func (f *File) Decode(r io.Reader, opts ...ReadOption) error {
	f.reset()
	o := newReadOptions(opts)
	if err := f.decode(io.LimitReader(r, o.maxBytes), *o.logger); err != nil {
		f.reset()
		return err
	}
	return nil
}

// decodeError carries a classified decode failure until the path is known.
type decodeError struct {
	kind error
	err  error
}

func (e *decodeError) Error() string { return e.kind.Error() + ": " + e.err.Error() }
func (e *decodeError) Unwrap() []error {
	return []error{e.kind, e.err}
}

func syntaxErr(err error) error { return &decodeError{kind: ErrSyntax, err: err} }

func withPath(err error, path string) error {
	var de *decodeError
	if errors.As(err, &de) {
		return classify(de.kind, path, de.err)
	}
	return err
}

func readResult(err error) string {
	switch {
	case errors.Is(err, ErrNotProject):
		return metrics.ReadNotProject
	case errors.Is(err, ErrSyntax):
		return metrics.ReadSyntax
	default:
		return metrics.ReadIO
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM drops a leading UTF-8 byte order mark.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if b, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(b, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// newDecoder returns a strict decoder that tolerates a UTF-8 byte order mark,
// honours the encoding declaration and never expands external entities.
func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(skipBOM(r))
	dec.Strict = true
	dec.Entity = make(map[string]string)
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

// decode walks the document once. Direct children of the project element are
// dispatched by name through bindings; everything else is skipped.
func (f *File) decode(r io.Reader, logger zerolog.Logger) error {
	dec := newDecoder(r)

	root, err := rootElement(dec)
	if err != nil {
		return err
	}
	if root.Name.Local != elemProject {
		logger.Debug().Str(xglog.FieldElement, root.Name.Local).Msg("unexpected root element")
		return &decodeError{kind: ErrNotProject, err: fmt.Errorf("root element is <%s>", root.Name.Local)}
	}
	if v := attrValue(root.Attr, attrVersion); v != "" && v != FormatVersion {
		logger.Debug().Str("version", v).Msg("project file version differs, reading anyway")
	}

	d := &documentDecoder{file: f, logger: logger}
	for {
		tok, err := dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return syntaxErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if err := d.child(dec, t); err != nil {
				return syntaxErr(err)
			}
		case xml.EndElement:
			return trailer(dec)
		}
	}
}

// rootElement returns the first start element. Character data before it must
// be whitespace.
func rootElement(dec *xml.Decoder) (xml.StartElement, error) {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return xml.StartElement{}, syntaxErr(errors.New("no root element"))
		}
		if err != nil {
			return xml.StartElement{}, syntaxErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return xml.StartElement{}, syntaxErr(errors.New("character data outside root element"))
			}
		}
	}
}

// trailer consumes everything after the root element and rejects a second
// root or stray text.
func trailer(dec *xml.Decoder) error {
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return syntaxErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return syntaxErr(fmt.Errorf("second root element <%s>", t.Name.Local))
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return syntaxErr(errors.New("character data after root element"))
			}
		}
	}
}

// node is one decoded child of the project element with all of its children.
type node struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Text     string     `xml:",chardata"`
	Children []node     `xml:",any"`
}

func (n *node) attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// text returns the direct text content, or false when it is blank.
func (n *node) text() (string, bool) {
	if strings.TrimSpace(n.Text) == "" {
		return "", false
	}
	return n.Text, true
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if a.Name.Space == "" && a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

type documentDecoder struct {
	file         *File
	logger       zerolog.Logger
	legacyLogged bool
}

func (d *documentDecoder) child(dec *xml.Decoder, start xml.StartElement) error {
	b, ok := bindings[start.Name.Local]
	if !ok {
		d.logger.Debug().Str(xglog.FieldElement, start.Name.Local).Msg("skipping unknown element")
		return dec.Skip()
	}
	var n node
	if err := dec.DecodeElement(&n, &start); err != nil {
		return err
	}
	if b.legacy {
		metrics.RecordLegacyElement(start.Name.Local)
		if !d.legacyLogged {
			d.legacyLogged = true
			d.logger.Warn().
				Str(xglog.FieldEvent, "project.legacy_element").
				Str(xglog.FieldElement, start.Name.Local).
				Str("replacement", b.field.element).
				Msg("deprecated element accepted, it is written back under its current name")
		}
	}
	d.apply(b, &n)
	return nil
}

func (d *documentDecoder) apply(b binding, n *node) {
	f := d.file
	switch b.field.kind {
	case kindAttrScalar:
		if v, ok := n.attr(b.attr); ok && v != "" {
			*b.field.str(f) = v
		}
	case kindTextScalar:
		if v, ok := n.text(); ok {
			*b.field.str(f) = v
		}
	case kindBool:
		// Only the literal "true" enables the flag; blank text keeps the default.
		if _, ok := n.text(); ok {
			f.analyzeAllVsConfigs = n.Text == "true"
		}
	case kindAttrList:
		list := b.field.list(f)
		for i := range n.Children {
			c := &n.Children[i]
			if c.XMLName.Local != b.item {
				continue
			}
			if v, ok := c.attr(b.attr); ok && v != "" {
				*list = append(*list, v)
			}
		}
	case kindTextList:
		list := b.field.list(f)
		*list = append(*list, childTexts(n, b.item)...)
	case kindSuppressions:
		for i := range n.Children {
			c := &n.Children[i]
			if c.XMLName.Local != b.item {
				continue
			}
			f.suppressions = append(f.suppressions, decodeSuppression(c))
		}
	case kindTools:
		for _, name := range childTexts(n, b.item) {
			t, ok := ParseTool(name)
			if !ok {
				d.logger.Debug().Str(xglog.FieldTool, name).Msg("ignoring unknown tool")
				continue
			}
			f.SetToolEnabled(t, true)
		}
	}
}

func childTexts(n *node, item string) []string {
	var out []string
	for i := range n.Children {
		c := &n.Children[i]
		if c.XMLName.Local != item {
			continue
		}
		if v, ok := c.text(); ok {
			out = append(out, v)
		}
	}
	return out
}

func decodeSuppression(n *node) suppress.Suppression {
	s := suppress.New("")
	if v, ok := n.attr(attrSuppressionFile); ok {
		s.FileName = v
	}
	if v, ok := n.attr(attrSuppressionLine); ok {
		s.LineNumber = suppress.ParseLine(v)
	}
	if v, ok := n.attr(attrSuppressionSymbol); ok {
		s.SymbolName = v
	}
	if v, ok := n.text(); ok {
		s.ErrorID = v
	}
	return s
}
