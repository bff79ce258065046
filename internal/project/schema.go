// SPDX-License-Identifier: MIT

package project

// FormatVersion is written into the version attribute of the root element.
const FormatVersion = "1"

const (
	elemProject = "project"
	attrVersion = "version"
	attrName    = "name"

	attrSuppressionFile   = "fileName"
	attrSuppressionLine   = "lineNumber"
	attrSuppressionSymbol = "symbolName"
)

// kind selects how an element of the project is encoded.
type kind int

const (
	kindAttrScalar   kind = iota // <root name="..."/>
	kindTextScalar               // <builddir>...</builddir>
	kindBool                     // <analyze-all-vs-configs>true</analyze-all-vs-configs>
	kindAttrList                 // <includedir><dir name="..."/></includedir>
	kindTextList                 // <libraries><library>...</library></libraries>
	kindSuppressions             // <suppressions><suppression fileName="...">id</suppression></suppressions>
	kindTools                    // <tools><tool>clang-tidy</tool></tools>
)

// alias is an older spelling of an element that is still accepted on read.
type alias struct {
	element string
	item    string
	attr    string
}

// field describes one child element of the project element. The same table
// drives decoding and encoding; its order is the canonical write order.
type field struct {
	element string
	item    string // child element name for list kinds
	attr    string // attribute carrying the value, if any
	kind    kind
	aliases []alias

	str  func(*File) *string
	list func(*File) *[]string
}

// schema lists every element the project element may contain.
var schema = []field{
	{element: "root", attr: attrName, kind: kindAttrScalar,
		str: func(f *File) *string { return &f.rootPath }},
	{element: "builddir", kind: kindTextScalar,
		str: func(f *File) *string { return &f.buildDir }},
	{element: "platform", kind: kindTextScalar,
		str: func(f *File) *string { return &f.platform }},
	{element: "importproject", kind: kindTextScalar,
		str: func(f *File) *string { return &f.importProject }},
	{element: "analyze-all-vs-configs", kind: kindBool},
	{element: "includedir", item: "dir", attr: attrName, kind: kindAttrList,
		list: func(f *File) *[]string { return &f.includeDirs }},
	{element: "defines", item: "define", attr: attrName, kind: kindAttrList,
		list: func(f *File) *[]string { return &f.defines }},
	{element: "undefines", item: "undefine", kind: kindTextList,
		list: func(f *File) *[]string { return &f.undefines }},
	{element: "paths", item: "dir", attr: attrName, kind: kindAttrList,
		list: func(f *File) *[]string { return &f.checkPaths }},
	{element: "exclude", item: "path", attr: attrName, kind: kindAttrList,
		aliases: []alias{{element: "ignore", item: "path", attr: attrName}},
		list:    func(f *File) *[]string { return &f.excludedPaths }},
	{element: "libraries", item: "library", kind: kindTextList,
		list: func(f *File) *[]string { return &f.libraries }},
	{element: "suppressions", item: "suppression", kind: kindSuppressions},
	{element: "addons", item: "addon", kind: kindTextList,
		list: func(f *File) *[]string { return &f.addons }},
	{element: "tools", item: "tool", kind: kindTools},
	{element: "tags", item: "tag", kind: kindTextList,
		list: func(f *File) *[]string { return &f.tags }},
}

// binding is what the reader dispatches to for one element name.
type binding struct {
	field  *field
	item   string
	attr   string
	legacy bool
}

// bindings maps every accepted element name, including legacy aliases, to
// its field.
var bindings = buildBindings(schema)

func buildBindings(fields []field) map[string]binding {
	out := make(map[string]binding, len(fields)+1)
	for i := range fields {
		f := &fields[i]
		out[f.element] = binding{field: f, item: f.item, attr: f.attr}
		for _, a := range f.aliases {
			out[a.element] = binding{field: f, item: a.item, attr: a.attr, legacy: true}
		}
	}
	return out
}
