// SPDX-License-Identifier: MIT

package project

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ManuGH/projfile/internal/suppress"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProject(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.cppcheck")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const fullDocument = `<?xml version="1.0" encoding="UTF-8"?>
<project version="1">
    <root name="."/>
    <builddir>test-build-dir</builddir>
    <platform>win64</platform>
    <importproject>compile_commands.json</importproject>
    <analyze-all-vs-configs>false</analyze-all-vs-configs>
    <includedir>
        <dir name="lib/"/>
        <dir name="include\win"/>
    </includedir>
    <defines>
        <define name="FOO=1"/>
        <define name="BAR"/>
    </defines>
    <undefines>
        <undefine>DEBUG</undefine>
    </undefines>
    <paths>
        <dir name="gui"/>
        <dir name="cli"/>
    </paths>
    <exclude>
        <path name="gui/temp/"/>
    </exclude>
    <libraries>
        <library>qt</library>
        <library>posix</library>
    </libraries>
    <suppressions>
        <suppression fileName="cli/main.cpp" lineNumber="10" symbolName="argv">unusedVariable</suppression>
        <suppression>missingInclude</suppression>
    </suppressions>
    <addons>
        <addon>threadsafety</addon>
        <addon>misra</addon>
    </addons>
    <tools>
        <tool>clang-tidy</tool>
    </tools>
    <tags>
        <tag>important</tag>
    </tags>
</project>
`

func TestRead_FullDocument(t *testing.T) {
	path := writeProject(t, fullDocument)

	f, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, f.Filename())
	assert.Equal(t, ".", f.RootPath())
	assert.Equal(t, "test-build-dir", f.BuildDir())
	assert.Equal(t, "win64", f.Platform())
	assert.Equal(t, "compile_commands.json", f.ImportProject())
	assert.False(t, f.AnalyzeAllVsConfigs())
	assert.Equal(t, []string{"lib/", "include/win"}, f.IncludeDirs())
	assert.Equal(t, []string{"FOO=1", "BAR"}, f.Defines())
	assert.Equal(t, []string{"DEBUG"}, f.Undefines())
	assert.Equal(t, []string{"gui", "cli"}, f.CheckPaths())
	assert.Equal(t, []string{"gui/temp/"}, f.ExcludedPaths())
	assert.Equal(t, []string{"qt", "posix"}, f.Libraries())
	assert.Equal(t, []suppress.Suppression{
		{ErrorID: "unusedVariable", FileName: "cli/main.cpp", LineNumber: 10, SymbolName: "argv"},
		{ErrorID: "missingInclude", LineNumber: suppress.NoLine},
	}, f.Suppressions())
	assert.Equal(t, []string{"threadsafety", "misra"}, f.Addons())
	assert.False(t, f.ClangAnalyzer())
	assert.True(t, f.ClangTidy())
	assert.Equal(t, []string{"threadsafety", "misra", "clang-tidy"}, f.AddonsAndTools())
	assert.Equal(t, []string{"important"}, f.Tags())
}

func TestRead_LegacyIgnoreEqualsExclude(t *testing.T) {
	legacy, err := Load(filepath.Join("testdata", "legacy-ignore.cppcheck"))
	require.NoError(t, err)
	current, err := Load(filepath.Join("testdata", "current-exclude.cppcheck"))
	require.NoError(t, err)

	assert.Equal(t, []string{"lib/vendor/", "lib/gen/"}, legacy.ExcludedPaths())
	assert.Equal(t, current.ExcludedPaths(), legacy.ExcludedPaths())
	if diff := cmp.Diff(current.Snapshot(), legacy.Snapshot()); diff != "" {
		t.Errorf("legacy document decodes differently (-current +legacy):\n%s", diff)
	}
}

func TestRead_LegacyAndCurrentExcludesAccumulate(t *testing.T) {
	path := writeProject(t, `<project>
    <exclude><path name="a"/></exclude>
    <ignore><path name="b"/></ignore>
    <exclude><path name="c"/></exclude>
</project>`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, f.ExcludedPaths())
}

func TestRead_AnalyzeAllVsConfigs(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{name: "absent keeps default", body: ``, want: true},
		{name: "true", body: `<analyze-all-vs-configs>true</analyze-all-vs-configs>`, want: true},
		{name: "false", body: `<analyze-all-vs-configs>false</analyze-all-vs-configs>`, want: false},
		{name: "uppercase TRUE is false", body: `<analyze-all-vs-configs>TRUE</analyze-all-vs-configs>`, want: false},
		{name: "yes is false", body: `<analyze-all-vs-configs>yes</analyze-all-vs-configs>`, want: false},
		{name: "garbage is false", body: `<analyze-all-vs-configs>1</analyze-all-vs-configs>`, want: false},
		{name: "empty element keeps default", body: `<analyze-all-vs-configs/>`, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Load(writeProject(t, `<project version="1">`+tt.body+`</project>`))
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.AnalyzeAllVsConfigs())
		})
	}
}

func TestRead_SkipsEmptyEntries(t *testing.T) {
	path := writeProject(t, `<project>
    <root name=""/>
    <builddir>   </builddir>
    <includedir>
        <dir name=""/>
        <dir/>
        <dir name="keep"/>
        <other name="ignored"/>
    </includedir>
    <defines><define name=""/><define name="X"/></defines>
    <libraries>
        <library/>
        <library>   </library>
        <library>cairo</library>
    </libraries>
</project>`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, f.RootPath())
	assert.Empty(t, f.BuildDir())
	assert.Equal(t, []string{"keep"}, f.IncludeDirs())
	assert.Equal(t, []string{"X"}, f.Defines())
	assert.Equal(t, []string{"cairo"}, f.Libraries())
}

func TestRead_Suppressions(t *testing.T) {
	path := writeProject(t, `<project>
    <suppressions>
        <suppression lineNumber="0">zeroLine</suppression>
        <suppression lineNumber="-4">negativeLine</suppression>
        <suppression lineNumber="abc">badLine</suppression>
        <suppression fileName="a.c" lineNumber="7"/>
        <suppression/>
        <note>not a suppression</note>
    </suppressions>
</project>`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []suppress.Suppression{
		{ErrorID: "zeroLine", LineNumber: suppress.NoLine},
		{ErrorID: "negativeLine", LineNumber: suppress.NoLine},
		{ErrorID: "badLine", LineNumber: suppress.NoLine},
		{FileName: "a.c", LineNumber: 7},
		{LineNumber: suppress.NoLine},
	}, f.Suppressions())
}

func TestRead_Tools(t *testing.T) {
	path := writeProject(t, `<project>
    <tools>
        <tool>clang-analyzer</tool>
        <tool>pclint</tool>
        <tool></tool>
    </tools>
</project>`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.True(t, f.ClangAnalyzer())
	assert.False(t, f.ClangTidy())
	assert.Nil(t, f.Addons(), "unknown tools are not stored as add-ons")
	assert.Equal(t, []string{"clang-analyzer"}, f.AddonsAndTools())
}

func TestRead_UnknownElementsIgnored(t *testing.T) {
	path := writeProject(t, `<?xml version="1.0"?>
<project version="2">
    <future-setting mode="fast"><nested><libraries><library>hidden</library></libraries></nested></future-setting>
    <libraries><library>visible</library></libraries>
    <!-- comment -->
    <?pi data?>
    text between elements
</project>`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"visible"}, f.Libraries(), "only direct children of project are decoded")
}

func TestRead_ElementOrderDoesNotMatter(t *testing.T) {
	path := writeProject(t, `<project>
    <tags><tag>t</tag></tags>
    <paths><dir name="src"/></paths>
    <builddir>out</builddir>
    <root name="r"/>
</project>`)

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"t"}, f.Tags())
	assert.Equal(t, []string{"src"}, f.CheckPaths())
	assert.Equal(t, "out", f.BuildDir())
	assert.Equal(t, "r", f.RootPath())
}

func TestRead_ByteOrderMark(t *testing.T) {
	path := writeProject(t, "\xEF\xBB\xBF<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n<project><builddir>b</builddir></project>")

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "b", f.BuildDir())
}

func TestRead_Latin1Declaration(t *testing.T) {
	path := writeProject(t, "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<project><builddir>b\xfcild</builddir></project>")

	f, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "büild", f.BuildDir())
}

func TestRead_Failures(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{name: "binary garbage", content: "\x00\x01\x02 not xml at all", wantErr: ErrSyntax},
		{name: "plain text", content: "hello world", wantErr: ErrSyntax},
		{name: "empty file", content: "", wantErr: ErrSyntax},
		{name: "unclosed project", content: `<project><builddir>x</builddir>`, wantErr: ErrSyntax},
		{name: "mismatched tags", content: `<project><libraries></tags></project>`, wantErr: ErrSyntax},
		{name: "broken child", content: `<project><libraries><library>a</libraries></project>`, wantErr: ErrSyntax},
		{name: "second root", content: `<project></project><project></project>`, wantErr: ErrSyntax},
		{name: "trailing text", content: `<project></project> junk`, wantErr: ErrSyntax},
		{name: "external entity", content: `<!DOCTYPE p [<!ENTITY xxe SYSTEM "file:///etc/passwd">]><project><builddir>&xxe;</builddir></project>`, wantErr: ErrSyntax},
		{name: "other root", content: `<?xml version="1.0"?><results version="2"><errors/></results>`, wantErr: ErrNotProject},
		{name: "project nested in other root", content: `<wrapper><project/></wrapper>`, wantErr: ErrNotProject},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProject(t, tt.content)

			f := New()
			f.SetLibraries([]string{"stale"})
			f.SetAnalyzeAllVsConfigs(false)

			err := f.Read(path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "expected %v, got %v", tt.wantErr, err)
			assert.Contains(t, err.Error(), path)

			assert.Equal(t, path, f.Filename())
			if diff := cmp.Diff(New().Snapshot(), f.Snapshot()); diff != "" {
				t.Errorf("model not reset to defaults (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.cppcheck")

	f, err := Load(path)
	assert.Nil(t, f)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrSyntax)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRead_NoFilename(t *testing.T) {
	err := New().Read("")
	assert.ErrorIs(t, err, ErrIO)
}

func TestRead_TooLarge(t *testing.T) {
	path := writeProject(t, `<project><builddir>`+strings.Repeat("x", 256)+`</builddir></project>`)

	_, err := Load(path, WithMaxBytes(64))
	assert.ErrorIs(t, err, ErrIO)

	f, err := Load(path, WithMaxBytes(1024))
	require.NoError(t, err)
	assert.Len(t, f.BuildDir(), 256)
}

func TestRead_ReplacesPreviousContent(t *testing.T) {
	f := New()
	f.SetLibraries([]string{"old"})
	f.SetTags([]string{"old-tag"})
	f.SetClangTidy(true)

	require.NoError(t, f.Read(writeProject(t, `<project><libraries><library>new</library></libraries></project>`)))
	assert.Equal(t, []string{"new"}, f.Libraries())
	assert.Nil(t, f.Tags())
	assert.False(t, f.ClangTidy())
}

func TestRead_EmptyPathUsesFilename(t *testing.T) {
	path := writeProject(t, `<project><platform>unix32</platform></project>`)
	f := NewWithFilename(path)
	require.NoError(t, f.Read(""))
	assert.Equal(t, "unix32", f.Platform())
}

func TestDecode_Reader(t *testing.T) {
	f := NewWithFilename("keep.cppcheck")
	require.NoError(t, f.Decode(strings.NewReader(`<project><tags><tag>a</tag><tag>b</tag></tags></project>`)))
	assert.Equal(t, []string{"a", "b"}, f.Tags())
	assert.Equal(t, "keep.cppcheck", f.Filename())

	err := f.Decode(strings.NewReader(`<nope/>`))
	assert.ErrorIs(t, err, ErrNotProject)
	assert.Nil(t, f.Tags())
}
