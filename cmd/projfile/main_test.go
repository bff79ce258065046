// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ManuGH/projfile/internal/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleProject = `<?xml version="1.0" encoding="UTF-8"?>
<project version="1">
    <paths>
        <dir name="src"/>
    </paths>
    <ignore>
        <path name="src/vendor/"/>
    </ignore>
    <libraries>
        <library>posix</library>
    </libraries>
    <tools>
        <tool>clang-tidy</tool>
    </tools>
</project>
`

// lockedBuffer is written by the watcher goroutine and the command at once.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func execute(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestVersion(t *testing.T) {
	code, out, _ := execute(t, "version")
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "projfile dev (project format 1)\n", out)
}

func TestShow_YAML(t *testing.T) {
	path := writeFile(t, "app.cppcheck", sampleProject)
	code, out, stderr := execute(t, "show", path)
	require.Equal(t, exitOK, code, stderr)

	assert.Contains(t, out, "analyzeAllVsConfigs: true")
	assert.Contains(t, out, "libraries:\n  - posix")
	assert.Contains(t, out, "excludedPaths:\n  - src/vendor/")
	assert.Contains(t, out, "tools:\n  - clang-tidy")
}

func TestShow_XML(t *testing.T) {
	path := writeFile(t, "app.cppcheck", sampleProject)
	code, out, _ := execute(t, "show", "--format", "xml", path)
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, `<project version="1">`)
	assert.Contains(t, out, "<exclude>")
	assert.NotContains(t, out, "<ignore>")
}

func TestShow_Errors(t *testing.T) {
	path := writeFile(t, "app.cppcheck", sampleProject)

	code, _, stderr := execute(t, "show", "--format", "json", path)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "unknown format")

	code, _, stderr = execute(t, "show", filepath.Join(t.TempDir(), "missing.cppcheck"))
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "missing.cppcheck")

	code, _, _ = execute(t, "show")
	assert.Equal(t, exitUsage, code)
}

func TestValidate(t *testing.T) {
	good := writeFile(t, "good.cppcheck", sampleProject)
	bad := writeFile(t, "bad.cppcheck", "<project><paths>")
	other := writeFile(t, "other.xml", "<configuration/>")

	code, out, _ := execute(t, "validate", good)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "✓ "+good+" is valid")

	code, out, _ = execute(t, "validate", good, bad, other)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out, "✓ "+good)
	assert.Contains(t, out, "✗ "+bad+": project file is not well-formed XML")
	assert.Contains(t, out, "✗ "+other+": not a project file")

	code, _, _ = execute(t, "validate")
	assert.Equal(t, exitUsage, code)
}

func TestRewrite_ToOutput(t *testing.T) {
	src := writeFile(t, "legacy.cppcheck", sampleProject)
	dst := filepath.Join(t.TempDir(), "clean.cppcheck")

	code, out, stderr := execute(t, "rewrite", src, "-o", dst)
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "wrote "+dst+"\n", out)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Contains(t, string(data), `<path name="src/vendor/"/>`)
	assert.NotContains(t, string(data), "<ignore>")

	original, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.Equal(t, sampleProject, string(original), "source is untouched")
}

func TestRewrite_InPlace(t *testing.T) {
	src := writeFile(t, "legacy.cppcheck", sampleProject)
	code, _, _ := execute(t, "rewrite", src)
	require.Equal(t, exitOK, code)

	data, err := os.ReadFile(src)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "\xEF\xBB\xBF<?xml"))
}

func TestDiff(t *testing.T) {
	a := writeFile(t, "a.cppcheck", sampleProject)
	renamed := strings.NewReplacer("<ignore>", "<exclude>", "</ignore>", "</exclude>").Replace(sampleProject)
	b := writeFile(t, "b.cppcheck", renamed)

	code, out, _ := execute(t, "diff", a, b)
	assert.Equal(t, exitOK, code)
	assert.Equal(t, "no differences\n", out)

	c := writeFile(t, "c.cppcheck", strings.Replace(sampleProject, "posix", "qt", 1))
	code, out, _ = execute(t, "diff", a, c)
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, out, `"posix"`)
	assert.Contains(t, out, `"qt"`)
}

func TestUnknownCommand(t *testing.T) {
	code, _, stderr := execute(t, "frobnicate")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "unknown command")
}

func TestInvalidSettings(t *testing.T) {
	t.Setenv("PROJFILE_VALIDATE_CONCURRENCY", "0")
	code, _, stderr := execute(t, "version")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr, "PROJFILE_VALIDATE_CONCURRENCY")
}

func TestWatch_PrintsReloads(t *testing.T) {
	t.Setenv("PROJFILE_WATCH_DEBOUNCE", "20ms")
	path := writeFile(t, "watched.cppcheck", sampleProject)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	go func() {
		time.Sleep(300 * time.Millisecond)
		f, err := project.Load(path)
		if err != nil {
			return
		}
		f.SetCheckPaths([]string{"src", "tests"})
		_ = f.Write("")
	}()

	var out, errOut lockedBuffer
	code := run(ctx, []string{"watch", path}, &out, &errOut)
	assert.Equal(t, exitOK, code)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.GreaterOrEqual(t, len(lines), 3, out.String())
	assert.Equal(t, "watching "+path, lines[0])
	assert.Contains(t, lines[1], "1 paths, 1 excluded, 0 suppressions, tools [clang-tidy]")
	assert.Contains(t, lines[len(lines)-1], "2 paths, 1 excluded, 0 suppressions, tools [clang-tidy]")
}

var metricsURLPattern = regexp.MustCompile(`metrics on (http://\S+/metrics)`)

func TestWatch_ExportsMetrics(t *testing.T) {
	path := writeFile(t, "watched.cppcheck", sampleProject)
	metricsFile := filepath.Join(t.TempDir(), "projfile.prom")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var out, errOut lockedBuffer
	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"watch", path, "--metrics-listen", "127.0.0.1:0", "--metrics-file", metricsFile}, &out, &errOut)
	}()

	var url string
	require.Eventually(t, func() bool {
		m := metricsURLPattern.FindStringSubmatch(out.String())
		if m == nil {
			return false
		}
		url = m[1]
		return true
	}, 5*time.Second, 10*time.Millisecond, "metrics address never printed")

	resp, err := http.Get(url)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `projfile_read_total{result="ok"}`)

	cancel()
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code)
	case <-time.After(10 * time.Second):
		t.Fatal("watch did not stop")
	}

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `projfile_read_total{result="ok"}`)
}

func TestWatch_MetricsListenFailure(t *testing.T) {
	path := writeFile(t, "watched.cppcheck", sampleProject)
	code, _, stderr := execute(t, "watch", path, "--metrics-listen", "256.0.0.1:bad")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "metrics listen")
}
