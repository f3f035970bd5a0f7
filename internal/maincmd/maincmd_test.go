package maincmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabrielbrunop/tenda/lang/platform"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExpandGlobs(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.tnd", "1")
	b := writeFile(t, dir, "b.tnd", "2")

	files, err := expandGlobs([]string{a})
	require.NoError(t, err)
	assert.Equal(t, []string{a}, files)

	files, err = expandGlobs([]string{filepath.Join(dir, "*.tnd")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, files)

	_, err = expandGlobs([]string{filepath.Join(dir, "*.nope")})
	assert.Error(t, err)
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.tnd", "exiba(\"olá\")\n")

	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	p := &platform.Fake{Time: time.Unix(0, 0).UTC(), Out: &out}

	err := RunFiles(context.Background(), stdio, p, file)
	require.NoError(t, err)
	assert.Equal(t, "olá\n", out.String())
	assert.Empty(t, errOut.String())
}

func TestRunFilesReportsRuntimeError(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.tnd", "1 / 0\n")

	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	p := &platform.Fake{Time: time.Unix(0, 0).UTC(), Out: &out}

	err := RunFiles(context.Background(), stdio, p, file)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "divisão por zero")
	assert.Contains(t, errOut.String(), "main.tnd:1:1")
}

func TestRunFilesReportsParseError(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.tnd", "retorna 1\n")

	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}
	p := &platform.Fake{Time: time.Unix(0, 0).UTC(), Out: &out}

	err := RunFiles(context.Background(), stdio, p, file)
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "retorno fora de uma função")
}

func TestTokenizeFiles(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.tnd", "seja x = 1\n")

	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := TokenizeFiles(context.Background(), stdio, file)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "seja")
	assert.Contains(t, out.String(), "number literal 1")
}

func TestParseFilesPrintsAST(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "main.tnd", "seja x = 1\n")

	var out, errOut bytes.Buffer
	stdio := mainer.Stdio{Stdout: &out, Stderr: &errOut}

	err := ParseFiles(context.Background(), stdio, "", file)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "decl x")
}
