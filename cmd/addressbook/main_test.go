package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command line args in an isolated directory and returns stdout and stderr.
func execute(t *testing.T, dir, stdin string, args ...string) (string, string, error) {
	a := &app{}
	t.Cleanup(a.close)
	cmd := newRootCommand(a)
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--storage", filepath.Join(dir, "book.txt"), "--log-file", os.DevNull}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func isolate(t *testing.T) string {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("HOME", filepath.Join(dir, "home"))
	return dir
}

var doeFlags = []string{
	"--family", "Doe",
	"--name", "Jane",
	"--surname", "Ann",
	"--organization", "Globex",
	"--working-phone", "84951234567",
	"--mobile-phone", "89161234567",
}

// TestAddListSearch adds a record with flags and finds it with list and search.
func TestAddListSearch(t *testing.T) {
	dir := isolate(t)

	stdout, _, err := execute(t, dir, "", append([]string{"add"}, doeFlags...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Record added.")

	content, err := os.ReadFile(filepath.Join(dir, "book.txt"))
	require.NoError(t, err)
	assert.Equal(t,
		"family;name;surname;organization;working_phone;mobile_phone\nDoe;Jane;Ann;Globex;84951234567;89161234567\n",
		string(content))

	stdout, _, err = execute(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Page 1")
	assert.Contains(t, stdout, "Globex")

	stdout, _, err = execute(t, dir, "", "search", "--family", "DOE")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 1 matches:")

	stdout, _, err = execute(t, dir, "", "search", "--family", "Smith")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 0 matches:")
}

// TestAddInvalid expects a missing field, a bad phone number and empty text fields to be
// rejected without writing.
func TestAddInvalid(t *testing.T) {
	dir := isolate(t)

	_, _, err := execute(t, dir, "", "add", "--family", "Doe")
	assert.Error(t, err)

	args := append([]string{"add"}, doeFlags...)
	args = append(args, "--mobile-phone", "123")
	_, _, err = execute(t, dir, "", args...)
	assert.Error(t, err)

	_, _, err = execute(t, dir, "", "add",
		"--family", "", "--name", "", "--surname", "", "--organization", "",
		"--working-phone", "84951234567", "--mobile-phone", "89161234567")
	assert.ErrorContains(t, err, "must not be empty")

	assert.NoFileExists(t, filepath.Join(dir, "book.txt"))
}

// TestSearchRequiresField expects an empty query to be refused unless --all is given.
func TestSearchRequiresField(t *testing.T) {
	dir := isolate(t)
	_, _, err := execute(t, dir, "", "search")
	assert.Error(t, err)

	stdout, _, err := execute(t, dir, "", "search", "--all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 0 matches:")
}

// TestListWarnsAboutSkippedLines expects malformed lines on stderr.
func TestListWarnsAboutSkippedLines(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "book.txt"), []byte("family;name;surname;organization;working_phone;mobile_phone\nDoe;Jane\n"), 0644))
	stdout, stderr, err := execute(t, dir, "", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No data.")
	assert.Contains(t, stderr, "skipped line 2")
}

// TestInteractive drives the menu through stdin.
func TestInteractive(t *testing.T) {
	dir := isolate(t)
	stdout, _, err := execute(t, dir, "2\nDoe\nJane\nAnn\nGlobex\n84951234567\n89161234567\nn\n1\n0\n")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Record added.")
	assert.Contains(t, stdout, "Globex")
}

// TestConfigInit writes the configuration and expects a second write to fail.
func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "addressbook.yaml")
	stdout, _, err := execute(t, dir, "", "config", "init", path, "--page-size", "8")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote "+path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "page_size: 8")

	_, _, err = execute(t, dir, "", "config", "init", path)
	assert.Error(t, err)
}

// TestInvalidConfig expects a bad page size to stop the command.
func TestInvalidConfig(t *testing.T) {
	dir := isolate(t)
	_, _, err := execute(t, dir, "", "list", "--page-size", "-1")
	assert.Error(t, err)
}
