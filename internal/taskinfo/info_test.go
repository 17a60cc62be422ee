package taskinfo

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/lunar/internal/log"
)

const buildScript = `local process = require("@lune/process")

--[=[ lunar
args = "<target>"
about = "Build the project"

[tasks.release]
about = "Build a release"
args = "[--strip]"

[tasks.debug]
about = "Build with symbols"
--]=]

print(process.args)
`

func writeScript(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0644))
	return path
}

func TestParseNoBlock(t *testing.T) {
	info := Parse([]byte("print('hello')\n-- lunar is mentioned but not as a block\n"))
	assert.Nil(t, info.Args)
	assert.Nil(t, info.About)
	assert.False(t, info.Hide)
	assert.Empty(t, info.Tasks)
}

func TestParseBlock(t *testing.T) {
	info := Parse([]byte(buildScript))

	require.NotNil(t, info.Args)
	assert.Equal(t, "<target>", *info.Args)
	require.NotNil(t, info.About)
	assert.Equal(t, "Build the project", *info.About)
	require.Len(t, info.Tasks, 2)
	assert.Equal(t, "Build a release", *info.Tasks["release"].About)
	assert.Nil(t, info.Tasks["debug"].Args)
}

func TestParseDelimiterVariants(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		wantOK   bool
	}{
		{"closing dashes", "--[=[ lunar\nabout = \"x\"\n--]=]", true},
		{"no closing dashes", "--[=[ lunar\nabout = \"x\"\n]=]", true},
		{"no blanks", "--[=[lunar\nabout = \"x\"\n]=]", true},
		{"trailing blanks", "--[=[   lunar  \t\nabout = \"x\"\n]=]", true},
		{"crlf after marker", "--[=[ lunar\r\nabout = \"x\"\r\n]=]", true},
		{"other marker", "--[=[ notes\nabout = \"x\"\n]=]", false},
		{"marker on next line", "--[=[\nlunar\nabout = \"x\"\n]=]", false},
		{"unterminated", "--[=[ lunar\nabout = \"x\"\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := Parse([]byte(tt.contents))
			if tt.wantOK {
				require.NotNil(t, info.About)
				assert.Equal(t, "x", *info.About)
			} else {
				assert.Nil(t, info.About)
			}
		})
	}
}

func TestParseInvalidBlock(t *testing.T) {
	info := Parse([]byte("--[=[ lunar\nabout = \nhide = true\n--]=]"))

	require.NotNil(t, info.About)
	assert.True(t, strings.HasPrefix(*info.About, "failed to parse info:"), *info.About)
	assert.False(t, info.Hide)
	assert.Nil(t, info.Args)
	assert.Empty(t, info.Tasks)
}

func TestParseWrongType(t *testing.T) {
	info := Parse([]byte("--[=[ lunar\nhide = \"yes\"\n]=]"))

	require.NotNil(t, info.About)
	assert.True(t, strings.HasPrefix(*info.About, "failed to parse info:"))
	assert.False(t, info.Hide)
}

func TestParseInvalidUTF8(t *testing.T) {
	contents := []byte("--[=[ lunar\nabout = \"caf\xe9 build\"\n--]=]\n")

	info := Parse(contents)

	require.NotNil(t, info.About)
	assert.Equal(t, "caf\uFFFD build", *info.About)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := Extract(filepath.Join(t.TempDir(), "missing.luau"))
	assert.Error(t, err)
}

func TestBuildRecordsFlattensSubtasks(t *testing.T) {
	dir := t.TempDir()
	build := writeScript(t, dir, "build.luau", buildScript)
	plain := writeScript(t, dir, "fmt.luau", "print('fmt')\n")

	records := BuildRecords(map[string]string{"build": build, "fmt": plain}, log.Discard())

	require.Len(t, records, 4)
	assert.Equal(t, Record{Name: "build", Args: "<target>", About: "Build the project", Path: build}, records["build"])
	assert.Equal(t, Record{Name: "release", Args: "[--strip]", About: "Build a release", Path: build, SubtaskArgs: []string{"release"}}, records["release"])
	assert.Equal(t, []string{"debug"}, records["debug"].SubtaskArgs)
	assert.Equal(t, Record{Name: "fmt", Path: plain}, records["fmt"])
}

func TestBuildRecordsHiddenParent(t *testing.T) {
	dir := t.TempDir()
	path := writeScript(t, dir, "tools.luau", `--[=[ lunar
hide = true

[tasks.lint]
about = "Lint"

[tasks.lint.tasks.fix]
about = "Lint and fix"
]=]`)

	records := BuildRecords(map[string]string{"tools": path}, log.Discard())

	assert.NotContains(t, records, "tools")
	assert.Equal(t, []string{"lint"}, records["lint"].SubtaskArgs)
	assert.Equal(t, []string{"lint", "fix"}, records["fix"].SubtaskArgs)
	assert.Equal(t, path, records["fix"].Path)
}

func TestBuildRecordsUnreadableScript(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.luau")

	records := BuildRecords(map[string]string{"gone": missing}, log.Discard())

	require.Contains(t, records, "gone")
	assert.True(t, strings.HasPrefix(records["gone"].About, "failed to read info:"))
	assert.Equal(t, missing, records["gone"].Path)
}

func TestRecordUsage(t *testing.T) {
	assert.Equal(t, "build", Record{Name: "build"}.Usage())
	assert.Equal(t, "build <target>", Record{Name: "build", Args: "<target>"}.Usage())
	assert.False(t, Record{Name: "x"}.Runnable())
	assert.True(t, Record{Name: "x", Path: "x.luau"}.Runnable())
}

func TestSorted(t *testing.T) {
	records := map[string]Record{"b": {Name: "b"}, "a": {Name: "a"}, "c": {Name: "c"}}
	sorted := Sorted(records)

	names := make([]string, 0, len(sorted))
	for _, r := range sorted {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"a", "b", "c"}, names)
}
