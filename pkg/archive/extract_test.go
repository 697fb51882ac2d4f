// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package archive

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requireExtractor skips the test unless /bin/sh exists and the lookup the
// archive header performs would find a base64 binary.
func requireExtractor(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping extraction in short mode")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh available")
	}
	out, err := exec.Command(sh, "-c", `find /bin /usr/bin /usr/local/bin -name 'base64*' -type f -perm -u+x 2> /dev/null | head -n 1`).Output()
	if err != nil || strings.TrimSpace(string(out)) == "" {
		t.Skip("no base64 binary reachable from the archive header")
	}
	return sh
}

func TestArchiveExtracts(t *testing.T) {
	sh := requireExtractor(t)

	fs, names := loadTree(t, "tree.txtar")
	binary := []byte{0x00, 0x7f, 0x80, 0xff, 0x00, '\n', 0x00}
	require.NoError(t, util.WriteFile(fs, "bin/data.bin", binary, 0o644))
	names = append(names, "bin/data.bin", "deep/a/b/c/spaced name.txt")
	require.NoError(t, util.WriteFile(fs, "deep/a/b/c/spaced name.txt", []byte("spaces work"), 0o644))

	text, err := New(WithFileSystem(fs), WithConcurrency(4)).BuildLenient(
		testContext(t),
		"echo pre > pre.marker\n",
		"echo post > post.marker\n",
		append(names, "not/there.txt"),
	)
	require.NoError(t, err, "building archive")

	root := t.TempDir()
	script := filepath.Join(root, "archive.sh")
	require.NoError(t, os.WriteFile(script, []byte(text), 0o755))

	dest := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(dest, 0o755))

	cmd := exec.Command(sh, script)
	cmd.Dir = dest
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "running archive: %s", output)

	for _, name := range names {
		want, err := util.ReadFile(fs, name)
		require.NoError(t, err)
		got, err := os.ReadFile(filepath.Join(dest, filepath.FromSlash(name)))
		require.NoError(t, err, "extracted %s should exist", name)
		assert.Equal(t, want, got, "extracted %s should match", name)
		assert.Contains(t, string(output), "x - "+name, "progress line for %s", name)
	}

	assert.FileExists(t, filepath.Join(dest, "pre.marker"), "prescript should have run")
	assert.FileExists(t, filepath.Join(dest, "post.marker"), "postscript should have run")
	assert.NoFileExists(t, filepath.Join(dest, "not", "there.txt"))
}

func TestHeaderToolLookup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping shell lookup in short mode")
	}
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("no sh available")
	}

	header, err := Header()
	require.NoError(t, err)

	var lookup string
	for _, line := range strings.Split(header, "\n") {
		if strings.HasPrefix(line, "B64TOOL=") {
			lookup = line
		}
	}
	require.NotEmpty(t, lookup, "header should assign B64TOOL")

	// search only the working directory so the host's tools do not interfere
	const dirs = "/bin /usr/bin /usr/local/bin ."
	require.Contains(t, lookup, dirs)
	lookup = strings.Replace(lookup, dirs, ".", 1)

	tests := []struct {
		name  string
		files map[string]os.FileMode
		want  string
	}{
		{
			name:  "executable_found",
			files: map[string]os.FileMode{"base64": 0o755},
			want:  "./base64",
		},
		{
			name:  "plain_file_ignored",
			files: map[string]os.FileMode{"base64.md": 0o644},
			want:  "",
		},
		{
			name:  "decoy_next_to_tool",
			files: map[string]os.FileMode{"docs/base64.md": 0o644, "tools/base64": 0o755},
			want:  "./tools/base64",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, mode := range tt.files {
				p := filepath.Join(dir, filepath.FromSlash(name))
				require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
				require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"), mode))
				require.NoError(t, os.Chmod(p, mode))
			}

			cmd := exec.Command(sh, "-c", lookup+` printf '%s' "$B64TOOL"`)
			cmd.Dir = dir
			out, err := cmd.Output()
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(out))
		})
	}
}
