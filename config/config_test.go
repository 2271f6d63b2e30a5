package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thiremani/irgen/codegen"
	"github.com/thiremani/irgen/intrinsics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		want    *Options
		wantErr string
	}{
		{
			name: "empty file keeps defaults",
			yaml: "",
			want: Default(),
		},
		{
			name: "all fields",
			yaml: `
assembly: hello
entry: script
sequencePoints: true
deterministic: true
verify: false
emitLLVM: true
output: out
`,
			want: &Options{
				Assembly:       "hello",
				Entry:          EntryScript,
				SequencePoints: true,
				Deterministic:  true,
				Verify:         false,
				EmitLLVM:       true,
				Output:         "out",
			},
		},
		{
			name:    "unknown field",
			yaml:    "assembly: hello\nsequencepoints: true\n",
			wantErr: "field sequencepoints not found",
		},
		{
			name:    "bad entry",
			yaml:    "entry: library\n",
			wantErr: `entry must be program, script or none, got "library"`,
		},
		{
			name:    "blank assembly",
			yaml:    "assembly: \"\"\n",
			wantErr: "assembly is required",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(strings.NewReader(tt.yaml))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "irgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("assembly: demo\nentry: none\n"), 0o644))

	opts, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "demo", opts.Assembly)
	assert.Equal(t, "build", opts.Output)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading build file")
}

func TestEntryNameRoundTrip(t *testing.T) {
	for _, c := range []codegen.EntryConvention{codegen.NoEntry, codegen.ProgramEntry, codegen.ScriptEntry} {
		opts := Default()
		opts.Entry = EntryName(c)
		got, err := opts.EntryConvention()
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestCodegenOptions(t *testing.T) {
	opts := Default()
	opts.Deterministic = true
	opts.SequencePoints = true

	cg, err := opts.Codegen(intrinsics.WellKnown())
	require.NoError(t, err)
	assert.Equal(t, "main", cg.Name)
	assert.Equal(t, codegen.ProgramEntry, cg.Entry)
	assert.True(t, cg.EmitSequencePoints)
	assert.Equal(t, codegen.MvidFor("main", true), cg.Mvid)
}
