package commands

import (
	"flag"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		line string
		args []string
	}{
		{"load assets/meshes.json", []string{"load", "assets/meshes.json"}},
		{"  /cache  ", []string{"cache"}},
		{"grid -on=false", []string{"grid", "-on=false"}},
		{`load "my meshes.json"`, []string{"load", "my meshes.json"}},
		{"   ", nil},
		{"/", nil},
	}
	for _, tc := range tests {
		args, err := Parse(tc.line)
		require.NoError(t, err, tc.line)
		if tc.args == nil {
			assert.Empty(t, args, tc.line)
			continue
		}
		assert.Equal(t, tc.args, args, tc.line)
	}

	_, err := Parse(`load "unterminated`)
	assert.Error(t, err)
}

func TestExecute(t *testing.T) {
	r := NewRegistry()
	fs := flag.NewFlagSet("grid", flag.ContinueOnError)
	on := fs.Bool("on", true, "show the grid")
	var gotArgs []string
	r.Register("grid", "grid [-on=bool]", fs, func(args []string) (string, error) {
		gotArgs = args
		return "grid updated", nil
	})

	msg, err := r.Execute([]string{"grid", "-on=false", "extra"})
	require.NoError(t, err)
	assert.Equal(t, "grid updated", msg)
	assert.False(t, *on)
	assert.Equal(t, []string{"extra"}, gotArgs)
	assert.Equal(t, "grid [-on=bool]", r.Usage("grid"))
	assert.Equal(t, []string{"grid", "help"}, r.Names())
}

func TestExecuteErrors(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", "noop", nil, func([]string) (string, error) { return "", nil })

	_, err := r.Execute(nil)
	assert.ErrorContains(t, err, "missing subcommand")
	_, err = r.Execute([]string{"fly"})
	assert.ErrorContains(t, err, "unknown command: fly")
	_, err = r.Execute([]string{"noop", "-x"})
	assert.ErrorContains(t, err, "noop")
	_, err = r.Execute([]string{"help", "fly"})
	assert.Error(t, err)
}

func TestHelp(t *testing.T) {
	r := NewRegistry()
	r.Register("noop", "noop does nothing", nil, func([]string) (string, error) { return "", nil })

	msg, err := r.Execute([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "commands: help, noop", msg)

	msg, err = r.Execute([]string{"help", "noop"})
	require.NoError(t, err)
	assert.Equal(t, "noop does nothing", msg)
}
