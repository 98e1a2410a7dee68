package build

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NVIDIA/shellpack/pkg/errors"
)

func TestHookCommand(t *testing.T) {
	t.Setenv("HOOK_TARGET", "release")

	tests := []struct {
		name     string
		line     string
		wantName string
		wantArgs []string
		wantOK   bool
		wantErr  bool
	}{
		{name: "simple", line: "npm run build", wantName: "npm", wantArgs: []string{"run", "build"}, wantOK: true},
		{name: "double quotes", line: `sh -c "echo hi there"`, wantName: "sh", wantArgs: []string{"-c", "echo hi there"}, wantOK: true},
		{name: "single quotes keep variables", line: `echo '$HOOK_TARGET'`, wantName: "echo", wantArgs: []string{"$HOOK_TARGET"}, wantOK: true},
		{name: "expands variables", line: "make $HOOK_TARGET", wantName: "make", wantArgs: []string{"release"}, wantOK: true},
		{name: "no args", line: "make", wantName: "make", wantArgs: []string{}, wantOK: true},
		{name: "blank", line: "   ", wantOK: false},
		{name: "unterminated quote", line: `echo "oops`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, ok, err := HookCommand(tt.line, "/app", true)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrCodeConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantName, cmd.Name)
			assert.Equal(t, tt.wantArgs, cmd.Args)
			assert.Equal(t, "/app", cmd.Dir)
			assert.True(t, cmd.Verbose)
		})
	}
}
