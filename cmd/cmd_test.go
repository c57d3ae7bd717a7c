package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoursCmd(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"08:30-17:30", "09:00-13:00", "KAPALI"}, "Mo-Fr 08:30-17:30; Sa 09:00-13:00\n"},
		{[]string{"08:30-12:00/13:00-17:30", "KAPALI", "KAPALI"}, "Mo-Fr 08:30-12:00,13:00-17:30\n"},
		{[]string{"00:00-24:00", "00:00-24:00", "00:00-24:00"}, "24/7\n"},
		{[]string{"KAPALI", "KAPALI", "KAPALI"}, "\n"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		root := NewRootCmd()
		root.SetOut(&out)
		root.SetArgs(append([]string{"hours"}, tt.args...))
		require.NoError(t, root.Execute())
		assert.Equal(t, tt.want, out.String(), tt.args)
	}
}

func TestHoursCmdArgs(t *testing.T) {
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"hours", "08:30-17:30"})
	assert.Error(t, root.Execute())
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Version:")
}
