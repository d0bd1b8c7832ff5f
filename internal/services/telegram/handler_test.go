package telegram

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		input       string
		wantCommand string
		wantArgs    string
	}{
		{"/start", "start", ""},
		{"/start ref2002", "start", "ref2002"},
		{"/start 2002", "start", "2002"},
		{"/terms@pin_bot", "terms", ""},
		{"/sendstars@pin_bot extra", "sendstars", "extra"},
		{"/status  ", "status", ""},
	}

	for _, tc := range cases {
		command, args := ParseCommand(tc.input)
		require.Equal(t, tc.wantCommand, command, "input %q", tc.input)
		require.Equal(t, tc.wantArgs, args, "input %q", tc.input)
	}
}

func TestIsCommand(t *testing.T) {
	require.True(t, IsCommand("/start"))
	require.True(t, IsCommand("/terms@pin_bot"))
	require.False(t, IsCommand("hello"))
	require.False(t, IsCommand(""))
	require.False(t, IsCommand(" /start"))
}
