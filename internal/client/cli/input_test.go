package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptLine(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"trims newline and spaces", "  a@example.com \n", "a@example.com", nil},
		{"accepts final line without newline", "last", "last", nil},
		{"empty input", "", "", io.EOF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := promptLine(bufio.NewReader(strings.NewReader(tt.input)), "Email", &out)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Email: ", out.String())
		})
	}
}

func TestPromptPassword_PipedInput(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("hunter2\n")

	got, err := promptPassword(bufio.NewReader(in), in, &out)

	require.NoError(t, err)
	assert.Equal(t, "hunter2", got)
}

func TestPromptPassword_Terminal(t *testing.T) {
	origRead, origIsTerm := readPassword, isTerminal
	t.Cleanup(func() { readPassword, isTerminal = origRead, origIsTerm })

	isTerminal = func(int) bool { return true }

	t.Run("reads without echo", func(t *testing.T) {
		readPassword = func(int) ([]byte, error) { return []byte("s3cret"), nil }
		var out bytes.Buffer

		got, err := promptPassword(bufio.NewReader(os.Stdin), os.Stdin, &out)

		require.NoError(t, err)
		assert.Equal(t, "s3cret", got)
		assert.Equal(t, "Password: \n", out.String())
	})

	t.Run("propagates read error", func(t *testing.T) {
		readPassword = func(int) ([]byte, error) { return nil, errors.New("tty gone") }

		_, err := promptPassword(bufio.NewReader(os.Stdin), os.Stdin, io.Discard)

		assert.EqualError(t, err, "tty gone")
	})
}
