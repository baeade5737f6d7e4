package cli

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubTerminal(t *testing.T, tty bool, read func(int) ([]byte, error)) {
	t.Helper()
	origTTY, origRead := isTerminal, readPassword
	t.Cleanup(func() { isTerminal, readPassword = origTTY, origRead })
	isTerminal = func(int) bool { return tty }
	readPassword = read
}

func TestPrompt(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  hello world \nnext\n"))
	var out bytes.Buffer

	got, err := Prompt(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestPrompt_EOF(t *testing.T) {
	var out bytes.Buffer

	got, err := Prompt(bufio.NewReader(strings.NewReader("lastline")), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = Prompt(bufio.NewReader(strings.NewReader("")), "Name?", &out)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadSecret_Terminal(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return []byte("pw1"), nil })

	var out bytes.Buffer
	pw, err := ReadSecret(bufio.NewReader(strings.NewReader("ignored\n")), &out)
	require.NoError(t, err)
	assert.Equal(t, "pw1", string(pw))
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestReadSecret_TerminalError(t *testing.T) {
	stubTerminal(t, true, func(int) ([]byte, error) { return nil, errors.New("boom") })

	_, err := ReadSecret(bufio.NewReader(strings.NewReader("")), io.Discard)
	assert.Error(t, err)
}

func TestReadSecret_Piped(t *testing.T) {
	stubTerminal(t, false, func(int) ([]byte, error) {
		t.Fatal("terminal read on piped input")
		return nil, nil
	})

	pw, err := ReadSecret(bufio.NewReader(strings.NewReader("s3cret\n")), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", string(pw))
}
