package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Terminal seams, replaced in tests.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// readLine reads one trimmed line. A final line without a newline still
// counts; a bare EOF is returned as io.EOF.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Prompt asks for a single line of input:
//
//	Label
//	> _
func Prompt(reader *bufio.Reader, label string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, label+"\n> "); err != nil {
		return "", err
	}
	return readLine(reader)
}

// ReadSecret asks for a password. On a terminal the input is not echoed;
// otherwise, as with piped scripts, the next line of reader is used. The
// caller should wipe the result.
func ReadSecret(reader *bufio.Reader, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(w, "Enter password: "); err != nil {
		return nil, err
	}

	fd := int(os.Stdin.Fd())
	if !isTerminal(fd) {
		line, err := readLine(reader)
		if err != nil {
			return nil, err
		}
		return []byte(line), nil
	}

	pw, err := readPassword(fd)
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}
