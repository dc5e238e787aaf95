package cli

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"golang.org/x/term"
)

// emailAttempts bounds how often GetEmail re-asks after malformed input.
const emailAttempts = 3

var (
	ErrInvalidEmail     = errors.New("not an email address")
	ErrPasswordMismatch = errors.New("passwords do not match")
)

// readPassword wraps term.ReadPassword so tests can avoid the terminal.
var readPassword = term.ReadPassword

// GetSimpleText shows prompt followed by a "> " marker and returns one
// trimmed line. A final line without a newline still counts.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetEmail asks for an account email and re-asks on malformed input.
// Case is kept as typed because the server matches emails exactly.
func GetEmail(reader *bufio.Reader, w io.Writer) (string, error) {
	for range emailAttempts {
		raw, err := GetSimpleText(reader, "Email", w)
		if err != nil {
			return "", err
		}
		if email, ok := parseEmail(raw); ok {
			return email, nil
		}
		fmt.Fprintf(w, "%q is not an email address\n", raw)
	}
	return "", ErrInvalidEmail
}

// parseEmail accepts a bare address only; display names are rejected.
func parseEmail(raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	addr, err := mail.ParseAddress(raw)
	if err != nil || addr.Name != "" || addr.Address != raw {
		return "", false
	}
	return addr.Address, true
}

// GetPassword reads a password without echo after showing prompt.
// Callers should wipe the returned slice once done with it.
func GetPassword(w io.Writer, prompt string) ([]byte, error) {
	if _, err := fmt.Fprint(w, prompt+": "); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, err
	}
	return pw, nil
}

// GetNewPassword reads a password twice and fails unless both match and
// are non-empty.
func GetNewPassword(w io.Writer) ([]byte, error) {
	pw, err := GetPassword(w, "New password")
	if err != nil {
		return nil, err
	}
	again, err := GetPassword(w, "Repeat new password")
	if err != nil {
		wipe(pw)
		return nil, err
	}
	defer wipe(again)

	if len(pw) == 0 {
		return nil, fmt.Errorf("password must not be empty")
	}
	if !bytes.Equal(pw, again) {
		wipe(pw)
		return nil, ErrPasswordMismatch
	}
	return pw, nil
}

func wipe(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// GetMultiline collects lines until an empty one and joins them with '\n'.
func GetMultiline(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for {
		line, _ := reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
