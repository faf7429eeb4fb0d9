package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminalDialogs answers the blocking dialogs on a terminal.
type terminalDialogs struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newTerminalDialogs(in io.Reader, out io.Writer, assumeYes bool) *terminalDialogs {
	return &terminalDialogs{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (d *terminalDialogs) Alert(title, message string) {
	fmt.Fprintf(d.out, "%s: %s\n", title, message)
}

func (d *terminalDialogs) Confirm(title, message string) (bool, error) {
	if d.assumeYes {
		return true, nil
	}
	if _, err := fmt.Fprintf(d.out, "%s: %s [y/N] ", title, message); err != nil {
		return false, err
	}
	line, err := d.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
