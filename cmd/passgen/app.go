package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

var errNotTerminal = errors.New("--prompt needs an interactive terminal")

// app holds the process boundaries the commands talk to.
type app struct {
	stdout io.Writer
	stderr io.Writer

	// readPassphrase reads a secret without echoing it.
	readPassphrase func() ([]byte, error)
}

func newTerminalApp() *app {
	return &app{
		stdout: os.Stdout,
		stderr: os.Stderr,
		readPassphrase: func() ([]byte, error) {
			fd := int(os.Stdin.Fd())
			if !term.IsTerminal(fd) {
				return nil, errNotTerminal
			}
			fmt.Fprint(os.Stderr, "Passphrase: ")
			defer fmt.Fprintln(os.Stderr)
			return term.ReadPassword(fd)
		},
	}
}
