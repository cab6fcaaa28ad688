// Package confirm gates destructive operations behind an exact
// confirmation phrase or an explicit --force override.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// Phrase is the literal an operator must type to authorize a cleanup.
// Matching is case- and whitespace-sensitive: anything else cancels.
const Phrase = "DELETE ALL"

type Gate struct {
	In    io.Reader
	Out   io.Writer
	Force bool
}

func New(force bool) *Gate {
	return &Gate{
		In:    os.Stdin,
		Out:   os.Stdout,
		Force: force,
	}
}

// Confirm decides whether the destructive operation may proceed. It is
// invoked once before any mutation; a declined confirmation is a normal
// outcome, not an error.
func (g *Gate) Confirm() (bool, error) {
	if g.Force {
		color.New(color.FgYellow).Fprintln(g.Out, "Non-interactive mode: proceeding with deletion...")
		return true, nil
	}

	warn := color.New(color.FgRed, color.Bold)
	warn.Fprintln(g.Out, "WARNING: This will permanently delete ALL data!")
	fmt.Fprintln(g.Out, "- All user accounts and profiles")
	fmt.Fprintln(g.Out, "- All messages and posts")
	fmt.Fprintln(g.Out, strings.Repeat("=", 40))

	fmt.Fprintf(g.Out, "Are you sure you want to proceed? Type '%s' to confirm: ", Phrase)

	reader := bufio.NewReader(g.In)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read confirmation: %w", err)
	}

	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")

	return line == Phrase, nil
}
