package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Run executes a script read from r, one action per line, and writes the
// state after each action to w as "value<TAB>selection". Blank lines and
// lines starting with '#' are skipped. A failing line is reported on w and
// the script continues; Run stops at "quit", at end of input or when ctx
// is done.
func (a *Application) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		state, err := a.Exec(lineNo, line)
		switch {
		case errors.Is(err, ErrQuit):
			return nil
		case err != nil:
			if _, werr := fmt.Fprintf(w, "error: %v\n", err); werr != nil {
				return werr
			}
		default:
			if _, werr := fmt.Fprintln(w, state); werr != nil {
				return werr
			}
		}
	}
	return sc.Err()
}

// splitLine separates the action name from the rest of the line. The
// argument keeps its inner spacing so that "type a b" types "a b".
func splitLine(line string) (name, arg string) {
	name, arg, _ = strings.Cut(strings.TrimSpace(line), " ")
	return strings.ToLower(name), strings.TrimSpace(arg)
}
