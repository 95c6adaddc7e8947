package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"chapterize/internal/pipeline"
)

const ansiClearLine = "\r\x1b[2K"

// progressRenderer prints pipeline progress. Messages render as plain lines,
// matching the classic console output. Percent-only updates render as
// carriage-return overwrites when stdout is a terminal and are dropped
// otherwise, so piped output stays line-oriented.
type progressRenderer struct {
	out         io.Writer
	tty         bool
	overwriting bool
}

func newProgressRenderer(out io.Writer) *progressRenderer {
	return &progressRenderer{out: out, tty: isTerminal(out)}
}

func (r *progressRenderer) handle(p pipeline.Progress) {
	if p.Message != "" {
		r.clearLine()
		fmt.Fprintln(r.out, p.Message)
		return
	}
	if !r.tty || p.Percent < 0 {
		return
	}
	fmt.Fprintf(r.out, "\r  %3.0f%% complete", p.Percent)
	r.overwriting = true
}

func (r *progressRenderer) clearLine() {
	if !r.overwriting {
		return
	}
	fmt.Fprint(r.out, ansiClearLine)
	r.overwriting = false
}

// finish closes out any dangling overwrite line.
func (r *progressRenderer) finish() {
	r.clearLine()
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
