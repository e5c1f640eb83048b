package tasktree

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
)

// TerminalRenderer prints one line per finished task. On a terminal the
// running task is shown on a status line that is overwritten in place.
type TerminalRenderer struct {
	out     io.Writer
	tty     bool
	spinner int
	lastLen int
	started map[string]time.Time
}

// NewTerminalRenderer writes to out, which is usually os.Stderr.
func NewTerminalRenderer(out io.Writer) *TerminalRenderer {
	tty := false
	if f, ok := out.(*os.File); ok {
		tty = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &TerminalRenderer{
		out:     out,
		tty:     tty,
		started: make(map[string]time.Time),
	}
}

func (r *TerminalRenderer) Start(row Row) {
	r.started[PathString(row.Path)] = time.Now()
	if !r.tty {
		return
	}
	frames := [4]string{"-", "\\", "|", "/"}
	frame := frames[r.spinner%len(frames)]
	r.spinner++
	r.printStatus(fmt.Sprintf("%s %s%s", frame, indent(row), row.Description))
}

func (r *TerminalRenderer) Skip(row Row, reason string) {
	line := fmt.Sprintf("↓ %s%s", indent(row), row.Description)
	if reason != "" {
		line += " [" + reason + "]"
	}
	r.printLine(line)
}

func (r *TerminalRenderer) Expand(row Row) {
	r.printLine(fmt.Sprintf("› %s%s", indent(row), row.Description))
}

func (r *TerminalRenderer) Complete(row Row) {
	elapsed := time.Duration(0)
	if start, ok := r.started[PathString(row.Path)]; ok {
		elapsed = time.Since(start).Round(time.Millisecond)
	}
	r.printLine(fmt.Sprintf("✔ %s%s (%s)", indent(row), row.Description, elapsed))
}

func (r *TerminalRenderer) Fail(row Row, err error) {
	r.printLine(fmt.Sprintf("✖ %s%s", indent(row), row.Description))
}

func (r *TerminalRenderer) printLine(line string) {
	if r.tty {
		r.printStatus(line)
		fmt.Fprintln(r.out)
		r.lastLen = 0
		return
	}
	fmt.Fprintln(r.out, line)
}

func (r *TerminalRenderer) printStatus(status string) {
	if r.lastLen > len(status) {
		status = status + strings.Repeat(" ", r.lastLen-len(status))
	}
	r.lastLen = len(status)
	fmt.Fprintf(r.out, "\r%s", status)
}

func indent(row Row) string {
	return strings.Repeat("  ", row.Depth)
}
