package glog

import (
	"fmt"
	"path/filepath"
	"strings"
)

// color codes for the handful of levels worth visually distinguishing;
// LvlInfo/LvlDebug/LvlTrace print uncolored.
const (
	colorRed    = 31
	colorYellow = 33
	colorReset  = 0
)

func levelColor(lvl Level) int {
	switch lvl {
	case LvlCrit, LvlError:
		return colorRed
	case LvlWarn:
		return colorYellow
	default:
		return colorReset
	}
}

// formatRecord renders one Record as a single line: timestamp, level,
// message, then `key=value` context pairs, with the call site appended
// last — the same general shape as the teacher's TerminalFormat.
func formatRecord(r Record, color bool) string {
	var b strings.Builder

	ts := r.Time.Format("2006-01-02T15:04:05.000")
	lvl := fmt.Sprintf("%-5s", r.Lvl.String())
	if color {
		if c := levelColor(r.Lvl); c != colorReset {
			lvl = fmt.Sprintf("\x1b[%dm%s\x1b[0m", c, lvl)
		}
	}
	fmt.Fprintf(&b, "%s %s %s", ts, lvl, r.Msg)

	for i := 0; i+1 < len(r.Ctx); i += 2 {
		fmt.Fprintf(&b, " %v=%v", r.Ctx[i], r.Ctx[i+1])
	}

	if frame := r.Call.Frame(); frame.Function != "" {
		fmt.Fprintf(&b, " caller=%s:%d", filepath.Base(frame.File), frame.Line)
	}
	b.WriteByte('\n')
	return b.String()
}
