package output

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"

	"mgit/internal/status"
)

const (
	colRepo = iota
	colUnstaged
	colBranch
	colPR
	colSync
	numCols
)

var (
	columnTitles = [numCols]string{"Repository", "Unstaged", "Branch", "PR", "Sync"}
	minWidths    = [numCols]int{30, 10, 20, 8, 14}
)

// Spinner frames shown in cells whose field is still pending.
var Spinner = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

const errorCell = "Error"

// The sync glyphs are part of the table protocol, so color is forced on
// regardless of whether stdout is a terminal.
var (
	green  = forcedColor(color.FgGreen)
	yellow = forcedColor(color.FgYellow)
	red    = forcedColor(color.FgRed)
	gray   = forcedColor(color.FgHiBlack)
)

func forcedColor(attr color.Attribute) *color.Color {
	c := color.New(attr)
	c.EnableColor()
	return c
}

type row [numCols]string

type widths [numCols]int

// Hyperlink wraps text in an OSC 8 link. Empty url or text returns text.
func Hyperlink(url, text string) string {
	if url == "" || text == "" {
		return text
	}
	return "\x1b]8;;" + url + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

// visibleLen is the printed width of s, ignoring escape sequences.
func visibleLen(s string) int {
	return ansi.StringWidth(s)
}

func pad(s string, w int, center bool) string {
	n := visibleLen(s)
	if n >= w {
		return s
	}
	gap := w - n
	if center {
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	}
	return s + strings.Repeat(" ", gap)
}

func syncIndicator(r *status.RepoResult) string {
	if r.Sync != nil {
		switch r.Sync.State {
		case status.SyncSynced:
			return green.Sprint("✓")
		case status.SyncAhead:
			return yellow.Sprint("↑")
		case status.SyncBehind:
			return red.Sprint("↓")
		case status.SyncDiverged:
			return red.Sprint("↕")
		default:
			return gray.Sprint("?")
		}
	}
	if r.RemoteUpdated != nil {
		if *r.RemoteUpdated {
			return green.Sprint("✓")
		}
		return red.Sprint("✗")
	}
	return gray.Sprint("?")
}

func prCell(pr *status.PRInfo) string {
	if !pr.Exists {
		return "No"
	}
	if pr.Number != 0 && pr.URL != "" {
		return Hyperlink(pr.URL, strconv.Itoa(pr.Number))
	}
	return "Yes"
}

// fieldCell renders a set field with value, an errored one as "Error" and a
// pending one as glyph.
func fieldCell(r *status.RepoResult, f status.Field, glyph string, value func() string) string {
	if r.IsSet(f) {
		return value()
	}
	if _, errored := r.Err(f); errored {
		return errorCell
	}
	return glyph
}

func cells(r status.RepoResult, glyph string) row {
	var out row

	out[colRepo] = r.DisplayName
	if r.RepoURL != nil {
		out[colRepo] = Hyperlink(*r.RepoURL, r.DisplayName)
	}
	out[colUnstaged] = fieldCell(&r, status.FieldUnstaged, glyph, func() string {
		return strconv.Itoa(*r.UnstagedChanges)
	})
	out[colBranch] = fieldCell(&r, status.FieldBranch, glyph, func() string {
		return *r.CurrentBranch
	})
	out[colPR] = fieldCell(&r, status.FieldPR, glyph, func() string {
		return prCell(r.PR)
	})
	out[colSync] = fieldCell(&r, status.FieldRemote, glyph, func() string {
		return syncIndicator(&r)
	})
	return out
}

// buildRows renders snap in display-name order.
func buildRows(snap status.Snapshot, glyph string) []row {
	sorted := snap.Sorted()
	rows := make([]row, 0, len(sorted))
	for _, r := range sorted {
		rows = append(rows, cells(r, glyph))
	}
	return rows
}

func measure(rows []row) widths {
	w := widths(minWidths)
	for _, r := range rows {
		for i, c := range r {
			w[i] = max(w[i], visibleLen(c))
		}
	}
	return w
}

func formatRow(r row, w widths) string {
	parts := make([]string, numCols)
	for i, c := range r {
		parts[i] = pad(c, w[i], i == colSync)
	}
	return strings.Join(parts, " ")
}

func header(w widths) string {
	return formatRow(row(columnTitles), w)
}
