// Package render draws a report as box-drawn, colour-coded terminal tables.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/couchcryptid/river-conditions/internal/domain"
	"github.com/couchcryptid/river-conditions/internal/report"
)

// Box-drawing characters.
const (
	topLeft      = "┌"
	topRight     = "┐"
	bottomLeft   = "└"
	bottomRight  = "┘"
	horizontal   = "─"
	vertical     = "│"
	teeLeft      = "├"
	teeRight     = "┤"
	teeDown      = "┬"
	teeUp        = "┴"
	cross        = "┼"
	cellPadding  = 1
	footerLayout = "Generated " + domain.DisplayTimeLayout
)

// tierColours maps every tier to its foreground colour.
var tierColours = map[domain.Tier]color.Attribute{
	domain.TierGreen:  color.FgGreen,
	domain.TierBlue:   color.FgBlue,
	domain.TierAmber:  color.FgHiYellow,
	domain.TierYellow: color.FgYellow,
	domain.TierOrange: color.FgHiRed,
	domain.TierRed:    color.FgRed,
	domain.TierBlack:  color.FgBlack,
	domain.TierGrey:   color.FgHiBlack,
}

// Cell is one table cell; Style is nil for unstyled text.
type Cell struct {
	Text  string
	Style *color.Color
}

// Row is one rendered line of a table.
type Row []Cell

// Renderer writes report tables to w.
type Renderer struct {
	w      io.Writer
	colour bool
}

// New creates a Renderer. With colour false no escape codes are written.
func New(w io.Writer, colour bool) *Renderer {
	return &Renderer{w: w, colour: colour}
}

// ColourEnabled reports whether f is a terminal and NO_COLOR is unset.
func ColourEnabled(f *os.File, noColour bool) bool {
	if noColour {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Render writes the flow, flag and lock-board tables followed by a footer.
func (r *Renderer) Render(rep report.Report) error {
	sections := []struct {
		title   string
		headers []string
		rows    []Row
	}{
		{"Flow rates", []string{"Gauge", "Flow", "Observed"}, r.rows(rep.Flows, false)},
		{"Flags", []string{"Reach", "Flag", "Set"}, r.rows(rep.Flags, false)},
		{"Lock boards", []string{"Lock", "Status", "Advice", "Updated"}, r.rows(rep.Boards, true)},
	}

	var b strings.Builder
	for _, s := range sections {
		b.WriteString(s.title)
		b.WriteByte('\n')
		writeTable(&b, s.headers, s.rows)
		b.WriteByte('\n')
	}
	b.WriteString(rep.GeneratedAt.Format(footerLayout))
	b.WriteByte('\n')

	if _, err := io.WriteString(r.w, b.String()); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// rows turns results into (label, styled value, [advice,] timestamp) rows.
func (r *Renderer) rows(results []domain.ClassifiedResult, withAdvice bool) []Row {
	rows := make([]Row, 0, len(results))
	for _, res := range results {
		row := Row{
			{Text: res.Label},
			{Text: res.Value, Style: r.style(res.Tier, res.Presentation)},
		}
		if withAdvice {
			row = append(row, Cell{Text: res.Advice})
		}
		row = append(row, Cell{Text: res.Timestamp()})
		rows = append(rows, row)
	}
	return rows
}

// style builds the value-cell style: the tier colour, bold unless dimmed,
// plus the presentation attributes.
func (r *Renderer) style(tier domain.Tier, pres domain.Presentation) *color.Color {
	attrs := []color.Attribute{tierColours[tier]}
	switch pres {
	case domain.PresentDim:
		attrs = append(attrs, color.Faint)
	case domain.PresentAttention:
		attrs = append(attrs, color.Bold, color.BlinkSlow, color.ReverseVideo)
	default:
		attrs = append(attrs, color.Bold)
	}

	c := color.New(attrs...)
	if r.colour {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c
}

func writeTable(b *strings.Builder, headers []string, rows []Row) {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if n := utf8.RuneCountInString(cell.Text); n > widths[i] {
				widths[i] = n
			}
		}
	}

	header := make(Row, len(headers))
	for i, h := range headers {
		header[i] = Cell{Text: h}
	}

	writeRule(b, widths, topLeft, teeDown, topRight)
	writeRow(b, widths, header)
	writeRule(b, widths, teeLeft, cross, teeRight)
	for _, row := range rows {
		writeRow(b, widths, row)
	}
	writeRule(b, widths, bottomLeft, teeUp, bottomRight)
}

func writeRule(b *strings.Builder, widths []int, left, mid, right string) {
	b.WriteString(left)
	for i, w := range widths {
		if i > 0 {
			b.WriteString(mid)
		}
		b.WriteString(strings.Repeat(horizontal, w+2*cellPadding))
	}
	b.WriteString(right)
	b.WriteByte('\n')
}

func writeRow(b *strings.Builder, widths []int, row Row) {
	pad := strings.Repeat(" ", cellPadding)
	b.WriteString(vertical)
	for i, cell := range row {
		if i > 0 {
			b.WriteString(vertical)
		}
		text := cell.Text
		if cell.Style != nil {
			text = cell.Style.Sprint(text)
		}
		b.WriteString(pad)
		b.WriteString(text)
		b.WriteString(strings.Repeat(" ", widths[i]-utf8.RuneCountInString(cell.Text)))
		b.WriteString(pad)
	}
	b.WriteString(vertical)
	b.WriteByte('\n')
}
