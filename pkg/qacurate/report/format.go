package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
)

// Formatter renders a Report as JSON or as a text table.
type Formatter struct {
	format string
	color  bool
}

// NewFormatter creates a formatter. format is "json" or "table".
func NewFormatter(format string, useColor bool) *Formatter {
	return &Formatter{format: format, color: useColor}
}

// Write renders r to w.
func (f *Formatter) Write(w io.Writer, r Report) error {
	if f.format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	_, err := io.WriteString(w, f.table(r))
	return err
}

func (f *Formatter) table(r Report) string {
	var sb strings.Builder

	sb.WriteString(f.header("Curation Summary"))
	if r.RunID != "" {
		fmt.Fprintf(&sb, "Run: %s\n", r.RunID)
	}
	c := r.Counts
	fmt.Fprintf(&sb, "Records: %d  malformed: %d  unclassified: %d  unextractable: %d  duplicates: %d\n",
		c.Total, c.Malformed, c.Unclassified, c.Unextractable, c.Duplicates)
	fmt.Fprintf(&sb, "Per-category limit: %d\n\n", r.Limit)

	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tCLASSIFIED\tENTITIES\tBALANCED\tCLEANED\tRECORDS")
	fmt.Fprintln(w, "--------\t----------\t--------\t--------\t-------\t-------")
	for _, cs := range r.Categories {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
			cs.Name, cs.Classified, cs.Entities, cs.Balanced, cs.Cleaned, cs.Records)
	}
	t := r.Totals()
	fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\n",
		strings.ToUpper(t.Name), t.Classified, t.Entities, t.Balanced, t.Cleaned, t.Records)
	w.Flush()

	if len(r.Removals) > 0 {
		sb.WriteString("\n")
		sb.WriteString(f.header(fmt.Sprintf("Removed Entities (%d)", len(r.Removals))))
		w = tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		for _, rm := range r.Removals {
			reason := f.warn(rm.Reason)
			if rm.Detail != "" {
				reason += " (" + rm.Detail + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", rm.Category, rm.Entity, reason)
		}
		w.Flush()
	}
	return sb.String()
}

func (f *Formatter) header(s string) string {
	line := strings.Repeat("=", len(s))
	if !f.color {
		return s + "\n" + line + "\n"
	}
	c := color.New(color.FgCyan, color.Bold)
	c.EnableColor()
	return c.Sprint(s) + "\n" + line + "\n"
}

func (f *Formatter) warn(s string) string {
	if !f.color {
		return s
	}
	c := color.New(color.FgYellow)
	c.EnableColor()
	return c.Sprint(s)
}
