package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// TextRenderer writes each view to a terminal.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a renderer writing to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

// Render implements Renderer.
func (r *TextRenderer) Render(v View) {
	_ = WriteView(r.w, v)
}

// WriteView prints the team list, then the detail panel or placeholder, then notices.
func WriteView(w io.Writer, v View) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, "TEAMS")
	if len(v.Teams) == 0 {
		fmt.Fprintln(tw, "  (none)")
	}
	for _, t := range v.Teams {
		marker := " "
		if t.Selected {
			marker = ">"
		}
		fmt.Fprintf(tw, "%s %d\t%s\t%d members\n", marker, t.ID, t.Name, t.MemberCount)
	}
	fmt.Fprintln(tw)

	if v.Detail == nil {
		fmt.Fprintln(tw, v.Placeholder)
	} else {
		d := v.Detail
		fmt.Fprintf(tw, "TEAM #%d  %s\n", d.ID, d.Name)
		if d.Description != "" {
			fmt.Fprintf(tw, "  %s\n", d.Description)
		}
		fmt.Fprintf(tw, "  created %s\n\n", d.CreatedAt)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tJOINED")
		for _, m := range d.Members {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Email, m.Role, m.Joined)
		}
		if len(d.Members) == 0 {
			fmt.Fprintln(tw, "(no members)")
		}
	}

	for _, n := range v.Notices {
		fmt.Fprintf(tw, "\n[%s] %s", n.Level, n.Message)
	}
	if len(v.Notices) > 0 {
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}

// PromptConfirmer asks yes/no questions on a line-oriented terminal.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer reads answers from in and writes prompts to out.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm accepts "y" or "yes"; anything else, including EOF, refuses.
func (p *PromptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		fmt.Fprintln(p.out)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// AlwaysConfirm approves every prompt, for non-interactive use.
type AlwaysConfirm struct{}

// Confirm implements Confirmer.
func (AlwaysConfirm) Confirm(string) bool { return true }
