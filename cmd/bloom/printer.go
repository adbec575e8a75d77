package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	botLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true)

	botTextStyle = lipgloss.NewStyle().
			Width(78).
			PaddingLeft(1)

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#808080")).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true)
)

type printer struct {
	w     io.Writer
	plain bool
}

func newPrinter(w io.Writer, plain bool) *printer {
	return &printer{w: w, plain: plain}
}

func (p *printer) bot(text string) {
	if p.plain {
		fmt.Fprintf(p.w, "Bloom: %s\n", text)
		return
	}
	fmt.Fprintln(p.w, botLabelStyle.Render("Bloom"))
	fmt.Fprintln(p.w, botTextStyle.Render(text))
}

func (p *printer) meta(text string) {
	if p.plain {
		fmt.Fprintln(p.w, text)
		return
	}
	fmt.Fprintln(p.w, metaStyle.Render(text))
}

func (p *printer) prompt() {
	if p.plain {
		fmt.Fprint(p.w, "> ")
		return
	}
	fmt.Fprint(p.w, promptStyle.Render("you ›")+" ")
}
