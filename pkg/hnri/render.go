package hnri

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/gookit/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/savioxavier/termlink"
	"golang.org/x/term"
)

const noRisksFound = "No Risks were found on your network."

// Renderer formats risk reports. The zero value renders plain text.
type Renderer struct {
	useColor bool
	useLinks bool
}

// NewRenderer enables colors and hyperlinks when w is a terminal that supports them.
func NewRenderer(w io.Writer, noColor bool) *Renderer {
	isTTY := false
	if f, ok := w.(*os.File); ok {
		isTTY = term.IsTerminal(int(f.Fd()))
	}

	return &Renderer{
		useColor: color.SupportColor() && isTTY && !noColor,
		useLinks: termlink.SupportsHyperlinks() && isTTY,
	}
}

// Render formats a full report for report.IP.
func (r *Renderer) Render(report *Report) string {
	var sb strings.Builder

	ip := report.IP
	if r.useLinks {
		ip = termlink.Link(ip, "https://search.censys.io/hosts/"+url.PathEscape(ip))
	}
	fmt.Fprintf(&sb, "Home Network Risk Index for %s\n\n", r.style(color.FgCyan, ip))

	risks, err := r.RenderRisks(report.High, report.Medium)
	if errors.Is(err, ErrNoRisksToRender) {
		sb.WriteString(r.style(color.FgGreen, noRisksFound))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(risks)
	return sb.String()
}

// RenderRisks formats the high and medium risk tables. It fails with ErrNoRisksToRender when
// both tiers are empty.
func (r *Renderer) RenderRisks(high, medium []Risk) (string, error) {
	if len(high) == 0 && len(medium) == 0 {
		return "", ErrNoRisksToRender
	}

	var sb strings.Builder

	if len(high) > 0 {
		sb.WriteString(r.table(r.style(color.FgRed, "High Risks Found"), high))
	} else {
		sb.WriteString(r.style(color.FgGreen, "You don't have any High Risks in your network"))
	}
	sb.WriteString("\n\n")

	if len(medium) > 0 {
		sb.WriteString(r.table(r.style(color.FgYellow, "Medium Risks Found"), medium))
	} else {
		sb.WriteString(r.style(color.FgGreen, "You don't have any Medium Risks in your network"))
	}
	sb.WriteString("\n")

	return sb.String(), nil
}

// RenderRisks formats high and medium risks as plain text.
func RenderRisks(high, medium []Risk) (string, error) {
	return (&Renderer{}).RenderRisks(high, medium)
}

func (r *Renderer) table(title string, risks []Risk) string {
	t := table.NewWriter()
	t.SetStyle(table.Style{
		Box: table.BoxStyle{
			PaddingLeft:      " ",
			PaddingRight:     " ",
			UnfinishedRow:    " ",
			TopSeparator:     "─",
			MiddleHorizontal: "─",
			MiddleVertical:   "│",
		},
		Format: table.FormatOptions{
			Header: text.FormatDefault,
			Row:    text.FormatDefault,
		},
		Options: table.Options{
			DrawBorder:      false,
			SeparateColumns: true,
			SeparateHeader:  true,
		},
		Title: table.TitleOptions{
			Align: text.AlignLeft,
		},
	})

	t.SetTitle(title)
	t.AppendHeader(table.Row{"Port", "Service Name"})
	for _, risk := range risks {
		t.AppendRow(table.Row{risk.Port, risk.ServiceName})
	}

	return t.Render()
}

func (r *Renderer) style(fg color.Color, s string) string {
	if !r.useColor {
		return s
	}
	return color.New(fg, color.OpBold).Render(s)
}
