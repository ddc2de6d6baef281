package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"adbuild/internal/network"
)

var networksPlain bool

func runNetworks(cmd *cobra.Command, args []string) error {
	p, err := loadProject()
	if err != nil {
		return err
	}

	md := networksMarkdown(p.catalog, p.cfg.StoreLinks)
	if networksPlain {
		fmt.Fprint(cmd.OutOrStdout(), md)
		return nil
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), rendered)
	return nil
}

// networksMarkdown renders the catalog as a markdown table in selection order.
func networksMarkdown(catalog *network.Catalog, links network.StoreLinks) string {
	var sb strings.Builder
	sb.WriteString("# Ad networks\n\n")
	sb.WriteString("| # | Network | Script | Embedded | Extra files | Click | iOS link |\n")
	sb.WriteString("|---|---------|--------|----------|-------------|-------|----------|\n")

	for i, id := range catalog.IDs() {
		caps := network.CapabilitiesFor(id)
		embedded := "yes"
		if caps.SkipsInlining() {
			embedded = "no"
		}
		aux := make([]string, 0, len(caps.AuxFiles))
		for _, a := range caps.AuxFiles {
			aux = append(aux, a.Dst)
		}
		extra := strings.Join(aux, ", ")
		if extra == "" {
			extra = "-"
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s | %s |\n",
			i+1, id, caps.ScriptFilename, embedded, extra, caps.ClickStrategy, links.Resolve(id).IOS)
	}
	return sb.String()
}
