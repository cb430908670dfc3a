package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/jlcsearch/jlcsearch-mcp/internal/live"
	"github.com/jlcsearch/jlcsearch-mcp/pkg/types"
)

const partURLBase = "https://jlcpcb.com/partdetail/"

// maxDetailImages caps how many product images the detail view lists.
const maxDetailImages = 3

// SearchResults renders ranked candidates as a markdown listing.
func SearchResults(query string, candidates []types.Candidate) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Search Results for '%s'\n\n", query)
	fmt.Fprintf(&b, "Found %d components\n\n", len(candidates))

	for i, c := range candidates {
		fmt.Fprintf(&b, "### %d. %s - %s\n\n", i+1, c.LCSC, orNA(c.MfrPart))
		fmt.Fprintf(&b, "- **Type**: %s\n", basicLabel(c.Basic))
		fmt.Fprintf(&b, "- **Manufacturer**: %s\n", orNA(c.Manufacturer))
		fmt.Fprintf(&b, "- **Package**: %s\n", orNA(c.Package))
		fmt.Fprintf(&b, "- **Category**: %s", orNA(c.Category))
		if c.Subcategory != "" {
			fmt.Fprintf(&b, " / %s", c.Subcategory)
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "- **Stock**: %s units\n", humanize.Comma(c.CurrentStock))

		if c.HasPricing() {
			b.WriteString("- **Pricing**:\n")
			for _, tier := range c.Pricing {
				fmt.Fprintf(&b, "  - %s+: $%.4f\n", humanize.Comma(tier.Qty), tier.Price)
			}
		}

		if c.DatasheetURL != "" {
			fmt.Fprintf(&b, "- **Datasheet**: %s\n", c.DatasheetURL)
		}
		fmt.Fprintf(&b, "- **JLCPCB Link**: %s%s\n\n", partURLBase, c.LCSC)
	}

	return b.String()
}

// ComponentDetail renders one part's detail view. detail may be nil, in
// which case catalog stock and the catalogTiers fallback are shown
// instead of live data.
func ComponentDetail(comp *types.Component, detail *live.ProductDetail, catalogTiers []types.PriceTier) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s - %s\n\n", comp.LCSC, orNA(comp.MfrPart))
	if comp.Basic {
		b.WriteString("**Basic Part**\n\n")
	} else {
		b.WriteString("**Extended Part**\n\n")
	}

	fmt.Fprintf(&b, "- **Manufacturer**: %s\n", orNA(comp.Manufacturer))
	fmt.Fprintf(&b, "- **Package**: %s\n", orNA(comp.Package))
	fmt.Fprintf(&b, "- **Category**: %s", orNA(comp.Category))
	if comp.Subcategory != "" {
		fmt.Fprintf(&b, " / %s", comp.Subcategory)
	}
	b.WriteString("\n")
	if comp.Description != "" {
		fmt.Fprintf(&b, "- **Description**: %s\n", comp.Description)
	}
	b.WriteString("\n")

	if detail != nil {
		writeLiveSections(&b, comp, detail)
	} else {
		writeCatalogSections(&b, comp, catalogTiers)
	}

	b.WriteString("## Links\n\n")
	datasheet := comp.Datasheet
	if detail != nil && detail.PdfURL != "" {
		datasheet = detail.PdfURL
	}
	if datasheet != "" {
		fmt.Fprintf(&b, "- **Datasheet**: %s\n", datasheet)
	}
	fmt.Fprintf(&b, "- **JLCPCB**: %s%s\n", partURLBase, comp.LCSC)

	return b.String()
}

func writeLiveSections(b *strings.Builder, comp *types.Component, detail *live.ProductDetail) {
	b.WriteString("## Availability\n\n")
	if detail.StockNumber != nil {
		fmt.Fprintf(b, "**%s units** in stock (live)\n\n", humanize.Comma(*detail.StockNumber))
	} else {
		fmt.Fprintf(b, "**%s units** in stock (catalog)\n\n", humanize.Comma(comp.Stock))
	}

	if len(detail.PriceList) > 0 {
		b.WriteString("## Pricing\n\n")
		b.WriteString("| Quantity | Unit Price |\n")
		b.WriteString("|----------|------------|\n")
		for _, tier := range detail.PriceList {
			fmt.Fprintf(b, "| %s+ | $%.4f |\n", humanize.Comma(tier.Ladder), tier.USDPrice)
		}
		b.WriteString("\n")
	}

	if len(detail.Params) > 0 {
		b.WriteString("## Specifications\n\n")
		for _, p := range detail.Params {
			if p.Name == "" || p.Value == "" {
				continue
			}
			fmt.Fprintf(b, "- **%s**: %s\n", p.Name, p.Value)
		}
		b.WriteString("\n")
	}

	if len(detail.Images) > 0 {
		b.WriteString("## Images\n\n")
		images := detail.Images
		if len(images) > maxDetailImages {
			images = images[:maxDetailImages]
		}
		for _, img := range images {
			fmt.Fprintf(b, "- %s\n", img)
		}
		b.WriteString("\n")
	}
}

func writeCatalogSections(b *strings.Builder, comp *types.Component, tiers []types.PriceTier) {
	b.WriteString("## Availability\n\n")
	fmt.Fprintf(b, "**%s units** in stock (catalog, live data unavailable)\n\n", humanize.Comma(comp.Stock))

	if len(tiers) > 0 {
		b.WriteString("## Pricing (catalog)\n\n")
		b.WriteString("| Quantity | Unit Price |\n")
		b.WriteString("|----------|------------|\n")
		for _, tier := range tiers {
			if tier.QtyTo > 0 {
				fmt.Fprintf(b, "| %s-%s | $%.4f |\n",
					humanize.Comma(tier.QtyFrom), humanize.Comma(tier.QtyTo), tier.Price)
			} else {
				fmt.Fprintf(b, "| %s+ | $%.4f |\n", humanize.Comma(tier.QtyFrom), tier.Price)
			}
		}
		b.WriteString("\n")
	}
}

func basicLabel(basic bool) string {
	if basic {
		return "**Basic**"
	}
	return "Extended"
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
