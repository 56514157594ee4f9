// Package pdf renders the one-page estimate attached to lead emails, using maroto/v2.
// Text stays ASCII because the built-in PDF fonts have no Romanian diacritics.
package pdf

import (
	"fmt"
	"strings"

	"marmurfit_voicebot/internal/leads/domain"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/border"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ── Colour palette ──────────────────────────────────────────────────────

var (
	colorPrimary   = &props.Color{Red: 17, Green: 24, Blue: 39}    // near-black
	colorSecondary = &props.Color{Red: 107, Green: 114, Blue: 128} // gray-500
	colorAccent    = &props.Color{Red: 120, Green: 113, Blue: 108} // stone-500
	colorTableHead = &props.Color{Red: 245, Green: 245, Blue: 244} // stone-100
	colorBorder    = &props.Color{Red: 231, Green: 229, Blue: 228} // stone-200
)

const (
	companyName = "MARMURFIT"
	disclaimer  = "Estimare orientativa, fara transport si operatii speciale. " +
		"Pretul final se confirma dupa masuratori. Avans minim 50% la comanda."
)

// EstimateFileName is the attachment name for a lead's estimate.
func EstimateFileName(lead domain.Lead) string {
	id := lead.ID.String()
	if len(id) > 8 {
		id = id[:8]
	}
	return "estimare-" + id + ".pdf"
}

// GenerateEstimatePDF renders the lead as a priced estimate.
func GenerateEstimatePDF(lead domain.Lead) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(12).
		WithRightMargin(15).
		Build()

	m := maroto.New(cfg)

	m.AddRows(buildHeader(lead)...)
	m.AddRows(row.New(1).WithStyle(&props.Cell{
		BorderType:  border.Bottom,
		BorderColor: colorBorder,
	}))
	m.AddRows(row.New(6))

	m.AddRows(buildDetails(lead)...)
	m.AddRows(row.New(6))

	m.AddRows(buildTotal(lead)...)
	m.AddRows(row.New(8))

	m.AddRows(row.New(12).Add(
		col.New(12).Add(text.New(disclaimer, props.Text{Size: 8, Color: colorSecondary})),
	))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// ── Header ──────────────────────────────────────────────────────────────

func buildHeader(lead domain.Lead) []core.Row {
	return []core.Row{
		row.New(20).Add(
			col.New(6).Add(text.New(companyName, props.Text{
				Size:  16,
				Style: fontstyle.Bold,
				Color: colorPrimary,
				Top:   4,
			})),
			col.New(6).Add(
				text.New("ESTIMARE", props.Text{
					Size:  22,
					Style: fontstyle.Bold,
					Align: align.Right,
					Color: colorAccent,
				}),
				text.New(lead.CreatedAt.Format("02-01-2006"), props.Text{
					Size:  10,
					Align: align.Right,
					Color: colorSecondary,
					Top:   12,
				}),
			),
		),
	}
}

// ── Details table ───────────────────────────────────────────────────────

func buildDetails(lead domain.Lead) []core.Row {
	headerStyle := props.Text{Size: 8, Style: fontstyle.Bold, Color: colorPrimary, Top: 1.5}

	rows := []core.Row{
		row.New(7).Add(
			col.New(5).Add(text.New("Detaliu", headerStyle)),
			col.New(7).Add(text.New("Valoare", headerStyle)),
		).WithStyle(&props.Cell{
			BackgroundColor: colorTableHead,
			BorderType:      border.Bottom,
			BorderColor:     colorBorder,
		}),
	}

	for _, d := range details(lead) {
		rows = append(rows, row.New(7).Add(
			col.New(5).Add(text.New(d[0], props.Text{Size: 9, Color: colorSecondary, Top: 1})),
			col.New(7).Add(text.New(d[1], props.Text{Size: 9, Color: colorPrimary, Top: 1})),
		))
	}
	return rows
}

func details(lead domain.Lead) [][2]string {
	out := [][2]string{
		{"Material", lead.Material},
		{"Tip lucrare", lead.WorkType},
	}
	if lead.WidthCentimeters != nil && lead.LengthLinearMeters != nil {
		out = append(out,
			[2]string{"Latime", domain.FormatArea(*lead.WidthCentimeters) + " cm"},
			[2]string{"Lungime", domain.FormatArea(*lead.LengthLinearMeters) + " ml"},
		)
	}
	out = append(out, [2]string{"Suprafata", domain.FormatArea(lead.AreaSquareMeters) + " m2"})
	if lead.CallID != "" {
		out = append(out, [2]string{"Referinta apel", strings.TrimSpace(lead.Provider + " " + lead.CallID)})
	}
	return out
}

// ── Total ───────────────────────────────────────────────────────────────

func buildTotal(lead domain.Lead) []core.Row {
	return []core.Row{
		row.New(1).WithStyle(&props.Cell{
			BorderType:  border.Bottom,
			BorderColor: colorBorder,
		}),
		row.New(3),
		row.New(9).Add(
			col.New(8).Add(text.New("Total estimat", props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Color: colorPrimary,
				Align: align.Right,
			})),
			col.New(4).Add(text.New(fmt.Sprintf("%d lei", lead.Estimate), props.Text{
				Size:  11,
				Style: fontstyle.Bold,
				Color: colorPrimary,
				Align: align.Right,
			})),
		),
	}
}
