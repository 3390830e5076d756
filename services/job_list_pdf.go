package services

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/phpdave11/gofpdf"
	"go.uber.org/zap"
)

const (
	notesRule      = "________________________________________________________________________________"
	additionalRows = 6
	emptyJobsText  = "No jobs scheduled."
)

// Job row geometry in mm. Columns are twelfths of the content width; text
// lines advance by the font size converted from points.
const (
	jobListColUnit    = (pageWidth - marginLeft - marginRight) / 12
	jobAddressWidth   = 6 * jobListColUnit
	jobClientWidth    = 5 * jobListColUnit
	jobRowFontSize    = 9.0
	jobRowTop         = 2.0
	jobRowBottom      = 2.0
	jobRowMinHeight   = 8.0
	jobRowLineSpacing = jobRowFontSize * 25.4 / 72
)

// ComposeJobList renders a manager's printable job list using maroto/v2.
// Rows flow onto new pages automatically.
func ComposeJobList(data JobListData, opts ...RenderOption) (*Document, error) {
	o := newRenderOptions(KindJobList, opts...)
	generated := o.Now()

	cfg := config.NewBuilder().
		WithOrientation(orientation.Vertical).
		WithPageSize(pagesize.A4).
		WithLeftMargin(marginLeft).
		WithTopMargin(marginTop).
		WithRightMargin(marginRight).
		WithCreationDate(generated).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := buildJobList(maroto.New(cfg), data, generated)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate job list PDF: %w", err)
	}

	o.Logger.Debug("composed job list",
		zap.String("manager", data.ManagerName),
		zap.Int("jobs", len(data.Jobs)),
	)
	return newDocument(KindJobList, data.ManagerName, doc.GetBytes()), nil
}

// buildJobList adds every row of the job list to m.
func buildJobList(m core.Maroto, data JobListData, generated time.Time) core.Maroto {
	addJobListHeader(m, data, generated)
	addJobListRows(m, data.Jobs)
	addJobListNotes(m)
	return m
}

// jobRowMetrics measures wrapped job text with the core font metrics maroto
// draws with.
type jobRowMetrics struct {
	pdf *gofpdf.Fpdf
}

func newJobRowMetrics() jobRowMetrics {
	return jobRowMetrics{pdf: gofpdf.New("P", "mm", "A4", "")}
}

func (jm jobRowMetrics) lines(s, style string, width float64) int {
	if s == "" {
		return 1
	}
	jm.pdf.SetFont("Arial", style, jobRowFontSize)
	// Core font widths only cover single bytes; measure anything wider as
	// "W". A millimetre of slack keeps the count at or above maroto's wrap.
	ascii := strings.Map(func(r rune) rune {
		if r > 126 {
			return 'W'
		}
		return r
	}, s)
	return max(1, len(jm.pdf.SplitText(ascii, width-1)))
}

// height returns the row height that holds the wrapped address and client
// so the notes rule below never overlaps them.
func (jm jobRowMetrics) height(j JobListRow) float64 {
	n := max(jm.lines(j.Address, "B", jobAddressWidth), jm.lines(j.ClientName, "", jobClientWidth))
	return math.Max(jobRowMinHeight, jobRowTop+float64(n)*jobRowLineSpacing+jobRowBottom)
}

// addJobListHeader adds the title, manager, generation date and job count.
func addJobListHeader(m core.Maroto, data JobListData, generated time.Time) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("JOB LIST", props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Left,
				}),
			),
		),
	)

	meta := props.Text{
		Size:  9,
		Align: align.Left,
		Color: &props.Color{Red: 80, Green: 80, Blue: 80},
	}
	metaRight := meta
	metaRight.Align = align.Right

	m.AddRows(
		row.New(7).Add(
			col.New(6).Add(text.New(fmt.Sprintf("Manager: %s", data.ManagerName), meta)),
			col.New(6).Add(text.New(fmt.Sprintf("Generated: %s", formatLongDate(generated)), metaRight)),
		),
		row.New(7).Add(
			col.New(12).Add(text.New(fmt.Sprintf("Jobs: %d", len(data.Jobs)), meta)),
		),
	)

	m.AddRows(row.New(4))
}

// addJobListRows adds one block per job: address, client, and a ruled line
// for handwritten notes.
func addJobListRows(m core.Maroto, jobs []JobListRow) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Left,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerCell := &props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(text.New("#", headerText)).WithStyle(headerCell),
			col.New(6).Add(text.New("Address", headerText)).WithStyle(headerCell),
			col.New(5).Add(text.New("Client", headerText)).WithStyle(headerCell),
		),
	)

	if len(jobs) == 0 {
		m.AddRows(
			row.New(10).Add(
				col.New(12).Add(text.New(emptyJobsText, props.Text{
					Size:  9,
					Style: fontstyle.Italic,
					Align: align.Left,
					Top:   3,
					Color: &props.Color{Red: 120, Green: 120, Blue: 120},
				})),
			),
		)
		return
	}

	body := props.Text{Size: jobRowFontSize, Align: align.Left, Top: jobRowTop}
	bold := body
	bold.Style = fontstyle.Bold
	ruleText := props.Text{
		Size:  8,
		Align: align.Left,
		Color: &props.Color{Red: 160, Green: 160, Blue: 160},
	}

	metrics := newJobRowMetrics()
	for i, j := range jobs {
		m.AddRows(
			row.New(metrics.height(j)).Add(
				col.New(1).Add(text.New(fmt.Sprintf("%d", i+1), body)),
				col.New(6).Add(text.New(j.Address, bold)),
				col.New(5).Add(text.New(j.ClientName, body)),
			),
			row.New(8).Add(
				col.New(1),
				col.New(11).Add(text.New(notesRule, ruleText)),
			),
		)
	}
}

// addJobListNotes adds the trailing ruled area for additional notes.
func addJobListNotes(m core.Maroto) {
	m.AddRows(row.New(8))
	m.AddRows(
		row.New(8).Add(
			col.New(12).Add(text.New("ADDITIONAL NOTES", props.Text{
				Size:  10,
				Style: fontstyle.Bold,
				Align: align.Left,
			})),
		),
	)

	ruleText := props.Text{
		Size:  8,
		Align: align.Left,
		Color: &props.Color{Red: 160, Green: 160, Blue: 160},
	}
	for i := 0; i < additionalRows; i++ {
		m.AddRows(row.New(9).Add(col.New(12).Add(text.New(notesRule, ruleText))))
	}
}
