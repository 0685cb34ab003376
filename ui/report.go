package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/marcusgo82/stridelab/asset"
	"github.com/marcusgo82/stridelab/pkg/advisory"
	"github.com/marcusgo82/stridelab/pkg/analysis"
	"github.com/marcusgo82/stridelab/util/log"
)

// reportPanel holds the widgets of the report view so refreshes can
// update them in place.
type reportPanel struct {
	title      *widget.Label
	indices    *widget.Label
	pronation  *widget.Label
	risks      *widget.Label
	shoeCat    *widget.Label
	disclaimer *widget.Label

	advisoryStatus *widget.Label
	explanation    *widget.Label
	shoeSelect     *widget.Select
	shopButton     *widget.Button
	exercise       *widget.Label
}

func (a *StrideApp) buildReportView() fyne.CanvasObject {
	p := &reportPanel{
		title:          widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		indices:        widget.NewLabel(""),
		pronation:      widget.NewLabel(""),
		risks:          widget.NewLabel(""),
		shoeCat:        widget.NewLabel(""),
		disclaimer:     widget.NewLabel(""),
		advisoryStatus: widget.NewLabel(""),
		explanation:    widget.NewLabel(""),
		exercise:       widget.NewLabel(""),
	}
	a.report = p

	p.explanation.Wrapping = fyne.TextWrapWord
	p.risks.Wrapping = fyne.TextWrapWord
	p.exercise.Wrapping = fyne.TextWrapWord
	p.disclaimer.Wrapping = fyne.TextWrapWord
	p.disclaimer.TextStyle = fyne.TextStyle{Italic: true}

	if text, err := asset.NewManager().GetText("report_disclaimer.txt"); err == nil {
		p.disclaimer.SetText(strings.TrimSpace(text))
	}

	p.shopButton = widget.NewButtonWithIcon("Shop for This Shoe", theme.SearchIcon(), a.openShopLink)
	p.shopButton.Disable()

	p.shoeSelect = widget.NewSelect(nil, func(string) {
		p.shopButton.Enable()
	})
	p.shoeSelect.PlaceHolder = "Recommended shoes"

	recalibrate := widget.NewButton("Adjust Bands", func() {
		if err := a.session.Recalibrate(); err != nil {
			log.Printf("Recalibrate refused: %v", err)
		}
	})
	startOver := widget.NewButton("New Analysis", func() {
		a.session.Reset()
	})

	results := container.NewVBox(
		p.title,
		p.indices,
		widget.NewSeparator(),
		p.pronation,
		p.risks,
		p.shoeCat,
	)

	guidance := container.NewVBox(
		widget.NewLabelWithStyle("Guidance", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		p.advisoryStatus,
		p.explanation,
		p.shoeSelect,
		p.shopButton,
		p.exercise,
	)

	return container.NewBorder(
		nil,
		container.NewVBox(p.disclaimer, container.NewHBox(recalibrate, startOver)),
		nil, nil,
		container.NewHSplit(container.NewPadded(results), container.NewPadded(guidance)),
	)
}

// refreshReport renders the current result and advisory content, kicking
// off an advisory fetch the first time each result is shown.
func (a *StrideApp) refreshReport() {
	res := a.session.Result()
	if res == nil {
		return
	}
	p := a.report

	p.title.SetText("Arch Type: " + res.Profile.Name)
	p.indices.SetText(fmt.Sprintf("Chippaux-Smirak Index: %.2f    Staheli Index: %.2f", res.CSI, res.SI))
	p.pronation.SetText("Pronation tendency: " + res.Profile.Pronation)
	p.risks.SetText("Watch for: " + strings.Join(res.Profile.Risks, ", "))
	p.shoeCat.SetText("Suggested shoe category: " + res.Profile.ShoeCategory)

	content := a.session.Advisory()
	if content.Empty() {
		p.advisoryStatus.SetText("Fetching personalized guidance...")
		p.explanation.SetText("")
		p.shoeSelect.ClearSelected()
		p.shoeSelect.Options = nil
		p.shoeSelect.Refresh()
		p.shopButton.Disable()
		p.exercise.SetText("")

		if a.advisoryFor != res.ID {
			a.advisoryFor = res.ID
			go a.fetchAdvisory(res)
		}
		return
	}

	p.advisoryStatus.SetText("")
	p.explanation.SetText(content.Explanation)
	p.shoeSelect.Options = content.Shoes
	p.shoeSelect.Refresh()
	if content.Exercise.Name != "" {
		p.exercise.SetText(fmt.Sprintf("Exercise: %s. %s", content.Exercise.Name, content.Exercise.Instruction))
	} else {
		p.exercise.SetText("")
	}
}

// fetchAdvisory asks the generative endpoint for guidance. Failures are
// logged and the panel stays empty; the report itself never depends on
// the advisory call.
func (a *StrideApp) fetchAdvisory(res *analysis.Result) {
	req := advisory.Request{
		Classification: string(res.Classification),
		ShoeSize:       a.cfg.GetShoeSize(),
		CSI:            res.CSI,
		SI:             res.SI,
	}

	content, err := a.advisor.Fetch(context.Background(), req)
	if err != nil {
		log.Printf("Advisory fetch failed: %v", err)
		fyne.Do(func() {
			a.report.advisoryStatus.SetText("")
		})
		return
	}

	a.session.SetAdvisory(content)
}

// openShopLink opens a shopping search for the selected shoe in the
// user's browser.
func (a *StrideApp) openShopLink() {
	shoe := a.report.shoeSelect.Selected
	u, err := advisory.BuildSearchURL(shoe, a.cfg.GetShoeSize())
	if err != nil {
		log.Printf("Cannot build shop link: %v", err)
		return
	}
	if err := a.app.OpenURL(u); err != nil {
		log.Printf("Failed to open shop link: %v", err)
	}
}
