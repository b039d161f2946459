package ui

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"psr/internal/config"
	"psr/internal/domain"
)

// LedgerViewer displays a product's ledger in an interactive TUI
type LedgerViewer struct {
	profile config.ProductProfile
}

// NewLedgerViewer creates a new LedgerViewer
func NewLedgerViewer(profile config.ProductProfile) *LedgerViewer {
	return &LedgerViewer{profile: profile}
}

// View shows scenarios on the left and the selected scenario's steps on the right
func (lv *LedgerViewer) View(results []domain.ScenarioResult) error {
	if len(results) == 0 {
		NewConsole(nil).Warnf("No scenario results recorded for %s", lv.profile.Name)
		return nil
	}

	app := tview.NewApplication()

	list := tview.NewList().
		ShowSecondaryText(false).
		SetHighlightFullLine(true)
	for _, r := range results {
		list.AddItem(listItemText(r), "", 0, nil)
	}
	list.SetMainTextColor(tview.Styles.PrimaryTextColor).
		SetSelectedTextColor(tcell.ColorWhite).
		SetSelectedBackgroundColor(tcell.ColorDarkCyan)

	statsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)

	detailsView := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetWordWrap(true)

	rightSide := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(statsView, 3, 0, false).
		AddItem(detailsView, 0, 1, false)

	flex := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(list, 0, 1, true).
		AddItem(rightSide, 0, 2, false)

	headerView := tview.NewTextView().
		SetTextAlign(tview.AlignCenter).
		SetDynamicColors(true).
		SetText(headerText(lv.profile, results))

	updateDetails := func() {
		index := list.GetCurrentItem()
		if index >= 0 && index < len(results) {
			statsView.SetText(formatScenarioStats(results[index]))
			detailsView.SetText(formatScenarioDetails(results[index]))
			detailsView.ScrollToBeginning()
		}
	}

	list.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter, tcell.KeyRight:
			app.SetFocus(detailsView)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		case tcell.KeyRune:
			if event.Rune() == 'q' {
				app.Stop()
				return nil
			}
		}
		return event
	})

	detailsView.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyLeft, tcell.KeyEsc:
			app.SetFocus(list)
			return nil
		case tcell.KeyCtrlC:
			app.Stop()
			return nil
		}
		return event
	})

	list.SetChangedFunc(func(int, string, string, rune) {
		updateDetails()
	})
	updateDetails()

	mainLayout := tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(headerView, 1, 0, false).
		AddItem(tview.NewBox(), 1, 0, false).
		AddItem(flex, 0, 1, true)

	if err := app.SetRoot(mainLayout, true).SetFocus(list).Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func headerText(profile config.ProductProfile, results []domain.ScenarioResult) string {
	failing := 0
	for _, r := range results {
		if r.OverallStatus != domain.OverallPass {
			failing++
		}
	}
	return fmt.Sprintf(" %s %s (%d scenarios, %d failing) | ↑↓ navigate, → details, ← back, q to exit ",
		profile.Icon, profile.Name, len(results), failing)
}

func tagFor(s domain.OverallStatus) string {
	switch s {
	case domain.OverallPass:
		return "green"
	case domain.OverallStopped:
		return "yellow"
	default:
		return "red"
	}
}

func listItemText(r domain.ScenarioResult) string {
	return fmt.Sprintf("[%s]●[white] [yellow]%d.[white] %s", tagFor(r.OverallStatus), r.ScenarioID, tview.Escape(r.Title))
}

// formatScenarioStats formats the header above a scenario's steps
func formatScenarioStats(r domain.ScenarioResult) string {
	passed, failed, notTested := r.Counts()
	var b strings.Builder
	fmt.Fprintf(&b, "[%s]%s[white] · %s · ended %s\n", tagFor(r.OverallStatus), strings.ToUpper(string(r.OverallStatus)),
		r.DurationFormatted, r.EndTime.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "[green]%d passed[white] | [red]%d failed[white] | [gray]%d not tested[white]", passed, failed, notTested)
	if r.Terminated {
		b.WriteString(" | [yellow]terminated[white]")
	}
	return b.String()
}

// formatScenarioDetails formats a scenario's steps using tview color tags
func formatScenarioDetails(r domain.ScenarioResult) string {
	var builder strings.Builder
	w := tabwriter.NewWriter(&builder, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "[cyan]%d · %s[white]\n\n", r.ScenarioID, tview.Escape(r.Title))
	for i, s := range r.Steps {
		tag := "gray"
		switch s.Status {
		case domain.StatusPass:
			tag = "green"
		case domain.StatusFail:
			tag = "red"
		}
		fmt.Fprintf(w, "[%s]%s[white] %d.\t%s\t%dms\n", tag, StatusGlyph(s.Status), i+1, tview.Escape(s.Name), s.DurationMs)
		if s.Error != "" {
			fmt.Fprintf(w, "\t[yellow]%s[white]\n", tview.Escape(firstLine(s.Error)))
		}
	}
	w.Flush()
	return builder.String()
}
