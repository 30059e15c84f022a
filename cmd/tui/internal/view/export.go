package view

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/garage/internal/export"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

const (
	defaultExportDir = "./exports"
	exportTimeout    = 2 * time.Minute
)

type exportStep int

const (
	exportStepPeriod exportStep = iota
	exportStepOptions
	exportStepRunning
	exportStepDone
)

var reportLabels = map[export.Report]string{
	export.ReportStock:     "Stock position",
	export.ReportSales:     "Sales",
	export.ReportPurchases: "Purchases",
}

// ExportModel writes the chosen CSV reports for a period into a local directory.
type ExportModel struct {
	CommonModel
	exportService *export.Service

	step    exportStep
	picker  TimeframePicker
	form    *huh.Form
	spinner spinner.Model
	results table.Model

	filter  ledger.ListFilter
	reports []export.Report
	dir     string
	files   []export.File
	err     error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	results := newTable([]table.Column{
		{Title: "Report", Width: 16},
		{Title: "Rows", Width: 6},
		{Title: "Total", Width: 14},
		{Title: "File", Width: 40},
	})
	results.SetHeight(5)

	return ExportModel{
		exportService: svc,
		picker:        NewTimeframePicker(TimeframeToday),
		spinner:       s,
		results:       results,
		reports:       export.AllReports,
		dir:           defaultExportDir,
	}
}

func (m ExportModel) Title() string { return "Export Reports" }

func (m ExportModel) ShortHelp() string {
	switch m.step {
	case exportStepOptions:
		return "Space: toggle report | Enter: confirm | Esc: change period"
	case exportStepRunning:
		return "Writing reports..."
	case exportStepDone:
		return "n: new export | Esc: back"
	}

	return "Enter: select period | Esc: back"
}

func (m ExportModel) Init() tea.Cmd {
	return m.picker.Init()
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter = msg.Filter()
		m.form = m.optionsForm()
		m.step = exportStepOptions

		return m, m.form.Init()

	case exportDoneMsg:
		m.step = exportStepDone
		m.err = msg.err
		m.files = msg.files
		m.results.SetRows(exportRows(msg.files))

		return m, nil
	}

	switch m.step {
	case exportStepPeriod:
		return m.updatePeriod(msg)
	case exportStepOptions:
		return m.updateOptions(msg)
	case exportStepRunning:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case exportStepDone:
		return m.updateDone(msg)
	}

	return m, nil
}

func (m ExportModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc && m.picker.IsSelecting() {
		return m, Back
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEsc {
		m.step = exportStepPeriod
		m.form = nil
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	names, _ := m.form.Get("reports").([]string)

	reports, dir, err := exportSelection(names, m.form.GetString("dir"))
	if err != nil {
		m.step = exportStepDone
		m.err = err

		return m, nil
	}

	m.reports = reports
	m.dir = dir
	m.err = nil
	m.step = exportStepRunning

	return m, tea.Batch(m.spinner.Tick, m.exportCmd())
}

func (m ExportModel) updateDone(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Type == tea.KeyEsc:
			return m, Back
		case key.String() == "n":
			m.step = exportStepPeriod
			m.files = nil
			m.err = nil
			m.results.SetRows(nil)
			m.picker.Reset()

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)

	return m, cmd
}

func (m ExportModel) optionsForm() *huh.Form {
	names := make([]string, len(m.reports))
	for i, r := range m.reports {
		names[i] = string(r)
	}

	dir := m.dir

	options := make([]huh.Option[string], len(export.AllReports))
	for i, r := range export.AllReports {
		options[i] = huh.NewOption(reportLabels[r], string(r)).Selected(slices.Contains(m.reports, r))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("reports").
				Title("Reports").
				Description("Period: " + rangeLabel(m.filter)).
				Options(options...).
				Value(&names).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return errors.New("pick at least one report")
					}
					return nil
				}),

			huh.NewInput().
				Key("dir").
				Title("Output Directory").
				Description("Created if missing").
				Placeholder(defaultExportDir).
				Value(&dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

// exportSelection validates the submitted form values.
func exportSelection(names []string, dir string) ([]export.Report, string, error) {
	if len(names) == 0 {
		return nil, "", errors.New("no reports selected")
	}

	reports, err := export.ParseReports(names)
	if err != nil {
		return nil, "", err
	}

	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = defaultExportDir
	}

	return reports, dir, nil
}

func exportRows(files []export.File) []table.Row {
	rows := make([]table.Row, len(files))

	for i, f := range files {
		label := strings.TrimSuffix(f.Name, ".csv")
		if l, ok := reportLabels[export.Report(label)]; ok {
			label = l
		}

		rows[i] = table.Row{label, strconv.Itoa(f.Rows), FormatMoney(f.Total), f.Path}
	}

	return rows
}

type exportDoneMsg struct {
	files []export.File
	err   error
}

func (m ExportModel) exportCmd() tea.Cmd {
	filter, dir, reports := m.filter, m.dir, slices.Clone(m.reports)

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		files, err := m.exportService.ExportReports(ctx, filter, dir, reports...)

		return exportDoneMsg{files: files, err: err}
	}
}

func (m ExportModel) View() string {
	pad := lipgloss.NewStyle().Padding(1)

	switch m.step {
	case exportStepPeriod:
		return pad.Render(m.picker.View())
	case exportStepOptions:
		return pad.Render(m.form.View())
	case exportStepRunning:
		return pad.Render(fmt.Sprintf("%s Writing %d report(s) to %s...", m.spinner.View(), len(m.reports), m.dir))
	}

	if m.err != nil {
		return pad.Render(errorStyle(fmt.Sprintf("Export failed: %v", m.err)))
	}

	header := fmt.Sprintf("%s | %s | %s",
		successStyle("Export complete"), rangeLabel(m.filter), activeStyle(m.dir))

	return pad.Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Render(m.results.View()),
	))
}
