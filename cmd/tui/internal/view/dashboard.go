package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/garage/internal/report"
)

type DashboardModel struct {
	CommonModel
	reportService *report.Service

	dashboard *report.Dashboard
	loading   bool
	err       error
}

func NewDashboardModel(svc *report.Service) DashboardModel {
	return DashboardModel{reportService: svc, loading: true}
}

func (m DashboardModel) Title() string     { return "Dashboard" }
func (m DashboardModel) ShortHelp() string { return "Esc: back | r: refresh" }

func (m DashboardModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardMsg:
		m.loading = false
		m.dashboard = msg.dashboard
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	return m, nil
}

func (m DashboardModel) View() string {
	style := lipgloss.NewStyle().Padding(1)

	if m.loading {
		return style.Render("Loading dashboard...")
	}

	if m.err != nil {
		return style.Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	d := m.dashboard

	var sb strings.Builder
	fmt.Fprintf(&sb, "Items in catalog:   %d\n", d.TotalItems)
	fmt.Fprintf(&sb, "Customers:          %d\n", d.TotalCustomers)
	fmt.Fprintf(&sb, "Sales today:        %s\n", FormatMoney(d.TodaySales))
	fmt.Fprintf(&sb, "Purchases today:    %s\n", FormatMoney(d.TodayPurchases))
	fmt.Fprintf(&sb, "Outstanding debt:   %s\n", FormatMoney(d.OutstandingDebt))
	fmt.Fprintf(&sb, "Overdue debts:      %d\n", d.OverdueDebts)

	low := "Low stock: none"
	if len(d.LowStockItems) > 0 {
		var lb strings.Builder
		lb.WriteString(activeStyle(fmt.Sprintf("Low stock (%d)", len(d.LowStockItems))))
		lb.WriteString("\n\n")

		for _, it := range d.LowStockItems {
			fmt.Fprintf(&lb, "%-14s %-30s %3d / %d\n", it.PartNumber, it.Name, it.StockQuantity, it.MinStockLevel)
		}

		low = lb.String()
	}

	header := lipgloss.NewStyle().Bold(true).Render("Garage Dashboard")

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, header, "", sb.String(), low))
}

type dashboardMsg struct {
	dashboard *report.Dashboard
	err       error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		d, err := m.reportService.Dashboard(ctx)
		return dashboardMsg{dashboard: d, err: err}
	}
}
