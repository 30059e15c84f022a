package view

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

type ledgerState int

const (
	ledgerStateTimeframe ledgerState = iota
	ledgerStateList
)

// LedgerModel shows the sales or purchases recorded within a chosen timeframe.
type LedgerModel struct {
	CommonModel
	ledgerService *ledger.Service

	state           ledgerState
	timeframePicker TimeframePicker
	filter          ledger.ListFilter
	showPurchases   bool

	table     table.Model
	sales     []*ledger.Sale
	purchases []*ledger.Purchase
	total     decimal.Decimal

	loading bool
	err     error
}

func NewLedgerModel(svc *ledger.Service) LedgerModel {
	return LedgerModel{
		ledgerService:   svc,
		timeframePicker: NewTimeframePicker(TimeframeToday),
		table:           newTable(saleColumns()),
	}
}

func saleColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Part No.", Width: 14},
		{Title: "Item", Width: 26},
		{Title: "Qty", Width: 5},
		{Title: "Unit", Width: 11},
		{Title: "Total", Width: 12},
		{Title: "Customer", Width: 20},
	}
}

func purchaseColumns() []table.Column {
	return []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Part No.", Width: 14},
		{Title: "Item", Width: 26},
		{Title: "Qty", Width: 5},
		{Title: "Unit", Width: 11},
		{Title: "Total", Width: 12},
		{Title: "Supplier", Width: 20},
		{Title: "Invoice", Width: 12},
	}
}

func (m LedgerModel) Title() string { return "Sales & Purchases" }

func (m LedgerModel) ShortHelp() string {
	if m.state == ledgerStateTimeframe {
		return "Esc: back | Enter: select"
	}

	return "Esc: timeframe | t: toggle sales/purchases | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return nil
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter = msg.Filter()

		m.state = ledgerStateList
		m.loading = true
		return m, m.loadCmd()

	case loadLedgerMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.sales = msg.sales
		m.purchases = msg.purchases
		m.refreshTable()
		return m, nil
	}

	if m.state == ledgerStateTimeframe {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			if keyMsg.Type == tea.KeyEsc && m.timeframePicker.IsSelecting() {
				return m, Back
			}
		}

		var cmd tea.Cmd
		m.timeframePicker, cmd = m.timeframePicker.Update(msg)
		return m, cmd
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.state = ledgerStateTimeframe
			m.timeframePicker.Reset()
			return m, nil
		case "t":
			m.showPurchases = !m.showPurchases
			m.loading = true
			return m, m.loadCmd()
		case "r":
			m.loading = true
			return m, m.loadCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m LedgerModel) View() string {
	if m.state == ledgerStateTimeframe {
		return lipgloss.NewStyle().Padding(1).Render(m.timeframePicker.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading ledger...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle(fmt.Sprintf("Error: %v", m.err)))
	}

	kind := "Sales"
	count := len(m.sales)
	if m.showPurchases {
		kind = "Purchases"
		count = len(m.purchases)
	}

	header := fmt.Sprintf("[t] %s | %s | %d rows | Total %s",
		activeStyle(kind), rangeLabel(m.filter), count, FormatMoney(m.total))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	return lipgloss.NewStyle().Padding(1).Render(lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	))
}

func rangeLabel(f ledger.ListFilter) string {
	if f.StartDate == nil || f.EndDate == nil {
		return "All Time"
	}

	return fmt.Sprintf("%s to %s", FormatDate(*f.StartDate), FormatDate(*f.EndDate))
}

func (m *LedgerModel) refreshTable() {
	m.total = decimal.Zero

	// Clear rows before swapping columns so the table never renders a short row.
	m.table.SetRows(nil)

	if m.showPurchases {
		m.table.SetColumns(purchaseColumns())

		rows := make([]table.Row, 0, len(m.purchases))
		for _, p := range m.purchases {
			m.total = m.total.Add(p.TotalAmount)
			rows = append(rows, table.Row{
				FormatDate(p.PurchaseDate),
				p.PartNumber,
				p.ItemName,
				strconv.Itoa(p.Quantity),
				FormatMoney(p.UnitPrice),
				FormatMoney(p.TotalAmount),
				p.SupplierName,
				p.InvoiceNumber,
			})
		}
		m.table.SetRows(rows)

		return
	}

	m.table.SetColumns(saleColumns())

	rows := make([]table.Row, 0, len(m.sales))
	for _, s := range m.sales {
		m.total = m.total.Add(s.TotalAmount)
		rows = append(rows, table.Row{
			FormatDate(s.SaleDate),
			s.PartNumber,
			s.ItemName,
			strconv.Itoa(s.Quantity),
			FormatMoney(s.UnitPrice),
			FormatMoney(s.TotalAmount),
			s.CustomerName,
		})
	}
	m.table.SetRows(rows)
}

type loadLedgerMsg struct {
	sales     []*ledger.Sale
	purchases []*ledger.Purchase
	err       error
}

func (m LedgerModel) loadCmd() tea.Cmd {
	filter := m.filter
	purchases := m.showPurchases

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if purchases {
			rows, err := m.ledgerService.ListPurchases(ctx, filter)
			return loadLedgerMsg{purchases: rows, err: err}
		}

		rows, err := m.ledgerService.ListSales(ctx, filter)
		return loadLedgerMsg{sales: rows, err: err}
	}
}
