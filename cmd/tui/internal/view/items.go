package view

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/garage/internal/inventory"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
)

type itemsState int

const (
	itemsStateBrowse itemsState = iota
	itemsStateSale
	itemsStatePurchase
)

// ItemsModel lists stock and records sales and purchases against the selected item.
type ItemsModel struct {
	CommonModel
	itemService   *inventory.Service
	ledgerService *ledger.Service

	state itemsState
	table table.Model
	items []*inventory.Item
	form  *huh.Form

	lowStockOnly bool
	loading      bool
	err          error
	status       string

	// Form bindings
	formQty      string
	formPrice    string
	formParty    string
	formInvoice  string
	formNotes    string
	formSaleDate string
}

func NewItemsModel(itemSvc *inventory.Service, ledgerSvc *ledger.Service) ItemsModel {
	columns := []table.Column{
		{Title: "Part No.", Width: 14},
		{Title: "Name", Width: 30},
		{Title: "Category", Width: 14},
		{Title: "Price", Width: 12},
		{Title: "Stock", Width: 7},
		{Title: "Min", Width: 5},
		{Title: "Location", Width: 10},
	}

	return ItemsModel{
		itemService:   itemSvc,
		ledgerService: ledgerSvc,
		table:         newTable(columns),
		loading:       true,
	}
}

func (m ItemsModel) Title() string { return "Items" }

func (m ItemsModel) ShortHelp() string {
	if m.state != itemsStateBrowse {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | s: sell | p: purchase | l: low stock | r: refresh"
}

func (m ItemsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m ItemsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadItemsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.items = msg.items
		m.refreshTable()
		return m, nil

	case stockMovedMsg:
		m.state = itemsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle(describeLedgerError(msg.err))
			return m, nil
		}

		m.status = successStyle(msg.summary)
		return m, m.loadCmd()
	}

	switch m.state {
	case itemsStateSale, itemsStatePurchase:
		return m.updateForm(msg)
	}

	return m.updateBrowse(msg)
}

func (m ItemsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "l":
			m.lowStockOnly = !m.lowStockOnly
			m.loading = true
			return m, m.loadCmd()
		case "s":
			return m.enterForm(itemsStateSale)
		case "p":
			return m.enterForm(itemsStatePurchase)
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ItemsModel) selected() *inventory.Item {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.items) {
		return nil
	}

	return m.items[idx]
}

func (m ItemsModel) enterForm(state itemsState) (tea.Model, tea.Cmd) {
	item := m.selected()
	if item == nil {
		return m, nil
	}

	m.formQty = "1"
	m.formPrice = item.UnitPrice.StringFixed(2)
	m.formParty = ""
	m.formInvoice = ""
	m.formNotes = ""
	m.formSaleDate = ""

	partyTitle := "Customer ID (optional)"
	if state == itemsStatePurchase {
		partyTitle = "Supplier ID (optional)"
		if item.SupplierID != nil {
			m.formParty = strconv.FormatInt(*item.SupplierID, 10)
		}
	}

	fields := []huh.Field{
		huh.NewInput().
			Key("quantity").
			Title("Quantity").
			Value(&m.formQty).
			Validate(validateCount),

		huh.NewInput().
			Key("unit_price").
			Title("Unit Price").
			Value(&m.formPrice).
			Validate(validateMoney),

		huh.NewInput().
			Key("party").
			Title(partyTitle).
			Value(&m.formParty).
			Validate(validateOptionalID),

		huh.NewInput().
			Key("date").
			Title("Date").
			Placeholder("YYYY-MM-DD, empty for today").
			Value(&m.formSaleDate).
			Validate(validateOptionalDate),
	}

	if state == itemsStatePurchase {
		fields = append(fields, huh.NewInput().
			Key("invoice").
			Title("Invoice Number").
			Value(&m.formInvoice))
	}

	fields = append(fields, huh.NewInput().
		Key("notes").
		Title("Notes").
		Value(&m.formNotes))

	m.form = huh.NewForm(huh.NewGroup(fields...)).WithWidth(45).WithShowHelp(false)
	m.state = state
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m ItemsModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = itemsStateBrowse
			m.form = nil
			m.table.Focus()
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if m.state == itemsStateSale {
		return m, m.saleCmd()
	}

	return m, m.purchaseCmd()
}

func (m ItemsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading items...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	filterLabel := "All"
	if m.lowStockOnly {
		filterLabel = "Low Stock"
	}

	header := fmt.Sprintf("Filter: [l] %s | %d items", activeStyle(filterLabel), len(m.items))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state != itemsStateBrowse && m.form != nil {
		title := "Record Sale"
		if m.state == itemsStatePurchase {
			title = "Record Purchase"
		}

		item := m.selected()
		label := ""
		if item != nil {
			label = fmt.Sprintf("%s %s (stock %d)", item.PartNumber, item.Name, item.StockQuantity)
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("%s\n\n%s\n\n%s", title, label, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m *ItemsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.items))
	for _, it := range m.items {
		stock := strconv.Itoa(it.StockQuantity)
		if it.IsLowStock() {
			stock += " !"
		}

		rows = append(rows, table.Row{
			it.PartNumber,
			it.Name,
			it.Category,
			FormatMoney(it.UnitPrice),
			stock,
			strconv.Itoa(it.MinStockLevel),
			it.Location,
		})
	}
	m.table.SetRows(rows)
}

func describeLedgerError(err error) string {
	var short *ledger.InsufficientStockError
	if errors.As(err, &short) {
		return short.Error()
	}

	return fmt.Sprintf("Error: %v", err)
}

// Messages

type loadItemsMsg struct {
	items []*inventory.Item
	err   error
}

func (m ItemsModel) loadCmd() tea.Cmd {
	filter := inventory.ListFilter{LowStockOnly: m.lowStockOnly}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		items, err := m.itemService.List(ctx, filter)
		return loadItemsMsg{items: items, err: err}
	}
}

type stockMovedMsg struct {
	summary string
	err     error
}

type movementInput struct {
	itemID   int64
	qty      string
	price    string
	party    string
	date     string
	invoice  string
	notes    string
	itemName string
}

func (m ItemsModel) movementInput() (movementInput, bool) {
	item := m.selected()
	if item == nil {
		return movementInput{}, false
	}

	// Bound strings live on an earlier copy of the model; read the submitted form instead.
	f := m.form

	return movementInput{
		itemID:   item.ID,
		qty:      f.GetString("quantity"),
		price:    f.GetString("unit_price"),
		party:    f.GetString("party"),
		date:     f.GetString("date"),
		invoice:  f.GetString("invoice"),
		notes:    f.GetString("notes"),
		itemName: item.Name,
	}, true
}

func (m ItemsModel) saleCmd() tea.Cmd {
	in, ok := m.movementInput()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		qty, err := parseCount(in.qty)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		price, err := parseMoney(in.price)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		customerID, err := parseOptionalID(in.party)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		date, err := parseOptionalDate(in.date)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		params := ledger.CreateSaleParams{
			ItemID:     in.itemID,
			CustomerID: customerID,
			Quantity:   qty,
			UnitPrice:  price,
			Notes:      strings.TrimSpace(in.notes),
		}
		if date != nil {
			params.Date = *date
		}

		ctx, cancel := DbCtx()
		defer cancel()

		sale, err := m.ledgerService.RecordSale(ctx, params)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		return stockMovedMsg{summary: fmt.Sprintf("Sold %d x %s for %s", sale.Quantity, in.itemName, FormatMoney(sale.TotalAmount))}
	}
}

func (m ItemsModel) purchaseCmd() tea.Cmd {
	in, ok := m.movementInput()
	if !ok {
		return nil
	}

	return func() tea.Msg {
		qty, err := parseCount(in.qty)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		price, err := parseMoney(in.price)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		supplierID, err := parseOptionalID(in.party)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		date, err := parseOptionalDate(in.date)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		params := ledger.CreatePurchaseParams{
			ItemID:        in.itemID,
			SupplierID:    supplierID,
			Quantity:      qty,
			UnitPrice:     price,
			InvoiceNumber: strings.TrimSpace(in.invoice),
			Notes:         strings.TrimSpace(in.notes),
		}
		if date != nil {
			params.Date = *date
		}

		ctx, cancel := DbCtx()
		defer cancel()

		purchase, err := m.ledgerService.RecordPurchase(ctx, params)
		if err != nil {
			return stockMovedMsg{err: err}
		}

		return stockMovedMsg{summary: fmt.Sprintf("Received %d x %s for %s", purchase.Quantity, in.itemName, FormatMoney(purchase.TotalAmount))}
	}
}
