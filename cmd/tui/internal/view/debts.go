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

	"github.com/MrJamesThe3rd/garage/internal/debt"
)

type debtsState int

const (
	debtsStateBrowse debtsState = iota
	debtsStatePay
)

type debtFilter int

const (
	debtFilterPending debtFilter = iota
	debtFilterOverdue
	debtFilterAll
)

var debtFilterLabels = []string{"Pending", "Overdue", "All"}

// DebtsModel lists customer debts and records payments against them.
type DebtsModel struct {
	CommonModel
	debtService *debt.Service
	recorder    string

	state    debtsState
	table    table.Model
	debts    []*debt.Transaction
	payments []*debt.Payment
	form     *huh.Form

	filter  debtFilter
	loading bool
	err     error
	status  string

	// Form bindings
	formAmount string
	formMethod string
	formRef    string
	formNotes  string
}

func NewDebtsModel(svc *debt.Service, recorder string) DebtsModel {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Customer", Width: 24},
		{Title: "Type", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Remaining", Width: 12},
		{Title: "Due", Width: 12},
		{Title: "Status", Width: 9},
	}

	return DebtsModel{
		debtService: svc,
		recorder:    recorder,
		table:       newTable(columns),
		loading:     true,
	}
}

func (m DebtsModel) Title() string { return "Debts" }

func (m DebtsModel) ShortHelp() string {
	if m.state == debtsStatePay {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | p: record payment | h: history | f: filter | m: mark overdue | r: refresh"
}

func (m DebtsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m DebtsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadDebtsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.debts = msg.debts
		m.payments = nil
		m.refreshTable()
		return m, nil

	case paymentsMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}
		m.payments = msg.payments
		return m, nil

	case paymentResultMsg:
		m.state = debtsStateBrowse
		m.form = nil
		m.table.Focus()

		if msg.err != nil {
			m.status = errorStyle(describeDebtError(msg.err))
			return m, nil
		}

		r := msg.receipt
		m.status = successStyle(fmt.Sprintf("Payment of %s recorded. Remaining %s (%s)",
			FormatMoney(r.Payment.Amount), FormatMoney(r.RemainingBalance), r.Status))
		return m, m.loadCmd()

	case markOverdueMsg:
		if msg.err != nil {
			m.status = errorStyle(fmt.Sprintf("Error: %v", msg.err))
			return m, nil
		}
		m.status = successStyle(fmt.Sprintf("Marked %d debts overdue", msg.marked))
		return m, m.loadCmd()
	}

	if m.state == debtsStatePay {
		return m.updatePay(msg)
	}

	return m.updateBrowse(msg)
}

func (m DebtsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "f":
			m.filter = (m.filter + 1) % debtFilter(len(debtFilterLabels))
			m.loading = true
			return m, m.loadCmd()
		case "m":
			return m, m.markOverdueCmd()
		case "h":
			return m, m.paymentsCmd()
		case "p":
			return m.enterPay()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m DebtsModel) selected() *debt.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.debts) {
		return nil
	}

	return m.debts[idx]
}

func (m DebtsModel) enterPay() (tea.Model, tea.Cmd) {
	d := m.selected()
	if d == nil {
		return m, nil
	}

	if !d.Status.Open() {
		m.status = errorStyle("Debt is already paid")
		return m, nil
	}

	m.formAmount = d.RemainingBalance.StringFixed(2)
	m.formMethod = "cash"
	m.formRef = ""
	m.formNotes = ""

	remaining := d.RemainingBalance

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("amount").
				Title("Amount").
				Value(&m.formAmount).
				Validate(func(s string) error {
					amount, err := parseMoney(s)
					if err != nil {
						return err
					}
					if !amount.IsPositive() {
						return fmt.Errorf("amount must be above zero")
					}
					if amount.GreaterThan(remaining) {
						return fmt.Errorf("amount exceeds remaining %s", FormatMoney(remaining))
					}
					return nil
				}),

			huh.NewSelect[string]().
				Key("method").
				Title("Payment Method").
				Options(
					huh.NewOption("Cash", "cash"),
					huh.NewOption("Card", "card"),
					huh.NewOption("Bank transfer", "transfer"),
					huh.NewOption("MB Way", "mbway"),
				).
				Value(&m.formMethod),

			huh.NewInput().
				Key("reference").
				Title("Reference").
				Value(&m.formRef),

			huh.NewInput().
				Key("notes").
				Title("Notes").
				Value(&m.formNotes),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = debtsStatePay
	m.status = ""
	m.table.Blur()

	return m, m.form.Init()
}

func (m DebtsModel) updatePay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			m.state = debtsStateBrowse
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

	return m, m.payCmd()
}

func (m DebtsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading debts...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	header := fmt.Sprintf("Filter: [f] %s | %d debts", activeStyle(debtFilterLabels[m.filter]), len(m.debts))

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == debtsStatePay && m.form != nil {
		label := ""
		if d := m.selected(); d != nil {
			label = fmt.Sprintf("Debt #%d for %s\nRemaining: %s", d.ID, d.CustomerName, FormatMoney(d.RemainingBalance))
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Record Payment\n\n%s\n\n%s", label, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.payments != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", m.viewPayments())
	}

	if m.status != "" {
		content = m.status + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func (m DebtsModel) viewPayments() string {
	if len(m.payments) == 0 {
		return lipgloss.NewStyle().Faint(true).Render("No payments recorded.")
	}

	var sb strings.Builder
	sb.WriteString("Payments:\n")

	for _, p := range m.payments {
		fmt.Fprintf(&sb, "  %s  %12s  %-10s %s\n", FormatDate(p.PaymentDate), FormatMoney(p.Amount), p.PaymentMethod, p.ReferenceNumber)
	}

	return sb.String()
}

func (m *DebtsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.debts))
	for _, d := range m.debts {
		rows = append(rows, table.Row{
			strconv.FormatInt(d.ID, 10),
			d.CustomerName,
			string(d.Type),
			FormatMoney(d.Amount),
			FormatMoney(d.RemainingBalance),
			formatDue(d.DueDate),
			string(d.Status),
		})
	}
	m.table.SetRows(rows)
}

func describeDebtError(err error) string {
	switch {
	case errors.Is(err, debt.ErrOverpayment):
		return "Payment exceeds the remaining balance"
	case errors.Is(err, debt.ErrNotFound):
		return "Debt no longer exists"
	}

	return fmt.Sprintf("Error: %v", err)
}

// Messages

type loadDebtsMsg struct {
	debts []*debt.Transaction
	err   error
}

func (m DebtsModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var (
			debts []*debt.Transaction
			err   error
		)

		switch filter {
		case debtFilterOverdue:
			debts, err = m.debtService.Overdue(ctx)
		case debtFilterAll:
			debts, err = m.debtService.List(ctx)
		default:
			debts, err = m.debtService.Pending(ctx)
		}

		return loadDebtsMsg{debts: debts, err: err}
	}
}

type paymentsMsg struct {
	payments []*debt.Payment
	err      error
}

func (m DebtsModel) paymentsCmd() tea.Cmd {
	d := m.selected()
	if d == nil {
		return nil
	}

	id := d.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		payments, err := m.debtService.PaymentHistory(ctx, id)
		if payments == nil && err == nil {
			payments = []*debt.Payment{}
		}

		return paymentsMsg{payments: payments, err: err}
	}
}

type paymentResultMsg struct {
	receipt *debt.Receipt
	err     error
}

func (m DebtsModel) payCmd() tea.Cmd {
	d := m.selected()
	if d == nil {
		return nil
	}

	f := m.form
	params := debt.PaymentParams{
		DebtID:          d.ID,
		PaymentMethod:   f.GetString("method"),
		ReferenceNumber: strings.TrimSpace(f.GetString("reference")),
		Notes:           strings.TrimSpace(f.GetString("notes")),
		CreatedBy:       m.recorder,
	}
	amount := f.GetString("amount")

	return func() tea.Msg {
		var err error
		if params.Amount, err = parseMoney(amount); err != nil {
			return paymentResultMsg{err: err}
		}

		ctx, cancel := DbCtx()
		defer cancel()

		receipt, err := m.debtService.RecordPayment(ctx, params)
		return paymentResultMsg{receipt: receipt, err: err}
	}
}

type markOverdueMsg struct {
	marked int64
	err    error
}

func (m DebtsModel) markOverdueCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		n, err := m.debtService.MarkOverdue(ctx)
		return markOverdueMsg{marked: n, err: err}
	}
}
