package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/garage/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/garage/internal/config"
	"github.com/MrJamesThe3rd/garage/internal/customer"
	customerStore "github.com/MrJamesThe3rd/garage/internal/customer/store"
	"github.com/MrJamesThe3rd/garage/internal/database"
	"github.com/MrJamesThe3rd/garage/internal/debt"
	debtStore "github.com/MrJamesThe3rd/garage/internal/debt/store"
	"github.com/MrJamesThe3rd/garage/internal/export"
	"github.com/MrJamesThe3rd/garage/internal/importer"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
	inventoryStore "github.com/MrJamesThe3rd/garage/internal/inventory/store"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
	ledgerStore "github.com/MrJamesThe3rd/garage/internal/ledger/store"
	"github.com/MrJamesThe3rd/garage/internal/report"
)

type model struct {
	itemService   *inventory.Service
	ledgerService *ledger.Service
	debtService   *debt.Service
	reportService *report.Service
	importService *importer.Service
	exportService *export.Service
	recorder      string

	currentView View

	dashboardView view.DashboardModel
	itemsView     view.ItemsModel
	debtsView     view.DebtsModel
	ledgerView    view.LedgerModel
	importView    view.ImportModel
	exportView    view.ExportModel
}

type View int

const (
	ViewMenu      View = 0
	ViewDashboard View = 1
	ViewItems     View = 2
	ViewDebts     View = 3
	ViewLedger    View = 4
	ViewImport    View = 5
	ViewExport    View = 6
)

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.Migrate(context.Background(), db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}

	itemSvc := inventory.NewService(inventoryStore.New(db))
	ledgerSvc := ledger.NewService(ledgerStore.New(db))
	debtSvc := debt.NewService(debtStore.New(db))
	customerSvc := customer.NewService(customerStore.New(db))
	reportSvc := report.NewService(itemSvc, ledgerSvc, debtSvc, customerSvc)
	impSvc := importer.NewService()
	expSvc := export.NewService(itemSvc, ledgerSvc)

	return model{
		itemService:   itemSvc,
		ledgerService: ledgerSvc,
		debtService:   debtSvc,
		reportService: reportSvc,
		importService: impSvc,
		exportService: expSvc,
		recorder:      cfg.Auth.AdminUsername,
		currentView:   ViewMenu,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewDashboard
				m.dashboardView = view.NewDashboardModel(m.reportService)

				return m, m.dashboardView.Init()
			case "2":
				m.currentView = ViewItems
				m.itemsView = view.NewItemsModel(m.itemService, m.ledgerService)

				return m, m.itemsView.Init()
			case "3":
				m.currentView = ViewDebts
				m.debtsView = view.NewDebtsModel(m.debtService, m.recorder)

				return m, m.debtsView.Init()
			case "4":
				m.currentView = ViewLedger
				m.ledgerView = view.NewLedgerModel(m.ledgerService)

				return m, m.ledgerView.Init()
			case "5":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.itemService, m.importService)

				return m, m.importView.Init()
			case "6":
				m.currentView = ViewExport
				m.exportView = view.NewExportModel(m.exportService)

				return m, m.exportView.Init()
			}
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewDashboard:
		var newModel tea.Model
		newModel, cmd = m.dashboardView.Update(msg)
		m.dashboardView = newModel.(view.DashboardModel)
	case ViewItems:
		var newModel tea.Model
		newModel, cmd = m.itemsView.Update(msg)
		m.itemsView = newModel.(view.ItemsModel)
	case ViewDebts:
		var newModel tea.Model
		newModel, cmd = m.debtsView.Update(msg)
		m.debtsView = newModel.(view.DebtsModel)
	case ViewLedger:
		var newModel tea.Model
		newModel, cmd = m.ledgerView.Update(msg)
		m.ledgerView = newModel.(view.LedgerModel)
	case ViewImport:
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	case ViewExport:
		var newModel tea.Model
		newModel, cmd = m.exportView.Update(msg)
		m.exportView = newModel.(view.ExportModel)
	}

	return m, cmd
}

func (m model) active() view.View {
	switch m.currentView {
	case ViewDashboard:
		return m.dashboardView
	case ViewItems:
		return m.itemsView
	case ViewDebts:
		return m.debtsView
	case ViewLedger:
		return m.ledgerView
	case ViewImport:
		return m.importView
	case ViewExport:
		return m.exportView
	}

	return nil
}

func (m model) View() string {
	if m.currentView == ViewMenu {
		return lipgloss.NewStyle().Padding(2).Render(
			"Garage Inventory\n\n" +
				"1. Dashboard\n" +
				"2. Items (sell / purchase)\n" +
				"3. Debts & Payments\n" +
				"4. Sales & Purchases\n" +
				"5. Import Price List\n" +
				"6. Export Reports\n\n" +
				"q. Quit",
		)
	}

	v := m.active()
	if v == nil {
		return "Unknown View"
	}

	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(v.Title())
	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(v.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, title, v.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
