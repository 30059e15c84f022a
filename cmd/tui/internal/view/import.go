package view

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/garage/internal/importer"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

const importTimeout = 2 * time.Minute

type importState int

const (
	importStateSupplier importState = iota
	importStateFilePick
	importStateImporting
	importStateConflicts
	importStateResult
)

type ImportModel struct {
	CommonModel
	itemService   *inventory.Service
	importService *importer.Service

	state          importState
	filePicker     filepicker.Model
	suppliers      []*inventory.Supplier
	supplierCursor int

	newParams    []inventory.CreateParams
	conflicts    []inventory.Conflict
	conflictList list.Model
	selected     map[int]bool

	status string
	err    error
}

func NewImportModel(itemSvc *inventory.Service, impSvc *importer.Service) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.SetHeight(15)

	return ImportModel{
		itemService:   itemSvc,
		importService: impSvc,
		filePicker:    fp,
		selected:      make(map[int]bool),
	}
}

func (m ImportModel) Title() string { return "Import Catalog" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateConflicts:
		return "Space: refresh existing | a: all | n: none | Enter: confirm | Esc: cancel"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.loadSuppliersCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		if m.state == importStateSupplier {
			return m.updateSupplierSelect(msg)
		}

		if m.state == importStateConflicts {
			return m.updateConflicts(msg)
		}

	case suppliersMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.suppliers = msg.suppliers

		return m, nil

	case importResultMsg:
		if msg.err != nil {
			m.state = importStateResult
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		if len(msg.result.Conflicts) == 0 {
			m.state = importStateResult
			m.status = fmt.Sprintf("Imported %d items.", len(msg.result.Imported))

			return m, nil
		}

		m.newParams = msg.result.New
		m.conflicts = msg.result.Conflicts
		m.selected = make(map[int]bool)
		m.state = importStateConflicts

		items := make([]list.Item, len(m.conflicts))
		for i, c := range m.conflicts {
			items[i] = conflictItem{conflict: c, index: i}
		}

		delegate := conflictDelegate{selected: &m.selected}
		m.conflictList = list.New(items, delegate, 80, 20)
		m.conflictList.Title = "Part Numbers Already Taken"
		m.conflictList.SetShowStatusBar(false)
		m.conflictList.SetFilteringEnabled(false)
		m.conflictList.SetShowHelp(false)

		return m, nil

	case confirmResultMsg:
		m.state = importStateResult
		if msg.err != nil {
			m.err = msg.err
			m.status = fmt.Sprintf("Error: %v", msg.err)

			return m, nil
		}

		m.status = fmt.Sprintf("Imported %d items, refreshed %d existing.", msg.count, msg.updated)

		return m, nil
	}

	if m.state != importStateFilePick {
		return m, nil
	}

	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateImporting
		m.status = fmt.Sprintf("Importing from %s...", path)

		return m, m.importCmd(path)
	}

	return m, cmd
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		m.state = importStateSupplier
		return m, nil
	case importStateResult:
		m.state = importStateSupplier
		m.err = nil
		m.status = ""

		return m, nil
	case importStateConflicts:
		m.state = importStateSupplier
		m.conflicts = nil
		m.newParams = nil
		m.selected = make(map[int]bool)

		return m, nil
	}

	return m, Back
}

// updateSupplierSelect picks the supplier stamped on every imported row.
// Cursor 0 is "no supplier".
func (m ImportModel) updateSupplierSelect(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.supplierCursor > 0 {
			m.supplierCursor--
		}
	case tea.KeyDown:
		if m.supplierCursor < len(m.suppliers) {
			m.supplierCursor++
		}
	case tea.KeyEnter:
		m.state = importStateFilePick

		return m, m.filePicker.Init()
	}

	return m, nil
}

func (m ImportModel) updateConflicts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case " ":
		idx := m.conflictList.Index()
		if m.conflicts[idx].Existing != nil {
			m.selected[idx] = !m.selected[idx]
		}

		return m, nil
	case "a":
		for i, c := range m.conflicts {
			m.selected[i] = c.Existing != nil
		}

		return m, nil
	case "n":
		for i := range m.conflicts {
			m.selected[i] = false
		}

		return m, nil
	case "enter":
		return m, m.confirmCmd()
	}

	var cmd tea.Cmd
	m.conflictList, cmd = m.conflictList.Update(msg)

	return m, cmd
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateSupplier:
		return m.viewSupplierSelect()
	case importStateFilePick:
		return m.viewFilePick()
	case importStateImporting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateConflicts:
		return lipgloss.NewStyle().Padding(1).Render(m.conflictList.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) viewSupplierSelect() string {
	s := "Select Supplier:\n\n"

	for i, name := range m.supplierNames() {
		cursor := " "
		if i == m.supplierCursor {
			cursor = ">"
		}

		s += fmt.Sprintf("%s %s\n", cursor, name)
	}

	return lipgloss.NewStyle().Padding(2).Render(s)
}

func (m ImportModel) supplierNames() []string {
	names := make([]string, 0, len(m.suppliers)+1)
	names = append(names, "(none)")

	for _, sup := range m.suppliers {
		names = append(names, sup.Name)
	}

	return names
}

func (m ImportModel) selectedSupplier() *int64 {
	if m.supplierCursor == 0 || m.supplierCursor > len(m.suppliers) {
		return nil
	}

	return &m.suppliers[m.supplierCursor-1].ID
}

func (m ImportModel) viewFilePick() string {
	return lipgloss.NewStyle().Padding(1).Render(
		fmt.Sprintf("Select price list to import (%s):\n\n%s", m.supplierNames()[m.supplierCursor], m.filePicker.View()),
	)
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(
			lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render(m.status) +
				"\n\n(Esc to go back)",
		)
	}

	return style.Render(
		lipgloss.NewStyle().Foreground(lipgloss.Color("46")).Render(m.status) +
			"\n\n(Esc to go back)",
	)
}

// Messages

type suppliersMsg struct {
	suppliers []*inventory.Supplier
	err       error
}

func (m ImportModel) loadSuppliersCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		suppliers, err := m.itemService.ListSuppliers(ctx)
		return suppliersMsg{suppliers: suppliers, err: err}
	}
}

type importResultMsg struct {
	result *inventory.ImportResult
	err    error
}

type confirmResultMsg struct {
	count   int
	updated int
	err     error
}

func (m ImportModel) importCmd(path string) tea.Cmd {
	supplierID := m.selectedSupplier()

	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return importResultMsg{err: err}
		}
		defer f.Close()

		params, err := m.importService.Import(importer.FormatCatalog, supplierID, f)
		if err != nil {
			return importResultMsg{err: err}
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		result, err := m.itemService.ImportBatch(ctx, params)
		if err != nil {
			return importResultMsg{err: err}
		}

		return importResultMsg{result: result}
	}
}

// confirmCmd inserts the new rows and refreshes the catalog fields of the
// selected existing items. Stock, reorder level and location stay as stored.
func (m ImportModel) confirmCmd() tea.Cmd {
	newParams := m.newParams
	conflicts := m.conflicts
	selected := m.selected

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		items, err := m.itemService.CreateBatch(ctx, newParams)
		if err != nil {
			return confirmResultMsg{err: err}
		}

		updated := 0

		for i, c := range conflicts {
			if !selected[i] || c.Existing == nil {
				continue
			}

			if _, err := m.itemService.Update(ctx, c.Existing.ID, refreshParams(c.Existing, c.Incoming)); err != nil {
				return confirmResultMsg{count: len(items), updated: updated, err: err}
			}

			updated++
		}

		return confirmResultMsg{count: len(items), updated: updated}
	}
}

func refreshParams(existing *inventory.Item, incoming inventory.CreateParams) inventory.CreateParams {
	p := incoming
	p.StockQuantity = existing.StockQuantity
	p.MinStockLevel = existing.MinStockLevel
	p.Location = existing.Location

	if p.SupplierID == nil {
		p.SupplierID = existing.SupplierID
	}

	return p
}

// Conflict list item

type conflictItem struct {
	conflict inventory.Conflict
	index    int
}

func (i conflictItem) Title() string       { return "" }
func (i conflictItem) Description() string { return "" }
func (i conflictItem) FilterValue() string { return "" }

// Conflict list delegate

type conflictDelegate struct {
	selected *map[int]bool
}

func (d conflictDelegate) Height() int                             { return 3 }
func (d conflictDelegate) Spacing() int                            { return 0 }
func (d conflictDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d conflictDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(conflictItem)
	if !ok {
		return
	}

	checkbox := "[ ]"
	if (*d.selected)[item.index] {
		checkbox = "[x]"
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	incoming := item.conflict.Incoming

	line1 := fmt.Sprintf("%s%s %-14s %-30s %s",
		cursor, checkbox,
		incoming.PartNumber,
		incoming.Name,
		FormatMoney(incoming.UnitPrice),
	)

	line2 := "      Repeated earlier in this file"
	if existing := item.conflict.Existing; existing != nil {
		line2 = fmt.Sprintf("      Existing: %-30s %s  stock %d",
			existing.Name,
			FormatMoney(existing.UnitPrice),
			existing.StockQuantity,
		)
	}

	fmt.Fprintf(w, "%s\n%s\n", line1, line2)
}
