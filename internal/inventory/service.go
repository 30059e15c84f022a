package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=inventory
type Repository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, id int64) (*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, id int64) error
	ListItems(ctx context.Context, filter ListFilter) ([]*Item, error)
	CountItems(ctx context.Context) (int, error)
	PartNumberExists(ctx context.Context, partNumber string) (bool, error)

	CreateSupplier(ctx context.Context, supplier *Supplier) error
	GetSupplier(ctx context.Context, id int64) (*Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error
	ListSuppliers(ctx context.Context) ([]*Supplier, error)
	LinkItem(ctx context.Context, supplierID, itemID int64) error

	BeginImport(ctx context.Context) (ImportTx, error)
}

type ImportTx interface {
	FindExisting(ctx context.Context, partNumbers []string) ([]*Item, error)
	CreateItems(ctx context.Context, items []*Item) error
	Commit() error
	Rollback() error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	PartNumber    string          `validate:"required,max=50"`
	Name          string          `validate:"required,max=100"`
	Description   string
	Category      string          `validate:"max=50"`
	UnitPrice     decimal.Decimal `validate:"dgte0,dmoney"`
	StockQuantity int             `validate:"gte=0"`
	MinStockLevel int             `validate:"gte=0"`
	Location      string          `validate:"max=50"`
	SupplierID    *int64
}

type SupplierParams struct {
	Name          string `validate:"required,max=100"`
	ContactNumber string `validate:"max=20"`
	Email         string `validate:"omitempty,email,max=100"`
	Address       string
}

type ListFilter struct {
	Search       string
	Category     string
	SupplierID   *int64
	LowStockOnly bool
}

func (p CreateParams) toItem() *Item {
	return &Item{
		PartNumber:    p.PartNumber,
		Name:          p.Name,
		Description:   p.Description,
		Category:      p.Category,
		UnitPrice:     p.UnitPrice,
		StockQuantity: p.StockQuantity,
		MinStockLevel: p.MinStockLevel,
		Location:      p.Location,
		SupplierID:    p.SupplierID,
	}
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Item, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	item := params.toItem()
	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Item, error) {
	return s.repo.GetItem(ctx, id)
}

// Update overwrites every editable field, stock included. It is the manual
// correction path; purchases and sales adjust stock through the ledger.
func (s *Service) Update(ctx context.Context, id int64, params CreateParams) (*Item, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	item := params.toItem()
	item.ID = id

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.DeleteItem(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Item, error) {
	return s.repo.ListItems(ctx, filter)
}

// LowStock returns items at or below their reorder level, emptiest first.
func (s *Service) LowStock(ctx context.Context) ([]*Item, error) {
	return s.repo.ListItems(ctx, ListFilter{LowStockOnly: true})
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.CountItems(ctx)
}

func (s *Service) PartNumberExists(ctx context.Context, partNumber string) (bool, error) {
	return s.repo.PartNumberExists(ctx, partNumber)
}

func (s *Service) CreateSupplier(ctx context.Context, params SupplierParams) (*Supplier, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	sup := &Supplier{
		Name:          params.Name,
		ContactNumber: params.ContactNumber,
		Email:         params.Email,
		Address:       params.Address,
	}

	if err := s.repo.CreateSupplier(ctx, sup); err != nil {
		return nil, err
	}

	return sup, nil
}

func (s *Service) GetSupplier(ctx context.Context, id int64) (*Supplier, error) {
	return s.repo.GetSupplier(ctx, id)
}

func (s *Service) UpdateSupplier(ctx context.Context, id int64, params SupplierParams) (*Supplier, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	sup := &Supplier{
		ID:            id,
		Name:          params.Name,
		ContactNumber: params.ContactNumber,
		Email:         params.Email,
		Address:       params.Address,
	}

	if err := s.repo.UpdateSupplier(ctx, sup); err != nil {
		return nil, err
	}

	return sup, nil
}

// DeleteSupplier removes the supplier; items and purchases keep their rows
// with the supplier reference cleared.
func (s *Service) DeleteSupplier(ctx context.Context, id int64) error {
	return s.repo.DeleteSupplier(ctx, id)
}

func (s *Service) ListSuppliers(ctx context.Context) ([]*Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

// LinkItem records that a supplier carries an item. Linking twice is a no-op.
func (s *Service) LinkItem(ctx context.Context, supplierID, itemID int64) error {
	return s.repo.LinkItem(ctx, supplierID, itemID)
}

func (s *Service) ItemsBySupplier(ctx context.Context, supplierID int64) ([]*Item, error) {
	return s.repo.ListItems(ctx, ListFilter{SupplierID: &supplierID})
}

type ImportResult struct {
	Imported  []*Item
	New       []CreateParams
	Conflicts []Conflict
}

// Conflict is an incoming row whose part number is already taken. Existing
// is nil when the clash is with an earlier row of the same batch.
type Conflict struct {
	Incoming CreateParams
	Existing *Item
}

// ImportBatch inserts a catalog batch when none of its part numbers exist yet.
// Otherwise nothing is written and the conflicts are reported for review.
func (s *Service) ImportBatch(ctx context.Context, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	for i, p := range params {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	partNumbers := make([]string, len(params))
	for i, p := range params {
		partNumbers[i] = p.PartNumber
	}

	existing, err := itx.FindExisting(ctx, partNumbers)
	if err != nil {
		return nil, fmt.Errorf("find existing: %w", err)
	}

	lookup := make(map[string]*Item, len(existing))
	for _, it := range existing {
		lookup[it.PartNumber] = it
	}

	seen := make(map[string]struct{}, len(params))

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		if it, found := lookup[p.PartNumber]; found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: it})
			continue
		}

		if _, dup := seen[p.PartNumber]; dup {
			conflicts = append(conflicts, Conflict{Incoming: p})
			continue
		}

		seen[p.PartNumber] = struct{}{}
		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	items := paramsToItems(newParams)
	if err := itx.CreateItems(ctx, items); err != nil {
		return nil, fmt.Errorf("create items: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: items}, nil
}

// CreateBatch inserts reviewed rows in one transaction.
func (s *Service) CreateBatch(ctx context.Context, params []CreateParams) ([]*Item, error) {
	if len(params) == 0 {
		return nil, nil
	}

	for i, p := range params {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	itx, err := s.repo.BeginImport(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	items := paramsToItems(params)
	if err := itx.CreateItems(ctx, items); err != nil {
		return nil, fmt.Errorf("create items: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return items, nil
}

func paramsToItems(params []CreateParams) []*Item {
	items := make([]*Item, len(params))
	for i, p := range params {
		items[i] = p.toItem()
	}

	return items
}
