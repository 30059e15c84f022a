package customer

import (
	"context"
	"strings"

	"github.com/MrJamesThe3rd/garage/internal/validate"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=customer
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id int64) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, search string) ([]*Customer, error)
	Count(ctx context.Context) (int, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type Params struct {
	Name          string `validate:"required,max=100"`
	ContactNumber string `validate:"max=20"`
	Email         string `validate:"omitempty,email,max=100"`
	Address       string
	VehicleInfo   string `validate:"max=200"`
}

func (p Params) toCustomer() *Customer {
	return &Customer{
		Name:          strings.TrimSpace(p.Name),
		ContactNumber: p.ContactNumber,
		Email:         p.Email,
		Address:       p.Address,
		VehicleInfo:   p.VehicleInfo,
	}
}

func (s *Service) Create(ctx context.Context, params Params) (*Customer, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	c := params.toCustomer()
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, params Params) (*Customer, error) {
	if err := validate.Struct(params); err != nil {
		return nil, err
	}

	c := params.toCustomer()
	c.ID = id

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// Delete removes a customer. Past sales keep their rows with the customer
// cleared; a customer with debts on record cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Customer, error) {
	return s.repo.List(ctx, "")
}

// Search matches the term against name and contact number, case-insensitively.
func (s *Service) Search(ctx context.Context, term string) ([]*Customer, error) {
	return s.repo.List(ctx, strings.TrimSpace(term))
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
