package customer_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/garage/internal/customer"
	"github.com/MrJamesThe3rd/garage/internal/validate"
)

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    customer.Params
		setupMock func(m *customer.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: customer.Params{Name: "  Rui Costa ", ContactNumber: "912345678", VehicleInfo: "Renault Clio 2012"},
			setupMock: func(m *customer.MockRepository) {
				m.EXPECT().
					Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, c *customer.Customer) error {
						assert.Equal(t, "Rui Costa", c.Name)
						c.ID = 3
						return nil
					})
			},
		},
		{
			name:    "MissingName",
			params:  customer.Params{ContactNumber: "912345678"},
			wantErr: validate.ErrInvalid,
		},
		{
			name:    "BadEmail",
			params:  customer.Params{Name: "Ana", Email: "ana@"},
			wantErr: validate.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := customer.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			got, err := customer.NewService(repo).Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(3), got.ID)
		})
	}
}

func TestService_Search(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := customer.NewMockRepository(ctrl)
	repo.EXPECT().List(gomock.Any(), "costa").Return([]*customer.Customer{{ID: 1, Name: "Rui Costa"}}, nil)

	got, err := customer.NewService(repo).Search(context.Background(), " costa ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestService_DeleteInUse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := customer.NewMockRepository(ctrl)
	repo.EXPECT().Delete(gomock.Any(), int64(1)).Return(customer.ErrInUse)

	err := customer.NewService(repo).Delete(context.Background(), 1)
	assert.ErrorIs(t, err, customer.ErrInUse)
}
