package inventory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/garage/internal/inventory"
	"github.com/MrJamesThe3rd/garage/internal/validate"
)

func brakePad() inventory.CreateParams {
	return inventory.CreateParams{
		PartNumber:    "BP-1001",
		Name:          "Brake pad set",
		Category:      "Brakes",
		UnitPrice:     decimal.RequireFromString("34.90"),
		StockQuantity: 10,
		MinStockLevel: 5,
	}
}

func TestService_Create(t *testing.T) {
	type testCase struct {
		name      string
		params    inventory.CreateParams
		setupMock func(m *inventory.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			params: brakePad(),
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().
					CreateItem(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, it *inventory.Item) error {
						it.ID = 1
						return nil
					})
			},
		},
		{
			name:   "DuplicatePartNumber",
			params: brakePad(),
			setupMock: func(m *inventory.MockRepository) {
				m.EXPECT().CreateItem(gomock.Any(), gomock.Any()).Return(inventory.ErrDuplicatePartNumber)
			},
			wantErr: inventory.ErrDuplicatePartNumber,
		},
		{
			name:    "MissingPartNumber",
			params:  inventory.CreateParams{Name: "Oil filter"},
			wantErr: validate.ErrInvalid,
		},
		{
			name: "NegativeStock",
			params: inventory.CreateParams{
				PartNumber: "OF-1", Name: "Oil filter", StockQuantity: -1,
			},
			wantErr: validate.ErrInvalid,
		},
		{
			name: "SubCentPrice",
			params: inventory.CreateParams{
				PartNumber: "OF-1", Name: "Oil filter", UnitPrice: decimal.RequireFromString("7.999"),
			},
			wantErr: validate.ErrInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := inventory.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := inventory.NewService(repo)
			got, err := svc.Create(context.Background(), tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, int64(1), got.ID)
			assert.False(t, got.IsLowStock())
		})
	}
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	repo.EXPECT().
		UpdateItem(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, it *inventory.Item) error {
			assert.Equal(t, int64(4), it.ID)
			assert.Equal(t, 3, it.StockQuantity)
			return nil
		})

	params := brakePad()
	params.StockQuantity = 3

	got, err := inventory.NewService(repo).Update(context.Background(), 4, params)
	require.NoError(t, err)
	assert.True(t, got.IsLowStock())
}

func TestService_LowStock(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	repo.EXPECT().
		ListItems(gomock.Any(), inventory.ListFilter{LowStockOnly: true}).
		Return([]*inventory.Item{{ID: 1, StockQuantity: 0}, {ID: 2, StockQuantity: 4, MinStockLevel: 5}}, nil)

	got, err := inventory.NewService(repo).LowStock(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestService_ItemsBySupplier(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	supplierID := int64(3)

	repo := inventory.NewMockRepository(ctrl)
	repo.EXPECT().
		ListItems(gomock.Any(), inventory.ListFilter{SupplierID: &supplierID}).
		Return(nil, errors.New("list error"))

	_, err := inventory.NewService(repo).ItemsBySupplier(context.Background(), supplierID)
	assert.Error(t, err)
}

func TestService_CreateSupplier_InvalidEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)

	_, err := inventory.NewService(repo).CreateSupplier(context.Background(), inventory.SupplierParams{
		Name:  "Auto Parts Lda",
		Email: "not-an-email",
	})
	assert.ErrorIs(t, err, validate.ErrInvalid)
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	itx := inventory.NewMockImportTx(ctrl)
	svc := inventory.NewService(repo)

	params := []inventory.CreateParams{brakePad()}

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().FindExisting(gomock.Any(), []string{"BP-1001"}).Return(nil, nil)
	itx.EXPECT().CreateItems(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Len(t, result.Imported, 1)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	itx := inventory.NewMockImportTx(ctrl)
	svc := inventory.NewService(repo)

	filter := inventory.CreateParams{PartNumber: "OF-200", Name: "Oil filter", UnitPrice: decimal.NewFromInt(8)}
	params := []inventory.CreateParams{brakePad(), filter, filter}

	existing := &inventory.Item{ID: 9, PartNumber: "BP-1001", Name: "Brake pad set"}

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().
		FindExisting(gomock.Any(), []string{"BP-1001", "OF-200", "OF-200"}).
		Return([]*inventory.Item{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.New, 1)
	assert.Equal(t, "OF-200", result.New[0].PartNumber)
	require.Len(t, result.Conflicts, 2)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
	assert.Nil(t, result.Conflicts[1].Existing)
}

func TestService_ImportBatch_InvalidRow(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)

	_, err := inventory.NewService(repo).ImportBatch(context.Background(), []inventory.CreateParams{
		brakePad(),
		{PartNumber: "X-1"},
	})
	require.ErrorIs(t, err, validate.ErrInvalid)
	assert.Contains(t, err.Error(), "row 2")
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)

	result, err := inventory.NewService(repo).ImportBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := inventory.NewMockRepository(ctrl)
	itx := inventory.NewMockImportTx(ctrl)

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateItems(gomock.Any(), gomock.Any()).Return(inventory.ErrDuplicatePartNumber)
	itx.EXPECT().Rollback().Return(nil)

	_, err := inventory.NewService(repo).CreateBatch(context.Background(), []inventory.CreateParams{brakePad()})
	assert.ErrorIs(t, err, inventory.ErrDuplicatePartNumber)
}
