package importcsv_test

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/garage/internal/http/importcsv"
	"github.com/MrJamesThe3rd/garage/internal/importer"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

const priceList = "Referência;Designação;Preço;Quantidade\nBP-1;Pastilhas travão;24,90;4\nOF-2;Filtro óleo;4,50;10\n"

func newRouter(t *testing.T) (http.Handler, *inventory.MockRepository, *inventory.MockImportTx) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := inventory.NewMockRepository(ctrl)
	itx := inventory.NewMockImportTx(ctrl)

	h := importcsv.NewHandler(importer.NewService(), inventory.NewService(repo))

	r := chi.NewRouter()
	r.Route("/items/import", h.Routes)

	return r, repo, itx
}

func uploadRequest(t *testing.T, fields map[string]string, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if content != "" {
		fw, err := mw.CreateFormFile("file", "tabela.csv")
		require.NoError(t, err)

		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/items/import/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return req
}

func TestHandler_Import(t *testing.T) {
	t.Run("AllNew", func(t *testing.T) {
		router, repo, itx := newRouter(t)

		repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
		itx.EXPECT().FindExisting(gomock.Any(), []string{"BP-1", "OF-2"}).Return(nil, nil)
		itx.EXPECT().
			CreateItems(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, items []*inventory.Item) error {
				for i, it := range items {
					require.NotNil(t, it.SupplierID)
					assert.Equal(t, int64(3), *it.SupplierID)
					it.ID = int64(i + 1)
				}
				return nil
			})
		itx.EXPECT().Commit().Return(nil)
		itx.EXPECT().Rollback().Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, map[string]string{"supplier_id": "3"}, priceList))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), `"imported":2`)
	})

	t.Run("Conflicts", func(t *testing.T) {
		router, repo, itx := newRouter(t)

		repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
		itx.EXPECT().
			FindExisting(gomock.Any(), []string{"BP-1", "OF-2"}).
			Return([]*inventory.Item{{ID: 9, PartNumber: "BP-1", Name: "Pastilhas"}}, nil)
		itx.EXPECT().Rollback().Return(nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, nil, priceList))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), `"existing":{"id":9`)
		assert.Contains(t, rec.Body.String(), `"new":[{"part_number":"OF-2"`)
	})

	t.Run("MissingFile", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, nil, ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("UnrecognisedLayout", func(t *testing.T) {
		router, _, _ := newRouter(t)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, uploadRequest(t, nil, "a;b;c\n1;2;3\n"))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "no matching price list layout")
	})
}

func TestHandler_Confirm(t *testing.T) {
	router, repo, itx := newRouter(t)

	repo.EXPECT().BeginImport(gomock.Any()).Return(itx, nil)
	itx.EXPECT().CreateItems(gomock.Any(), gomock.Len(1)).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	rec := httptest.NewRecorder()
	body := `{"params":[{"part_number":"OF-2","name":"Filtro óleo","unit_price":"4.50","stock_quantity":10}]}`
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/items/import/confirm", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"imported":1`)
}
