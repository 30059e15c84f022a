package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/garage/internal/importer"
)

const priceList = "Referência;Designação;Preço\nBP-1;Pastilhas;10,00\nOF-2;Filtro óleo;4,50\n"

func TestService_Import_StampsSupplier(t *testing.T) {
	supplierID := int64(7)

	params, err := importer.NewService().Import(importer.FormatCatalog, &supplierID, strings.NewReader(priceList))
	require.NoError(t, err)
	require.Len(t, params, 2)

	for _, p := range params {
		require.NotNil(t, p.SupplierID)
		assert.Equal(t, supplierID, *p.SupplierID)
	}
}

func TestService_Import_DefaultFormat(t *testing.T) {
	params, err := importer.NewService().Import("", nil, strings.NewReader(priceList))
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Nil(t, params[0].SupplierID)
}

func TestService_Import_UnknownFormat(t *testing.T) {
	_, err := importer.NewService().Import("xlsx", nil, strings.NewReader(priceList))
	assert.ErrorContains(t, err, "unknown format")
}
