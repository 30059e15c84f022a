package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/garage/internal/importer/catalog"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

type Service struct {
	catalogImporter Importer
}

func NewService() *Service {
	return &Service{
		catalogImporter: catalog.NewParser(),
	}
}

// Import parses r in the given format. A non-nil supplierID is stamped on
// every row so imported items are linked to the supplier whose list it is.
func (s *Service) Import(format Format, supplierID *int64, r io.Reader) ([]inventory.CreateParams, error) {
	var importer Importer

	switch format {
	case FormatCatalog, "":
		importer = s.catalogImporter
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, err
	}

	if supplierID != nil {
		for i := range params {
			id := *supplierID
			params[i].SupplierID = &id
		}
	}

	return params, nil
}
