package importer

import (
	"io"

	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

type Format string

const (
	FormatCatalog Format = "catalog"
)

type Importer interface {
	Parse(r io.Reader) ([]inventory.CreateParams, error)
}
