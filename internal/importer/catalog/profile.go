package catalog

// priceMode determines how the unit price is extracted from a row.
type priceMode int

const (
	// priceNet means one column already holds the cost price (e.g. "Preço" with "12,50").
	priceNet priceMode = iota
	// priceDiscounted means a list price plus a discount percentage (e.g. "PVP"/"Desconto").
	priceDiscounted
)

// Profile describes the column layout of a supplier price list.
// Optional columns are left empty when a layout does not carry them.
type Profile struct {
	Name        string
	PartCol     string
	NameCol     string
	PriceMode   priceMode
	PriceCol    string // net price, or list price when PriceMode == priceDiscounted
	DiscountCol string // used when PriceMode == priceDiscounted
	DescCol     string
	CategoryCol string
	StockCol    string
	MinStockCol string
	LocationCol string
}

// requiredCols returns the column names that must be present for this profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.PartCol, p.NameCol, p.PriceCol}

	if p.PriceMode == priceDiscounted {
		cols = append(cols, p.DiscountCol)
	}

	return cols
}

// profiles is the ordered list of price-list layouts tried during auto-detection.
// More specific profiles come first.
var profiles = []Profile{
	{
		Name:        "tabela-pvp",
		PartCol:     "Referência",
		NameCol:     "Designação",
		PriceMode:   priceDiscounted,
		PriceCol:    "PVP",
		DiscountCol: "Desconto",
		CategoryCol: "Família",
		StockCol:    "Quantidade",
	},
	{
		Name:        "tabela",
		PartCol:     "Referência",
		NameCol:     "Designação",
		PriceMode:   priceNet,
		PriceCol:    "Preço",
		DescCol:     "Observações",
		CategoryCol: "Família",
		StockCol:    "Quantidade",
		MinStockCol: "Stock mínimo",
		LocationCol: "Localização",
	},
	{
		Name:        "price-list",
		PartCol:     "Part Number",
		NameCol:     "Name",
		PriceMode:   priceNet,
		PriceCol:    "Unit Price",
		DescCol:     "Description",
		CategoryCol: "Category",
		StockCol:    "Quantity",
		MinStockCol: "Min Stock",
		LocationCol: "Location",
	},
}
