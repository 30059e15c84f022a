package importcsv

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/http/web"
	"github.com/MrJamesThe3rd/garage/internal/importer"
	"github.com/MrJamesThe3rd/garage/internal/inventory"
)

const maxUploadSize = 10 << 20

type Handler struct {
	importSvc *importer.Service
	itemSvc   *inventory.Service
}

func NewHandler(importSvc *importer.Service, itemSvc *inventory.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		itemSvc:   itemSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type itemResponse struct {
	ID            int64           `json:"id"`
	PartNumber    string          `json:"part_number"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	CreatedAt     time.Time       `json:"created_at"`
}

type importSuccessResponse struct {
	Imported int            `json:"imported"`
	Items    []itemResponse `json:"items"`
}

type createParamsDTO struct {
	PartNumber    string          `json:"part_number"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StockQuantity int             `json:"stock_quantity"`
	MinStockLevel int             `json:"min_stock_level"`
	Location      string          `json:"location,omitempty"`
	SupplierID    *int64          `json:"supplier_id,omitempty"`
}

type conflictDTO struct {
	Incoming createParamsDTO `json:"incoming"`
	Existing *itemResponse   `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	var supplierID *int64

	if s := r.FormValue("supplier_id"); s != "" {
		id, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			http.Error(w, "invalid supplier_id", http.StatusBadRequest)
			return
		}

		supplierID = &id
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Format(r.FormValue("format")), supplierID, file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.itemSvc.ImportBatch(r.Context(), params)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			dto := conflictDTO{Incoming: toParamsDTO(c.Incoming)}
			if c.Existing != nil {
				dto.Existing = new(toItemResponse(c.Existing))
			}

			resp.Conflicts = append(resp.Conflicts, dto)
		}

		web.JSON(w, http.StatusConflict, resp)

		return
	}

	web.JSON(w, http.StatusCreated, toSuccessResponse(result.Imported))
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !web.Decode(w, r, &req) {
		return
	}

	params := make([]inventory.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, inventory.CreateParams{
			PartNumber:    p.PartNumber,
			Name:          p.Name,
			Description:   p.Description,
			Category:      p.Category,
			UnitPrice:     p.UnitPrice,
			StockQuantity: p.StockQuantity,
			MinStockLevel: p.MinStockLevel,
			Location:      p.Location,
			SupplierID:    p.SupplierID,
		})
	}

	items, err := h.itemSvc.CreateBatch(r.Context(), params)
	if err != nil {
		web.Error(w, r, err)
		return
	}

	web.JSON(w, http.StatusCreated, toSuccessResponse(items))
}

func toSuccessResponse(items []*inventory.Item) importSuccessResponse {
	responses := make([]itemResponse, 0, len(items))
	for _, it := range items {
		responses = append(responses, toItemResponse(it))
	}

	return importSuccessResponse{
		Imported: len(items),
		Items:    responses,
	}
}

func toItemResponse(it *inventory.Item) itemResponse {
	return itemResponse{
		ID:            it.ID,
		PartNumber:    it.PartNumber,
		Name:          it.Name,
		Category:      it.Category,
		UnitPrice:     it.UnitPrice,
		StockQuantity: it.StockQuantity,
		CreatedAt:     it.CreatedAt,
	}
}

func toParamsDTO(p inventory.CreateParams) createParamsDTO {
	return createParamsDTO{
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
