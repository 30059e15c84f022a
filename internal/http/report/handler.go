package report

import (
	"archive/zip"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/garage/internal/export"
	"github.com/MrJamesThe3rd/garage/internal/http/web"
	"github.com/MrJamesThe3rd/garage/internal/ledger"
	"github.com/MrJamesThe3rd/garage/internal/report"
)

type Handler struct {
	reports *report.Service
	exports *export.Service
}

func NewHandler(reports *report.Service, exports *export.Service) *Handler {
	return &Handler{reports: reports, exports: exports}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/dashboard", h.dashboard)
	r.Post("/export", h.download)
	r.Post("/export/summary", h.summary)
}

type lowStockResponse struct {
	ID            int64  `json:"id"`
	PartNumber    string `json:"part_number"`
	Name          string `json:"name"`
	StockQuantity int    `json:"stock_quantity"`
	MinStockLevel int    `json:"min_stock_level"`
}

type dashboardResponse struct {
	TotalItems      int                `json:"total_items"`
	LowStockItems   []lowStockResponse `json:"low_stock_items"`
	TodaySales      decimal.Decimal    `json:"today_sales"`
	TodayPurchases  decimal.Decimal    `json:"today_purchases"`
	OutstandingDebt decimal.Decimal    `json:"outstanding_debt"`
	OverdueDebts    int                `json:"overdue_debts"`
	TotalCustomers  int                `json:"total_customers"`
}

type exportRequest struct {
	StartDate *web.Date `json:"start_date,omitempty"`
	EndDate   *web.Date `json:"end_date,omitempty"`
	Reports   []string  `json:"reports,omitempty"`
}

type fileResponse struct {
	Name  string          `json:"name"`
	Rows  int             `json:"rows"`
	Total decimal.Decimal `json:"total"`
}

type exportSummaryResponse struct {
	Files   []fileResponse `json:"files"`
	Summary string         `json:"summary"`
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := h.reports.Dashboard(r.Context())
	if err != nil {
		web.Error(w, r, err)
		return
	}

	resp := dashboardResponse{
		TotalItems:      d.TotalItems,
		LowStockItems:   make([]lowStockResponse, len(d.LowStockItems)),
		TodaySales:      d.TodaySales,
		TodayPurchases:  d.TodayPurchases,
		OutstandingDebt: d.OutstandingDebt,
		OverdueDebts:    d.OverdueDebts,
		TotalCustomers:  d.TotalCustomers,
	}

	for i, it := range d.LowStockItems {
		resp.LowStockItems[i] = lowStockResponse{
			ID:            it.ID,
			PartNumber:    it.PartNumber,
			Name:          it.Name,
			StockQuantity: it.StockQuantity,
			MinStockLevel: it.MinStockLevel,
		}
	}

	web.JSON(w, http.StatusOK, resp)
}

// exportTo decodes the date range and report selection and writes the reports
// into a fresh temp directory. The caller removes the directory.
func (h *Handler) exportTo(w http.ResponseWriter, r *http.Request) (string, []export.File, bool) {
	var req exportRequest
	if r.ContentLength != 0 && !web.Decode(w, r, &req) {
		return "", nil, false
	}

	filter := ledger.ListFilter{
		StartDate: web.DatePtr(req.StartDate),
		EndDate:   web.DatePtr(req.EndDate),
	}

	reports, err := export.ParseReports(req.Reports)
	if err != nil {
		web.Error(w, r, err)
		return "", nil, false
	}

	tmpDir, err := os.MkdirTemp("", "garage-export-*")
	if err != nil {
		web.Error(w, r, fmt.Errorf("create temp dir: %w", err))
		return "", nil, false
	}

	files, err := h.exports.ExportReports(r.Context(), filter, tmpDir, reports...)
	if err != nil {
		os.RemoveAll(tmpDir)
		web.Error(w, r, err)

		return "", nil, false
	}

	return tmpDir, files, true
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	tmpDir, files, ok := h.exportTo(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	resp := exportSummaryResponse{
		Files:   make([]fileResponse, 0, len(files)),
		Summary: h.exports.GenerateSummary(files),
	}

	for _, f := range files {
		resp.Files = append(resp.Files, fileResponse{Name: f.Name, Rows: f.Rows, Total: f.Total})
	}

	web.JSON(w, http.StatusOK, resp)
}

func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	tmpDir, files, ok := h.exportTo(w, r)
	if !ok {
		return
	}
	defer os.RemoveAll(tmpDir)

	summary := h.exports.GenerateSummary(files)
	if err := os.WriteFile(filepath.Join(tmpDir, "summary.txt"), []byte(summary), 0o644); err != nil {
		web.Error(w, r, fmt.Errorf("write summary: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=\"garage_export_%s.zip\"", time.Now().Format("20060102")))

	zipWriter := zip.NewWriter(w)
	defer zipWriter.Close()

	err := filepath.Walk(tmpDir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}

		relPath, _ := filepath.Rel(tmpDir, path)

		zf, err := zipWriter.Create(relPath)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(zf, f)

		return err
	})
	if err != nil {
		slog.Error("failed to create zip", "error", err)
	}
}
