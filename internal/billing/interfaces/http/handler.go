package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"illuminator-billing/internal/billing/application"
	"illuminator-billing/internal/billing/infrastructure/report"
	"illuminator-billing/internal/billing/interfaces"
	"illuminator-billing/internal/observability/metrics"
)

const maxUploadBytes = 32 << 20

// BillingHandler accepts Illuminator Central exports and returns
// billing summaries or the mapping-gap list.
type BillingHandler struct {
	service *application.Service
	logger  *log.Logger
}

// NewBillingHandler constructs the handler.
func NewBillingHandler(service *application.Service, logger *log.Logger) (*BillingHandler, error) {
	if service == nil {
		return nil, errors.New("billing handler: nil service")
	}
	if logger == nil {
		return nil, errors.New("billing handler: nil logger")
	}
	return &BillingHandler{service: service, logger: logger}, nil
}

// Register mounts the billing routes.
func (h *BillingHandler) Register(router *mux.Router) {
	router.HandleFunc("/api/v1/billing/reports", h.handleProcess).Methods(http.MethodPost)
}

// handleProcess handles POST /api/v1/billing/reports. The export comes
// as multipart field "file"; optional query params: "rate" overrides
// every rate for this run, "format" selects json (default), csv, xlsx
// or pdf output.
func (h *BillingHandler) handleProcess(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart request", http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	var rateOverride *float64
	if raw := r.URL.Query().Get("rate"); raw != "" {
		rate, err := strconv.ParseFloat(raw, 64)
		if err != nil || rate < 0 {
			http.Error(w, "rate must be a non-negative number", http.StatusBadRequest)
			return
		}
		rateOverride = &rate
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	if format == "" {
		format = "json"
	}

	var result *application.Result
	if strings.EqualFold(filepath.Ext(header.Filename), ".xlsx") {
		result, err = h.service.ProcessXLSX(r.Context(), file, rateOverride)
	} else {
		result, err = h.service.ProcessCSV(r.Context(), file, rateOverride)
	}
	if err != nil {
		h.writeProcessError(w, err)
		return
	}

	if len(result.Gaps) > 0 {
		// Soft-fatal: billing refused until the mapping is repaired.
		writeJSON(w, http.StatusUnprocessableEntity, result)
		return
	}

	switch format {
	case "json":
		writeJSON(w, http.StatusOK, result)
	case "csv", "xlsx", "pdf":
		h.writeExport(w, format, result)
	default:
		http.Error(w, "format must be json, csv, xlsx or pdf", http.StatusBadRequest)
	}
}

func (h *BillingHandler) writeExport(w http.ResponseWriter, format string, result *application.Result) {
	start := time.Now()

	var (
		data        []byte
		contentType string
		err         error
	)
	switch format {
	case "csv":
		data, err = interfaces.BuildSummariesCSV(result.Summaries)
		contentType = "text/csv; charset=utf-8"
	case "xlsx":
		data, err = interfaces.BuildSummariesXLSX(result.Summaries)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "pdf":
		data, err = interfaces.BuildSummariesPDF(result.Summaries)
		contentType = "application/pdf"
	}
	if err != nil {
		metrics.ObserveExport(format, metrics.ResultError, time.Since(start))
		h.logger.Printf("export %s error: %v", format, err)
		http.Error(w, "export rendering error", http.StatusInternalServerError)
		return
	}
	metrics.ObserveExport(format, metrics.ResultSuccess, time.Since(start))

	filename := fmt.Sprintf("billing_import_%s.%s", time.Now().Format("20060102_150405"), format)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

// writeProcessError maps engine failures onto HTTP statuses: anything
// wrong with the uploaded data or its format is the client's problem.
func (h *BillingHandler) writeProcessError(w http.ResponseWriter, err error) {
	var schemaErr *report.SchemaError
	var formatErr *report.FormatError
	switch {
	case errors.As(err, &schemaErr),
		errors.As(err, &formatErr),
		errors.Is(err, report.ErrEmptyReport),
		errors.Is(err, report.ErrNoUsableRows),
		errors.Is(err, report.ErrSessionOrder):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		h.logger.Printf("billing process error: %v", err)
		http.Error(w, "processing error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
