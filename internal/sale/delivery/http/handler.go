package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/medtrack/pharmacy-pos/internal/sale/domain"
	"github.com/medtrack/pharmacy-pos/internal/sale/usecase/command"
	"github.com/medtrack/pharmacy-pos/internal/sale/usecase/query"
	"github.com/medtrack/pharmacy-pos/kafka"
	"github.com/medtrack/pharmacy-pos/pkg/cache"
	"github.com/medtrack/pharmacy-pos/pkg/logger"
)

// EventPublisher publishes sale events after commit. A nil publisher
// disables event publication.
type EventPublisher interface {
	PublishSaleCompleted(ctx context.Context, event kafka.SaleCompletedEvent) error
}

// SaleHandler handles HTTP requests for the point of sale using the
// CQRS pattern
type SaleHandler struct {
	// Command handlers
	processHandler *command.ProcessSaleHandler

	// Query handlers
	getHandler    *query.GetSaleHandler
	listHandler   *query.ListSalesHandler
	reportHandler *query.RevenueReportHandler

	publisher      EventPublisher
	inventoryCache *cache.Store

	salesProcessed *prometheus.CounterVec
	saleLatency    *prometheus.HistogramVec
	revenueTotal   prometheus.Counter
}

// NewSaleHandler creates a new sale handler
func NewSaleHandler(repo domain.SaleRepository, publisher EventPublisher, inventoryCache *cache.Store) *SaleHandler {
	salesProcessed := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmacy_sales_processed_total",
			Help: "Total number of processed sale attempts by result",
		},
		[]string{"result"},
	)

	saleLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmacy_sale_duration_seconds",
			Help:    "Duration of sale transaction processing in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"result"},
	)

	revenueTotal := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pharmacy_sales_revenue_total",
			Help: "Cumulative revenue from committed sales",
		},
	)

	prometheus.MustRegister(salesProcessed)
	prometheus.MustRegister(saleLatency)
	prometheus.MustRegister(revenueTotal)

	return &SaleHandler{
		processHandler: command.NewProcessSaleHandler(repo),
		getHandler:     query.NewGetSaleHandler(repo),
		listHandler:    query.NewListSalesHandler(repo),
		reportHandler:  query.NewRevenueReportHandler(repo),
		publisher:      publisher,
		inventoryCache: inventoryCache,
		salesProcessed: salesProcessed,
		saleLatency:    saleLatency,
		revenueTotal:   revenueTotal,
	}
}

// Response is the JSON envelope for every endpoint
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorKind string      `json:"error_kind,omitempty"`
}

// saleResult is the success payload for a committed sale
type saleResult struct {
	SaleID        uint   `json:"sale_id"`
	ReceiptNumber string `json:"receipt_number"`
	TotalAmount   string `json:"total_amount"`
}

// ProcessSale handles POST /api/pos/sale
func (h *SaleHandler) ProcessSale(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	var req struct {
		Cart []domain.CartLine `json:"cart"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		// A fractional quantity never reaches the command layer;
		// report it as the same error kind a negative one gets.
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && strings.HasSuffix(typeErr.Field, "quantity") {
			h.recordSale("rejected", start)
			respondJSON(w, http.StatusBadRequest, Response{
				Success:   false,
				Error:     "quantity must be a whole number",
				ErrorKind: domain.KindInvalidQuantity,
			})
			return
		}
		h.recordSale("rejected", start)
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	sale, err := h.processHandler.Handle(ctx, command.ProcessSaleCommand{Cart: req.Cart})
	if err != nil {
		h.respondSaleError(w, r, err, start)
		return
	}

	h.recordSale("committed", start)
	h.revenueTotal.Add(sale.TotalAmount.InexactFloat64())
	h.inventoryCache.Invalidate(ctx)

	logger.Info(ctx).
		Uint("sale_id", sale.ID).
		Str("receipt", sale.ReceiptNumber).
		Str("total", sale.TotalAmount.String()).
		Int("lines", len(sale.Items)).
		Msg("Sale committed")

	h.publishSaleCompleted(ctx, sale)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Sale completed successfully",
		Data: saleResult{
			SaleID:        sale.ID,
			ReceiptNumber: sale.ReceiptNumber,
			TotalAmount:   sale.TotalAmount.StringFixed(2),
		},
	})
}

// GetSale handles GET /api/sales/{id}
func (h *SaleHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid sale ID",
		})
		return
	}

	sale, err := h.getHandler.Handle(query.GetSaleQuery{ID: uint(id)})
	if err != nil {
		if errors.Is(err, domain.ErrSaleNotFound) {
			respondJSON(w, http.StatusNotFound, Response{
				Success:   false,
				Error:     err.Error(),
				ErrorKind: domain.KindNotFound,
			})
			return
		}
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sale,
	})
}

// ListSales handles GET /api/sales
func (h *SaleHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	sales, err := h.listHandler.Handle(query.ListSalesQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list sales")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list sales",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    sales,
	})
}

// RevenueReport handles GET /api/sales/report
func (h *SaleHandler) RevenueReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportHandler.Handle(query.RevenueReportQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to build revenue report")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to build revenue report",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    report,
	})
}

func (h *SaleHandler) respondSaleError(w http.ResponseWriter, r *http.Request, err error, start time.Time) {
	kind, ok := domain.Kind(err)
	if !ok {
		h.recordSale("error", start)
		logger.Error(r.Context()).Err(err).Msg("Sale processing failed")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to process sale",
		})
		return
	}

	h.recordSale("rejected", start)

	status := http.StatusBadRequest
	switch kind {
	case domain.KindNotFound:
		status = http.StatusNotFound
	case domain.KindInsufficientStock:
		status = http.StatusConflict
	}

	logger.Warn(r.Context()).
		Str("error_kind", kind).
		Str("detail", err.Error()).
		Msg("Sale rejected")

	respondJSON(w, status, Response{
		Success:   false,
		Error:     err.Error(),
		ErrorKind: kind,
	})
}

func (h *SaleHandler) recordSale(result string, start time.Time) {
	h.salesProcessed.WithLabelValues(result).Inc()
	h.saleLatency.WithLabelValues(result).Observe(time.Since(start).Seconds())
}

// publishSaleCompleted emits the sale event, best-effort
func (h *SaleHandler) publishSaleCompleted(ctx context.Context, sale *domain.Sale) {
	if h.publisher == nil {
		return
	}

	lines := make([]kafka.SaleLineEvent, len(sale.Items))
	for i, item := range sale.Items {
		lines[i] = kafka.SaleLineEvent{
			MedicineID:  item.MedicineID,
			Quantity:    item.Quantity,
			PriceAtSale: item.PriceAtSale.StringFixed(2),
		}
	}

	event := kafka.SaleCompletedEvent{
		SaleID:        sale.ID,
		ReceiptNumber: sale.ReceiptNumber,
		TotalAmount:   sale.TotalAmount.StringFixed(2),
		Lines:         lines,
	}

	if err := h.publisher.PublishSaleCompleted(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Uint("sale_id", sale.ID).
			Msg("Failed to publish sale completed event")
	}
}

// RegisterRoutes registers all sale routes
func (h *SaleHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/pos/sale", h.ProcessSale).Methods("POST")
	router.HandleFunc("/api/sales", h.ListSales).Methods("GET")
	router.HandleFunc("/api/sales/report", h.RevenueReport).Methods("GET")
	router.HandleFunc("/api/sales/{id}", h.GetSale).Methods("GET")
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
