package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/medtrack/pharmacy-pos/internal/medicine/domain"
	"github.com/medtrack/pharmacy-pos/internal/medicine/usecase/command"
	"github.com/medtrack/pharmacy-pos/internal/medicine/usecase/query"
	"github.com/medtrack/pharmacy-pos/pkg/cache"
	"github.com/medtrack/pharmacy-pos/pkg/logger"
)

const dateLayout = "2006-01-02"

// MedicineHandler handles HTTP requests for the medicine inventory
// using the CQRS pattern
type MedicineHandler struct {
	// Command handlers
	createHandler *command.CreateMedicineHandler
	updateHandler *command.UpdateMedicineHandler
	deleteHandler *command.DeleteMedicineHandler
	priceHandler  *command.UpdateSellingPriceHandler

	// Query handlers
	getHandler       *query.GetMedicineHandler
	listHandler      *query.ListMedicinesHandler
	availableHandler *query.ListAvailableHandler
	expiringHandler  *query.ListExpiringHandler

	repo  domain.MedicineRepository
	cache *cache.Store

	requestCounter *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	totalMedicines prometheus.Gauge
}

// NewMedicineHandler creates a new medicine handler
func NewMedicineHandler(repo domain.MedicineRepository, store *cache.Store) *MedicineHandler {
	requestCounter := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pharmacy_inventory_requests_total",
			Help: "Total number of requests to the inventory endpoints",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestLatency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pharmacy_inventory_request_duration_seconds",
			Help:    "Duration of inventory requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	totalMedicines := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pharmacy_inventory_medicines_total",
			Help: "Total number of medicine records",
		},
	)

	prometheus.MustRegister(requestCounter)
	prometheus.MustRegister(requestLatency)
	prometheus.MustRegister(totalMedicines)

	return &MedicineHandler{
		createHandler:    command.NewCreateMedicineHandler(repo),
		updateHandler:    command.NewUpdateMedicineHandler(repo),
		deleteHandler:    command.NewDeleteMedicineHandler(repo),
		priceHandler:     command.NewUpdateSellingPriceHandler(repo),
		getHandler:       query.NewGetMedicineHandler(repo),
		listHandler:      query.NewListMedicinesHandler(repo),
		availableHandler: query.NewListAvailableHandler(repo),
		expiringHandler:  query.NewListExpiringHandler(repo),
		repo:             repo,
		cache:            store,
		requestCounter:   requestCounter,
		requestLatency:   requestLatency,
		totalMedicines:   totalMedicines,
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

// medicineRequest is the JSON shape shared by create and update
type medicineRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	BrandName     string          `json:"brand_name"`
	Category      string          `json:"category"`
	DosageForm    string          `json:"dosage_form"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Quantity      int             `json:"quantity"`
	BatchNumber   string          `json:"batch_number"`
	PurchaseDate  string          `json:"purchase_date"` // YYYY-MM-DD, optional
	ExpiryDate    string          `json:"expiry_date"`   // YYYY-MM-DD
	SupplierName  string          `json:"supplier_name"`
	StorageInfo   string          `json:"storage_info"`
	Location      string          `json:"location"`
}

func (req *medicineRequest) dates() (*time.Time, time.Time, error) {
	var purchase *time.Time
	if req.PurchaseDate != "" {
		t, err := time.Parse(dateLayout, req.PurchaseDate)
		if err != nil {
			return nil, time.Time{}, err
		}
		purchase = &t
	}

	var expiry time.Time
	if req.ExpiryDate != "" {
		t, err := time.Parse(dateLayout, req.ExpiryDate)
		if err != nil {
			return nil, time.Time{}, err
		}
		expiry = t
	}

	return purchase, expiry, nil
}

// CreateMedicine handles POST /api/medicines
func (h *MedicineHandler) CreateMedicine(w http.ResponseWriter, r *http.Request) {
	var req medicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	purchaseDate, expiryDate, err := req.dates()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	medicine, err := h.createHandler.Handle(command.CreateMedicineCommand{
		Name:          req.Name,
		Description:   req.Description,
		BrandName:     req.BrandName,
		Category:      req.Category,
		DosageForm:    req.DosageForm,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Quantity:      req.Quantity,
		BatchNumber:   req.BatchNumber,
		PurchaseDate:  purchaseDate,
		ExpiryDate:    expiryDate,
		SupplierName:  req.SupplierName,
		StorageInfo:   req.StorageInfo,
		Location:      req.Location,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to create medicine")
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
		return
	}

	h.afterMutation(r)
	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Medicine created successfully",
		Data:    medicine,
	})
}

// GetMedicine handles GET /api/medicines/{id}
func (h *MedicineHandler) GetMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	medicine, err := h.getHandler.Handle(query.GetMedicineQuery{ID: id})
	if err != nil {
		h.respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    medicine,
	})
}

// ListMedicines handles GET /api/medicines
func (h *MedicineHandler) ListMedicines(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	medicines, err := h.listHandler.Handle(query.ListMedicinesQuery{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list medicines")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list medicines",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    medicines,
	})
}

// ListAvailable handles GET /api/medicines/available
func (h *MedicineHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	medicines, err := h.availableHandler.Handle(query.ListAvailableQuery{})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list available medicines")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list available medicines",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    medicines,
	})
}

// ListExpiring handles GET /api/medicines/expiring
func (h *MedicineHandler) ListExpiring(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))

	medicines, err := h.expiringHandler.Handle(query.ListExpiringQuery{WithinDays: days})
	if err != nil {
		logger.Error(r.Context()).Err(err).Msg("Failed to list expiring medicines")
		respondJSON(w, http.StatusInternalServerError, Response{
			Success: false,
			Error:   "Failed to list expiring medicines",
		})
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    medicines,
	})
}

// UpdateMedicine handles PUT /api/medicines/{id}
func (h *MedicineHandler) UpdateMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req medicineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	purchaseDate, expiryDate, err := req.dates()
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid date format, expected YYYY-MM-DD",
		})
		return
	}

	medicine, err := h.updateHandler.Handle(command.UpdateMedicineCommand{
		ID:            id,
		Name:          req.Name,
		Description:   req.Description,
		BrandName:     req.BrandName,
		Category:      req.Category,
		DosageForm:    req.DosageForm,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Quantity:      req.Quantity,
		BatchNumber:   req.BatchNumber,
		PurchaseDate:  purchaseDate,
		ExpiryDate:    expiryDate,
		SupplierName:  req.SupplierName,
		StorageInfo:   req.StorageInfo,
		Location:      req.Location,
	})
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.afterMutation(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Medicine updated successfully",
		Data:    medicine,
	})
}

// UpdateSellingPrice handles PATCH /api/medicines/{id}/price
func (h *MedicineHandler) UpdateSellingPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		SellingPrice decimal.Decimal `json:"selling_price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	if err := h.priceHandler.Handle(command.UpdateSellingPriceCommand{
		ID:    id,
		Price: req.SellingPrice,
	}); err != nil {
		h.respondError(w, err)
		return
	}

	h.afterMutation(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Selling price updated successfully",
	})
}

// DeleteMedicine handles DELETE /api/medicines/{id}
func (h *MedicineHandler) DeleteMedicine(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(command.DeleteMedicineCommand{ID: id}); err != nil {
		h.respondError(w, err)
		return
	}

	h.afterMutation(r)
	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Medicine deleted successfully",
	})
}

// afterMutation refreshes the stock gauge and drops cached reads
func (h *MedicineHandler) afterMutation(r *http.Request) {
	if count, err := h.repo.Count(); err == nil {
		h.totalMedicines.Set(float64(count))
	}
	h.cache.Invalidate(r.Context())
}

func (h *MedicineHandler) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, Response{
			Success:   false,
			Error:     err.Error(),
			ErrorKind: "NotFound",
		})
	case errors.Is(err, domain.ErrMedicineReferenced):
		respondJSON(w, http.StatusConflict, Response{
			Success: false,
			Error:   err.Error(),
		})
	default:
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   err.Error(),
		})
	}
}

// responseWriter captures the status code for metrics
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware wraps handlers with Prometheus metrics
func (h *MedicineHandler) metricsMiddleware(endpoint string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		h.requestCounter.WithLabelValues(r.Method, endpoint, strconv.Itoa(rw.statusCode)).Inc()
		h.requestLatency.WithLabelValues(r.Method, endpoint).Observe(duration)
	}
}

// RegisterRoutes registers all medicine routes
func (h *MedicineHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/medicines",
		h.metricsMiddleware("/api/medicines", h.cache.Middleware(h.ListMedicines))).Methods("GET")
	router.HandleFunc("/api/medicines/available",
		h.metricsMiddleware("/api/medicines/available", h.cache.Middleware(h.ListAvailable))).Methods("GET")
	router.HandleFunc("/api/medicines/expiring",
		h.metricsMiddleware("/api/medicines/expiring", h.ListExpiring)).Methods("GET")
	router.HandleFunc("/api/medicines/{id}",
		h.metricsMiddleware("/api/medicines/{id}", h.GetMedicine)).Methods("GET")

	router.HandleFunc("/api/medicines",
		h.metricsMiddleware("/api/medicines", h.CreateMedicine)).Methods("POST")
	router.HandleFunc("/api/medicines/{id}",
		h.metricsMiddleware("/api/medicines/{id}", h.UpdateMedicine)).Methods("PUT")
	router.HandleFunc("/api/medicines/{id}/price",
		h.metricsMiddleware("/api/medicines/{id}/price", h.UpdateSellingPrice)).Methods("PATCH")
	router.HandleFunc("/api/medicines/{id}",
		h.metricsMiddleware("/api/medicines/{id}", h.DeleteMedicine)).Methods("DELETE")
}

// RegisterHealthCheck registers the health check endpoint
func (h *MedicineHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Pharmacy service is healthy",
		})
	}).Methods("GET")
}

func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	vars := mux.Vars(r)
	id, err := strconv.ParseUint(vars["id"], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid medicine ID",
		})
		return 0, false
	}
	return uint(id), true
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
