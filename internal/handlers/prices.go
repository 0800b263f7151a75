package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm/clause"

	"github.com/meridianpetro/meridian-backend/internal/models"
	"github.com/meridianpetro/meridian-backend/internal/scheduler"
	"github.com/meridianpetro/meridian-backend/internal/validator"
)

// PriceRequest is the manual price entry payload. Change pairs are derived
// from the previous day's row, never accepted from the client.
type PriceRequest struct {
	PriceDate       string  `json:"priceDate" validate:"required,datetime=2006-01-02"`
	BrentPrice      float64 `json:"brentPrice" validate:"required,gt=0"`
	WTIPrice        float64 `json:"wtiPrice" validate:"required,gt=0"`
	OPECBasketPrice float64 `json:"opecBasketPrice" validate:"omitempty,gt=0"`
	NaturalGasPrice float64 `json:"naturalGasPrice" validate:"omitempty,gt=0"`
}

// listPrices returns the price history, newest first
func (r *Router) listPrices(w http.ResponseWriter, req *http.Request) {
	page, pageSize := parsePagination(req)
	q := req.URL.Query()

	query := r.db.Model(&models.OilPrice{})
	if from := q.Get("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("price_date >= ?", t)
		}
	}
	if to := q.Get("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("price_date <= ?", t)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch prices")
		return
	}

	var items []models.OilPrice
	if err := query.Order("price_date DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch prices")
		return
	}

	respondJSON(w, http.StatusOK, Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages(total, pageSize),
	})
}

// latestPrice returns the most recent snapshot, also served on the public API
func (r *Router) latestPrice(w http.ResponseWriter, req *http.Request) {
	var price models.OilPrice
	if err := r.db.Order("price_date DESC").First(&price).Error; err != nil {
		respondError(w, http.StatusNotFound, "No price data available")
		return
	}
	respondJSON(w, http.StatusOK, price)
}

// createPrice records a manual snapshot, upserting on the price date
func (r *Router) createPrice(w http.ResponseWriter, req *http.Request) {
	var body PriceRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validator.Validate(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	date, _ := time.Parse("2006-01-02", body.PriceDate)

	var prev models.OilPrice
	hasPrev := r.db.Where("price_date < ?", date).
		Order("price_date DESC").First(&prev).Error == nil

	price := models.OilPrice{
		PriceDate:       date,
		BrentPrice:      body.BrentPrice,
		WTIPrice:        body.WTIPrice,
		OPECBasketPrice: body.OPECBasketPrice,
		NaturalGasPrice: body.NaturalGasPrice,
		Source:          "manual",
	}
	if hasPrev {
		price.BrentChange, price.BrentChangePct = scheduler.PriceChange(prev.BrentPrice, body.BrentPrice)
		price.WTIChange, price.WTIChangePct = scheduler.PriceChange(prev.WTIPrice, body.WTIPrice)
		price.OPECBasketChange, price.OPECBasketChgPct = scheduler.PriceChange(prev.OPECBasketPrice, body.OPECBasketPrice)
		price.NaturalGasChange, price.NaturalGasChgPct = scheduler.PriceChange(prev.NaturalGasPrice, body.NaturalGasPrice)
	}

	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "price_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"brent_price", "brent_change", "brent_change_pct",
			"wti_price", "wti_change", "wti_change_pct",
			"opec_basket_price", "opec_basket_change", "opec_basket_chg_pct",
			"natural_gas_price", "natural_gas_change", "natural_gas_chg_pct",
			"source", "updated_at",
		}),
	}).Create(&price).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to store price")
		return
	}

	r.audit(req, models.AuditCreate, "oil_price", body.PriceDate, "", "")
	respondJSON(w, http.StatusCreated, price)
}
