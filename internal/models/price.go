package models

import (
	"time"
)

// OilPrice is a daily snapshot of benchmark prices. Append-only time series,
// one row per price date; change pairs are computed against the previous row.
type OilPrice struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PriceDate time.Time `gorm:"uniqueIndex;not null" json:"priceDate"`

	BrentPrice       float64 `json:"brentPrice"`
	BrentChange      float64 `json:"brentChange"`
	BrentChangePct   float64 `json:"brentChangePct"`
	WTIPrice         float64 `json:"wtiPrice"`
	WTIChange        float64 `json:"wtiChange"`
	WTIChangePct     float64 `json:"wtiChangePct"`
	OPECBasketPrice  float64 `json:"opecBasketPrice"`
	OPECBasketChange float64 `json:"opecBasketChange"`
	OPECBasketChgPct float64 `gorm:"column:opec_basket_chg_pct" json:"opecBasketChgPct"`
	NaturalGasPrice  float64 `json:"naturalGasPrice"`
	NaturalGasChange float64 `json:"naturalGasChange"`
	NaturalGasChgPct float64 `gorm:"column:natural_gas_chg_pct" json:"naturalGasChgPct"`

	Source    string    `gorm:"default:'manual'" json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for OilPrice model
func (OilPrice) TableName() string {
	return "oil_prices"
}
