package analytics

import (
	"time"

	"gorm.io/gorm"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// FunnelStage is one stage of the inquiry pipeline with its share of the total
type FunnelStage struct {
	Status  models.InquiryStatus `json:"status"`
	Count   int64                `json:"count"`
	Percent float64              `json:"percent"`
}

// ProductStat is the inquiry count for one product type
type ProductStat struct {
	ProductType models.ProductType `json:"productType"`
	Count       int64              `json:"count"`
}

// TrendPoint is the inquiry count for one calendar day
type TrendPoint struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// Service computes dashboard aggregates over inquiries
type Service struct {
	db *gorm.DB
}

// NewService creates an analytics service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// BuildFunnel turns per-status counts into ordered funnel stages with
// percentages of the total. An empty dataset yields all-zero stages.
func BuildFunnel(counts map[models.InquiryStatus]int64) []FunnelStage {
	var total int64
	for _, status := range models.InquiryStatuses {
		total += counts[status]
	}

	stages := make([]FunnelStage, 0, len(models.InquiryStatuses))
	for _, status := range models.InquiryStatuses {
		stage := FunnelStage{Status: status, Count: counts[status]}
		if total > 0 {
			stage.Percent = roundPct(float64(counts[status]) / float64(total) * 100)
		}
		stages = append(stages, stage)
	}
	return stages
}

// roundPct rounds to one decimal place
func roundPct(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}

// Funnel returns the live pipeline funnel
func (s *Service) Funnel() ([]FunnelStage, error) {
	type row struct {
		Status models.InquiryStatus
		Count  int64
	}
	var rows []row
	if err := s.db.Model(&models.Inquiry{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.InquiryStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return BuildFunnel(counts), nil
}

// Products returns inquiry counts grouped by product type
func (s *Service) Products() ([]ProductStat, error) {
	var stats []ProductStat
	if err := s.db.Model(&models.Inquiry{}).
		Select("product_type, count(*) as count").
		Group("product_type").
		Order("count DESC").
		Scan(&stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

// Trend returns daily inquiry counts over the trailing N days
func (s *Service) Trend(days int) ([]TrendPoint, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().UTC().AddDate(0, 0, -days)

	var points []TrendPoint
	if err := s.db.Model(&models.Inquiry{}).
		Select("to_char(created_at, 'YYYY-MM-DD') as date, count(*) as count").
		Where("created_at >= ?", since).
		Group("date").
		Order("date").
		Scan(&points).Error; err != nil {
		return nil, err
	}
	return points, nil
}
