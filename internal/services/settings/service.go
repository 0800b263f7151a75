package settings

import (
	"encoding/json"
	"sort"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/meridianpetro/meridian-backend/internal/models"
)

// categoryPrefixes maps key prefixes to coarse setting categories. First
// match wins; keys with no matching prefix fall into "general".
var categoryPrefixes = []struct {
	prefix   string
	category string
}{
	{"company_", "contact"},
	{"head_office_", "contact"},
	{"commercial_office_", "contact"},
	{"social_", "social"},
	{"compliance_", "compliance"},
	{"seo_", "seo"},
	{"news_", "news"},
	{"notification_", "notifications"},
}

// publicKeys is the fixed allow-list of keys exposed to the marketing site.
// Everything else is admin-only regardless of category.
var publicKeys = map[string]bool{
	"company_name":              true,
	"company_tagline":           true,
	"company_email":             true,
	"company_phone":             true,
	"head_office_address":       true,
	"commercial_office_address": true,
	"social_linkedin":           true,
	"social_twitter":            true,
	"social_facebook":           true,
	"compliance_visibility":     true,
	"compliance_certifications": true,
}

// CategoryForKey derives a coarse category from the key prefix
func CategoryForKey(key string) string {
	for _, p := range categoryPrefixes {
		if strings.HasPrefix(key, p.prefix) {
			return p.category
		}
	}
	return "general"
}

// IsPublicKey reports whether a key is on the public allow-list
func IsPublicKey(key string) bool {
	return publicKeys[key]
}

// Service manages the site_settings key/value store
type Service struct {
	db *gorm.DB
}

// NewService creates a settings service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// LoadAll returns every setting row
func (s *Service) LoadAll() ([]models.SiteSetting, error) {
	var rows []models.SiteSetting
	if err := s.db.Order("key").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LoadFlat returns every setting as a flat string map
func (s *Service) LoadFlat() (map[string]string, error) {
	rows, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	return Flatten(rows), nil
}

// LoadPublic returns only allow-listed settings as a flat string map
func (s *Service) LoadPublic() (map[string]string, error) {
	var rows []models.SiteSetting
	if err := s.db.Where("is_public = ?", true).Find(&rows).Error; err != nil {
		return nil, err
	}
	return Flatten(rows), nil
}

// Flatten reduces setting rows to a flat string-keyed map, coercing JSON
// values to strings
func Flatten(rows []models.SiteSetting) map[string]string {
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = decodeValue(row.Value)
	}
	return out
}

func decodeValue(raw datatypes.JSON) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// Save diffs the incoming values against the current database state and
// upserts only the keys whose value changed. A no-op save performs zero
// writes. Returns the changed keys, sorted.
func (s *Service) Save(values map[string]string, updatedBy string) ([]string, error) {
	current, err := s.LoadAll()
	if err != nil {
		return nil, err
	}
	snapshot := Flatten(current)

	var changed []string
	for key, value := range values {
		if prev, ok := snapshot[key]; ok && prev == value {
			continue
		}
		changed = append(changed, key)
	}
	sort.Strings(changed)

	if len(changed) == 0 {
		return nil, nil
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		for _, key := range changed {
			encoded, err := json.Marshal(values[key])
			if err != nil {
				return err
			}
			row := models.SiteSetting{
				Key:       key,
				Value:     datatypes.JSON(encoded),
				Category:  CategoryForKey(key),
				IsPublic:  IsPublicKey(key),
				UpdatedBy: updatedBy,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"value", "category", "is_public", "updated_by", "updated_at",
				}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return changed, nil
}
