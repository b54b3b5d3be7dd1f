package store

import (
	"fmt"

	"gorm.io/gorm/clause"

	"invoicedesk/internal/models"
)

// GetSetting returns the stored value for key, or "" when unset.
func (s *Store) GetSetting(key string) (string, error) {
	var rows []models.Setting
	if err := s.DB.Where("key = ?", key).Limit(1).Find(&rows).Error; err != nil {
		return "", fmt.Errorf("get setting %s: %w", key, err)
	}
	if len(rows) == 0 {
		return "", nil
	}
	return rows[0].Value, nil
}

// SetSetting inserts or replaces a key/value pair.
func (s *Store) SetSetting(key, value string) error {
	row := models.Setting{Key: key, Value: value}
	err := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("set setting %s: %w", key, err)
	}
	return nil
}
