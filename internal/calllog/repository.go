package calllog

import (
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	CreateCallLog(db *gorm.DB, c *CallLog) error
	ListCallLogs(db *gorm.DB, leadID uint, page int) ([]CallLog, error)
	CountCallLogs(db *gorm.DB, leadID uint) (int64, error)

	CreateCallLaterLog(db *gorm.DB, c *CallLaterLog) error
	ListCallLaterLogs(db *gorm.DB, leadID uint, page int) ([]CallLaterLog, error)
	CountCallLaterLogs(db *gorm.DB, leadID uint) (int64, error)

	// LatestCallLaterLog returns the most recent row, or nil when none exist.
	LatestCallLaterLog(db *gorm.DB, leadID uint) (*CallLaterLog, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CreateCallLog(db *gorm.DB, c *CallLog) error {
	return db.Create(c).Error
}

// Listing is newest-first. The id tiebreak keeps pages stable when two rows
// share a creation timestamp.
func (r *repositoryImpl) ListCallLogs(db *gorm.DB, leadID uint, page int) ([]CallLog, error) {
	var logs []CallLog
	err := db.
		Where("lead_id = ?", leadID).
		Order("created_at DESC, id DESC").
		Limit(PageSize).
		Offset(Offset(page)).
		Find(&logs).Error
	return logs, err
}

func (r *repositoryImpl) CountCallLogs(db *gorm.DB, leadID uint) (int64, error) {
	var count int64
	err := db.Model(&CallLog{}).Where("lead_id = ?", leadID).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) CreateCallLaterLog(db *gorm.DB, c *CallLaterLog) error {
	return db.Create(c).Error
}

func (r *repositoryImpl) ListCallLaterLogs(db *gorm.DB, leadID uint, page int) ([]CallLaterLog, error) {
	var logs []CallLaterLog
	err := db.
		Where("lead_id = ?", leadID).
		Order("created_at DESC, id DESC").
		Limit(PageSize).
		Offset(Offset(page)).
		Find(&logs).Error
	return logs, err
}

func (r *repositoryImpl) CountCallLaterLogs(db *gorm.DB, leadID uint) (int64, error) {
	var count int64
	err := db.Model(&CallLaterLog{}).Where("lead_id = ?", leadID).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) LatestCallLaterLog(db *gorm.DB, leadID uint) (*CallLaterLog, error) {
	var log CallLaterLog
	err := db.
		Where("lead_id = ?", leadID).
		Order("created_at DESC, id DESC").
		First(&log).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &log, nil
}
