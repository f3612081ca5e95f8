package lead

import (
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(db *gorm.DB, l *Lead) error
	FindByID(db *gorm.DB, id uint) (*Lead, error)
	Update(db *gorm.DB, l *Lead) error

	ListBySalesman(db *gorm.DB, salesmanID uint, search string) ([]Lead, error)
	ListByOperator(db *gorm.DB, operatorID uint, search string) ([]Lead, error)
	ListByTechnician(db *gorm.DB, technicianID uint, search string) ([]Lead, error)
	ListAll(db *gorm.DB, search string) ([]Lead, error)
	ListUnassigned(db *gorm.DB, search string) ([]Lead, error)
	ListUpdatedSince(db *gorm.DB, since time.Time) ([]Lead, error)

	CountByPhone(db *gorm.DB, phone string) (int64, error)

	UpdateStatus(db *gorm.DB, id uint, status Status) error
	UpdateOperator(db *gorm.DB, id uint, operatorID uint, operatorName string) error
	// UpdateOperatorIfUnassigned assigns only when no operator owns the lead
	// yet; returns the number of rows changed.
	UpdateOperatorIfUnassigned(db *gorm.DB, id uint, operatorID uint, operatorName string) (int64, error)
	UpdateTechnician(db *gorm.DB, id uint, technicianID uint, technicianName string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, l *Lead) error {
	return db.Create(l).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Lead, error) {
	var l Lead
	err := db.First(&l, id).Error
	return &l, err
}

func (r *repositoryImpl) Update(db *gorm.DB, l *Lead) error {
	return db.Save(l).Error
}

// applySearch narrows a list query with a free-text match over name, phone
// and address, the same filter the bulk-selection screens use.
func applySearch(query *gorm.DB, search string) *gorm.DB {
	if search == "" {
		return query
	}
	like := "%" + search + "%"
	return query.Where("name LIKE ? OR phone LIKE ? OR address LIKE ?", like, like, like)
}

func (r *repositoryImpl) ListBySalesman(db *gorm.DB, salesmanID uint, search string) ([]Lead, error) {
	var list []Lead
	query := applySearch(db.Where("salesman_id = ?", salesmanID), search)
	err := query.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListByOperator(db *gorm.DB, operatorID uint, search string) ([]Lead, error) {
	var list []Lead
	query := applySearch(db.Where("call_operator_id = ?", operatorID), search)
	err := query.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListByTechnician(db *gorm.DB, technicianID uint, search string) ([]Lead, error) {
	var list []Lead
	query := applySearch(db.Where("technician_id = ?", technicianID), search)
	err := query.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListAll(db *gorm.DB, search string) ([]Lead, error) {
	var list []Lead
	err := applySearch(db.Model(&Lead{}), search).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListUnassigned(db *gorm.DB, search string) ([]Lead, error) {
	var list []Lead
	query := applySearch(db.Where("call_operator_id IS NULL"), search)
	err := query.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListUpdatedSince(db *gorm.DB, since time.Time) ([]Lead, error) {
	var list []Lead
	err := db.
		Where("updated_at >= ?", since).
		Order("updated_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) CountByPhone(db *gorm.DB, phone string) (int64, error) {
	var count int64
	err := db.Model(&Lead{}).Where("phone = ?", phone).Count(&count).Error
	return count, err
}

func (r *repositoryImpl) UpdateStatus(db *gorm.DB, id uint, status Status) error {
	res := db.Model(&Lead{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) UpdateOperator(db *gorm.DB, id uint, operatorID uint, operatorName string) error {
	res := db.Model(&Lead{}).Where("id = ?", id).Updates(map[string]any{
		"call_operator_id":   operatorID,
		"call_operator_name": operatorName,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) UpdateOperatorIfUnassigned(db *gorm.DB, id uint, operatorID uint, operatorName string) (int64, error) {
	res := db.Model(&Lead{}).
		Where("id = ? AND call_operator_id IS NULL", id).
		Updates(map[string]any{
			"call_operator_id":   operatorID,
			"call_operator_name": operatorName,
		})
	return res.RowsAffected, res.Error
}

func (r *repositoryImpl) UpdateTechnician(db *gorm.DB, id uint, technicianID uint, technicianName string) error {
	res := db.Model(&Lead{}).Where("id = ?", id).Updates(map[string]any{
		"technician_id":   technicianID,
		"technician_name": technicianName,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
