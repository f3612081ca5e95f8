package ticket

import "gorm.io/gorm"

type Repository interface {
	Create(db *gorm.DB, t *Ticket) error
	FindByID(db *gorm.DB, id uint) (*Ticket, error)
	Update(db *gorm.DB, t *Ticket) error
	ByFilter(db *gorm.DB, filter Filter) ([]Ticket, error)
	UpdateStatus(db *gorm.DB, id uint, status Status) error
	UpdateTechnician(db *gorm.DB, id uint, technicianID uint, technicianName string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, t *Ticket) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Ticket, error) {
	var t Ticket
	err := db.First(&t, id).Error
	return &t, err
}

func (r *repositoryImpl) Update(db *gorm.DB, t *Ticket) error {
	return db.Save(t).Error
}

func applyFilter(query *gorm.DB, filter Filter) *gorm.DB {
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", *filter.Priority)
	}
	if filter.TechnicianID != nil {
		query = query.Where("technician_id = ?", *filter.TechnicianID)
	}
	return query
}

func (r *repositoryImpl) ByFilter(db *gorm.DB, filter Filter) ([]Ticket, error) {
	var list []Ticket
	query := applyFilter(db.Model(&Ticket{}), filter)
	err := query.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) UpdateStatus(db *gorm.DB, id uint, status Status) error {
	res := db.Model(&Ticket{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repositoryImpl) UpdateTechnician(db *gorm.DB, id uint, technicianID uint, technicianName string) error {
	res := db.Model(&Ticket{}).Where("id = ?", id).Updates(map[string]any{
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
