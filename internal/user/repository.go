package user

import "gorm.io/gorm"

type Repository interface {
	Create(db *gorm.DB, u *User) error
	FindByID(db *gorm.DB, id uint) (*User, error)
	FindByEmail(db *gorm.DB, email string) (*User, error)
	ListActiveByRole(db *gorm.DB, role Role) ([]User, error)
	Update(db *gorm.DB, u *User) error
	SetActive(db *gorm.DB, id uint, active bool) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, u *User) error {
	return db.Create(u).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*User, error) {
	var u User
	err := db.First(&u, id).Error
	return &u, err
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*User, error) {
	var u User
	err := db.Where("email = ?", email).First(&u).Error
	return &u, err
}

func (r *repositoryImpl) ListActiveByRole(db *gorm.DB, role Role) ([]User, error) {
	var list []User
	err := db.
		Where("role = ? AND active = ?", role, true).
		Order("name asc").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Update(db *gorm.DB, u *User) error {
	return db.Save(u).Error
}

func (r *repositoryImpl) SetActive(db *gorm.DB, id uint, active bool) error {
	res := db.Model(&User{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
