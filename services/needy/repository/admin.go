package repository

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"needy/domain"
)

type adminRepository struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewAdminRepository(database *gorm.DB, log *logrus.Logger) domain.AdminRepo {
	return &adminRepository{
		db:  database,
		log: log,
	}
}

func (ar *adminRepository) CreateAdmin(ctx context.Context, admin *domain.Admin) error {
	if err := ar.db.WithContext(ctx).Create(admin).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (ar *adminRepository) GetAdminByID(ctx context.Context, id int) (*domain.Admin, error) {
	var admin domain.Admin
	if err := ar.db.WithContext(ctx).Where("admin_id = ?", id).First(&admin).Error; err != nil {
		return nil, classify(err)
	}
	return &admin, nil
}

func (ar *adminRepository) GetAdminsByIDs(ctx context.Context, ids []int) (*[]domain.Admin, error) {
	var admins []domain.Admin
	if len(ids) == 0 {
		return &admins, nil
	}
	if err := ar.db.WithContext(ctx).Where("admin_id IN ?", ids).Find(&admins).Error; err != nil {
		return nil, classify(err)
	}
	return &admins, nil
}

// GetAdminByLogin looks an admin up by phone or e-mail.
func (ar *adminRepository) GetAdminByLogin(ctx context.Context, login string) (*domain.Admin, error) {
	var admin domain.Admin
	err := ar.db.WithContext(ctx).
		Where("phone = ? OR email = ?", login, login).
		Order("admin_id").
		First(&admin).Error
	if err != nil {
		return nil, classify(err)
	}
	return &admin, nil
}

func (ar *adminRepository) UpdateAdmin(ctx context.Context, admin *domain.Admin) error {
	if err := ar.db.WithContext(ctx).Save(admin).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (ar *adminRepository) DeleteAdmin(ctx context.Context, id int) error {
	res := ar.db.WithContext(ctx).Where("admin_id = ?", id).Delete(&domain.Admin{})
	if res.Error != nil {
		return classify(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// FirstAdminID returns the lowest admin id, or nil when no admin exists.
func (ar *adminRepository) FirstAdminID(ctx context.Context) (*int, error) {
	var admin domain.Admin
	err := ar.db.WithContext(ctx).Select("admin_id").Order("admin_id").First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &admin.AdminID, nil
}

func (ar *adminRepository) CountAdmins(ctx context.Context) (int64, error) {
	var total int64
	if err := ar.db.WithContext(ctx).Model(&domain.Admin{}).Count(&total).Error; err != nil {
		return 0, classify(err)
	}
	return total, nil
}

func (ar *adminRepository) LastCreatedAdmin(ctx context.Context) (*domain.Admin, error) {
	var admin domain.Admin
	err := ar.db.WithContext(ctx).Order("created_at DESC").Order("admin_id DESC").First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &admin, nil
}

func (ar *adminRepository) FindAdminLocations(ctx context.Context) (*[]domain.GeoRow, error) {
	var rows []domain.GeoRow
	query := ar.db.WithContext(ctx).Table("admin AS a").
		Select("a.admin_id AS id, a.latitude, a.longitude, a.first_name, a.last_name, a.city, a.street, a.phone, a.user_role AS role").
		Where("a.latitude IS NOT NULL AND a.latitude <> '' AND a.longitude IS NOT NULL AND a.longitude <> ''")

	if supportsRegexFilter(ar.db) {
		query = query.Where("a.latitude ~ ? AND a.longitude ~ ?", numericPattern, numericPattern)
	}

	if err := query.Order("a.admin_id").Scan(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return &rows, nil
}
