package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"needy/config"
	"needy/domain"
)

type registerRepository struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewRegisterRepository(database *gorm.DB, log *logrus.Logger) domain.RegisterRepo {
	return &registerRepository{
		db:  database,
		log: log,
	}
}

func (rr *registerRepository) Transaction(ctx context.Context, fn func(repo domain.RegisterRepo) error) error {
	return rr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&registerRepository{db: tx, log: rr.log})
	})
}

func (rr *registerRepository) CreateRegister(ctx context.Context, reg *domain.Register) error {
	if err := rr.db.WithContext(ctx).Create(reg).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (rr *registerRepository) GetRegisterByID(ctx context.Context, id int) (*domain.Register, error) {
	var reg domain.Register
	err := rr.db.WithContext(ctx).Where("register_id = ?", id).First(&reg).Error
	if err != nil {
		return nil, classify(err)
	}
	return &reg, nil
}

func (rr *registerRepository) GetRegisterByNormalizedPhone(ctx context.Context, phone string) (*domain.Register, error) {
	var reg domain.Register
	err := rr.db.WithContext(ctx).Where("phone_normalized = ?", phone).First(&reg).Error
	if err != nil {
		return nil, classify(err)
	}
	return &reg, nil
}

func (rr *registerRepository) UpdateRegister(ctx context.Context, reg *domain.Register) error {
	if err := rr.db.WithContext(ctx).Save(reg).Error; err != nil {
		return classify(err)
	}
	config.PrintStruct(reg)
	return nil
}

// DeleteRegisterCascade removes goods, messages and children pointing at the
// registrant before the registrant itself, all in one transaction.
func (rr *registerRepository) DeleteRegisterCascade(ctx context.Context, id int) error {
	err := rr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("given_to_whome = ?", id).Delete(&domain.Good{}).Error; err != nil {
			return fmt.Errorf("failed to delete goods of register %d: %w", id, err)
		}
		if err := tx.Where("given_to_whome = ?", id).Delete(&domain.Message{}).Error; err != nil {
			return fmt.Errorf("failed to delete messages of register %d: %w", id, err)
		}
		if err := tx.Where("register_id = ?", id).Delete(&domain.ChildrenOfRegister{}).Error; err != nil {
			return fmt.Errorf("failed to delete children of register %d: %w", id, err)
		}
		if err := tx.Where("register_id = ?", id).Delete(&domain.Register{}).Error; err != nil {
			return fmt.Errorf("failed to delete register %d: %w", id, err)
		}
		return nil
	})
	return classify(err)
}

func (rr *registerRepository) FindRegisters(ctx context.Context, filter *domain.RegisterFilter) (*[]domain.Register, error) {
	var regs []domain.Register
	query := rr.db.WithContext(ctx).Model(&domain.Register{})

	if filter != nil {
		strFilters := []struct {
			column string
			value  *string
		}{
			{"first_name", filter.FirstName},
			{"last_name", filter.LastName},
			{"phone", filter.Phone},
			{"email", filter.Email},
			{"city", filter.City},
			{"province", filter.Province},
			{"street", filter.Street},
			{"national_id", filter.NationalID},
			{"region", filter.Region},
			{"gender", filter.Gender},
			{"education_level", filter.EducationLevel},
			{"under_organization_name", filter.UnderOrganizationName},
			{"name_father", filter.NameFather},
		}
		for _, f := range strFilters {
			if f.value != nil && *f.value != "" {
				query = query.Where(f.column+" = ?", *f.value)
			}
		}
		if filter.UnderWhichAdmin != nil {
			query = query.Where("under_which_admin = ?", *filter.UnderWhichAdmin)
		}
		if filter.CreatedBy != nil {
			query = query.Where("created_by = ?", *filter.CreatedBy)
		}
	}

	if err := query.Order("register_id").Find(&regs).Error; err != nil {
		return nil, classify(err)
	}
	return &regs, nil
}

func (rr *registerRepository) ListRegisterPhones(ctx context.Context) (*[]domain.RegisterPhone, error) {
	var rows []domain.RegisterPhone
	err := rr.db.WithContext(ctx).Model(&domain.Register{}).
		Select("register_id, phone").
		Where("phone IS NOT NULL AND phone <> ''").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return &rows, nil
}

func (rr *registerRepository) CountRegisters(ctx context.Context) (int64, error) {
	var total int64
	if err := rr.db.WithContext(ctx).Model(&domain.Register{}).Count(&total).Error; err != nil {
		return 0, classify(err)
	}
	return total, nil
}

// LastCreatedRegister returns nil without error on an empty table.
func (rr *registerRepository) LastCreatedRegister(ctx context.Context) (*domain.Register, error) {
	var reg domain.Register
	err := rr.db.WithContext(ctx).Order("created_at DESC").Order("register_id DESC").First(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &reg, nil
}

// FindNeedyLocations lists registrants with both coordinates filled in. On
// Postgres the coordinates must also look numeric; other backends leave that
// to the caller's float conversion.
func (rr *registerRepository) FindNeedyLocations(ctx context.Context, disconnected bool) (*[]domain.GeoRow, error) {
	var rows []domain.GeoRow
	query := rr.db.WithContext(ctx).Table("register AS r").
		Select(`r.register_id AS id, r.latitude, r.longitude, r.first_name, r.last_name, r.city, r.street, r.phone,
			a.first_name AS admin_first_name, a.last_name AS admin_last_name, a.city AS admin_city`).
		Joins("LEFT JOIN admin AS a ON a.admin_id = r.under_which_admin").
		Where("r.latitude IS NOT NULL AND r.latitude <> '' AND r.longitude IS NOT NULL AND r.longitude <> ''").
		Where("r.is_disconnected = ?", disconnected)

	if supportsRegexFilter(rr.db) {
		query = query.Where("r.latitude ~ ? AND r.longitude ~ ?", numericPattern, numericPattern)
	}

	if err := query.Order("r.register_id").Scan(&rows).Error; err != nil {
		return nil, classify(err)
	}
	return &rows, nil
}

func (rr *registerRepository) CreateChildren(ctx context.Context, children []domain.ChildrenOfRegister) error {
	if len(children) == 0 {
		return nil
	}
	err := rr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&children).Error
	})
	if err != nil {
		rr.log.WithFields(logrus.Fields{"count": len(children), "register_id": children[0].RegisterID}).
			Errorf("children batch rolled back: %v", err)
		return classify(err)
	}
	return nil
}

func (rr *registerRepository) GetChildByID(ctx context.Context, id int) (*domain.ChildrenOfRegister, error) {
	var child domain.ChildrenOfRegister
	err := rr.db.WithContext(ctx).Where("children_of_register_id = ?", id).First(&child).Error
	if err != nil {
		return nil, classify(err)
	}
	return &child, nil
}

func (rr *registerRepository) GetChildrenByRegisterID(ctx context.Context, registerID int) (*[]domain.ChildrenOfRegister, error) {
	var children []domain.ChildrenOfRegister
	err := rr.db.WithContext(ctx).Where("register_id = ?", registerID).Order("children_of_register_id").Find(&children).Error
	if err != nil {
		return nil, classify(err)
	}
	return &children, nil
}

func (rr *registerRepository) UpdateChild(ctx context.Context, child *domain.ChildrenOfRegister) error {
	if err := rr.db.WithContext(ctx).Save(child).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (rr *registerRepository) DeleteChild(ctx context.Context, id int) error {
	err := rr.db.WithContext(ctx).Where("children_of_register_id = ?", id).Delete(&domain.ChildrenOfRegister{}).Error
	return classify(err)
}

func (rr *registerRepository) CreateGoods(ctx context.Context, goods []domain.Good) error {
	if len(goods) == 0 {
		return nil
	}
	err := rr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&goods).Error
	})
	if err != nil {
		rr.log.WithFields(logrus.Fields{"count": len(goods), "register_id": goods[0].GivenToWhome}).
			Errorf("goods batch rolled back: %v", err)
		return classify(err)
	}
	return nil
}

func (rr *registerRepository) GetGoodByID(ctx context.Context, id int) (*domain.Good, error) {
	var good domain.Good
	err := rr.db.WithContext(ctx).Where("good_id = ?", id).First(&good).Error
	if err != nil {
		return nil, classify(err)
	}
	return &good, nil
}

func (rr *registerRepository) GetGoodsByRegisterID(ctx context.Context, registerID int) (*[]domain.Good, error) {
	var goods []domain.Good
	err := rr.db.WithContext(ctx).Where("given_to_whome = ?", registerID).Order("good_id").Find(&goods).Error
	if err != nil {
		return nil, classify(err)
	}
	return &goods, nil
}

func (rr *registerRepository) UpdateGood(ctx context.Context, good *domain.Good) error {
	if err := rr.db.WithContext(ctx).Save(good).Error; err != nil {
		return classify(err)
	}
	return nil
}

// ApplyGoodSync runs updates, inserts and deletes of a plan in one
// transaction so a failure leaves the previous goods untouched.
func (rr *registerRepository) ApplyGoodSync(ctx context.Context, plan *domain.GoodSyncPlan) error {
	err := rr.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range plan.Updates {
			if err := tx.Save(&plan.Updates[i]).Error; err != nil {
				return fmt.Errorf("failed to update good %d: %w", plan.Updates[i].GoodID, err)
			}
		}
		if len(plan.Inserts) > 0 {
			if err := tx.Create(&plan.Inserts).Error; err != nil {
				return fmt.Errorf("failed to insert goods: %w", err)
			}
		}
		if len(plan.DeleteIDs) > 0 {
			err := tx.Where("given_to_whome = ? AND good_id IN ?", plan.RegisterID, plan.DeleteIDs).
				Delete(&domain.Good{}).Error
			if err != nil {
				return fmt.Errorf("failed to delete goods: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		rr.log.WithField("register_id", plan.RegisterID).Errorf("good sync rolled back: %v", err)
		return classify(err)
	}
	return nil
}

func (rr *registerRepository) LastCreatedGood(ctx context.Context) (*domain.Good, error) {
	var good domain.Good
	err := rr.db.WithContext(ctx).Order("created_at DESC").Order("good_id DESC").First(&good).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &good, nil
}
