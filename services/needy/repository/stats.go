package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"needy/domain"
)

type statsRepository struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewStatsRepository(database *gorm.DB, log *logrus.Logger) domain.StatsRepo {
	return &statsRepository{
		db:  database,
		log: log,
	}
}

// CountByAdmin groups registrants by their primary admin id. Registrants
// without an admin are left out.
func (sr *statsRepository) CountByAdmin(ctx context.Context) (*[]domain.AdminCount, error) {
	var rows []domain.AdminCount
	err := sr.db.WithContext(ctx).Model(&domain.Register{}).
		Select("under_which_admin AS admin_id, COUNT(*) AS total").
		Where("under_which_admin IS NOT NULL").
		Group("under_which_admin").
		Order("under_which_admin").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return &rows, nil
}

func (sr *statsRepository) CountByProvince(ctx context.Context) (*[]domain.LabelCount, error) {
	return sr.countByColumn(ctx, "province")
}

func (sr *statsRepository) CountByEducationLevel(ctx context.Context) (*[]domain.LabelCount, error) {
	return sr.countByColumn(ctx, "education_level")
}

func (sr *statsRepository) countByColumn(ctx context.Context, column string) (*[]domain.LabelCount, error) {
	var rows []domain.LabelCount
	err := sr.db.WithContext(ctx).Model(&domain.Register{}).
		Select(column + " AS label, COUNT(*) AS total").
		Group(column).
		Order("total DESC").
		Order(column).
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return &rows, nil
}

// CountByGoodType counts distinct receiving registrants per good type.
func (sr *statsRepository) CountByGoodType(ctx context.Context) (*[]domain.LabelCount, error) {
	var rows []domain.LabelCount
	err := sr.db.WithContext(ctx).Table("good").
		Select("good.type_good AS label, COUNT(DISTINCT good.given_to_whome) AS total").
		Joins("JOIN register ON register.register_id = good.given_to_whome").
		Group("good.type_good").
		Order("total DESC").
		Order("good.type_good").
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return &rows, nil
}

// ChildrenPerRegister buckets registrants that have at least one child by
// their child count. The zero bucket is derived by the caller.
func (sr *statsRepository) ChildrenPerRegister(ctx context.Context) (*[]domain.BucketCount, error) {
	var rows []domain.BucketCount
	err := sr.db.WithContext(ctx).Raw(`SELECT per.child_count AS children, COUNT(*) AS total
		FROM (SELECT register_id, COUNT(*) AS child_count FROM children_of_register GROUP BY register_id) AS per
		GROUP BY per.child_count
		ORDER BY per.child_count`).
		Scan(&rows).Error
	if err != nil {
		return nil, classify(err)
	}
	return &rows, nil
}

func (sr *statsRepository) CountRegisters(ctx context.Context) (int64, error) {
	var total int64
	if err := sr.db.WithContext(ctx).Model(&domain.Register{}).Count(&total).Error; err != nil {
		return 0, classify(err)
	}
	return total, nil
}
