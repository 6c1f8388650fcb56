package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"needy/domain"
	"needy/validate"
)

const (
	PhoneGuardScan  = "scan"
	PhoneGuardIndex = "index"
)

// NewPhoneChecker picks the uniqueness strategy by name. Unknown names fall
// back to the scan.
func NewPhoneChecker(mode string, database *gorm.DB, registers domain.RegisterRepo, log *logrus.Logger) domain.PhoneUniquenessChecker {
	if mode == PhoneGuardIndex {
		return &indexPhoneChecker{db: database}
	}
	return &scanPhoneChecker{registers: registers, log: log}
}

// scanPhoneChecker normalizes every stored phone and compares it with the
// candidate. It is linear in the number of registrants and works on rows
// written before phone_normalized existed.
type scanPhoneChecker struct {
	registers domain.RegisterRepo
	log       *logrus.Logger
}

func NewScanPhoneChecker(registers domain.RegisterRepo, log *logrus.Logger) domain.PhoneUniquenessChecker {
	return &scanPhoneChecker{registers: registers, log: log}
}

func (pc *scanPhoneChecker) IsPhoneTaken(ctx context.Context, phone string, excludeID *int) (bool, error) {
	candidate := validate.Phone(&phone)
	if candidate == nil {
		return false, nil
	}

	rows, err := pc.registers.ListRegisterPhones(ctx)
	if err != nil {
		return false, err
	}
	for _, row := range *rows {
		if excludeID != nil && row.RegisterID == *excludeID {
			continue
		}
		stored := validate.Phone(row.Phone)
		if stored != nil && *stored == *candidate {
			if pc.log != nil {
				pc.log.WithField("register_id", row.RegisterID).Debug("phone already registered")
			}
			return true, nil
		}
	}
	return false, nil
}

// indexPhoneChecker looks the normalized phone up through its unique index.
type indexPhoneChecker struct {
	db *gorm.DB
}

func NewIndexPhoneChecker(database *gorm.DB) domain.PhoneUniquenessChecker {
	return &indexPhoneChecker{db: database}
}

func (pc *indexPhoneChecker) IsPhoneTaken(ctx context.Context, phone string, excludeID *int) (bool, error) {
	candidate := validate.Phone(&phone)
	if candidate == nil {
		return false, nil
	}

	query := pc.db.WithContext(ctx).Model(&domain.Register{}).Where("phone_normalized = ?", *candidate)
	if excludeID != nil {
		query = query.Where("register_id <> ?", *excludeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return false, classify(err)
	}
	return total > 0, nil
}
