package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"needy/digits"
	"needy/domain"
	"needy/validate"
)

const codeDigits = 6

type goodUC struct {
	repo     domain.RegisterRepo
	admins   domain.AdminRepo
	sender   domain.SenderRepo
	policies domain.Policies
	log      *logrus.Logger
	TimeOut  time.Duration
}

func NewGoodUseCase(repo domain.RegisterRepo, admins domain.AdminRepo, sender domain.SenderRepo,
	policies domain.Policies, timeOut time.Duration, log *logrus.Logger) domain.GoodUseCase {
	return &goodUC{
		repo:     repo,
		admins:   admins,
		sender:   sender,
		policies: policies,
		log:      log,
		TimeOut:  timeOut,
	}
}

func (guc *goodUC) CreateGood(ctx context.Context, req *domain.GoodPayload) (*domain.Good, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, guc.TimeOut)
	defer cancel()

	if req.GivenToWhome == nil {
		return nil, fmt.Errorf("%w: GivenToWhome is required", domain.ErrReferenceIntegrity)
	}
	reg, err := guc.loadRecipient(ctx, *req.GivenToWhome)
	if err != nil {
		return nil, err
	}

	quantity, err := validate.Int(req.NumberGood, guc.policies.GoodQuantityCreate)
	if err != nil {
		return nil, fmt.Errorf("NumberGood: %w", err)
	}
	given, err := validate.Int(req.GivenBy, guc.policies.AdminRef)
	if err != nil {
		return nil, fmt.Errorf("GivenBy: %w", err)
	}
	issuer, err := resolveIssuer(ctx, guc.admins, given, reg)
	if err != nil {
		return nil, err
	}

	good := domain.Good{
		NumberGood:   quantity,
		GivenToWhome: reg.RegisterID,
		GivenBy:      issuer,
		UpdatedAt:    time.Now(),
	}
	if req.TypeGood != nil {
		good.TypeGood = *req.TypeGood
	}

	goods := []domain.Good{good}
	if err := guc.repo.CreateGoods(ctx, goods); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrGoodPersistence, err)
	}
	return &goods[0], nil
}

// EditGood sparse-merges req into the stored good. The quantity is coerced
// with the edit policy.
func (guc *goodUC) EditGood(ctx context.Context, id int, req *domain.GoodPayload) (*domain.Good, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, guc.TimeOut)
	defer cancel()

	good, err := guc.repo.GetGoodByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.GivenToWhome != nil && *req.GivenToWhome != good.GivenToWhome {
		if _, err := guc.loadRecipient(ctx, *req.GivenToWhome); err != nil {
			return nil, err
		}
		good.GivenToWhome = *req.GivenToWhome
	}
	if err := guc.mergeGood(good, req); err != nil {
		return nil, err
	}
	good.UpdatedAt = time.Now()

	if err := guc.repo.UpdateGood(ctx, good); err != nil {
		return nil, err
	}
	return good, nil
}

func (guc *goodUC) mergeGood(good *domain.Good, req *domain.GoodPayload) error {
	if req.TypeGood != nil {
		good.TypeGood = *req.TypeGood
	}
	if req.NumberGood.Present() {
		quantity, err := validate.Int(req.NumberGood, guc.policies.GoodQuantityEdit)
		if err != nil {
			return fmt.Errorf("NumberGood: %w", err)
		}
		good.NumberGood = quantity
	}
	if req.GivenBy.Present() {
		issuer, err := validate.Int(req.GivenBy, guc.policies.AdminRef)
		if err != nil {
			return fmt.Errorf("GivenBy: %w", err)
		}
		if issuer != nil {
			good.GivenBy = *issuer
		}
	}
	return nil
}

func (guc *goodUC) GetGoodsForRegister(ctx context.Context, registerID int) (*[]domain.Good, error) {
	ctx, cancel := withTimeout(ctx, guc.TimeOut)
	defer cancel()

	if _, err := guc.repo.GetRegisterByID(ctx, registerID); err != nil {
		return nil, err
	}
	return guc.repo.GetGoodsByRegisterID(ctx, registerID)
}

// SyncGoodsForRegister makes items the complete list of the registrant's
// goods. Known ids are updated, unknown or missing ids are inserted and
// stored goods left out of items are deleted.
func (guc *goodUC) SyncGoodsForRegister(ctx context.Context, registerID int, items []domain.GoodPayload) (*[]domain.Good, error) {
	ctx, cancel := withTimeout(ctx, guc.TimeOut)
	defer cancel()

	reg, err := guc.repo.GetRegisterByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	existing, err := guc.repo.GetGoodsByRegisterID(ctx, registerID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]domain.Good, len(*existing))
	for _, good := range *existing {
		byID[good.GoodID] = good
	}

	now := time.Now()
	plan := &domain.GoodSyncPlan{RegisterID: registerID}
	received := make(map[int]bool, len(items))
	for i := range items {
		item := &items[i]
		if item.GoodID != nil {
			if stored, ok := byID[*item.GoodID]; ok && !received[stored.GoodID] {
				received[stored.GoodID] = true
				if err := guc.mergeGood(&stored, item); err != nil {
					return nil, fmt.Errorf("good %d: %w", stored.GoodID, err)
				}
				stored.UpdatedAt = now
				plan.Updates = append(plan.Updates, stored)
				continue
			}
		}

		fresh := domain.Good{GivenToWhome: registerID, UpdatedAt: now}
		if err := guc.mergeGood(&fresh, &domain.GoodPayload{TypeGood: item.TypeGood, NumberGood: item.NumberGood}); err != nil {
			return nil, fmt.Errorf("good %d: %w", i, err)
		}
		given, err := validate.Int(item.GivenBy, guc.policies.AdminRef)
		if err != nil {
			return nil, fmt.Errorf("good %d GivenBy: %w", i, err)
		}
		if fresh.GivenBy, err = resolveIssuer(ctx, guc.admins, given, reg); err != nil {
			return nil, err
		}
		plan.Inserts = append(plan.Inserts, fresh)
	}

	for _, good := range *existing {
		if !received[good.GoodID] {
			plan.DeleteIDs = append(plan.DeleteIDs, good.GoodID)
		}
	}

	if err := guc.repo.ApplyGoodSync(ctx, plan); err != nil {
		return nil, err
	}
	return guc.repo.GetGoodsByRegisterID(ctx, registerID)
}

// SendGoodVerification stores a fresh code on the good and sends it to the
// recipient's phone.
func (guc *goodUC) SendGoodVerification(ctx context.Context, goodID int) error {
	ctx, cancel := withTimeout(ctx, guc.TimeOut)
	defer cancel()

	good, err := guc.repo.GetGoodByID(ctx, goodID)
	if err != nil {
		return err
	}
	reg, err := guc.loadRecipient(ctx, good.GivenToWhome)
	if err != nil {
		return err
	}
	phone := validate.Phone(reg.Phone)
	if phone == nil {
		return fmt.Errorf("%w: register %d has no phone", domain.ErrNotFound, reg.RegisterID)
	}

	code, err := generateCode()
	if err != nil {
		return err
	}
	good.SmsCode = &code
	good.Verified = false
	if err := guc.repo.UpdateGood(ctx, good); err != nil {
		return err
	}

	if err := guc.sender.SendCode(ctx, *phone, code); err != nil {
		guc.log.WithField("good_id", goodID).Errorf("verification code not delivered: %v", err)
		return err
	}
	return nil
}

func (guc *goodUC) VerifyGood(ctx context.Context, goodID int, code string) (*domain.Good, error) {
	ctx, cancel := withTimeout(ctx, guc.TimeOut)
	defer cancel()

	good, err := guc.repo.GetGoodByID(ctx, goodID)
	if err != nil {
		return nil, err
	}
	given := strings.TrimSpace(digits.Normalize(code))
	if good.SmsCode == nil || given == "" || given != *good.SmsCode {
		return nil, domain.ErrInvalidCode
	}

	good.Verified = true
	if err := guc.repo.UpdateGood(ctx, good); err != nil {
		return nil, err
	}
	return good, nil
}

func (guc *goodUC) loadRecipient(ctx context.Context, registerID int) (*domain.Register, error) {
	reg, err := guc.repo.GetRegisterByID(ctx, registerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("%w: register %d", domain.ErrReferenceIntegrity, registerID)
	}
	return reg, err
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}
	return fmt.Sprintf("%0*d", codeDigits, n.Int64()), nil
}
