package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"needy/domain"
	"needy/validate"
)

type registerUC struct {
	repo     domain.RegisterRepo
	admins   domain.AdminRepo
	phones   domain.PhoneUniquenessChecker
	policies domain.Policies
	atomic   bool
	log      *logrus.Logger
	TimeOut  time.Duration
}

func NewRegisterUseCase(repo domain.RegisterRepo, admins domain.AdminRepo, phones domain.PhoneUniquenessChecker,
	policies domain.Policies, atomic bool, timeOut time.Duration, log *logrus.Logger) domain.RegisterUseCase {
	return &registerUC{
		repo:     repo,
		admins:   admins,
		phones:   phones,
		policies: policies,
		atomic:   atomic,
		log:      log,
		TimeOut:  timeOut,
	}
}

// CreateRegister stores a registrant with its children and goods. Unless
// atomic mode is on, the registrant row stays committed when a later batch
// fails and the batch error is returned.
func (ruc *registerUC) CreateRegister(ctx context.Context, req *domain.RegisterPayload) (*domain.Register, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	phone := validate.Phone(req.Phone)
	if phone != nil {
		taken, err := ruc.phones.IsPhoneTaken(ctx, *phone, nil)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, domain.ErrDuplicatePhone
		}
	}

	reg, err := ruc.buildRegister(req)
	if err != nil {
		return nil, err
	}
	reg.PhoneNormalized = phone

	children, err := ruc.buildChildren(req.Children)
	if err != nil {
		return nil, err
	}
	goods, givenBy, err := ruc.buildGoods(req.Goods)
	if err != nil {
		return nil, err
	}

	// Issuers are resolved up front so no read runs outside an open
	// transaction; a failure is still reported at the goods step.
	issuers := make([]int, len(goods))
	var issuerErr error
	for i := range goods {
		if issuers[i], issuerErr = resolveIssuer(ctx, ruc.admins, givenBy[i], reg); issuerErr != nil {
			break
		}
	}

	persist := func(repo domain.RegisterRepo) error {
		if err := repo.CreateRegister(ctx, reg); err != nil {
			return err
		}

		for i := range children {
			children[i].RegisterID = reg.RegisterID
		}
		if err := repo.CreateChildren(ctx, children); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrChildPersistence, err)
		}

		if issuerErr != nil {
			return fmt.Errorf("%w: %v", domain.ErrGoodPersistence, issuerErr)
		}
		now := time.Now()
		for i := range goods {
			goods[i].GivenBy = issuers[i]
			goods[i].GivenToWhome = reg.RegisterID
			goods[i].UpdatedAt = now
		}
		if err := repo.CreateGoods(ctx, goods); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrGoodPersistence, err)
		}
		return nil
	}

	if ruc.atomic {
		err = ruc.repo.Transaction(ctx, persist)
	} else {
		err = persist(ruc.repo)
	}
	if err != nil {
		if reg.RegisterID != 0 && !ruc.atomic {
			ruc.log.WithField("register_id", reg.RegisterID).Warnf("registrant kept after partial failure: %v", err)
		}
		return nil, err
	}
	return reg, nil
}

func (ruc *registerUC) buildRegister(req *domain.RegisterPayload) (*domain.Register, error) {
	birthDate, err := validate.Date(req.BirthDate)
	if err != nil {
		return nil, err
	}
	underWhich, err := validate.Int(req.UnderWhichAdmin, ruc.policies.AdminRef)
	if err != nil {
		return nil, fmt.Errorf("UnderWhichAdmin: %w", err)
	}
	underSecond, err := validate.Int(req.UnderSecondAdminID, ruc.policies.AdminRef)
	if err != nil {
		return nil, fmt.Errorf("UnderSecondAdminID: %w", err)
	}

	reg := &domain.Register{
		BirthDate:          birthDate,
		UnderWhichAdmin:    underWhich,
		UnderSecondAdminID: underSecond,
	}
	if req.FirstName != nil {
		reg.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		reg.LastName = *req.LastName
	}
	if req.IsDisconnected != nil {
		reg.IsDisconnected = *req.IsDisconnected
	}
	mergeRegisterText(reg, req)
	return reg, nil
}

func mergeRegisterText(reg *domain.Register, req *domain.RegisterPayload) {
	merge(&reg.Phone, req.Phone)
	merge(&reg.Email, req.Email)
	merge(&reg.City, req.City)
	merge(&reg.Province, req.Province)
	merge(&reg.Street, req.Street)
	merge(&reg.NameFather, req.NameFather)
	merge(&reg.NationalID, req.NationalID)
	merge(&reg.CreatedBy, req.CreatedBy)
	merge(&reg.Region, req.Region)
	merge(&reg.Gender, req.Gender)
	merge(&reg.HusbandFirstName, req.HusbandFirstName)
	merge(&reg.HusbandLastName, req.HusbandLastName)
	merge(&reg.ReasonMissingHusband, req.ReasonMissingHusband)
	merge(&reg.UnderOrganizationName, req.UnderOrganizationName)
	merge(&reg.EducationLevel, req.EducationLevel)
	merge(&reg.IncomeForm, req.IncomeForm)
	merge(&reg.Latitude, req.Latitude)
	merge(&reg.Longitude, req.Longitude)
}

// buildChildren drops client ids; the owner is set once the registrant exists.
func (ruc *registerUC) buildChildren(items []domain.ChildPayload) ([]domain.ChildrenOfRegister, error) {
	children := make([]domain.ChildrenOfRegister, 0, len(items))
	for i := range items {
		child := domain.ChildrenOfRegister{}
		if err := mergeChild(&child, &items[i], ruc.policies.ChildAgeCreate); err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, child)
	}
	return children, nil
}

func (ruc *registerUC) buildGoods(items []domain.GoodPayload) ([]domain.Good, []*int, error) {
	goods := make([]domain.Good, 0, len(items))
	givenBy := make([]*int, 0, len(items))
	for i, item := range items {
		quantity, err := validate.Int(item.NumberGood, ruc.policies.GoodQuantityCreate)
		if err != nil {
			return nil, nil, fmt.Errorf("good %d NumberGood: %w", i, err)
		}
		issuer, err := validate.Int(item.GivenBy, ruc.policies.AdminRef)
		if err != nil {
			return nil, nil, fmt.Errorf("good %d GivenBy: %w", i, err)
		}
		good := domain.Good{NumberGood: quantity}
		if item.TypeGood != nil {
			good.TypeGood = *item.TypeGood
		}
		goods = append(goods, good)
		givenBy = append(givenBy, issuer)
	}
	return goods, givenBy, nil
}

// mergeChild applies the non-nil fields of req onto child. Ids and the owner
// are never taken from the payload.
func mergeChild(child *domain.ChildrenOfRegister, req *domain.ChildPayload, agePolicy domain.Policy) error {
	if req.Age.Present() {
		age, err := validate.Int(req.Age, agePolicy)
		if err != nil {
			return fmt.Errorf("Age: %w", err)
		}
		child.Age = age
	}
	merge(&child.Gender, req.Gender)
	merge(&child.NationalID, req.NationalID)
	merge(&child.FirstName, req.FirstName)
	merge(&child.LastName, req.LastName)
	merge(&child.EducationLevel, req.EducationLevel)
	return nil
}

// EditRegister sparse-merges req into the stored registrant. Children listed
// with an id that belongs to the registrant are merged too; others are
// ignored.
func (ruc *registerUC) EditRegister(ctx context.Context, id int, req *domain.RegisterPayload) (*domain.Register, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	reg, err := ruc.repo.GetRegisterByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Phone != nil {
		phone := validate.Phone(req.Phone)
		if phone != nil {
			taken, err := ruc.phones.IsPhoneTaken(ctx, *phone, &id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, domain.ErrDuplicatePhone
			}
		}
		reg.PhoneNormalized = phone
	}

	if req.BirthDate.Present() {
		birthDate, err := validate.Date(req.BirthDate)
		if err != nil {
			return nil, err
		}
		reg.BirthDate = birthDate
	}
	if req.UnderWhichAdmin.Present() {
		admin, err := validate.Int(req.UnderWhichAdmin, ruc.policies.AdminRef)
		if err != nil {
			return nil, fmt.Errorf("UnderWhichAdmin: %w", err)
		}
		reg.UnderWhichAdmin = admin
	}
	if req.UnderSecondAdminID.Present() {
		admin, err := validate.Int(req.UnderSecondAdminID, ruc.policies.AdminRef)
		if err != nil {
			return nil, fmt.Errorf("UnderSecondAdminID: %w", err)
		}
		reg.UnderSecondAdminID = admin
	}
	if req.FirstName != nil {
		reg.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		reg.LastName = *req.LastName
	}
	if req.IsDisconnected != nil {
		reg.IsDisconnected = *req.IsDisconnected
	}
	mergeRegisterText(reg, req)

	var children []*domain.ChildrenOfRegister
	for i := range req.Children {
		item := &req.Children[i]
		if item.ChildrenOfRegisterID == nil {
			continue
		}
		child, err := ruc.repo.GetChildByID(ctx, *item.ChildrenOfRegisterID)
		if errors.Is(err, domain.ErrNotFound) || (err == nil && child.RegisterID != id) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := mergeChild(child, item, ruc.policies.ChildAgeEdit); err != nil {
			return nil, fmt.Errorf("child %d: %w", child.ChildrenOfRegisterID, err)
		}
		children = append(children, child)
	}

	if err := ruc.repo.UpdateRegister(ctx, reg); err != nil {
		return nil, err
	}
	for _, child := range children {
		if err := ruc.repo.UpdateChild(ctx, child); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrChildPersistence, err)
		}
	}
	return reg, nil
}

// DeleteRegister removes the registrant together with its children, goods
// and messages.
func (ruc *registerUC) DeleteRegister(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	if _, err := ruc.repo.GetRegisterByID(ctx, id); err != nil {
		return err
	}
	return ruc.repo.DeleteRegisterCascade(ctx, id)
}

func (ruc *registerUC) GetRegister(ctx context.Context, id int) (*domain.RegisterDetail, error) {
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	reg, err := ruc.repo.GetRegisterByID(ctx, id)
	if err != nil {
		return nil, err
	}
	children, err := ruc.repo.GetChildrenByRegisterID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &domain.RegisterDetail{Register: *reg, Children: *children}, nil
}

func (ruc *registerUC) FindRegisters(ctx context.Context, filter *domain.RegisterFilter) (*[]domain.Register, error) {
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	return ruc.repo.FindRegisters(ctx, filter)
}

func (ruc *registerUC) SigninRegister(ctx context.Context, phone string) (*domain.SigninResult, error) {
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	norm := validate.Phone(&phone)
	if norm == nil {
		return nil, domain.ErrNotFound
	}
	reg, err := ruc.repo.GetRegisterByNormalizedPhone(ctx, *norm)
	if err != nil {
		return nil, err
	}
	return &domain.SigninResult{
		NeedyID: reg.RegisterID,
		Name:    joinNonEmpty(&reg.FirstName, &reg.LastName),
	}, nil
}

func (ruc *registerUC) InfoRegisters(ctx context.Context) (*domain.RegisterInfo, error) {
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	total, err := ruc.repo.CountRegisters(ctx)
	if err != nil {
		return nil, err
	}
	info := &domain.RegisterInfo{NumberNeedyPersons: total}

	last, err := ruc.repo.LastCreatedRegister(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil {
		created := last.CreatedAt
		info.LastNeedyCreatedTime = &created
		info.LastNeedyNameCreated = joinNonEmpty(&last.FirstName, &last.LastName)
	}

	good, err := ruc.repo.LastCreatedGood(ctx)
	if err != nil {
		return nil, err
	}
	if good != nil {
		id := good.GoodID
		info.GoodID = &id
	}
	return info, nil
}

// FindNeedyLocations converts coordinates to floats. Rows whose text does not
// parse are skipped.
func (ruc *registerUC) FindNeedyLocations(ctx context.Context, disconnected bool) (*[]domain.NeedyLocation, error) {
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	rows, err := ruc.repo.FindNeedyLocations(ctx, disconnected)
	if err != nil {
		return nil, err
	}

	locations := make([]domain.NeedyLocation, 0, len(*rows))
	for _, row := range *rows {
		lat, lng, ok := parseCoordinates(row.Latitude, row.Longitude)
		if !ok {
			ruc.log.WithFields(logrus.Fields{"register_id": row.ID, "lat": row.Latitude, "lng": row.Longitude}).
				Warn("skipping registrant with malformed coordinates")
			continue
		}
		locations = append(locations, domain.NeedyLocation{
			ID:        row.ID,
			Lat:       lat,
			Lng:       lng,
			Name:      joinNonEmpty(row.FirstName, row.LastName),
			GroupName: joinNonEmpty(row.AdminFirstName, row.AdminLastName, row.AdminCity),
			Info:      joinNonEmpty(row.Street, row.City),
			Phone:     row.Phone,
		})
	}
	return &locations, nil
}

func parseCoordinates(latText, lngText string) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latText), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngText), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// CreateChild adds a child to an existing registrant.
func (ruc *registerUC) CreateChild(ctx context.Context, req *domain.ChildPayload) (*domain.ChildrenOfRegister, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	if req.RegisterID == nil {
		return nil, fmt.Errorf("%w: RegisterID is required", domain.ErrReferenceIntegrity)
	}
	if err := ruc.requireRegister(ctx, *req.RegisterID); err != nil {
		return nil, err
	}

	child := domain.ChildrenOfRegister{RegisterID: *req.RegisterID}
	if err := mergeChild(&child, req, ruc.policies.ChildAgeCreate); err != nil {
		return nil, err
	}

	children := []domain.ChildrenOfRegister{child}
	if err := ruc.repo.CreateChildren(ctx, children); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrChildPersistence, err)
	}
	return &children[0], nil
}

func (ruc *registerUC) EditChild(ctx context.Context, id int, req *domain.ChildPayload) (*domain.ChildrenOfRegister, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	child, err := ruc.repo.GetChildByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.RegisterID != nil && *req.RegisterID != child.RegisterID {
		if err := ruc.requireRegister(ctx, *req.RegisterID); err != nil {
			return nil, err
		}
		child.RegisterID = *req.RegisterID
	}
	if err := mergeChild(child, req, ruc.policies.ChildAgeEdit); err != nil {
		return nil, err
	}
	if err := ruc.repo.UpdateChild(ctx, child); err != nil {
		return nil, err
	}
	return child, nil
}

func (ruc *registerUC) DeleteChild(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx, ruc.TimeOut)
	defer cancel()

	if _, err := ruc.repo.GetChildByID(ctx, id); err != nil {
		return err
	}
	return ruc.repo.DeleteChild(ctx, id)
}

// requireRegister turns a missing registrant into a reference error.
func (ruc *registerUC) requireRegister(ctx context.Context, id int) error {
	_, err := ruc.repo.GetRegisterByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("%w: register %d", domain.ErrReferenceIntegrity, id)
	}
	return err
}
