package usecase

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"needy/domain"
	"needy/validate"
)

type adminUC struct {
	repo     domain.AdminRepo
	policies domain.Policies
	log      *logrus.Logger
	TimeOut  time.Duration
}

func NewAdminUseCase(repo domain.AdminRepo, policies domain.Policies, timeOut time.Duration, log *logrus.Logger) domain.AdminUseCase {
	return &adminUC{
		repo:     repo,
		policies: policies,
		log:      log,
		TimeOut:  timeOut,
	}
}

// CreateAdmin hashes the password and records the creator, falling back to
// the authenticated caller.
func (auc *adminUC) CreateAdmin(ctx context.Context, req *domain.AdminCreate, callerID *int) (*domain.Admin, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, auc.TimeOut)
	defer cancel()

	role := req.UserRole
	if role == "" {
		role = domain.RoleAdmin
	}
	if !domain.ValidRole(role) {
		return nil, domain.ErrInvalidRole
	}

	createdBy, err := validate.Int(req.CreatedBy, auc.policies.AdminRef)
	if err != nil {
		return nil, err
	}
	if createdBy == nil && callerID != nil {
		id := *callerID
		createdBy = &id
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	admin := &domain.Admin{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      validate.Phone(req.Phone),
		PostCode:   req.PostCode,
		Email:      req.Email,
		City:       req.City,
		Province:   req.Province,
		Street:     req.Street,
		NationalID: req.NationalID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		UserRole:   role,
		Password:   string(hashed),
		CreatedBy:  createdBy,
	}
	if err := auc.repo.CreateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

func (auc *adminUC) EditAdmin(ctx context.Context, id int, req *domain.AdminPayload) (*domain.Admin, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, auc.TimeOut)
	defer cancel()

	admin, err := auc.repo.GetAdminByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.UserRole != nil {
		if !domain.ValidRole(*req.UserRole) {
			return nil, domain.ErrInvalidRole
		}
		admin.UserRole = *req.UserRole
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		admin.Password = string(hashed)
	}
	if req.FirstName != nil {
		admin.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		admin.LastName = *req.LastName
	}
	if req.Phone != nil {
		admin.Phone = validate.Phone(req.Phone)
	}
	merge(&admin.PostCode, req.PostCode)
	merge(&admin.Email, req.Email)
	merge(&admin.City, req.City)
	merge(&admin.Province, req.Province)
	merge(&admin.Street, req.Street)
	merge(&admin.NationalID, req.NationalID)
	merge(&admin.Latitude, req.Latitude)
	merge(&admin.Longitude, req.Longitude)

	if err := auc.repo.UpdateAdmin(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// DeleteAdmin returns the removed admin. Admins still referenced by
// registrants, goods or messages are refused by the store.
func (auc *adminUC) DeleteAdmin(ctx context.Context, id int) (*domain.Admin, error) {
	ctx, cancel := withTimeout(ctx, auc.TimeOut)
	defer cancel()

	admin, err := auc.repo.GetAdminByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := auc.repo.DeleteAdmin(ctx, id); err != nil {
		return nil, err
	}
	return admin, nil
}

func (auc *adminUC) GetAdmin(ctx context.Context, id int) (*domain.Admin, error) {
	ctx, cancel := withTimeout(ctx, auc.TimeOut)
	defer cancel()

	return auc.repo.GetAdminByID(ctx, id)
}

func (auc *adminUC) InfoAdmins(ctx context.Context) (*domain.AdminInfo, error) {
	ctx, cancel := withTimeout(ctx, auc.TimeOut)
	defer cancel()

	total, err := auc.repo.CountAdmins(ctx)
	if err != nil {
		return nil, err
	}
	info := &domain.AdminInfo{NumberAdmins: total}

	last, err := auc.repo.LastCreatedAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if last != nil {
		created := last.CreatedAt
		info.LastAdminCreatedTime = &created
		info.LastAdminNameCreated = joinNonEmpty(&last.FirstName, &last.LastName)
	}
	return info, nil
}

func (auc *adminUC) FindAdminLocations(ctx context.Context) (*[]domain.AdminLocation, error) {
	ctx, cancel := withTimeout(ctx, auc.TimeOut)
	defer cancel()

	rows, err := auc.repo.FindAdminLocations(ctx)
	if err != nil {
		return nil, err
	}

	locations := make([]domain.AdminLocation, 0, len(*rows))
	for _, row := range *rows {
		lat, lng, ok := parseCoordinates(row.Latitude, row.Longitude)
		if !ok {
			auc.log.WithField("admin_id", row.ID).Warn("skipping admin with malformed coordinates")
			continue
		}
		loc := domain.AdminLocation{
			ID:   row.ID,
			Lat:  lat,
			Lng:  lng,
			Name: joinNonEmpty(row.FirstName, row.LastName),
			Info: joinNonEmpty(row.Street, row.City),
		}
		if row.Role != nil {
			loc.Role = *row.Role
		}
		locations = append(locations, loc)
	}
	return &locations, nil
}
