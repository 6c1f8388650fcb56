package domain

import (
	"context"
	"time"
)

const (
	RoleAdmin      = "Admin"
	RoleGroupAdmin = "GroupAdmin"
)

// ValidRole reports whether role is one of the two staff roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleGroupAdmin
}

type Admin struct {
	AdminID    int       `gorm:"primaryKey;autoIncrement" json:"AdminID"`
	FirstName  string    `gorm:"type:varchar(100);not null" json:"FirstName"`
	LastName   string    `gorm:"type:varchar(100);not null" json:"LastName"`
	Phone      *string   `gorm:"type:varchar(20);index" json:"Phone"`
	PostCode   *string   `gorm:"type:varchar(20)" json:"PostCode"`
	Email      *string   `gorm:"type:varchar(100);index" json:"Email"`
	City       *string   `gorm:"type:varchar(100)" json:"City"`
	Province   *string   `gorm:"type:varchar(100)" json:"Province"`
	Street     *string   `gorm:"type:varchar(100)" json:"Street"`
	NationalID *string   `gorm:"type:varchar(20)" json:"NationalID"`
	Latitude   *string   `gorm:"type:text" json:"Latitude"`
	Longitude  *string   `gorm:"type:text" json:"Longitude"`
	UserRole   string    `gorm:"type:varchar(20);not null;default:Admin" json:"UserRole"`
	Password   string    `gorm:"type:varchar(128);not null" json:"-"`
	CreatedBy  *int      `gorm:"index" json:"CreatedBy"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"CreatedDate"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"UpdatedDate"`
}

func (Admin) TableName() string { return "admin" }

// AdminCreate is the signup payload.
type AdminCreate struct {
	FirstName  string  `json:"FirstName" valid:"required~FirstName is required"`
	LastName   string  `json:"LastName" valid:"required~LastName is required"`
	Phone      *string `json:"Phone"`
	PostCode   *string `json:"PostCode"`
	Email      *string `json:"Email" valid:"email~Invalid email format,optional"`
	City       *string `json:"City"`
	Province   *string `json:"Province"`
	Street     *string `json:"Street"`
	NationalID *string `json:"NationalID"`
	Latitude   *string `json:"Latitude"`
	Longitude  *string `json:"Longitude"`
	UserRole   string  `json:"UserRole"`
	Password   string  `json:"Password" valid:"required~Password is required"`
	CreatedBy  FlexInt `json:"CreatedBy" valid:"-"`
}

// AdminPayload is the sparse edit payload; nil fields are left untouched.
type AdminPayload struct {
	FirstName  *string `json:"FirstName"`
	LastName   *string `json:"LastName"`
	Phone      *string `json:"Phone"`
	PostCode   *string `json:"PostCode"`
	Email      *string `json:"Email" valid:"email~Invalid email format,optional"`
	City       *string `json:"City"`
	Province   *string `json:"Province"`
	Street     *string `json:"Street"`
	NationalID *string `json:"NationalID"`
	Latitude   *string `json:"Latitude"`
	Longitude  *string `json:"Longitude"`
	UserRole   *string `json:"UserRole"`
	Password   *string `json:"Password"`
}

type AdminLocation struct {
	ID   int     `json:"id"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Name *string `json:"name"`
	Info *string `json:"info"`
	Role string  `json:"role"`
}

type AdminInfo struct {
	NumberAdmins         int64      `json:"numberAdmins"`
	LastAdminCreatedTime *time.Time `json:"LastAdminCreatedTime"`
	LastAdminNameCreated *string    `json:"LastAdminNameCreated"`
}

type AdminRepo interface {
	CreateAdmin(ctx context.Context, admin *Admin) error
	GetAdminByID(ctx context.Context, id int) (*Admin, error)
	GetAdminsByIDs(ctx context.Context, ids []int) (*[]Admin, error)
	GetAdminByLogin(ctx context.Context, login string) (*Admin, error)
	UpdateAdmin(ctx context.Context, admin *Admin) error
	DeleteAdmin(ctx context.Context, id int) error
	FirstAdminID(ctx context.Context) (*int, error)
	CountAdmins(ctx context.Context) (int64, error)
	LastCreatedAdmin(ctx context.Context) (*Admin, error)
	FindAdminLocations(ctx context.Context) (*[]GeoRow, error)
}

type AdminUseCase interface {
	CreateAdmin(ctx context.Context, req *AdminCreate, callerID *int) (*Admin, error)
	EditAdmin(ctx context.Context, id int, req *AdminPayload) (*Admin, error)
	DeleteAdmin(ctx context.Context, id int) (*Admin, error)
	GetAdmin(ctx context.Context, id int) (*Admin, error)
	InfoAdmins(ctx context.Context) (*AdminInfo, error)
	FindAdminLocations(ctx context.Context) (*[]AdminLocation, error)
}
