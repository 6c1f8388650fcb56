package domain

import (
	"context"
	"time"
)

// Register is a needy person recorded by the charity.
type Register struct {
	RegisterID            int        `gorm:"primaryKey;autoIncrement" json:"RegisterID"`
	FirstName             string     `gorm:"not null" json:"FirstName"`
	LastName              string     `gorm:"not null" json:"LastName"`
	Phone                 *string    `json:"Phone"`
	PhoneNormalized       *string    `gorm:"uniqueIndex" json:"-"`
	Email                 *string    `json:"Email"`
	City                  *string    `json:"City"`
	Province              *string    `gorm:"index" json:"Province"`
	Street                *string    `json:"Street"`
	NameFather            *string    `json:"NameFather"`
	NationalID            *string    `json:"NationalID"`
	CreatedBy             *int       `json:"CreatedBy"`
	Region                *string    `json:"Region"`
	Gender                *string    `json:"Gender"`
	HusbandFirstName      *string    `json:"HusbandFirstName"`
	HusbandLastName       *string    `json:"HusbandLastName"`
	ReasonMissingHusband  *string    `json:"ReasonMissingHusband"`
	UnderOrganizationName *string    `json:"UnderOrganizationName"`
	EducationLevel        *string    `json:"EducationLevel"`
	IncomeForm            *string    `gorm:"type:text" json:"IncomeForm"`
	Latitude              *string    `gorm:"type:text" json:"Latitude"`
	Longitude             *string    `gorm:"type:text" json:"Longitude"`
	BirthDate             *time.Time `gorm:"type:date" json:"BirthDate"`
	UnderWhichAdmin       *int       `gorm:"index" json:"UnderWhichAdmin"`
	UnderSecondAdminID    *int       `gorm:"index" json:"UnderSecondAdminID"`
	IsDisconnected        bool       `gorm:"not null;default:false" json:"is_disconnected"`
	CreatedAt             time.Time  `gorm:"autoCreateTime" json:"CreatedDate"`
	UpdatedAt             time.Time  `gorm:"autoUpdateTime" json:"UpdatedDate"`
}

func (Register) TableName() string { return "register" }

type ChildrenOfRegister struct {
	ChildrenOfRegisterID int       `gorm:"primaryKey;autoIncrement" json:"ChildrenOfRegisterID"`
	RegisterID           int       `gorm:"not null;index" json:"RegisterID"`
	Age                  *int      `json:"Age"`
	Gender               *string   `json:"Gender"`
	NationalID           *string   `json:"NationalID"`
	FirstName            *string   `json:"FirstName"`
	LastName             *string   `json:"LastName"`
	EducationLevel       *string   `json:"EducationLevel"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"CreatedDate"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"UpdatedDate"`
}

func (ChildrenOfRegister) TableName() string { return "children_of_register" }

type ChildPayload struct {
	ChildrenOfRegisterID *int    `json:"ChildrenOfRegisterID"`
	RegisterID           *int    `json:"RegisterID"`
	Age                  FlexInt `json:"Age" valid:"-"`
	Gender               *string `json:"Gender"`
	NationalID           *string `json:"NationalID"`
	FirstName            *string `json:"FirstName"`
	LastName             *string `json:"LastName"`
	EducationLevel       *string `json:"EducationLevel"`
}

// RegisterPayload serves both signup (children and goods allowed) and the
// sparse edit, where only non-nil fields overwrite stored values.
type RegisterPayload struct {
	FirstName             *string        `json:"FirstName"`
	LastName              *string        `json:"LastName"`
	Phone                 *string        `json:"Phone"`
	Email                 *string        `json:"Email" valid:"email~Invalid email format,optional"`
	City                  *string        `json:"City"`
	Province              *string        `json:"Province"`
	Street                *string        `json:"Street"`
	NameFather            *string        `json:"NameFather"`
	NationalID            *string        `json:"NationalID"`
	CreatedBy             *int           `json:"CreatedBy"`
	Region                *string        `json:"Region"`
	Gender                *string        `json:"Gender"`
	HusbandFirstName      *string        `json:"HusbandFirstName"`
	HusbandLastName       *string        `json:"HusbandLastName"`
	ReasonMissingHusband  *string        `json:"ReasonMissingHusband"`
	UnderOrganizationName *string        `json:"UnderOrganizationName"`
	EducationLevel        *string        `json:"EducationLevel"`
	IncomeForm            *string        `json:"IncomeForm"`
	Latitude              *string        `json:"Latitude"`
	Longitude             *string        `json:"Longitude"`
	BirthDate             FlexDate       `json:"BirthDate" valid:"-"`
	UnderWhichAdmin       FlexInt        `json:"UnderWhichAdmin" valid:"-"`
	UnderSecondAdminID    FlexInt        `json:"UnderSecondAdminID" valid:"-"`
	IsDisconnected        *bool          `json:"is_disconnected"`
	Children              []ChildPayload `json:"children_of_registre" valid:"-"`
	Goods                 []GoodPayload  `json:"goods_of_registre" valid:"-"`
}

// RegisterFilter is an exact-match search; nil fields do not filter.
type RegisterFilter struct {
	FirstName             *string `query:"FirstName"`
	LastName              *string `query:"LastName"`
	Phone                 *string `query:"Phone"`
	Email                 *string `query:"Email"`
	City                  *string `query:"City"`
	Province              *string `query:"Province"`
	Street                *string `query:"Street"`
	NationalID            *string `query:"NationalID"`
	Region                *string `query:"Region"`
	Gender                *string `query:"Gender"`
	EducationLevel        *string `query:"EducationLevel"`
	UnderOrganizationName *string `query:"UnderOrganizationName"`
	NameFather            *string `query:"NameFather"`
	UnderWhichAdmin       *int    `query:"UnderWhichAdmin"`
	CreatedBy             *int    `query:"CreatedBy"`
}

type RegisterPhone struct {
	RegisterID int
	Phone      *string
}

// GeoRow is the raw shape of a geocoded listing row before coordinates are
// converted to floats.
type GeoRow struct {
	ID             int
	Latitude       string
	Longitude      string
	FirstName      *string
	LastName       *string
	City           *string
	Street         *string
	Phone          *string
	Role           *string
	AdminFirstName *string
	AdminLastName  *string
	AdminCity      *string
}

type NeedyLocation struct {
	ID        int     `json:"id"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Name      *string `json:"name"`
	GroupName *string `json:"group_name"`
	Info      *string `json:"info"`
	Phone     *string `json:"phone"`
}

type RegisterDetail struct {
	Register
	Children []ChildrenOfRegister `json:"children"`
}

type RegisterInfo struct {
	NumberNeedyPersons   int64      `json:"numberNeedyPersons"`
	LastNeedyCreatedTime *time.Time `json:"LastNeedycreatedTime"`
	LastNeedyNameCreated *string    `json:"LastNeedyNameCreated"`
	GoodID               *int       `json:"GoodId"`
}

type SigninRequest struct {
	Phone string `json:"phone" valid:"required~Phone is required"`
}

type SigninResult struct {
	NeedyID int     `json:"needyID"`
	Name    *string `json:"name"`
}

// PhoneUniquenessChecker answers whether a phone number, compared after digit
// normalization, already belongs to another registrant.
type PhoneUniquenessChecker interface {
	IsPhoneTaken(ctx context.Context, phone string, excludeID *int) (bool, error)
}

// RegisterRepo persists the registrant aggregate: the registrant row, its
// children and the goods handed to it.
type RegisterRepo interface {
	Transaction(ctx context.Context, fn func(repo RegisterRepo) error) error

	CreateRegister(ctx context.Context, reg *Register) error
	GetRegisterByID(ctx context.Context, id int) (*Register, error)
	GetRegisterByNormalizedPhone(ctx context.Context, phone string) (*Register, error)
	UpdateRegister(ctx context.Context, reg *Register) error
	DeleteRegisterCascade(ctx context.Context, id int) error
	FindRegisters(ctx context.Context, filter *RegisterFilter) (*[]Register, error)
	ListRegisterPhones(ctx context.Context) (*[]RegisterPhone, error)
	CountRegisters(ctx context.Context) (int64, error)
	LastCreatedRegister(ctx context.Context) (*Register, error)
	FindNeedyLocations(ctx context.Context, disconnected bool) (*[]GeoRow, error)

	CreateChildren(ctx context.Context, children []ChildrenOfRegister) error
	GetChildByID(ctx context.Context, id int) (*ChildrenOfRegister, error)
	GetChildrenByRegisterID(ctx context.Context, registerID int) (*[]ChildrenOfRegister, error)
	UpdateChild(ctx context.Context, child *ChildrenOfRegister) error
	DeleteChild(ctx context.Context, id int) error

	CreateGoods(ctx context.Context, goods []Good) error
	GetGoodByID(ctx context.Context, id int) (*Good, error)
	GetGoodsByRegisterID(ctx context.Context, registerID int) (*[]Good, error)
	UpdateGood(ctx context.Context, good *Good) error
	ApplyGoodSync(ctx context.Context, plan *GoodSyncPlan) error
	LastCreatedGood(ctx context.Context) (*Good, error)
}

type RegisterUseCase interface {
	CreateRegister(ctx context.Context, req *RegisterPayload) (*Register, error)
	EditRegister(ctx context.Context, id int, req *RegisterPayload) (*Register, error)
	DeleteRegister(ctx context.Context, id int) error
	GetRegister(ctx context.Context, id int) (*RegisterDetail, error)
	FindRegisters(ctx context.Context, filter *RegisterFilter) (*[]Register, error)
	SigninRegister(ctx context.Context, phone string) (*SigninResult, error)
	InfoRegisters(ctx context.Context) (*RegisterInfo, error)
	FindNeedyLocations(ctx context.Context, disconnected bool) (*[]NeedyLocation, error)

	CreateChild(ctx context.Context, req *ChildPayload) (*ChildrenOfRegister, error)
	EditChild(ctx context.Context, id int, req *ChildPayload) (*ChildrenOfRegister, error)
	DeleteChild(ctx context.Context, id int) error
}
