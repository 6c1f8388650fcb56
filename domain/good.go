package domain

import (
	"context"
	"time"
)

// Good is a unit of aid handed to a registrant by an admin.
type Good struct {
	GoodID       int       `gorm:"primaryKey;autoIncrement" json:"GoodID"`
	TypeGood     string    `gorm:"index" json:"TypeGood"`
	NumberGood   *int      `json:"NumberGood"`
	GivenToWhome int       `gorm:"not null;index" json:"GivenToWhome"`
	GivenBy      int       `gorm:"not null;index" json:"GivenBy"`
	SmsCode      *string   `json:"-"`
	Verified     bool      `gorm:"not null;default:false" json:"Verified"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"CreatedDate"`
	UpdatedAt    time.Time `json:"UpdatedDate"`
}

func (Good) TableName() string { return "good" }

type GoodPayload struct {
	GoodID       *int    `json:"GoodID"`
	TypeGood     *string `json:"TypeGood"`
	NumberGood   FlexInt `json:"NumberGood" valid:"-"`
	GivenToWhome *int    `json:"GivenToWhome"`
	GivenBy      FlexInt `json:"GivenBy" valid:"-"`
}

// GoodSyncPlan is the diff that brings a registrant's goods to a desired
// state. It is applied as one unit.
type GoodSyncPlan struct {
	RegisterID int
	Updates    []Good
	Inserts    []Good
	DeleteIDs  []int
}

type VerifyGoodRequest struct {
	Code string `json:"code" valid:"required~Code is required"`
}

type GoodUseCase interface {
	CreateGood(ctx context.Context, req *GoodPayload) (*Good, error)
	EditGood(ctx context.Context, id int, req *GoodPayload) (*Good, error)
	GetGoodsForRegister(ctx context.Context, registerID int) (*[]Good, error)
	SyncGoodsForRegister(ctx context.Context, registerID int, items []GoodPayload) (*[]Good, error)
	SendGoodVerification(ctx context.Context, goodID int) error
	VerifyGood(ctx context.Context, goodID int, code string) (*Good, error)
}
