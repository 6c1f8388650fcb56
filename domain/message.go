package domain

import (
	"context"
	"time"
)

type Message struct {
	MessageID    int       `gorm:"primaryKey;autoIncrement" json:"MessageID"`
	MessageText  *string   `gorm:"type:text" json:"MessageText"`
	CreatedBy    *int      `gorm:"index" json:"CreatedBy"`
	GivenToWhome *int      `gorm:"index" json:"GivenToWhome"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"CreatedDate"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"UpdatedDate"`
}

func (Message) TableName() string { return "message" }

type MessagePayload struct {
	MessageText  *string `json:"MessageText"`
	CreatedBy    FlexInt `json:"CreatedBy" valid:"-"`
	GivenToWhome FlexInt `json:"GivenToWhome" valid:"-"`
}

type MessageRepo interface {
	CreateMessage(ctx context.Context, msg *Message) error
	GetMessageByID(ctx context.Context, id int) (*Message, error)
	UpdateMessage(ctx context.Context, msg *Message) error
}

type MessageUseCase interface {
	CreateMessage(ctx context.Context, req *MessagePayload, callerID *int) (*Message, error)
	EditMessage(ctx context.Context, id int, req *MessagePayload) (*Message, error)
}
