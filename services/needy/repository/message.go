package repository

import (
	"context"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"needy/domain"
)

type messageRepository struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewMessageRepository(database *gorm.DB, log *logrus.Logger) domain.MessageRepo {
	return &messageRepository{
		db:  database,
		log: log,
	}
}

func (mr *messageRepository) CreateMessage(ctx context.Context, msg *domain.Message) error {
	if err := mr.db.WithContext(ctx).Create(msg).Error; err != nil {
		return classify(err)
	}
	return nil
}

func (mr *messageRepository) GetMessageByID(ctx context.Context, id int) (*domain.Message, error) {
	var msg domain.Message
	if err := mr.db.WithContext(ctx).Where("message_id = ?", id).First(&msg).Error; err != nil {
		return nil, classify(err)
	}
	return &msg, nil
}

func (mr *messageRepository) UpdateMessage(ctx context.Context, msg *domain.Message) error {
	if err := mr.db.WithContext(ctx).Save(msg).Error; err != nil {
		return classify(err)
	}
	return nil
}
