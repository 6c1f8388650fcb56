package usecase

import (
	"context"
	"fmt"
	"time"

	"needy/domain"
	"needy/validate"
)

type messageUC struct {
	repo     domain.MessageRepo
	policies domain.Policies
	TimeOut  time.Duration
}

func NewMessageUseCase(repo domain.MessageRepo, policies domain.Policies, timeOut time.Duration) domain.MessageUseCase {
	return &messageUC{
		repo:     repo,
		policies: policies,
		TimeOut:  timeOut,
	}
}

func (muc *messageUC) CreateMessage(ctx context.Context, req *domain.MessagePayload, callerID *int) (*domain.Message, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, muc.TimeOut)
	defer cancel()

	createdBy, err := validate.Int(req.CreatedBy, muc.policies.AdminRef)
	if err != nil {
		return nil, fmt.Errorf("CreatedBy: %w", err)
	}
	if createdBy == nil && callerID != nil {
		id := *callerID
		createdBy = &id
	}
	recipient, err := validate.Int(req.GivenToWhome, muc.policies.AdminRef)
	if err != nil {
		return nil, fmt.Errorf("GivenToWhome: %w", err)
	}

	msg := &domain.Message{
		MessageText:  req.MessageText,
		CreatedBy:    createdBy,
		GivenToWhome: recipient,
	}
	if err := muc.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

func (muc *messageUC) EditMessage(ctx context.Context, id int, req *domain.MessagePayload) (*domain.Message, error) {
	if req == nil {
		return nil, domain.ErrPayloadRequired
	}
	ctx, cancel := withTimeout(ctx, muc.TimeOut)
	defer cancel()

	msg, err := muc.repo.GetMessageByID(ctx, id)
	if err != nil {
		return nil, err
	}
	merge(&msg.MessageText, req.MessageText)
	if req.CreatedBy.Present() {
		if msg.CreatedBy, err = validate.Int(req.CreatedBy, muc.policies.AdminRef); err != nil {
			return nil, fmt.Errorf("CreatedBy: %w", err)
		}
	}
	if req.GivenToWhome.Present() {
		if msg.GivenToWhome, err = validate.Int(req.GivenToWhome, muc.policies.AdminRef); err != nil {
			return nil, fmt.Errorf("GivenToWhome: %w", err)
		}
	}

	if err := muc.repo.UpdateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}
