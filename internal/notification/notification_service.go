package notification

import (
	"context"
	"errors"
	"time"

	notificationerrors "hrportal/internal/notification/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	// Notify persists an inbox entry. The lifecycle consumer is the only
	// writer, there is no user facing creation endpoint.
	Notify(ctx context.Context, recipientID uuid.UUID, eventType, title, body, referenceType, referenceID string) error
	GetAll(ctx context.Context, actorID string, unreadOnly bool, page, pageSize int) ([]NotificationResponse, int64, error)
	UnreadCount(ctx context.Context, actorID string) (UnreadCountResponse, error)
	MarkRead(ctx context.Context, actorID, id string) (NotificationResponse, error)
	MarkAllRead(ctx context.Context, actorID string) (UnreadCountResponse, error)
}

type service struct {
	repo     Repository
	registry Registry
	logger   *zap.Logger
}

func NewService(repo Repository, registry Registry, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, registry: registry, logger: l}
}

func (s *service) Notify(ctx context.Context, recipientID uuid.UUID, eventType, title, body, referenceType, referenceID string) error {
	n := &Notification{
		ID:            uuid.New(),
		RecipientID:   recipientID,
		EventType:     eventType,
		Title:         title,
		Body:          body,
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("persist notification failed",
			zap.String("recipient_id", recipientID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}

	// Live subscribers get a push, everyone else catches up from the inbox.
	if s.registry != nil {
		s.registry.Publish(recipientID.String(), mapToResponse(*n))
	}
	return nil
}

func (s *service) GetAll(ctx context.Context, actorID string, unreadOnly bool, page, pageSize int) ([]NotificationResponse, int64, error) {
	notifications, total, err := s.repo.FindByRecipient(ctx, actorID, unreadOnly, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = mapToResponse(n)
	}
	return resp, total, nil
}

func (s *service) UnreadCount(ctx context.Context, actorID string) (UnreadCountResponse, error) {
	count, err := s.repo.CountUnread(ctx, actorID)
	if err != nil {
		return UnreadCountResponse{}, err
	}
	return UnreadCountResponse{Unread: count}, nil
}

func (s *service) MarkRead(ctx context.Context, actorID, id string) (NotificationResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return NotificationResponse{}, notificationerrors.ErrInvalidNotificationID
	}

	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotificationResponse{}, notificationerrors.ErrNotificationNotFound
		}
		return NotificationResponse{}, err
	}

	if n.RecipientID.String() != actorID {
		return NotificationResponse{}, notificationerrors.ErrNotRecipient
	}

	if n.ReadAt == nil {
		now := time.Now().UTC()
		n.ReadAt = &now
		if err := s.repo.Update(ctx, n); err != nil {
			return NotificationResponse{}, err
		}
	}
	return mapToResponse(*n), nil
}

func (s *service) MarkAllRead(ctx context.Context, actorID string) (UnreadCountResponse, error) {
	marked, err := s.repo.MarkAllRead(ctx, actorID)
	if err != nil {
		return UnreadCountResponse{}, err
	}

	s.logger.Info("mark all notifications read",
		zap.String("recipient_id", actorID),
		zap.Int64("marked", marked),
	)
	return UnreadCountResponse{Unread: 0}, nil
}

func mapToResponse(n Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:            n.ID.String(),
		RecipientID:   n.RecipientID.String(),
		EventType:     n.EventType,
		Title:         n.Title,
		Body:          n.Body,
		ReferenceType: n.ReferenceType,
		ReferenceID:   n.ReferenceID,
		Read:          n.IsRead(),
		CreatedAt:     n.CreatedAt.Format(time.RFC3339),
	}
	if n.ReadAt != nil {
		v := n.ReadAt.Format(time.RFC3339)
		resp.ReadAt = &v
	}
	return resp
}
