package question

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"hrportal/internal/employee"
	"hrportal/internal/events"
	"hrportal/internal/files"
	leaveerrors "hrportal/internal/leave/errors"
	"hrportal/internal/messaging/kafka"
	questionerrors "hrportal/internal/question/errors"
	"hrportal/internal/rbac"
	"hrportal/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Directory is the slice of the employee repository the service needs for
// auto-assignment. Satisfied by employee.Repository.
type Directory interface {
	FindNewestActiveByRoles(ctx context.Context, roles []string) (*employee.Employee, error)
}

type Service interface {
	Create(ctx context.Context, actorID string, req CreateQuestionRequest) (QuestionResponse, error)
	GetAll(ctx context.Context, actorID, actorRole string, filter ListFilter, page, pageSize int) ([]QuestionResponse, int64, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (QuestionResponse, error)
	Overdue(ctx context.Context) ([]QuestionResponse, error)
	Stats(ctx context.Context) (QuestionStatsResponse, error)
	Update(ctx context.Context, actorID, actorRole, id string, req UpdateQuestionRequest) (QuestionResponse, error)
	Submit(ctx context.Context, actorID, id string) (QuestionResponse, error)
	AddMessage(ctx context.Context, actorID, actorRole, id string, req AddMessageRequest) (QuestionResponse, error)
	ChangeStatus(ctx context.Context, actorID, actorRole, id string, req ChangeStatusRequest) (QuestionResponse, error)
	Assign(ctx context.Context, actorID, actorRole, id string, req AssignRequest) (QuestionResponse, error)
	AddAttachment(ctx context.Context, actorID, actorRole, id string, attachment files.Attachment) (QuestionResponse, error)
	Delete(ctx context.Context, actorID, actorRole, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	directory Directory
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
}

func NewService(db *sql.DB, repo Repository, directory Directory, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("question.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("question.service")
	}
	return &service{db: db, repo: repo, directory: directory, outbox: outbox, logger: l}
}

func isPrivileged(role string) bool {
	return role == rbac.RoleHR || role == rbac.RoleAdmin
}

func (s *service) Create(ctx context.Context, actorID string, req CreateQuestionRequest) (QuestionResponse, error) {
	if err := ValidateCategory(req.Category, req.SubCategory); err != nil {
		s.logger.Warn("create question category rejected",
			zap.String("category", req.Category),
			zap.String("sub_category", req.SubCategory),
		)
		return QuestionResponse{}, err
	}

	authorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return QuestionResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	var beneficiaryID *uuid.UUID
	if req.BeneficiaryID != "" {
		id, err := uuid.Parse(req.BeneficiaryID)
		if err != nil {
			return QuestionResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
		beneficiaryID = &id
	}

	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}
	emailNotifications := true
	if req.EmailNotifications != nil {
		emailNotifications = *req.EmailNotifications
	}

	q := &HRQuestion{
		ID:                 uuid.New(),
		AuthorID:           authorUUID,
		BeneficiaryID:      beneficiaryID,
		Category:           req.Category,
		SubCategory:        req.SubCategory,
		Title:              strings.TrimSpace(req.Title),
		Description:        strings.TrimSpace(req.Description),
		Status:             StatusSubmitted,
		Priority:           priority,
		NotifyBeneficiary:  req.NotifyBeneficiary,
		EmailNotifications: emailNotifications,
		Attachments:        Attachments{},
		Conversations:      Conversations{},
		StatusHistory:      StatusHistory{},
	}
	if req.Draft {
		q.Status = StatusDraft
	} else {
		q.ResetDeadline()
		s.autoAssign(ctx, q)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create question begin tx failed", zap.Error(err))
		return QuestionResponse{}, err
	}
	defer tx.Rollback()

	if err := s.repo.WithTx(tx).Create(ctx, q); err != nil {
		s.logger.Error("create question persist failed", zap.Error(err))
		return QuestionResponse{}, err
	}

	if q.Status == StatusSubmitted {
		if err := s.enqueueEvent(ctx, tx, q, events.QuestionSubmitted); err != nil {
			return QuestionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create question commit failed", zap.Error(err))
		return QuestionResponse{}, err
	}

	s.logger.Info("create question success",
		zap.String("question_id", q.ID.String()),
		zap.String("author_id", actorID),
		zap.String("status", q.Status),
	)
	return mapToResponse(*q, true), nil
}

// autoAssign routes new submissions to the newest active HR member. No HR
// on file just leaves the question unassigned for manual pickup.
func (s *service) autoAssign(ctx context.Context, q *HRQuestion) {
	hr, err := s.directory.FindNewestActiveByRoles(ctx, []string{rbac.RoleHR})
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			s.logger.Warn("question auto-assign lookup failed", zap.Error(err))
		}
		return
	}
	q.AssignedTo = &hr.ID
}

func (s *service) GetAll(ctx context.Context, actorID, actorRole string, filter ListFilter, page, pageSize int) ([]QuestionResponse, int64, error) {
	if !isPrivileged(actorRole) {
		filter.AuthorID = actorID
	}

	questions, total, err := s.repo.FindAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		resp[i] = mapToResponse(q, s.canSeeInternal(&q, actorID, actorRole))
	}
	return resp, total, nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (QuestionResponse, error) {
	q, err := s.find(ctx, s.repo, id)
	if err != nil {
		return QuestionResponse{}, err
	}

	if !s.canView(q, actorID, actorRole) {
		return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
	}
	return mapToResponse(*q, s.canSeeInternal(q, actorID, actorRole)), nil
}

// Overdue lists submitted questions whose answer deadline has passed.
// Staff endpoint, internal notes stay visible.
func (s *service) Overdue(ctx context.Context) ([]QuestionResponse, error) {
	questions, err := s.repo.FindOverdue(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]QuestionResponse, len(questions))
	for i, q := range questions {
		resp[i] = mapToResponse(q, true)
	}
	return resp, nil
}

func (s *service) Stats(ctx context.Context) (QuestionStatsResponse, error) {
	byStatus, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return QuestionStatsResponse{}, err
	}
	byCategory, err := s.repo.CountByCategory(ctx)
	if err != nil {
		return QuestionStatsResponse{}, err
	}
	overdue, err := s.repo.FindOverdue(ctx)
	if err != nil {
		return QuestionStatsResponse{}, err
	}

	stats := QuestionStatsResponse{
		Overdue:    int64(len(overdue)),
		ByStatus:   byStatus,
		ByCategory: byCategory,
	}
	for _, count := range byStatus {
		stats.Total += count
	}
	return stats, nil
}

// Update applies a role-scoped field whitelist. Content fields belong to
// the author and only while the question is still a draft. Priority may
// also be adjusted by staff on a live question.
func (s *service) Update(ctx context.Context, actorID, actorRole, id string, req UpdateQuestionRequest) (QuestionResponse, error) {
	q, err := s.find(ctx, s.repo, id)
	if err != nil {
		return QuestionResponse{}, err
	}

	isAuthor := q.AuthorID.String() == actorID
	if !isAuthor && !isPrivileged(actorRole) {
		return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
	}

	contentEdit := req.Title != nil || req.Description != nil ||
		req.Category != nil || req.SubCategory != nil ||
		req.EmailNotifications != nil
	if contentEdit {
		if !isAuthor {
			return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
		}
		if q.Status != StatusDraft {
			return QuestionResponse{}, questionerrors.ErrNotDraft
		}

		if req.Category != nil || req.SubCategory != nil {
			category := q.Category
			subCategory := q.SubCategory
			if req.Category != nil {
				category = *req.Category
			}
			if req.SubCategory != nil {
				subCategory = *req.SubCategory
			}
			if err := ValidateCategory(category, subCategory); err != nil {
				return QuestionResponse{}, err
			}
			q.Category = category
			q.SubCategory = subCategory
		}
		if req.Title != nil {
			q.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			q.Description = strings.TrimSpace(*req.Description)
		}
		if req.EmailNotifications != nil {
			q.EmailNotifications = *req.EmailNotifications
		}
	}

	if req.Priority != nil {
		if !isPrivileged(actorRole) && q.Status != StatusDraft {
			return QuestionResponse{}, questionerrors.ErrNotDraft
		}
		q.Priority = *req.Priority
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return QuestionResponse{}, err
	}

	s.logger.Info("update question success", zap.String("question_id", id))
	return mapToResponse(*q, s.canSeeInternal(q, actorID, actorRole)), nil
}

func (s *service) Submit(ctx context.Context, actorID, id string) (QuestionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return QuestionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	q, err := s.find(ctx, qtx, id)
	if err != nil {
		return QuestionResponse{}, err
	}

	if q.AuthorID.String() != actorID {
		return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
	}
	if q.Status != StatusDraft {
		return QuestionResponse{}, questionerrors.ErrNotDraft
	}

	if err := q.ChangeStatus(StatusSubmitted, actorID, ""); err != nil {
		return QuestionResponse{}, err
	}
	q.ResetDeadline()
	s.autoAssign(ctx, q)

	if err := qtx.Update(ctx, q); err != nil {
		return QuestionResponse{}, err
	}
	if err := s.enqueueEvent(ctx, tx, q, events.QuestionSubmitted); err != nil {
		return QuestionResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return QuestionResponse{}, err
	}

	s.logger.Info("submit question success", zap.String("question_id", id))
	return mapToResponse(*q, true), nil
}

func (s *service) AddMessage(ctx context.Context, actorID, actorRole, id string, req AddMessageRequest) (QuestionResponse, error) {
	if req.IsInternal && !isPrivileged(actorRole) {
		return QuestionResponse{}, questionerrors.ErrInternalMessageForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return QuestionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	q, err := s.find(ctx, qtx, id)
	if err != nil {
		return QuestionResponse{}, err
	}

	if !s.canView(q, actorID, actorRole) {
		return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
	}

	q.AddMessage(actorID, strings.TrimSpace(req.Message), req.IsInternal)

	isAuthor := q.AuthorID.String() == actorID
	if isAuthor {
		// Author activity restarts the HR answer clock.
		q.ResetDeadline()
	} else if isPrivileged(actorRole) && q.Status == StatusSubmitted {
		// First staff reply moves the ticket into review.
		if err := q.ChangeStatus(StatusInReview, actorID, ""); err != nil {
			return QuestionResponse{}, err
		}
	}

	if err := qtx.Update(ctx, q); err != nil {
		return QuestionResponse{}, err
	}

	if !req.IsInternal && !isAuthor {
		if err := s.enqueueEvent(ctx, tx, q, events.QuestionReplied); err != nil {
			return QuestionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return QuestionResponse{}, err
	}
	return mapToResponse(*q, s.canSeeInternal(q, actorID, actorRole)), nil
}

func (s *service) ChangeStatus(ctx context.Context, actorID, actorRole, id string, req ChangeStatusRequest) (QuestionResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return QuestionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	q, err := s.find(ctx, qtx, id)
	if err != nil {
		return QuestionResponse{}, err
	}

	isAuthor := q.AuthorID.String() == actorID
	switch {
	case isPrivileged(actorRole) || s.isAssignee(q, actorID):
		// Staff may drive the whole lifecycle.
	case isAuthor && req.Status == StatusCancelled:
		// Authors may withdraw their own question.
	default:
		return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
	}

	if err := q.ChangeStatus(req.Status, actorID, strings.TrimSpace(req.Reason)); err != nil {
		return QuestionResponse{}, err
	}

	if err := qtx.Update(ctx, q); err != nil {
		return QuestionResponse{}, err
	}

	var eventType string
	switch req.Status {
	case StatusAnswered:
		eventType = events.QuestionAnswered
	case StatusClosed:
		eventType = events.QuestionClosed
	}
	if eventType != "" {
		if err := s.enqueueEvent(ctx, tx, q, eventType); err != nil {
			return QuestionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return QuestionResponse{}, err
	}

	s.logger.Info("question status changed",
		zap.String("question_id", id),
		zap.String("status", req.Status),
	)
	return mapToResponse(*q, s.canSeeInternal(q, actorID, actorRole)), nil
}

func (s *service) Assign(ctx context.Context, actorID, actorRole, id string, req AssignRequest) (QuestionResponse, error) {
	if !isPrivileged(actorRole) {
		return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
	}

	q, err := s.find(ctx, s.repo, id)
	if err != nil {
		return QuestionResponse{}, err
	}

	assigneeUUID, err := uuid.Parse(req.AssignedTo)
	if err != nil {
		return QuestionResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	q.AssignedTo = &assigneeUUID
	q.AddMessage(actorID, "Question assignée à un nouveau responsable", true)

	if err := s.repo.Update(ctx, q); err != nil {
		return QuestionResponse{}, err
	}
	return mapToResponse(*q, true), nil
}

// AddAttachment links an already-stored file to the question.
func (s *service) AddAttachment(ctx context.Context, actorID, actorRole, id string, attachment files.Attachment) (QuestionResponse, error) {
	q, err := s.find(ctx, s.repo, id)
	if err != nil {
		return QuestionResponse{}, err
	}

	if !s.canView(q, actorID, actorRole) {
		return QuestionResponse{}, questionerrors.ErrNotQuestionAuthor
	}

	q.Attachments = append(q.Attachments, attachment)

	if err := s.repo.Update(ctx, q); err != nil {
		return QuestionResponse{}, err
	}
	return mapToResponse(*q, s.canSeeInternal(q, actorID, actorRole)), nil
}

func (s *service) Delete(ctx context.Context, actorID, actorRole, id string) error {
	q, err := s.find(ctx, s.repo, id)
	if err != nil {
		return err
	}

	if q.AuthorID.String() != actorID && actorRole != rbac.RoleAdmin {
		return questionerrors.ErrNotQuestionAuthor
	}
	if q.Status != StatusDraft {
		return questionerrors.ErrDraftOnlyDeletion
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("delete question success", zap.String("question_id", id))
	return nil
}

func (s *service) find(ctx context.Context, repo Repository, id string) (*HRQuestion, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, questionerrors.ErrInvalidQuestionID
	}
	q, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, questionerrors.ErrQuestionNotFound
		}
		return nil, err
	}
	return q, nil
}

func (s *service) canView(q *HRQuestion, actorID, actorRole string) bool {
	if isPrivileged(actorRole) || s.isAssignee(q, actorID) {
		return true
	}
	if q.AuthorID.String() == actorID {
		return true
	}
	return q.BeneficiaryID != nil && q.BeneficiaryID.String() == actorID
}

func (s *service) canSeeInternal(q *HRQuestion, actorID, actorRole string) bool {
	return isPrivileged(actorRole) || s.isAssignee(q, actorID)
}

func (s *service) isAssignee(q *HRQuestion, actorID string) bool {
	return q.AssignedTo != nil && q.AssignedTo.String() == actorID
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, q *HRQuestion, eventType string) error {
	assignedTo := ""
	if q.AssignedTo != nil {
		assignedTo = q.AssignedTo.String()
	}

	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"hr_question",
		q.ID.String(),
		eventType,
		events.QuestionLifecycleTopic,
		events.QuestionStatusChangedEvent{
			EventType:  eventType,
			QuestionID: q.ID.String(),
			AuthorID:   q.AuthorID.String(),
			AssignedTo: assignedTo,
			Category:   q.Category,
			Status:     q.Status,
			OccurredAt: time.Now().UTC(),
		},
	)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("enqueue question event failed",
			zap.String("question_id", q.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func mapToResponse(q HRQuestion, withInternal bool) QuestionResponse {
	conversations := make(Conversations, 0, len(q.Conversations))
	for _, m := range q.Conversations {
		if m.IsInternal && !withInternal {
			continue
		}
		conversations = append(conversations, m)
	}

	attachments := q.Attachments
	if attachments == nil {
		attachments = Attachments{}
	}
	history := q.StatusHistory
	if history == nil {
		history = StatusHistory{}
	}

	resp := QuestionResponse{
		ID:                 q.ID.String(),
		AuthorID:           q.AuthorID.String(),
		Category:           q.Category,
		SubCategory:        q.SubCategory,
		Title:              q.Title,
		Description:        q.Description,
		Status:             q.Status,
		Priority:           q.Priority,
		NotifyBeneficiary:  q.NotifyBeneficiary,
		EmailNotifications: q.EmailNotifications,
		Attachments:        attachments,
		Conversations:      conversations,
		StatusHistory:      history,
		Overdue:            q.IsOverdue(),
		CreatedAt:          q.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          q.UpdatedAt.Format(time.RFC3339),
	}

	if q.BeneficiaryID != nil {
		v := q.BeneficiaryID.String()
		resp.BeneficiaryID = &v
	}
	if q.AssignedTo != nil {
		v := q.AssignedTo.String()
		resp.AssignedTo = &v
	}
	if q.ResponseDeadline != nil {
		v := q.ResponseDeadline.Format(time.RFC3339)
		resp.ResponseDeadline = &v
	}
	if q.AnsweredAt != nil {
		v := q.AnsweredAt.Format(time.RFC3339)
		resp.AnsweredAt = &v
	}
	if q.ClosedAt != nil {
		v := q.ClosedAt.Format(time.RFC3339)
		resp.ClosedAt = &v
	}
	return resp
}
