package basket

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	basketerrors "hrportal/internal/basket/errors"
	"hrportal/internal/catalog"
	"hrportal/internal/files"
	"hrportal/internal/leave"
	leaveerrors "hrportal/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minJustificationLen = 3

type Service interface {
	GetOrCreate(ctx context.Context, employeeID string) (BasketResponse, error)
	AddItem(ctx context.Context, employeeID string, req AddItemRequest) (BasketResponse, error)
	EditItem(ctx context.Context, employeeID string, index int, req EditItemRequest) (BasketResponse, error)
	RemoveItem(ctx context.Context, employeeID string, index int) (BasketResponse, error)
	UpdateItemJustification(ctx context.Context, employeeID string, index int, req UpdateJustificationRequest) (BasketResponse, error)
	AddAttachmentToItem(ctx context.Context, employeeID string, index int, attachment files.Attachment) (BasketResponse, error)
	Clear(ctx context.Context, employeeID string) (BasketResponse, error)
	Submit(ctx context.Context, employeeID, actorRole string) (SubmitResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	leaves leave.Service
	store  files.Store
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, leaves leave.Service, store files.Store, logger ...*zap.Logger) Service {
	l := zap.L().Named("basket.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("basket.service")
	}
	return &service{db: db, repo: repo, leaves: leaves, store: store, logger: l}
}

func (s *service) GetOrCreate(ctx context.Context, employeeID string) (BasketResponse, error) {
	b, err := s.getOrCreate(ctx, employeeID)
	if err != nil {
		return BasketResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) getOrCreate(ctx context.Context, employeeID string) (*Basket, error) {
	empUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	b, err := s.repo.FindActiveByEmployee(ctx, employeeID)
	if err == nil {
		return b, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	b = &Basket{
		ID:         uuid.New(),
		EmployeeID: empUUID,
		Status:     StatusActive,
		Items:      Items{},
	}
	b.Recalculate()

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("basket opened",
		zap.String("basket_id", b.ID.String()),
		zap.String("employee_id", employeeID),
	)
	return b, nil
}

func parseItemDates(reqs []leave.DateEntryRequest) (leave.DateEntries, error) {
	if len(reqs) == 0 {
		return nil, leaveerrors.ErrNoDates
	}
	entries := make(leave.DateEntries, 0, len(reqs))
	for _, d := range reqs {
		day, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, leaveerrors.ErrInvalidDateFormat
		}
		if d.IsHalfDay && d.HalfDayType != leave.HalfDayMorning && d.HalfDayType != leave.HalfDayAfternoon {
			return nil, leaveerrors.ErrInvalidHalfDayType
		}
		entry := leave.DateEntry{Date: day, IsHalfDay: d.IsHalfDay}
		if d.IsHalfDay {
			entry.HalfDayType = d.HalfDayType
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// Regular leave must be booked ahead, at the earliest for tomorrow.
// Exceptional leave regularizes events that already happened.
func validateItemDates(mainCategory string, entries leave.DateEntries) error {
	if mainCategory != catalog.MainRegular {
		return nil
	}
	tomorrow := time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
	for _, e := range entries {
		if e.Date.Before(tomorrow) {
			return basketerrors.ErrPastDate
		}
	}
	return nil
}

func (s *service) AddItem(ctx context.Context, employeeID string, req AddItemRequest) (BasketResponse, error) {
	if err := catalog.Validate(req.MainCategory, req.SubCategory, req.SpecificType); err != nil {
		s.logger.Warn("basket item type rejected",
			zap.String("main_category", req.MainCategory),
			zap.String("sub_category", req.SubCategory),
			zap.String("specific_type", req.SpecificType),
		)
		return BasketResponse{}, err
	}

	entries, err := parseItemDates(req.Dates)
	if err != nil {
		return BasketResponse{}, err
	}
	if err := validateItemDates(req.MainCategory, entries); err != nil {
		return BasketResponse{}, err
	}

	b, err := s.getOrCreate(ctx, employeeID)
	if err != nil {
		return BasketResponse{}, err
	}

	now := time.Now().UTC()
	b.Items = append(b.Items, Item{
		MainCategory:  req.MainCategory,
		SubCategory:   req.SubCategory,
		SpecificType:  req.SpecificType,
		Dates:         entries,
		Justification: strings.TrimSpace(req.Justification),
		Attachments:   []files.Attachment{},
		TotalDays:     entries.TotalDays(),
		AddedAt:       now,
		UpdatedAt:     now,
	})
	b.Recalculate()

	if err := s.repo.Update(ctx, b); err != nil {
		return BasketResponse{}, err
	}

	s.logger.Info("basket item added",
		zap.String("basket_id", b.ID.String()),
		zap.Int("total_items", b.Summary.TotalItems),
	)
	return mapToResponse(*b), nil
}

func (s *service) EditItem(ctx context.Context, employeeID string, index int, req EditItemRequest) (BasketResponse, error) {
	b, err := s.activeBasket(ctx, employeeID)
	if err != nil {
		return BasketResponse{}, err
	}
	if index < 0 || index >= len(b.Items) {
		return BasketResponse{}, basketerrors.ErrInvalidIndex
	}

	item := b.Items[index]
	if req.MainCategory != nil {
		item.MainCategory = *req.MainCategory
	}
	if req.SubCategory != nil {
		item.SubCategory = *req.SubCategory
	}
	if req.SpecificType != nil {
		item.SpecificType = *req.SpecificType
	}
	if req.MainCategory != nil || req.SubCategory != nil || req.SpecificType != nil {
		if err := catalog.Validate(item.MainCategory, item.SubCategory, item.SpecificType); err != nil {
			return BasketResponse{}, err
		}
	}

	if req.Dates != nil {
		entries, err := parseItemDates(req.Dates)
		if err != nil {
			return BasketResponse{}, err
		}
		item.Dates = entries
		item.TotalDays = entries.TotalDays()
	}
	if err := validateItemDates(item.MainCategory, item.Dates); err != nil {
		return BasketResponse{}, err
	}

	if req.Justification != nil {
		item.Justification = strings.TrimSpace(*req.Justification)
	}

	item.UpdatedAt = time.Now().UTC()
	b.Items[index] = item
	b.Recalculate()

	if err := s.repo.Update(ctx, b); err != nil {
		return BasketResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) RemoveItem(ctx context.Context, employeeID string, index int) (BasketResponse, error) {
	b, err := s.activeBasket(ctx, employeeID)
	if err != nil {
		return BasketResponse{}, err
	}
	if index < 0 || index >= len(b.Items) {
		return BasketResponse{}, basketerrors.ErrInvalidIndex
	}

	s.removeAttachments(b.Items[index].Attachments)

	b.Items = append(b.Items[:index], b.Items[index+1:]...)
	b.Recalculate()

	if err := s.repo.Update(ctx, b); err != nil {
		return BasketResponse{}, err
	}

	s.logger.Info("basket item removed",
		zap.String("basket_id", b.ID.String()),
		zap.Int("index", index),
	)
	return mapToResponse(*b), nil
}

func (s *service) UpdateItemJustification(ctx context.Context, employeeID string, index int, req UpdateJustificationRequest) (BasketResponse, error) {
	justification := strings.TrimSpace(req.Justification)
	if len([]rune(justification)) < minJustificationLen {
		return BasketResponse{}, basketerrors.ErrJustificationTooShort
	}

	b, err := s.activeBasket(ctx, employeeID)
	if err != nil {
		return BasketResponse{}, err
	}
	if index < 0 || index >= len(b.Items) {
		return BasketResponse{}, basketerrors.ErrInvalidIndex
	}

	b.Items[index].Justification = justification
	b.Items[index].UpdatedAt = time.Now().UTC()
	b.Recalculate()

	if err := s.repo.Update(ctx, b); err != nil {
		return BasketResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) AddAttachmentToItem(ctx context.Context, employeeID string, index int, attachment files.Attachment) (BasketResponse, error) {
	b, err := s.activeBasket(ctx, employeeID)
	if err != nil {
		return BasketResponse{}, err
	}
	if index < 0 || index >= len(b.Items) {
		return BasketResponse{}, basketerrors.ErrInvalidIndex
	}

	b.Items[index].Attachments = append(b.Items[index].Attachments, attachment)
	b.Items[index].UpdatedAt = time.Now().UTC()
	b.Recalculate()

	if err := s.repo.Update(ctx, b); err != nil {
		return BasketResponse{}, err
	}
	return mapToResponse(*b), nil
}

func (s *service) Clear(ctx context.Context, employeeID string) (BasketResponse, error) {
	b, err := s.activeBasket(ctx, employeeID)
	if err != nil {
		return BasketResponse{}, err
	}

	for _, item := range b.Items {
		s.removeAttachments(item.Attachments)
	}

	now := time.Now().UTC()
	b.Items = Items{}
	b.Status = StatusCleared
	b.ClearedAt = &now
	b.Recalculate()

	if err := s.repo.Update(ctx, b); err != nil {
		return BasketResponse{}, err
	}

	s.logger.Info("basket cleared", zap.String("basket_id", b.ID.String()))
	return mapToResponse(*b), nil
}

// Submit converts every staged item into a pending leave request inside one
// transaction. Either all items convert or the basket stays active untouched.
func (s *service) Submit(ctx context.Context, employeeID, actorRole string) (SubmitResponse, error) {
	b, err := s.activeBasket(ctx, employeeID)
	if err != nil {
		return SubmitResponse{}, err
	}
	if len(b.Items) == 0 {
		return SubmitResponse{}, basketerrors.ErrEmptyBasket
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("submit basket begin tx failed", zap.Error(err))
		return SubmitResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	// Recheck under the transaction so a concurrent submit of the same
	// basket cannot convert the items twice.
	current, err := qtx.FindByID(ctx, b.ID.String())
	if err != nil {
		return SubmitResponse{}, err
	}
	if current.Status != StatusActive {
		return SubmitResponse{}, basketerrors.ErrBasketNotActive
	}

	requests := make([]leave.LeaveResponse, 0, len(b.Items))
	for i, item := range b.Items {
		resp, err := s.leaves.CreateInTx(ctx, tx, employeeID, actorRole, itemToCreateRequest(item))
		if err != nil {
			s.logger.Warn("submit basket item conversion failed",
				zap.String("basket_id", b.ID.String()),
				zap.Int("index", i),
				zap.Error(err),
			)
			return SubmitResponse{}, err
		}
		requests = append(requests, resp)
	}

	now := time.Now().UTC()
	b.Status = StatusSubmitted
	b.SubmittedAt = &now
	b.Recalculate()

	if err := qtx.Update(ctx, b); err != nil {
		s.logger.Error("submit basket persist failed", zap.String("basket_id", b.ID.String()), zap.Error(err))
		return SubmitResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("submit basket commit failed", zap.String("basket_id", b.ID.String()), zap.Error(err))
		return SubmitResponse{}, err
	}

	s.logger.Info("submit basket success",
		zap.String("basket_id", b.ID.String()),
		zap.String("employee_id", employeeID),
		zap.Int("requests", len(requests)),
	)
	return SubmitResponse{Basket: mapToResponse(*b), Requests: requests}, nil
}

// itemToCreateRequest flattens the nested basket taxonomy into the flat type
// field a persisted request carries. For regular leave the sub category is
// the request type; for exceptional leave the group becomes the type and the
// specific type becomes the sub category.
func itemToCreateRequest(item Item) leave.CreateLeaveRequest {
	dates := make([]leave.DateEntryRequest, len(item.Dates))
	for i, d := range item.Dates {
		dates[i] = leave.DateEntryRequest{
			Date:        d.Date.Format("2006-01-02"),
			IsHalfDay:   d.IsHalfDay,
			HalfDayType: d.HalfDayType,
		}
	}

	req := leave.CreateLeaveRequest{
		LeaveType:     item.SubCategory,
		Dates:         dates,
		Justification: item.Justification,
		Attachments:   item.Attachments,
	}
	if item.MainCategory == catalog.MainExceptional {
		req.SubCategory = item.SpecificType
	}
	return req
}

func (s *service) activeBasket(ctx context.Context, employeeID string) (*Basket, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	b, err := s.repo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, basketerrors.ErrBasketNotFound
		}
		return nil, err
	}
	return b, nil
}

func (s *service) removeAttachments(attachments []files.Attachment) {
	if s.store == nil {
		return
	}
	for _, a := range attachments {
		s.store.Remove(a.Filename)
	}
}

func mapToResponse(b Basket) BasketResponse {
	items := b.Items
	if items == nil {
		items = Items{}
	}

	resp := BasketResponse{
		ID:         b.ID.String(),
		EmployeeID: b.EmployeeID.String(),
		Status:     b.Status,
		Items:      items,
		Summary:    b.Summary,
		CreatedAt:  b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  b.UpdatedAt.Format(time.RFC3339),
	}
	if b.SubmittedAt != nil {
		v := b.SubmittedAt.Format(time.RFC3339)
		resp.SubmittedAt = &v
	}
	if b.ClearedAt != nil {
		v := b.ClearedAt.Format(time.RFC3339)
		resp.ClearedAt = &v
	}
	return resp
}
