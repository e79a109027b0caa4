package leave

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"hrportal/internal/catalog"
	"hrportal/internal/events"
	"hrportal/internal/files"
	"hrportal/internal/ledger"
	ledgererrors "hrportal/internal/ledger/errors"
	leaveerrors "hrportal/internal/leave/errors"
	"hrportal/internal/messaging/kafka"
	"hrportal/internal/rbac"
	"hrportal/internal/shared/contextutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const minRejectionReasonLen = 10

type Service interface {
	Create(ctx context.Context, actorID, actorRole string, req CreateLeaveRequest) (LeaveResponse, error)
	CreateInTx(ctx context.Context, tx *sql.Tx, actorID, actorRole string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actorID, actorRole string, filter ListFilter, page, pageSize int) ([]LeaveResponse, int64, error)
	GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error)
	PendingApprovals(ctx context.Context, approverID string) ([]LeaveResponse, error)
	Calendar(ctx context.Context, actorID, actorRole string, start, end time.Time, employeeID string) ([]LeaveResponse, error)
	History(ctx context.Context, actorID, actorRole, id string) ([]ChangeRecordResponse, error)
	Update(ctx context.Context, actorID, actorRole, id string, req UpdateLeaveRequest) (LeaveResponse, error)
	Approve(ctx context.Context, actorID, actorRole, id string, req ApproveLeaveRequest) (LeaveResponse, error)
	Reject(ctx context.Context, actorID, actorRole, id string, req RejectLeaveRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, actorID, actorRole, id string, req CancelLeaveRequest) (LeaveResponse, error)
	AddComment(ctx context.Context, actorID, actorRole, id string, req AddCommentRequest) (LeaveResponse, error)
	AddAttachment(ctx context.Context, actorID, actorRole, id string, attachment files.Attachment) (LeaveResponse, error)
	Delete(ctx context.Context, actorID, actorRole, id string) error
}

type service struct {
	db        *sql.DB
	repo      Repository
	employees EmployeeDirectory
	resolver  *ApproverResolver
	ledger    ledger.Service
	outbox    kafka.OutboxRepository
	store     files.Store
	logger    *zap.Logger
}

func NewService(
	db *sql.DB,
	repo Repository,
	employees EmployeeDirectory,
	resolver *ApproverResolver,
	ledgerSvc ledger.Service,
	outbox kafka.OutboxRepository,
	store files.Store,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		employees: employees,
		resolver:  resolver,
		ledger:    ledgerSvc,
		outbox:    outbox,
		store:     store,
		logger:    l,
	}
}

func isPrivileged(role string) bool {
	return role == rbac.RoleHR || role == rbac.RoleAdmin
}

func parseDateEntries(reqs []DateEntryRequest) (DateEntries, error) {
	if len(reqs) == 0 {
		return nil, leaveerrors.ErrNoDates
	}
	entries := make(DateEntries, 0, len(reqs))
	for _, d := range reqs {
		day, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			return nil, leaveerrors.ErrInvalidDateFormat
		}
		if d.IsHalfDay && d.HalfDayType != HalfDayMorning && d.HalfDayType != HalfDayAfternoon {
			return nil, leaveerrors.ErrInvalidHalfDayType
		}
		entry := DateEntry{Date: day, IsHalfDay: d.IsHalfDay}
		if d.IsHalfDay {
			entry.HalfDayType = d.HalfDayType
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// formatDateList renders a date list for the change history, one entry per
// date with its half-day marker.
func formatDateList(entries DateEntries) string {
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Date.Format("2006-01-02")
		if e.IsHalfDay {
			parts[i] += " (" + e.HalfDayType + ")"
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func validateNoPastDates(entries DateEntries, leaveType string) error {
	if catalog.AllowsBackdate(leaveType) {
		return nil
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, e := range entries {
		if e.Date.Before(today) {
			return leaveerrors.ErrPastDate
		}
	}
	return nil
}

func (s *service) Create(ctx context.Context, actorID, actorRole string, req CreateLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("create leave requested",
		zap.String("actor_id", actorID),
		zap.String("leave_type", req.LeaveType),
	)

	if err := catalog.ValidateRequestType(req.LeaveType, req.SubCategory); err != nil {
		s.logger.Warn("create leave type rejected",
			zap.String("leave_type", req.LeaveType),
			zap.String("sub_category", req.SubCategory),
		)
		return LeaveResponse{}, err
	}

	entries, err := parseDateEntries(req.Dates)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := validateNoPastDates(entries, req.LeaveType); err != nil {
		return LeaveResponse{}, err
	}
	totalDays := entries.TotalDays()

	targetID := actorID
	if req.EmployeeID != "" && req.EmployeeID != actorID {
		if !isPrivileged(actorRole) {
			return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
		}
		targetID = req.EmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	resp, err := s.createValidated(ctx, tx, actorID, targetID, designatedApprover(actorRole, req), entries, totalDays, req)
	if err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create leave commit failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("create leave success",
		zap.String("leave_id", resp.ID),
		zap.String("employee_id", targetID),
		zap.String("approver_id", resp.ApproverID),
		zap.Float64("total_days", totalDays),
	)
	return resp, nil
}

// CreateInTx runs the full creation flow on a caller-owned transaction and
// never commits. The basket submit loop uses it to convert every staged item
// or none of them.
func (s *service) CreateInTx(ctx context.Context, tx *sql.Tx, actorID, actorRole string, req CreateLeaveRequest) (LeaveResponse, error) {
	if err := catalog.ValidateRequestType(req.LeaveType, req.SubCategory); err != nil {
		return LeaveResponse{}, err
	}

	entries, err := parseDateEntries(req.Dates)
	if err != nil {
		return LeaveResponse{}, err
	}
	if err := validateNoPastDates(entries, req.LeaveType); err != nil {
		return LeaveResponse{}, err
	}

	targetID := actorID
	if req.EmployeeID != "" && req.EmployeeID != actorID {
		if !isPrivileged(actorRole) {
			return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
		}
		targetID = req.EmployeeID
	}

	return s.createValidated(ctx, tx, actorID, targetID, designatedApprover(actorRole, req), entries, entries.TotalDays(), req)
}

// designatedApprover returns the explicit approver designation, which only
// HR and admin actors may make.
func designatedApprover(actorRole string, req CreateLeaveRequest) string {
	if req.ApproverID != "" && isPrivileged(actorRole) {
		return req.ApproverID
	}
	return ""
}

func (s *service) createValidated(ctx context.Context, tx *sql.Tx, actorID, targetID, designatedID string, entries DateEntries, totalDays float64, req CreateLeaveRequest) (LeaveResponse, error) {
	qtx := s.repo.WithTx(tx)
	qledger := s.ledger.WithTx(tx)

	emp, err := s.employees.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
		return LeaveResponse{}, err
	}

	bucket := catalog.DebitBucket(req.LeaveType)
	ok, err := qledger.HasCapacity(ctx, targetID, bucket, totalDays)
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		s.logger.Warn("create leave insufficient balance",
			zap.String("employee_id", targetID),
			zap.Float64("total_days", totalDays),
		)
		return LeaveResponse{}, ledgererrors.ErrInsufficientBalance
	}

	approverID, err := s.resolver.Resolve(ctx, emp, req.LeaveType, designatedID)
	if err != nil {
		return LeaveResponse{}, err
	}
	approverUUID, err := uuid.Parse(approverID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrNoApproverFound
	}

	snapshot, err := qledger.Snapshot(ctx, targetID)
	if err != nil {
		return LeaveResponse{}, err
	}

	deadline := req.ResponseDeadline
	if deadline == 0 {
		deadline = 7
	}
	priority := req.Priority
	if priority == "" {
		priority = "normal"
	}
	attachments := Attachments{}
	if len(req.Attachments) > 0 {
		attachments = Attachments(req.Attachments)
	}

	l := &LeaveRequest{
		ID:               uuid.New(),
		EmployeeID:       emp.ID,
		ApproverID:       approverUUID,
		LeaveType:        req.LeaveType,
		SubCategory:      req.SubCategory,
		Dates:            entries,
		TotalDays:        totalDays,
		Status:           StatusPending,
		Justification:    strings.TrimSpace(req.Justification),
		Comments:         Comments{},
		Attachments:      attachments,
		ResponseDeadline: deadline,
		Priority:         priority,
		BalanceSnapshot:  BalanceSnapshot(snapshot),
		ChangeHistory:    ChangeHistory{},
	}
	l.RecordChange(actorID, "create", "")

	if err := qtx.Create(ctx, l); err != nil {
		s.logger.Error("create leave persist failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, l, events.LeaveCreated, ""); err != nil {
		return LeaveResponse{}, err
	}

	return mapToResponse(*l), nil
}

func (s *service) GetAll(ctx context.Context, actorID, actorRole string, filter ListFilter, page, pageSize int) ([]LeaveResponse, int64, error) {
	// Non-privileged callers see their own requests. A manager may also
	// scope the list to an employee they oversee.
	if !isPrivileged(actorRole) {
		overseen := actorRole == rbac.RoleManager &&
			filter.EmployeeID != "" && filter.EmployeeID != actorID &&
			s.oversees(ctx, actorID, filter.EmployeeID)
		if !overseen {
			filter.EmployeeID = actorID
		}
	}

	leaves, total, err := s.repo.FindAll(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return mapToListResponse(leaves), total, nil
}

func (s *service) GetByID(ctx context.Context, actorID, actorRole, id string) (LeaveResponse, error) {
	l, err := s.find(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !s.canView(ctx, l, actorID, actorRole) {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	return mapToResponse(*l), nil
}

func (s *service) PendingApprovals(ctx context.Context, approverID string) ([]LeaveResponse, error) {
	leaves, err := s.repo.FindPendingByApprover(ctx, approverID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

// Calendar lists approved absences overlapping the window, scoped like
// GetAll: employees see their own, a manager also an employee they oversee,
// hr and admin anyone.
func (s *service) Calendar(ctx context.Context, actorID, actorRole string, start, end time.Time, employeeID string) ([]LeaveResponse, error) {
	if end.Before(start) {
		return nil, leaveerrors.ErrInvalidDateRange
	}

	if !isPrivileged(actorRole) {
		overseen := actorRole == rbac.RoleManager &&
			employeeID != "" && employeeID != actorID &&
			s.oversees(ctx, actorID, employeeID)
		if !overseen {
			employeeID = actorID
		}
	}

	leaves, err := s.repo.FindApprovedBetweenDates(ctx, start, end, employeeID)
	if err != nil {
		return nil, err
	}
	return mapToListResponse(leaves), nil
}

func (s *service) Approve(ctx context.Context, actorID, actorRole, id string, req ApproveLeaveRequest) (LeaveResponse, error) {
	s.logger.Debug("approve leave requested",
		zap.String("leave_id", id),
		zap.String("actor_id", actorID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("approve leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)
	qledger := s.ledger.WithTx(tx)

	l, err := s.find(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !s.canDecide(ctx, l, actorID, actorRole) {
		return LeaveResponse{}, leaveerrors.ErrNotRequestApprover
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	// Balance is re-validated here by the guarded debit, so a stale
	// snapshot from creation time can never approve into the negative.
	bucket := catalog.DebitBucket(l.LeaveType)
	if err := qledger.Debit(ctx, l.EmployeeID.String(), bucket, l.TotalDays); err != nil {
		return LeaveResponse{}, err
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	now := time.Now().UTC()
	l.Status = StatusApproved
	l.ApprovedAt = &now
	l.ApprovedBy = &actorUUID
	if req.Comments != "" {
		l.AddComment(actorID, req.Comments, false)
	}
	l.RecordChange(actorID, "approve", "")

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("approve leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, l, events.LeaveApproved, ""); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("approve leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("approve leave success",
		zap.String("leave_id", id),
		zap.String("employee_id", l.EmployeeID.String()),
		zap.Float64("total_days", l.TotalDays),
	)
	return mapToResponse(*l), nil
}

func (s *service) Reject(ctx context.Context, actorID, actorRole, id string, req RejectLeaveRequest) (LeaveResponse, error) {
	reason := strings.TrimSpace(req.Reason)
	if len([]rune(reason)) < minRejectionReasonLen {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonTooShort
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("reject leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.find(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !s.canDecide(ctx, l, actorID, actorRole) {
		return LeaveResponse{}, leaveerrors.ErrNotRequestApprover
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	now := time.Now().UTC()
	l.Status = StatusRejected
	l.RejectedAt = &now
	l.RejectedBy = &actorUUID
	l.RejectionReason = reason
	if req.Comments != "" {
		l.AddComment(actorID, req.Comments, false)
	}
	l.RecordChange(actorID, "reject", reason)

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("reject leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, l, events.LeaveRejected, reason); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("reject leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("reject leave success", zap.String("leave_id", id))
	return mapToResponse(*l), nil
}

func (s *service) Cancel(ctx context.Context, actorID, actorRole, id string, req CancelLeaveRequest) (LeaveResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("cancel leave begin tx failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	l, err := s.find(ctx, qtx, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	// Only the employee may withdraw their own request. The approver's
	// options are approve or reject, never cancel on the employee's behalf.
	if l.EmployeeID.String() != actorID && !isPrivileged(actorRole) {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if !isAllowedStatusTransition(l.Status, StatusCancelled) {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotPending
	}

	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	now := time.Now().UTC()
	l.Status = StatusCancelled
	l.CancelledAt = &now
	l.CancelledBy = &actorUUID
	l.RecordChange(actorID, "cancel", strings.TrimSpace(req.Reason))

	if err := qtx.Update(ctx, l); err != nil {
		s.logger.Error("cancel leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	if err := s.enqueueEvent(ctx, tx, l, events.LeaveCancelled, req.Reason); err != nil {
		return LeaveResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("cancel leave commit failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("cancel leave success", zap.String("leave_id", id))
	return mapToResponse(*l), nil
}

func (s *service) AddComment(ctx context.Context, actorID, actorRole, id string, req AddCommentRequest) (LeaveResponse, error) {
	l, err := s.find(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if !s.canView(ctx, l, actorID, actorRole) {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}

	l.AddComment(actorID, strings.TrimSpace(req.Content), req.IsPrivate)
	l.RecordChange(actorID, "comment", "")

	if err := s.repo.Update(ctx, l); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

func (s *service) History(ctx context.Context, actorID, actorRole, id string) ([]ChangeRecordResponse, error) {
	l, err := s.find(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}

	if !s.canView(ctx, l, actorID, actorRole) {
		return nil, leaveerrors.ErrNotRequestOwner
	}

	history := make([]ChangeRecordResponse, len(l.ChangeHistory))
	for i, r := range l.ChangeHistory {
		history[i] = ChangeRecordResponse{
			ChangedBy:  r.ChangedBy,
			ChangeType: r.ChangeType,
			Reason:     r.Reason,
			Timestamp:  r.Timestamp.Format(time.RFC3339),
		}
	}
	return history, nil
}

// Update rewrites the mutable content of a request. Only the owner may
// touch it, only while pending. Admins are exempt from the pending guard.
// Every effective change lands in the mutation log with its before and
// after values.
func (s *service) Update(ctx context.Context, actorID, actorRole, id string, req UpdateLeaveRequest) (LeaveResponse, error) {
	l, err := s.find(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if l.EmployeeID.String() != actorID && actorRole != rbac.RoleAdmin {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending && actorRole != rbac.RoleAdmin {
		return LeaveResponse{}, leaveerrors.ErrProcessedImmutable
	}

	var changes []string
	if req.Justification != nil {
		next := strings.TrimSpace(*req.Justification)
		if next != l.Justification {
			changes = append(changes, fmt.Sprintf("justification: %q -> %q", l.Justification, next))
			l.Justification = next
		}
	}
	if req.Priority != nil && *req.Priority != l.Priority {
		changes = append(changes, fmt.Sprintf("priority: %s -> %s", l.Priority, *req.Priority))
		l.Priority = *req.Priority
	}
	if req.ResponseDeadline != nil && *req.ResponseDeadline != l.ResponseDeadline {
		changes = append(changes, fmt.Sprintf("response_deadline: %d -> %d", l.ResponseDeadline, *req.ResponseDeadline))
		l.ResponseDeadline = *req.ResponseDeadline
	}
	if len(req.Dates) > 0 {
		entries, err := parseDateEntries(req.Dates)
		if err != nil {
			return LeaveResponse{}, err
		}
		if err := validateNoPastDates(entries, l.LeaveType); err != nil {
			return LeaveResponse{}, err
		}
		changes = append(changes,
			fmt.Sprintf("dates: %s -> %s", formatDateList(l.Dates), formatDateList(entries)),
			fmt.Sprintf("total_days: %.1f -> %.1f", l.TotalDays, entries.TotalDays()),
		)
		l.Dates = entries
		l.TotalDays = entries.TotalDays()
	}

	if len(changes) == 0 {
		return mapToResponse(*l), nil
	}

	l.RecordChange(actorID, "update", strings.Join(changes, "; "))

	if err := s.repo.Update(ctx, l); err != nil {
		s.logger.Error("update leave persist failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}

	s.logger.Info("update leave success",
		zap.String("leave_id", id),
		zap.Int("changed_fields", len(changes)),
	)
	return mapToResponse(*l), nil
}

// AddAttachment links an already-stored file to a pending request.
func (s *service) AddAttachment(ctx context.Context, actorID, actorRole, id string, attachment files.Attachment) (LeaveResponse, error) {
	l, err := s.find(ctx, s.repo, id)
	if err != nil {
		return LeaveResponse{}, err
	}

	if l.EmployeeID.String() != actorID && !isPrivileged(actorRole) {
		return LeaveResponse{}, leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrProcessedImmutable
	}

	l.Attachments = append(l.Attachments, attachment)
	l.RecordChange(actorID, "attachment", attachment.OriginalName)

	if err := s.repo.Update(ctx, l); err != nil {
		return LeaveResponse{}, err
	}
	return mapToResponse(*l), nil
}

// Delete removes a still-pending draft. Processed requests are history and
// must stay. Attachment files are removed best effort.
func (s *service) Delete(ctx context.Context, actorID, actorRole, id string) error {
	l, err := s.find(ctx, s.repo, id)
	if err != nil {
		return err
	}

	if l.EmployeeID.String() != actorID && actorRole != rbac.RoleAdmin {
		return leaveerrors.ErrNotRequestOwner
	}
	if l.Status != StatusPending {
		return leaveerrors.ErrProcessedImmutable
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.store != nil {
		for _, a := range l.Attachments {
			s.store.Remove(a.Filename)
		}
	}

	s.logger.Info("delete leave success", zap.String("leave_id", id))
	return nil
}

func (s *service) find(ctx context.Context, repo Repository, id string) (*LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, leaveerrors.ErrInvalidLeaveID
	}
	l, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, leaveerrors.ErrLeaveNotFound
		}
		return nil, err
	}
	return l, nil
}

func (s *service) canView(ctx context.Context, l *LeaveRequest, actorID, actorRole string) bool {
	if l.EmployeeID.String() == actorID ||
		l.ApproverID.String() == actorID ||
		isPrivileged(actorRole) {
		return true
	}
	if actorRole != rbac.RoleManager {
		return false
	}
	return s.oversees(ctx, actorID, l.EmployeeID.String())
}

// canDecide gates approval and rejection. Admins always may. Exceptional
// leave is reserved to hr and admin. Regular leave is decided by the
// assigned approver, or by a co-lead of the employee's team within the
// team's day ceiling.
func (s *service) canDecide(ctx context.Context, l *LeaveRequest, actorID, actorRole string) bool {
	if actorRole == rbac.RoleAdmin {
		return true
	}
	if catalog.IsExceptional(l.LeaveType) {
		return actorRole == rbac.RoleHR
	}
	if l.ApproverID.String() == actorID {
		return true
	}
	emp, err := s.employees.FindByID(ctx, l.EmployeeID.String())
	if err != nil {
		return false
	}
	return s.resolver.CanCoApprove(ctx, emp, actorID, l.TotalDays)
}

func (s *service) oversees(ctx context.Context, actorID, employeeID string) bool {
	emp, err := s.employees.FindByID(ctx, employeeID)
	if err != nil {
		return false
	}
	return s.resolver.Oversees(ctx, emp, actorID)
}

func (s *service) enqueueEvent(ctx context.Context, tx *sql.Tx, l *LeaveRequest, eventType, reason string) error {
	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		"leave_request",
		l.ID.String(),
		eventType,
		events.LeaveLifecycleTopic,
		events.LeaveStatusChangedEvent{
			EventType:  eventType,
			LeaveID:    l.ID.String(),
			EmployeeID: l.EmployeeID.String(),
			ApproverID: l.ApproverID.String(),
			LeaveType:  l.LeaveType,
			TotalDays:  l.TotalDays,
			Status:     l.Status,
			Reason:     reason,
			OccurredAt: time.Now().UTC(),
		},
	)
	if err != nil {
		return err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, event); err != nil {
		s.logger.Error("enqueue leave event failed",
			zap.String("leave_id", l.ID.String()),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func mapToResponse(l LeaveRequest) LeaveResponse {
	dates := make([]DateEntryResponse, len(l.Dates))
	for i, d := range l.Dates {
		dates[i] = DateEntryResponse{
			Date:        d.Date.Format("2006-01-02"),
			IsHalfDay:   d.IsHalfDay,
			HalfDayType: d.HalfDayType,
		}
	}

	comments := l.Comments
	if comments == nil {
		comments = Comments{}
	}
	attachments := l.Attachments
	if attachments == nil {
		attachments = Attachments{}
	}

	resp := LeaveResponse{
		ID:               l.ID.String(),
		EmployeeID:       l.EmployeeID.String(),
		ApproverID:       l.ApproverID.String(),
		LeaveType:        l.LeaveType,
		SubCategory:      l.SubCategory,
		Dates:            dates,
		TotalDays:        l.TotalDays,
		Status:           l.Status,
		Justification:    l.Justification,
		Comments:         comments,
		Attachments:      attachments,
		ResponseDeadline: l.ResponseDeadline,
		Priority:         l.Priority,
		RejectionReason:  l.RejectionReason,
		BalanceSnapshot:  l.BalanceSnapshot,
		CreatedAt:        l.CreatedAt.Format(time.RFC3339),
	}

	if l.ApprovedAt != nil {
		v := l.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.RejectedAt != nil {
		v := l.RejectedAt.Format(time.RFC3339)
		resp.RejectedAt = &v
	}
	if l.RejectedBy != nil {
		v := l.RejectedBy.String()
		resp.RejectedBy = &v
	}
	if l.CancelledAt != nil {
		v := l.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &v
	}
	if l.CancelledBy != nil {
		v := l.CancelledBy.String()
		resp.CancelledBy = &v
	}
	return resp
}

func mapToListResponse(leaves []LeaveRequest) []LeaveResponse {
	resp := make([]LeaveResponse, len(leaves))
	for i, l := range leaves {
		resp[i] = mapToResponse(l)
	}
	return resp
}
