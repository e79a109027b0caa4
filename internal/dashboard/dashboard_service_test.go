package dashboard_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"hrportal/internal/basket"
	"hrportal/internal/catalog"
	"hrportal/internal/dashboard"
	"hrportal/internal/leave"
	"hrportal/internal/ledger"
	"hrportal/internal/notification"
	"hrportal/internal/question"

	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeLedger struct {
	snapshotFn func(ctx context.Context, employeeID string) (ledger.Snapshot, error)
}

func (f *fakeLedger) WithTx(tx *sql.Tx) ledger.Service { return f }

func (f *fakeLedger) Debit(ctx context.Context, employeeID string, bucket catalog.Bucket, days float64) error {
	return nil
}

func (f *fakeLedger) HasCapacity(ctx context.Context, employeeID string, bucket catalog.Bucket, days float64) (bool, error) {
	return true, nil
}

func (f *fakeLedger) Snapshot(ctx context.Context, employeeID string) (ledger.Snapshot, error) {
	if f.snapshotFn != nil {
		return f.snapshotFn(ctx, employeeID)
	}
	return ledger.Snapshot{TotalLeaves: 25, UsedLeaves: 5, AvailableLeaves: 20, RTTBalance: 10, CPPBalance: 12}, nil
}

type fakeLeaveRepository struct {
	findActiveByEmployeeFn  func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error)
	findPendingByApproverFn func(ctx context.Context, approverID string) ([]leave.LeaveRequest, error)
}

func (f *fakeLeaveRepository) WithTx(tx *sql.Tx) leave.Repository { return f }

func (f *fakeLeaveRepository) Create(ctx context.Context, l *leave.LeaveRequest) error { return nil }

func (f *fakeLeaveRepository) FindByID(ctx context.Context, id string) (*leave.LeaveRequest, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLeaveRepository) FindAll(ctx context.Context, filter leave.ListFilter, page, pageSize int) ([]leave.LeaveRequest, int64, error) {
	return nil, 0, nil
}

func (f *fakeLeaveRepository) FindActiveByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindPendingByApprover(ctx context.Context, approverID string) ([]leave.LeaveRequest, error) {
	if f.findPendingByApproverFn != nil {
		return f.findPendingByApproverFn(ctx, approverID)
	}
	return nil, nil
}

func (f *fakeLeaveRepository) FindApprovedBetweenDates(ctx context.Context, start, end time.Time, employeeID string) ([]leave.LeaveRequest, error) {
	return nil, nil
}

func (f *fakeLeaveRepository) Update(ctx context.Context, l *leave.LeaveRequest) error { return nil }

func (f *fakeLeaveRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeBasketRepository struct {
	findActiveByEmployeeFn func(ctx context.Context, employeeID string) (*basket.Basket, error)
}

func (f *fakeBasketRepository) WithTx(tx *sql.Tx) basket.Repository { return f }

func (f *fakeBasketRepository) Create(ctx context.Context, b *basket.Basket) error { return nil }

func (f *fakeBasketRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*basket.Basket, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBasketRepository) FindByID(ctx context.Context, id string) (*basket.Basket, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBasketRepository) Update(ctx context.Context, b *basket.Basket) error { return nil }

type fakeQuestionRepository struct {
	findAllFn func(ctx context.Context, filter question.ListFilter, page, pageSize int) ([]question.HRQuestion, int64, error)
}

func (f *fakeQuestionRepository) WithTx(tx *sql.Tx) question.Repository { return f }

func (f *fakeQuestionRepository) Create(ctx context.Context, q *question.HRQuestion) error {
	return nil
}

func (f *fakeQuestionRepository) FindByID(ctx context.Context, id string) (*question.HRQuestion, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepository) FindAll(ctx context.Context, filter question.ListFilter, page, pageSize int) ([]question.HRQuestion, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeQuestionRepository) FindOverdue(ctx context.Context) ([]question.HRQuestion, error) {
	return nil, nil
}

func (f *fakeQuestionRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeQuestionRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	return map[string]int64{}, nil
}

func (f *fakeQuestionRepository) Update(ctx context.Context, q *question.HRQuestion) error {
	return nil
}

func (f *fakeQuestionRepository) Delete(ctx context.Context, id string) error { return nil }

type fakeNotificationRepository struct {
	countUnreadFn func(ctx context.Context, recipientID string) (int64, error)
}

func (f *fakeNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return nil
}

func (f *fakeNotificationRepository) FindByID(ctx context.Context, id string) (*notification.Notification, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepository) FindByRecipient(ctx context.Context, recipientID string, unreadOnly bool, page, pageSize int) ([]notification.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	if f.countUnreadFn != nil {
		return f.countUnreadFn(ctx, recipientID)
	}
	return 0, nil
}

func (f *fakeNotificationRepository) Update(ctx context.Context, n *notification.Notification) error {
	return nil
}

func (f *fakeNotificationRepository) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	return 0, nil
}

func TestDashboardService_GetForEmployee(t *testing.T) {
	ctx := context.Background()

	t.Run("success aggregates all widgets", func(t *testing.T) {
		empID := uuid.New().String()

		leaves := &fakeLeaveRepository{
			findActiveByEmployeeFn: func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
				return []leave.LeaveRequest{
					{Status: leave.StatusPending},
					{Status: leave.StatusPending},
					{Status: leave.StatusApproved},
				}, nil
			},
			findPendingByApproverFn: func(ctx context.Context, approverID string) ([]leave.LeaveRequest, error) {
				return []leave.LeaveRequest{{Status: leave.StatusPending}}, nil
			},
		}

		baskets := &fakeBasketRepository{
			findActiveByEmployeeFn: func(ctx context.Context, employeeID string) (*basket.Basket, error) {
				return &basket.Basket{
					Summary: basket.Summary{TotalItems: 2, TotalDaysRequested: 3.5},
				}, nil
			},
		}

		questions := &fakeQuestionRepository{
			findAllFn: func(ctx context.Context, filter question.ListFilter, page, pageSize int) ([]question.HRQuestion, int64, error) {
				assert.Equal(t, empID, filter.AuthorID)
				return []question.HRQuestion{
					{Status: question.StatusSubmitted},
					{Status: question.StatusInReview},
					{Status: question.StatusClosed},
				}, 3, nil
			},
		}

		notifications := &fakeNotificationRepository{
			countUnreadFn: func(ctx context.Context, recipientID string) (int64, error) {
				return 4, nil
			},
		}

		svc := dashboard.NewService(&fakeLedger{}, leaves, baskets, questions, notifications, nil, nil)

		resp, err := svc.GetForEmployee(ctx, empID)

		assert.NoError(t, err)
		assert.Equal(t, 20.0, resp.Balance.AvailableLeaves)
		assert.Equal(t, 2, resp.PendingLeaves)
		assert.Equal(t, 1, resp.ApprovedLeaves)
		assert.Equal(t, 1, resp.PendingApprovals)
		assert.Equal(t, 2, resp.BasketItems)
		assert.Equal(t, 3.5, resp.BasketDays)
		assert.Equal(t, 2, resp.OpenQuestions)
		assert.Equal(t, int64(4), resp.UnreadNotifications)
	})

	t.Run("success no active basket is not an error", func(t *testing.T) {
		svc := dashboard.NewService(&fakeLedger{}, &fakeLeaveRepository{}, &fakeBasketRepository{}, &fakeQuestionRepository{}, &fakeNotificationRepository{}, nil, nil)

		resp, err := svc.GetForEmployee(ctx, uuid.New().String())

		assert.NoError(t, err)
		assert.Zero(t, resp.BasketItems)
	})

	t.Run("success cache hit skips aggregation", func(t *testing.T) {
		empID := uuid.New().String()
		rdb, mock := redismock.NewClientMock()

		cached := dashboard.DashboardResponse{PendingLeaves: 7}
		payload, err := json.Marshal(cached)
		assert.NoError(t, err)
		mock.ExpectGet("dashboard:employee:" + empID).SetVal(string(payload))

		leaves := &fakeLeaveRepository{
			findActiveByEmployeeFn: func(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
				t.Fatal("aggregation should not run on a cache hit")
				return nil, nil
			},
		}

		svc := dashboard.NewService(&fakeLedger{}, leaves, &fakeBasketRepository{}, &fakeQuestionRepository{}, &fakeNotificationRepository{}, rdb, nil)

		resp, err := svc.GetForEmployee(ctx, empID)

		assert.NoError(t, err)
		assert.Equal(t, 7, resp.PendingLeaves)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
