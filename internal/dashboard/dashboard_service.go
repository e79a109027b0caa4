package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"hrportal/internal/basket"
	"hrportal/internal/leave"
	"hrportal/internal/ledger"
	"hrportal/internal/notification"
	"hrportal/internal/question"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	cacheKeyPrefix = "dashboard:employee:"
	cacheTTL       = 30 * time.Second
)

type Service interface {
	GetForEmployee(ctx context.Context, employeeID string) (DashboardResponse, error)
}

type service struct {
	ledger        ledger.Service
	leaves        leave.Repository
	baskets       basket.Repository
	questions     question.Repository
	notifications notification.Repository
	rdb           *redis.Client
	sf            *singleflight.Group
	logger        *zap.Logger
}

func NewService(
	ledgerSvc ledger.Service,
	leaves leave.Repository,
	baskets basket.Repository,
	questions question.Repository,
	notifications notification.Repository,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("dashboard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dashboard.service")
	}
	return &service{
		ledger:        ledgerSvc,
		leaves:        leaves,
		baskets:       baskets,
		questions:     questions,
		notifications: notifications,
		rdb:           rdb,
		sf:            &singleflight.Group{},
		logger:        l,
	}
}

func (s *service) GetForEmployee(ctx context.Context, employeeID string) (DashboardResponse, error) {
	cacheKey := cacheKeyPrefix + employeeID

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp DashboardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		resp, err := s.build(ctx, employeeID)
		if err != nil {
			return DashboardResponse{}, err
		}

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, cacheTTL)
			}
		}
		return resp, nil
	})
	if err != nil {
		return DashboardResponse{}, err
	}
	return v.(DashboardResponse), nil
}

func (s *service) build(ctx context.Context, employeeID string) (DashboardResponse, error) {
	snapshot, err := s.ledger.Snapshot(ctx, employeeID)
	if err != nil {
		s.logger.Error("dashboard balance snapshot failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return DashboardResponse{}, err
	}

	resp := DashboardResponse{
		Balance:     snapshot,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	active, err := s.leaves.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		return DashboardResponse{}, err
	}
	for _, l := range active {
		switch l.Status {
		case leave.StatusPending:
			resp.PendingLeaves++
		case leave.StatusApproved:
			resp.ApprovedLeaves++
		}
	}

	pendingApprovals, err := s.leaves.FindPendingByApprover(ctx, employeeID)
	if err != nil {
		return DashboardResponse{}, err
	}
	resp.PendingApprovals = len(pendingApprovals)

	b, err := s.baskets.FindActiveByEmployee(ctx, employeeID)
	switch {
	case err == nil:
		resp.BasketItems = b.Summary.TotalItems
		resp.BasketDays = b.Summary.TotalDaysRequested
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No active basket is the normal idle state.
	default:
		return DashboardResponse{}, err
	}

	questions, _, err := s.questions.FindAll(ctx, question.ListFilter{AuthorID: employeeID}, 1, 50)
	if err != nil {
		return DashboardResponse{}, err
	}
	for _, q := range questions {
		switch q.Status {
		case question.StatusSubmitted, question.StatusInReview:
			resp.OpenQuestions++
		}
	}

	unread, err := s.notifications.CountUnread(ctx, employeeID)
	if err != nil {
		return DashboardResponse{}, err
	}
	resp.UnreadNotifications = unread

	return resp, nil
}
