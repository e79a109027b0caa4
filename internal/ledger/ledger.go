// Package ledger owns every mutation of employee leave balances. Balances
// are debited with a guarded atomic update so a stale snapshot can never
// drive a pool negative, even when approval happens long after creation.
package ledger

import (
	"context"
	"database/sql"
	"errors"
	"math"

	"hrportal/internal/catalog"
	ledgererrors "hrportal/internal/ledger/errors"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Snapshot is the balance state captured on a request at creation time.
type Snapshot struct {
	TotalLeaves     float64 `json:"totalLeaves"`
	UsedLeaves      float64 `json:"usedLeaves"`
	AvailableLeaves float64 `json:"availableLeaves"`
	RTTBalance      float64 `json:"RTTBalance"`
	CPPBalance      float64 `json:"CPPBalance"`
}

type Service interface {
	WithTx(tx *sql.Tx) Service

	// Debit books days against the pool the leave type draws from.
	// BucketNone is a no-op so exceptional leave never touches balances.
	Debit(ctx context.Context, employeeID string, bucket catalog.Bucket, days float64) error

	// HasCapacity reports whether the pool currently covers days.
	HasCapacity(ctx context.Context, employeeID string, bucket catalog.Bucket, days float64) (bool, error)

	Snapshot(ctx context.Context, employeeID string) (Snapshot, error)
}

type service struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewService(db *gorm.DB, logger ...*zap.Logger) Service {
	l := zap.L().Named("ledger.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("ledger.service")
	}
	return &service{db: db, logger: l}
}

func (s *service) WithTx(tx *sql.Tx) Service {
	session := s.db.Session(&gorm.Session{NewDB: true, SkipDefaultTransaction: true})
	session.Statement.ConnPool = tx
	return &service{db: session, logger: s.logger}
}

func validDebitAmount(days float64) bool {
	if days <= 0 {
		return false
	}
	return math.Mod(days*2, 1) == 0
}

func (s *service) Debit(ctx context.Context, employeeID string, bucket catalog.Bucket, days float64) error {
	if bucket == catalog.BucketNone {
		return nil
	}
	if !validDebitAmount(days) {
		return ledgererrors.ErrInvalidDebitAmount
	}

	var res *gorm.DB
	switch bucket {
	case catalog.BucketRTT:
		res = s.db.WithContext(ctx).Exec(`
			UPDATE employees
			SET balance_used_leaves = balance_used_leaves + ?,
			    balance_available_leaves = balance_total_leaves - (balance_used_leaves + ?),
			    balance_rtt_balance = balance_rtt_balance - ?,
			    updated_at = NOW()
			WHERE id = ?
			  AND deleted_at IS NULL
			  AND balance_rtt_balance >= ?
			  AND balance_total_leaves - balance_used_leaves >= ?`,
			days, days, days, employeeID, days, days,
		)
	case catalog.BucketCPP:
		res = s.db.WithContext(ctx).Exec(`
			UPDATE employees
			SET balance_used_leaves = balance_used_leaves + ?,
			    balance_available_leaves = balance_total_leaves - (balance_used_leaves + ?),
			    balance_cpp_balance = balance_cpp_balance - ?,
			    updated_at = NOW()
			WHERE id = ?
			  AND deleted_at IS NULL
			  AND balance_cpp_balance >= ?
			  AND balance_total_leaves - balance_used_leaves >= ?`,
			days, days, days, employeeID, days, days,
		)
	}

	if res.Error != nil {
		s.logger.Error("debit failed",
			zap.String("employee_id", employeeID),
			zap.Float64("days", days),
			zap.Error(res.Error),
		)
		return res.Error
	}

	if res.RowsAffected == 0 {
		// Either the employee is gone or the guard rejected the debit.
		if _, err := s.Snapshot(ctx, employeeID); err != nil {
			return err
		}
		s.logger.Warn("debit rejected by balance guard",
			zap.String("employee_id", employeeID),
			zap.Float64("days", days),
		)
		return ledgererrors.ErrInsufficientBalance
	}

	s.logger.Info("balance debited",
		zap.String("employee_id", employeeID),
		zap.Float64("days", days),
		zap.Int("bucket", int(bucket)),
	)
	return nil
}

func (s *service) HasCapacity(ctx context.Context, employeeID string, bucket catalog.Bucket, days float64) (bool, error) {
	if bucket == catalog.BucketNone {
		return true, nil
	}

	snap, err := s.Snapshot(ctx, employeeID)
	if err != nil {
		return false, err
	}

	switch bucket {
	case catalog.BucketRTT:
		return snap.RTTBalance >= days && snap.AvailableLeaves >= days, nil
	case catalog.BucketCPP:
		return snap.CPPBalance >= days && snap.AvailableLeaves >= days, nil
	}
	return true, nil
}

func (s *service) Snapshot(ctx context.Context, employeeID string) (Snapshot, error) {
	var snap Snapshot
	err := s.db.WithContext(ctx).
		Table("employees").
		Select(`balance_total_leaves AS total_leaves,
			balance_used_leaves AS used_leaves,
			balance_available_leaves AS available_leaves,
			balance_rtt_balance AS rtt_balance,
			balance_cpp_balance AS cpp_balance`).
		Where("id = ?", employeeID).
		Where("deleted_at IS NULL").
		Take(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, ledgererrors.ErrEmployeeNotFound
		}
		return Snapshot{}, err
	}
	return snap, nil
}
