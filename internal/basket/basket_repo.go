package basket

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *Basket) error
	FindActiveByEmployee(ctx context.Context, employeeID string) (*Basket, error)
	FindByID(ctx context.Context, id string) (*Basket, error)
	Update(ctx context.Context, b *Basket) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	session := r.db.Session(&gorm.Session{NewDB: true, SkipDefaultTransaction: true})
	session.Statement.ConnPool = tx
	return &repository{db: session}
}

func (r *repository) Create(ctx context.Context, b *Basket) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindActiveByEmployee(ctx context.Context, employeeID string) (*Basket, error) {
	var b Basket
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Where("status = ?", StatusActive).
		Order("created_at DESC").
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Basket, error) {
	var b Basket
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) Update(ctx context.Context, b *Basket) error {
	return r.db.WithContext(ctx).Save(b).Error
}
