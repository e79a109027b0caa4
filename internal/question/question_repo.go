package question

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

type ListFilter struct {
	AuthorID   string
	AssignedTo string
	Status     string
	Category   string
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, q *HRQuestion) error
	FindByID(ctx context.Context, id string) (*HRQuestion, error)
	FindAll(ctx context.Context, filter ListFilter, page, pageSize int) ([]HRQuestion, int64, error)
	FindOverdue(ctx context.Context) ([]HRQuestion, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	Update(ctx context.Context, q *HRQuestion) error
	Delete(ctx context.Context, id string) error
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

func (r *repository) Create(ctx context.Context, q *HRQuestion) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *repository) FindByID(ctx context.Context, id string) (*HRQuestion, error) {
	var q HRQuestion
	err := r.db.WithContext(ctx).First(&q, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *repository) FindAll(ctx context.Context, filter ListFilter, page, pageSize int) ([]HRQuestion, int64, error) {
	db := r.db.WithContext(ctx).Model(&HRQuestion{})

	if filter.AuthorID != "" {
		db = db.Where("author_id = ? OR beneficiary_id = ?", filter.AuthorID, filter.AuthorID)
	}
	if filter.AssignedTo != "" {
		db = db.Where("assigned_to = ?", filter.AssignedTo)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if filter.Category != "" {
		db = db.Where("category = ?", filter.Category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []HRQuestion
	err := db.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&questions).Error
	return questions, total, err
}

func (r *repository) FindOverdue(ctx context.Context) ([]HRQuestion, error) {
	var questions []HRQuestion
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusSubmitted).
		Where("response_deadline < NOW()").
		Order("response_deadline ASC").
		Find(&questions).Error
	return questions, err
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, "status")
}

func (r *repository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	return r.countGrouped(ctx, "category")
}

func (r *repository) countGrouped(ctx context.Context, column string) (map[string]int64, error) {
	var rows []struct {
		Key   string
		Count int64
	}
	err := r.db.WithContext(ctx).Model(&HRQuestion{}).
		Select(column + " AS key, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (r *repository) Update(ctx context.Context, q *HRQuestion) error {
	return r.db.WithContext(ctx).Save(q).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&HRQuestion{}, "id = ?", id).Error
}
