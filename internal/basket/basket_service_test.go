package basket_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hrportal/internal/basket"
	basketerrors "hrportal/internal/basket/errors"
	"hrportal/internal/catalog"
	"hrportal/internal/leave"
	ledgererrors "hrportal/internal/ledger/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeBasketRepository struct {
	createFn               func(ctx context.Context, b *basket.Basket) error
	findActiveByEmployeeFn func(ctx context.Context, employeeID string) (*basket.Basket, error)
	findByIDFn             func(ctx context.Context, id string) (*basket.Basket, error)
	updateFn               func(ctx context.Context, b *basket.Basket) error
}

func (f *fakeBasketRepository) WithTx(tx *sql.Tx) basket.Repository { return f }

func (f *fakeBasketRepository) Create(ctx context.Context, b *basket.Basket) error {
	if f.createFn != nil {
		return f.createFn(ctx, b)
	}
	return nil
}

func (f *fakeBasketRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*basket.Basket, error) {
	if f.findActiveByEmployeeFn != nil {
		return f.findActiveByEmployeeFn(ctx, employeeID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBasketRepository) FindByID(ctx context.Context, id string) (*basket.Basket, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBasketRepository) Update(ctx context.Context, b *basket.Basket) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, b)
	}
	return nil
}

type fakeLeaveService struct {
	leave.Service

	createInTxFn func(ctx context.Context, tx *sql.Tx, actorID, actorRole string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	createInTx   []leave.CreateLeaveRequest
}

func (f *fakeLeaveService) CreateInTx(ctx context.Context, tx *sql.Tx, actorID, actorRole string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	f.createInTx = append(f.createInTx, req)
	if f.createInTxFn != nil {
		return f.createInTxFn(ctx, tx, actorID, actorRole, req)
	}
	return leave.LeaveResponse{
		ID:         uuid.New().String(),
		LeaveType:  req.LeaveType,
		Status:     leave.StatusPending,
		TotalDays:  float64(len(req.Dates)),
		EmployeeID: actorID,
	}, nil
}

type basketServiceDeps struct {
	db      *sql.DB
	sqlMock sqlmock.Sqlmock
	service basket.Service
	repo    *fakeBasketRepository
	leaves  *fakeLeaveService
}

func setupBasketServiceTest(t *testing.T) *basketServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeBasketRepository{}
	leaves := &fakeLeaveService{}
	svc := basket.NewService(db, repo, leaves, nil)

	return &basketServiceDeps{
		db:      db,
		sqlMock: sqlMock,
		service: svc,
		repo:    repo,
		leaves:  leaves,
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

func activeBasket(empID uuid.UUID, items ...basket.Item) *basket.Basket {
	b := &basket.Basket{
		ID:         uuid.New(),
		EmployeeID: empID,
		Status:     basket.StatusActive,
		Items:      basket.Items(items),
	}
	b.Recalculate()
	return b
}

func rttItem(days int) basket.Item {
	dates := make(leave.DateEntries, days)
	for i := range dates {
		dates[i] = leave.DateEntry{Date: time.Now().UTC().AddDate(0, 0, i+2)}
	}
	return basket.Item{
		MainCategory: catalog.MainRegular,
		SubCategory:  catalog.SubRTT,
		Dates:        dates,
		TotalDays:    float64(days),
	}
}

func TestBasketService_GetOrCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("success opens a fresh basket when none is active", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		var created *basket.Basket
		deps.repo.createFn = func(ctx context.Context, b *basket.Basket) error {
			created = b
			return nil
		}

		resp, err := deps.service.GetOrCreate(ctx, empID.String())
		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, basket.StatusActive, resp.Status)
		assert.Equal(t, 0, resp.Summary.TotalItems)
	})

	t.Run("success returns existing active basket", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()
		existing := activeBasket(empID, rttItem(2))

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return existing, nil
		}
		deps.repo.createFn = func(ctx context.Context, b *basket.Basket) error {
			t.Fatal("create must not be called")
			return nil
		}

		resp, err := deps.service.GetOrCreate(ctx, empID.String())
		assert.NoError(t, err)
		assert.Equal(t, existing.ID.String(), resp.ID)
		assert.Equal(t, 1, resp.Summary.TotalItems)
	})
}

func TestBasketService_AddItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success regular RTT item with computed days", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()
		existing := activeBasket(empID)

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return existing, nil
		}

		resp, err := deps.service.AddItem(ctx, empID.String(), basket.AddItemRequest{
			MainCategory: catalog.MainRegular,
			SubCategory:  catalog.SubRTT,
			Dates: []leave.DateEntryRequest{
				{Date: futureDate(2)},
				{Date: futureDate(3), IsHalfDay: true, HalfDayType: leave.HalfDayMorning},
			},
		})

		assert.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, 1.5, resp.Items[0].TotalDays)
		assert.Equal(t, 1, resp.Summary.TotalItems)
		assert.Equal(t, 1.5, resp.Summary.TotalDaysRequested)
	})

	t.Run("negative regular leave with specific type", func(t *testing.T) {
		deps := setupBasketServiceTest(t)

		_, err := deps.service.AddItem(ctx, uuid.New().String(), basket.AddItemRequest{
			MainCategory: catalog.MainRegular,
			SubCategory:  catalog.SubRTT,
			SpecificType: "Mariage",
			Dates:        []leave.DateEntryRequest{{Date: futureDate(2)}},
		})

		assert.ErrorIs(t, err, catalog.ErrInvalidLeaveType)
	})

	t.Run("negative regular leave for today", func(t *testing.T) {
		deps := setupBasketServiceTest(t)

		_, err := deps.service.AddItem(ctx, uuid.New().String(), basket.AddItemRequest{
			MainCategory: catalog.MainRegular,
			SubCategory:  catalog.SubCPP,
			Dates:        []leave.DateEntryRequest{{Date: futureDate(0)}},
		})

		assert.ErrorIs(t, err, basketerrors.ErrPastDate)
	})

	t.Run("success exceptional leave may backdate", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()
		existing := activeBasket(empID)

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return existing, nil
		}

		resp, err := deps.service.AddItem(ctx, empID.String(), basket.AddItemRequest{
			MainCategory: catalog.MainExceptional,
			SubCategory:  catalog.SubMaladie,
			SpecificType: "Absence maladie",
			Dates:        []leave.DateEntryRequest{{Date: futureDate(-3), IsHalfDay: true, HalfDayType: leave.HalfDayAfternoon}},
		})

		assert.NoError(t, err)
		assert.Equal(t, 0.5, resp.Items[0].TotalDays)
	})
}

func TestBasketService_EditItem(t *testing.T) {
	ctx := context.Background()

	t.Run("negative index out of range", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return activeBasket(empID, rttItem(1)), nil
		}

		_, err := deps.service.EditItem(ctx, empID.String(), 3, basket.EditItemRequest{})
		assert.ErrorIs(t, err, basketerrors.ErrInvalidIndex)
	})

	t.Run("success date change recomputes days", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return activeBasket(empID, rttItem(2)), nil
		}

		resp, err := deps.service.EditItem(ctx, empID.String(), 0, basket.EditItemRequest{
			Dates: []leave.DateEntryRequest{{Date: futureDate(5), IsHalfDay: true, HalfDayType: leave.HalfDayMorning}},
		})

		assert.NoError(t, err)
		assert.Equal(t, 0.5, resp.Items[0].TotalDays)
		assert.Equal(t, 0.5, resp.Summary.TotalDaysRequested)
	})
}

func TestBasketService_RemoveItem(t *testing.T) {
	ctx := context.Background()

	t.Run("success removal recomputes summary", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return activeBasket(empID, rttItem(2), rttItem(1)), nil
		}

		resp, err := deps.service.RemoveItem(ctx, empID.String(), 0)
		assert.NoError(t, err)
		assert.Len(t, resp.Items, 1)
		assert.Equal(t, 1.0, resp.Summary.TotalDaysRequested)
	})

	t.Run("negative index out of range", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return activeBasket(empID), nil
		}

		_, err := deps.service.RemoveItem(ctx, empID.String(), 0)
		assert.ErrorIs(t, err, basketerrors.ErrInvalidIndex)
	})
}

func TestBasketService_UpdateItemJustification(t *testing.T) {
	ctx := context.Background()

	t.Run("negative too short", func(t *testing.T) {
		deps := setupBasketServiceTest(t)

		_, err := deps.service.UpdateItemJustification(ctx, uuid.New().String(), 0, basket.UpdateJustificationRequest{
			Justification: " a ",
		})

		assert.ErrorIs(t, err, basketerrors.ErrJustificationTooShort)
	})

	t.Run("success updates summary count", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return activeBasket(empID, rttItem(1)), nil
		}

		resp, err := deps.service.UpdateItemJustification(ctx, empID.String(), 0, basket.UpdateJustificationRequest{
			Justification: "rendez-vous médical",
		})

		assert.NoError(t, err)
		assert.Equal(t, "rendez-vous médical", resp.Items[0].Justification)
		assert.Equal(t, 1, resp.Summary.ItemsWithJustifications)
	})
}

func TestBasketService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("negative empty basket", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return activeBasket(empID), nil
		}

		_, err := deps.service.Submit(ctx, empID.String(), "employee")
		assert.ErrorIs(t, err, basketerrors.ErrEmptyBasket)
		assert.Empty(t, deps.leaves.createInTx)
	})

	t.Run("success converts every item and flattens types", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()

		exceptional := basket.Item{
			MainCategory: catalog.MainExceptional,
			SubCategory:  catalog.SubMaladie,
			SpecificType: "Absence maladie",
			Dates:        leave.DateEntries{{Date: time.Now().UTC(), IsHalfDay: true, HalfDayType: leave.HalfDayAfternoon}},
			TotalDays:    0.5,
		}
		b := activeBasket(empID, rttItem(2), exceptional)

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return b, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*basket.Basket, error) {
			return b, nil
		}

		var saved *basket.Basket
		deps.repo.updateFn = func(ctx context.Context, b *basket.Basket) error {
			saved = b
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Submit(ctx, empID.String(), "employee")
		assert.NoError(t, err)
		assert.Len(t, resp.Requests, 2)
		assert.Len(t, deps.leaves.createInTx, 2)
		assert.Equal(t, catalog.SubRTT, deps.leaves.createInTx[0].LeaveType)
		assert.Equal(t, catalog.SubMaladie, deps.leaves.createInTx[1].LeaveType)
		assert.Equal(t, "Absence maladie", deps.leaves.createInTx[1].SubCategory)
		assert.NotNil(t, saved)
		assert.Equal(t, basket.StatusSubmitted, saved.Status)
		assert.NotNil(t, saved.SubmittedAt)
		assert.Len(t, saved.Items, 2)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative one failing item rolls everything back", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()
		b := activeBasket(empID, rttItem(2), rttItem(3))

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return b, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*basket.Basket, error) {
			return b, nil
		}

		calls := 0
		deps.leaves.createInTxFn = func(ctx context.Context, tx *sql.Tx, actorID, actorRole string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
			calls++
			if calls == 2 {
				return leave.LeaveResponse{}, ledgererrors.ErrInsufficientBalance
			}
			return leave.LeaveResponse{ID: uuid.New().String(), Status: leave.StatusPending}, nil
		}

		updateCalled := false
		deps.repo.updateFn = func(ctx context.Context, b *basket.Basket) error {
			updateCalled = true
			return nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Submit(ctx, empID.String(), "employee")
		assert.ErrorIs(t, err, ledgererrors.ErrInsufficientBalance)
		assert.False(t, updateCalled)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative basket submitted by a concurrent request", func(t *testing.T) {
		deps := setupBasketServiceTest(t)
		empID := uuid.New()
		b := activeBasket(empID, rttItem(2))

		deps.repo.findActiveByEmployeeFn = func(ctx context.Context, employeeID string) (*basket.Basket, error) {
			return b, nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*basket.Basket, error) {
			raced := *b
			raced.Status = basket.StatusSubmitted
			return &raced, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Submit(ctx, empID.String(), "employee")
		assert.ErrorIs(t, err, basketerrors.ErrBasketNotActive)
		assert.Empty(t, deps.leaves.createInTx)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}
