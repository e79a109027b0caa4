package question_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"hrportal/internal/employee"
	"hrportal/internal/messaging/kafka"
	"hrportal/internal/question"
	questionerrors "hrportal/internal/question/errors"
	"hrportal/internal/rbac"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeQuestionRepository struct {
	createFn      func(ctx context.Context, q *question.HRQuestion) error
	findByIDFn    func(ctx context.Context, id string) (*question.HRQuestion, error)
	findAllFn     func(ctx context.Context, filter question.ListFilter, page, pageSize int) ([]question.HRQuestion, int64, error)
	findOverdueFn func(ctx context.Context) ([]question.HRQuestion, error)
	countStatusFn func(ctx context.Context) (map[string]int64, error)
	countCategFn  func(ctx context.Context) (map[string]int64, error)
	updateFn      func(ctx context.Context, q *question.HRQuestion) error
	deleteFn      func(ctx context.Context, id string) error
}

func (f *fakeQuestionRepository) WithTx(tx *sql.Tx) question.Repository { return f }

func (f *fakeQuestionRepository) Create(ctx context.Context, q *question.HRQuestion) error {
	if f.createFn != nil {
		return f.createFn(ctx, q)
	}
	return nil
}

func (f *fakeQuestionRepository) FindByID(ctx context.Context, id string) (*question.HRQuestion, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepository) FindAll(ctx context.Context, filter question.ListFilter, page, pageSize int) ([]question.HRQuestion, int64, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeQuestionRepository) FindOverdue(ctx context.Context) ([]question.HRQuestion, error) {
	if f.findOverdueFn != nil {
		return f.findOverdueFn(ctx)
	}
	return nil, nil
}

func (f *fakeQuestionRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	if f.countStatusFn != nil {
		return f.countStatusFn(ctx)
	}
	return map[string]int64{}, nil
}

func (f *fakeQuestionRepository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	if f.countCategFn != nil {
		return f.countCategFn(ctx)
	}
	return map[string]int64{}, nil
}

func (f *fakeQuestionRepository) Update(ctx context.Context, q *question.HRQuestion) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, q)
	}
	return nil
}

func (f *fakeQuestionRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

type fakeDirectory struct {
	findNewestActiveByRolesFn func(ctx context.Context, roles []string) (*employee.Employee, error)
}

func (f *fakeDirectory) FindNewestActiveByRoles(ctx context.Context, roles []string) (*employee.Employee, error) {
	if f.findNewestActiveByRolesFn != nil {
		return f.findNewestActiveByRolesFn(ctx, roles)
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeOutbox struct {
	createFn func(ctx context.Context, event kafka.OutboxEvent) error
	created  []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	if f.createFn != nil {
		return f.createFn(ctx, event)
	}
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}

func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error { return nil }

func (f *fakeOutbox) MarkFailed(ctx context.Context, id string, reason string) error { return nil }

type questionServiceDeps struct {
	db        *sql.DB
	sqlMock   sqlmock.Sqlmock
	service   question.Service
	repo      *fakeQuestionRepository
	directory *fakeDirectory
	outbox    *fakeOutbox
}

func setupQuestionServiceTest(t *testing.T) *questionServiceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := &fakeQuestionRepository{}
	directory := &fakeDirectory{}
	outbox := &fakeOutbox{}

	svc := question.NewService(db, repo, directory, outbox, nil)

	return &questionServiceDeps{
		db:        db,
		sqlMock:   sqlMock,
		service:   svc,
		repo:      repo,
		directory: directory,
		outbox:    outbox,
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

func submittedQuestion(authorID uuid.UUID) *question.HRQuestion {
	deadline := time.Now().UTC().AddDate(0, 0, 7)
	return &question.HRQuestion{
		ID:               uuid.New(),
		AuthorID:         authorID,
		Category:         "Congés",
		SubCategory:      "Congés exceptionnels",
		Title:            "Question sur un congé exceptionnel",
		Description:      "Combien de jours pour un déménagement ?",
		Status:           question.StatusSubmitted,
		Priority:         "normal",
		ResponseDeadline: &deadline,
	}
}

func TestQuestionService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success submitted question assigned to HR", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()
		hrID := uuid.New()

		deps.directory.findNewestActiveByRolesFn = func(ctx context.Context, roles []string) (*employee.Employee, error) {
			assert.Equal(t, []string{rbac.RoleHR}, roles)
			return &employee.Employee{ID: hrID, Role: rbac.RoleHR, IsActive: true}, nil
		}

		var created *question.HRQuestion
		deps.repo.createFn = func(ctx context.Context, q *question.HRQuestion) error {
			created = q
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, authorID.String(), question.CreateQuestionRequest{
			Category:    "Attestations",
			SubCategory: "Attestation",
			Title:       "Attestation employeur",
			Description: "Besoin d'une attestation pour mon bailleur.",
		})

		assert.NoError(t, err)
		assert.NotNil(t, created)
		assert.Equal(t, question.StatusSubmitted, resp.Status)
		assert.Equal(t, "normal", resp.Priority)
		assert.NotNil(t, resp.AssignedTo)
		assert.Equal(t, hrID.String(), *resp.AssignedTo)
		assert.NotNil(t, resp.ResponseDeadline)
		assert.Len(t, deps.outbox.created, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success draft stays private and unannounced", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, uuid.New().String(), question.CreateQuestionRequest{
			Category:    "Autre",
			SubCategory: "Autre",
			Title:       "Brouillon",
			Description: "Je reviendrai plus tard.",
			Draft:       true,
		})

		assert.NoError(t, err)
		assert.Equal(t, question.StatusDraft, resp.Status)
		assert.Nil(t, resp.AssignedTo)
		assert.Nil(t, resp.ResponseDeadline)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success submission without HR on file stays unassigned", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Create(ctx, uuid.New().String(), question.CreateQuestionRequest{
			Category:    "Maladie",
			SubCategory: "Arret de travail",
			Title:       "Transmission d'un arrêt",
			Description: "Où envoyer mon arrêt de travail ?",
		})

		assert.NoError(t, err)
		assert.Nil(t, resp.AssignedTo)
		assert.Len(t, deps.outbox.created, 1)
	})

	t.Run("negative invalid category pair", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		_, err := deps.service.Create(ctx, uuid.New().String(), question.CreateQuestionRequest{
			Category:    "Attestations",
			SubCategory: "Période d'essai",
			Title:       "Titre",
			Description: "Description",
		})

		assert.ErrorIs(t, err, questionerrors.ErrInvalidCategory)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})
}

func TestQuestionService_Submit(t *testing.T) {
	ctx := context.Background()

	t.Run("success draft becomes submitted with deadline", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()

		draft := submittedQuestion(authorID)
		draft.Status = question.StatusDraft
		draft.ResponseDeadline = nil

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return draft, nil
		}

		var updated *question.HRQuestion
		deps.repo.updateFn = func(ctx context.Context, q *question.HRQuestion) error {
			updated = q
			return nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.Submit(ctx, authorID.String(), draft.ID.String())

		assert.NoError(t, err)
		assert.Equal(t, question.StatusSubmitted, resp.Status)
		assert.NotNil(t, updated)
		assert.NotNil(t, updated.ResponseDeadline)
		assert.Len(t, deps.outbox.created, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative only the author can submit", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		draft := submittedQuestion(uuid.New())
		draft.Status = question.StatusDraft

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return draft, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Submit(ctx, uuid.New().String(), draft.ID.String())

		assert.ErrorIs(t, err, questionerrors.ErrNotQuestionAuthor)
	})

	t.Run("negative already submitted", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()

		q := submittedQuestion(authorID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.Submit(ctx, authorID.String(), q.ID.String())

		assert.ErrorIs(t, err, questionerrors.ErrNotDraft)
	})
}

func TestQuestionService_AddMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("success author message resets the deadline", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()

		q := submittedQuestion(authorID)
		staleDeadline := time.Now().UTC().Add(time.Hour)
		q.ResponseDeadline = &staleDeadline

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.AddMessage(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String(), question.AddMessageRequest{
			Message: "Une précision supplémentaire.",
		})

		assert.NoError(t, err)
		assert.Len(t, resp.Conversations, 1)
		assert.True(t, q.ResponseDeadline.After(time.Now().UTC().AddDate(0, 0, 6)))
		assert.Equal(t, question.StatusSubmitted, q.Status)
		assert.Empty(t, deps.outbox.created)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success HR reply moves submitted into review", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		hrID := uuid.New()

		q := submittedQuestion(uuid.New())
		q.AssignedTo = &hrID

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.AddMessage(ctx, hrID.String(), rbac.RoleHR, q.ID.String(), question.AddMessageRequest{
			Message: "Nous regardons votre dossier.",
		})

		assert.NoError(t, err)
		assert.Equal(t, question.StatusInReview, resp.Status)
		assert.Len(t, deps.outbox.created, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success internal note hidden from the author view", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		hrID := uuid.New()
		authorID := uuid.New()

		q := submittedQuestion(authorID)
		q.Status = question.StatusInReview

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.AddMessage(ctx, hrID.String(), rbac.RoleHR, q.ID.String(), question.AddMessageRequest{
			Message:    "Vérifier le solde avant de répondre.",
			IsInternal: true,
		})

		assert.NoError(t, err)
		assert.Len(t, resp.Conversations, 1)
		assert.Empty(t, deps.outbox.created)

		authorView, err := deps.service.GetByID(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String())
		assert.NoError(t, err)
		assert.Empty(t, authorView.Conversations)
	})

	t.Run("negative internal note from an employee", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		_, err := deps.service.AddMessage(ctx, uuid.New().String(), rbac.RoleEmployee, uuid.New().String(), question.AddMessageRequest{
			Message:    "note",
			IsInternal: true,
		})

		assert.ErrorIs(t, err, questionerrors.ErrInternalMessageForbidden)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("negative stranger cannot post", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		q := submittedQuestion(uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.AddMessage(ctx, uuid.New().String(), rbac.RoleEmployee, q.ID.String(), question.AddMessageRequest{
			Message: "Bonjour",
		})

		assert.ErrorIs(t, err, questionerrors.ErrNotQuestionAuthor)
	})
}

func TestQuestionService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("success HR answers the question", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		q := submittedQuestion(uuid.New())
		q.Status = question.StatusInReview

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ChangeStatus(ctx, uuid.New().String(), rbac.RoleHR, q.ID.String(), question.ChangeStatusRequest{
			Status: question.StatusAnswered,
		})

		assert.NoError(t, err)
		assert.Equal(t, question.StatusAnswered, resp.Status)
		assert.NotNil(t, resp.AnsweredAt)
		assert.Len(t, deps.outbox.created, 1)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("success author cancels own question", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()

		q := submittedQuestion(authorID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, true)

		resp, err := deps.service.ChangeStatus(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String(), question.ChangeStatusRequest{
			Status: question.StatusCancelled,
			Reason: "Plus besoin",
		})

		assert.NoError(t, err)
		assert.Equal(t, question.StatusCancelled, resp.Status)
		assert.Empty(t, deps.outbox.created)
	})

	t.Run("negative author cannot close", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()

		q := submittedQuestion(authorID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.ChangeStatus(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String(), question.ChangeStatusRequest{
			Status: question.StatusClosed,
		})

		assert.ErrorIs(t, err, questionerrors.ErrNotQuestionAuthor)
	})

	t.Run("negative closed cannot go back to review", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		q := submittedQuestion(uuid.New())
		q.Status = question.StatusClosed

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		expectTx(t, deps.sqlMock, false)

		_, err := deps.service.ChangeStatus(ctx, uuid.New().String(), rbac.RoleHR, q.ID.String(), question.ChangeStatusRequest{
			Status: question.StatusInReview,
		})

		assert.ErrorIs(t, err, questionerrors.ErrInvalidStatusTransition)
	})
}

func TestQuestionService_Assign(t *testing.T) {
	ctx := context.Background()

	t.Run("success reassignment leaves an internal trace", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		newAssignee := uuid.New()

		q := submittedQuestion(uuid.New())
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		resp, err := deps.service.Assign(ctx, uuid.New().String(), rbac.RoleHR, q.ID.String(), question.AssignRequest{
			AssignedTo: newAssignee.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, newAssignee.String(), *resp.AssignedTo)
		assert.Len(t, resp.Conversations, 1)
		assert.True(t, resp.Conversations[0].IsInternal)
	})

	t.Run("negative employee cannot assign", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		_, err := deps.service.Assign(ctx, uuid.New().String(), rbac.RoleEmployee, uuid.New().String(), question.AssignRequest{
			AssignedTo: uuid.New().String(),
		})

		assert.ErrorIs(t, err, questionerrors.ErrNotQuestionAuthor)
	})
}

func TestQuestionService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("success author deletes a draft", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()

		draft := submittedQuestion(authorID)
		draft.Status = question.StatusDraft

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return draft, nil
		}

		deleted := false
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			return nil
		}

		err := deps.service.Delete(ctx, authorID.String(), rbac.RoleEmployee, draft.ID.String())

		assert.NoError(t, err)
		assert.True(t, deleted)
	})

	t.Run("negative submitted question is not deletable", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()

		q := submittedQuestion(authorID)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		err := deps.service.Delete(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String())

		assert.ErrorIs(t, err, questionerrors.ErrDraftOnlyDeletion)
	})

	t.Run("negative stranger cannot delete", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		draft := submittedQuestion(uuid.New())
		draft.Status = question.StatusDraft

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return draft, nil
		}

		err := deps.service.Delete(ctx, uuid.New().String(), rbac.RoleEmployee, draft.ID.String())

		assert.ErrorIs(t, err, questionerrors.ErrNotQuestionAuthor)
	})
}

func TestQuestionService_GetAll(t *testing.T) {
	ctx := context.Background()

	t.Run("employee listing is scoped to own questions", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		actorID := uuid.New().String()

		var seen question.ListFilter
		deps.repo.findAllFn = func(ctx context.Context, filter question.ListFilter, page, pageSize int) ([]question.HRQuestion, int64, error) {
			seen = filter
			return nil, 0, nil
		}

		_, _, err := deps.service.GetAll(ctx, actorID, rbac.RoleEmployee, question.ListFilter{AuthorID: uuid.New().String()}, 1, 10)

		assert.NoError(t, err)
		assert.Equal(t, actorID, seen.AuthorID)
	})

	t.Run("HR listing keeps the requested filter", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		wanted := uuid.New().String()

		var seen question.ListFilter
		deps.repo.findAllFn = func(ctx context.Context, filter question.ListFilter, page, pageSize int) ([]question.HRQuestion, int64, error) {
			seen = filter
			return []question.HRQuestion{*submittedQuestion(uuid.New())}, 1, nil
		}

		resp, total, err := deps.service.GetAll(ctx, uuid.New().String(), rbac.RoleHR, question.ListFilter{AuthorID: wanted}, 1, 10)

		assert.NoError(t, err)
		assert.Equal(t, wanted, seen.AuthorID)
		assert.Equal(t, int64(1), total)
		assert.Len(t, resp, 1)
	})
}

func TestQuestionService_Update(t *testing.T) {
	ctx := context.Background()

	strPtr := func(s string) *string { return &s }

	t.Run("success author edits own draft", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()
		q := submittedQuestion(authorID)
		q.Status = question.StatusDraft

		var updated *question.HRQuestion
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}
		deps.repo.updateFn = func(ctx context.Context, q *question.HRQuestion) error {
			updated = q
			return nil
		}

		resp, err := deps.service.Update(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String(), question.UpdateQuestionRequest{
			Title:       strPtr("Titre corrigé"),
			Description: strPtr("Description corrigée avec plus de détails."),
		})

		assert.NoError(t, err)
		assert.Equal(t, "Titre corrigé", resp.Title)
		assert.NotNil(t, updated)
	})

	t.Run("negative content edit after submission", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()
		q := submittedQuestion(authorID)

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		_, err := deps.service.Update(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String(), question.UpdateQuestionRequest{
			Title: strPtr("Titre interdit"),
		})
		assert.ErrorIs(t, err, questionerrors.ErrNotDraft)
	})

	t.Run("success HR reprioritizes a submitted question", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		q := submittedQuestion(uuid.New())

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		resp, err := deps.service.Update(ctx, uuid.New().String(), rbac.RoleHR, q.ID.String(), question.UpdateQuestionRequest{
			Priority: strPtr("urgent"),
		})
		assert.NoError(t, err)
		assert.Equal(t, "urgent", resp.Priority)
	})

	t.Run("negative invalid category pair rejected", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		authorID := uuid.New()
		q := submittedQuestion(authorID)
		q.Status = question.StatusDraft

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		_, err := deps.service.Update(ctx, authorID.String(), rbac.RoleEmployee, q.ID.String(), question.UpdateQuestionRequest{
			Category: strPtr("Inexistante"),
		})
		assert.Error(t, err)
	})

	t.Run("negative stranger cannot update", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		q := submittedQuestion(uuid.New())

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*question.HRQuestion, error) {
			return q, nil
		}

		_, err := deps.service.Update(ctx, uuid.New().String(), rbac.RoleEmployee, q.ID.String(), question.UpdateQuestionRequest{
			Priority: strPtr("low"),
		})
		assert.ErrorIs(t, err, questionerrors.ErrNotQuestionAuthor)
	})
}

func TestQuestionService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("success aggregates counts", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)

		deps.repo.countStatusFn = func(ctx context.Context) (map[string]int64, error) {
			return map[string]int64{
				question.StatusSubmitted: 3,
				question.StatusAnswered:  2,
			}, nil
		}
		deps.repo.countCategFn = func(ctx context.Context) (map[string]int64, error) {
			return map[string]int64{"Congés": 4, "Paie": 1}, nil
		}
		deps.repo.findOverdueFn = func(ctx context.Context) ([]question.HRQuestion, error) {
			return []question.HRQuestion{*submittedQuestion(uuid.New())}, nil
		}

		stats, err := deps.service.Stats(ctx)

		assert.NoError(t, err)
		assert.Equal(t, int64(5), stats.Total)
		assert.Equal(t, int64(1), stats.Overdue)
		assert.Equal(t, int64(3), stats.ByStatus[question.StatusSubmitted])
		assert.Equal(t, int64(4), stats.ByCategory["Congés"])
	})
}

func TestQuestionService_Overdue(t *testing.T) {
	ctx := context.Background()

	t.Run("success lists overdue submissions with internal notes", func(t *testing.T) {
		deps := setupQuestionServiceTest(t)
		q := submittedQuestion(uuid.New())
		q.AddMessage(uuid.New().String(), "note interne", true)

		deps.repo.findOverdueFn = func(ctx context.Context) ([]question.HRQuestion, error) {
			return []question.HRQuestion{*q}, nil
		}

		resp, err := deps.service.Overdue(ctx)

		assert.NoError(t, err)
		assert.Len(t, resp, 1)
		assert.Len(t, resp[0].Conversations, 1)
	})
}
