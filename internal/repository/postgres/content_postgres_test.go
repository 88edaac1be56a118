package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"auditapi/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

var contentCols = []string{
	"id", "request_id", "body", "file_name", "storage_path", "file_url",
	"status", "reviewer_id", "reviewed_at", "created_at", "updated_at",
}

func TestContentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	e := &model.ContentEntry{
		ID:        "entry-uuid",
		RequestID: "req-uuid",
		Body:      "our explanation",
		Status:    model.ContentStatusAwaitingReview,
		CreatedAt: now,
		UpdatedAt: now,
	}

	rows := sqlmock.NewRows(contentCols).
		AddRow(e.ID, e.RequestID, e.Body, "", "", "", e.Status, nil, nil, now, now)

	mock.ExpectQuery("INSERT INTO explanation_contents").
		WithArgs(e.ID, e.RequestID, e.Body, e.FileName, e.StoragePath, e.FileURL, e.Status, e.CreatedAt, e.UpdatedAt).
		WillReturnRows(rows)

	result, err := repo.Create(ctx, e)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, e.ID, result.ID)
	assert.Empty(t, result.ReviewerID)
	assert.Nil(t, result.ReviewedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContentPostgres(db)
	ctx := context.Background()

	t.Run("reviewed entry carries reviewer and timestamp", func(t *testing.T) {
		reviewedAt := time.Now().UTC()
		rows := sqlmock.NewRows(contentCols).
			AddRow("entry-1", "req-1", "text", "proof.pdf", "explanations/proof.pdf",
				"https://minio.local/audit/explanations/proof.pdf",
				"failed", "lead-1", reviewedAt, reviewedAt, reviewedAt)

		mock.ExpectQuery("SELECT (.+) FROM explanation_contents WHERE id = ?").
			WithArgs("entry-1").
			WillReturnRows(rows)

		e, err := repo.FindByID(ctx, "entry-1")

		assert.NoError(t, err)
		assert.Equal(t, model.ContentStatusFailed, e.Status)
		assert.Equal(t, "lead-1", e.ReviewerID)
		assert.NotNil(t, e.ReviewedAt)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM explanation_contents WHERE id = ?").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		e, err := repo.FindByID(ctx, "missing")

		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, e)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentPostgres_ListByRequest(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContentPostgres(db)
	ctx := context.Background()

	t.Run("newest first", func(t *testing.T) {
		now := time.Now().UTC()
		rows := sqlmock.NewRows(contentCols).
			AddRow("entry-2", "req-1", "second", "", "", "", "awaiting_review", nil, nil, now, now).
			AddRow("entry-1", "req-1", "first", "", "", "", "passed", "lead-1", now, now.Add(-time.Hour), now)

		mock.ExpectQuery("SELECT (.+) FROM explanation_contents WHERE request_id = ?").
			WithArgs("req-1").
			WillReturnRows(rows)

		items, err := repo.ListByRequest(ctx, "req-1")

		assert.NoError(t, err)
		assert.Len(t, items, 2)
		assert.Equal(t, "entry-2", items[0].ID)
	})

	t.Run("empty", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM explanation_contents WHERE request_id = ?").
			WithArgs("req-2").
			WillReturnRows(sqlmock.NewRows(contentCols))

		items, err := repo.ListByRequest(ctx, "req-2")

		assert.NoError(t, err)
		assert.Empty(t, items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentPostgres_SetDecision(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContentPostgres(db)
	ctx := context.Background()

	reviewedAt := time.Now().UTC()
	rows := sqlmock.NewRows(contentCols).
		AddRow("entry-1", "req-1", "text", "", "", "", "passed", "lead-1", reviewedAt, reviewedAt, reviewedAt)

	mock.ExpectQuery("UPDATE explanation_contents").
		WithArgs("entry-1", model.ContentStatusPassed, "lead-1", reviewedAt).
		WillReturnRows(rows)

	e, err := repo.SetDecision(ctx, "entry-1", model.ContentStatusPassed, "lead-1", reviewedAt)

	assert.NoError(t, err)
	assert.Equal(t, model.ContentStatusPassed, e.Status)
	assert.Equal(t, "lead-1", e.ReviewerID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContentPostgres_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewContentPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM explanation_contents").
		WithArgs("entry-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Delete(ctx, "entry-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
