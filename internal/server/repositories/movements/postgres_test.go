package movements

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dverbovy/tabstock/internal/common"
	"github.com/dverbovy/tabstock/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func TestCreateOrUpdate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`INSERT INTO stock_movements .* ON CONFLICT \(id\) DO NOTHING`)
	mock.ExpectExec(q.String()).WillReturnResult(sqlmock.NewResult(0, 1))

	m := &models.Movement{ID: "m1", ItemID: "i1", Type: "add", Quantity: 3, EntryMethod: "manual", CreatedAt: time.Now().UTC()}
	if err := repo.CreateOrUpdate(context.Background(), m); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCreateOrUpdate_DeviceUserFKCarriesColumn(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`INSERT INTO stock_movements`)
	mock.ExpectExec(q.String()).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "stock_movements_device_user_id_fkey"})

	actor := "u1"
	m := &models.Movement{ID: "m1", ItemID: "i1", DeviceUserID: &actor, Type: "add", Quantity: 3, EntryMethod: "manual"}
	err := repo.CreateOrUpdate(context.Background(), m)

	var fkErr *common.ForeignKeyError
	if !errors.As(err, &fkErr) {
		t.Fatalf("expected ForeignKeyError, got %v", err)
	}
	if fkErr.Column != "device_user_id" {
		t.Fatalf("expected device_user_id, got %s", fkErr.Column)
	}
}

func TestCreateOrUpdate_ItemFKCarriesColumn(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := regexp.MustCompile(`INSERT INTO stock_movements`)
	mock.ExpectExec(q.String()).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "stock_movements_item_id_fkey"})

	m := &models.Movement{ID: "m1", ItemID: "gone", Type: "add", Quantity: 3, EntryMethod: "manual"}
	err := repo.CreateOrUpdate(context.Background(), m)

	var fkErr *common.ForeignKeyError
	if !errors.As(err, &fkErr) {
		t.Fatalf("expected ForeignKeyError, got %v", err)
	}
	if fkErr.Column != "item_id" {
		t.Fatalf("expected item_id, got %s", fkErr.Column)
	}
}

func TestGetByItemID_ScansRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "item_id", "device_user_id", "type", "quantity",
		"entry_method", "ai_confidence", "note", "condition", "created_at",
	}).AddRow("m1", "i1", nil, "add", int64(3), "manual", nil, nil, "good", now)

	mock.ExpectQuery(`SELECT .* FROM stock_movements WHERE item_id=\$1`).
		WithArgs("i1").
		WillReturnRows(rows)

	got, err := repo.GetByItemID(context.Background(), "i1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Quantity != 3 {
		t.Fatalf("unexpected result: %+v", got)
	}
}
