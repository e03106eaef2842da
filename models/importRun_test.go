package models

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/mmdatafocus/crm_backend/utils"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })
	return db, mock
}

func TestGetImportRun_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `import_runs`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}))

	_, err := GetImportRun(context.Background(), db, 42)
	if !errors.Is(err, utils.ErrorRecordNotFound) {
		t.Fatalf("expected the not-found sentinel, got %v", err)
	}
}

func TestGetImportRun_Found(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT \\* FROM `import_runs`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).AddRow(42, ImportRunStatusQueued))

	run, err := GetImportRun(context.Background(), db, 42)
	if err != nil {
		t.Fatalf("GetImportRun: %v", err)
	}
	if run.ID != 42 || run.Status != ImportRunStatusQueued {
		t.Fatalf("unexpected run %+v", run)
	}
}
