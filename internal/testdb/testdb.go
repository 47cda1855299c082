// Package testdb provides an in-memory sqlite database for service and
// repository tests.
package testdb

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	infrarepository "github.com/finpocket/finpocket/infra/repository"
)

// New opens a fresh in-memory database with the full schema applied. Each
// call gets its own named database so parallel tests do not share state.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := infrarepository.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	return db
}
