package repositories

import (
	"testing"

	gormModels "poolpass/syncbridge/internal/models/gorm"

	"github.com/jmoiron/sqlx"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Setup test database. The sqlx handle wraps the same in-memory
// connection the gorm handle uses, so both repository flavors see one
// schema.
func setupTestDB(t *testing.T) (*gorm.DB, *sqlx.DB) {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("Failed to unwrap sql.DB: %v", err)
	}
	// One in-memory sqlite database per connection; pin the pool to a
	// single connection so every handle sees the same schema.
	sqlDB.SetMaxOpenConns(1)

	// Auto migrate
	if err := gdb.AutoMigrate(
		&gormModels.Integration{},
		&gormModels.IntegrationCredential{},
		&gormModels.PoolMapping{},
		&gormModels.SyncSchedule{},
		&gormModels.SyncLog{},
		&gormModels.SyncConflict{},
		&gormModels.WebhookEvent{},
		&gormModels.Notification{},
		&gormModels.Pool{},
		&gormModels.Booking{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return gdb, sqlx.NewDb(sqlDB, "sqlite3")
}
