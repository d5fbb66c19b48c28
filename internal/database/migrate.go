package database

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
)

// Migrate applies the ordered migration list. Each step is idempotent and its
// ID is recorded in the migrations table, so reruns are no-ops.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "202405010001_create_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},
		{
			ID: "202405010002_create_loops",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.Loop{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("loops")
			},
		},
		{
			ID: "202405010003_create_activity_logs",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.ActivityLog{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("activity_logs")
			},
		},
		{
			ID: "202405010004_create_notifications",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.Notification{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("notifications")
			},
		},
		{
			// Additive columns that historically arrived after first release.
			ID: "202406120001_user_notification_flags",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				if tx.Migrator().HasColumn(&models.User{}, "notify_new_loop") {
					if err := tx.Migrator().DropColumn(&models.User{}, "notify_new_loop"); err != nil {
						return err
					}
				}
				if tx.Migrator().HasColumn(&models.User{}, "notify_updated_loop") {
					return tx.Migrator().DropColumn(&models.User{}, "notify_updated_loop")
				}
				return nil
			},
		},
		{
			ID: "202406120002_loop_archived_flag",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().AutoMigrate(&models.Loop{})
			},
			Rollback: func(tx *gorm.DB) error {
				if tx.Migrator().HasColumn(&models.Loop{}, "archived") {
					return tx.Migrator().DropColumn(&models.Loop{}, "archived")
				}
				return nil
			},
		},
	})

	return m.Migrate()
}
