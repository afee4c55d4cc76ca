package migrations

import (
	"github.com/shashiranjanraj/electrostore/pkg/migration"
	"github.com/shashiranjanraj/electrostore/pkg/queue"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20250102000000_create_failed_jobs_table", &CreateFailedJobsTable{})
}

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJob{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&queue.FailedJob{})
}
