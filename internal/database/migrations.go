package database

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type compositeIndex struct {
	table   string
	name    string
	columns []string
}

// compositeIndexes are the multi-column indexes the struct tags do not declare.
var compositeIndexes = []compositeIndex{
	// owner counting on member removal
	{"project_memberships", "idx_project_memberships_project_role", []string{"project_id", "role"}},
	// task board listing
	{"tasks", "idx_tasks_project_status", []string{"project_id", "status"}},
	{"comments", "idx_comments_task_created", []string{"task_id", "created_at"}},
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	for _, idx := range compositeIndexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("Index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("Created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
		)
	}

	return nil
}
