package migrations

import "gorm.io/gorm"

// Migration001MissionIndexes adds the partial index used by the overdue sweep
// and the per-category lookup used when linking generated missions.
func Migration001MissionIndexes() Migration {
	return Migration{
		ID:   "001_mission_indexes",
		Name: "Add indexes for overdue sweep and objective lookup",
		Up: func(db *gorm.DB) error {
			stmts := []string{
				// WHERE status IN ('pending','in_progress') AND deadline < ?
				`CREATE INDEX IF NOT EXISTS idx_missions_open_deadline
					ON missions (deadline)
					WHERE status IN ('pending', 'in_progress') AND deadline IS NOT NULL`,
				`CREATE INDEX IF NOT EXISTS idx_objectives_user_status_category
					ON objectives (user_id, status, category)`,
			}
			for _, s := range stmts {
				if err := db.Exec(s).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
