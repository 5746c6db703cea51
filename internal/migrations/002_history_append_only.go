package migrations

import "gorm.io/gorm"

// Migration002HistoryAppendOnly rejects UPDATE on mission_history at the
// database level. Deletes still cascade from profiles. PostgreSQL only; other
// dialects record the migration without changes.
func Migration002HistoryAppendOnly() Migration {
	return Migration{
		ID:        "002_history_append_only",
		Name:      "Make mission_history append-only",
		DependsOn: []string{"001_mission_indexes"},
		Up: func(db *gorm.DB) error {
			if db.Dialector.Name() != "postgres" {
				return nil
			}
			fn := `
				CREATE OR REPLACE FUNCTION mission_history_no_update() RETURNS trigger AS $$
				BEGIN
					RAISE EXCEPTION 'mission_history is append-only';
				END;
				$$ LANGUAGE plpgsql`
			if err := db.Exec(fn).Error; err != nil {
				return err
			}
			if err := db.Exec(`DROP TRIGGER IF EXISTS trg_mission_history_no_update ON mission_history`).Error; err != nil {
				return err
			}
			return db.Exec(`
				CREATE TRIGGER trg_mission_history_no_update
				BEFORE UPDATE ON mission_history
				FOR EACH ROW EXECUTE FUNCTION mission_history_no_update()`).Error
		},
	}
}
