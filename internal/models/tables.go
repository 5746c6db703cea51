package models

// Tables lists every persisted model in dependency order for AutoMigrate.
func Tables() []interface{} {
	return []interface{}{
		&Profile{},
		&Objective{},
		&Schedule{},
		&Mission{},
		&MissionHistory{},
	}
}
