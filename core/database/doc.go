// Package database handles database connections and schema inspection.
//
// Connect wraps GORM and opens either MySQL or SQLite depending on the
// configured driver. The database backs the policy source and the committed
// edit journal; it is optional, and commands that can run without it log the
// connection error and continue.
//
// # Schema Inspection
//
// GetTableColumns and MissingColumns read the live table definitions so that
// the policies check command can report tables that do not match the models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Optional database connection failed", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "layer_policies", []string{"layer_id"})
package database
