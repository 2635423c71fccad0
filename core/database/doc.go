// Package database handles database connections and schema inspection.
//
// It wraps GORM to open either MySQL (production) or SQLite (local runs and
// tests) from the application's configuration.
//
// # Connect
//
// Connect opens the configured driver, sizes the connection pool and pings
// the database. A private in-memory SQLite database is pinned to a single
// connection so every query sees the same data.
//
// # Schema Inspection
//
// GetTableColumns lists the live columns of a table. The integrity feature
// compares them with the columns the service's models expect.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "business_rules")
package database
