// Package testutil builds in-memory databases for package tests.
package testutil

import (
	"bytes"
	"log/slog"

	departmentDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/department"
	employeeDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/employee"
	positionDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/position"
	userDatamodel "github.com/frahmantamala/hr-management/internal/core/datamodel/user"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns a fresh SQLite database with the HR schema and foreign keys enforced.
// The pool holds a single connection, so code inside a transaction must only use the tx handle.
func OpenDB() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&userDatamodel.User{},
		&departmentDatamodel.Department{},
		&positionDatamodel.Position{},
		&employeeDatamodel.Employee{},
	)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// CaptureLogger returns a logger writing text records into the returned buffer.
func CaptureLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// Str returns a pointer to s.
func Str(s string) *string {
	return &s
}

// ID returns a pointer to id.
func ID(id int64) *int64 {
	return &id
}
