package database

import (
	"database/sql"
	"os"
	"sync"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Tables the web application creates on first run. A populated database
// missing one of these is worth a warning before the server starts.
var coreTables = []string{
	"buses",
	"drivers",
	"conductors",
	"employees",
	"routes",
	"income",
	"maintenance",
	"payroll",
}

type TableInfo struct {
	Name string
	Rows int64
}

// Inspector reports the state of the web application database before the
// server starts. The application owns its schema and creates it on first
// run, so the inspection never fails the launch: a missing or empty
// database is a notice, not an error.
type Inspector struct {
	databasePath string

	tables []TableInfo
	fresh  bool
	err    error
}

func NewInspector(databasePath string) (instance *Inspector) {
	instance = &Inspector{
		databasePath: databasePath,
	}
	return
}

func (inspector *Inspector) Initialize(waitGroup *sync.WaitGroup) {
	defer waitGroup.Done()
	logrus.Info("Inspecting the application database")
	if err := inspector.inspect(); err != nil {
		logrus.Error("Cannot inspect the application database")
		logrus.Errorf("%+v", err)
		inspector.err = err
		return
	}
	inspector.report()
}

// Tables returns the table census collected by Initialize.
func (inspector *Inspector) Tables() []TableInfo {
	return inspector.tables
}

// Fresh reports whether the database is absent or has no tables yet.
func (inspector *Inspector) Fresh() bool {
	return inspector.fresh
}

// Err returns the failure of the last inspection, if any.
func (inspector *Inspector) Err() error {
	return inspector.err
}

func (inspector *Inspector) inspect() (err error) {
	if _, err = os.Stat(inspector.databasePath); os.IsNotExist(err) {
		inspector.fresh = true
		return nil
	}

	var database *gorm.DB
	if database, err = gorm.Open(sqlite.Open(inspector.databasePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}); err != nil {
		return
	}
	defer func() {
		var connection *sql.DB
		var closeErr error
		if connection, closeErr = database.DB(); closeErr == nil {
			closeErr = connection.Close()
		}
		if err == nil {
			err = closeErr
		}
	}()

	var tableNames []string
	if result := database.Raw(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name").
		Scan(&tableNames); result.Error != nil {
		return result.Error
	}
	if len(tableNames) == 0 {
		inspector.fresh = true
		return nil
	}

	for _, tableName := range tableNames {
		var rows int64
		if result := database.Table(tableName).Count(&rows); result.Error != nil {
			return result.Error
		}
		inspector.tables = append(inspector.tables, TableInfo{Name: tableName, Rows: rows})
	}
	return nil
}

func (inspector *Inspector) report() {
	if inspector.fresh {
		logrus.Infof("No database at %s yet, the application will create it on first run", inspector.databasePath)
		return
	}
	logrus.Infof("Found %d tables in %s", len(inspector.tables), inspector.databasePath)
	for _, table := range inspector.tables {
		logrus.Debugf("Table %s holds %d records", table.Name, table.Rows)
	}
	for _, coreTable := range coreTables {
		if !inspector.hasTable(coreTable) {
			logrus.Warnf("Core table %s is missing, the application will recreate it on startup", coreTable)
		}
	}
}

func (inspector *Inspector) hasTable(tableName string) bool {
	for _, table := range inspector.tables {
		if table.Name == tableName {
			return true
		}
	}
	return false
}
