package database

import (
	"log"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// Connect opens the database named by DATABASE_URL. A postgres:// or
// postgresql:// URL selects the postgres driver (the deployed setup, where
// the partial unique index on rdv_workshops does the heavy lifting);
// anything else is treated as a sqlite DSN, which is what local development
// and the test suite use. The sqlite driver name is pinned to modernc's
// cgo-free implementation.
func Connect(dsn string) (*gorm.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		log.Println("connecting to postgres")
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}

	log.Println("using sqlite:", dsn)

	return gorm.Open(
		gormsqlite.New(gormsqlite.Config{
			DriverName: "sqlite",
			DSN:        dsn,
		}),
		&gorm.Config{},
	)
}
