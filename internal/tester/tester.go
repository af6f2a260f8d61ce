package tester

import (
	"os"
	"path/filepath"

	"github.com/emrgen/fieldgraph/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPath = "../../.test/"

var (
	db *gorm.DB
)

// Setup provisions a fresh sqlite database for a test. The name keeps
// packages running in parallel out of each other's files.
func Setup(name string) {
	RemoveDBFile(name)

	_ = os.Setenv("ENV", "test")

	err := os.MkdirAll(filepath.Join(testPath, "db"), os.ModePerm)
	if err != nil {
		panic(err)
	}

	db, err = gorm.Open(sqlite.Open(filepath.Join(testPath, "db", name+".db")), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	err = model.Migrate(db)
	if err != nil {
		panic(err)
	}
}

func TestDB() *gorm.DB {
	return db
}

func RemoveDBFile(name string) {
	err := os.RemoveAll(filepath.Join(testPath, "db", name+".db"))
	if err != nil {
		panic(err)
	}
}
