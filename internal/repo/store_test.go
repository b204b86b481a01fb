package repo_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lume/internal/db"
	"lume/internal/models"
)

// openTestDB — файл sqlite во временном каталоге: включённые FK,
// одна схема на все соединения пула.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "lume_test.db") + "?_foreign_keys=on"
	gdb, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}, &models.Watch{}, &models.Favorite{}))
	return gdb
}

func seedWatch(t *testing.T, gdb *gorm.DB, w models.Watch) models.Watch {
	t.Helper()
	require.NoError(t, gdb.Create(&w).Error)
	return w
}

func seedUser(t *testing.T, gdb *gorm.DB, u models.User) models.User {
	t.Helper()
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func ctx() context.Context { return context.Background() }

var (
	testRolex = models.Watch{Brand: "Rolex", Model: "Submariner", Reference: "126610LN",
		Size: 40, Material: "Steel", Price: 1000000, ImageURL: "https://img/rolex"}
	testOmega = models.Watch{Brand: "Omega", Model: "Seamaster", Reference: "210.30.42",
		Size: 42, Material: "Steel", Price: 650000, ImageURL: "https://img/omega"}
	testPatek = models.Watch{Brand: "Patek Philippe", Model: "Nautilus", Reference: "5711/1A",
		Size: 40, Material: "Gold", Price: 9000000, ImageURL: "https://img/patek"}
)
