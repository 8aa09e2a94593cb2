package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Behyna/hisabkitab/internal/model"
	"github.com/Behyna/hisabkitab/pkg/gormdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func lookupSQL(db *gorm.DB) string {
	return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var c model.Customer
		return latestCommitted(tx).Where("name = ?", "Nita").Take(&c)
	})
}

func TestLatestCommitted_MySQLUsesSharedLock(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "hisab:pw@tcp(127.0.0.1:3306)/ledger",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	assert.Contains(t, lookupSQL(db), "FOR SHARE")
}

func TestLatestCommitted_SQLiteIsPlainRead(t *testing.T) {
	db, err := gormdb.NewConnection(context.Background(), gormdb.Config{
		Driver:   gormdb.DriverSQLite,
		Path:     filepath.Join(t.TempDir(), "lookup.db"),
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = gormdb.Close(db) })

	sql := lookupSQL(db)
	assert.Contains(t, sql, "customers")
	assert.NotContains(t, sql, "FOR SHARE")
}
