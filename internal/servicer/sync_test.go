// File: internal/servicer/sync_test.go
package servicer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Servicer{}))
	t.Cleanup(func() {
		db.Exec("DELETE FROM servicers")
	})
	return db
}

func strPtr(s string) *string { return &s }

func TestEnsureForUserCreatesRecordWithDefaults(t *testing.T) {
	db := newTestDB(t)
	store := NewSyncStore(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.EnsureForUser(ctx, "Ravi.Menon@Example.com", "Ravi Menon"))

	var record Servicer
	require.NoError(t, db.Where("email = ?", "ravi.menon@example.com").First(&record).Error)
	assert.Equal(t, "Ravi Menon", record.Name)
	assert.Equal(t, "ravi-menon", record.Slug)
	assert.Equal(t, DefaultAvailableTime, record.AvailableTime)
	assert.Equal(t, DefaultRating, record.Rating)
	assert.Equal(t, StatusAvailable, record.Status)
	assert.Nil(t, record.WorkType)
	assert.Nil(t, record.Location)
}

func TestEnsureForUserIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := NewSyncStore(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.EnsureForUser(ctx, "ravi@example.com", "Ravi Menon"))
	require.NoError(t, store.EnsureForUser(ctx, "ravi@example.com", "Ravi Menon"))

	var count int64
	require.NoError(t, db.Model(&Servicer{}).Where("email = ?", "ravi@example.com").Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnsureForUserDisambiguatesSlugCollisions(t *testing.T) {
	db := newTestDB(t)
	store := NewSyncStore(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.EnsureForUser(ctx, "first@example.com", "Ravi Menon"))
	require.NoError(t, store.EnsureForUser(ctx, "second@example.com", "Ravi Menon"))

	var records []Servicer
	require.NoError(t, db.Order("created_at ASC").Find(&records).Error)
	require.Len(t, records, 2)
	assert.Equal(t, "ravi-menon", records[0].Slug)
	assert.NotEqual(t, records[0].Slug, records[1].Slug)
	assert.Contains(t, records[1].Slug, "ravi-menon")
}

func TestSyncFromUserMirrorsProfileFields(t *testing.T) {
	db := newTestDB(t)
	store := NewSyncStore(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.EnsureForUser(ctx, "mech@example.com", "Mechanic"))

	err := store.SyncFromUser(ctx, "mech@example.com",
		strPtr("Ernakulam"), strPtr("Engine Repair"), strPtr("8:00 AM - 5:00 PM"))
	require.NoError(t, err)

	var record Servicer
	require.NoError(t, db.Where("email = ?", "mech@example.com").First(&record).Error)
	require.NotNil(t, record.Location)
	assert.Equal(t, "Ernakulam", *record.Location)
	require.NotNil(t, record.WorkType)
	assert.Equal(t, "Engine Repair", *record.WorkType)
	assert.Equal(t, "8:00 AM - 5:00 PM", record.AvailableTime)
}

func TestSyncFromUserDefaultsAvailableTimeWhenAbsent(t *testing.T) {
	db := newTestDB(t)
	store := NewSyncStore(db, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, store.EnsureForUser(ctx, "mech@example.com", "Mechanic"))
	require.NoError(t, db.Model(&Servicer{}).
		Where("email = ?", "mech@example.com").
		Update("available_time", "7:00 AM - 3:00 PM").Error)

	require.NoError(t, store.SyncFromUser(ctx, "mech@example.com", strPtr("Kochi"), nil, nil))

	var record Servicer
	require.NoError(t, db.Where("email = ?", "mech@example.com").First(&record).Error)
	assert.Equal(t, DefaultAvailableTime, record.AvailableTime,
		"an absent available time must reset to the default window")
	assert.Nil(t, record.WorkType, "an absent work type must clear the stored value")
}

func TestSyncFromUserSilentlySkipsUnknownEmail(t *testing.T) {
	db := newTestDB(t)
	store := NewSyncStore(db, zap.NewNop())
	ctx := context.Background()

	err := store.SyncFromUser(ctx, "nobody@example.com", strPtr("Kochi"), nil, nil)
	assert.NoError(t, err, "a profile save for a non-servicer account must not fail")

	var count int64
	require.NoError(t, db.Model(&Servicer{}).Count(&count).Error)
	assert.Zero(t, count, "the skip must not create a servicer record")
}
