package services

import (
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.Disabled)

	viper.Set("security.jwt_secret", "services-test-secret")
	viper.Set("media.base_url", "/media")
	viper.Set("language.detect", false)

	if err := cache.NewStore(); err != nil {
		panic(err)
	}
	if err := database.Connect(sqlite.Open("file:services_test?mode=memory&cache=shared")); err != nil {
		panic(err)
	}
	sqlDB, err := database.C.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := database.RunMigration(database.C); err != nil {
		panic(err)
	}

	MediaFs = afero.NewMemMapFs()

	os.Exit(m.Run())
}

// resetStore empties every table and the cache. SQLite hands out the same
// ids again once a table is empty, so cached entries must go too.
func resetStore(t *testing.T) {
	t.Helper()

	tx := database.C.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range database.AutoMaintainRange {
		require.NoError(t, tx.Delete(model).Error)
	}
	cache.Clear()
	cache.Wait()
	MediaFs = afero.NewMemMapFs()
}

var accountSeq atomic.Int64

func newAccount(t *testing.T, name string) models.Account {
	t.Helper()

	account := models.Account{
		Name:     name,
		Email:    fmt.Sprintf("%s-%d@example.com", name, accountSeq.Add(1)),
		Password: "not-a-real-hash",
	}
	require.NoError(t, database.C.Create(&account).Error)
	require.NoError(t, database.C.Create(&models.Profile{AccountID: account.ID}).Error)
	return account
}

func newPostAt(t *testing.T, owner models.Account, createdAt time.Time) models.Post {
	t.Helper()

	item := models.Post{
		Image:     fmt.Sprintf("posts/%d.png", createdAt.UnixNano()),
		Caption:   "caption",
		AccountID: owner.ID,
		CreatedAt: createdAt,
	}
	require.NoError(t, database.C.Create(&item).Error)
	item.Account = owner
	return item
}

func newPost(t *testing.T, owner models.Account) models.Post {
	t.Helper()
	return newPostAt(t, owner, time.Now())
}

func countNotifications(t *testing.T, recipient models.Account, kind string) int64 {
	t.Helper()

	var count int64
	require.NoError(t, database.C.Model(&models.Notification{}).
		Where("recipient_id = ? AND type = ?", recipient.ID, kind).
		Count(&count).Error)
	return count
}

func countFollowEdges(t *testing.T, a, b models.Account) int64 {
	t.Helper()

	var count int64
	require.NoError(t, database.C.Model(&models.Follow{}).
		Where("(follower_id = ? AND following_id = ?) OR (follower_id = ? AND following_id = ?)", a.ID, b.ID, b.ID, a.ID).
		Count(&count).Error)
	return count
}

// failNotificationWrites makes every notification insert fail until the test ends.
func failNotificationWrites(t *testing.T) {
	t.Helper()

	name := "test:fail_notifications"
	require.NoError(t, database.C.Callback().Create().Before("gorm:create").Register(name, func(db *gorm.DB) {
		if db.Statement.Table == "notifications" {
			_ = db.AddError(errors.New("notification store unavailable"))
		}
	}))
	t.Cleanup(func() {
		_ = database.C.Callback().Create().Remove(name)
	})
}
