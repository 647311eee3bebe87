package services

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func postIDs(items []models.Post) []string {
	return lo.Map(items, func(item models.Post, _ int) string {
		return item.ID
	})
}

func TestFeedScenario(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	bob := newAccount(t, "bob")

	_, err := ToggleFollow(alice, bob)
	require.NoError(t, err)
	post := newPost(t, bob)

	feed, err := GetFeed(alice)
	require.NoError(t, err)
	assert.Equal(t, []string{post.ID}, postIDs(feed))

	_, err = ToggleBlock(bob, alice)
	require.NoError(t, err)

	feed, err = GetFeed(alice)
	require.NoError(t, err)
	assert.Empty(t, feed)
	assert.EqualValues(t, 0, countFollowEdges(t, alice, bob))
}

func TestFeedIgnoresStaleFollowEdges(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	bob := newAccount(t, "bob")
	carol := newAccount(t, "carol")
	newPost(t, bob)
	newPost(t, carol)

	require.NoError(t, BlockAccount(alice, bob))
	require.NoError(t, BlockAccount(carol, alice))

	// Edges that should have been pruned, written behind the service's back.
	require.NoError(t, database.C.Create(&models.Follow{FollowerID: alice.ID, FollowingID: bob.ID}).Error)
	require.NoError(t, database.C.Create(&models.Follow{FollowerID: alice.ID, FollowingID: carol.ID}).Error)

	feed, err := GetFeed(alice)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFeedBlockCommittedDuringRead(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	bob := newAccount(t, "bob")

	_, err := ToggleFollow(alice, bob)
	require.NoError(t, err)
	post := newPost(t, bob)

	var fired atomic.Bool
	name := "test:block_during_feed"
	require.NoError(t, database.C.Callback().Query().After("gorm:query").Register(name, func(db *gorm.DB) {
		if db.Statement.Table != "posts" || !fired.CompareAndSwap(false, true) {
			return
		}
		_, err := ToggleBlock(bob, alice)
		assert.NoError(t, err)
	}))
	t.Cleanup(func() {
		_ = database.C.Callback().Query().Remove(name)
	})

	feed, err := GetFeed(alice)
	require.NoError(t, err)
	require.True(t, fired.Load())
	assert.Equal(t, []string{post.ID}, postIDs(feed))

	blocking, err := IsBlocking(bob.ID, alice.ID)
	require.NoError(t, err)
	require.True(t, blocking)

	feed, err = GetFeed(alice)
	require.NoError(t, err)
	assert.Empty(t, feed)

	view, err := ViewProfile("bob", alice)
	require.NoError(t, err)
	assert.Equal(t, ProfileBlockedByUser, view.Visibility)
	assert.Empty(t, view.Posts)

	suggestions, err := GetSuggestions(alice)
	require.NoError(t, err)
	assert.Empty(t, suggestions)
}

func TestFeedOrdering(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	bob := newAccount(t, "bob")
	carol := newAccount(t, "carol")

	_, err := ToggleFollow(alice, bob)
	require.NoError(t, err)
	_, err = ToggleFollow(alice, carol)
	require.NoError(t, err)

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	oldest := newPostAt(t, bob, base)
	middle := newPostAt(t, carol, base.Add(time.Minute))
	newest := newPostAt(t, bob, base.Add(2*time.Minute))
	tied := newPostAt(t, carol, base.Add(2*time.Minute))

	feed, err := GetFeed(alice)
	require.NoError(t, err)
	require.Len(t, feed, 4)

	first, second := newest.ID, tied.ID
	if second > first {
		first, second = second, first
	}
	assert.Equal(t, []string{first, second, middle.ID, oldest.ID}, postIDs(feed))
}

func TestFeedWithoutFollowing(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	bob := newAccount(t, "bob")
	newPost(t, bob)
	newPost(t, alice)

	feed, err := GetFeed(alice)
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestFeedCarriesViewerMeta(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	bob := newAccount(t, "bob")

	_, err := ToggleFollow(alice, bob)
	require.NoError(t, err)
	post := newPost(t, bob)
	_, _, err = ToggleLike(alice, post.ID)
	require.NoError(t, err)
	_, err = NewComment(alice, post.ID, "nice")
	require.NoError(t, err)

	feed, err := GetFeed(alice)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.True(t, feed[0].Metric.IsLiked)
	assert.EqualValues(t, 1, feed[0].Metric.CommentCount)
	assert.Equal(t, "/media/"+post.Image, feed[0].Metric.ImageURL)
	assert.Equal(t, 1, feed[0].NoOfLikes)
}

func TestSuggestionsExclusions(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	followed := newAccount(t, "followed")
	blocked := newAccount(t, "blocked")
	blocker := newAccount(t, "blocker")

	var open []uint
	for i := 0; i < 12; i++ {
		open = append(open, newAccount(t, fmt.Sprintf("stranger%d", i)).ID)
	}

	_, err := ToggleFollow(alice, followed)
	require.NoError(t, err)
	require.NoError(t, BlockAccount(alice, blocked))
	require.NoError(t, BlockAccount(blocker, alice))

	excluded := []uint{alice.ID, followed.ID, blocked.ID, blocker.ID}
	for i := 0; i < 20; i++ {
		items, err := GetSuggestions(alice)
		require.NoError(t, err)
		assert.Len(t, items, SuggestionLimit)

		ids := lo.Map(items, func(item models.Profile, _ int) uint {
			return item.AccountID
		})
		assert.Len(t, lo.Uniq(ids), len(ids))
		for _, id := range ids {
			assert.NotContains(t, excluded, id)
			assert.Contains(t, open, id)
		}
	}
}

func TestSuggestionsWithFewCandidates(t *testing.T) {
	resetStore(t)
	alice := newAccount(t, "alice")
	bob := newAccount(t, "bob")

	items, err := GetSuggestions(alice)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, bob.ID, items[0].AccountID)

	_, err = ToggleFollow(alice, bob)
	require.NoError(t, err)

	items, err = GetSuggestions(alice)
	require.NoError(t, err)
	assert.Empty(t, items)
}
