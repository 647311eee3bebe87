package services

import (
	"fmt"
	"sort"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
)

// SortPostsForFeed orders newest first, equal timestamps fall back to id descending.
func SortPostsForFeed(items []models.Post) {
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})
}

// GetFeed collects the posts of everyone the user follows, minus anyone on
// either side of a block with the user. The block filter does not trust the
// follow edges to have been pruned.
func GetFeed(user models.Account) ([]models.Post, error) {
	following := database.C.Model(&models.Follow{}).
		Select("following_id").
		Where("follower_id = ?", user.ID)

	var items []models.Post
	tx := PreloadGeneral(database.C).Where("account_id IN (?)", following)
	if err := FilterPostWithUserContext(tx, user.ID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("unable to load feed posts: %v", err)
	}

	SortPostsForFeed(items)
	return CompletePostMeta(items, user.ID)
}
