package services

import (
	"fmt"
	"sort"
	"time"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
)

type featuredPoints struct {
	PostID       string
	SocialPoints int
}

// GetFeaturedPosts returns the posts that collected the most likes over the
// last 7 days. Likes given earlier do not count, neither do posts the viewer
// cannot see because of a block.
func GetFeaturedPosts(viewer models.Account, count int) ([]models.Post, error) {
	deadline := time.Now().Add(-7 * 24 * time.Hour)

	var ranked []featuredPoints
	if err := database.C.Model(&models.PostLike{}).
		Select("post_id, COUNT(*) AS social_points").
		Where("created_at >= ?", deadline).
		Group("post_id").
		Scan(&ranked).Error; err != nil {
		return nil, fmt.Errorf("unable to rank featured posts: %v", err)
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	points := make(map[string]int, len(ranked))
	ids := make([]string, 0, len(ranked))
	for _, item := range ranked {
		points[item.PostID] = item.SocialPoints
		ids = append(ids, item.PostID)
	}

	var items []models.Post
	tx := PreloadGeneral(database.C).Where("id IN ?", ids)
	if err := FilterPostWithUserContext(tx, viewer.ID).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("unable to load featured posts: %v", err)
	}

	SortPostsForFeed(items)
	sort.SliceStable(items, func(i, j int) bool {
		return points[items[i].ID] > points[items[j].ID]
	})
	if count > 0 && len(items) > count {
		items = items[:count]
	}

	return CompletePostMeta(items, viewer.ID)
}
