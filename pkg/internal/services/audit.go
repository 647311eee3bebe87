package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/metrics"
	"github.com/rs/zerolog/log"
)

type likeCounterDrift struct {
	ID        string
	NoOfLikes int
	Actual    int
}

// AuditLikeCounters resets every post whose counter disagrees with its like
// rows and returns how many were repaired. The repair recounts inside the
// update so likes landing after the scan are not lost.
func AuditLikeCounters() (int, error) {
	var drifted []likeCounterDrift
	if err := database.C.Raw(
		"SELECT p.id, p.no_of_likes, COUNT(l.id) AS actual " +
			"FROM posts p LEFT JOIN post_likes l ON l.post_id = p.id " +
			"GROUP BY p.id, p.no_of_likes " +
			"HAVING p.no_of_likes <> COUNT(l.id)",
	).Scan(&drifted).Error; err != nil {
		return 0, fmt.Errorf("unable to audit like counters: %v", err)
	}

	repaired := 0
	for _, item := range drifted {
		log.Warn().
			Str("post", item.ID).
			Int("counter", item.NoOfLikes).
			Int("actual", item.Actual).
			Msg("Like counter drifted, repairing...")
		if err := database.C.Exec(
			"UPDATE posts SET no_of_likes = "+
				"(SELECT COUNT(*) FROM post_likes WHERE post_likes.post_id = posts.id) "+
				"WHERE id = ?",
			item.ID,
		).Error; err != nil {
			log.Error().Err(err).Str("post", item.ID).Msg("An error occurred when repairing like counter...")
			continue
		}
		repaired++
	}

	metrics.LikeCounterDrift.Add(float64(repaired))
	return repaired, nil
}

func DoLikeCounterAudit() {
	log.Debug().Msg("Starting auditing like counters...")
	if count, err := AuditLikeCounters(); err != nil {
		log.Error().Err(err).Msg("An error occurred when auditing like counters...")
	} else {
		log.Info().Int("repaired", count).Msg("Audited like counters.")
	}
}
