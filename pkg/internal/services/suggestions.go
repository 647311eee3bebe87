package services

import (
	"fmt"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/samber/lo"
)

const (
	SuggestionSampleSize = 10
	SuggestionLimit      = 4
)

// GetSuggestions picks up to SuggestionLimit random accounts the user could
// follow. Itself, followed accounts and blocks in either direction are never
// candidates.
func GetSuggestions(user models.Account) ([]models.Profile, error) {
	rel, err := GetRelationContext(user.ID)
	if err != nil {
		return nil, err
	}

	excluded := append([]uint{user.ID}, rel.Following...)
	excluded = append(excluded, rel.Hidden()...)

	var candidates []uint
	if err := database.C.Model(&models.Account{}).
		Where("id NOT IN ?", lo.Uniq(excluded)).
		Pluck("id", &candidates).Error; err != nil {
		return nil, fmt.Errorf("unable to list suggestion candidates: %v", err)
	}

	// Shuffle then cut twice, the same as sampling SuggestionLimit directly.
	sample := lo.Slice(lo.Shuffle(candidates), 0, SuggestionSampleSize)
	if len(sample) == 0 {
		return []models.Profile{}, nil
	}

	var profiles []models.Profile
	if err := database.C.
		Where("account_id IN ?", sample).
		Preload("Account").
		Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("unable to load suggested profiles: %v", err)
	}

	// Keep the sampled order, the query returns rows in storage order.
	byAccount := lo.KeyBy(profiles, func(item models.Profile) uint {
		return item.AccountID
	})
	out := make([]models.Profile, 0, SuggestionLimit)
	for _, id := range sample {
		if profile, ok := byAccount[id]; ok {
			profile.AvatarURL = GetMediaURL(profile.Avatar)
			out = append(out, profile)
		}
		if len(out) >= SuggestionLimit {
			break
		}
	}

	return out, nil
}
