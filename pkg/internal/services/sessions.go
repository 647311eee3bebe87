package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	localCache "git.solsynth.dev/hypernet/circle/pkg/internal/cache"
	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SessionClaims struct {
	jwt.RegisteredClaims

	Name  string `json:"name"`
	Admin bool   `json:"admin"`
}

func getSessionTTL() time.Duration {
	if ttl := viper.GetDuration("security.session_ttl"); ttl > 0 {
		return ttl
	}
	return 7 * 24 * time.Hour
}

func getSessionSecret() []byte {
	return []byte(viper.GetString("security.jwt_secret"))
}

func GetRevokedSessionCacheKey(sessionId string) string {
	return fmt.Sprintf("revoked-session#%s", sessionId)
}

func GrantSession(account models.Account) (string, SessionClaims, error) {
	now := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.Itoa(int(account.ID)),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(getSessionTTL())),
		},
		Name:  account.Name,
		Admin: account.IsAdmin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(getSessionSecret())
	if err != nil {
		return "", claims, fmt.Errorf("unable to sign session: %v", err)
	}
	return signed, claims, nil
}

func ParseSessionClaims(token string) (*SessionClaims, error) {
	claims := new(SessionClaims)
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return getSessionSecret(), nil
	})
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: invalid session", ErrUnauthenticated)
	}

	if revoked, err := IsSessionRevoked(claims.ID, claims.ExpiresAt.Time); err != nil {
		return nil, err
	} else if revoked {
		return nil, fmt.Errorf("%w: session revoked", ErrUnauthenticated)
	}

	return claims, nil
}

func cacheRevokedSession(sessionId, subject string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if localCache.S == nil || ttl <= 0 {
		return
	}

	cacheManager := cache.New[any](localCache.S)
	if err := cacheManager.Set(
		context.Background(),
		GetRevokedSessionCacheKey(sessionId),
		true,
		store.WithExpiration(ttl),
		store.WithTags([]string{"revoked-session", fmt.Sprintf("account#%s", subject)}),
	); err != nil {
		log.Warn().Err(err).Str("session", sessionId).Msg("An error occurred when caching revoked session...")
		return
	}
	localCache.Wait()
}

// IsSessionRevoked consults the revoked sessions table, the cache only
// remembers positive answers. Revocation never gets undone, so a cached hit
// cannot go stale.
func IsSessionRevoked(sessionId string, expiresAt time.Time) (bool, error) {
	if localCache.S != nil {
		cacheManager := cache.New[any](localCache.S)
		if _, err := cacheManager.Get(context.Background(), GetRevokedSessionCacheKey(sessionId)); err == nil {
			return true, nil
		}
	}

	var item models.RevokedSession
	if err := database.C.Where("id = ?", sessionId).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("unable to check session revocation: %v", err)
	}

	cacheRevokedSession(sessionId, strconv.Itoa(int(item.AccountID)), expiresAt)
	return true, nil
}

// ParseSession resolves a session token to its live account.
func ParseSession(token string) (models.Account, error) {
	claims, err := ParseSessionClaims(token)
	if err != nil {
		return models.Account{}, err
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return models.Account{}, fmt.Errorf("%w: invalid session subject", ErrUnauthenticated)
	}

	return GetAccountWithID(uint(id))
}

// RevokeSession keeps the session id on the revoked list until it would expire anyway.
func RevokeSession(token string) error {
	claims, err := ParseSessionClaims(token)
	if err != nil {
		return err
	}

	account, _ := strconv.Atoi(claims.Subject)
	item := models.RevokedSession{
		ID:        claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		AccountID: uint(account),
	}
	if err := database.C.Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error; err != nil {
		return fmt.Errorf("unable to revoke session: %v", err)
	}

	cacheRevokedSession(claims.ID, claims.Subject, claims.ExpiresAt.Time)
	return nil
}

// PruneRevokedSessions drops revocations whose tokens have expired anyway.
func PruneRevokedSessions() (int64, error) {
	tx := database.C.Where("expires_at < ?", time.Now()).Delete(&models.RevokedSession{})
	if tx.Error != nil {
		return 0, fmt.Errorf("unable to prune revoked sessions: %v", tx.Error)
	}
	return tx.RowsAffected, nil
}

func DoRevokedSessionCleanup() {
	if count, err := PruneRevokedSessions(); err != nil {
		log.Error().Err(err).Msg("An error occurred when pruning revoked sessions...")
	} else {
		log.Debug().Int64("count", count).Msg("Pruned revoked sessions.")
	}
}
