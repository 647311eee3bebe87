package services

import (
	"errors"
	"fmt"
	"strings"

	"git.solsynth.dev/hypernet/circle/pkg/internal/database"
	"git.solsynth.dev/hypernet/circle/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func GetAccountWithID(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, fmt.Errorf("%w: account #%d", ErrNotFound, id)
		}
		return account, fmt.Errorf("unable to get account by id: %v", err)
	}
	return account, nil
}

func GetAccountByName(name string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("name = ?", name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, fmt.Errorf("%w: user %s", ErrNotFound, name)
		}
		return account, fmt.Errorf("unable to get account by name: %v", err)
	}
	return account, nil
}

// Signup creates the account and its empty profile in one transaction.
func Signup(name, email, password, confirm string) (models.Account, models.Profile, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)

	var account models.Account
	var profile models.Profile

	if len(name) == 0 || len(email) == 0 || len(password) == 0 || len(confirm) == 0 {
		return account, profile, fmt.Errorf("%w: all fields are required", ErrValidation)
	}
	if password != confirm {
		return account, profile, fmt.Errorf("%w: passwords do not match", ErrValidation)
	}

	var count int64
	if err := database.C.Model(&models.Account{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return account, profile, fmt.Errorf("unable to check email: %v", err)
	} else if count > 0 {
		return account, profile, fmt.Errorf("%w: email already taken", ErrConflict)
	}
	if err := database.C.Model(&models.Account{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return account, profile, fmt.Errorf("unable to check username: %v", err)
	} else if count > 0 {
		return account, profile, fmt.Errorf("%w: username already taken", ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return account, profile, fmt.Errorf("unable to hash password: %v", err)
	}

	account = models.Account{
		Name:     name,
		Email:    email,
		Password: string(hash),
	}

	err = database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&account).Error; err != nil {
			return err
		}
		profile = models.Profile{AccountID: account.ID}
		return tx.Create(&profile).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return account, profile, fmt.Errorf("%w: username or email already taken", ErrConflict)
	} else if err != nil {
		return account, profile, fmt.Errorf("unable to create account: %v", err)
	}

	profile.Account = account
	log.Info().Uint("account", account.ID).Msg("A new account has been signed up.")
	return account, profile, nil
}

func Authenticate(name, password string) (models.Account, error) {
	if len(name) == 0 || len(password) == 0 {
		return models.Account{}, fmt.Errorf("%w: username and password are required", ErrValidation)
	}

	var account models.Account
	if err := database.C.Where("name = ?", name).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return account, ErrUnauthenticated
		}
		return account, fmt.Errorf("unable to get account: %v", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(password)); err != nil {
		return account, ErrUnauthenticated
	}

	return account, nil
}
