package config

import (
	"errors"

	"github.com/akazansky/survey-api/models"
	"github.com/akazansky/survey-api/utils"

	"gorm.io/gorm"
)

// EnsureAdmin creates an administrator account with its credential if
// no user with that login exists yet. The User and its Credential are
// written in one transaction; neither ever exists without the other.
func EnsureAdmin(db *gorm.DB, login, password string) (*models.User, error) {
	if login == "" || password == "" {
		return nil, errors.New("admin login and password must not be empty")
	}

	var existing models.User
	err := db.Where("login = ?", login).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user := models.User{
		Login:  &login,
		Salt:   utils.GenerateSalt(),
		Status: models.StatusActive,
		Role:   models.RoleAdmin,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		cred := models.Credential{
			UserID:       user.ID,
			PasswordHash: utils.HashPassword(password, user.Salt),
		}
		return tx.Create(&cred).Error
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
