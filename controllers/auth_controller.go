package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/akazansky/survey-api/config"
	"github.com/akazansky/survey-api/models"
	"github.com/akazansky/survey-api/utils"
)

// RefreshTokenCookie carries the refresh token. It never appears in a
// JSON body; the cookie is the only side channel.
const RefreshTokenCookie = "REFRESHTOKEN"

type loginReq struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func setRefreshCookie(c *gin.Context, token string) {
	c.SetCookie(
		RefreshTokenCookie,
		token,
		int(utils.RefreshTokenTTL.Seconds()),
		"/",
		"",
		true, // secure
		true, // http-only
	)
}

// credentialsResponse issues both tokens for the user: the access token
// in the body, the refresh token only as a cookie.
func credentialsResponse(c *gin.Context, user models.User) {
	uid := strconv.FormatUint(uint64(user.ID), 10)

	access, expires, err := utils.GenerateAccessToken(uid)
	if err != nil {
		internalError(c, "Could not issue token")
		return
	}
	refresh, _, err := utils.GenerateRefreshToken(uid)
	if err != nil {
		internalError(c, "Could not issue token")
		return
	}

	setRefreshCookie(c, refresh)
	c.JSON(http.StatusOK, gin.H{
		"access_token": access,
		"expires":      expires,
		"user_id":      user.ID,
	})
}

// Login authenticates an administrator by login and password. Unknown
// logins and wrong passwords are indistinguishable: both answer 401.
func Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payload")
		return
	}

	var user models.User
	err := config.DB.Preload("Credential").
		Where("login = ?", req.Login).
		First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			config.Logger.Warn("login lookup failed", "error", err)
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if user.Status == models.StatusBlocked || user.Status == models.StatusDeleted {
		config.Logger.Warn("login rejected", "reason", "inactive account", "user_id", user.ID)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	if user.Credential == nil || !utils.CheckPassword(user.Credential.PasswordHash, req.Password, user.Salt) {
		config.Logger.Warn("login rejected", "reason", "bad credentials", "login", req.Login)
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	credentialsResponse(c, user)
}

// Refresh exchanges a valid refresh cookie for a fresh access token and
// rotates the cookie.
func Refresh(c *gin.Context) {
	raw, err := c.Cookie(RefreshTokenCookie)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	claims, err := utils.VerifyRefreshToken(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	uid, err := strconv.ParseUint(claims.UserID, 10, 64)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uid).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	credentialsResponse(c, user)
}
