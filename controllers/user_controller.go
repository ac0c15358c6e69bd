package controllers

import (
	"chat-engine/middlewares"
	"chat-engine/models"
	"chat-engine/services"
	"chat-engine/utils"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// UserController is the minimal account surface the chat engine needs from
// its authentication collaborator: enough to obtain an authenticated user
// id and a nickname. Profile management proper lives elsewhere.
type UserController struct {
	Users *services.UserService
}

// Register creates an account and returns a token.
func (uc *UserController) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Nickname string `json:"nickname" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Username: input.Username,
		Nickname: input.Nickname,
		Password: string(hashed),
	}
	if err := uc.Users.CreateUser(&user); err != nil {
		if errors.Is(err, services.ErrConflict) {
			utils.RespondError(c, http.StatusBadRequest, "username already exists")
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, "failed to create user")
		return
	}

	token, err := services.GenerateToken(user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, nil)
}

// Login verifies credentials and returns a token.
func (uc *UserController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	user, err := uc.Users.GetUserByUsername(input.Username)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := uc.Users.TouchLastLogin(user); err != nil {
		log.Println("failed to update last login:", err)
	}

	token, err := services.GenerateToken(*user)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "failed to generate token")
		return
	}
	utils.RespondSuccess(c, gin.H{"token": token}, nil)
}

// GetUserInfo returns the authenticated user's profile basics.
func (uc *UserController) GetUserInfo(c *gin.Context) {
	id, ok := middlewares.CurrentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, "login required")
		return
	}
	user, err := uc.Users.GetUserByID(id)
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, "user not found")
		return
	}
	utils.RespondSuccess(c, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"nickname": user.Nickname,
	}, nil)
}
