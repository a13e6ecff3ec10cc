package handlers

import (
	"net/http"

	"Disastrous/internal/models"
	errs "Disastrous/pkg/errors"
	"Disastrous/pkg/logger"
	"Disastrous/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// 救援账号注册
func (h *Handlers) handleUserSignup(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request", gin.H{"error": err.Error()})
		return
	}

	user, err := models.RegisterUser(h.db, req.Email, req.Password, models.RoleRescue)
	if err != nil {
		// 未标码的错误不把细节透给客户端
		if errs.GetCode(err) == errs.CodeUnknown {
			logger.Error("register failed", zap.Error(err))
			err = errs.Wrap(err, "registration failed")
		}
		response.Error(c, err)
		return
	}
	response.Success(c, "registered", gin.H{"id": user.ID, "email": user.Email, "role": user.Role})
}

func (h *Handlers) handleUserSignin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request", gin.H{"error": err.Error()})
		return
	}

	user, err := models.Authenticate(h.db, req.Email, req.Password)
	if err != nil {
		if errs.GetCode(err) == errs.CodeUnknown {
			logger.Error("login failed", zap.Error(err))
			err = errs.Wrap(err, "login failed")
		}
		response.Error(c, err)
		return
	}
	if err := models.LoginSession(c, user); err != nil {
		logger.Error("session save failed", zap.Error(err))
		response.FailWithStatus(c, http.StatusInternalServerError, "login failed", nil)
		return
	}
	response.Success(c, "logged in", gin.H{"id": user.ID, "role": user.Role})
}

func (h *Handlers) handleUserLogout(c *gin.Context) {
	if err := models.LogoutSession(c); err != nil {
		response.FailWithStatus(c, http.StatusInternalServerError, "logout failed", nil)
		return
	}
	response.Success(c, "logged out", nil)
}

func (h *Handlers) handleUserInfo(c *gin.Context) {
	user := models.CurrentUser(c)
	if user == nil {
		response.FailWithStatus(c, http.StatusUnauthorized, "not logged in", nil)
		return
	}
	response.Success(c, "ok", user)
}

// 地址信息编辑
func (h *Handlers) handleUserProfileUpdate(c *gin.Context) {
	var req struct {
		Street   string `json:"street"`
		Locality string `json:"locality"`
		City     string `json:"city"`
		State    string `json:"state"`
		Pincode  string `json:"pincode" binding:"omitempty,len=6,numeric"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, "invalid request", gin.H{"error": err.Error()})
		return
	}

	user := models.CurrentUser(c)
	if user == nil {
		response.FailWithStatus(c, http.StatusUnauthorized, "not logged in", nil)
		return
	}

	updated, err := models.UpdateUserAddress(h.db, user.ID, req.Street, req.Locality, req.City, req.State, req.Pincode)
	if err != nil {
		if errs.GetCode(err) == errs.CodeUnknown {
			logger.Error("profile update failed", zap.Error(err))
			err = errs.Wrap(err, "profile update failed")
		}
		response.Error(c, err)
		return
	}
	response.Success(c, "profile updated", updated)
}
