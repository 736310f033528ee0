package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collabdir/internal/auth"
	"collabdir/internal/directory"
)

func (h *Handler) registerUser(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in directory.RegisterInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		u, err := h.users.Register(c.Request.Context(), userType, in)
		if err != nil {
			respondErr(c, err)
			return
		}

		tokens, err := auth.Issue(u.ID, u.Email, u.UserType, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "token issue failed"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"message":      userType + " registered successfully",
			"user_id":      u.ID,
			"access_token": tokens.AccessToken,
		})
	}
}

func (h *Handler) login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email and password required"})
		return
	}

	u, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// 401 rather than 403: credentials failed, not a role check.
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid email or password"})
		return
	}

	tokens, err := auth.Issue(u.ID, u.Email, u.UserType, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "token issue failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"user": gin.H{
			"id":        u.ID,
			"name":      u.Name,
			"email":     u.Email,
			"user_type": u.UserType,
		},
	})
}

func (h *Handler) refresh(c *gin.Context) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	tokens, err := auth.Issue(claims.Subject, claims.Email, claims.UserType, h.cfg.JWTIssuer, h.cfg.JWTSigningKey, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "token issue failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "access_token": tokens.AccessToken})
}

func (h *Handler) me(c *gin.Context) {
	claims, ok := auth.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	u, err := h.users.GetAny(c.Request.Context(), claims.Subject)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": u})
}
