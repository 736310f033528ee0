// Package httpapi wires the directory, matching, and collaboration services
// to gin routes and translates service outcomes into HTTP responses.
package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"collabdir/internal/apperr"
	"collabdir/internal/auth"
	"collabdir/internal/collab"
	"collabdir/internal/config"
	"collabdir/internal/directory"
	"collabdir/internal/match"
	"collabdir/internal/notify"
)

// Handler bundles the services behind the HTTP surface.
type Handler struct {
	cfg     config.App
	users   *directory.Service
	matcher *match.Matcher
	collab  *collab.Service
	notes   *notify.Repository
}

// New creates a handler.
func New(cfg config.App, users *directory.Service, matcher *match.Matcher, collabSvc *collab.Service, notes *notify.Repository) *Handler {
	return &Handler{cfg: cfg, users: users, matcher: matcher, collab: collabSvc, notes: notes}
}

// Register mounts all routes under /api.
func (h *Handler) Register(r *gin.Engine) {
	api := r.Group("/api")

	authn := auth.Required(h.cfg.JWTSigningKey, h.cfg.JWTIssuer)

	authGroup := api.Group("/auth")
	authGroup.POST("/register/student", h.registerUser(directory.TypeStudent))
	authGroup.POST("/register/faculty", h.registerUser(directory.TypeFaculty))
	authGroup.POST("/login", h.login)
	authGroup.POST("/refresh", auth.RequiredRefresh(h.cfg.JWTSigningKey, h.cfg.JWTIssuer), h.refresh)
	authGroup.GET("/me", authn, h.me)

	// Public directory browsing.
	api.GET("/students", h.listUsers(directory.TypeStudent))
	api.GET("/students/:id", h.getUser(directory.TypeStudent))
	api.GET("/faculty", h.listUsers(directory.TypeFaculty))
	api.GET("/faculty/:id", h.getUser(directory.TypeFaculty))
	api.GET("/programs", h.programs)
	api.GET("/departments", h.departments)
	api.GET("/research-interests", h.researchInterests)

	api.PUT("/students/:id", authn, auth.UserType(directory.TypeStudent), h.updateUser(directory.TypeStudent))
	api.PUT("/faculty/:id", authn, auth.UserType(directory.TypeFaculty), h.updateUser(directory.TypeFaculty))

	api.GET("/matches", authn, h.matchesForCaller)
	api.GET("/matches/:user_id", authn, h.matchesForUser)

	api.POST("/request", authn, h.createRequest)
	api.GET("/requests/student", authn, h.studentRequests)
	api.GET("/requests/faculty", authn, h.facultyRequests)
	api.PUT("/request/:id/status", authn, h.updateRequestStatus)

	api.GET("/notifications", authn, h.notifications)
}

// actor extracts the authenticated caller set by auth.Required.
func actor(c *gin.Context) (collab.Actor, bool) {
	claims, ok := auth.FromContext(c)
	if !ok {
		return collab.Actor{}, false
	}
	return collab.Actor{ID: claims.Subject, UserType: claims.UserType}, true
}

// respondErr maps service errors onto the reported-outcome envelope.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, apperr.ErrValidation):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, apperr.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, apperr.ErrUnauthorized):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, apperr.ErrConflict):
		status, msg = http.StatusConflict, err.Error()
	default:
		log.Printf("request failed: %v", err)
	}
	c.JSON(status, gin.H{"success": false, "message": msg})
}
