package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"collabdir/internal/collab"
	"collabdir/internal/match"
	"collabdir/internal/metrics"
)

func (h *Handler) matchesForCaller(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	h.serveMatches(c, caller.ID)
}

func (h *Handler) matchesForUser(c *gin.Context) {
	h.serveMatches(c, c.Param("user_id"))
}

func (h *Handler) serveMatches(c *gin.Context, userID string) {
	matches, err := h.matcher.FindMatches(c.Request.Context(), userID)
	if err != nil {
		respondErr(c, err)
		return
	}
	metrics.MatchQueries.Inc()
	if matches == nil {
		matches = []match.Match{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "matches": matches, "count": len(matches)})
}

func (h *Handler) createRequest(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}

	var req struct {
		FacultyID     string `json:"faculty_id" binding:"required"`
		Message       string `json:"message" binding:"required"`
		ResearchTopic string `json:"research_topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "faculty_id and message are required"})
		return
	}

	created, err := h.collab.Create(c.Request.Context(), caller, req.FacultyID, req.Message, req.ResearchTopic)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"message":    "Collaboration request created successfully",
		"request_id": created.ID,
	})
}

func (h *Handler) studentRequests(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	views, err := h.collab.ListForStudent(c.Request.Context(), caller)
	if err != nil {
		respondErr(c, err)
		return
	}
	if views == nil {
		views = []collab.StudentView{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": views, "count": len(views)})
}

func (h *Handler) facultyRequests(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	views, err := h.collab.ListForFaculty(c.Request.Context(), caller)
	if err != nil {
		respondErr(c, err)
		return
	}
	if views == nil {
		views = []collab.FacultyView{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": views, "count": len(views)})
}

func (h *Handler) updateRequestStatus(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "status is required"})
		return
	}

	updated, err := h.collab.UpdateStatus(c.Request.Context(), caller, c.Param("id"), req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request " + updated.Status})
}

func (h *Handler) notifications(c *gin.Context) {
	caller, ok := actor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
		return
	}
	notes, err := h.notes.ListForUser(c.Request.Context(), caller.ID, 50)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "notifications": notes, "count": len(notes)})
}
