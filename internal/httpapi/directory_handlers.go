package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"collabdir/internal/directory"
)

func (h *Handler) listUsers(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		f := directory.Filters{
			Department: c.Query("department"),
			Search:     c.Query("search"),
		}
		if raw := c.Query("research_interests"); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					f.Interests = append(f.Interests, part)
				}
			}
		}

		users, err := h.users.List(c.Request.Context(), userType, f)
		if err != nil {
			respondErr(c, err)
			return
		}
		if users == nil {
			users = []directory.User{}
		}

		key := "students"
		if userType == directory.TypeFaculty {
			key = "faculty"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, key: users, "count": len(users)})
	}
}

func (h *Handler) getUser(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, err := h.users.Get(c.Request.Context(), c.Param("id"), userType)
		if err != nil {
			respondErr(c, err)
			return
		}
		key := "student"
		if userType == directory.TypeFaculty {
			key = "faculty"
		}
		c.JSON(http.StatusOK, gin.H{"success": true, key: u})
	}
}

func (h *Handler) updateUser(userType string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := actor(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid token"})
			return
		}

		var upd directory.Update
		if err := c.ShouldBindJSON(&upd); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		if err := h.users.UpdateProfile(c.Request.Context(), caller.ID, c.Param("id"), userType, upd); err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": userType + " updated successfully"})
	}
}

func (h *Handler) programs(c *gin.Context) {
	values, err := h.users.Programs(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "programs": emptyIfNilStrings(values)})
}

func (h *Handler) departments(c *gin.Context) {
	values, err := h.users.Departments(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "departments": emptyIfNilStrings(values)})
}

func (h *Handler) researchInterests(c *gin.Context) {
	values, err := h.users.Interests(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "research_interests": emptyIfNilStrings(values)})
}

func emptyIfNilStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
