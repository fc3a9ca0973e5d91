package api

import (
	"net/http"

	"ecommerce-api/internal/service"

	"github.com/gin-gonic/gin"
)

// register handles user registration and returns a signed token
func (h *Handler) register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Registration failed")
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// login handles credential checks and returns a signed token
func (h *Handler) login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// logout is stateless: tokens expire on their own, the client just
// discards its copy.
func (h *Handler) logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// checkEmail reports whether an email is already registered
func (h *Handler) checkEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing email"})
		return
	}

	exists, err := h.authService.CheckEmail(c.Request.Context(), email)
	if err != nil {
		respondError(c, err, "Failed to check email")
		return
	}
	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

// getUsers handles paginated user listing
func (h *Handler) getUsers(c *gin.Context) {
	page, err := h.userService.GetUsers(c.Request.Context(), intQuery(c, "page", 0), intQuery(c, "size", 10))
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, page)
}

// getUser handles get user by ID
func (h *Handler) getUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) getUserByEmail(c *gin.Context) {
	user, err := h.userService.GetUserByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, err, "User not found")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) getUsersByRole(c *gin.Context) {
	users, err := h.userService.GetUsersByRole(c.Request.Context(), c.Param("role"))
	if err != nil {
		respondError(c, err, "Failed to list users by role")
		return
	}
	c.JSON(http.StatusOK, users)
}

// createUser handles admin user creation
func (h *Handler) createUser(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.CreateUser(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.UpdateUser(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err, "Failed to update user")
		return
	}
	c.JSON(http.StatusOK, user)
}

// deleteUser deactivates a user, preserving their order history
func (h *Handler) deleteUser(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.userService.DeleteUser(c.Request.Context(), userID); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}
	c.Status(http.StatusNoContent)
}
