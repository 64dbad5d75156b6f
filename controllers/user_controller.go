package controllers

import (
	"net/http"

	"shop-api/middleware"
	"shop-api/models"
	"shop-api/services"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// @Summary Get all users
// @Description Passwords are always returned empty
// @Tags Users
// @Security BearerAuth
// @Produce json
// @Success 200 {object} models.Response{data=[]models.UserResponse}
// @Router /users [get]
func (ctrl *UserController) GetAllUsers(c *gin.Context) {
	users, err := ctrl.userService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to retrieve users")
		return
	}

	c.JSON(http.StatusOK, models.Response{
		Success: true,
		Message: "Users retrieved successfully",
		Data:    users,
	})
}

// @Summary Delete user
// @Description Users may delete themselves; admins may delete anyone
// @Tags Users
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id} [delete]
func (ctrl *UserController) DeleteUser(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondBadRequest(c, "Invalid user ID", err)
		return
	}

	callerID, _ := middleware.CurrentUserID(c)
	callerRole, _ := middleware.CurrentRole(c)

	if err := ctrl.userService.DeleteUser(c.Request.Context(), callerID, callerRole, id); err != nil {
		respondError(c, err, "Failed to delete user")
		return
	}

	c.Status(http.StatusNoContent)
}
