package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/haodang/chatpdf-be/service"
	"github.com/haodang/chatpdf-be/types"
)

type UserManageHandler interface {
	HandleCreateUser(c *gin.Context)
	HandleListUsers(c *gin.Context)
	HandleGetUser(c *gin.Context)
	HandleDeleteUser(c *gin.Context)
}

type userManageHandler struct {
	userService service.UserService
}

func NewUserManageHandler(userService service.UserService) UserManageHandler {
	return &userManageHandler{
		userService: userService,
	}
}

func (h *userManageHandler) HandleCreateUser(c *gin.Context) {
	var req types.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "Invalid request body",
		})
		return
	}
	user := &types.User{
		Username: req.Username,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
		CreateAt: time.Now().Unix(),
		UpdateAt: time.Now().Unix(),
	}
	if err := h.userService.CreateUser(c, user); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
	})
}

func (h *userManageHandler) HandleListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   users,
	})
}

func (h *userManageHandler) HandleGetUser(c *gin.Context) {
	id := c.Query("id")
	user, err := h.userService.GetUser(c, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
		Data:   user,
	})
}

func (h *userManageHandler) HandleDeleteUser(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  false,
			Message: "id is required",
		})
		return
	}
	if err := h.userService.DeleteUser(c, id); err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  false,
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: true,
	})
}
