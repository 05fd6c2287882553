package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"stayhub/internal/app/services/auth"
)

type AuthHandler struct {
	Service *auth.Service
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Name      string `json:"name" binding:"required"`
	Password  string `json:"password" binding:"required"`
	WantsHost bool   `json:"wants_host"`
}

func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Service.Register(c.Request.Context(), auth.RegisterParams{
		Email:     req.Email,
		Name:      req.Name,
		Password:  req.Password,
		WantsHost: req.WantsHost,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token": result.Token,
		"user":  userBody(result),
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.Service.Login(c.Request.Context(), auth.LoginParams{Email: req.Email, Password: req.Password})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": result.Token,
		"user":  userBody(result),
	})
}

func (h AuthHandler) Logout(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	if err := h.Service.Logout(c.Request.Context(), p.Token); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h AuthHandler) Me(c *gin.Context) {
	p, ok := requireRole(c, "")
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":    p.ID,
		"email": p.Email,
		"name":  p.Name,
		"roles": p.Roles,
	})
}

func userBody(result *auth.AuthResult) gin.H {
	return gin.H{
		"id":    result.User.ID,
		"email": result.User.Email,
		"name":  result.User.Name,
		"roles": result.User.Roles,
	}
}

var _ AuthHTTP = AuthHandler{}
