package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const welcomePage = `<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8">
	<title>Comment Backend</title>
	<style>
		body { color: #FFF; background-color: #444; }
		a { color: #8F8; }
	</style>
</head>
<body>
	<h1>Welcome</h1>
</body>
</html>`

type HomeHandler struct{}

func NewHomeHandler() *HomeHandler {
	return &HomeHandler{}
}

// Index handles the root page
func (h *HomeHandler) Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(welcomePage))
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck reports service liveness
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
