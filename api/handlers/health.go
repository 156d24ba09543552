package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/customeros/mailharvest/interfaces"
)

// HealthCheck provides a simple health check endpoint
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

// Status returns the current state of the mail client connection
func Status(mailClient interfaces.MailClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := mailClient.Status()
		c.JSON(http.StatusOK, status)
	}
}
