package leaveform

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the form API. submitGuards run in front of the
// submit endpoint only (rate limiting, idempotency).
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	submitGuards ...gin.HandlerFunc,
) {
	forms := r.Group("/leave-forms")
	{
		forms.POST("", handler.Open)
		forms.GET("/:id", handler.Get)
		forms.PATCH("/:id", handler.UpdateField)
		forms.POST("/:id/submit", append(submitGuards, handler.Submit)...)
		forms.GET("/:id/submissions", handler.SessionSubmissions)
	}

	r.GET("/leave-form-submissions", handler.ListSubmissions)
}
