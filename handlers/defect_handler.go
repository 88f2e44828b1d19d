package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qa-workflow-simulator/models"
	"qa-workflow-simulator/services"
)

type DefectHandler struct {
	defectService services.DefectService
}

func NewDefectHandler(defectService services.DefectService) *DefectHandler {
	return &DefectHandler{defectService: defectService}
}

func (h *DefectHandler) GetDefects(c *gin.Context) {
	defects := h.defectService.Found()

	c.JSON(http.StatusOK, gin.H{
		"defects": defects,
		"count":   len(defects),
	})
}

// RegisterDefect is the passthrough for conditions the UI detects itself,
// such as the responsive-layout check. Registration is idempotent;
// "triggered" is true only on first discovery.
func (h *DefectHandler) RegisterDefect(c *gin.Context) {
	var req models.RegisterDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	triggered := h.defectService.RegisterDefect(req.ID, req.Summary, req.Reproduction)

	c.JSON(http.StatusOK, gin.H{
		"triggered": triggered,
		"count":     h.defectService.Count(),
	})
}

func (h *DefectHandler) ResetDefects(c *gin.Context) {
	h.defectService.Reset()
	c.JSON(http.StatusOK, gin.H{"message": "Defect progress reset"})
}
