package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qa-workflow-simulator/models"
	"qa-workflow-simulator/services"
)

type ArticleHandler struct {
	workflowService services.WorkflowService
	defectService   services.DefectService
}

func NewArticleHandler(workflowService services.WorkflowService, defectService services.DefectService) *ArticleHandler {
	return &ArticleHandler{
		workflowService: workflowService,
		defectService:   defectService,
	}
}

// CreateArticle makes a draft. The defect check runs before the engine is
// asked to mutate so the detector sees the submitted input as-is.
func (h *ArticleHandler) CreateArticle(c *gin.Context) {
	var req models.CreateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	triggered := h.defectService.CheckAction(models.ActionContext{
		Action: services.SyntheticActionCreate,
		Title:  req.Title,
	})

	article, err := h.workflowService.Create(req.Title, req.Body, req.Category)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            err.Error(),
			"defect_triggered": triggered,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"article":          article,
		"defect_triggered": triggered,
	})
}

func (h *ArticleHandler) GetArticles(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if !models.IsValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing role"})
		return
	}

	articles := h.workflowService.Visible(role)

	c.JSON(http.StatusOK, gin.H{
		"articles":        articles,
		"total":           len(articles),
		"can_create_more": h.workflowService.CanCreateMore(),
	})
}

// GetArticle returns a single article by id regardless of the role's list
// visibility. The list endpoint filters correctly; the direct fetch is the
// seeded leak that lets archived content reach other roles, and viewing it
// that way is what the detector is watching for.
func (h *ArticleHandler) GetArticle(c *gin.Context) {
	role := models.Role(c.Query("role"))
	if !models.IsValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or missing role"})
		return
	}

	article, found := h.workflowService.Get(c.Param("id"))
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	triggered := h.defectService.CheckAction(models.ActionContext{
		FromState: article.State,
		Action:    services.SyntheticActionView,
		Title:     article.Title,
		Role:      role,
	})

	c.JSON(http.StatusOK, gin.H{
		"article":          article,
		"defect_triggered": triggered,
	})
}

// UpdateArticle patches fields. No-op saves and short titles are detector
// material; both checks run against the pre-mutation article.
func (h *ArticleHandler) UpdateArticle(c *gin.Context) {
	var req models.UpdateArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	article, found := h.workflowService.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	triggered := false
	if isNoopUpdate(article, req) {
		triggered = h.defectService.CheckAction(models.ActionContext{
			FromState: article.State,
			Action:    services.SyntheticActionSaveUnchanged,
			Title:     article.Title,
		})
	} else if req.Title != nil {
		triggered = h.defectService.CheckAction(models.ActionContext{
			FromState: article.State,
			Action:    string(models.ActionEdit),
			Title:     *req.Title,
		})
	}

	if !h.workflowService.Update(id, req) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	updated, _ := h.workflowService.Get(id)
	c.JSON(http.StatusOK, gin.H{
		"article":          updated,
		"defect_triggered": triggered,
	})
}

// PerformAction runs one state transition. The detector inspects the
// pre-mutation (state, action, role) tuple first, then the engine decides;
// a discovered defect never unlocks a transition the table forbids.
func (h *ArticleHandler) PerformAction(c *gin.Context) {
	var req models.PerformActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	article, found := h.workflowService.Get(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	triggered := h.defectService.CheckAction(models.ActionContext{
		FromState: article.State,
		Action:    string(req.Action),
		Title:     article.Title,
		Role:      req.Role,
	})

	ok, reason := h.workflowService.PerformAction(id, req.Action, req.Role)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":            reason,
			"defect_triggered": triggered,
		})
		return
	}

	resp := gin.H{
		"message":          "Action performed successfully",
		"defect_triggered": triggered,
	}
	if updated, stillThere := h.workflowService.Get(id); stillThere {
		resp["article"] = updated
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ArticleHandler) ClearArticles(c *gin.Context) {
	h.workflowService.ClearAll()
	c.JSON(http.StatusOK, gin.H{"message": "All articles cleared"})
}

func isNoopUpdate(article *models.Article, req models.UpdateArticleRequest) bool {
	if req.Title == nil && req.Body == nil && req.Category == nil {
		return true
	}
	if req.Title != nil && *req.Title != article.Title {
		return false
	}
	if req.Body != nil && *req.Body != article.Body {
		return false
	}
	if req.Category != nil && *req.Category != article.Category {
		return false
	}
	return true
}
