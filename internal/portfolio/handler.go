package portfolio

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/shared/server/respond"
)

// Handler exposes the portfolio content read-only.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches portfolio routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/portfolio", h.getPortfolio)
	rg.GET("/portfolio/summary", h.getSummary)
	rg.GET("/portfolio/skills", h.listSkills)
	rg.GET("/portfolio/skills/top", h.topSkills)
	rg.GET("/portfolio/projects/featured", h.featuredProjects)
	rg.GET("/portfolio/projects/related", h.relatedProjects)
}

type skillsQuery struct {
	Category string `form:"category" binding:"max=64"`
	SortBy   string `form:"sortBy" binding:"omitempty,oneof=level experience name"`
	Order    string `form:"order" binding:"omitempty,oneof=asc desc"`
	MinLevel *int   `form:"minLevel" binding:"omitempty,gte=0,lte=100"`
}

func (h *Handler) getSummary(c *gin.Context) {
	summary, err := h.Svc.Summary(c.Request.Context(), c.Query("lang"))
	if err != nil {
		h.fail(c, err, "failed to load portfolio summary")
		return
	}
	respond.OK(c, summary)
}

func (h *Handler) listSkills(c *gin.Context) {
	var q skillsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		return
	}
	skills, err := h.Svc.Skills(c.Request.Context(), SkillQuery{
		Category: q.Category,
		SortBy:   q.SortBy,
		Order:    q.Order,
		MinLevel: q.MinLevel,
	})
	if err != nil {
		h.fail(c, err, "failed to load skills")
		return
	}
	respond.OK(c, gin.H{"skills": skills})
}

func (h *Handler) topSkills(c *gin.Context) {
	limit := DefaultTopSkills
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 50 {
			respond.Error(c, http.StatusBadRequest, "validation_error", "limit must be between 1 and 50", nil)
			return
		}
		limit = n
	}
	skills, err := h.Svc.TopSkills(c.Request.Context(), limit, c.Query("lang"))
	if err != nil {
		h.fail(c, err, "failed to load skills")
		return
	}
	respond.OK(c, gin.H{"skills": skills})
}

func (h *Handler) featuredProjects(c *gin.Context) {
	projects, err := h.Svc.FeaturedProjects(c.Request.Context(), c.Query("lang"))
	if err != nil {
		h.fail(c, err, "failed to load projects")
		return
	}
	respond.OK(c, gin.H{"projects": projects})
}

func (h *Handler) relatedProjects(c *gin.Context) {
	title := c.Query("title")
	if title == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "title is required", nil)
		return
	}
	projects, err := h.Svc.RelatedProjects(c.Request.Context(), c.Query("lang"), title)
	if err != nil {
		h.fail(c, err, "failed to load projects")
		return
	}
	respond.OK(c, gin.H{"projects": projects})
}

func (h *Handler) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", msg, nil)
	}
}

func (h *Handler) getPortfolio(c *gin.Context) {
	lang := ResolveLanguage(c.Query("lang"))
	bundle, err := h.Svc.Bundle(c.Request.Context(), BundleRequest{
		Language:          lang,
		IncludeSkills:     true,
		IncludeProjects:   true,
		IncludeExperience: true,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "portfolio content not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load portfolio", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"language": lang,
		"bundle":   bundle,
	})
}
