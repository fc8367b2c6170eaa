package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/biruk-1/Health-coach-sub000/internal/directory"
	"github.com/biruk-1/Health-coach-sub000/internal/domain"
	"github.com/biruk-1/Health-coach-sub000/internal/service"
	"github.com/biruk-1/Health-coach-sub000/pkg/log"
	"github.com/biruk-1/Health-coach-sub000/pkg/middleware"
	"github.com/biruk-1/Health-coach-sub000/pkg/response"
)

// Directory is the read side of the coach directory.
type Directory interface {
	Search(ctx context.Context, q domain.SearchQuery) domain.PageResult
	GetByID(ctx context.Context, id string) *domain.CoachRecord
	All(ctx context.Context) []domain.CoachRecord
	Stats() directory.Stats
}

// Handler handles HTTP requests for the coach directory.
type Handler struct {
	directory       Directory
	favoriteService service.FavoriteService
	authMiddleware  *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler. Favorites routes are only
// registered when both favoriteService and authMiddleware are set.
func NewHandler(dir Directory, favoriteService service.FavoriteService, authMiddleware *middleware.AuthMiddleware) *Handler {
	return &Handler{
		directory:       dir,
		favoriteService: favoriteService,
		authMiddleware:  authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Same contract as the upstream directory API.
	r.GET("/health-coaches", h.ListCoachesRaw)
	r.GET("/health-coaches/:id", h.GetCoachRaw)

	api := r.Group("/api/v1")
	{
		coaches := api.Group("/coaches")
		{
			coaches.GET("", h.ListCoaches)
			coaches.GET("/:id", h.GetCoach)
		}

		if h.favoriteService != nil && h.authMiddleware != nil {
			favorites := api.Group("/favorites", h.authMiddleware.RequireAuth())
			{
				favorites.GET("", h.ListFavorites)
				favorites.POST("/:coachId", h.AddFavorite)
				favorites.DELETE("/:coachId", h.RemoveFavorite)
			}
		}
	}
}

// listCoachesRequest is the query string of a coach listing.
type listCoachesRequest struct {
	Specialty  string   `form:"specialty"`
	Rating     *float64 `form:"rating" binding:"omitempty,gte=0,lte=5"`
	SearchTerm string   `form:"searchTerm"`
	Page       int      `form:"page"`
	Limit      int      `form:"limit" binding:"omitempty,gte=0"`
	All        bool     `form:"all"`
}

func (r listCoachesRequest) query() domain.SearchQuery {
	return domain.SearchQuery{
		Specialty:  r.Specialty,
		MinRating:  r.Rating,
		SearchTerm: r.SearchTerm,
		Page:       r.Page,
		PageSize:   r.Limit,
	}
}

// Health reports liveness and the cache state.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"cache":  h.directory.Stats(),
	})
}

// ListCoaches searches the directory.
func (h *Handler) ListCoaches(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req listCoachesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid coach listing request")
		response.BadRequest(c, err.Error())
		return
	}

	result := h.directory.Search(ctx, req.query())
	c.Set(log.FieldSource, result.Source)
	response.Success(c, result)
}

// GetCoach returns one coach profile.
func (h *Handler) GetCoach(c *gin.Context) {
	ctx := c.Request.Context()

	coach := h.directory.GetByID(ctx, c.Param("id"))
	if coach == nil {
		response.NotFoundRetryable(c, "coach not found")
		return
	}

	response.Success(c, coach)
}

// ListCoachesRaw serves the upstream listing envelope. With all=true it
// returns the whole dataset without pagination.
func (h *Handler) ListCoachesRaw(c *gin.Context) {
	ctx := c.Request.Context()

	var req listCoachesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.All {
		all := h.directory.All(ctx)
		c.JSON(http.StatusOK, gin.H{
			"coaches": all,
			"total":   len(all),
		})
		return
	}

	c.JSON(http.StatusOK, h.directory.Search(ctx, req.query()))
}

// GetCoachRaw serves the upstream single-coach contract.
func (h *Handler) GetCoachRaw(c *gin.Context) {
	coach := h.directory.GetByID(c.Request.Context(), c.Param("id"))
	if coach == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "coach not found"})
		return
	}
	c.JSON(http.StatusOK, coach)
}

// ListFavorites lists the caller's favorites.
func (h *Handler) ListFavorites(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "unauthorized")
		return
	}

	favorites, err := h.favoriteService.ListFavorites(ctx, userID)
	if err != nil {
		l.Error().Err(err).Msg("failed to list favorites")
		response.InternalError(c, "failed to list favorites")
		return
	}

	response.Success(c, favorites)
}

// AddFavorite bookmarks a coach for the caller.
func (h *Handler) AddFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "unauthorized")
		return
	}

	coachID := c.Param("coachId")
	fav, err := h.favoriteService.AddFavorite(ctx, userID, coachID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidFavoriteID):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrCoachNotFound):
			response.NotFound(c, "coach not found")
		case errors.Is(err, service.ErrTooManyFavorites):
			response.Error(c, http.StatusConflict, "FAVORITE_LIMIT", "favorite limit reached")
		default:
			l.Error().Err(err).Str(log.FieldCoachID, coachID).Msg("failed to add favorite")
			response.InternalError(c, "failed to add favorite")
		}
		return
	}

	response.Created(c, fav)
}

// RemoveFavorite removes a bookmark.
func (h *Handler) RemoveFavorite(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	userID := middleware.GetUserID(c)
	if userID == "" {
		response.Unauthorized(c, "unauthorized")
		return
	}

	coachID := c.Param("coachId")
	if err := h.favoriteService.RemoveFavorite(ctx, userID, coachID); err != nil {
		if errors.Is(err, service.ErrFavoriteNotFound) {
			response.NotFound(c, "favorite not found")
			return
		}
		l.Error().Err(err).Str(log.FieldCoachID, coachID).Msg("failed to remove favorite")
		response.InternalError(c, "failed to remove favorite")
		return
	}

	response.NoContent(c)
}
