package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nutriswap/backend/internal/domain"
	"github.com/nutriswap/backend/internal/logger"
	"github.com/nutriswap/backend/internal/usecase"
)

const (
	serviceName    = "nutriswap-backend"
	serviceVersion = "1.0.0"
)

// NutritionResolver resolves and searches nutrition records
type NutritionResolver interface {
	ResolveNutrition(ctx context.Context, foodName string, hints domain.ResolveHints) (*domain.NutritionData, error)
	SearchFood(ctx context.Context, query string) ([]domain.NutritionData, error)
	InvalidateSearch(ctx context.Context, query string) error
}

// AlternativeRecommender ranks healthier swaps for a food
type AlternativeRecommender interface {
	RecommendAlternatives(ctx context.Context, foodName string, category domain.Category, hints domain.ResolveHints) (*domain.Recommendation, error)
	ResolveRecognition(ctx context.Context, r domain.RecognitionResult) (*domain.Recommendation, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	nutrition   NutritionResolver
	recommender AlternativeRecommender
	feedback    domain.FeedbackSink
	log         *slog.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	nutrition NutritionResolver,
	recommender AlternativeRecommender,
	feedback domain.FeedbackSink,
	log *slog.Logger,
) *Handler {
	return &Handler{
		nutrition:   nutrition,
		recommender: recommender,
		feedback:    feedback,
		log:         logger.Component(log, "http"),
	}
}

// ResolveRequest names a food plus optional resolution hints
type ResolveRequest struct {
	FoodName    string   `json:"foodName" binding:"required"`
	Ingredients []string `json:"ingredients,omitempty"`
	ServingSize string   `json:"servingSize,omitempty"`
	IsHomemade  bool     `json:"isHomemade,omitempty"`
}

func (r ResolveRequest) hints() domain.ResolveHints {
	return domain.ResolveHints{
		Ingredients: r.Ingredients,
		ServingSize: r.ServingSize,
		IsHomemade:  r.IsHomemade,
	}
}

// AlternativesRequest asks for healthier swaps of a food
type AlternativesRequest struct {
	ResolveRequest
	Category string `json:"category,omitempty"`
}

// HealthScoreRequest carries macros and optional quality flags
type HealthScoreRequest struct {
	domain.Macros
	Quality domain.QualityAttributes `json:"quality"`
}

// CompareRequest holds the two foods to compare
type CompareRequest struct {
	A HealthScoreRequest `json:"a"`
	B HealthScoreRequest `json:"b"`
}

// ValidateRequest checks a record against typical reference values
type ValidateRequest struct {
	FoodName  string        `json:"foodName" binding:"required"`
	Nutrition domain.Macros `json:"nutrition"`
}

// SearchResponse is the body of a nutrition search
type SearchResponse struct {
	Results []domain.NutritionData `json:"results"`
	Cached  bool                   `json:"cached"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// ResolveNutrition handles POST /api/v1/nutrition/resolve
func (h *Handler) ResolveNutrition(c *gin.Context) {
	var req ResolveRequest
	if !h.bind(c, &req) {
		return
	}

	data, err := h.nutrition.ResolveNutrition(c.Request.Context(), req.FoodName, req.hints())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

// SearchNutrition handles GET /api/v1/nutrition/search?q=
func (h *Handler) SearchNutrition(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		h.respondError(c, &domain.ValidationError{Field: "q", Reason: "is required"})
		return
	}

	results, err := h.nutrition.SearchFood(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if results == nil {
		results = []domain.NutritionData{}
	}

	c.JSON(http.StatusOK, SearchResponse{
		Results: results,
		Cached:  len(results) > 0 && results[0].Cached,
	})
}

// ValidateNutrition handles POST /api/v1/nutrition/validate
func (h *Handler) ValidateNutrition(c *gin.Context) {
	var req ValidateRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := usecase.ValidateNutrition(req.FoodName, req.Nutrition)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ScoreHealth handles POST /api/v1/health-score
func (h *Handler) ScoreHealth(c *gin.Context) {
	var req HealthScoreRequest
	if !h.bind(c, &req) {
		return
	}

	breakdown, err := usecase.ScoreHealth(req.Macros, req.Quality)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}

// CompareFoods handles POST /api/v1/health-score/compare
func (h *Handler) CompareFoods(c *gin.Context) {
	var req CompareRequest
	if !h.bind(c, &req) {
		return
	}

	comparison, err := usecase.CompareFoods(req.A.Macros, req.A.Quality, req.B.Macros, req.B.Quality)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comparison)
}

// RecommendAlternatives handles POST /api/v1/alternatives
func (h *Handler) RecommendAlternatives(c *gin.Context) {
	var req AlternativesRequest
	if !h.bind(c, &req) {
		return
	}

	category := domain.CategoryNone
	if strings.TrimSpace(req.Category) != "" {
		parsed, ok := domain.ParseCategory(req.Category)
		if !ok {
			h.respondError(c, &domain.ValidationError{Field: "category", Reason: "is not a known category"})
			return
		}
		category = parsed
	}

	rec, err := h.recommender.RecommendAlternatives(c.Request.Context(), req.FoodName, category, req.hints())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// ResolveRecognition handles POST /api/v1/recognitions/resolve
func (h *Handler) ResolveRecognition(c *gin.Context) {
	var req domain.RecognitionResult
	if !h.bind(c, &req) {
		return
	}

	rec, err := h.recommender.ResolveRecognition(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, rec)
}

// SubmitFeedback handles POST /api/v1/feedback
func (h *Handler) SubmitFeedback(c *gin.Context) {
	var req domain.NutritionFeedback
	if !h.bind(c, &req) {
		return
	}

	if err := h.feedback.Submit(c.Request.Context(), req); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// InvalidateSearch handles DELETE /api/v1/cache/search?q=
func (h *Handler) InvalidateSearch(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		h.respondError(c, &domain.ValidationError{Field: "q", Reason: "is required"})
		return
	}

	if err := h.nutrition.InvalidateSearch(c.Request.Context(), query); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bind decodes the JSON body into dst, answering 400 on failure
func (h *Handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid request body",
			"details": err.Error(),
		})
		return false
	}
	return true
}

// respondError maps domain errors to HTTP status codes
func (h *Handler) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		body["field"] = verr.Field
	}
	if id := requestID(c); id != "" {
		body["requestId"] = id
	}

	if status >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"path", c.FullPath(), "status", status, "requestId", requestID(c), "error", err)
	} else {
		h.log.Debug("request rejected", "path", c.FullPath(), "status", status, "error", err)
	}

	c.JSON(status, body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrUpstreamFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
