package controller

import (
	"americano_backend/internal/model"
	"americano_backend/internal/service"
	"americano_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type SearchController struct {
	SearchService *service.SearchService
}

func NewSearchController(searchService *service.SearchService) *SearchController {
	return &SearchController{SearchService: searchService}
}

// @Summary Log an executed search
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LogSearchRequest true "query and result stats"
// @Success 201 {object} util.Response
// @Router /api/search/queries [post]
func (c *SearchController) LogSearch(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.LogSearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	query, err := c.SearchService.LogSearch(ctx.Request.Context(), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, query)
}

// @Summary Record a result click
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "query id"
// @Param body body service.RecordClickRequest true "clicked result"
// @Success 201 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/search/queries/{id}/clicks [post]
func (c *SearchController) RecordClick(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.RecordClickRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	click, err := c.SearchService.RecordClick(ctx.Param("id"), user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, click)
}

// @Summary Anonymize a logged query
// @Description One-way scrub of the user linkage; repeated calls are rejected.
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param id path string true "query id"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/search/queries/{id}/anonymize [post]
func (c *SearchController) Anonymize(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.SearchService.Anonymize(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Autocomplete suggestions
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param q query string true "prefix"
// @Success 200 {object} util.Response
// @Router /api/search/suggestions [get]
func (c *SearchController) GetSuggestions(ctx *gin.Context) {
	suggestions, err := c.SearchService.GetSuggestions(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, suggestions)
}

type SeedSuggestionRequest struct {
	Term string               `json:"term" binding:"required"`
	Type model.SuggestionType `json:"type" binding:"required"`
}

// @Summary Seed a curated suggestion term
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SeedSuggestionRequest true "term and type"
// @Success 200 {object} util.Response
// @Router /api/search/suggestions [post]
func (c *SearchController) SeedSuggestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	if claims.Role != "admin" && claims.Role != "staff" {
		util.Forbidden(ctx)
		return
	}

	var req SeedSuggestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.SearchService.SeedSuggestion(req.Term, req.Type); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Save a search
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.SavedSearchRequest true "name, query and filters"
// @Success 201 {object} util.Response
// @Router /api/search/saved [post]
func (c *SearchController) CreateSavedSearch(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SavedSearchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	saved, err := c.SearchService.CreateSavedSearch(user.UserID, req)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, saved)
}

// @Summary List saved searches
// @Tags search
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/search/saved [get]
func (c *SearchController) GetSavedSearches(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	saved, err := c.SearchService.GetSavedSearches(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, saved)
}

type CreateAlertRequest struct {
	SavedSearchID string `json:"savedSearchId" binding:"required"`
}

// @Summary Create a search alert
// @Tags search
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAlertRequest true "saved search to watch"
// @Success 201 {object} util.Response
// @Router /api/search/alerts [post]
func (c *SearchController) CreateAlert(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req CreateAlertRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	alert, err := c.SearchService.CreateAlert(user.UserID, req.SavedSearchID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Created(ctx, alert)
}

// @Summary List search alerts
// @Tags search
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/search/alerts [get]
func (c *SearchController) GetAlerts(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	alerts, err := c.SearchService.GetAlerts(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, alerts)
}

// @Summary Record an alert trigger
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param id path string true "alert id"
// @Success 200 {object} util.Response
// @Router /api/search/alerts/{id}/trigger [post]
func (c *SearchController) TriggerAlert(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.SearchService.TriggerAlert(ctx.Param("id"), user.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// @Summary Daily search stats
// @Tags search
// @Produce json
// @Security BearerAuth
// @Param from query string true "range start YYYY-MM-DD"
// @Param to query string true "range end YYYY-MM-DD, exclusive"
// @Success 200 {object} util.Response
// @Router /api/search/stats [get]
func (c *SearchController) GetDailyStats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	from, err := time.Parse(util.DateFormat, ctx.Query("from"))
	if err != nil {
		util.BadRequest(ctx, "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(util.DateFormat, ctx.Query("to"))
	if err != nil {
		util.BadRequest(ctx, "to must be YYYY-MM-DD")
		return
	}

	stats, err := c.SearchService.GetDailyStats(user.UserID, from, to)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
