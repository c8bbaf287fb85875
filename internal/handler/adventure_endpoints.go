package handler

import (
	"net/http"
	"strconv"

	"adventure-server/internal/models"
	"adventure-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdventureHandler exposes adventure CRUD, membership and transcript
// endpoints.
type AdventureHandler struct {
	adventureService service.AdventureService
	logger           *zap.Logger
}

// NewAdventureHandler creates an AdventureHandler.
func NewAdventureHandler(adventureService service.AdventureService, logger *zap.Logger) *AdventureHandler {
	return &AdventureHandler{
		adventureService: adventureService,
		logger:           logger.Named("AdventureHandler"),
	}
}

// RegisterRoutes attaches the adventure endpoints to the protected group.
func (h *AdventureHandler) RegisterRoutes(protected *gin.RouterGroup) {
	adventures := protected.Group("/adventures")
	adventures.POST("", h.Create)
	adventures.GET("", h.List)
	adventures.GET("/:id", h.Get)
	adventures.PUT("/:id", h.Update)
	adventures.DELETE("/:id", h.Delete)
	adventures.POST("/:id/conclude", h.Conclude)
	adventures.PUT("/:id/rules", h.UpdateRules)
	adventures.PUT("/:id/summary", h.UpdateSummary)
	adventures.POST("/:id/join", h.Join)
	adventures.POST("/:id/character", h.SelectCharacter)
	adventures.GET("/:id/messages", h.Transcript)
	adventures.GET("/:id/last-narration", h.LastNarration)
}

func adventureID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		handleServiceError(c, models.ErrInvalidInput)
		return 0, false
	}
	return id, true
}

func (h *AdventureHandler) Create(c *gin.Context) {
	var req adventureRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	adventure, err := h.adventureService.Create(c.Request.Context(), currentUserID(c), service.AdventureInput{
		Title:       req.Title,
		Description: req.Description,
		Setting:     req.Setting,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, adventure)
}

func (h *AdventureHandler) List(c *gin.Context) {
	adventures, err := h.adventureService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adventures)
}

func (h *AdventureHandler) Get(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	adventure, err := h.adventureService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adventure)
}

func (h *AdventureHandler) Update(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	var req adventureRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}

	adventure, err := h.adventureService.Update(c.Request.Context(), currentUserID(c), id, service.AdventureInput{
		Title:       req.Title,
		Description: req.Description,
		Setting:     req.Setting,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, adventure)
}

func (h *AdventureHandler) Delete(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	if err := h.adventureService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdventureHandler) Conclude(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	if err := h.adventureService.Conclude(c.Request.Context(), currentUserID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdventureHandler) UpdateRules(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	var req rulesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}
	if err := h.adventureService.UpdateRules(c.Request.Context(), currentUserID(c), id, req.Rules); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdventureHandler) UpdateSummary(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	var req summaryRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}
	if err := h.adventureService.UpdateSummary(c.Request.Context(), currentUserID(c), id, req.Summary); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdventureHandler) Join(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	var req joinRequest
	_ = c.ShouldBind(&req) // character binding is optional

	participation, err := h.adventureService.Join(c.Request.Context(), currentUserID(c), id, req.CharacterID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, participation)
}

func (h *AdventureHandler) SelectCharacter(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	var req selectCharacterRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return
	}
	if err := h.adventureService.SelectCharacter(c.Request.Context(), currentUserID(c), id, req.CharacterID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *AdventureHandler) Transcript(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	messages, err := h.adventureService.Transcript(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *AdventureHandler) LastNarration(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	narration, err := h.adventureService.LastNarration(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"narration": narration})
}
