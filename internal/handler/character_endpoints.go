package handler

import (
	"net/http"
	"strconv"

	"adventure-server/internal/models"
	"adventure-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// primary attribute form fields accepted on character submissions.
var attributeFormFields = []string{"forca", "destreza", "inteligencia"}

// CharacterHandler exposes character CRUD and the in-adventure
// character creation endpoint.
type CharacterHandler struct {
	characterService service.CharacterService
	logger           *zap.Logger
}

// NewCharacterHandler creates a CharacterHandler.
func NewCharacterHandler(characterService service.CharacterService, logger *zap.Logger) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		logger:           logger.Named("CharacterHandler"),
	}
}

// RegisterRoutes attaches the character endpoints to the protected group.
func (h *CharacterHandler) RegisterRoutes(protected *gin.RouterGroup) {
	characters := protected.Group("/characters")
	characters.POST("", h.Create)
	characters.GET("", h.List)
	characters.GET("/:id", h.Get)
	characters.PUT("/:id", h.Update)
	characters.DELETE("/:id", h.Delete)

	protected.POST("/adventures/:id/characters", h.CreateInAdventure)
}

func characterID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		handleServiceError(c, models.ErrInvalidInput)
		return 0, false
	}
	return id, true
}

// bindCharacter decodes either a JSON body or a form submission. Form
// clients send attributes as individual Portuguese fields instead of a
// nested object.
func bindCharacter(c *gin.Context) (service.CharacterInput, bool) {
	var req characterRequest
	if err := c.ShouldBind(&req); err != nil {
		handleServiceError(c, models.ErrInvalidInput)
		return service.CharacterInput{}, false
	}
	if req.Attributes == nil {
		attrs := make(map[string]int)
		for _, field := range attributeFormFields {
			raw, ok := c.GetPostForm(field)
			if !ok {
				continue
			}
			value, err := strconv.Atoi(raw)
			if err != nil {
				handleServiceError(c, models.ErrInvalidInput)
				return service.CharacterInput{}, false
			}
			attrs[field] = value
		}
		req.Attributes = attrs
	}
	return service.CharacterInput{
		Name:        req.Name,
		Class:       req.Class,
		Race:        req.Race,
		Attributes:  req.Attributes,
		Description: req.Description,
	}, true
}

func (h *CharacterHandler) Create(c *gin.Context) {
	input, ok := bindCharacter(c)
	if !ok {
		return
	}
	character, err := h.characterService.Create(c.Request.Context(), currentUserID(c), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, character)
}

func (h *CharacterHandler) List(c *gin.Context) {
	characters, err := h.characterService.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}

func (h *CharacterHandler) Get(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	character, err := h.characterService.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, character)
}

func (h *CharacterHandler) Update(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	input, ok := bindCharacter(c)
	if !ok {
		return
	}
	character, err := h.characterService.Update(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, character)
}

func (h *CharacterHandler) Delete(c *gin.Context) {
	id, ok := characterID(c)
	if !ok {
		return
	}
	if err := h.characterService.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// CreateInAdventure creates a character directly inside an adventure
// and returns the narrator introduction alongside it.
func (h *CharacterHandler) CreateInAdventure(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	input, ok := bindCharacter(c)
	if !ok {
		return
	}
	character, messages, err := h.characterService.CreateInAdventure(c.Request.Context(), currentUserID(c), id, input)
	if err != nil {
		if isFormClient(c) {
			redirectWithFlash(c, flashForError(err))
			return
		}
		handleServiceError(c, err)
		return
	}
	if isFormClient(c) {
		redirectWithFlash(c, "Personagem criado.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"character": character,
		"messages":  messages,
	})
}
