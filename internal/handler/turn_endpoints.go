package handler

import (
	"net/http"
	"strconv"
	"strings"

	"adventure-server/internal/models"
	"adventure-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const activationFieldPrefix = "ativo_"

// TurnHandler is the boundary adapter for turn submissions. The same
// endpoint serves async clients, which receive JSON, and plain form
// clients, which receive a dashboard redirect with a flash notice.
type TurnHandler struct {
	turnService service.TurnService
	authService service.AuthService
	logger      *zap.Logger
}

// NewTurnHandler creates a TurnHandler.
func NewTurnHandler(turnService service.TurnService, authService service.AuthService, logger *zap.Logger) *TurnHandler {
	return &TurnHandler{
		turnService: turnService,
		authService: authService,
		logger:      logger.Named("TurnHandler"),
	}
}

// RegisterRoutes attaches the turn endpoint to the protected group.
func (h *TurnHandler) RegisterRoutes(protected *gin.RouterGroup) {
	protected.POST("/adventures/:id/turn", h.SubmitTurn)
}

func (h *TurnHandler) SubmitTurn(c *gin.Context) {
	id, ok := adventureID(c)
	if !ok {
		return
	}
	userID := currentUserID(c)

	var submission service.TurnSubmission
	var bindErr error
	if isFormClient(c) {
		// Form submissions carry a CSRF token; bearer-authenticated
		// async callers do not need one.
		if err := h.authService.ValidateCSRFToken(c.Request.Context(), userID, c.PostForm("csrf_token")); err != nil {
			h.respondError(c, err)
			return
		}
		submission = h.bindFormSubmission(c)
	} else {
		submission, bindErr = h.bindJSONSubmission(c)
		if bindErr != nil {
			h.respondError(c, models.ErrInvalidInput)
			return
		}
	}
	submission.UserID = userID
	submission.AdventureID = id

	outcome, err := h.turnService.SubmitTurn(c.Request.Context(), submission)
	if err != nil {
		h.respondError(c, err)
		return
	}

	if isFormClient(c) {
		redirectWithFlash(c, "Turno processado.")
		return
	}
	c.JSON(http.StatusOK, turnResponse{
		Status:   "ok",
		Messages: outcome.Messages,
	})
}

func (h *TurnHandler) bindJSONSubmission(c *gin.Context) (service.TurnSubmission, error) {
	var req turnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		return service.TurnSubmission{}, err
	}

	rolls := make([]string, 0, len(req.Rolls))
	for _, fragment := range req.Rolls {
		rolls = append(rolls, string(fragment))
	}

	flags := make(map[int64]bool, len(req.Active))
	for key, active := range req.Active {
		characterID, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		flags[characterID] = active
	}

	return service.TurnSubmission{
		ActionText:      req.Action,
		ContextText:     req.Context,
		RawRolls:        rolls,
		ActivationFlags: flags,
	}, nil
}

// bindFormSubmission decodes the dashboard form: acao, contexto,
// repeated rolagens fragments and one ativo_<id> checkbox per roster
// character.
func (h *TurnHandler) bindFormSubmission(c *gin.Context) service.TurnSubmission {
	submission := service.TurnSubmission{
		ActionText:  c.PostForm("acao"),
		ContextText: c.PostForm("contexto"),
		RawRolls:    c.PostFormArray("rolagens"),
	}

	flags := make(map[int64]bool)
	if err := c.Request.ParseForm(); err == nil {
		for field, values := range c.Request.PostForm {
			if !strings.HasPrefix(field, activationFieldPrefix) {
				continue
			}
			characterID, err := strconv.ParseInt(strings.TrimPrefix(field, activationFieldPrefix), 10, 64)
			if err != nil {
				continue
			}
			flags[characterID] = len(values) > 0 && values[0] != "" && values[0] != "0" && values[0] != "false"
		}
	}
	submission.ActivationFlags = flags
	return submission
}

// respondError renders a turn failure for the caller kind: a flash
// redirect for forms, the standard error payload otherwise.
func (h *TurnHandler) respondError(c *gin.Context, err error) {
	if isFormClient(c) {
		redirectWithFlash(c, flashForError(err))
		return
	}
	statusCode, errResp := serviceErrorResponse(err)
	c.AbortWithStatusJSON(statusCode, turnResponse{
		Status: "error",
		Error:  errResp.Message,
	})
}
