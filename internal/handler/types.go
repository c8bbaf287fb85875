package handler

import (
	"encoding/json"

	"adventure-server/internal/models"
)

type registerRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" form:"email" binding:"required"`
}

type resetPasswordRequest struct {
	Token    string `json:"token" form:"token" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

type adventureRequest struct {
	Title       string `json:"title" form:"titulo" binding:"required"`
	Description string `json:"description" form:"descricao"`
	Setting     string `json:"setting" form:"cenario"`
}

type joinRequest struct {
	CharacterID *int64 `json:"character_id" form:"personagem_id"`
}

type selectCharacterRequest struct {
	CharacterID int64 `json:"character_id" form:"personagem_id" binding:"required"`
}

type rulesRequest struct {
	Rules models.RollRules `json:"rules" binding:"required"`
}

type summaryRequest struct {
	Summary string `json:"summary" form:"resumo"`
}

type characterRequest struct {
	Name        string         `json:"name" form:"nome" binding:"required"`
	Class       string         `json:"class" form:"classe"`
	Race        string         `json:"race" form:"raca"`
	Attributes  map[string]int `json:"attributes"`
	Description string         `json:"description" form:"descricao"`
}

// turnRequest is the JSON shape of a turn submission. Form submissions
// are decoded field by field in the handler because the roll payload
// and activation flags use repeated dynamic field names.
type turnRequest struct {
	AdventureID int64             `json:"adventure_id"`
	Action      string            `json:"acao"`
	Context     string            `json:"contexto"`
	Rolls       []json.RawMessage `json:"rolagens"`
	Active      map[string]bool   `json:"ativos"`
	CSRFToken   string            `json:"csrf_token"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// turnResponse is the async-client reply shape.
type turnResponse struct {
	Status   string            `json:"status"`
	Messages []*models.Message `json:"messages,omitempty"`
	Error    string            `json:"error,omitempty"`
}
