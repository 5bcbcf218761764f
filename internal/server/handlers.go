package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ppiankov/staycheck/internal/intent"
	"github.com/ppiankov/staycheck/internal/model"
	"github.com/ppiankov/staycheck/internal/render"
	"github.com/ppiankov/staycheck/internal/session"
	"go.uber.org/zap"
)

// ChatRequest is the body of POST /v1/chat
type ChatRequest struct {
	Message   string          `json:"message"`
	History   []model.Message `json:"history,omitempty"`
	SessionID string          `json:"session_id,omitempty"` // Server-side history instead of History
	City      string          `json:"city,omitempty"`       // Overrides the city found in the conversation
}

// ChatResponse is the body returned by POST /v1/chat
type ChatResponse struct {
	TurnID     string          `json:"turn_id"`
	FinalClaim model.Claim     `json:"final_claim"`
	Validated  bool            `json:"validated"`
	Attempts   int             `json:"attempts"`
	Disclosure *string         `json:"disclosure"`
	Cards      []render.Card   `json:"cards"`
	Summary    model.Summary   `json:"summary"`
	History    []model.Message `json:"history"`
	SessionID  string          `json:"session_id,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": s.version})
}

func (s *Server) handleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}
	if err := checkHistory(req.History); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	ctx := c.Request.Context()
	history := req.History
	sessionID := req.SessionID

	if s.sessions != nil {
		if sessionID == "" {
			sessionID = uuid.NewString()
		} else if len(history) == 0 {
			stored, _, err := s.sessions.Load(ctx, sessionID)
			if errors.Is(err, session.ErrInvalidID) {
				c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
				return
			}
			if err != nil {
				// Continue without history rather than failing the turn
				s.logger.Warn("Session load failed", zap.String("session_id", sessionID), zap.Error(err))
			}
			history = stored
		}
	}

	result, err := s.processor.ProcessTurn(ctx, intent.Request(req.Message, history, req.City))
	if err != nil {
		status, body := completionFailure(err)
		s.logger.Warn("Turn failed", zap.Int("status", status), zap.Error(err))
		c.JSON(status, body)
		return
	}

	if s.sessions != nil {
		if err := s.sessions.Save(ctx, sessionID, result.History); err != nil {
			s.logger.Warn("Session save failed", zap.String("session_id", sessionID), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, ChatResponse{
		TurnID:     result.TurnID,
		FinalClaim: result.FinalClaim,
		Validated:  result.Validated,
		Attempts:   result.Attempts,
		Disclosure: result.Disclosure,
		Cards:      render.Cards(result),
		Summary:    result.Summary,
		History:    result.History,
		SessionID:  sessionID,
	})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if s.sessions == nil {
		c.JSON(http.StatusNotFound, errorResponse{Error: "sessions are disabled"})
		return
	}
	err := s.sessions.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, session.ErrInvalidID) {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		s.logger.Error("Session delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "could not delete session"})
		return
	}
	c.Status(http.StatusNoContent)
}

func checkHistory(history []model.Message) error {
	for _, m := range history {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			return errors.New("history roles must be user or assistant")
		}
	}
	return nil
}

// completionFailure maps a turn error to an HTTP status and a message that
// is safe to show to the user
func completionFailure(err error) (int, errorResponse) {
	var ce *model.CompletionError
	if !errors.As(err, &ce) {
		return http.StatusInternalServerError, errorResponse{Error: "internal error"}
	}

	body := errorResponse{Error: ce.UserMessage(), Code: string(ce.Code)}
	switch ce.Code {
	case model.CodeRateLimited:
		return http.StatusTooManyRequests, body
	case model.CodeTimeout:
		return http.StatusGatewayTimeout, body
	case model.CodeUnavailable, model.CodeNotConfigured:
		return http.StatusServiceUnavailable, body
	default:
		return http.StatusBadGateway, body
	}
}
