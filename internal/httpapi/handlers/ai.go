package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/common"
	"github.com/suPer8Hu/dxcases/internal/conversation"
	"github.com/suPer8Hu/dxcases/internal/httpapi/middleware"
	"github.com/suPer8Hu/dxcases/internal/moderation"
)

// The endpoints in this file answer with bare JSON bodies and {"error": ...}
// on failure, not the {code, message, data} envelope.

func logUpstream(c *gin.Context, op string, err error) {
	log.WithError(err).WithFields(log.Fields{
		"op":         op,
		"request_id": c.GetString(middleware.RequestIDKey),
	}).Error("upstream ai call failed")
}

type conversationReq struct {
	Messages          []ai.Message       `json:"messages"`
	ConversationData  conversation.Data  `json:"conversationData"`
	ConversationState conversation.State `json:"conversationState"`
}

func (h *Handler) Conversation(c *gin.Context) {
	var req conversationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid request: messages array is required")
		return
	}

	res, err := h.Engine.Turn(c.Request.Context(), conversation.Session{
		Messages: req.Messages,
		Data:     req.ConversationData,
		State:    req.ConversationState,
	})
	if err != nil {
		if conversation.IsValidation(err) {
			common.Error(c, http.StatusBadRequest, "Invalid request: "+err.Error())
			return
		}
		logUpstream(c, "conversation", err)
		common.Error(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	c.JSON(http.StatusOK, res)
}

type moderateReq struct {
	Content string `json:"content"`
}

func (h *Handler) Moderate(c *gin.Context) {
	var req moderateReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		common.Error(c, http.StatusBadRequest, "Content text is required")
		return
	}

	v, err := h.Gate.Review(c.Request.Context(), req.Content)
	if err != nil {
		if errors.Is(err, moderation.ErrEmptyContent) {
			common.Error(c, http.StatusBadRequest, "Content text is required")
			return
		}
		logUpstream(c, "moderate", err)
		common.Error(c, http.StatusInternalServerError, "Failed to process the moderation request")
		return
	}
	c.JSON(http.StatusOK, v)
}

type imageFromSummaryReq struct {
	Summary string `json:"summary"`
	Title   string `json:"title"`
}

func (h *Handler) GenerateImageFromSummary(c *gin.Context) {
	var req imageFromSummaryReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Summary) == "" {
		common.Error(c, http.StatusBadRequest, "Summary is required")
		return
	}

	out, err := h.Enricher.Illustrate(c.Request.Context(), req.Summary, req.Title)
	if err != nil {
		logUpstream(c, "generate-image-from-summary", err)
		common.Error(c, http.StatusInternalServerError, "Failed to generate image")
		return
	}
	c.JSON(http.StatusOK, out)
}

type analyzeReq struct {
	Input string `json:"input"`
}

func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Input) == "" {
		common.Error(c, http.StatusBadRequest, "Input text is required")
		return
	}

	out, err := h.Enricher.Analyze(c.Request.Context(), req.Input)
	if err != nil {
		logUpstream(c, "analyze", err)
		common.Error(c, http.StatusInternalServerError, "Failed to process the request")
		return
	}
	c.JSON(http.StatusOK, out)
}

type generateImageReq struct {
	Prompt string `json:"prompt"`
}

func (h *Handler) GenerateImage(c *gin.Context) {
	var req generateImageReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Prompt) == "" {
		common.Error(c, http.StatusBadRequest, "Image prompt is required")
		return
	}

	url, err := h.Enricher.GenerateImage(c.Request.Context(), req.Prompt)
	if err != nil {
		logUpstream(c, "generate-image", err)
		common.Error(c, http.StatusInternalServerError, "Failed to generate image")
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": url})
}
