package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/common"
	"github.com/suPer8Hu/dxcases/internal/moderation"
)

// SubmitCase publishes a finished conversation. Moderation rejections answer
// 422 with the localized message instead of an error.
func (h *Handler) SubmitCase(c *gin.Context) {
	var req cases.Submission
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Error(c, http.StatusBadRequest, "Invalid request: conversationData is required")
		return
	}

	created, verdict, err := h.CaseSvc.Submit(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, gin.H{"case": created})
	case errors.Is(err, cases.ErrFlagged):
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"flagged":    true,
			"message":    moderation.RejectionMessage,
			"categories": verdict.Categories,
		})
	case errors.Is(err, moderation.ErrEmptyContent):
		common.Error(c, http.StatusBadRequest, "Invalid request: summary is required")
	default:
		logUpstream(c, "submit", err)
		common.Error(c, http.StatusInternalServerError, "Failed to process the submission")
	}
}

func pageQuery(c *gin.Context) cases.ListQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("page_size"))
	return cases.ListQuery{
		Page:     page,
		PageSize: size,
		Keyword:  c.Query("q"),
		Tag:      c.Query("tag"),
	}
}

func (h *Handler) ListCases(c *gin.Context) {
	page, err := h.CaseSvc.List(c.Request.Context(), pageQuery(c))
	if err != nil {
		log.WithError(err).Error("list cases")
		common.Fail(c, http.StatusInternalServerError, 50010, "failed to list cases")
		return
	}
	common.OK(c, page)
}

func (h *Handler) GetCase(c *gin.Context) {
	cs, err := h.CaseSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, cases.ErrNotFound) {
			common.Fail(c, http.StatusNotFound, 40410, "case not found")
			return
		}
		log.WithError(err).Error("get case")
		common.Fail(c, http.StatusInternalServerError, 50011, "failed to load case")
		return
	}
	common.OK(c, cs)
}

func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.CaseSvc.Tags(c.Request.Context())
	if err != nil {
		log.WithError(err).Error("list tags")
		common.Fail(c, http.StatusInternalServerError, 50012, "failed to list tags")
		return
	}
	common.OK(c, gin.H{"tags": tags})
}
