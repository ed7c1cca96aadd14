package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/common"
)

func jobFailure(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, cases.ErrNotFound):
		common.Fail(c, http.StatusNotFound, 40410, "case not found")
	case errors.Is(err, cases.ErrJobNotFound):
		common.Fail(c, http.StatusNotFound, 40420, "job not found")
	case errors.Is(err, cases.ErrJobNotFailed):
		common.Fail(c, http.StatusConflict, 40920, err.Error())
	case errors.Is(err, cases.ErrJobsDisabled):
		common.Fail(c, http.StatusServiceUnavailable, 50320, err.Error())
	default:
		log.WithError(err).Error(op)
		common.Fail(c, http.StatusInternalServerError, 50021, "failed to enqueue job")
	}
}

func (h *Handler) RequestIllustration(c *gin.Context) {
	key := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if len(key) > 128 {
		common.Fail(c, http.StatusBadRequest, 10004, "Idempotency-Key too long")
		return
	}

	job, created, err := h.CaseSvc.RequestIllustration(c.Request.Context(), c.Param("id"), key)
	if err != nil {
		jobFailure(c, err, "request illustration")
		return
	}

	status := http.StatusAccepted
	if !created {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{
		"code":    0,
		"message": "ok",
		"data":    gin.H{"job_id": job.ID, "status": job.Status},
	})
}

func (h *Handler) GetJob(c *gin.Context) {
	job, err := h.CaseSvc.GetJob(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		jobFailure(c, err, "get job")
		return
	}
	common.OK(c, job)
}

func (h *Handler) RetryJob(c *gin.Context) {
	job, err := h.CaseSvc.RetryIllustration(c.Request.Context(), c.Param("job_id"))
	if err != nil {
		jobFailure(c, err, "retry job")
		return
	}
	common.OK(c, job)
}
