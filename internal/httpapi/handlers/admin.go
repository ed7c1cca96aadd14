package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/suPer8Hu/dxcases/internal/auth"
	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/common"
)

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.Cfg.AdminEmail == "" || email != strings.ToLower(h.Cfg.AdminEmail) ||
		!auth.CheckPassword(h.Cfg.AdminPasswordHash, req.Password) {
		common.Fail(c, http.StatusUnauthorized, 40103, "invalid email or password")
		return
	}

	tok, err := auth.SignJWT(email, h.Cfg.JWTSecret, h.Cfg.AdminTokenTTL)
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50020, "failed to sign token")
		return
	}
	common.OK(c, gin.H{
		"token":      tok,
		"expires_in": int(h.Cfg.AdminTokenTTL.Seconds()),
	})
}

func (h *Handler) AdminUpdateCase(c *gin.Context) {
	var req cases.CaseUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	updated, err := h.CaseSvc.Update(c.Request.Context(), c.Param("id"), req)
	switch {
	case err == nil:
		common.OK(c, updated)
	case errors.Is(err, cases.ErrNotFound):
		common.Fail(c, http.StatusNotFound, 40410, "case not found")
	case errors.Is(err, cases.ErrEmptyField):
		common.Fail(c, http.StatusBadRequest, 10002, err.Error())
	default:
		log.WithError(err).Error("update case")
		common.Fail(c, http.StatusInternalServerError, 50013, "failed to update case")
	}
}

type deleteReq struct {
	Confirm bool `json:"confirm"`
}

// confirmed accepts ?confirm=true or a {"confirm": true} body.
func confirmed(c *gin.Context) bool {
	if ok, err := strconv.ParseBool(c.Query("confirm")); err == nil && ok {
		return true
	}
	var req deleteReq
	if c.Request.ContentLength != 0 && c.ShouldBindJSON(&req) == nil {
		return req.Confirm
	}
	return false
}

func (h *Handler) AdminDeleteCase(c *gin.Context) {
	err := h.CaseSvc.Delete(c.Request.Context(), c.Param("id"), confirmed(c))
	switch {
	case err == nil:
		common.OK(c, gin.H{"deleted": c.Param("id")})
	case errors.Is(err, cases.ErrConfirmRequired):
		common.Fail(c, http.StatusBadRequest, 10003, "confirm=true is required to delete a case")
	case errors.Is(err, cases.ErrNotFound):
		common.Fail(c, http.StatusNotFound, 40410, "case not found")
	default:
		log.WithError(err).Error("delete case")
		common.Fail(c, http.StatusInternalServerError, 50014, "failed to delete case")
	}
}

func (h *Handler) AdminModerationLogs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	var beforeID uint64
	if s := c.Query("before_id"); s != "" {
		if n, err := strconv.ParseUint(s, 10, 64); err == nil {
			beforeID = n
		}
	}

	logs, err := h.CaseSvc.ModerationLogs(c.Request.Context(), limit, beforeID)
	if err != nil {
		log.WithError(err).Error("list moderation logs")
		common.Fail(c, http.StatusInternalServerError, 50015, "failed to list moderation logs")
		return
	}

	var nextBeforeID uint64
	if len(logs) > 0 {
		nextBeforeID = logs[len(logs)-1].ID
	}
	common.OK(c, gin.H{
		"logs":           logs,
		"next_before_id": nextBeforeID,
	})
}
