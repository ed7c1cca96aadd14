package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/suPer8Hu/dxcases/internal/ai"
	"github.com/suPer8Hu/dxcases/internal/cases"
	"github.com/suPer8Hu/dxcases/internal/config"
	"github.com/suPer8Hu/dxcases/internal/conversation"
	"github.com/suPer8Hu/dxcases/internal/enrich"
	"github.com/suPer8Hu/dxcases/internal/moderation"
	"github.com/suPer8Hu/dxcases/internal/store/redisstore"
)

type Handler struct {
	DB       *gorm.DB
	Cfg      config.Config
	Redis    *redisstore.Store
	Engine   *conversation.Engine
	Enricher *enrich.Enricher
	Gate     *moderation.Gate
	CaseSvc  *cases.Service
}

// NewHandler wires the services behind the API. rds may be nil, which turns
// off the tag cache; jobs may be nil, which turns off illustration jobs.
func NewHandler(db *gorm.DB, cfg config.Config, rds *redisstore.Store, client ai.Client, jobs cases.Publisher) *Handler {
	enricher := enrich.New(client, client)
	gate := moderation.NewGate(client)
	engine := conversation.NewEngine(client, enricher, conversation.Policy{
		DetailTurns:  cfg.DetailTurns,
		MaxUserTurns: cfg.MaxUserTurns,
	})

	var cache cases.TagCache
	if rds != nil {
		cache = rds
	}
	caseSvc := cases.NewService(cases.NewRepo(db), gate, cache, cfg.GalleryPageSize)
	if jobs != nil {
		caseSvc.UsePublisher(jobs)
	}

	return &Handler{
		DB:       db,
		Cfg:      cfg,
		Redis:    rds,
		Engine:   engine,
		Enricher: enricher,
		Gate:     gate,
		CaseSvc:  caseSvc,
	}
}

func (h *Handler) Ping(c *gin.Context) {
	sqlDB, err := h.DB.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "db unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
