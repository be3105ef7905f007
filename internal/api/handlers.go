package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"brookschat/internal/analytics"
	"brookschat/internal/catalog"
	"brookschat/internal/models"
	"brookschat/internal/objectstore"
	"brookschat/internal/prompt"
	"brookschat/internal/redis"
	"brookschat/internal/session"
	"brookschat/internal/worker"
)

// Responder produces the assistant reply for one chat turn.
type Responder interface {
	Reply(ctx context.Context, system string, history []models.Message, userInput string) (string, error)
}

const (
	llmTimeout = 2 * time.Minute

	// User-facing fallback when the model call fails; the turn still counts.
	modelErrorReply = "I'm having trouble connecting to my knowledge base. Please try again in a moment."
)

// Handler wires HTTP routes to the catalog, the session registry, and the
// language model.
type Handler struct {
	catalog   *catalog.Catalog
	sessions  *session.Registry
	responder Responder
	recorder  *analytics.Recorder
	jobs      *worker.Pool
	photos    *objectstore.Store // nil unless the startup probe succeeded
	cache     *redis.Client      // nil disables rate limiting

	systemPrompt string
	photoLimit   int
	rateLimit    int
	hashSalt     string
}

// Options carries the optional collaborators and tunables for a Handler.
type Options struct {
	Recorder   *analytics.Recorder
	Jobs       *worker.Pool
	Photos     *objectstore.Store
	Cache      *redis.Client
	Profile    prompt.Profile
	PhotoLimit int
	RateLimit  int
	HashSalt   string
}

// NewHandler constructs a Handler instance.
func NewHandler(cat *catalog.Catalog, reg *session.Registry, responder Responder, opts Options) *Handler {
	if opts.PhotoLimit <= 0 {
		opts.PhotoLimit = 3
	}
	return &Handler{
		catalog:      cat,
		sessions:     reg,
		responder:    responder,
		recorder:     opts.Recorder,
		jobs:         opts.Jobs,
		photos:       opts.Photos,
		cache:        opts.Cache,
		systemPrompt: prompt.System(opts.Profile),
		photoLimit:   opts.PhotoLimit,
		rateLimit:    opts.RateLimit,
		hashSalt:     opts.HashSalt,
	}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/healthz", h.health)
	router.POST("/chat", h.rateLimited(), h.chat)
	router.POST("/reset", h.reset)
	router.GET("/photos/search", h.searchPhotos)
	router.GET("/photos/categories", h.photoCategories)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type chatRequest struct {
	UserInput string `json:"user_input"`
}

func (h *Handler) chat(c *gin.Context) {
	key := h.sessionKey(c)

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.UserInput == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_input is required"})
		return
	}

	// Opportunistic maintenance: a small fraction of requests pays for the
	// timeout sweep.
	h.sessions.MaybeSweep()

	history := h.sessions.PromptHistory(key)

	// A bare greeting on a fresh session gets the canned welcome without a
	// model call.
	if len(history) == 0 && prompt.IsGreeting(req.UserInput) {
		h.sessions.RecordExchange(key, req.UserInput, prompt.WelcomeMessage)
		h.logInteraction(c, key, req.UserInput, prompt.WelcomeMessage)
		c.JSON(http.StatusOK, gin.H{"response": prompt.WelcomeMessage})
		return
	}

	photos := h.catalog.Search(req.UserInput, h.photoLimit)
	var urlFor func(string) string
	if h.photos != nil {
		urlFor = h.photos.ImageURL
	}
	system := prompt.WithPhotoContext(h.systemPrompt, prompt.PhotoContext(photos, urlFor))

	ctx, cancel := context.WithTimeout(c.Request.Context(), llmTimeout)
	defer cancel()
	reply, err := h.responder.Reply(ctx, system, history, req.UserInput)
	if err != nil {
		log.Printf("model call failed for session %s: %v", key, err)
		reply = modelErrorReply
	}

	h.sessions.RecordExchange(key, req.UserInput, reply)
	h.logInteraction(c, key, req.UserInput, reply)

	c.JSON(http.StatusOK, gin.H{"response": reply})
}

func (h *Handler) reset(c *gin.Context) {
	key := h.sessionKey(c)
	h.sessions.Reset(key)
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Conversation has been reset.",
	})
}

func (h *Handler) searchPhotos(c *gin.Context) {
	query := c.Query("q")
	limit := h.photoLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	photos := h.catalog.Search(query, limit)
	if photos == nil {
		photos = []models.PhotoRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

func (h *Handler) photoCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": h.catalog.Categories()})
}

// logInteraction pushes the analytics writes onto the background pool so the
// response never waits on MongoDB.
func (h *Handler) logInteraction(c *gin.Context, key, userInput, reply string) {
	if h.recorder == nil || h.jobs == nil {
		return
	}
	referrer := c.Request.Referer()
	userAgent := c.Request.UserAgent()
	h.jobs.Submit(func(ctx context.Context) {
		if err := h.recorder.TouchVisitor(ctx, key, referrer, userAgent); err != nil {
			log.Printf("analytics: %v", err)
		}
		if err := h.recorder.LogInteraction(ctx, key, userInput, reply); err != nil {
			log.Printf("analytics: %v", err)
		}
	})
}
