package http

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/sujalbistaa/ideas/internal/db"
	"github.com/sujalbistaa/ideas/internal/entity"
	"github.com/sujalbistaa/ideas/internal/logger"
	"github.com/sujalbistaa/ideas/internal/service"
	"github.com/sujalbistaa/ideas/internal/ws"
)

// maxListedIdeas caps GET /ideas. There is no pagination.
const maxListedIdeas = 50

// --- Structs for request binding ---
type CreateIdeaInput struct {
	Message string `json:"message" binding:"required"`
	Image   string `json:"image"`
}

// FieldError names one request field that failed validation.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// --- Handlers ---
type Env struct {
	Ideas  service.IdeaService
	Likes  service.LikeService
	Pool   *db.Pool
	Hub    *ws.Hub
	Logger *logger.Logger
}

// ListIdeas serves the 50 newest ideas, each with its likes. It never fails;
// storage problems produce an empty list.
func (e *Env) ListIdeas(c *gin.Context) {
	ctx := c.Request.Context()
	ideas := e.Ideas.ListIdeas(ctx, maxListedIdeas)
	c.JSON(http.StatusOK, entity.NewResults(e.Ideas.AttachLikes(ctx, ideas)))
}

func (e *Env) CreateIdea(c *gin.Context) {
	var input CreateIdeaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	idea, err := e.Ideas.CreateIdea(c.Request.Context(), service.IdeaInput{
		Message: input.Message,
		Image:   input.Image,
	})
	if err != nil {
		if errors.Is(err, service.ErrMissingMessage) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Invalid input: " + err.Error(),
				"fields": []FieldError{{Field: "message", Rule: "required"}},
			})
			return
		}
		e.Logger.Error("Error creating idea: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create idea"})
		return
	}

	e.Hub.Publish(ws.EventIdeaCreated, idea)
	c.JSON(http.StatusCreated, idea)
}

// GetIdea answers 204 rather than 404 for an unknown idea.
func (e *Env) GetIdea(c *gin.Context) {
	ctx := c.Request.Context()

	idea, err := e.Ideas.FindIdea(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.Status(http.StatusNoContent)
			return
		}
		e.Logger.Error("Error fetching idea: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch idea"})
		return
	}

	c.JSON(http.StatusOK, idea.WithLikes(e.Likes.ListLikes(ctx, idea.ID)))
}

// DeleteIdea always answers 204.
func (e *Env) DeleteIdea(c *gin.Context) {
	id := c.Param("id")

	deleted, err := e.Ideas.DeleteIdea(c.Request.Context(), id)
	if err != nil {
		e.Logger.Error("Error deleting idea: %v", err)
	}
	if deleted {
		e.Hub.Publish(ws.EventIdeaDeleted, gin.H{"id": id})
	}

	c.Status(http.StatusNoContent)
}

func (e *Env) ListLikes(c *gin.Context) {
	likes := e.Likes.ListLikes(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, entity.NewResults(likes))
}

// CreateLike adds one like. Any failure is reported as 204.
func (e *Env) CreateLike(c *gin.Context) {
	ideaID := c.Param("id")

	like, err := e.Likes.CreateLike(c.Request.Context(), ideaID)
	if err != nil {
		e.Logger.Error("Error liking idea: %v", err)
		c.Status(http.StatusNoContent)
		return
	}

	e.Hub.Publish(ws.EventLikeAdded, gin.H{"idea_id": ideaID, "like": like})
	c.JSON(http.StatusOK, like)
}

// DeleteLike removes the idea's most recent like and always answers 204.
func (e *Env) DeleteLike(c *gin.Context) {
	ideaID := c.Param("id")

	removed, err := e.Likes.DeleteLike(c.Request.Context(), ideaID)
	if err != nil {
		e.Logger.Error("Error removing like: %v", err)
	}
	if removed != nil {
		e.Hub.Publish(ws.EventLikeRemoved, gin.H{"idea_id": ideaID, "like": removed})
	}

	c.Status(http.StatusNoContent)
}

func (e *Env) Health(c *gin.Context) {
	if err := e.Pool.Ping(c.Request.Context()); err != nil {
		e.Logger.Warn("Health check failed: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (e *Env) Events(c *gin.Context) {
	if err := ws.ServeWs(e.Hub, c.Writer, c.Request); err != nil {
		e.Logger.Warn("WebSocket upgrade failed: %v", err)
	}
}

func bindingError(err error) gin.H {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
		return gin.H{"error": "Invalid input: " + fields[0].Field + " is " + fields[0].Rule, "fields": fields}
	}
	return gin.H{"error": "Invalid input: body must be a JSON object"}
}

var registerTagNames sync.Once

// useJSONFieldNames makes validation errors name fields the way clients spell them.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
}
