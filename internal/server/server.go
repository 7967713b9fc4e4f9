package server

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/config"
	"github.com/agenthands/dtpr/internal/webhook"
)

const (
	requestIDHeader = "X-Request-ID"
	tokenHeader     = "X-Webhook-Token"
)

// Fulfiller answers a decoded webhook request.
type Fulfiller interface {
	Handle(ctx context.Context, req *webhook.Request) *webhook.Response
}

type Server struct {
	Agent       Fulfiller
	Token       string
	TurnTimeout time.Duration
	Logger      *zap.Logger
}

func NewServer(agent Fulfiller, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Agent:       agent,
		Token:       cfg.WebhookToken,
		TurnTimeout: cfg.TurnTimeout.Duration,
		Logger:      logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.accessLog())

	r.GET("/health", s.Health)
	r.POST("/webhook", s.authorize(), s.Webhook)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Webhook decodes a fulfillment request and always answers 200 with a
// response once the body is well-formed.
func (s *Server) Webhook(c *gin.Context) {
	var req webhook.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	if s.TurnTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.TurnTimeout)
		defer cancel()
	}

	c.JSON(http.StatusOK, s.Agent.Handle(ctx, &req))
}

func (s *Server) authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		if s.Token == "" {
			c.Next()
			return
		}
		got := c.GetHeader(tokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.Token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}

func (s *Server) requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
