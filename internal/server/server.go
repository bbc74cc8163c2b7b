package server

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"webAgent/internal/agent"
	"webAgent/internal/config"
	"webAgent/internal/logger"
)

// Server - тонкий транспорт над ядром: валидация запроса, маршруты,
// сериализация. Вся логика живет в agent.Agent.
type Server struct {
	cfg   *config.Cfg
	log   *logger.Zap
	agent *agent.Agent
}

func New(cfg *config.Cfg, log *logger.Zap, ag *agent.Agent) *Server {
	return &Server{
		cfg:   cfg,
		log:   log,
		agent: ag,
	}
}

func (s *Server) Run(ctx context.Context) error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	// Лог-мидлвар с request id: входящий X-Request-ID переиспользуется,
	// иначе генерируется новый; заголовок возвращается вызывающему.
	r.Use(func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		start := time.Now()
		c.Next()
		s.log.Info("HTTP",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)

		status := s.agent.Status()
		c.JSON(http.StatusOK, gin.H{
			"ready":           status.Ready,
			"active_sessions": status.ActiveSessions,
			"uptime":          status.Uptime,
			"memory_mb":       mem.Alloc / 1024 / 1024,
		})
	})

	r.POST("/api/interact", func(c *gin.Context) {
		var req agent.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := agent.WithRequestID(c.Request.Context(), c.GetString("request_id"))
		result := s.agent.Interact(ctx, req)
		c.JSON(http.StatusOK, result)
	})

	r.POST("/api/session/close", func(c *gin.Context) {
		var req struct {
			SessionID string `json:"session_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		s.agent.CloseSession(req.SessionID)
		c.JSON(http.StatusOK, gin.H{"closed": req.SessionID})
	})

	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.ListenAndServe()
	}()

	s.log.Info("Сервер запущен", zap.String("addr", addr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errChan:
		return err
	}
}
