// Package api exposes the batch controller, upload stats and the notification
// stream over HTTP for local clients.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/moyoez/dropvault-go/api/controllers"
	"github.com/moyoez/dropvault-go/api/middlewares"
	"github.com/moyoez/dropvault-go/api/notifyhub"
	"github.com/moyoez/dropvault-go/share"
	"github.com/moyoez/dropvault-go/tool"
)

const APIPrefix = "/api/dropvault/v1"

// Server is the HTTP control surface of the upload batch controller.
type Server struct {
	port   int
	batch  controllers.Batch
	stats  *share.Stats
	hub    *notifyhub.Hub // nil disables /notify-ws
	engine *gin.Engine
	server *http.Server
	mu     sync.RWMutex
}

func NewServer(port int, batch controllers.Batch, stats *share.Stats, hub *notifyhub.Hub) *Server {
	return &Server{
		port:  port,
		batch: batch,
		stats: stats,
		hub:   hub,
	}
}

func (s *Server) setupRoutes() *gin.Engine {
	if tool.DefaultLogger.GetLevel() == log.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.Default()
	engine.Use(middlewares.AllowAllCORS())

	batchCtrl := controllers.NewBatchController(s.batch)
	statsCtrl := controllers.NewStatsController(s.stats)

	v1 := engine.Group(APIPrefix, middlewares.OnlyAllowLocal)
	{
		v1.GET("/status", batchCtrl.HandleStatus)           // Selection, status and per-entry progress
		v1.POST("/files", batchCtrl.HandleAddFiles)         // Add files by path or description
		v1.DELETE("/files/:id", batchCtrl.HandleRemoveFile) // Remove one entry while idle
		v1.DELETE("/files", batchCtrl.HandleClear)          // Clear the selection while idle
		v1.POST("/start", batchCtrl.HandleStart)            // Start the batch
		v1.POST("/cancel", batchCtrl.HandleCancel)          // Cancel the running batch
		v1.GET("/stats", statsCtrl.HandleStats)
		v1.GET("/batches", statsCtrl.HandleListBatches)
		v1.GET("/batches/:id", statsCtrl.HandleBatchResult)
		v1.GET("/get-network-info", controllers.GetNetworkInfo(s.port))
		v1.GET("/create-qr-code", controllers.GenerateQRCode(s.defaultShareURL)) // QR code PNG (same params as api.qrserver.com)
		if s.hub != nil {
			v1.GET("/notify-ws", notifyhub.HandleNotifyWS(s.hub))
		}
	}
	return engine
}

// defaultShareURL is the first LAN address of the server.
func (s *Server) defaultShareURL() string {
	return share.ServerURLs(s.port)[0]
}

// Handler returns the router, building it on first use.
func (s *Server) Handler() http.Handler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine == nil {
		s.engine = s.setupRoutes()
	}
	return s.engine
}

// Start starts the HTTP server and blocks until it stops. A server stopped
// through Shutdown returns nil.
func (s *Server) Start() error {
	handler := s.Handler()

	s.mu.Lock()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: handler,
	}
	srv := s.server
	s.mu.Unlock()

	tool.DefaultLogger.Infof("Starting API server on http://0.0.0.0:%d%s", s.port, APIPrefix)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.RLock()
	srv := s.server
	s.mu.RUnlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
