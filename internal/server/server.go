package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/meetwrap/meetwrap/internal/capability"
	"github.com/meetwrap/meetwrap/internal/jobs"
	"github.com/meetwrap/meetwrap/internal/logger"
	"github.com/meetwrap/meetwrap/internal/pipeline"
)

// Server exposes the upload, status, results, report and health
// endpoints. It is a thin read/submit surface: all job state lives in
// the store and all processing happens in the launcher's workers.
type Server struct {
	store          *jobs.Store
	launcher       *pipeline.Launcher
	registry       *capability.Registry
	logger         logger.Logger
	maxUploadBytes int64
	engine         *gin.Engine
}

// New wires the HTTP routes.
func New(store *jobs.Store, launcher *pipeline.Launcher, registry *capability.Registry, log logger.Logger, maxUploadBytes int64) *Server {
	s := &Server{
		store:          store,
		launcher:       launcher,
		registry:       registry,
		logger:         log,
		maxUploadBytes: maxUploadBytes,
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = 8 << 20

	api := engine.Group("/api")
	api.POST("/upload", s.handleUpload)
	api.GET("/status/:job_id", s.handleStatus)
	api.GET("/results/:job_id", s.handleResults)
	api.GET("/report/:job_id", s.handleReport)
	api.GET("/health", s.handleHealth)

	s.engine = engine
	return s
}

// Handler returns the root http.Handler for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.engine
}
