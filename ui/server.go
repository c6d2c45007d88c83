package ui

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"sheetsense/internal/agent"
	"sheetsense/internal/config"
	"sheetsense/internal/logging"
	"sheetsense/internal/registry"
)

// Server is the upload-facing web server. Workbooks arrive as multipart
// uploads, run through the normalization pipeline and land in the
// registry; reads go through the API router mounted under /api.
type Server struct {
	router   *gin.Engine
	agent    *agent.Agent
	registry *registry.Registry
	storage  *registry.UploadStorage
	logger   *logging.Logger
}

// NewServer creates the web server around an agent, registry and upload
// storage.
func NewServer(cfg config.ServerConfig, ag *agent.Agent, reg *registry.Registry, storage *registry.UploadStorage) *Server {
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	s := &Server{
		router:   gin.Default(),
		agent:    ag,
		registry: reg,
		storage:  storage,
		logger:   logging.Default.WithComponent("Server"),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/health", s.handleHealth)
	s.router.POST("/upload", s.handleUpload)
	s.router.POST("/clear", s.handleClear)

	api := NewAPIRouter(s.registry)
	s.router.Any("/api/*path", gin.WrapH(http.StripPrefix("/api", api)))
}

// Run starts the server on the given port, blocking until it exits.
func (s *Server) Run(port string) error {
	s.logger.Info("Listening on :%s", port)
	return s.router.Run(":" + port)
}

// Handler exposes the underlying handler for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"tables": s.registry.Count(),
	})
}

// handleUpload stores an uploaded workbook and processes every sheet.
// Sheets that fail are skipped; the response reports what succeeded.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if ext != ".xlsx" && ext != ".xlsm" {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported file type %q", ext)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open upload"})
		return
	}
	defer file.Close()

	storedPath, err := s.storage.Store(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		s.logger.Error("Failed to store upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}

	infos, err := s.agent.ProcessWorkbook(c.Request.Context(), storedPath)
	if err != nil {
		s.logger.Error("Failed to process upload %s: %v", fileHeader.Filename, err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	summaries := make([]gin.H, len(infos))
	for i, info := range infos {
		summaries[i] = gin.H{
			"name":      info.Name,
			"sheet":     info.SheetName,
			"columns":   info.Columns,
			"row_count": info.RowCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"file":   fileHeader.Filename,
		"tables": summaries,
	})
}

func (s *Server) handleClear(c *gin.Context) {
	if err := s.registry.Clear(c.Request.Context()); err != nil {
		s.logger.Error("Failed to clear registry: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear tables"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}
