package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meetwrap/meetwrap/internal/jobs"
	"github.com/meetwrap/meetwrap/internal/pipeline"
	"github.com/meetwrap/meetwrap/internal/report"
)

var allowedExtensions = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".m4a":  true,
	".flac": true,
	".ogg":  true,
	".wma":  true,
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func (s *Server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No audio file provided"})
		return
	}
	if file.Filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}
	if !allowedFile(file.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File type not allowed"})
		return
	}
	if file.Size > s.maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	filename := sanitizeFilename(file.Filename)
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file selected"})
		return
	}

	jobID, err := s.launcher.Submit(c.Request.Context(), pipeline.Upload{
		Filename:           filename,
		TranscriptionModel: c.DefaultPostForm("transcription_model", "whisper"),
		SummaryModel:       c.DefaultPostForm("summary_model", "bart"),
		Save: func(dst string) error {
			return c.SaveUploadedFile(file, dst)
		},
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrQueueFull) || errors.Is(err, pipeline.ErrShutdown) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Server busy, try again later"})
			return
		}
		s.logger.Error(c.Request.Context(), "Upload error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":  jobID,
		"message": "File uploaded successfully, processing started",
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	rec, err := s.store.Get(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) handleResults(c *gin.Context) {
	rec, err := s.store.Get(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if rec.Status != jobs.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Processing not completed"})
		return
	}
	c.JSON(http.StatusOK, rec.Results)
}

func (s *Server) handleReport(c *gin.Context) {
	rec, err := s.store.Get(c.Param("job_id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	if rec.Status != jobs.StatusCompleted {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Processing not completed"})
		return
	}

	tmp, err := os.CreateTemp("", "report-*.docx")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := report.WriteDocx(rec, tmpPath); err != nil {
		s.logger.Error(c.Request.Context(), "Report error for job %s: %v", rec.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report"})
		return
	}

	downloadName := strings.TrimSuffix(rec.Filename, filepath.Ext(rec.Filename)) + ".docx"
	c.FileAttachment(tmpPath, downloadName)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "healthy",
		"models_loaded": s.registry.Loaded(),
		"active_jobs":   s.store.Count(),
	})
}

func allowedFile(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// sanitizeFilename keeps only safe characters from the client-supplied
// name. The stored path additionally embeds the job id, so collisions
// between concurrent uploads of the same name cannot happen.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	return strings.Trim(name, "._")
}
