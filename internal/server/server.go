// Package server exposes the reporting view and CSV export over HTTP.
package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/abhisek/skillora/internal/record"
	"github.com/abhisek/skillora/internal/report"
	"github.com/abhisek/skillora/internal/store"
	"github.com/abhisek/skillora/internal/tutor"
)

// Options configures the HTTP API.
type Options struct {
	// CORSOrigins lists the browser origins allowed to call the API.
	CORSOrigins []string
	Logger      *slog.Logger
	// Now stamps export file names. Defaults to time.Now.
	Now func() time.Time
}

// Server serves the reporting API for one Recorder.
type Server struct {
	rec    *store.Recorder
	router *gin.Engine
	log    *slog.Logger
	now    func() time.Time
}

// New builds the router.
func New(rec *store.Recorder, opts Options) *Server {
	s := &Server{
		rec: rec,
		log: opts.Logger,
		now: opts.Now,
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.log))
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     opts.CORSOrigins,
			AllowMethods:     []string{"GET", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Accept", "Origin", "Cache-Control"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/summary", s.getSummary)
		api.GET("/records/:kind", s.listRecords)
		api.GET("/export/:kind", s.exportRecords)
		api.GET("/llm/stats", s.llmStats)
		api.GET("/curriculum", s.curriculum)
	}

	s.router = r
	return s
}

// Handler returns the http.Handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully within shutdownTimeout.
func (s *Server) ListenAndServe(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("starting server", "address", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type recordsResponse struct {
	Kind     record.Kind      `json:"kind"`
	Records  []record.Record  `json:"records"`
	Rejected []store.Rejected `json:"rejected"`
}

func (s *Server) getSummary(c *gin.Context) {
	ds, err := report.Load(c.Request.Context(), s.rec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report.Summarize(ds))
}

func (s *Server) listRecords(c *gin.Context) {
	kind, ok := record.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown record kind %q", c.Param("kind"))})
		return
	}
	recs, rejected, err := report.LoadKind(c.Request.Context(), s.rec, kind)
	if err != nil {
		s.fail(c, err)
		return
	}
	if recs == nil {
		recs = []record.Record{}
	}
	if rejected == nil {
		rejected = []store.Rejected{}
	}
	c.JSON(http.StatusOK, recordsResponse{Kind: kind, Records: recs, Rejected: rejected})
}

func (s *Server) exportRecords(c *gin.Context) {
	kind, ok := record.ParseKind(c.Param("kind"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("unknown record kind %q", c.Param("kind"))})
		return
	}
	recs, _, err := report.LoadKind(c.Request.Context(), s.rec, kind)
	if err != nil {
		s.fail(c, err)
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, recs); err != nil {
		if errors.Is(err, report.ErrNothingToExport) {
			c.Status(http.StatusNoContent)
			return
		}
		s.fail(c, err)
		return
	}

	name := report.ExportFilename(kind, s.now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) llmStats(c *gin.Context) {
	reqs, _, err := store.LoadAll[record.LLMRequest](c.Request.Context(), s.rec)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report.SummarizeLLM(reqs))
}

type gradeTopics struct {
	Grade  int                         `json:"grade"`
	Icon   string                      `json:"icon"`
	Topics map[record.Subject][]string `json:"topics"`
}

func (s *Server) curriculum(c *gin.Context) {
	out := make([]gradeTopics, 0, tutor.MaxGrade)
	for g := tutor.MinGrade; g <= tutor.MaxGrade; g++ {
		gt := gradeTopics{Grade: g, Icon: tutor.GradeIcon(g), Topics: map[record.Subject][]string{}}
		for _, subj := range tutor.Subjects {
			gt.Topics[subj] = tutor.Topics(g, subj)
		}
		out = append(out, gt)
	}
	c.JSON(http.StatusOK, gin.H{"grades": out, "buddies": tutor.Buddies})
}

func (s *Server) fail(c *gin.Context, err error) {
	s.log.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// requestLogger logs one line per request.
func requestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}
