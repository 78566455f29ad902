// Package gin serves the metascan HTTP API.
package gin

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/fwojciec/metascan"
	"github.com/fwojciec/metascan/prometheus"
	"github.com/gin-gonic/gin"
)

// ShutdownTimeout is how long in-flight requests may run after shutdown begins.
const ShutdownTimeout = 10 * time.Second

// Server exposes batch scanning, saved input and run history over HTTP.
// Inputs, Runs and Metrics are optional; their routes respond 501 or are
// absent when unset.
type Server struct {
	Runner  metascan.BatchRunner
	Inputs  metascan.InputStore
	Runs    metascan.RunService
	Metrics *prometheus.Metrics
	Logger  *slog.Logger

	// Variant and Mode are recorded on persisted runs.
	Variant metascan.Variant
	Mode    metascan.Mode
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.observe)

	r.GET("/health", s.health)
	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		api.POST("/batches", s.createBatch)
		api.GET("/input", s.getInput)
		api.PUT("/input", s.putInput)
		api.GET("/runs", s.listRuns)
		api.GET("/runs/:id", s.getRun)
	}

	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) observe(c *gin.Context) {
	begin := time.Now()
	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	status := c.Writer.Status()

	if s.Metrics != nil {
		s.Metrics.ObserveRequest(c.Request.Method, path, status, time.Since(begin))
	}
	if s.Logger != nil {
		s.Logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(begin),
		)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type batchRequest struct {
	Input string `json:"input"`
	Save  bool   `json:"save"`
}

type batchResponse struct {
	RunID string `json:"runId,omitempty"`
	*metascan.BatchResult
}

func (s *Server) createBatch(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.error(c, metascan.Errorf(metascan.EINVALID, "invalid request body"))
		return
	}

	ctx := c.Request.Context()
	result, err := s.Runner.RunBatch(ctx, req.Input)
	var ve *metascan.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":   ve.Error(),
			"invalid": ve.Invalid,
		})
		return
	}
	if err != nil {
		s.error(c, err)
		return
	}

	resp := batchResponse{BatchResult: result}
	if req.Save {
		if s.Inputs != nil {
			if err := s.Inputs.SaveInput(ctx, req.Input); err != nil {
				s.error(c, err)
				return
			}
		}
		if s.Runs != nil {
			run := &metascan.Run{Input: req.Input, Variant: s.Variant, Mode: s.Mode, Result: result}
			if err := s.Runs.CreateRun(ctx, run); err != nil {
				s.error(c, err)
				return
			}
			resp.RunID = run.ID
		}
	}

	c.JSON(http.StatusOK, resp)
}

type inputBody struct {
	Input string `json:"input"`
}

func (s *Server) getInput(c *gin.Context) {
	if s.Inputs == nil {
		s.unavailable(c)
		return
	}

	input, err := s.Inputs.LastInput(c.Request.Context())
	if err != nil {
		s.error(c, err)
		return
	}
	c.JSON(http.StatusOK, inputBody{Input: input})
}

func (s *Server) putInput(c *gin.Context) {
	if s.Inputs == nil {
		s.unavailable(c)
		return
	}

	var body inputBody
	if err := c.ShouldBindJSON(&body); err != nil {
		s.error(c, metascan.Errorf(metascan.EINVALID, "invalid request body"))
		return
	}
	if err := s.Inputs.SaveInput(c.Request.Context(), body.Input); err != nil {
		s.error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listRuns(c *gin.Context) {
	if s.Runs == nil {
		s.unavailable(c)
		return
	}

	var filter metascan.RunFilter
	var err error
	if filter.Limit, err = queryInt(c, "limit"); err != nil {
		s.error(c, err)
		return
	}
	if filter.Offset, err = queryInt(c, "offset"); err != nil {
		s.error(c, err)
		return
	}
	if v := c.Query("variant"); v != "" {
		variant, err := metascan.ParseVariant(v)
		if err != nil {
			s.error(c, err)
			return
		}
		filter.Variant = &variant
	}

	runs, err := s.Runs.FindRuns(c.Request.Context(), filter)
	if err != nil {
		s.error(c, err)
		return
	}
	if runs == nil {
		runs = []*metascan.Run{}
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) getRun(c *gin.Context) {
	if s.Runs == nil {
		s.unavailable(c)
		return
	}

	run, err := s.Runs.FindRunByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.error(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func queryInt(c *gin.Context, name string) (int, error) {
	v := c.Query(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, metascan.Errorf(metascan.EINVALID, "invalid %s %q", name, v)
	}
	return n, nil
}

func (s *Server) unavailable(c *gin.Context) {
	c.JSON(http.StatusNotImplemented, gin.H{"error": "storage not configured"})
}

// error writes err as JSON with the status matching its code.
// Internal errors are logged and hidden from the client.
func (s *Server) error(c *gin.Context, err error) {
	code := metascan.ErrorCode(err)
	status := statusFor(code)

	message := metascan.ErrorMessage(err)
	if code == metascan.EINTERNAL {
		if s.Logger != nil {
			s.Logger.Error("request failed", "path", c.Request.URL.Path, "err", err)
		}
		message = "internal error"
	}
	c.JSON(status, gin.H{"error": message})
}

var codeStatus = map[string]int{
	metascan.EINVALID:  http.StatusBadRequest,
	metascan.ENOTFOUND: http.StatusNotFound,
	metascan.EFETCH:    http.StatusBadGateway,
	metascan.ENETWORK:  http.StatusBadGateway,
	metascan.EPARSE:    http.StatusUnprocessableEntity,
}

func statusFor(code string) int {
	if status, ok := codeStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
