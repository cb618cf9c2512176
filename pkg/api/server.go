// Package api provides the REST API server for phaseseq
package api

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/gin-gonic/gin"
	"github.com/james-see/phaseseq/pkg/pattern"
	"github.com/james-see/phaseseq/pkg/phase"
	"github.com/james-see/phaseseq/pkg/render"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title phaseseq API
// @version 1.0
// @description Edit the parameters and pattern of a running phase engine and render MIDI files through it
// @host localhost:8080
// @BasePath /api/v1

// maxUpload bounds pattern and MIDI uploads
const maxUpload = 8 << 20

// Server exposes an engine over HTTP
type Server struct {
	engine *phase.Engine
	logger *slog.Logger

	mu   sync.Mutex
	name string
}

// Param is a parameter descriptor with its current value
type Param struct {
	phase.ParamDescriptor
	Value float64 `json:"value"`
}

type paramUpdate struct {
	Value *float64 `json:"value" binding:"required"`
}

// NewServer creates a server editing engine. name labels the loaded pattern.
func NewServer(engine *phase.Engine, name string) *Server {
	return &Server{engine: engine, name: name, logger: slog.Default()}
}

// Router builds the gin engine with all routes
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/params", s.listParams)
		v1.PUT("/params/:id", s.updateParam)
		v1.GET("/chords", listChords)
		v1.GET("/pattern", s.getPattern)
		v1.PUT("/pattern", s.putPattern)
		v1.POST("/render", s.handleRender)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Run serves on the given port until the listener fails
func (s *Server) Run(port int) error {
	s.logger.Info("API server listening", "port", port)
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

// StartServer starts the API server for engine on the specified port
func StartServer(port int, engine *phase.Engine, name string) error {
	return NewServer(engine, name).Run(port)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// writeError maps fault tags to HTTP status codes
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch ftag.Get(err) {
	case ftag.InvalidArgument:
		status = http.StatusBadRequest
	case ftag.NotFound:
		status = http.StatusNotFound
	}

	msg := fmsg.GetIssue(err)
	if msg == "" {
		msg = err.Error()
	}
	c.JSON(status, gin.H{"error": msg})
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "phaseseq",
	})
}

// listChords godoc
// @Summary List chord types
// @Description Returns the chord names a pattern may use with their intervals
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]interface{}
// @Router /api/v1/chords [get]
func listChords(c *gin.Context) {
	chords := make([]gin.H, 0, len(phase.ChordTypes()))
	for _, t := range phase.ChordTypes() {
		intervals, _ := t.Intervals()
		chords = append(chords, gin.H{"name": string(t), "intervals": intervals})
	}
	c.JSON(http.StatusOK, gin.H{"chords": chords})
}

func (s *Server) params() []Param {
	settings := s.engine.Settings()
	descriptors := phase.Descriptors(phase.DefaultSettings())
	out := make([]Param, 0, len(descriptors))
	for _, d := range descriptors {
		value, _ := settings.Value(d.ID)
		out = append(out, Param{ParamDescriptor: d, Value: value})
	}
	return out
}

// listParams godoc
// @Summary List parameters
// @Description Returns every engine parameter with its range and current value
// @Tags params
// @Produce json
// @Success 200 {object} map[string][]Param
// @Router /api/v1/params [get]
func (s *Server) listParams(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"params": s.params()})
}

// updateParam godoc
// @Summary Change a parameter
// @Description Sets one parameter. Values are clamped to the parameter range.
// @Tags params
// @Accept json
// @Produce json
// @Param id path int true "Parameter id"
// @Param body body paramUpdate true "New value"
// @Success 200 {object} Param
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/params/{id} [put]
func (s *Server) updateParam(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parameter id must be a number"})
		return
	}

	desc, ok := phase.Descriptor(phase.ParamID(id))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("No parameter %d", id)})
		return
	}
	if desc.Type == phase.ParamText {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s is a label and has no value", desc.Name)})
		return
	}

	var body paramUpdate
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Body must be {\"value\": number}"})
		return
	}

	value := desc.Clamp(*body.Value)
	s.engine.ParameterChanged(desc.ID, value)
	s.logger.Debug("parameter changed", "param", desc.Name, "value", value)

	current, _ := s.engine.Settings().Value(desc.ID)
	c.JSON(http.StatusOK, Param{ParamDescriptor: desc, Value: current})
}

// getPattern godoc
// @Summary Current pattern
// @Description Returns the engine pattern and settings as a YAML pattern file
// @Tags pattern
// @Produce application/yaml
// @Success 200 {string} string
// @Router /api/v1/pattern [get]
func (s *Server) getPattern(c *gin.Context) {
	p, settings := s.engine.Snapshot()

	s.mu.Lock()
	name := s.name
	s.mu.Unlock()

	data, err := pattern.Marshal(&pattern.File{Name: name, Pattern: p, Settings: settings})
	if err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/yaml", data)
}

// putPattern godoc
// @Summary Replace the pattern
// @Description Loads a YAML pattern file into the engine, replacing pattern and settings
// @Tags pattern
// @Accept application/yaml
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /api/v1/pattern [put]
func (s *Server) putPattern(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read body"})
		return
	}

	f, err := pattern.Parse(data)
	if err != nil {
		writeError(c, err)
		return
	}

	s.engine.Replace(f.Pattern, f.Settings)

	s.mu.Lock()
	s.name = f.Name
	s.mu.Unlock()

	s.logger.Info("pattern replaced", "name", f.Name, "steps", len(f.Pattern.Durations))
	c.JSON(http.StatusOK, gin.H{
		"name":  f.Name,
		"steps": len(phase.BuildSequence(f.Pattern)),
	})
}

// handleRender godoc
// @Summary Render a MIDI file
// @Description Upload a MIDI file; every note-on triggers the current pattern
// @Tags render
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "MIDI file to render"
// @Param seed query int false "Seed for reproducible humanization"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/render [post]
func (s *Server) handleRender(c *gin.Context) {
	// Get uploaded file
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	// Read file content
	data, err := io.ReadAll(io.LimitReader(file, maxUpload))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	var opts []phase.Option
	if raw := c.Query("seed"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "seed must be a non-negative integer"})
			return
		}
		opts = append(opts, phase.WithRandom(phase.NewSeededSource(seed)))
	}

	p, settings := s.engine.Snapshot()
	result, err := render.New(p, settings, opts...).Render(data)
	if err != nil {
		writeError(c, err)
		return
	}

	outputName := render.OutputPath(header.Filename)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Header("X-Phaseseq-Notes", strconv.Itoa(result.Notes))
	c.Data(http.StatusOK, "audio/midi", result.Data)
}
