package http

import (
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/fwojciec/postforge"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is closed.
const ShutdownTimeout = 10 * time.Second

// Server serves the JSON API and the HTML pages.
type Server struct {
	ln     net.Listener
	server *http.Server
	engine *gin.Engine

	// Bind address to open.
	Addr string

	Logger *slog.Logger

	// Services used by the handlers.
	Generator       postforge.Generator
	Reviser         postforge.Reviser
	PostService     postforge.PostService
	TemplateService postforge.TemplateService
	FeedbackService postforge.FeedbackService
}

// NewServer returns a new Server with all routes registered. Set the
// service fields before calling Open.
func NewServer() *Server {
	s := &Server{
		engine: gin.New(),
		Logger: slog.New(slog.DiscardHandler),
	}
	s.server = &http.Server{Handler: s.engine}

	s.engine.Use(gin.Recovery(), s.logRequest)
	s.engine.SetHTMLTemplate(template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")))
	s.engine.NoRoute(func(c *gin.Context) {
		s.Error(c, postforge.Errorf(postforge.ENOTFOUND, "page not found"))
	})

	s.engine.GET("/health", s.handleHealth)
	s.registerAPIRoutes(s.engine.Group("/api"))
	s.registerWebRoutes(s.engine)

	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Open begins listening on the bind address.
func (s *Server) Open() (err error) {
	if s.ln, err = net.Listen("tcp", s.Addr); err != nil {
		return err
	}

	go s.server.Serve(s.ln)

	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}

// logRequest logs every request after it has been handled.
func (s *Server) logRequest(c *gin.Context) {
	defer func(begin time.Time) {
		s.Logger.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client", c.ClientIP(),
			"duration", time.Since(begin),
		)
	}(time.Now())
	c.Next()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
