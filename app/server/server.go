package server

import (
	"embed"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"

	"embedviz/app/api"
	"embedviz/app/middleware"
	"embedviz/store"
	"embedviz/types"
)

//go:embed static
var staticFS embed.FS

var config = fiber.Config{
	ErrorHandler: api.ErrorHandler,
}

type Server struct {
	listenAddr string
	logger     *slog.Logger
}

func NewServer(addr string) *Server {
	return &Server{
		listenAddr: addr,
		logger:     slog.Default(),
	}
}

func (s *Server) Stop() {
	s.logger.Info("server stopped")
}

func (s *Server) Run() {
	outputFile := os.Getenv("EMBEDDINGS_FILE")
	if outputFile == "" {
		outputFile = types.DefaultIndexConfig().OutputFile
	}
	storer := store.NewJSONStore(outputFile)

	assets, err := fs.Sub(staticFS, "static")
	if err != nil {
		s.logger.Error("error to load embedded assets", "error", err.Error())
		return
	}

	var (
		app               = fiber.New(config)
		checkHandler      = api.NewCheckHandler(storer)
		projectionHandler = api.NewProjectionHandler(storer)
		check             = app.Group("/check")
		apiv1             = app.Group("/api/v1")
	)

	app.Use(middleware.PlugStatic("/static", assets))

	app.Get("/", func(c *fiber.Ctx) error {
		page, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			return err
		}
		return c.Type("html").Send(page)
	})

	check.Get("/healthy", checkHandler.HandleHealthy)
	apiv1.Post("/projection", projectionHandler.HandleProjection)

	s.logger.Info("dashboard reading embeddings", "path", storer.Path())
	if err := app.Listen(s.listenAddr); err != nil {
		s.logger.Error("error to start server", "error", err.Error())
	}
}
