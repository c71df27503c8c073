package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/lumen-youth/lumen/core"
	"github.com/lumen-youth/lumen/core/content"
	"github.com/lumen-youth/lumen/core/newsletter"
	"github.com/lumen-youth/lumen/core/program"
	"github.com/lumen-youth/lumen/core/redirect"
	"github.com/lumen-youth/lumen/core/user"
	"github.com/lumen-youth/lumen/core/volunteer"
)

const metricsNamespace = "lumen"

type (
	Deps struct {
		Conf          *core.Config
		Logger        core.Logger
		Validate      *validator.Validate
		Translator    ut.Translator
		UserSvc       *user.Service
		ProgramSvc    *program.Service
		ContentSvc    *content.Service
		VolunteerSvc  *volunteer.Service
		NewsletterSvc *newsletter.Service
		ImageStore    core.ImageStore
	}

	Server struct {
		deps     Deps
		app      *echo.Echo
		metrics  *metrics
		shutdown chan os.Signal
		errors   chan error
	}

	validation struct {
		validate   *validator.Validate
		translator ut.Translator
	}
)

func NewServer(deps Deps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		metrics:  newMetrics(metricsNamespace),
		shutdown: make(chan os.Signal, 1),
		errors:   make(chan error, 1),
	}
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	s.app.Pre(redirectMiddleware(redirect.NewRules(conf.Redirect)))
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(s.metrics.middleware())

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", s.home)
	s.app.GET("/healthz", healthz)
	s.app.GET("/metrics", s.metrics.handler())

	v := &validation{validate: s.deps.Validate, translator: s.deps.Translator}
	jwt := middleware.JWTWithConfig(jwtConfig(conf))

	api := s.app.Group("/api")
	admin := api.Group("/admin", jwt, staffMiddleware())

	registerAuthAPI(api, jwt, conf, s.deps.UserSvc, v)
	registerUserAPI(admin, s.deps.UserSvc, v)
	registerProgramAPI(api, admin, s.deps.ProgramSvc, v)
	registerContentAPI(api, admin, s.deps.ContentSvc, v)
	registerVolunteerAPI(api, admin, s.deps.VolunteerSvc, v)
	registerNewsletterAPI(api, admin, s.deps.NewsletterSvc, v)
	registerUploadAPI(admin, s.deps.ImageStore, conf.Media.MaxUploadSize)
}

// Start listens on the configured address; errors are reported on Errors().
func (s *Server) Start() {
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func (s *Server) home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+s.deps.Conf.AppName+" API!")
}

func healthz(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
