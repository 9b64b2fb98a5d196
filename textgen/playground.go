package textgen

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/odit-bit/textgen/api"
	"github.com/odit-bit/textgen/generate"
	"github.com/odit-bit/textgen/textgen/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

//go:embed static/index.html
var playgroundPage []byte

// Server serves the playground page and its generate endpoint.
type Server struct {
	e   *echo.Echo
	cfg config.Playground
}

func NewPlayground(g Generator, cfg config.Playground, debug bool) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Debug = debug
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	PlaygroundHandler(g, e)

	return &Server{e: e, cfg: cfg}
}

// Start blocks until ctx is done or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	srvErr := make(chan error, 1)
	go func() {
		slog.Info("playground listening", "address", s.cfg.Address)
		srvErr <- s.e.Start(s.cfg.Address)
	}()

	select {
	case err := <-srvErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("shutdown http server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.e.Shutdown(shutdownCtx)
}

func PlaygroundHandler(g Generator, e *echo.Echo) {
	if e == nil || g == nil {
		panic("got nil parameter")
	}

	meter := otel.Meter("textgen.playground")
	requestCounter, err := meter.Int64Counter(
		"textgen.http.request_total",
		metric.WithDescription("total number of HTTP request"),
	)
	if err != nil {
		panic(err)
	}

	// otel middleware
	e.Use(otelecho.Middleware("textgen-playground"))

	//custom middleware to counter request
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			requestCounter.Add(c.Request().Context(), 1)
			return err
		}
	})

	e.GET("/", func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, playgroundPage)
	})

	e.GET("/v1/defaults", func(c echo.Context) error {
		d := g.Defaults()
		return c.JSON(http.StatusOK, api.NewGenerateRequest("", d))
	})

	e.POST(api.GeneratePath, func(c echo.Context) error {
		slog.Debug("got request")
		if ok := IsJsonContentType(c.Request()); !ok {
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "expecting json body"})
		}

		var input api.GenerateRequest
		if err := c.Bind(&input); err != nil {
			slog.Error("failed binding", "error", err)
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "bad json format"})
		}

		opts, err := input.Options(g.Defaults())
		if err != nil {
			slog.Error("validate error", "error", err)
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		}

		seqs, err := g.Generate(c.Request().Context(), input.Prompt, opts)
		switch {
		case errors.Is(err, generate.ErrEmptyPrompt), errors.Is(err, generate.ErrInvalidOptions):
			return c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case err != nil:
			slog.Error("failed generate", "error", err)
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Error: fmt.Sprintf("model %s unavailable", g.Model())})
		}

		slog.Debug("request finish")
		return c.JSON(http.StatusOK, api.GenerateResponse{
			Created:   time.Now(),
			Model:     g.Model(),
			Sequences: seqs,
		})
	})
}

func IsJsonContentType(req *http.Request) bool {
	ct := req.Header.Get("Content-Type")
	return ct == echo.MIMEApplicationJSON || ct == echo.MIMEApplicationJSONCharsetUTF8
}
