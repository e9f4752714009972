package httpapi

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"

	"github.com/i474232898/weather-tags-relay/internal/weather"
)

const serviceName = "weather-tags-relay"

var validate = validator.New()

// Options controls the ambient middleware of the app.
type Options struct {
	// CORSOrigins is passed to the CORS middleware; "*" allows any origin.
	CORSOrigins string
	// AccessLog enables the per-request access log line.
	AccessLog bool
	// LookupTimeout bounds each provider lookup (0 = no per-request deadline).
	// fasthttp does not cancel the request context when a client goes away,
	// so this deadline is what ends an abandoned lookup.
	LookupTimeout time.Duration
}

// NewApp builds the Fiber app with middleware, error handling and routes.
func NewApp(service *weather.Service, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               serviceName,
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	origins := opts.CORSOrigins
	if origins == "" {
		origins = "*"
	}

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	if opts.AccessLog {
		app.Use(logger.New(logger.Config{
			Format: "${time} | ${locals:requestid} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${error}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: "*",
	}))

	RegisterRoutes(app, service, opts.LookupTimeout)
	return app
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service, lookupTimeout time.Duration) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": serviceName,
		})
	})

	app.Get("/weather", func(c *fiber.Ctx) error {
		q := weatherQuery{City: utils.CopyString(c.Query("city"))}
		if err := validate.Struct(q); err != nil {
			service.RecordRejected(weather.EndpointWeather)
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := lookupContext(c, lookupTimeout)
		defer cancel()

		result, err := service.Weather(ctx, q.City)
		if err != nil {
			if code, details, ok := upstreamFailure(err); ok {
				return c.Status(code).JSON(fiber.Map{
					"error":   "City not found",
					"details": details,
				})
			}
			return lookupError(err)
		}

		return c.JSON(result)
	})

	app.Get("/weather-tags", func(c *fiber.Ctx) error {
		q := tagsQuery{City: queryParam(c, "city")}
		if err := validate.Struct(q); err != nil {
			service.RecordRejected(weather.EndpointTags)
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := lookupContext(c, lookupTimeout)
		defer cancel()

		result, err := service.Tags(ctx, *q.City)
		if err != nil {
			if code, _, ok := upstreamFailure(err); ok {
				return c.Status(code).JSON(fiber.Map{
					"error": "Weather data not found",
				})
			}
			return lookupError(err)
		}

		return c.JSON(result)
	})
}

// weatherQuery holds query parameters for /weather.
type weatherQuery struct {
	City string `validate:"required,min=2"`
}

// tagsQuery holds query parameters for /weather-tags. City only has to be
// present; an empty value is forwarded to the provider, unlike /weather.
type tagsQuery struct {
	City *string `validate:"required"`
}

// queryParam returns the value of key, or nil when the parameter is absent.
func queryParam(c *fiber.Ctx, key string) *string {
	args := c.Request().URI().QueryArgs()
	if !args.Has(key) {
		return nil
	}
	v := string(args.Peek(key))
	return &v
}

func lookupContext(c *fiber.Ctx, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.UserContext())
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// upstreamFailure reports whether err means the provider could not serve the
// lookup, together with the status to answer with and the raw provider body.
func upstreamFailure(err error) (code int, details string, ok bool) {
	var upErr *weather.UpstreamError
	switch {
	case errors.As(err, &upErr):
		if upErr.ProviderSide() {
			return fiber.StatusBadGateway, upErr.Body, true
		}
		return fiber.StatusNotFound, upErr.Body, true
	case errors.Is(err, weather.ErrProviderUnavailable):
		return fiber.StatusServiceUnavailable, err.Error(), true
	}
	return 0, "", false
}

// lookupError maps failures that are not provider answers to a fiber error.
func lookupError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fiber.NewError(fiber.StatusGatewayTimeout, "weather provider timed out")
	}
	if errors.Is(err, weather.ErrMalformedPayload) {
		return fiber.NewError(fiber.StatusBadGateway, "malformed weather provider response")
	}
	return fiber.NewError(fiber.StatusBadGateway, "failed to reach weather provider")
}
