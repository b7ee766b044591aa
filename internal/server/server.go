package server

import (
	"app/internal/config"
	"app/internal/handler"
	appvalidator "app/internal/validator"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// New はルート登録済みのechoを作る。
func New(cfg config.Config, log zerolog.Logger, cartH *handler.CartHandler, orderH *handler.OrderHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = appvalidator.New()

	e.Use(emw.Recover())
	e.Use(requestLogger(log))

	cartH.RegisterRoutes(e)
	orderH.RegisterRoutes(e, cfg)

	return e
}

// アクセスログはzerologに寄せる
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return emw.RequestLoggerWithConfig(emw.RequestLoggerConfig{
		LogURI:    true,
		LogMethod: true,
		LogStatus: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v emw.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Msg("request")
			return nil
		},
	})
}
