package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New はアプリ共通のロガーを作る。
// devでは人間向けのコンソール出力、それ以外はJSON。
func New(env string) zerolog.Logger {
	if env == "dev" {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	return zerolog.New(os.Stderr).
		Level(zerolog.InfoLevel).
		With().Timestamp().Logger()
}
