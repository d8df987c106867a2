package db

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pointmap/internal/logging"
)

// slowQueryThreshold marks queries worth a warning.
const slowQueryThreshold = 200 * time.Millisecond

// zerologWriter routes gorm's log lines to the "gorm" component logger.
// The logger is looked up per line so a later logging.Init takes effect.
type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...interface{}) {
	l := logging.With("gorm")
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

// newGormLogger logs slow queries and errors. Lookup misses are expected
// (unknown usernames, new users during seeding) and are not logged.
func newGormLogger() logger.Interface {
	return logger.New(zerologWriter{}, logger.Config{
		SlowThreshold:             slowQueryThreshold,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// gormConfig is shared by every driver. TranslateError turns driver-specific
// unique violations into gorm.ErrDuplicatedKey.
func gormConfig() *gorm.Config {
	return &gorm.Config{
		Logger:         newGormLogger(),
		TranslateError: true,
	}
}
