package health

import (
	"io"
	"log/slog"
	"os"

	"github.com/jmylchreest/watchface/internal/config"
)

// Detect returns the health source "auto" resolves to: dbus when the
// configured bus name has an owner, file when the data file exists,
// otherwise none.
func Detect(cfg *config.Config) string {
	if NameHasOwner(cfg.Health.DBusName) {
		return config.SourceDBus
	}
	if _, err := os.Stat(cfg.HealthFilePath()); err == nil {
		return config.SourceFile
	}
	return config.SourceNone
}

// NewService creates the configured health service. It returns
// ErrNoCapability when the host has no health source.
func NewService(cfg *config.Config, logger *slog.Logger) (Service, error) {
	source := cfg.Health.Source
	if source == config.SourceAuto || source == "" {
		source = Detect(cfg)
	}

	switch source {
	case config.SourceDBus:
		return NewDBusService(cfg.Health.DBusName, logger)
	case config.SourceFile:
		return NewFileService(cfg.HealthFilePath(), logger), nil
	case config.SourceStatic:
		return NewStaticService(cfg.Health.StaticSteps), nil
	case config.SourceNone:
		return nil, ErrNoCapability
	default:
		return nil, &SourceError{Source: source, Message: "unknown health source"}
	}
}

// Close releases a service that holds resources.
func Close(svc Service) error {
	if svc == nil {
		return nil
	}
	if c, ok := svc.(io.Closer); ok {
		return c.Close()
	}
	return svc.Unsubscribe()
}
