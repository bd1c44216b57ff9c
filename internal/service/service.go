package service

import (
	"context"
	"time"

	"github.com/Terjeeld/lasviewer/internal/las"
	"github.com/Terjeeld/lasviewer/internal/models"
	"github.com/Terjeeld/lasviewer/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Files manages uploaded well logs, scoped to their owner.
type Files interface {
	Upload(ctx context.Context, ownerID int, name string, data []byte) (models.LogFile, error)
	Get(ctx context.Context, ownerID int, id string) (models.LogFile, error)
	List(ctx context.Context, ownerID int) ([]models.LogFile, error)
	Delete(ctx context.Context, ownerID int, id string) error
	BuildPlot(ctx context.Context, ownerID int, id, depthName, targetName string) (models.PlotRequest, error)
}

// Plot picks the depth curve and assembles render-ready plot payloads.
type Plot interface {
	IdentifyDepthCurve(cs *models.CurveSet) (name string, guessed bool, err error)
	BuildPlotRequest(cs *models.CurveSet, depthName, targetName string) (models.PlotRequest, error)
}

// ActivityLog exposes the append-only activity log with filtering access.
type ActivityLog interface {
	List(ctx context.Context, f LogFilter) ([]models.ActivityEvent, error)
}

// Retention runs the background loop that expires old uploads.
// Stop via context cancellation in main() for graceful shutdown.
type Retention interface {
	Run(ctx context.Context, tick time.Duration)
}

// LogParser decodes raw uploaded bytes into header fields and curves.
type LogParser interface {
	Parse(data []byte) (*las.ParsedLog, error)
}

// lasParser is the production LogParser.
type lasParser struct{}

func (lasParser) Parse(data []byte) (*las.ParsedLog, error) { return las.Parse(data) }

// LogFilter supports activity filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "UPLOAD", "PLOT", "DELETE", "ERROR"
}

// Config carries the tunables main() reads from the config file.
type Config struct {
	DepthAliases   []string      // priority order; empty means built-in defaults
	MaxUploadBytes int64         // 0 means no limit
	RetentionAge   time.Duration // 0 means defaultRetentionAge
	SigningKey     string        // JWT HMAC key; empty means built-in dev key
	TokenTTL       time.Duration // 0 means defaultTokenTTL
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Files
	Plot
	ActivityLog
	Retention
	Authorization
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg Config) *Service {
	plot := NewPlotService(cfg.DepthAliases)
	return &Service{
		Files:         NewFileService(repos.Files, repos.Events, lasParser{}, plot, cfg.MaxUploadBytes),
		Plot:          plot,
		ActivityLog:   NewActivityLogService(repos.Events),
		Retention:     NewRetentionService(repos.Files, repos.Events, cfg.RetentionAge),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey, cfg.TokenTTL),
	}
}
