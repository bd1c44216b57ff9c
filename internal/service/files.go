package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/Terjeeld/lasviewer/internal/models"
	"github.com/Terjeeld/lasviewer/internal/repository"

	"github.com/google/uuid"
)

// Activity event types.
const (
	EventUpload = "UPLOAD"
	EventPlot   = "PLOT"
	EventDelete = "DELETE"
	EventError  = "ERROR"
)

var (
	ErrFileTooLarge = errors.New("file exceeds upload size limit")
	ErrFileNotFound = errors.New("file not found")
	ErrEmptyUpload  = errors.New("uploaded file is empty")
)

type FileService struct {
	fileRepo  repository.Files
	eventRepo repository.Events
	parser    LogParser
	plot      Plot
	maxBytes  int64
}

func NewFileService(fileRepo repository.Files, eventRepo repository.Events, parser LogParser, plot Plot, maxBytes int64) *FileService {
	return &FileService{
		fileRepo:  fileRepo,
		eventRepo: eventRepo,
		parser:    parser,
		plot:      plot,
		maxBytes:  maxBytes,
	}
}

// Upload parses raw LAS bytes, detects the depth curve, and persists the
// result under the uploading user. Parse failures surface unchanged so
// the handler can show them.
func (s *FileService) Upload(ctx context.Context, ownerID int, name string, data []byte) (models.LogFile, error) {
	if len(data) == 0 {
		return models.LogFile{}, ErrEmptyUpload
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return models.LogFile{}, fmt.Errorf("%w: %d bytes (limit %d)", ErrFileTooLarge, len(data), s.maxBytes)
	}

	parsed, err := s.parser.Parse(data)
	if err != nil {
		return models.LogFile{}, err
	}

	depth, guessed, err := s.plot.IdentifyDepthCurve(parsed.Curves)
	if err != nil {
		return models.LogFile{}, err
	}

	f := models.LogFile{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Name:         filepath.Base(name),
		SizeBytes:    int64(len(data)),
		Header:       parsed.Header,
		Curves:       parsed.Curves,
		DepthCurve:   depth,
		DepthGuessed: guessed,
		UploadedAt:   time.Now().UTC(),
	}
	if err := s.fileRepo.Save(ctx, f); err != nil {
		return models.LogFile{}, err
	}

	if err := s.eventRepo.Append(ctx, models.ActivityEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  f.UploadedAt,
		Type:        EventUpload,
		Description: fmt.Sprintf("Uploaded %q with %d curves", f.Name, f.Curves.Len()),
		Metadata: map[string]any{
			"file_id":       f.ID,
			"depth_curve":   depth,
			"depth_guessed": guessed,
			"samples":       f.Curves.SampleCount(),
		},
	}); err != nil {
		return models.LogFile{}, err
	}

	return f, nil
}

// Get loads a full file (header and curves) owned by ownerID.
func (s *FileService) Get(ctx context.Context, ownerID int, id string) (models.LogFile, error) {
	f, err := s.fileRepo.Get(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.LogFile{}, ErrFileNotFound
		}
		return models.LogFile{}, err
	}
	return f, nil
}

// List returns the caller's uploads, metadata only.
func (s *FileService) List(ctx context.Context, ownerID int) ([]models.LogFile, error) {
	return s.fileRepo.List(ctx, ownerID)
}

// Delete removes one upload and records the deletion.
func (s *FileService) Delete(ctx context.Context, ownerID int, id string) error {
	if err := s.fileRepo.Delete(ctx, ownerID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFileNotFound
		}
		return err
	}
	return s.eventRepo.Append(ctx, models.ActivityEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        EventDelete,
		Description: "File deleted by owner",
		Metadata:    map[string]any{"file_id": id},
	})
}

// BuildPlot assembles the plot payload for one stored file. An empty
// depthName falls back to the depth curve detected at upload.
func (s *FileService) BuildPlot(ctx context.Context, ownerID int, id, depthName, targetName string) (models.PlotRequest, error) {
	f, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return models.PlotRequest{}, err
	}
	if depthName == "" {
		depthName = f.DepthCurve
	}
	req, err := s.plot.BuildPlotRequest(f.Curves, depthName, targetName)
	if err != nil {
		return models.PlotRequest{}, err
	}

	if err := s.eventRepo.Append(ctx, models.ActivityEvent{
		EventID:     uuid.NewString(),
		OccurredAt:  time.Now().UTC(),
		Type:        EventPlot,
		Description: fmt.Sprintf("Plotted %q against %q", req.YLabel, req.XLabel),
		Metadata:    map[string]any{"file_id": id, "curve": req.YLabel, "depth": req.XLabel},
	}); err != nil {
		return models.PlotRequest{}, err
	}

	return req, nil
}
