package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnshulGoyal589/NS-Acad-Backend/internal/models"
	appErrors "github.com/AnshulGoyal589/NS-Acad-Backend/pkg/errors"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/export"
	"github.com/AnshulGoyal589/NS-Acad-Backend/pkg/storage"
)

type exportRepository interface {
	Create(ctx context.Context, export *models.AttainmentExport) error
	FindByID(ctx context.Context, id string) (*models.AttainmentExport, error)
	DeleteExpired(ctx context.Context, before time.Time) ([]string, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type reportSource interface {
	GetReport(ctx context.Context, offeringID string) (*models.StoredAttainmentReport, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// DownloadFile is a rendered export ready to stream.
type DownloadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders stored reports and hands out signed download links.
type ExportService struct {
	reports   reportSource
	offerings offeringReader
	repo      exportRepository
	storage   fileStorage
	signer    *storage.SignedURLSigner
	renderers map[models.ExportFormat]export.Renderer
	metrics   *MetricsService
	cfg       ExportConfig
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService with CSV and PDF renderers.
func NewExportService(reports reportSource, offerings offeringReader, repo exportRepository, files fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		reports:   reports,
		offerings: offerings,
		repo:      repo,
		storage:   files,
		signer:    signer,
		renderers: map[models.ExportFormat]export.Renderer{
			models.ExportFormatCSV: export.NewCSVExporter(),
			models.ExportFormatPDF: export.NewPDFExporter(),
		},
		metrics: metrics,
		cfg:     cfg,
		logger:  logger,
		now:     time.Now,
	}
}

// Export renders the stored report of an offering and returns a signed link.
func (s *ExportService) Export(ctx context.Context, offeringID, rawFormat, actor string) (*models.ExportLink, error) {
	format, err := models.ParseExportFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	offering, err := s.offerings.FindByID(ctx, offeringID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course offering not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course offering")
	}
	stored, err := s.reports.GetReport(ctx, offeringID)
	if err != nil {
		return nil, err
	}

	renderer := s.renderers[format]
	payload, err := renderer.Render(BuildReportDocument(offering, stored))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	id := uuid.NewString()
	relPath, err := s.storage.Save(fmt.Sprintf("attainment/%s/%s.%s", offeringID, id, renderer.Extension()), payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export")
	}
	token, expiresAt, err := s.signer.Generate(id, relPath)
	if err != nil {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign export link")
	}
	record := &models.AttainmentExport{
		ID:         id,
		OfferingID: offeringID,
		Format:     format,
		FilePath:   relPath,
		CreatedBy:  actor,
		CreatedAt:  s.now().UTC(),
		ExpiresAt:  expiresAt.UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		_ = s.storage.Delete(relPath)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record export")
	}
	s.metrics.RecordExport(format)
	s.logger.Info("attainment export rendered", zap.String("offering_id", offeringID), zap.String("export_id", id), zap.String("format", string(format)))

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return &models.ExportLink{
		ExportID:  id,
		Format:    format,
		URL:       fmt.Sprintf("%s/export/%s", prefix, token),
		ExpiresAt: record.ExpiresAt,
	}, nil
}

// Download validates a token and returns the file it points to.
func (s *ExportService) Download(ctx context.Context, token string) (*DownloadFile, error) {
	parsed, err := s.signer.Parse(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "download link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}
	record, err := s.repo.FindByID(ctx, parsed.ExportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export")
	}
	if record.FilePath != parsed.Path {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid download link")
	}

	file, err := s.storage.Open(record.FilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "export no longer available")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export")
	}

	renderer := s.renderers[record.Format]
	contentType := "application/octet-stream"
	if renderer != nil {
		contentType = renderer.ContentType()
	}
	return &DownloadFile{
		Filename:    fmt.Sprintf("attainment_%s.%s", record.OfferingID, record.Format),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// Cleanup removes expired exports and any stray files older than the link TTL.
func (s *ExportService) Cleanup(ctx context.Context) (int, error) {
	paths, err := s.repo.DeleteExpired(ctx, s.now().UTC())
	if err != nil {
		return 0, err
	}
	for _, path := range paths {
		if err := s.storage.Delete(path); err != nil {
			s.logger.Warn("failed to delete expired export", zap.String("path", path), zap.Error(err))
		}
	}
	stray, err := s.storage.CleanupOlderThan(s.signer.TTL())
	if err != nil {
		return len(paths), err
	}
	return len(paths) + len(stray), nil
}

// RunCleanup calls Cleanup every interval until ctx is done.
func (s *ExportService) RunCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(ctx)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if removed > 0 {
				s.logger.Info("export cleanup", zap.Int("removed", removed))
			}
		}
	}
}
