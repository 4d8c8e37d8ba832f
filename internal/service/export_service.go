package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/dto"
	appErrors "github.com/coc-ops/roombook-api/pkg/errors"
	"github.com/coc-ops/roombook-api/pkg/export"
	"github.com/coc-ops/roombook-api/pkg/jobs"
)

type scheduleSource interface {
	Schedule(ctx context.Context, query dto.ScheduleQuery) (*dto.ScheduleResponse, error)
}

// FileStorage archives rendered export files.
type FileStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportFormat selects the rendered output type.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries the rendered bytes and suggested filename.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService renders a day schedule as CSV or PDF. Rendered files are
// archived to local storage off the request path through the job queue.
type ExportService struct {
	schedule scheduleSource
	storage  FileStorage
	csv      csvRenderer
	pdf      pdfRenderer
	queue    *jobs.Queue
	enabled  bool
	logger   *zap.Logger
}

// ExportConfig gates the export surface.
type ExportConfig struct {
	Enabled bool
}

type archivePayload struct {
	Filename string
	Data     []byte
}

// NewExportService constructs an ExportService. The archive queue is started
// lazily by the caller; a nil storage disables archiving.
func NewExportService(schedule scheduleSource, storage FileStorage, cfg ExportConfig, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	s := &ExportService{
		schedule: schedule,
		storage:  storage,
		csv:      csv,
		pdf:      pdf,
		enabled:  cfg.Enabled,
		logger:   logger,
	}
	if storage != nil {
		s.queue = jobs.NewQueue("export-archive", s.handleArchive, jobs.QueueConfig{Workers: 1, Logger: logger})
	}
	return s
}

// Start begins the background archive workers.
func (s *ExportService) Start(ctx context.Context) {
	if s.queue != nil {
		s.queue.Start(ctx)
	}
}

// Stop drains the archive workers.
func (s *ExportService) Stop() {
	if s.queue != nil {
		s.queue.Stop()
	}
}

// RenderSchedule builds the day schedule dataset and renders it in the
// requested format.
func (s *ExportService) RenderSchedule(ctx context.Context, day string, format ExportFormat) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "exports disabled")
	}
	view, err := s.schedule.Schedule(ctx, dto.ScheduleQuery{Day: day})
	if err != nil {
		return nil, err
	}
	dataset := buildScheduleDataset(view)
	title := fmt.Sprintf("Room Schedule %s", view.Day)

	var payload []byte
	var contentType string
	switch format {
	case ExportFormatCSV:
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case ExportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
		contentType = "application/pdf"
	default:
		return nil, fmt.Errorf("unsupported export format %s", format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("schedule_%s_%s.%s", view.Day, time.Now().UTC().Format("20060102_150405"), format)
	s.archive(filename, payload)

	return &ExportResult{Filename: filename, ContentType: contentType, Payload: payload}, nil
}

func (s *ExportService) archive(filename string, payload []byte) {
	if s.queue == nil {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "archive_export",
		Payload: archivePayload{Filename: filename, Data: payload},
	})
	if err != nil {
		s.logger.Warn("failed to enqueue export archive", zap.String("filename", filename), zap.Error(err))
	}
}

func (s *ExportService) handleArchive(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(archivePayload)
	if !ok {
		return fmt.Errorf("unexpected archive payload type %T", job.Payload)
	}
	if _, err := s.storage.Save(payload.Filename, payload.Data); err != nil {
		return err
	}
	s.logger.Debug("export archived", zap.String("filename", payload.Filename))
	return nil
}

func buildScheduleDataset(view *dto.ScheduleResponse) export.Dataset {
	headers := []string{"Room", "Request", "Activity", "Start", "End", "Size", "Priority"}
	rows := make([]map[string]string, 0)
	for _, room := range view.Rooms {
		for _, booking := range room.Bookings {
			rows = append(rows, map[string]string{
				"Room":     room.RoomID,
				"Request":  booking.RequestID,
				"Activity": booking.Activity,
				"Start":    formatHour(booking.Start),
				"End":      formatHour(booking.End),
				"Size":     fmt.Sprintf("%d", booking.Size),
				"Priority": fmt.Sprintf("%d", booking.Priority),
			})
		}
	}
	for _, id := range view.Unplaced {
		rows = append(rows, map[string]string{
			"Room":     "-",
			"Request":  id,
			"Activity": "UNPLACED",
			"Start":    "-",
			"End":      "-",
			"Size":     "-",
			"Priority": "-",
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// formatHour renders fractional hours as clock time, 10.5 -> "10:30".
func formatHour(value float64) string {
	hours := int(value)
	minutes := int((value-float64(hours))*60 + 0.5)
	if minutes == 60 {
		hours++
		minutes = 0
	}
	return fmt.Sprintf("%02d:%02d", hours, minutes)
}
