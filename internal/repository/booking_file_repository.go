package repository

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/coc-ops/roombook-api/internal/models"
)

// bookingRecord is the on-disk line format: one self-describing JSON record
// per request, one file per calendar day.
type bookingRecord struct {
	Order        int     `json:"order"`
	ID           string  `json:"id"`
	Activity     string  `json:"activity"`
	MainStart    float64 `json:"main_start"`
	MainEnd      float64 `json:"main_end"`
	AltStart     float64 `json:"alt_start"`
	AltEnd       float64 `json:"alt_end"`
	Priority     int     `json:"priority"`
	Size         int     `json:"size"`
	DurationMain float64 `json:"duration_main"`
	DurationAlt  float64 `json:"duration_alt"`
}

// BookingFileRepository persists a day's booking requests as JSONL files
// under the data directory.
type BookingFileRepository struct {
	dataDir string
	logger  *zap.Logger
}

// NewBookingFileRepository ensures the data directory exists.
func NewBookingFileRepository(dataDir string, logger *zap.Logger) (*BookingFileRepository, error) {
	if dataDir == "" {
		dataDir = "./data"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &BookingFileRepository{dataDir: dataDir, logger: logger}, nil
}

// Load reads the day's requests. A missing file means no prior requests.
// Malformed lines are skipped with a warning; loading continues.
func (r *BookingFileRepository) Load(day string) ([]models.Request, error) {
	file, err := os.Open(r.path(day))
	if err != nil {
		if os.IsNotExist(err) {
			return []models.Request{}, nil
		}
		return nil, fmt.Errorf("open booking file for %s: %w", day, err)
	}
	defer file.Close() //nolint:errcheck

	requests := make([]models.Request, 0)
	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record bookingRecord
		if err := json.Unmarshal(line, &record); err != nil {
			r.logger.Warn("skipping malformed booking record",
				zap.String("day", day),
				zap.Int("line", lineNo),
				zap.Error(err),
			)
			continue
		}
		request := record.toRequest()
		if err := request.Validate(models.DefaultOpenHour, models.DefaultCloseHour); err != nil {
			r.logger.Warn("skipping invalid booking record",
				zap.String("day", day),
				zap.Int("line", lineNo),
				zap.String("request_id", record.ID),
				zap.Error(err),
			)
			continue
		}
		requests = append(requests, request)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read booking file for %s: %w", day, err)
	}
	return requests, nil
}

// Save rewrites the day's file from the given request set, one record per
// line, UTF-8, order preserved.
func (r *BookingFileRepository) Save(day string, requests []models.Request) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	for _, req := range requests {
		if err := encoder.Encode(toRecord(req)); err != nil {
			return fmt.Errorf("encode booking record %s: %w", req.ID, err)
		}
	}

	path := r.path(day)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write booking file for %s: %w", day, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace booking file for %s: %w", day, err)
	}
	return nil
}

func (r *BookingFileRepository) path(day string) string {
	return filepath.Join(r.dataDir, fmt.Sprintf("bookings-%s.jsonl", day))
}

func (rec bookingRecord) toRequest() models.Request {
	return models.Request{
		ID:        rec.ID,
		Order:     rec.Order,
		Activity:  rec.Activity,
		Priority:  rec.Priority,
		Size:      rec.Size,
		Primary:   models.Window{Start: rec.MainStart, End: rec.MainEnd},
		Alternate: models.Window{Start: rec.AltStart, End: rec.AltEnd},
	}
}

func toRecord(req models.Request) bookingRecord {
	return bookingRecord{
		Order:        req.Order,
		ID:           req.ID,
		Activity:     req.Activity,
		MainStart:    req.Primary.Start,
		MainEnd:      req.Primary.End,
		AltStart:     req.Alternate.Start,
		AltEnd:       req.Alternate.End,
		Priority:     req.Priority,
		Size:         req.Size,
		DurationMain: req.Primary.Duration(),
		DurationAlt:  req.Alternate.Duration(),
	}
}
