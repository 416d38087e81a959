package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"crewroster-service/internal/domain/entity"
	domainRepo "crewroster-service/internal/domain/repository"
	"crewroster-service/pkg/logger"

	"github.com/google/uuid"
)

// ScheduleAPIRepository talks to the PDF parsing service. It uploads a
// schedule file as multipart/form-data and decodes the date-keyed JSON
// response into roster days.
type ScheduleAPIRepository struct {
	logger   logger.Logger
	endpoint string
	client   *http.Client
}

// NewScheduleAPIRepository creates an import client for the given parser
// endpoint.
func NewScheduleAPIRepository(endpoint string, timeout time.Duration, logger logger.Logger) domainRepo.ScheduleRepository {
	return &ScheduleAPIRepository{
		logger:   logger,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// ImportSchedule uploads fileBytes as a single "file" part and returns the
// decoded roster days sorted ascending by date.
func (r *ScheduleAPIRepository) ImportSchedule(ctx context.Context, fileBytes []byte, fileName string) ([]entity.RosterDay, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.SetBoundary(uuid.NewString()); err != nil {
		return nil, fmt.Errorf("failed to set multipart boundary: %w", err)
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, fileName))
	header.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := part.Write(fileBytes); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	r.logger.Info("Uploading schedule to parser service",
		"fileName", fileName,
		"fileSize", len(fileBytes))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach parser service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read parser response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &entity.ServerError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
		}
	}

	days, err := decodeScheduleResponse(respBody)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Schedule imported", "fileName", fileName, "days", len(days))
	return days, nil
}

// decodeScheduleResponse turns the date-keyed response object into a sorted
// day list. Each malformed entry is reported with its date and, where the
// JSON decoder can tell, the offending field.
func decodeScheduleResponse(data []byte) ([]entity.RosterDay, error) {
	var byDate map[string]json.RawMessage
	if err := json.Unmarshal(data, &byDate); err != nil {
		return nil, decodingError("", "", err)
	}

	days := make([]entity.RosterDay, 0, len(byDate))
	for date, raw := range byDate {
		var day entity.RosterDayRaw
		if err := json.Unmarshal(raw, &day); err != nil {
			return nil, decodingError("", date, err)
		}
		if day.Crew == nil {
			return nil, &entity.DecodingError{
				Field: "crew",
				Date:  date,
				Err:   errors.New("missing required field"),
			}
		}
		days = append(days, day.ToRosterDay(date))
	}

	entity.SortRosterDays(days)
	return days, nil
}

func decodingError(field, date string, err error) *entity.DecodingError {
	var typeErr *json.UnmarshalTypeError
	if field == "" && errors.As(err, &typeErr) {
		field = typeErr.Field
	}
	return &entity.DecodingError{Field: field, Date: date, Err: err}
}
