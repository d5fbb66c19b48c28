package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/export"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/policy"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

const defaultActivityLimit = 100

// ActivityEntry captures the details required to persist an audit entry.
type ActivityEntry struct {
	UserID      uint
	ActionType  string
	Description string
	Metadata    map[string]interface{}
	IPAddress   string
}

// ActivityRecorder defines behaviour for recording audit entries. Recording is
// best-effort for callers: a completed mutation is never rolled back because
// its log append failed.
type ActivityRecorder interface {
	Record(ctx context.Context, entry ActivityEntry) error
}

// ActivityService exposes the filtered activity reporting surface.
type ActivityService interface {
	ActivityRecorder
	List(ctx context.Context, caller policy.Caller, req dto.ActivityListRequest) (dto.ActivityListResponse, error)
	UserSummary(ctx context.Context) ([]repository.UserActivitySummary, error)
	ExportCSV(ctx context.Context, caller policy.Caller, format string, req dto.ActivityListRequest, ip string) (export.File, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
	now    func() time.Time
}

// NewActivityService constructs the activity log service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
		now:    time.Now,
	}
}

func (s *activityService) Record(ctx context.Context, entry ActivityEntry) error {
	if strings.TrimSpace(entry.ActionType) == "" {
		return fmt.Errorf("action type is required")
	}
	if strings.TrimSpace(entry.Description) == "" {
		return fmt.Errorf("description is required")
	}

	model := models.ActivityLog{
		UserID:      entry.UserID,
		ActionType:  strings.ToUpper(strings.TrimSpace(entry.ActionType)),
		Description: entry.Description,
		Metadata:    sanitizeMetadata(entry.Metadata),
		IPAddress:   entry.IPAddress,
	}

	if err := s.repo.Append(ctx, &model); err != nil {
		s.logger.Error().Err(err).Str("action", model.ActionType).Msg("failed to persist activity log")
		return err
	}

	return nil
}

func (s *activityService) List(ctx context.Context, caller policy.Caller, req dto.ActivityListRequest) (dto.ActivityListResponse, error) {
	filter, err := s.buildFilter(caller, req)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	if filter.Limit <= 0 {
		filter.Limit = defaultActivityLimit
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	// Stats come from a second, unfiltered query over the same scope so the
	// dashboard cards stay stable while the table is filtered.
	stats, err := s.repo.Stats(ctx, filter.ScopeUserID, s.now())
	if err != nil {
		return dto.ActivityListResponse{}, err
	}

	return dto.ActivityListResponse{Logs: rows, Stats: stats, Count: len(rows)}, nil
}

func (s *activityService) UserSummary(ctx context.Context) ([]repository.UserActivitySummary, error) {
	return s.repo.UserSummary(ctx)
}

func (s *activityService) ExportCSV(ctx context.Context, caller policy.Caller, format string, req dto.ActivityListRequest, ip string) (export.File, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" {
		return export.File{}, ErrUnsupportedFormat
	}

	filter, err := s.buildFilter(caller, req)
	if err != nil {
		return export.File{}, err
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return export.File{}, err
	}

	file := export.ActivityLogs(rows)

	if err := s.Record(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionExportData,
		Description: fmt.Sprintf("Exported activity logs as %s", strings.ToUpper(format)),
		Metadata: map[string]interface{}{
			"format":      format,
			"filters":     filterMetadata(req),
			"recordCount": len(rows),
		},
		IPAddress: ip,
	}); err != nil {
		s.logger.Warn().Err(err).Msg("export completed but audit entry failed")
	}

	return file, nil
}

func (s *activityService) buildFilter(caller policy.Caller, req dto.ActivityListRequest) (repository.ActivityLogFilter, error) {
	filter := repository.ActivityLogFilter{
		ActionType: strings.TrimSpace(req.ActionType),
		Search:     strings.TrimSpace(req.Search),
		Limit:      req.Limit,
		Sort:       req.Sort,
		Order:      req.Order,
	}

	if !caller.IsAdmin() {
		id := caller.ID
		filter.ScopeUserID = &id
	}

	if req.ActorID > 0 {
		id := req.ActorID
		filter.ActorID = &id
	}

	start, err := parseDateFilter(req.StartDate, "startDate")
	if err != nil {
		return repository.ActivityLogFilter{}, err
	}
	filter.StartDate = start

	end, err := parseDateFilter(req.EndDate, "endDate")
	if err != nil {
		return repository.ActivityLogFilter{}, err
	}
	filter.EndDate = end

	return filter, nil
}

func parseDateFilter(value, name string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidDate, name)
	}

	return &parsed, nil
}

func filterMetadata(req dto.ActivityListRequest) map[string]interface{} {
	filters := map[string]interface{}{}
	if req.ActorID > 0 {
		filters["userId"] = req.ActorID
	}
	if req.ActionType != "" {
		filters["actionType"] = req.ActionType
	}
	if req.StartDate != "" {
		filters["startDate"] = req.StartDate
	}
	if req.EndDate != "" {
		filters["endDate"] = req.EndDate
	}
	if req.Search != "" {
		filters["search"] = req.Search
	}
	return filters
}

// sanitizeMetadata masks credential-bearing keys before persisting.
func sanitizeMetadata(metadata map[string]interface{}) datatypes.JSONMap {
	if metadata == nil {
		return datatypes.JSONMap{}
	}

	sanitized := datatypes.JSONMap{}
	for key, value := range metadata {
		lower := strings.ToLower(key)
		if strings.Contains(lower, "password") || strings.Contains(lower, "token") {
			sanitized[key] = "***"
			continue
		}
		sanitized[key] = value
	}
	return sanitized
}
