package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/dto"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/export"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/policy"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// closingHorizon is how far ahead a loop's end date may be for the loop to
// count as "closing soon".
const closingHorizon = 30 * 24 * time.Hour

// LoopNotifier fans out loop lifecycle events to interested users.
type LoopNotifier interface {
	LoopCreated(ctx context.Context, actorID uint, actorName string, loop models.Loop)
	LoopUpdated(ctx context.Context, actorID uint, actorName string, loop models.Loop)
}

// LoopService implements the transaction loop operations.
type LoopService interface {
	List(ctx context.Context, caller policy.Caller, req dto.LoopListRequest) (dto.LoopListResponse, error)
	Get(ctx context.Context, caller policy.Caller, id uint) (dto.LoopResponse, error)
	Create(ctx context.Context, caller policy.Caller, actorName string, req dto.LoopCreateRequest, ip string) (dto.LoopResponse, error)
	Update(ctx context.Context, caller policy.Caller, actorName string, id uint, req dto.LoopUpdateRequest, ip string) (dto.LoopResponse, error)
	Delete(ctx context.Context, caller policy.Caller, actorName string, id uint, ip string) error
	Archive(ctx context.Context, caller policy.Caller, actorName string, id uint, ip string) error
	Closing(ctx context.Context, caller policy.Caller) (dto.LoopListResponse, error)
	Stats(ctx context.Context, caller policy.Caller) (dto.LoopStatsResponse, error)
	ExportCSV(ctx context.Context, caller policy.Caller, req dto.LoopListRequest, ip string) (export.File, error)
	ExportPDF(ctx context.Context, caller policy.Caller, id uint, ip string) (export.File, error)
}

type loopService struct {
	repo      repository.LoopRepository
	activity  ActivityRecorder
	notifier  LoopNotifier
	validator *validator.Validate
	cache     *redis.Client
	cacheTTL  time.Duration
	logger    zerolog.Logger
	now       func() time.Time
}

// NewLoopService constructs the loop service. The notifier and cache may be
// nil; both degrade to no-ops.
func NewLoopService(repo repository.LoopRepository, activity ActivityRecorder, notifier LoopNotifier, validate *validator.Validate, cache *redis.Client, cacheTTL time.Duration, logger zerolog.Logger) LoopService {
	return &loopService{
		repo:      repo,
		activity:  activity,
		notifier:  notifier,
		validator: validate,
		cache:     cache,
		cacheTTL:  cacheTTL,
		logger:    logger.With().Str("component", "loop_service").Logger(),
		now:       time.Now,
	}
}

func (s *loopService) List(ctx context.Context, caller policy.Caller, req dto.LoopListRequest) (dto.LoopListResponse, error) {
	filter := repository.LoopFilter{
		CreatorID:       policy.LoopScope(caller),
		Status:          strings.TrimSpace(req.Status),
		Type:            strings.TrimSpace(req.Type),
		Search:          req.Search,
		Sort:            req.Sort,
		Order:           req.Order,
		Limit:           req.Limit,
		IncludeArchived: req.IncludeArchived,
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.LoopListResponse{}, err
	}

	return newLoopListResponse(rows), nil
}

func (s *loopService) Get(ctx context.Context, caller policy.Caller, id uint) (dto.LoopResponse, error) {
	row, err := s.findRow(ctx, id)
	if err != nil {
		return dto.LoopResponse{}, err
	}

	if err := policy.CanViewLoop(caller, models.Loop{ID: row.ID, CreatorID: row.CreatorID}); err != nil {
		return dto.LoopResponse{}, err
	}

	return dto.NewLoopResponse(row), nil
}

func (s *loopService) Create(ctx context.Context, caller policy.Caller, actorName string, req dto.LoopCreateRequest, ip string) (dto.LoopResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoopResponse{}, err
	}

	status := req.Status
	if status == "" {
		status = models.LoopStatusActive
	}

	loop := models.Loop{
		Type:            req.Type,
		PropertyAddress: req.PropertyAddress,
		ClientName:      req.ClientName,
		SaleAmount:      req.SaleAmount,
		Status:          status,
		StartDate:       parseOptionalDate(req.StartDate),
		EndDate:         parseOptionalDate(req.EndDate),
		CreatorID:       caller.ID,
	}

	if err := s.repo.Create(ctx, &loop); err != nil {
		return dto.LoopResponse{}, err
	}

	s.invalidateStats(ctx)

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionLoopCreated,
		Description: fmt.Sprintf("Created %s loop at %s", loop.Type, loop.PropertyAddress),
		Metadata: map[string]interface{}{
			"loopId":           loop.ID,
			"type":             loop.Type,
			"property_address": loop.PropertyAddress,
		},
		IPAddress: ip,
	})

	if s.notifier != nil {
		s.notifier.LoopCreated(ctx, caller.ID, actorName, loop)
	}

	row := repository.LoopRow{
		ID: loop.ID, Type: loop.Type, PropertyAddress: loop.PropertyAddress,
		ClientName: loop.ClientName, SaleAmount: loop.SaleAmount, Status: loop.Status,
		StartDate: loop.StartDate, EndDate: loop.EndDate, CreatorID: loop.CreatorID,
		CreatedAt: loop.CreatedAt, UpdatedAt: loop.UpdatedAt, CreatorName: actorName,
	}
	return dto.NewLoopResponse(row), nil
}

func (s *loopService) Update(ctx context.Context, caller policy.Caller, actorName string, id uint, req dto.LoopUpdateRequest, ip string) (dto.LoopResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.LoopResponse{}, err
	}

	loop, err := s.find(ctx, id)
	if err != nil {
		return dto.LoopResponse{}, err
	}

	if err := policy.CanUpdateLoop(caller, loop); err != nil {
		return dto.LoopResponse{}, err
	}

	changes := applyLoopPatch(&loop, req)
	if len(changes) > 0 {
		if err := s.repo.Save(ctx, &loop); err != nil {
			return dto.LoopResponse{}, err
		}
		s.invalidateStats(ctx)
	}

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionLoopUpdated,
		Description: fmt.Sprintf("Updated loop at %s", loop.PropertyAddress),
		Metadata: map[string]interface{}{
			"loopId":  loop.ID,
			"changes": changes,
		},
		IPAddress: ip,
	})

	if s.notifier != nil && len(changes) > 0 {
		s.notifier.LoopUpdated(ctx, caller.ID, actorName, loop)
	}

	row, err := s.findRow(ctx, loop.ID)
	if err != nil {
		return dto.LoopResponse{}, err
	}
	return dto.NewLoopResponse(row), nil
}

func (s *loopService) Delete(ctx context.Context, caller policy.Caller, actorName string, id uint, ip string) error {
	loop, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanDeleteLoop(caller); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLoopNotFound
		}
		return err
	}

	s.invalidateStats(ctx)

	// The audit entry keeps a snapshot of the deleted record so the trail
	// outlives its subject.
	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionLoopDeleted,
		Description: fmt.Sprintf("Deleted loop at %s", loop.PropertyAddress),
		Metadata: map[string]interface{}{
			"loopId":    loop.ID,
			"deleter":   actorName,
			"loop_data": loopSnapshot(loop),
		},
		IPAddress: ip,
	})

	return nil
}

func (s *loopService) Archive(ctx context.Context, caller policy.Caller, actorName string, id uint, ip string) error {
	loop, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err := policy.CanArchiveLoop(caller); err != nil {
		return err
	}

	if err := s.repo.Archive(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrLoopNotFound
		}
		return err
	}

	s.invalidateStats(ctx)

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionLoopArchived,
		Description: fmt.Sprintf("Archived loop at %s", loop.PropertyAddress),
		Metadata: map[string]interface{}{
			"loopId":   loop.ID,
			"archiver": actorName,
		},
		IPAddress: ip,
	})

	return nil
}

func (s *loopService) Closing(ctx context.Context, caller policy.Caller) (dto.LoopListResponse, error) {
	rows, err := s.repo.Closing(ctx, policy.LoopScope(caller), s.now(), closingHorizon)
	if err != nil {
		return dto.LoopListResponse{}, err
	}

	return newLoopListResponse(rows), nil
}

func (s *loopService) Stats(ctx context.Context, caller policy.Caller) (dto.LoopStatsResponse, error) {
	scope := policy.LoopScope(caller)
	cacheKey := "stats:loops:all"
	if scope != nil {
		cacheKey = fmt.Sprintf("stats:loops:user:%d", *scope)
	}

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var response dto.LoopStatsResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Str("key", cacheKey).Msg("loop stats cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read loop stats cache")
		}
	}

	counts, err := s.repo.StatusCounts(ctx, scope)
	if err != nil {
		return dto.LoopStatsResponse{}, err
	}

	closing, err := s.repo.Closing(ctx, scope, s.now(), closingHorizon)
	if err != nil {
		return dto.LoopStatsResponse{}, err
	}

	response := dto.LoopStatsResponse{
		Active:      counts[models.LoopStatusActive],
		Closing:     counts[models.LoopStatusClosing],
		Closed:      counts[models.LoopStatusClosed],
		Cancelled:   counts[models.LoopStatusCancelled],
		ClosingSoon: int64(len(closing)),
	}
	response.Total = response.Active + response.Closing + response.Closed + response.Cancelled

	if s.cache != nil {
		if payload, marshalErr := json.Marshal(response); marshalErr == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to write loop stats cache")
			}
		}
	}

	return response, nil
}

func (s *loopService) ExportCSV(ctx context.Context, caller policy.Caller, req dto.LoopListRequest, ip string) (export.File, error) {
	filter := repository.LoopFilter{
		CreatorID: policy.LoopScope(caller),
		Status:    strings.TrimSpace(req.Status),
		Type:      strings.TrimSpace(req.Type),
		Search:    req.Search,
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return export.File{}, err
	}

	file := export.Loops(rows)

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionExportData,
		Description: "Exported loops as CSV",
		Metadata: map[string]interface{}{
			"format":      "csv",
			"filters":     loopFilterMetadata(req),
			"recordCount": len(rows),
		},
		IPAddress: ip,
	})

	return file, nil
}

func (s *loopService) ExportPDF(ctx context.Context, caller policy.Caller, id uint, ip string) (export.File, error) {
	row, err := s.findRow(ctx, id)
	if err != nil {
		return export.File{}, err
	}

	if err := policy.CanViewLoop(caller, models.Loop{ID: row.ID, CreatorID: row.CreatorID}); err != nil {
		return export.File{}, err
	}

	file, err := export.LoopPDF(row, s.now())
	if err != nil {
		return export.File{}, err
	}

	s.recordBestEffort(ctx, ActivityEntry{
		UserID:      caller.ID,
		ActionType:  models.ActionExportData,
		Description: fmt.Sprintf("Exported loop %d as PDF", row.ID),
		Metadata: map[string]interface{}{
			"format":      "pdf",
			"loopId":      row.ID,
			"recordCount": 1,
		},
		IPAddress: ip,
	})

	return file, nil
}

func (s *loopService) find(ctx context.Context, id uint) (models.Loop, error) {
	loop, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Loop{}, ErrLoopNotFound
		}
		return models.Loop{}, err
	}
	return loop, nil
}

func (s *loopService) findRow(ctx context.Context, id uint) (repository.LoopRow, error) {
	row, err := s.repo.FindRowByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return repository.LoopRow{}, ErrLoopNotFound
		}
		return repository.LoopRow{}, err
	}
	return row, nil
}

func (s *loopService) invalidateStats(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "stats:loops:*", 50).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to invalidate loop stats cache")
		}
	}
	if err := iter.Err(); err != nil {
		s.logger.Warn().Err(err).Msg("loop stats cache scan failed")
	}
}

func (s *loopService) recordBestEffort(ctx context.Context, entry ActivityEntry) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, entry); err != nil {
		s.logger.Warn().Err(err).Str("action", entry.ActionType).Msg("activity logging failed")
	}
}

func newLoopListResponse(rows []repository.LoopRow) dto.LoopListResponse {
	loops := make([]dto.LoopResponse, 0, len(rows))
	for _, row := range rows {
		loops = append(loops, dto.NewLoopResponse(row))
	}
	return dto.LoopListResponse{Loops: loops, Count: len(loops)}
}

// applyLoopPatch copies the non-nil request fields onto the loop and returns
// the change set for the audit entry.
func applyLoopPatch(loop *models.Loop, req dto.LoopUpdateRequest) map[string]interface{} {
	changes := map[string]interface{}{}

	if req.Type != nil && *req.Type != loop.Type {
		loop.Type = *req.Type
		changes["type"] = *req.Type
	}
	if req.PropertyAddress != nil && *req.PropertyAddress != loop.PropertyAddress {
		loop.PropertyAddress = *req.PropertyAddress
		changes["property_address"] = *req.PropertyAddress
	}
	if req.ClientName != nil && *req.ClientName != loop.ClientName {
		loop.ClientName = *req.ClientName
		changes["client_name"] = *req.ClientName
	}
	if req.SaleAmount != nil {
		if loop.SaleAmount == nil || *loop.SaleAmount != *req.SaleAmount {
			loop.SaleAmount = req.SaleAmount
			changes["sale_amount"] = *req.SaleAmount
		}
	}
	if req.Status != nil && *req.Status != loop.Status {
		loop.Status = *req.Status
		changes["status"] = *req.Status
	}
	if req.StartDate != nil {
		loop.StartDate = parseOptionalDate(*req.StartDate)
		changes["start_date"] = *req.StartDate
	}
	if req.EndDate != nil {
		loop.EndDate = parseOptionalDate(*req.EndDate)
		changes["end_date"] = *req.EndDate
	}

	return changes
}

// parseOptionalDate converts a validated YYYY-MM-DD string; empty means unset.
func parseOptionalDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	return &parsed
}

func loopSnapshot(loop models.Loop) map[string]interface{} {
	snapshot := map[string]interface{}{
		"id":               loop.ID,
		"type":             loop.Type,
		"property_address": loop.PropertyAddress,
		"client_name":      loop.ClientName,
		"status":           loop.Status,
		"creator_id":       loop.CreatorID,
		"archived":         loop.Archived,
		"created_at":       loop.CreatedAt,
	}
	if loop.SaleAmount != nil {
		snapshot["sale_amount"] = *loop.SaleAmount
	}
	if loop.StartDate != nil {
		snapshot["start_date"] = loop.StartDate.Format("2006-01-02")
	}
	if loop.EndDate != nil {
		snapshot["end_date"] = loop.EndDate.Format("2006-01-02")
	}
	return snapshot
}

func loopFilterMetadata(req dto.LoopListRequest) map[string]interface{} {
	filters := map[string]interface{}{}
	if req.Status != "" {
		filters["status"] = req.Status
	}
	if req.Type != "" {
		filters["type"] = req.Type
	}
	if req.Search != "" {
		filters["search"] = req.Search
	}
	return filters
}
