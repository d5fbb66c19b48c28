package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
)

// ActivityLogFilter narrows activity log queries. Unset fields are absent
// predicates, not wildcards.
type ActivityLogFilter struct {
	ScopeUserID *uint // caller scope restriction, applied before any filter
	ActorID     *uint
	ActionType  string
	StartDate   *time.Time // inclusive calendar date
	EndDate     *time.Time // inclusive calendar date
	Search      string
	Limit       int
	Sort        string
	Order       string
}

// ActivityLogRow is an activity entry joined with its actor's identity for
// listings and exports. Actor columns are empty when the user no longer exists.
type ActivityLogRow struct {
	ID          uint              `json:"id"`
	UserID      uint              `json:"user_id"`
	ActionType  string            `json:"action_type"`
	Description string            `json:"description"`
	Metadata    datatypes.JSONMap `json:"metadata"`
	IPAddress   string            `json:"ip_address"`
	CreatedAt   time.Time         `json:"created_at"`
	UserName    string            `json:"user_name"`
	UserEmail   string            `json:"user_email"`
}

// ActivityStats aggregates the scope-restricted, unfiltered activity set.
type ActivityStats struct {
	Today           int64 `json:"today"`
	ThisWeek        int64 `json:"this_week"`
	TotalLogins     int64 `json:"total_logins"`
	TotalActivities int64 `json:"total_activities"`
}

// UserActivitySummary aggregates activity per user for the admin overview.
type UserActivitySummary struct {
	UserID       uint       `json:"user_id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	TotalActions int64      `json:"total_actions"`
	LoginCount   int64      `json:"login_count"`
	LastActivity *time.Time `json:"last_activity"`
}

// ActivityLogRepository persists and queries the append-only audit trail.
type ActivityLogRepository interface {
	Append(ctx context.Context, entry *models.ActivityLog) error
	List(ctx context.Context, filter ActivityLogFilter) ([]ActivityLogRow, error)
	Stats(ctx context.Context, scopeUserID *uint, now time.Time) (ActivityStats, error)
	UserSummary(ctx context.Context) ([]UserActivitySummary, error)
}

type activityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository constructs the activity log repository.
func NewActivityLogRepository(db *gorm.DB) ActivityLogRepository {
	return &activityLogRepository{db: db}
}

func (r *activityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

var activitySortColumns = map[string]string{
	"id":          "activity_logs.id",
	"created_at":  "activity_logs.created_at",
	"action_type": "activity_logs.action_type",
	"user_id":     "activity_logs.user_id",
}

func (r *activityLogRepository) List(ctx context.Context, filter ActivityLogFilter) ([]ActivityLogRow, error) {
	query := r.db.WithContext(ctx).
		Table("activity_logs").
		Select("activity_logs.*, users.name AS user_name, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = activity_logs.user_id")

	if filter.ScopeUserID != nil {
		query = query.Where("activity_logs.user_id = ?", *filter.ScopeUserID)
	}

	if filter.ActorID != nil {
		query = query.Where("activity_logs.user_id = ?", *filter.ActorID)
	}

	if filter.ActionType != "" {
		query = query.Where("activity_logs.action_type = ?", filter.ActionType)
	}

	if filter.StartDate != nil {
		query = query.Where("activity_logs.created_at >= ?", *filter.StartDate)
	}

	if filter.EndDate != nil {
		// Inclusive bound: anything before the following midnight matches.
		query = query.Where("activity_logs.created_at < ?", filter.EndDate.AddDate(0, 0, 1))
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(activity_logs.description) LIKE ?", pattern)
	}

	query = query.Order(orderClause(activitySortColumns, filter.Sort, filter.Order, "activity_logs.created_at"))

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []ActivityLogRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *activityLogRepository) Stats(ctx context.Context, scopeUserID *uint, now time.Time) (ActivityStats, error) {
	scoped := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.ActivityLog{})
		if scopeUserID != nil {
			q = q.Where("user_id = ?", *scopeUserID)
		}
		return q
	}

	var stats ActivityStats

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := scoped().Where("created_at >= ?", midnight).Count(&stats.Today).Error; err != nil {
		return ActivityStats{}, err
	}

	if err := scoped().Where("created_at >= ?", now.AddDate(0, 0, -7)).Count(&stats.ThisWeek).Error; err != nil {
		return ActivityStats{}, err
	}

	if err := scoped().Where("action_type = ?", models.ActionLogin).Count(&stats.TotalLogins).Error; err != nil {
		return ActivityStats{}, err
	}

	if err := scoped().Count(&stats.TotalActivities).Error; err != nil {
		return ActivityStats{}, err
	}

	return stats, nil
}

func (r *activityLogRepository) UserSummary(ctx context.Context) ([]UserActivitySummary, error) {
	var summaries []UserActivitySummary
	err := r.db.WithContext(ctx).
		Table("users").
		Select(`users.id AS user_id, users.name, users.email,
			COUNT(activity_logs.id) AS total_actions,
			COALESCE(SUM(CASE WHEN activity_logs.action_type = ? THEN 1 ELSE 0 END), 0) AS login_count,
			MAX(activity_logs.created_at) AS last_activity`, models.ActionLogin).
		Joins("LEFT JOIN activity_logs ON activity_logs.user_id = users.id").
		Group("users.id, users.name, users.email").
		Order("users.id ASC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}

	return summaries, nil
}
