package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
)

// LoopFilter narrows loop listings. CreatorID carries the caller scope for
// non-admin callers; the remaining fields are optional user filters.
type LoopFilter struct {
	CreatorID       *uint
	Status          string
	Type            string
	Search          string
	Sort            string
	Order           string
	Limit           int
	IncludeArchived bool
}

// LoopRow is a loop joined with its creator's display name.
type LoopRow struct {
	ID              uint       `json:"id"`
	Type            string     `json:"type"`
	PropertyAddress string     `json:"property_address"`
	ClientName      string     `json:"client_name"`
	SaleAmount      *float64   `json:"sale_amount"`
	Status          string     `json:"status"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	CreatorID       uint       `json:"creator_id"`
	Archived        bool       `json:"archived"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	CreatorName     string     `json:"creator_name"`
}

// LoopRepository persists transaction loops.
type LoopRepository interface {
	Create(ctx context.Context, loop *models.Loop) error
	FindByID(ctx context.Context, id uint) (models.Loop, error)
	FindRowByID(ctx context.Context, id uint) (LoopRow, error)
	List(ctx context.Context, filter LoopFilter) ([]LoopRow, error)
	Save(ctx context.Context, loop *models.Loop) error
	Delete(ctx context.Context, id uint) error
	Archive(ctx context.Context, id uint) error
	Closing(ctx context.Context, creatorID *uint, now time.Time, horizon time.Duration) ([]LoopRow, error)
	StatusCounts(ctx context.Context, creatorID *uint) (map[string]int64, error)
}

type loopRepository struct {
	db *gorm.DB
}

// NewLoopRepository constructs the loop repository.
func NewLoopRepository(db *gorm.DB) LoopRepository {
	return &loopRepository{db: db}
}

func (r *loopRepository) Create(ctx context.Context, loop *models.Loop) error {
	return r.db.WithContext(ctx).Create(loop).Error
}

func (r *loopRepository) FindByID(ctx context.Context, id uint) (models.Loop, error) {
	var loop models.Loop
	if err := r.db.WithContext(ctx).First(&loop, id).Error; err != nil {
		return models.Loop{}, err
	}
	return loop, nil
}

func (r *loopRepository) FindRowByID(ctx context.Context, id uint) (LoopRow, error) {
	var row LoopRow
	err := r.joined(ctx).Where("loops.id = ?", id).Scan(&row).Error
	if err != nil {
		return LoopRow{}, err
	}
	if row.ID == 0 {
		return LoopRow{}, gorm.ErrRecordNotFound
	}
	return row, nil
}

func (r *loopRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("loops").
		Select("loops.*, users.name AS creator_name").
		Joins("LEFT JOIN users ON users.id = loops.creator_id")
}

var loopSortColumns = map[string]string{
	"id":               "loops.id",
	"created_at":       "loops.created_at",
	"updated_at":       "loops.updated_at",
	"status":           "loops.status",
	"type":             "loops.type",
	"sale_amount":      "loops.sale_amount",
	"end_date":         "loops.end_date",
	"property_address": "loops.property_address",
}

func (r *loopRepository) List(ctx context.Context, filter LoopFilter) ([]LoopRow, error) {
	query := r.joined(ctx)

	if !filter.IncludeArchived {
		query = query.Where("loops.archived = ?", false)
	}

	if filter.CreatorID != nil {
		query = query.Where("loops.creator_id = ?", *filter.CreatorID)
	}

	if filter.Status != "" {
		query = query.Where("loops.status = ?", filter.Status)
	}

	if filter.Type != "" {
		query = query.Where("loops.type = ?", filter.Type)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(loops.property_address) LIKE ? OR LOWER(loops.client_name) LIKE ?", pattern, pattern)
	}

	query = query.Order(orderClause(loopSortColumns, filter.Sort, filter.Order, "loops.created_at"))

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var rows []LoopRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *loopRepository) Save(ctx context.Context, loop *models.Loop) error {
	return r.db.WithContext(ctx).Save(loop).Error
}

func (r *loopRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Loop{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *loopRepository) Archive(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.Loop{}).
		Where("id = ?", id).
		Update("archived", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *loopRepository) Closing(ctx context.Context, creatorID *uint, now time.Time, horizon time.Duration) ([]LoopRow, error) {
	query := r.joined(ctx).Where("loops.archived = ?", false)

	if creatorID != nil {
		query = query.Where("loops.creator_id = ?", *creatorID)
	}

	deadline := now.Add(horizon)
	query = query.Where(
		"loops.status = ? OR (loops.end_date IS NOT NULL AND loops.end_date >= ? AND loops.end_date <= ? AND loops.status NOT IN (?, ?))",
		models.LoopStatusClosing, now, deadline, models.LoopStatusClosed, models.LoopStatusCancelled,
	)

	var rows []LoopRow
	if err := query.Order("loops.end_date ASC, loops.id ASC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

func (r *loopRepository) StatusCounts(ctx context.Context, creatorID *uint) (map[string]int64, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Loop{}).
		Select("status, COUNT(*) AS count").
		Where("archived = ?", false)

	if creatorID != nil {
		query = query.Where("creator_id = ?", *creatorID)
	}

	var rows []struct {
		Status string
		Count  int64
	}
	if err := query.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
