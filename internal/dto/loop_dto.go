package dto

import (
	"time"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// LoopCreateRequest carries a new transaction loop. Dates use calendar form.
type LoopCreateRequest struct {
	Type            string   `json:"type" validate:"required,oneof=purchase listing"`
	PropertyAddress string   `json:"property_address" validate:"required,min=3"`
	ClientName      string   `json:"client_name" validate:"omitempty,max=255"`
	SaleAmount      *float64 `json:"sale_amount" validate:"omitempty,gte=0"`
	Status          string   `json:"status" validate:"omitempty,oneof=active closing closed cancelled"`
	StartDate       string   `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// LoopUpdateRequest patches an existing loop; nil fields are untouched.
type LoopUpdateRequest struct {
	Type            *string  `json:"type" validate:"omitempty,oneof=purchase listing"`
	PropertyAddress *string  `json:"property_address" validate:"omitempty,min=3"`
	ClientName      *string  `json:"client_name" validate:"omitempty,max=255"`
	SaleAmount      *float64 `json:"sale_amount" validate:"omitempty,gte=0"`
	Status          *string  `json:"status" validate:"omitempty,oneof=active closing closed cancelled"`
	StartDate       *string  `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate         *string  `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
}

// LoopListRequest carries the optional loop listing filters.
type LoopListRequest struct {
	Status          string
	Type            string
	Search          string
	Sort            string
	Order           string
	Limit           int
	IncludeArchived bool
}

// LoopResponse serializes a loop row for clients.
type LoopResponse struct {
	ID              uint       `json:"id"`
	Type            string     `json:"type"`
	PropertyAddress string     `json:"property_address"`
	ClientName      string     `json:"client_name"`
	SaleAmount      *float64   `json:"sale_amount"`
	Status          string     `json:"status"`
	StartDate       *time.Time `json:"start_date"`
	EndDate         *time.Time `json:"end_date"`
	CreatorID       uint       `json:"creator_id"`
	CreatorName     string     `json:"creator_name"`
	Archived        bool       `json:"archived"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// NewLoopResponse converts a joined loop row into a DTO.
func NewLoopResponse(row repository.LoopRow) LoopResponse {
	return LoopResponse{
		ID:              row.ID,
		Type:            row.Type,
		PropertyAddress: row.PropertyAddress,
		ClientName:      row.ClientName,
		SaleAmount:      row.SaleAmount,
		Status:          row.Status,
		StartDate:       row.StartDate,
		EndDate:         row.EndDate,
		CreatorID:       row.CreatorID,
		CreatorName:     row.CreatorName,
		Archived:        row.Archived,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
}

// LoopListResponse wraps an ordered loop listing.
type LoopListResponse struct {
	Loops []LoopResponse `json:"loops"`
	Count int            `json:"count"`
}

// LoopStatsResponse aggregates the dashboard counters.
type LoopStatsResponse struct {
	Active      int64 `json:"active"`
	Closing     int64 `json:"closing"`
	Closed      int64 `json:"closed"`
	Cancelled   int64 `json:"cancelled"`
	Total       int64 `json:"total"`
	ClosingSoon int64 `json:"closing_soon"`
}
