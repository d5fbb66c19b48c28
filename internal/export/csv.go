// Package export serializes result sets into downloadable payloads. Field
// order and file names are part of the external contract and must not change.
package export

import (
	"strconv"
	"strings"
	"time"

	"github.com/Coldz-21/real-estate-transaction-manager/internal/models"
	"github.com/Coldz-21/real-estate-transaction-manager/internal/repository"
)

// File is a rendered export payload ready to be sent as a download.
type File struct {
	Name        string
	ContentType string
	Bytes       []byte
}

const (
	csvContentType = "text/csv"
	timeLayout     = "2006-01-02 15:04:05"

	placeholderNA      = "N/A"
	placeholderUnknown = "Unknown"
	placeholderZero    = "0"
)

// ActivityLogs renders the activity log export. Header and column order are
// fixed: ID, User Name, User Email, Action Type, Description, IP Address,
// Date/Time.
func ActivityLogs(rows []repository.ActivityLogRow) File {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"ID", "User Name", "User Email", "Action Type", "Description", "IP Address", "Date/Time"})

	for _, row := range rows {
		records = append(records, []string{
			strconv.FormatUint(uint64(row.ID), 10),
			textOr(row.UserName, placeholderUnknown),
			textOr(row.UserEmail, placeholderUnknown),
			row.ActionType,
			row.Description,
			textOr(row.IPAddress, placeholderNA),
			row.CreatedAt.Format(timeLayout),
		})
	}

	return File{Name: "activity-logs.csv", ContentType: csvContentType, Bytes: renderCSV(records)}
}

// Users renders the user list export: ID, Name, Email, Role, Created Date,
// Last Updated.
func Users(users []models.User) File {
	records := make([][]string, 0, len(users)+1)
	records = append(records, []string{"ID", "Name", "Email", "Role", "Created Date", "Last Updated"})

	for _, user := range users {
		records = append(records, []string{
			strconv.FormatUint(uint64(user.ID), 10),
			user.Name,
			user.Email,
			user.Role,
			user.CreatedAt.Format(timeLayout),
			user.UpdatedAt.Format(timeLayout),
		})
	}

	return File{Name: "user-list.csv", ContentType: csvContentType, Bytes: renderCSV(records)}
}

// Loops renders the loop listing export: ID, Type, Property Address, Client
// Name, Status, Sale Amount, Start Date, End Date, Creator, Created Date.
func Loops(rows []repository.LoopRow) File {
	records := make([][]string, 0, len(rows)+1)
	records = append(records, []string{"ID", "Type", "Property Address", "Client Name", "Status", "Sale Amount", "Start Date", "End Date", "Creator", "Created Date"})

	for _, row := range rows {
		records = append(records, []string{
			strconv.FormatUint(uint64(row.ID), 10),
			row.Type,
			row.PropertyAddress,
			textOr(row.ClientName, placeholderNA),
			row.Status,
			amountOrZero(row.SaleAmount),
			dateOrNA(row.StartDate),
			dateOrNA(row.EndDate),
			textOr(row.CreatorName, placeholderUnknown),
			row.CreatedAt.Format(timeLayout),
		})
	}

	return File{Name: "loops.csv", ContentType: csvContentType, Bytes: renderCSV(records)}
}

// renderCSV quotes every field, doubling embedded quote characters so the
// output stays re-parseable.
func renderCSV(records [][]string) []byte {
	var b strings.Builder
	for i, record := range records {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, field := range record {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(field, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return []byte(b.String())
}

func textOr(value, placeholder string) string {
	if strings.TrimSpace(value) == "" {
		return placeholder
	}
	return value
}

func dateOrNA(value *time.Time) string {
	if value == nil {
		return placeholderNA
	}
	return value.Format("2006-01-02")
}

func amountOrZero(value *float64) string {
	if value == nil {
		return placeholderZero
	}
	return strconv.FormatFloat(*value, 'f', 2, 64)
}
