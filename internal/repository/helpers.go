package repository

import (
	"fmt"
	"strings"
)

// orderClause builds a deterministic ORDER BY: the requested column from the
// whitelist (or fallback), the requested direction, and an id tie-break so
// repeated identical queries return identical sequences.
func orderClause(columns map[string]string, sort, order, fallback string) string {
	column, ok := columns[strings.ToLower(strings.TrimSpace(sort))]
	if !ok {
		column = fallback
	}

	direction := "DESC"
	if strings.EqualFold(strings.TrimSpace(order), "asc") {
		direction = "ASC"
	}

	table := column
	if idx := strings.Index(column, "."); idx >= 0 {
		table = column[:idx+1] + "id"
	} else {
		table = "id"
	}

	if column == table {
		return fmt.Sprintf("%s %s", column, direction)
	}

	return fmt.Sprintf("%s %s, %s %s", column, direction, table, direction)
}
