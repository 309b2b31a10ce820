package helpers

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// NullableString trims s and returns nil when nothing is left,
// so optional columns store NULL rather than empty strings.
func NullableString(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// TextToPtr converts a scanned nullable text column to a string pointer
func TextToPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}
