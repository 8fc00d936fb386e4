/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal report model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Response: Complex response wrappers

SEE ALSO:
  - handlers.go: Uses these types
  - store/sqlite: The archive rows these wrap
*/
package api

import (
	"time"

	"github.com/warp/loyalty-reporter/generic"
	"github.com/warp/loyalty-reporter/store/sqlite"
)

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// ReporterDTO describes one registered reporter.
type ReporterDTO struct {
	Slug  string `json:"slug"`
	Title string `json:"title"`
}

// ReportDTO is one archived report run. Document is omitted from list
// responses.
type ReportDTO struct {
	ID          int64     `json:"id"`
	Reporter    string    `json:"reporter"`
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generated_at"`
	Stats       StatsDTO  `json:"stats"`
	Document    string    `json:"document,omitempty"`
}

// StatsDTO mirrors the run counters for API consumers.
type StatsDTO struct {
	Entities          int  `json:"entities"`
	Enriched          int  `json:"enriched"`
	ListingOnly       int  `json:"listing_only"`
	Pages             int  `json:"pages"`
	DuplicatesDropped int  `json:"duplicates_dropped"`
	Truncated         bool `json:"truncated"`
	Fallback          bool `json:"fallback"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toStatsDTO(stats generic.RunStats) StatsDTO {
	return StatsDTO{
		Entities:          stats.Entities,
		Enriched:          stats.Enriched,
		ListingOnly:       stats.ListingOnly,
		Pages:             stats.Pages,
		DuplicatesDropped: stats.DuplicatesDropped,
		Truncated:         stats.Truncated,
		Fallback:          stats.Fallback,
	}
}

func toReportDTO(report *sqlite.ArchivedReport, withDocument bool) ReportDTO {
	dto := ReportDTO{
		ID:          report.ID,
		Reporter:    report.Reporter,
		Title:       report.Title,
		GeneratedAt: report.GeneratedAt,
		Stats:       toStatsDTO(report.Stats),
	}
	if withDocument {
		dto.Document = report.Document
	}
	return dto
}
