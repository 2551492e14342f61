package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/efidev/issuetracker/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestIssuesCSV(t *testing.T) {
	created := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	issues := []model.Issue{
		{
			ID:          1,
			Title:       "VPN down",
			Description: "VPN is unreachable",
			Company:     strPtr("Acme"),
			Department:  strPtr("IT"),
			Category:    "Network",
			Priority:    "High",
			Status:      model.StatusNotStarted,
			CreatedBy:   "admin",
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:          2,
			Title:       "Printer, with commas \"and quotes\"",
			Description: "multi\nline",
			Category:    "Hardware",
			Priority:    "Low",
			Status:      model.StatusResolved,
			CreatedBy:   "hod1",
			CreatedAt:   created,
			UpdatedAt:   created,
		},
	}

	data, err := IssuesCSV(issues)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{
		"1", "VPN down", "VPN is unreachable", "Acme", "IT", "",
		"Network", "High", "Not Started", "admin",
		"2026-02-01 09:30:00", "2026-02-01 09:30:00",
	}, records[1])
	assert.Equal(t, "Printer, with commas \"and quotes\"", records[2][1])
	assert.Equal(t, "multi\nline", records[2][2])
}

func TestIssuesCSVEmpty(t *testing.T) {
	data, err := IssuesCSV(nil)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, csvHeader, records[0])
}
