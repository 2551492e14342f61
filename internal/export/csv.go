package export

import (
	"encoding/csv"
	"strconv"

	"github.com/efidev/issuetracker/model"
	"github.com/valyala/bytebufferpool"
)

var csvHeader = []string{
	"ID", "Title", "Description", "Company", "Department", "Application",
	"Category", "Priority", "Status", "Created By", "Created At", "Updated At",
}

const timestampLayout = "2006-01-02 15:04:05"

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// IssuesCSV renders the given issues as a CSV document. The caller decides
// which issues are visible; this is presentation only.
func IssuesCSV(issues []model.Issue) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	w := csv.NewWriter(buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}
	for _, issue := range issues {
		record := []string{
			strconv.FormatUint(uint64(issue.ID), 10),
			issue.Title,
			issue.Description,
			deref(issue.Company),
			deref(issue.Department),
			deref(issue.Application),
			issue.Category,
			issue.Priority,
			issue.Status,
			issue.CreatedBy,
			issue.CreatedAt.Format(timestampLayout),
			issue.UpdatedAt.Format(timestampLayout),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}
