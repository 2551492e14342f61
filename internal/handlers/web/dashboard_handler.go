package web

import (
	"sort"

	"github.com/efidev/issuetracker/internal/issues"
	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/efidev/issuetracker/model"
	"github.com/gofiber/fiber/v2"
)

// DashboardHandler aggregates the actor's visible issues into KPI counts and
// chart series. Closed issues are excluded from all of them.
type DashboardHandler struct {
	issueService *issues.IssueService
}

type companyStatusCounts struct {
	name       string
	notStarted int
	inProgress int
	resolved   int
}

func (c companyStatusCounts) total() int {
	return c.notStarted + c.inProgress + c.resolved
}

func (h *DashboardHandler) GetDashboard(ctx *fiber.Ctx) error {
	session := sessions.Get(ctx)
	all, err := h.issueService.VisibleIssues(ctx.Context(), session.Actor())
	if err != nil {
		return err
	}

	var active []model.Issue
	for _, issue := range all {
		if issue.Status != model.StatusClosed {
			active = append(active, issue)
		}
	}

	statusCounts := make(map[string]int)
	priorityCounts := make(map[string]int)
	categoryCounts := make(map[string]int)
	byCompany := make(map[string]*companyStatusCounts)
	for _, issue := range active {
		statusCounts[issue.Status]++
		priorityCounts[issue.Priority]++
		categoryCounts[issue.Category]++

		name := "Unassigned"
		if issue.Company != nil {
			name = *issue.Company
		}
		counts, ok := byCompany[name]
		if !ok {
			counts = &companyStatusCounts{name: name}
			byCompany[name] = counts
		}
		switch issue.Status {
		case model.StatusNotStarted:
			counts.notStarted++
		case model.StatusInProgress:
			counts.inProgress++
		case model.StatusResolved:
			counts.resolved++
		}
	}

	// Top ten companies by active issue count, for the stacked chart.
	companies := make([]companyStatusCounts, 0, len(byCompany))
	for _, counts := range byCompany {
		companies = append(companies, *counts)
	}
	sort.Slice(companies, func(i, j int) bool {
		if companies[i].total() != companies[j].total() {
			return companies[i].total() > companies[j].total()
		}
		return companies[i].name < companies[j].name
	})
	if len(companies) > 10 {
		companies = companies[:10]
	}

	statusLabels := []string{model.StatusNotStarted, model.StatusInProgress, model.StatusResolved}
	statusValues := make([]int, len(statusLabels))
	for i, label := range statusLabels {
		statusValues[i] = statusCounts[label]
	}
	priorityValues := make([]int, len(model.Priorities))
	for i, label := range model.Priorities {
		priorityValues[i] = priorityCounts[label]
	}
	var categoryLabels []string
	var categoryValues []int
	for _, label := range model.Categories {
		if categoryCounts[label] > 0 {
			categoryLabels = append(categoryLabels, label)
			categoryValues = append(categoryValues, categoryCounts[label])
		}
	}

	var (
		companyLabels     []string
		companyNotStarted []int
		companyInProgress []int
		companyResolved   []int
	)
	for _, counts := range companies {
		companyLabels = append(companyLabels, counts.name)
		companyNotStarted = append(companyNotStarted, counts.notStarted)
		companyInProgress = append(companyInProgress, counts.inProgress)
		companyResolved = append(companyResolved, counts.resolved)
	}

	return ctx.Render("dashboard", fiber.Map{
		"errorMsg":          mapErrorCode(ctx.Query("error")),
		"totalIssues":       len(active),
		"openIssues":        statusCounts[model.StatusNotStarted],
		"inProgressIssues":  statusCounts[model.StatusInProgress],
		"resolvedIssues":    statusCounts[model.StatusResolved],
		"statusLabels":      statusLabels,
		"statusValues":      statusValues,
		"priorityLabels":    model.Priorities,
		"priorityValues":    priorityValues,
		"categoryLabels":    categoryLabels,
		"categoryValues":    categoryValues,
		"companyLabels":     companyLabels,
		"companyNotStarted": companyNotStarted,
		"companyInProgress": companyInProgress,
		"companyResolved":   companyResolved,
	}, "layouts/base")
}

func NewDashboardHandler(issueService *issues.IssueService) *DashboardHandler {
	return &DashboardHandler{issueService: issueService}
}
