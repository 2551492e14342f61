package web

import (
	"io"
	"os"
	"path/filepath"

	"github.com/efidev/issuetracker/internal/backup"
	"github.com/efidev/issuetracker/internal/export"
	"github.com/efidev/issuetracker/internal/issues"
	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/internal/users"
	"github.com/efidev/issuetracker/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const resetConfirmation = "RESET DATABASE"

// AdminHandler serves the database page: record counts, CSV export, backup
// download, restore and the full reset. Restore and reset replace the
// database file underneath the open pool, so both recycle the pool and end
// every session afterwards.
type AdminHandler struct {
	db            *gorm.DB
	backupService *backup.Service
	issueService  *issues.IssueService
	userService   *users.UserService
	databasePath  string
	backupDir     string
}

func (h *AdminHandler) GetDatabase(ctx *fiber.Ctx) error {
	counts := fiber.Map{}
	for name, entity := range map[string]interface{}{
		"users":     &model.User{},
		"issues":    &model.Issue{},
		"auditLogs": &model.AuditEntry{},
		"documents": &model.Document{},
	} {
		var count int64
		if err := h.db.WithContext(ctx.Context()).Model(entity).Count(&count).Error; err != nil {
			return err
		}
		counts[name] = count
	}

	var databaseSize int64
	if info, err := os.Stat(h.databasePath); err == nil {
		databaseSize = info.Size()
	}
	return ctx.Render("manage_database", fiber.Map{
		"errorMsg":     mapErrorCode(ctx.Query("error")),
		"counts":       counts,
		"databaseSize": databaseSize,
	}, "layouts/base")
}

func (h *AdminHandler) GetExportCSV(ctx *fiber.Ctx) error {
	actor := sessions.Get(ctx).Actor()
	list, err := h.issueService.VisibleIssues(ctx.Context(), actor)
	if err != nil {
		return err
	}
	data, err := export.IssuesCSV(list)
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, `attachment; filename="issues_export.csv"`)
	return ctx.Send(data)
}

func (h *AdminHandler) GetBackup(ctx *fiber.Ctx) error {
	path, err := h.backupService.Create()
	if err != nil {
		return err
	}
	return ctx.Download(path, filepath.Base(path))
}

func (h *AdminHandler) PostRestore(ctx *fiber.Ctx) error {
	header, err := ctx.FormFile("backup_file")
	if err != nil {
		return redirect(ctx, "/database", "error", "no_file")
	}
	src, err := header.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(h.backupDir, "restore-*.zip")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if _, err := h.backupService.Restore(tmp.Name()); err != nil {
		return failRedirect(ctx, "/database", err)
	}
	if err := store.Recycle(h.db); err != nil {
		return err
	}
	return forceLogout(ctx, "restored")
}

func (h *AdminHandler) PostReset(ctx *fiber.Ctx) error {
	if ctx.FormValue("confirm") != resetConfirmation {
		return redirect(ctx, "/database", "error", "reset_confirm")
	}
	if _, err := h.backupService.Reset(); err != nil {
		return err
	}
	if err := store.Recycle(h.db); err != nil {
		return err
	}
	if err := model.AutoMigrate(h.db); err != nil {
		return err
	}
	if err := h.userService.EnsureBootstrapUsers(ctx.Context()); err != nil {
		return err
	}
	return forceLogout(ctx, "reset_done")
}

func NewAdminHandler(db *gorm.DB, backupService *backup.Service, issueService *issues.IssueService, userService *users.UserService, databasePath, backupDir string) *AdminHandler {
	return &AdminHandler{
		db:            db,
		backupService: backupService,
		issueService:  issueService,
		userService:   userService,
		databasePath:  databasePath,
		backupDir:     backupDir,
	}
}
