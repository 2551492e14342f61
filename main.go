package main

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/efidev/issuetracker/internal/audit"
	"github.com/efidev/issuetracker/internal/backup"
	"github.com/efidev/issuetracker/internal/common"
	"github.com/efidev/issuetracker/internal/config"
	"github.com/efidev/issuetracker/internal/documents"
	"github.com/efidev/issuetracker/internal/handlers/web"
	"github.com/efidev/issuetracker/internal/issues"
	"github.com/efidev/issuetracker/internal/lookups"
	"github.com/efidev/issuetracker/internal/middlewares"
	"github.com/efidev/issuetracker/internal/middlewares/csrf"
	"github.com/efidev/issuetracker/internal/middlewares/sessions"
	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/internal/users"
	"github.com/efidev/issuetracker/params"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/storage/memory/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

//go:embed templates/*.html templates/layouts/*.html
var templateFS embed.FS

var (
	app       *cli.App
	gitCommit string
	gitDate   string
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "YAML config file",
		Value: "config.yaml",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "Enable debug logging",
	}
)

func init() {
	app = cli.NewApp()
	app.EnableBashCompletion = true
	app.Usage = "issuetracker - An internal IT issue tracking server"
	app.Flags = []cli.Flag{
		configFileFlag,
		debugFlag,
	}
	app.Commands = []*cli.Command{
		{
			Name: "version",
			Action: func(ctx *cli.Context) error {
				fmt.Println(params.VersionWithCommit(gitCommit, gitDate))
				return nil
			},
		},
		initCommand,
		userCommand,
	}
	app.Action = run
}

func mustInitLogger(debug bool) {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))
}

func mustInitDatabase(dbConfig config.DatabaseConfig) *gorm.DB {
	db, err := store.Open(dbConfig.Path, dbConfig.BusyTimeout)
	if err != nil {
		slog.Error("Failed to open database", "path", dbConfig.Path, "error", err)
		os.Exit(1)
	}
	return db
}

func mustInitHtmlEngine(templateDir string) *html.Engine {
	var htmlEngine *html.Engine
	if templateDir != "" {
		htmlEngine = html.NewFileSystem(http.Dir(templateDir), ".html")
	} else {
		renderFS, _ := fs.Sub(templateFS, "templates")
		htmlEngine = html.NewFileSystem(http.FS(renderFS), ".html")
	}
	htmlEngine.AddFunc("str", func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	})
	htmlEngine.AddFunc("json", func(v interface{}) (string, error) {
		data, err := json.Marshal(v)
		return string(data), err
	})
	return htmlEngine
}

func mustMakeDir(path string) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		slog.Error("Failed to create directory", "path", path, "error", err)
		os.Exit(1)
	}
}

func setupWebRoutes(
	router fiber.Router,
	staticDir string,
	sessionConfig sessions.Config,
	db *gorm.DB,
	cfg *config.Config,
	userService *users.UserService,
	issueService *issues.IssueService,
	docService *documents.DocumentService,
	auditRepo audit.EntryRepository,
	lookupRepo *lookups.LookupRepository,
	backupService *backup.Service) {

	// handlers
	var (
		authHandler      = web.NewAuthHandler(userService)
		dashboardHandler = web.NewDashboardHandler(issueService)
		issueHandler     = web.NewIssueHandler(issueService, docService, auditRepo, lookupRepo)
		documentHandler  = web.NewDocumentHandler(docService, issueService)
		userHandler      = web.NewUserHandler(userService, lookupRepo)
		lookupHandler    = web.NewLookupHandler(lookupRepo)
		auditHandler     = web.NewAuditHandler(auditRepo)
		adminHandler     = web.NewAdminHandler(db, backupService, issueService, userService, cfg.Database.Path, cfg.BackupDir)
	)

	// routes
	router.Static("/static", staticDir)
	router.Use(sessions.New(sessionConfig))
	router.Use(web.InjectSessionVars)
	router.Get("/", authHandler.GetIndex)
	router.Get("/login", authHandler.GetLogin)
	router.Use(csrf.New(csrf.Config{}))
	router.Post("/login", authHandler.PostLogin)
	router.Post("/logout", authHandler.PostLogout)

	router.Use(web.RequireLogin)
	router.Get("/dashboard", dashboardHandler.GetDashboard)
	router.Get("/tracker", issueHandler.GetTracker)
	router.Get("/issue/add", web.RequireIssueEditor, issueHandler.GetAddIssue)
	router.Post("/issue/add", web.RequireIssueEditor, issueHandler.PostAddIssue)
	router.Get("/issue/:id", issueHandler.GetIssue)
	router.Get("/issue/:id/edit", web.RequireIssueEditor, issueHandler.GetEditIssue)
	router.Post("/issue/:id/edit", web.RequireIssueEditor, issueHandler.PostEditIssue)
	router.Post("/issue/:id/delete", issueHandler.PostDeleteIssue)
	router.Post("/issue/:id/upload", documentHandler.PostUpload)
	router.Get("/document/:id/download", documentHandler.GetDownload)
	router.Get("/document/:id/view", documentHandler.GetView)
	router.Post("/document/:id/delete", documentHandler.PostDelete)

	router.Use(web.RequireAdmin)
	router.Get("/users", userHandler.GetUsers)
	router.Get("/user/add", userHandler.GetAddUser)
	router.Post("/user/add", userHandler.PostAddUser)
	router.Get("/user/:id/edit", userHandler.GetEditUser)
	router.Post("/user/:id/edit", userHandler.PostEditUser)
	router.Post("/user/:id/delete", userHandler.PostDeleteUser)
	router.Get("/companies", lookupHandler.GetCompanies)
	router.Post("/company/add", lookupHandler.PostAddCompany)
	router.Post("/company/:id/delete", lookupHandler.PostDeleteCompany)
	router.Get("/departments", lookupHandler.GetDepartments)
	router.Post("/department/add", lookupHandler.PostAddDepartment)
	router.Post("/department/:id/delete", lookupHandler.PostDeleteDepartment)
	router.Get("/applications", lookupHandler.GetApplications)
	router.Post("/application/add", lookupHandler.PostAddApplication)
	router.Post("/application/:id/delete", lookupHandler.PostDeleteApplication)
	router.Get("/audit-log", auditHandler.GetAuditLog)
	router.Get("/database", adminHandler.GetDatabase)
	router.Get("/export/csv", adminHandler.GetExportCSV)
	router.Get("/admin/database-backup", adminHandler.GetBackup)
	router.Post("/admin/database-restore", adminHandler.PostRestore)
	router.Post("/admin/database-init", adminHandler.PostReset)
}

func run(ctx *cli.Context) error {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		slog.Error("Could not load config file.", "error", err)
		return err
	}

	mustInitLogger(cfg.Debug || ctx.IsSet(debugFlag.Name))

	globalVars := fiber.Map{
		"siteName": cfg.SiteName,
	}

	htmlEngine := mustInitHtmlEngine(cfg.TemplateDir)
	db := mustInitDatabase(cfg.Database)
	mustMakeDir(cfg.Upload.Dir)
	mustMakeDir(cfg.BackupDir)
	sessionStorage := memory.New()

	// repositories
	var (
		userRepo   = users.NewUserRepository(db)
		auditRepo  = audit.NewEntryRepository(db)
		issueRepo  = issues.NewIssueRepository(db, auditRepo)
		docRepo    = documents.NewDocumentRepository(db)
		lookupRepo = lookups.NewLookupRepository(db)
	)

	// services
	var (
		userService   = users.NewUserService(userRepo)
		docService    = documents.NewDocumentService(docRepo, cfg.Upload.Dir, cfg.Upload.MaxSize)
		issueService  = issues.NewIssueService(issueRepo, docService)
		backupService = backup.NewService(cfg.Database.Path, cfg.Upload.Dir, cfg.BackupDir)
	)

	if err := userService.EnsureBootstrapUsers(ctx.Context); err != nil {
		slog.Error("Failed to create default accounts", "error", err)
		return err
	}

	router := fiber.New(fiber.Config{
		Prefork:           false,
		CaseSensitive:     true,
		PassLocalsToViews: true,
		BodyLimit:         params.ServerBodyLimit,
		IdleTimeout:       params.ServerIdleTimeout,
		ReadTimeout:       params.ServerReadTimeout,
		WriteTimeout:      params.ServerWriteTimeout,
		Views:             htmlEngine,
		ErrorHandler:      middlewares.ErrorHandler,
	})

	router.Use(recover.New())
	router.Use(logger.New())
	router.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.AllowOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	router.Use(middlewares.InjectGlobalVars(globalVars))
	setupWebRoutes(
		router,
		cfg.StaticDir,
		sessions.Config{
			Storage:        sessionStorage,
			SessionMaxAge:  cfg.Session.SessionMaxAge,
			CookieSecure:   cfg.Session.CookieSecure,
			CookieHttpOnly: cfg.Session.CookieHttpOnly,
			CookieName:     cfg.Session.CookieName,
		},
		db,
		cfg,
		userService,
		issueService,
		docService,
		auditRepo,
		lookupRepo,
		backupService,
	)

	healthCheckCtx, term := context.WithCancel(ctx.Context)
	done := make(chan struct{})
	go common.StartHealthCheckServer(healthCheckCtx, done, db)
	defer func() {
		term()
		<-done
	}()
	return router.Listen(cfg.ListenAddr)
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
