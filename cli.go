package main

import (
	"fmt"

	"github.com/efidev/issuetracker/internal/config"
	"github.com/efidev/issuetracker/internal/store"
	"github.com/efidev/issuetracker/internal/users"
	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

var (
	roleFlag = &cli.StringFlag{
		Name:  "role",
		Usage: "Account role (admin, hod, viewer)",
		Value: "viewer",
	}
	companyFlag = &cli.StringFlag{
		Name:  "company",
		Usage: "Company scope for hod and viewer accounts",
	}
	departmentFlag = &cli.StringFlag{
		Name:  "department",
		Usage: "Department scope for hod and viewer accounts",
	}
)

var initCommand = &cli.Command{
	Name:   "init",
	Usage:  "Create the database schema and default accounts",
	Action: runInit,
}

var userCommand = &cli.Command{
	Name:  "user",
	Usage: "Manage accounts from the command line",
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List all accounts",
			Action: runUserList,
		},
		{
			Name:      "add",
			Usage:     "Create an account",
			ArgsUsage: "<username> <password>",
			Flags:     []cli.Flag{roleFlag, companyFlag, departmentFlag},
			Action:    runUserAdd,
		},
		{
			Name:      "delete",
			Usage:     "Delete an account",
			ArgsUsage: "<username>",
			Action:    runUserDelete,
		},
		{
			Name:      "set-password",
			Usage:     "Set an account password",
			ArgsUsage: "<username> <password>",
			Action:    runUserSetPassword,
		},
	},
}

func openServices(ctx *cli.Context) (*gorm.DB, *users.UserService, error) {
	cfg, err := config.LoadConfig(ctx.String(configFileFlag.Name))
	if err != nil {
		return nil, nil, err
	}
	db, err := store.Open(cfg.Database.Path, cfg.Database.BusyTimeout)
	if err != nil {
		return nil, nil, err
	}
	return db, users.NewUserService(users.NewUserRepository(db)), nil
}

func runInit(ctx *cli.Context) error {
	mustInitLogger(ctx.Bool(debugFlag.Name))
	_, userService, err := openServices(ctx)
	if err != nil {
		return err
	}
	if err := userService.EnsureBootstrapUsers(ctx.Context); err != nil {
		return err
	}
	fmt.Println("Database initialized.")
	return nil
}

func runUserList(ctx *cli.Context) error {
	_, userService, err := openServices(ctx)
	if err != nil {
		return err
	}
	list, err := userService.ListUsers(ctx.Context)
	if err != nil {
		return err
	}
	for _, user := range list {
		scope := ""
		if user.Company != nil {
			scope = *user.Company
		}
		if user.Department != nil {
			scope += "/" + *user.Department
		}
		fmt.Printf("%-6d %-24s %-8s %s\n", user.ID, user.Username, user.Role, scope)
	}
	return nil
}

func runUserAdd(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.Exit("usage: user add <username> <password>", 1)
	}
	_, userService, err := openServices(ctx)
	if err != nil {
		return err
	}
	opts := users.CreateUserOptions{
		Username: ctx.Args().Get(0),
		Password: ctx.Args().Get(1),
		Role:     ctx.String(roleFlag.Name),
	}
	if company := ctx.String(companyFlag.Name); company != "" {
		opts.Company = &company
	}
	if department := ctx.String(departmentFlag.Name); department != "" {
		opts.Department = &department
	}
	user, err := userService.CreateUser(ctx.Context, opts)
	if err != nil {
		return err
	}
	fmt.Printf("Created %s account %q (id=%d)\n", user.Role, user.Username, user.ID)
	return nil
}

func runUserDelete(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("usage: user delete <username>", 1)
	}
	_, userService, err := openServices(ctx)
	if err != nil {
		return err
	}
	user, err := userService.GetUserByUsername(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	if err := userService.DeleteUser(ctx.Context, user.ID, 0); err != nil {
		return err
	}
	fmt.Printf("Deleted account %q\n", user.Username)
	return nil
}

func runUserSetPassword(ctx *cli.Context) error {
	if ctx.NArg() != 2 {
		return cli.Exit("usage: user set-password <username> <password>", 1)
	}
	_, userService, err := openServices(ctx)
	if err != nil {
		return err
	}
	user, err := userService.GetUserByUsername(ctx.Context, ctx.Args().First())
	if err != nil {
		return err
	}
	password := ctx.Args().Get(1)
	opts := users.UpdateUserOptions{
		Password:   &password,
		Company:    user.Company,
		Department: user.Department,
	}
	if err := userService.UpdateUser(ctx.Context, user.ID, opts); err != nil {
		return err
	}
	fmt.Printf("Password updated for %q\n", user.Username)
	return nil
}
