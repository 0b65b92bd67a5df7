package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"itcommunity/config"
	"itcommunity/domain"
	"itcommunity/infrastructure"
	"itcommunity/usecase"
)

var version = "dev"

type runContext struct {
	cfg *config.Config
	log *logrus.Logger
}

func (r *runContext) openDB() (*gorm.DB, error) {
	return infrastructure.NewDatabase(r.cfg, r.log)
}

type CLI struct {
	Config  string `help:"Path to the YAML config." default:"configs/config.yaml" env:"CONFIG_PATH"`
	Verbose bool   `help:"Debug logging." short:"v"`

	Migrate MigrateCmd `cmd:"" help:"Create or update database tables."`
	User    UserCmd    `cmd:"" help:"Create a user account."`
	Token   TokenCmd   `cmd:"" help:"Issue a bearer token for a user."`
	Metrics MetricsCmd `cmd:"" help:"Print the admin dashboard metrics."`
	Sweep   SweepCmd   `cmd:"" help:"Run one maintenance pass (event statuses, notification retention)."`
	Version VersionCmd `cmd:"" help:"Print the version."`
}

type MigrateCmd struct{}

func (c *MigrateCmd) Run(r *runContext) error {
	r.cfg.Database.AutoMigrate = false
	db, err := r.openDB()
	if err != nil {
		return err
	}
	if err := infrastructure.Migrate(db); err != nil {
		return err
	}
	r.log.WithField("tables", len(infrastructure.Models)).Info("Migration complete")
	return nil
}

type UserCmd struct {
	Name    string   `arg:"" help:"Display name."`
	Email   string   `arg:"" help:"Unique email address."`
	Role    string   `help:"STUDENT, PROFESSIONAL, COMPANY or ADMIN." default:"STUDENT" enum:"STUDENT,PROFESSIONAL,COMPANY,ADMIN"`
	Company string   `help:"Company name for COMPANY accounts."`
	Skills  []string `help:"Comma separated skills." sep:","`
}

func (c *UserCmd) Run(r *runContext) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	u := domain.User{
		Name:        c.Name,
		Email:       strings.ToLower(c.Email),
		Role:        domain.Role(c.Role),
		CompanyName: c.Company,
		Skills:      c.Skills,
	}
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if err := db.Create(&u).Error; err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	fmt.Println(u.ID)
	return nil
}

type TokenCmd struct {
	UserID uint `arg:"" help:"User id."`
}

func (c *TokenCmd) Run(r *runContext) error {
	if r.cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is not set")
	}
	db, err := r.openDB()
	if err != nil {
		return err
	}
	var u domain.User
	if err := db.First(&u, c.UserID).Error; err != nil {
		return fmt.Errorf("failed to load user %d: %w", c.UserID, err)
	}
	token, err := infrastructure.NewTokenManager(r.cfg.Auth.JWTSecret, r.cfg.Auth.TokenTTL).Issue(u.ID, u.Role)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

type MetricsCmd struct{}

func (c *MetricsCmd) Run(r *runContext) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	// Bypasses the cache.
	admin := usecase.NewAdminService(db, nil, nil, r.log)
	m, err := admin.Metrics(context.Background())
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

type SweepCmd struct {
	Retention time.Duration `help:"Delete read notifications older than this. Zero keeps them." default:"2160h"`
}

func (c *SweepCmd) Run(r *runContext) error {
	db, err := r.openDB()
	if err != nil {
		return err
	}
	res, err := usecase.NewMaintenanceService(db, c.Retention, r.log).Sweep(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("events started: %d, completed: %d, notifications pruned: %d\n",
		res.EventsStarted, res.EventsCompleted, res.NotificationsPruned)
	return nil
}

type VersionCmd struct{}

func (c *VersionCmd) Run(*runContext) error {
	fmt.Println(version)
	return nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("itcctl"),
		kong.Description("Operator tooling for the ITCommunity API."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	cfg, err := config.LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cli.Verbose {
		cfg.Logging.Level = "debug"
	}
	cfg.Logging.Format = "text"
	log := infrastructure.NewLogger(cfg)
	log.SetOutput(os.Stderr)

	if err := kctx.Run(&runContext{cfg: cfg, log: log}); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}
