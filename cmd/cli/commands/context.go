package commands

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/volunteers-for-city-projects/volunteers-backend/internal/config"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/clients/gmailclient"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/clients/sheetsclient"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/model"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/services"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/core/status"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/db"
	"github.com/volunteers-for-city-projects/volunteers-backend/pkg/postgres"
)

// ActorFlags identify who a command runs as
type ActorFlags struct {
	UserID         string
	Role           string
	OrganizationID string
	VolunteerID    string
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Env       string
	StoreKind string
	Verbose   bool

	Cfg      *config.Config
	OAuthCfg *config.OAuthClientConfig
	Store    db.Store
	Postgres *postgres.DB
	Notifier services.Notifier
	Policy   *status.Policy
	Logger   *zap.Logger
	Ctx      context.Context
	Actor    ActorFlags
	Now      func() time.Time

	sheetsClient *sheetsclient.Client
	gmailClient  *gmailclient.Client
	closers      []func()
}

// OnClose registers cleanup to run when the command finishes
func (a *AppContext) OnClose(fn func()) {
	a.closers = append(a.closers, fn)
}

// Close runs the registered cleanup in reverse order
func (a *AppContext) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// CurrentActor builds the actor from the global flags
func (a *AppContext) CurrentActor() (model.Actor, error) {
	role := model.Role(a.Actor.Role)
	if !role.IsValid() {
		return model.Actor{}, fmt.Errorf("--role must be one of admin, organizer, volunteer (got %q)", a.Actor.Role)
	}
	return model.Actor{
		UserID:         a.Actor.UserID,
		Role:           role,
		OrganizationID: a.Actor.OrganizationID,
		VolunteerID:    a.Actor.VolunteerID,
	}, nil
}

func (a *AppContext) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *AppContext) location() *time.Location {
	if a.Cfg == nil {
		return time.UTC
	}
	return a.Cfg.Location()
}

func (a *AppContext) site() model.SiteContext {
	if a.Cfg == nil {
		return model.SiteContext{}
	}
	return a.Cfg.Site
}

// SheetsClient connects to Google Sheets on first use, running the OAuth flow if needed
func (a *AppContext) SheetsClient() (*sheetsclient.Client, error) {
	if a.sheetsClient != nil {
		return a.sheetsClient, nil
	}
	if err := a.requireOAuth(); err != nil {
		return nil, err
	}

	a.Logger.Info("Initializing sheets client")
	client, err := sheetsclient.NewClient(a.Ctx, a.OAuthCfg, a.Env, a.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	a.sheetsClient = client
	return client, nil
}

// GmailClient connects to Gmail on first use, sharing the Sheets client's token
func (a *AppContext) GmailClient() (*gmailclient.Client, error) {
	if a.gmailClient != nil {
		return a.gmailClient, nil
	}

	sheets, err := a.SheetsClient()
	if err != nil {
		return nil, err
	}

	a.Logger.Info("Initializing gmail client")
	client, err := gmailclient.NewClient(a.Ctx, a.OAuthCfg, sheets.Token(), a.Cfg.Gmail)
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail client: %w", err)
	}
	a.gmailClient = client
	return client, nil
}

func (a *AppContext) requireOAuth() error {
	if a.OAuthCfg != nil {
		return nil
	}
	cfg, err := config.LoadOAuthClientWithEnv(a.Env)
	if err != nil {
		return fmt.Errorf("failed to load OAuth client config: %w", err)
	}
	a.OAuthCfg = cfg
	return nil
}
