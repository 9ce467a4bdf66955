package goadmin

import (
	"context"
	"errors"
	"fmt"

	datatablepkg "github.com/goliatone/go-datatable/pkg/datatable"
)

// MenuBuilder ensures table entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures table link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires the table registry + feature flags into an admin shell.
type Config struct {
	EnableTables bool
	MenuCode     string
	MenuBuilder  MenuBuilder
	Registry     *datatablepkg.Registry
	BasePath     string
	Icon         string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed table menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableTables && cfg.Registry == nil {
		return nil, errors.New("goadmin: table registry is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.BasePath == "" {
		cfg.BasePath = "/admin/tables"
	}
	if cfg.Icon == "" {
		cfg.Icon = "table"
	}
	return &Admin{cfg: cfg}, nil
}

// Registry exposes the configured table registry when enabled.
func (a *Admin) Registry() *datatablepkg.Registry {
	if !a.cfg.EnableTables {
		return nil
	}
	return a.cfg.Registry
}

// Bootstrap seeds one menu entry per registered table definition.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableTables || a.cfg.MenuBuilder == nil {
		return nil
	}
	for i, def := range a.cfg.Registry.Definitions() {
		item := MenuItem{
			Label:    def.Name,
			Route:    fmt.Sprintf("%s/%s", a.cfg.BasePath, def.Code),
			Icon:     a.cfg.Icon,
			Position: i,
		}
		if err := a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item); err != nil {
			return fmt.Errorf("goadmin: seed menu for %s: %w", def.Code, err)
		}
	}
	return nil
}
