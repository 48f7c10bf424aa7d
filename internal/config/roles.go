package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// RoleDef describes one selectable work role: its short code (e.g.
// "OM-IB-NS"), the name shown in the role picker, and the sheet
// holding its task catalog.
type RoleDef struct {
	Code  string `yaml:"code" json:"code"`
	Name  string `yaml:"name" json:"name"`
	Sheet string `yaml:"sheet" json:"sheet"`
}

// NightShift reports whether the role's tasks run overnight. Night
// roles carry the NS suffix.
func (r RoleDef) NightShift() bool {
	return strings.HasSuffix(r.Code, "-NS")
}

// RoleCatalog is the startup-loaded mapping from role codes to their
// template sheets, replacing what used to be a hard-coded table.
type RoleCatalog struct {
	TaskSheet  string    `yaml:"task_sheet"`
	UsersSheet string    `yaml:"users_sheet"`
	BoardSheet string    `yaml:"board_sheet"`
	Roles      []RoleDef `yaml:"roles"`

	byCode map[string]RoleDef
}

var roleCodePattern = regexp.MustCompile(`^[A-Z]{2}-[A-Z]{2}-(NS|DS)$`)

// LoadRoleCatalog reads and validates the yaml catalog. Every role
// code must match the CC-CC-NS/DS shape and be unique.
func LoadRoleCatalog(path string) (*RoleCatalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read role catalog: %w", err)
	}
	var cat RoleCatalog
	if err := yaml.Unmarshal(raw, &cat); err != nil {
		return nil, fmt.Errorf("config: parse role catalog: %w", err)
	}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// NewRoleCatalog builds a validated catalog directly, without a yaml
// file.
func NewRoleCatalog(taskSheet, usersSheet string, roles []RoleDef) (*RoleCatalog, error) {
	cat := &RoleCatalog{TaskSheet: taskSheet, UsersSheet: usersSheet, Roles: roles}
	if err := cat.validate(); err != nil {
		return nil, err
	}
	return cat, nil
}

func (c *RoleCatalog) validate() error {
	if c.TaskSheet == "" {
		return fmt.Errorf("config: role catalog: task_sheet is required")
	}
	if c.UsersSheet == "" {
		return fmt.Errorf("config: role catalog: users_sheet is required")
	}
	if c.BoardSheet == "" {
		// The priority-board sheet predates the catalog and kept the
		// spreadsheet's default tab name.
		c.BoardSheet = "Sheet1"
	}
	if len(c.Roles) == 0 {
		return fmt.Errorf("config: role catalog: at least one role is required")
	}
	c.byCode = make(map[string]RoleDef, len(c.Roles))
	for _, r := range c.Roles {
		if !roleCodePattern.MatchString(r.Code) {
			return fmt.Errorf("config: role catalog: bad role code %q", r.Code)
		}
		if r.Name == "" || r.Sheet == "" {
			return fmt.Errorf("config: role catalog: role %s needs name and sheet", r.Code)
		}
		if _, dup := c.byCode[r.Code]; dup {
			return fmt.Errorf("config: role catalog: duplicate role code %q", r.Code)
		}
		c.byCode[r.Code] = r
	}
	return nil
}

// Lookup returns the definition for a role code.
func (c *RoleCatalog) Lookup(code string) (RoleDef, bool) {
	r, ok := c.byCode[code]
	return r, ok
}
