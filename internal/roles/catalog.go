package roles

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultRole is assumed when a request names no role.
const DefaultRole = "Employee"

//go:embed roles.yaml
var builtinYAML []byte

type Role struct {
	Name string `yaml:"name"`
	Hint string `yaml:"hint"`
}

type file struct {
	Roles []Role `yaml:"roles"`
}

// Catalog is an ordered, case-insensitive set of known roles.
type Catalog struct {
	roles []Role
	index map[string]int
}

// Builtin returns the catalog shipped with the binary.
func Builtin() (*Catalog, error) {
	return Parse(builtinYAML)
}

// Load returns the builtin catalog extended by every *.yaml file in dir.
// Entries from dir replace builtin roles with the same name. An empty dir
// yields the builtin catalog.
func Load(dir string) (*Catalog, error) {
	cat, err := Builtin()
	if err != nil {
		return nil, fmt.Errorf("builtin roles: %w", err)
	}
	if strings.TrimSpace(dir) == "" {
		return cat, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		path := filepath.Join(dir, name)
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		extra, err := Parse(b)
		if err != nil {
			return nil, fmt.Errorf("load roles %s: %w", path, err)
		}
		for _, r := range extra.roles {
			cat.add(r)
		}
	}
	return cat, nil
}

func Parse(b []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, err
	}
	cat := &Catalog{index: map[string]int{}}
	for i, r := range f.Roles {
		r.Name = strings.TrimSpace(r.Name)
		r.Hint = strings.TrimSpace(r.Hint)
		if r.Name == "" {
			return nil, fmt.Errorf("roles[%d]: name is required", i)
		}
		cat.add(r)
	}
	if len(cat.roles) == 0 {
		return nil, errors.New("no roles defined")
	}
	return cat, nil
}

func (c *Catalog) add(r Role) {
	k := strings.ToLower(r.Name)
	if i, ok := c.index[k]; ok {
		c.roles[i] = r
		return
	}
	c.index[k] = len(c.roles)
	c.roles = append(c.roles, r)
}

// Names lists roles in catalog order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.roles))
	for i, r := range c.roles {
		out[i] = r.Name
	}
	return out
}

// Hint returns the role description, or "" for unknown roles.
func (c *Catalog) Hint(role string) string {
	if c == nil {
		return ""
	}
	if i, ok := c.index[strings.ToLower(strings.TrimSpace(role))]; ok {
		return c.roles[i].Hint
	}
	return ""
}

// Describe renders "<role>. <hint>", or just the role when no hint exists.
func (c *Catalog) Describe(role string) string {
	if hint := c.Hint(role); hint != "" {
		return role + ". " + hint
	}
	return role
}

func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.roles)
}
