// Package selection is the (id, type) hand-off between a catalog listing and
// the details page. The browser keeps it in localStorage under KeyID and
// KeyType; the terminal client keeps it in a FileStore.
package selection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// localStorage keys used by the web bundle.
const (
	KeyID   = "selectedId"
	KeyType = "selectedType"
)

const (
	TypeMovie = "movie"
	TypeTV    = "tv"
)

var (
	ErrEmpty       = errors.New("no media selected")
	ErrInvalidID   = errors.New("invalid media id")
	ErrInvalidType = errors.New("invalid media type")
)

// Selection identifies one movie or show.
type Selection struct {
	ID   int    `json:"id" yaml:"id"`
	Type string `json:"type" yaml:"type"`
}

// Parse validates raw id and type strings as written by a click handler.
func Parse(id, typ string) (Selection, error) {
	id = strings.TrimSpace(id)
	typ = strings.TrimSpace(typ)
	if id == "" || typ == "" {
		return Selection{}, ErrEmpty
	}

	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return Selection{}, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	sel := Selection{ID: n, Type: typ}
	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// Validate reports whether the pair can drive a details lookup.
func (s Selection) Validate() error {
	if s.ID == 0 && s.Type == "" {
		return ErrEmpty
	}
	if s.ID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, s.ID)
	}
	if s.Type != TypeMovie && s.Type != TypeTV {
		return fmt.Errorf("%w: %q", ErrInvalidType, s.Type)
	}
	return nil
}

func (s Selection) IsTV() bool {
	return s.Type == TypeTV
}

func (s Selection) String() string {
	return s.Type + "/" + strconv.Itoa(s.ID)
}

// FileStore persists a single selection as YAML. Each Save overwrites.
type FileStore struct {
	Path string
}

// DefaultPath returns <user config dir>/marquee/selection.yaml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "marquee", "selection.yaml"), nil
}

func (f FileStore) Save(sel Selection) error {
	if err := sel.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(sel)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0755); err != nil {
		return err
	}
	return os.WriteFile(f.Path, data, 0644)
}

// Load returns ErrEmpty when nothing has been selected yet.
func (f FileStore) Load() (Selection, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return Selection{}, ErrEmpty
		}
		return Selection{}, err
	}

	var sel Selection
	if err := yaml.Unmarshal(data, &sel); err != nil {
		return Selection{}, fmt.Errorf("read selection: %w", err)
	}
	if err := sel.Validate(); err != nil {
		return Selection{}, err
	}
	return sel, nil
}
