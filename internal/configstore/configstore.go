// Package configstore holds the ordered collection of LCG configurations and
// the persisted cursor that selects the active one.
//
// Configurations are read once from an HCL file:
//
//	configuration "baseline" {
//	  conf1 {
//	    k  = 1234
//	    g  = 22
//	    x0 = 99
//	    c  = 12345
//	  }
//	  conf2 {
//	    k  = 5678
//	    g  = 22
//	    x0 = 17
//	    c  = 54321
//	  }
//	}
//
// The cursor lives in a small JSON file ({"index": n}) and is committed
// atomically every time Advance is called.
package configstore

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/archerysim/internal/fileutil"
	"github.com/lox/archerysim/internal/lcg"
)

// ErrNoConfigurations is returned when the collection is empty.
var ErrNoConfigurations = errors.New("no lcg configurations")

type fileConfig struct {
	Configurations []configBlock `hcl:"configuration,block"`
}

type configBlock struct {
	Name  string      `hcl:"name,label"`
	Conf1 paramsBlock `hcl:"conf1,block"`
	Conf2 paramsBlock `hcl:"conf2,block"`
}

type paramsBlock struct {
	K  int64 `hcl:"k"`
	G  int64 `hcl:"g"`
	X0 int64 `hcl:"x0"`
	C  int64 `hcl:"c"`
}

type cursorFile struct {
	Index int `json:"index"`
}

// Store is the configuration collection plus its cursor. It is not safe for
// concurrent use.
type Store struct {
	configs    []lcg.Configuration
	cursor     int
	cursorPath string
}

// New returns a store over configs starting at cursor. An empty cursorPath
// keeps the cursor in memory only.
func New(configs []lcg.Configuration, cursor int, cursorPath string) (*Store, error) {
	if len(configs) == 0 {
		return nil, ErrNoConfigurations
	}
	if cursor < 0 {
		return nil, fmt.Errorf("cursor must not be negative, got %d", cursor)
	}
	return &Store{
		configs:    configs,
		cursor:     cursor % len(configs),
		cursorPath: cursorPath,
	}, nil
}

// Load reads the HCL configuration file and the cursor file. A missing
// cursor file starts at the first configuration.
func Load(configPath, cursorPath string) (*Store, error) {
	configs, err := LoadConfigurations(configPath)
	if err != nil {
		return nil, err
	}

	var cur cursorFile
	if cursorPath != "" {
		if err := fileutil.ReadJSON(cursorPath, &cur); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load cursor: %w", err)
		}
	}
	return New(configs, cur.Index, cursorPath)
}

// LoadConfigurations parses the HCL configuration collection.
func LoadConfigurations(path string) ([]lcg.Configuration, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var fc fileConfig
	diags = gohcl.DecodeBody(file.Body, nil, &fc)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	if len(fc.Configurations) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoConfigurations)
	}

	configs := make([]lcg.Configuration, 0, len(fc.Configurations))
	for _, b := range fc.Configurations {
		conf1, err := b.Conf1.params()
		if err != nil {
			return nil, fmt.Errorf("configuration %q conf1: %w", b.Name, err)
		}
		conf2, err := b.Conf2.params()
		if err != nil {
			return nil, fmt.Errorf("configuration %q conf2: %w", b.Name, err)
		}
		configs = append(configs, lcg.Configuration{Name: b.Name, Conf1: conf1, Conf2: conf2})
	}
	return configs, nil
}

func (b paramsBlock) params() (lcg.Params, error) {
	if b.K < 0 || b.G < 0 || b.X0 < 0 || b.C < 0 {
		return lcg.Params{}, fmt.Errorf("%w: parameters must not be negative", lcg.ErrInvalidParams)
	}
	p := lcg.Params{K: uint64(b.K), G: uint(b.G), X0: uint64(b.X0), C: uint64(b.C)}
	return p, p.Validate()
}

// Configurations returns the ordered collection.
func (s *Store) Configurations() []lcg.Configuration {
	return s.configs
}

// Cursor returns the index of the active configuration.
func (s *Store) Cursor() int {
	return s.cursor
}

// Current returns the active configuration.
func (s *Store) Current() lcg.Configuration {
	return s.configs[s.cursor]
}

// Advance moves the cursor to the next configuration, wrapping after the
// last, and commits it.
func (s *Store) Advance() error {
	s.cursor = (s.cursor + 1) % len(s.configs)
	if s.cursorPath == "" {
		return nil
	}
	if err := fileutil.WriteJSONAtomic(s.cursorPath, cursorFile{Index: s.cursor}); err != nil {
		return fmt.Errorf("commit cursor: %w", err)
	}
	return nil
}
