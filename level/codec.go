package level

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed level.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		schema, schemaErr = jsonschema.CompileString("level.schema.json", schemaJSON)
	})
	return schema, schemaErr
}

// compressed reports whether path names a zstd-compressed level.
func compressed(path string) bool {
	return strings.HasSuffix(path, ".zst")
}

// Load reads, upgrades and validates a level file.
func Load(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading level: %w", err)
	}
	if compressed(path) {
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("creating zstd reader: %w", err)
		}
		defer dec.Close()
		data, err = dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing level: %w", err)
		}
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	slog.Info("level loaded", "path", path, "objects", len(l.Objects), "version", l.Version)
	return l, nil
}

// Parse decodes level YAML of any supported version.
func Parse(data []byte) (*Level, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty document", ErrInvalid)
	}
	if err := upgrade(raw); err != nil {
		return nil, err
	}
	if err := validate(raw); err != nil {
		return nil, err
	}

	// Decode the upgraded document so defaults added by upgrade are kept.
	upgraded, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("re-encoding level: %w", err)
	}
	var l Level
	if err := yaml.Unmarshal(upgraded, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := l.check(); err != nil {
		return nil, err
	}
	return &l, nil
}

// upgrade rewrites an older layout in place to CurrentVersion.
// Files without a version field are detected by the keys they carry.
func upgrade(raw map[string]any) error {
	version, err := versionOf(raw)
	if err != nil {
		return err
	}
	if version == 1 {
		zone, err := toMap(defaultFinishZone())
		if err != nil {
			return err
		}
		raw["finish_zone"] = zone
		raw["game_timer_seconds"] = DefaultTimerSeconds
		version = 2
	}
	if version == 2 {
		raw["required_score"] = DefaultRequiredScore
		version = 3
	}
	if version != CurrentVersion {
		return fmt.Errorf("%w: %d", ErrUnknownVersion, version)
	}
	raw["version"] = version
	return nil
}

func versionOf(raw map[string]any) (int, error) {
	v, ok := raw["version"]
	if !ok {
		switch {
		case raw["finish_zone"] == nil:
			return 1, nil
		case raw["required_score"] == nil:
			return 2, nil
		}
		return CurrentVersion, nil
	}
	n, ok := v.(int)
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnknownVersion, v)
	}
	return n, nil
}

// toMap converts v into the generic form yaml.v3 produces.
func toMap(v any) (map[string]any, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return m, nil
}

// validate checks the document against the embedded JSON Schema.
func validate(raw map[string]any) error {
	s, err := compiledSchema()
	if err != nil {
		return fmt.Errorf("compiling level schema: %w", err)
	}
	// The validator expects encoding/json values.
	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := s.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Encode returns the level as YAML at CurrentVersion.
func (l *Level) Encode() ([]byte, error) {
	out := *l
	out.Version = CurrentVersion
	data, err := yaml.Marshal(&out)
	if err != nil {
		return nil, fmt.Errorf("encoding level: %w", err)
	}
	return data, nil
}

// Save writes the level to path, compressing when path ends in .zst.
func (l *Level) Save(path string) error {
	data, err := l.Encode()
	if err != nil {
		return err
	}
	if compressed(path) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return fmt.Errorf("creating zstd writer: %w", err)
		}
		data = enc.EncodeAll(data, nil)
		enc.Close()
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating level directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing level: %w", err)
	}
	slog.Info("level saved", "path", path, "objects", len(l.Objects))
	return nil
}
