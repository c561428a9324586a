// Package config loads, validates and watches the tuning file.
package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/plus3/blockfall/game"
	"github.com/plus3/blockfall/input"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "blockfall://tuning.schema.json"

// Tuning is every knob a session or frontend reads from the tuning file.
type Tuning struct {
	Height          int           `yaml:"height" mapstructure:"height"`
	Width           int           `yaml:"width" mapstructure:"width"`
	LockDelay       time.Duration `yaml:"lock_delay" mapstructure:"lock_delay"`
	MaxLockRenewals int           `yaml:"max_lock_renewals" mapstructure:"max_lock_renewals"`
	ClearDelay      time.Duration `yaml:"clear_delay" mapstructure:"clear_delay"`
	ShakeDuration   time.Duration `yaml:"shake_duration" mapstructure:"shake_duration"`
	RepeatDelay     time.Duration `yaml:"repeat_delay" mapstructure:"repeat_delay"`
	RepeatInterval  time.Duration `yaml:"repeat_interval" mapstructure:"repeat_interval"`
	FrameInterval   time.Duration `yaml:"frame_interval" mapstructure:"frame_interval"`
	// Seed fixes the piece sequence when non-zero.
	Seed     uint64 `yaml:"seed,omitempty" mapstructure:"seed"`
	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	// Keys rebinds actions. Actions left out keep their default keys.
	Keys Keybindings `yaml:"keys,omitempty" mapstructure:"keys"`
}

// Keybindings maps action names to key names for each frontend. Terminal
// keys use tcell names ("Left", "Enter") or single characters; window keys
// use Ebiten names ("ArrowLeft", "Space").
type Keybindings struct {
	Term map[string][]string `yaml:"term,omitempty" mapstructure:"term"`
	GUI  map[string][]string `yaml:"gui,omitempty" mapstructure:"gui"`
}

func (k Keybindings) validate() []error {
	var errs []error
	for section, bindings := range map[string]map[string][]string{"term": k.Term, "gui": k.GUI} {
		for name := range bindings {
			if _, err := input.ParseAction(name); err != nil {
				errs = append(errs, fmt.Errorf("keys.%s: %w", section, err))
			}
		}
	}
	return errs
}

// Default returns the canonical rules at roughly 60 frames per second.
func Default() Tuning {
	cfg := game.DefaultConfig()
	timing := input.DefaultTiming()
	return Tuning{
		Height:          cfg.Height,
		Width:           cfg.Width,
		LockDelay:       cfg.LockDelay,
		MaxLockRenewals: cfg.MaxLockRenewals,
		ClearDelay:      cfg.ClearDelay,
		ShakeDuration:   cfg.ShakeDuration,
		RepeatDelay:     timing.Delay,
		RepeatInterval:  timing.Interval,
		FrameInterval:   16 * time.Millisecond,
		LogLevel:        "info",
	}
}

// GameConfig converts the session rules.
func (t Tuning) GameConfig() game.Config {
	return game.Config{
		Height:          t.Height,
		Width:           t.Width,
		LockDelay:       t.LockDelay,
		MaxLockRenewals: t.MaxLockRenewals,
		ClearDelay:      t.ClearDelay,
		ShakeDuration:   t.ShakeDuration,
	}
}

// Timing converts the auto-repeat settings.
func (t Tuning) Timing() input.Timing {
	return input.Timing{Delay: t.RepeatDelay, Interval: t.RepeatInterval}
}

// Validate checks the constraints the schema cannot express.
func (t Tuning) Validate() error {
	var errs []error
	if t.Height < 4 || t.Width < 4 {
		errs = append(errs, fmt.Errorf("board %dx%d is smaller than 4x4", t.Height, t.Width))
	}
	if t.MaxLockRenewals < 0 {
		errs = append(errs, errors.New("max_lock_renewals must not be negative"))
	}
	for name, d := range map[string]time.Duration{
		"lock_delay":     t.LockDelay,
		"clear_delay":    t.ClearDelay,
		"shake_duration": t.ShakeDuration,
		"repeat_delay":   t.RepeatDelay,
	} {
		if d < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative", name))
		}
	}
	if t.RepeatInterval <= 0 {
		errs = append(errs, errors.New("repeat_interval must be positive"))
	}
	if t.FrameInterval <= 0 {
		errs = append(errs, errors.New("frame_interval must be positive"))
	}
	if _, err := logrus.ParseLevel(t.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}
	errs = append(errs, t.Keys.validate()...)
	return errors.Join(errs...)
}

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return c.Compile(schemaURL)
})

// Load reads a tuning file. Keys missing from the file keep their Default
// values.
func Load(path string) (Tuning, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, err
	}
	t, err := Parse(raw)
	if err != nil {
		return Tuning{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes and validates YAML tuning data.
func Parse(raw []byte) (Tuning, error) {
	t := Default()

	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return t, fmt.Errorf("decode: %w", err)
	}
	if doc != nil {
		if err := validateSchema(doc); err != nil {
			return t, err
		}
	}

	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("decode: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("invalid tuning: %w", err)
	}
	return t, nil
}

// validateSchema checks a decoded YAML document against the embedded schema.
// The document goes through JSON first so numbers reach the validator as
// json.Number.
func validateSchema(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("tuning is not a JSON-compatible document: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}

// Save writes t as YAML.
func (t Tuning) Save(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(t); err != nil {
		return err
	}
	return enc.Close()
}

// Schema returns the JSON schema tuning files are validated against.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}
