// Package config loads the trainer configuration from YAML or TOML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/zeusync/artrainer/internal/core/collection"
	"github.com/zeusync/artrainer/internal/core/models"
	"github.com/zeusync/artrainer/internal/core/observability/log"
	"github.com/zeusync/artrainer/internal/core/systems/physics"
	"github.com/zeusync/artrainer/internal/core/training"
	"github.com/zeusync/artrainer/internal/solver/local"
)

var ErrInvalidConfig = errors.New("config: invalid configuration")

type Transport string

const (
	TransportLocal     Transport = "local"
	TransportWebSocket Transport = "websocket"
	TransportQUIC      Transport = "quic"
)

type Config struct {
	Log       log.Config    `yaml:"log" toml:"log"`
	Placement Placement     `yaml:"placement" toml:"placement"`
	Room      local.Room    `yaml:"room" toml:"room"`
	Solver    Solver        `yaml:"solver" toml:"solver"`
	Loop      Loop          `yaml:"loop" toml:"loop"`
	Training  Training      `yaml:"training" toml:"training"`
	Session   SessionScript `yaml:"session" toml:"session"`
}

type Placement struct {
	TargetCount int                  `yaml:"target_count" toml:"target_count"`
	TargetSize  physics.Vec3         `yaml:"target_size" toml:"target_size"`
	TargetName  string               `yaml:"target_name" toml:"target_name"`
	MinDistance float64              `yaml:"min_distance" toml:"min_distance"`
	ScaleMode   collection.ScaleMode `yaml:"scale_mode" toml:"scale_mode"`
	Template    models.Template      `yaml:"template" toml:"template"`
}

type Solver struct {
	Transport Transport `yaml:"transport" toml:"transport"`
	// Addr is the WebSocket endpoint, as host:port or a ws:// URL, and the HTTP listen
	// address for solverd.
	Addr string `yaml:"addr" toml:"addr"`
	// QUICAddr is the host:port of the QUIC endpoint, dialled by the quic transport and
	// listened on by solverd.
	QUICAddr           string        `yaml:"quic_addr" toml:"quic_addr"`
	Timeout            time.Duration `yaml:"timeout" toml:"timeout"`
	InsecureSkipVerify bool          `yaml:"insecure_skip_verify" toml:"insecure_skip_verify"`
}

type Loop struct {
	TickRate time.Duration `yaml:"tick_rate" toml:"tick_rate"`
}

type Training struct {
	LaunchForce physics.Vec3 `yaml:"launch_force" toml:"launch_force"`
	Gravity     physics.Vec3 `yaml:"gravity" toml:"gravity"`
}

// SessionScript drives the simulated player of a headless run.
type SessionScript struct {
	ScanDuration float64       `yaml:"scan_duration" toml:"scan_duration"`
	ReactionTime float64       `yaml:"reaction_time" toml:"reaction_time"`
	Accuracy     []bool        `yaml:"accuracy" toml:"accuracy"`
	MaxDuration  time.Duration `yaml:"max_duration" toml:"max_duration"`
}

func Default() *Config {
	return &Config{
		Log: log.Config{Level: "info", Encoding: "console"},
		Placement: Placement{
			TargetCount: training.DefaultTargetCount,
			TargetSize:  physics.V(1, 2, 1),
			TargetName:  "Target",
			MinDistance: 0.1,
			ScaleMode:   collection.ScaleModeDriverAxis,
			Template: models.Template{
				Name:       "Tree",
				LocalScale: physics.One,
				Parts: []physics.Bounds{
					physics.NewBounds(physics.V(0, 0.25, 0), physics.V(0.5, 0.5, 0.5)),
					physics.NewBounds(physics.V(0, 0.75, 0), physics.V(0.25, 0.5, 0.25)),
				},
			},
		},
		Room: local.DefaultRoom(),
		Solver: Solver{
			Transport: TransportLocal,
			Addr:      "127.0.0.1:7420",
			QUICAddr:  "127.0.0.1:7421",
			Timeout:   5 * time.Second,
		},
		Loop: Loop{TickRate: time.Second / 60},
		Training: Training{
			LaunchForce: training.DefaultLaunchForce,
		},
		Session: SessionScript{
			ScanDuration: 1,
			ReactionTime: 0.15,
			Accuracy:     []bool{true, true, false},
			MaxDuration:  2 * time.Minute,
		},
	}
}

// Load reads path, choosing the decoder by extension (.yaml, .yml or .toml). Keys missing
// from the file keep their Default values.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return LoadYAML(f)
	case ".toml":
		return LoadTOML(f)
	default:
		return nil, fmt.Errorf("%w: unsupported config format %q", ErrInvalidConfig, ext)
	}
}

func LoadYAML(r io.Reader) (*Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return c, c.Validate()
}

func LoadTOML(r io.Reader) (*Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	var errs []error
	p := c.Placement
	if p.TargetCount < 0 {
		errs = append(errs, errors.New("placement.target_count must not be negative"))
	}
	if !p.TargetSize.NonNegative() {
		errs = append(errs, errors.New("placement.target_size must not be negative"))
	}
	if p.MinDistance < 0 {
		errs = append(errs, errors.New("placement.min_distance must not be negative"))
	}
	if p.ScaleMode != "" && !p.ScaleMode.Valid() {
		errs = append(errs, fmt.Errorf("placement.scale_mode %q is not one of driver_axis, fit", p.ScaleMode))
	}
	if len(p.Template.Parts) == 0 {
		errs = append(errs, errors.New("placement.template needs at least one part"))
	}
	if err := c.Room.Validate(); err != nil {
		errs = append(errs, err)
	}
	switch c.Solver.Transport {
	case TransportLocal, TransportWebSocket, TransportQUIC:
	default:
		errs = append(errs, fmt.Errorf("solver.transport %q is not one of local, websocket, quic", c.Solver.Transport))
	}
	if c.Loop.TickRate <= 0 {
		errs = append(errs, errors.New("loop.tick_rate must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// CollectionConfig maps the placement section onto the collection manager.
func (c *Config) CollectionConfig() collection.Config {
	tpl := c.Placement.Template
	return collection.Config{
		TargetSize: c.Placement.TargetSize,
		TargetName: c.Placement.TargetName,
		Template:   &tpl,
		ScaleMode:  c.Placement.ScaleMode,
	}
}

func (c *Config) TrainingConfig() training.Config {
	return training.Config{
		TargetCount: c.Placement.TargetCount,
		LaunchForce: c.Training.LaunchForce,
	}
}
