package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/springchain/internal/dynamo"
	"github.com/san-kum/springchain/internal/interact"
	"github.com/san-kum/springchain/internal/params"
	"github.com/san-kum/springchain/internal/physics"
	"github.com/san-kum/springchain/internal/sim"
)

const (
	DefaultViewWidth  = 60
	DefaultViewHeight = 20
)

type Config struct {
	Chain       ChainConfig       `yaml:"chain"`
	Params      ParamsConfig      `yaml:"params"`
	Integrator  IntegratorConfig  `yaml:"integrator"`
	Interaction InteractionConfig `yaml:"interaction"`
	Run         RunConfig         `yaml:"run"`
	View        ViewConfig        `yaml:"view"`
}

type ChainConfig struct {
	OriginX float64 `yaml:"origin_x"`
	OriginY float64 `yaml:"origin_y"`
	Nodes   int     `yaml:"nodes"`
	Mass    float64 `yaml:"mass"`
	Gap     float64 `yaml:"gap"`
}

type ParamsConfig struct {
	SpringConstant float64 `yaml:"spring_constant"`
	RestLength     float64 `yaml:"rest_length"`
	Gravity        float64 `yaml:"gravity"`
	ForceDivisor   float64 `yaml:"force_divisor"`
	Friction       float64 `yaml:"friction"`
}

type IntegratorConfig struct {
	FPS       float64 `yaml:"fps"`
	MaxStepMs float64 `yaml:"max_step_ms"`
}

type InteractionConfig struct {
	AnchorImmutable bool    `yaml:"anchor_immutable"`
	FlickGain       float64 `yaml:"flick_gain"`
}

type RunConfig struct {
	Frames      int     `yaml:"frames"`
	DtMs        float64 `yaml:"dt_ms"`
	SettleSpeed float64 `yaml:"settle_speed"`
	RecordEvery int     `yaml:"record_every"`
}

type ViewConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Chain: ChainConfig{
			OriginX: physics.DefaultOriginX,
			OriginY: physics.DefaultOriginY,
			Nodes:   physics.DefaultCount,
			Mass:    physics.DefaultMass,
			Gap:     physics.DefaultGap,
		},
		Params: ParamsConfig{
			SpringConstant: params.DefaultSpringConstant,
			RestLength:     params.DefaultRestLength,
			Gravity:        params.DefaultGravity,
			ForceDivisor:   params.DefaultForceDivisor,
			Friction:       params.DefaultFriction,
		},
		Integrator: IntegratorConfig{
			FPS:       physics.DefaultFPS,
			MaxStepMs: physics.DefaultMaxStep,
		},
		Interaction: InteractionConfig{
			AnchorImmutable: true,
			FlickGain:       interact.DefaultFlickGain,
		},
		Run: RunConfig{
			Frames:      sim.DefaultFrames,
			DtMs:        sim.DefaultDt,
			SettleSpeed: sim.DefaultSettleSpeed,
			RecordEvery: 1,
		},
		View: ViewConfig{
			Width:  DefaultViewWidth,
			Height: DefaultViewHeight,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks everything the simulator would otherwise reject later.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Layout().Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.SimParams().Validate(); err != nil {
		errs = append(errs, err)
	}
	if !(c.Integrator.FPS > 0) {
		errs = append(errs, fmt.Errorf("integrator fps %v: %w", c.Integrator.FPS, dynamo.ErrParameterBounds))
	}
	if !(c.Integrator.MaxStepMs > 0) {
		errs = append(errs, fmt.Errorf("integrator max_step_ms %v: %w", c.Integrator.MaxStepMs, dynamo.ErrParameterBounds))
	}
	if c.View.Width < 10 || c.View.Height < 5 {
		errs = append(errs, fmt.Errorf("view %dx%d too small: %w", c.View.Width, c.View.Height, dynamo.ErrParameterBounds))
	}
	return errors.Join(errs...)
}

func (c *Config) Layout() physics.Layout {
	return physics.Layout{
		Origin: dynamo.V(c.Chain.OriginX, c.Chain.OriginY),
		Count:  c.Chain.Nodes,
		Mass:   c.Chain.Mass,
		Gap:    c.Chain.Gap,
	}
}

func (c *Config) SimParams() params.Params {
	return params.Params{
		SpringConstant: c.Params.SpringConstant,
		RestLength:     c.Params.RestLength,
		Gravity:        c.Params.Gravity,
		ForceDivisor:   c.Params.ForceDivisor,
		Friction:       c.Params.Friction,
		NodeCount:      c.Chain.Nodes,
	}
}

func (c *Config) NewIntegrator() *physics.Integrator {
	return &physics.Integrator{FPS: c.Integrator.FPS, MaxStep: c.Integrator.MaxStepMs}
}

func (c *Config) InteractOptions() interact.Options {
	return interact.Options{
		AnchorImmutable: c.Interaction.AnchorImmutable,
		FlickGain:       c.Interaction.FlickGain,
	}
}

func (c *Config) RunConfig() sim.Config {
	return sim.Config{
		Frames:      c.Run.Frames,
		Dt:          c.Run.DtMs,
		SettleSpeed: c.Run.SettleSpeed,
		RecordEvery: c.Run.RecordEvery,
	}
}

// NewSimulator wires a simulator from the configuration.
func (c *Config) NewSimulator(opts ...sim.Option) (*sim.Simulator, error) {
	store, err := params.NewStore(c.SimParams())
	if err != nil {
		return nil, err
	}
	opts = append([]sim.Option{
		sim.WithIntegrator(c.NewIntegrator()),
		sim.WithInteraction(c.InteractOptions()),
	}, opts...)
	return sim.New(c.Layout(), store, opts...)
}
