package main

import (
	"fmt"
	"os"

	"github.com/Silemae70/TheEyeOfCthulhu-sub000/core"
	gojaagg "github.com/Silemae70/TheEyeOfCthulhu-sub000/interpreters/goja"
	"github.com/Silemae70/TheEyeOfCthulhu-sub000/match"

	"github.com/jsccast/yaml"
)

// Config is the daemon's YAML runtime configuration: the pattern
// library, the rituals to run per frame, optional cron schedules, the
// background detector, and the scripted demo matcher's responses.
type Config struct {
	Patterns []*PatternConfig `yaml:"patterns"`
	Rituals  []*RitualConfig  `yaml:"rituals"`
	Detector *DetectorConfig  `yaml:"detector,omitempty"`

	// Responses script the built-in demo matcher.  A deployment
	// with a real matcher leaves this empty and injects its own.
	Responses []*ResponseConfig `yaml:"responses,omitempty"`
}

type PatternConfig struct {
	Name     string  `yaml:"name"`
	Width    int     `yaml:"width"`
	Height   int     `yaml:"height"`
	AnchorX  float64 `yaml:"anchorX,omitempty"`
	AnchorY  float64 `yaml:"anchorY,omitempty"`
	MinScore float64 `yaml:"minScore,omitempty"`
}

type ResponseConfig struct {
	Pattern string   `yaml:"pattern"`
	Score   float64  `yaml:"score"`
	X       float64  `yaml:"x"`
	Y       float64  `yaml:"y"`
	Angle   *float64 `yaml:"angle,omitempty"`
	Scale   *float64 `yaml:"scale,omitempty"`
}

type RegionConfig struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type RuneConfig struct {
	Name         string  `yaml:"name"`
	Type         string  `yaml:"type"` // "locate", "match", "presence"
	Doc          string  `yaml:"doc,omitempty"`
	Disabled     bool    `yaml:"disabled,omitempty"`
	Pattern      string  `yaml:"pattern"`
	MinResonance float64 `yaml:"minResonance,omitempty"`

	Region *RegionConfig `yaml:"region,omitempty"`

	// Locate
	MakeRegion   bool `yaml:"makeRegion,omitempty"`
	Margin       int  `yaml:"margin,omitempty"`
	RegionWidth  int  `yaml:"regionWidth,omitempty"`
	RegionHeight int  `yaml:"regionHeight,omitempty"`

	// Match
	UseContextRegion bool `yaml:"useContextRegion,omitempty"`

	// Presence
	Mode string `yaml:"mode,omitempty"` // "mustBePresent", "mustBeAbsent"
}

type RitualConfig struct {
	Name               string        `yaml:"name"`
	Doc                string        `yaml:"doc,omitempty"`
	Strategy           string        `yaml:"strategy,omitempty"`
	StopOnFirstDormant bool          `yaml:"stopOnFirstDormant,omitempty"`
	Runes              []*RuneConfig `yaml:"runes"`

	// Aggregator is ECMAScript for the "custom" strategy.
	Aggregator string `yaml:"aggregator,omitempty"`

	// Schedule is an optional cron expression; a scheduled ritual
	// runs on its own clock instead of per frame.
	Schedule string `yaml:"schedule,omitempty"`
}

type DetectorConfig struct {
	Skip     uint64   `yaml:"skip,omitempty"`
	Patterns []string `yaml:"patterns"`
}

func LoadConfig(filename string) (*Config, error) {
	bs, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return &cfg, nil
}

// Compile turns the configuration into live patterns and rituals bound
// to the given matcher.
func (cfg *Config) Compile(matcher match.Matcher) (map[string]*match.Pattern, []*ScheduledRitual, error) {
	patterns := make(map[string]*match.Pattern, len(cfg.Patterns))
	for _, pc := range cfg.Patterns {
		if _, have := patterns[pc.Name]; have {
			return nil, nil, fmt.Errorf("duplicate pattern %q", pc.Name)
		}
		patterns[pc.Name] = &match.Pattern{
			Name:     pc.Name,
			Width:    pc.Width,
			Height:   pc.Height,
			Anchor:   match.Point{X: pc.AnchorX, Y: pc.AnchorY},
			MinScore: pc.MinScore,
		}
	}

	rituals := make([]*ScheduledRitual, 0, len(cfg.Rituals))
	for _, rc := range cfg.Rituals {
		rt, err := rc.compile(patterns, matcher)
		if err != nil {
			return nil, nil, err
		}
		sr := &ScheduledRitual{
			Ritual:   rt,
			Schedule: rc.Schedule,
		}
		rituals = append(rituals, sr)
	}

	return patterns, rituals, nil
}

func (rc *RitualConfig) compile(patterns map[string]*match.Pattern, matcher match.Matcher) (*core.Ritual, error) {
	strategy, err := core.ParseStrategy(rc.Strategy)
	if err != nil {
		return nil, fmt.Errorf("ritual %q: %w", rc.Name, err)
	}

	rt := core.NewRitual(rc.Name)
	rt.Doc = rc.Doc
	rt.Strategy = strategy
	rt.StopOnFirstDormant = rc.StopOnFirstDormant

	if rc.Aggregator != "" {
		agg, err := gojaagg.NewAggregator(rc.Aggregator)
		if err != nil {
			return nil, fmt.Errorf("ritual %q aggregator: %w", rc.Name, err)
		}
		rt.Aggregator = agg
	}

	for _, runeCfg := range rc.Runes {
		r, err := runeCfg.compile(patterns, matcher)
		if err != nil {
			return nil, fmt.Errorf("ritual %q: %w", rc.Name, err)
		}
		if err := rt.Add(r); err != nil {
			return nil, err
		}
	}

	if problems := rt.Validate(); 0 < len(problems) {
		return nil, fmt.Errorf("ritual %q: %v", rc.Name, problems)
	}

	return rt, nil
}

func (rc *RuneConfig) compile(patterns map[string]*match.Pattern, matcher match.Matcher) (*core.Rune, error) {
	p, have := patterns[rc.Pattern]
	if !have {
		return nil, fmt.Errorf("rune %q: unknown pattern %q", rc.Name, rc.Pattern)
	}

	var region *match.Region
	if rc.Region != nil {
		region = &match.Region{
			X:      rc.Region.X,
			Y:      rc.Region.Y,
			Width:  rc.Region.Width,
			Height: rc.Region.Height,
		}
	}

	var craft core.Craft
	switch rc.Type {
	case "locate":
		craft = &core.Locate{
			Pattern:      p,
			Matcher:      matcher,
			Region:       region,
			MakeRegion:   rc.MakeRegion,
			Margin:       rc.Margin,
			RegionWidth:  rc.RegionWidth,
			RegionHeight: rc.RegionHeight,
		}
	case "match", "":
		craft = &core.MatchPattern{
			Pattern:          p,
			Matcher:          matcher,
			Region:           region,
			UseContextRegion: rc.UseContextRegion,
		}
	case "presence":
		mode := core.MustBePresent
		switch rc.Mode {
		case "mustBePresent", "":
		case "mustBeAbsent":
			mode = core.MustBeAbsent
		default:
			return nil, fmt.Errorf("rune %q: unknown mode %q", rc.Name, rc.Mode)
		}
		craft = &core.Presence{
			Pattern: p,
			Matcher: matcher,
			Region:  region,
			Mode:    mode,
		}
	default:
		return nil, fmt.Errorf("rune %q: unknown type %q", rc.Name, rc.Type)
	}

	return &core.Rune{
		Name:         rc.Name,
		Doc:          rc.Doc,
		Disabled:     rc.Disabled,
		MinResonance: rc.MinResonance,
		Craft:        craft,
	}, nil
}

// DemoMatcher builds a StaticMatcher replaying the configured
// responses.
func (cfg *Config) DemoMatcher() *match.StaticMatcher {
	m := match.NewStaticMatcher()
	for _, r := range cfg.Responses {
		f := match.Found{
			Position: match.Point{X: r.X, Y: r.Y},
			Score:    r.Score,
			Angle:    r.Angle,
			Scale:    r.Scale,
		}
		m.SetFound(r.Pattern, f)
	}
	return m
}
