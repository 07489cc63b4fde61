package build

import (
	"strings"

	"github.com/matzehuels/skillgalaxy/pkg/catalog"
	"github.com/matzehuels/skillgalaxy/pkg/core/galaxy"
)

// =============================================================================
// Defaults
// =============================================================================

const (
	// DefaultClusterID receives records no table routes elsewhere when the
	// catalog does not name a default cluster.
	DefaultClusterID = catalog.DefaultClusterID

	// DefaultMastery is used for missing or unrecognized grades.
	DefaultMastery = 0.6

	// PlaceholderBrightness is the fixed brightness of unexplored placeholders.
	PlaceholderBrightness = 0.08

	// UnexploredThreshold is the topic mastery below which a topic is unexplored.
	UnexploredThreshold = 0.1

	// defaultClusterAngle and defaultClusterRadius place an implicit default
	// cluster below the origin (authored units, degrees).
	defaultClusterAngle  = 270
	defaultClusterRadius = 260
)

// Config is the immutable lookup state used by [Build]. Construct it once
// with [NewConfig] or [DefaultConfig] and share it by pointer.
type Config struct {
	DefaultCluster string
	TopicCluster   string
	Tracks         map[string]string
	Overrides      map[string]string
	Portals        map[string]bool

	GradeMastery   map[string]float64
	DefaultMastery float64
	WorkMastery    map[galaxy.Kind]float64
	BaseRadius     map[galaxy.Kind]float64

	PlaceholderBrightness float64
	UnexploredThreshold   float64
}

// DefaultConfig returns the built-in tables with empty routing.
func DefaultConfig() *Config {
	return &Config{
		DefaultCluster: DefaultClusterID,
		Tracks:         map[string]string{},
		Overrides:      map[string]string{},
		Portals:        map[string]bool{},
		GradeMastery: map[string]float64{
			"A+": 1.0, "A": 0.95, "A-": 0.9,
			"B+": 0.85, "B": 0.8, "B-": 0.75,
			"C+": 0.7, "C": 0.65, "C-": 0.6,
			"D": 0.5,
			"P": 0.7, "S": 0.7,
		},
		DefaultMastery: DefaultMastery,
		WorkMastery: map[galaxy.Kind]float64{
			galaxy.KindProject:     0.8,
			galaxy.KindRepo:        0.75,
			galaxy.KindInternship:  0.85,
			galaxy.KindPublication: 0.9,
			galaxy.KindThesis:      0.95,
		},
		BaseRadius: map[galaxy.Kind]float64{
			galaxy.KindRoot:        18,
			galaxy.KindCluster:     12,
			galaxy.KindCourse:      7,
			galaxy.KindProject:     8,
			galaxy.KindRepo:        7,
			galaxy.KindInternship:  8,
			galaxy.KindPublication: 9,
			galaxy.KindThesis:      10,
			galaxy.KindTopic:       6,
			galaxy.KindPlaceholder: 5,
		},
		PlaceholderBrightness: PlaceholderBrightness,
		UnexploredThreshold:   UnexploredThreshold,
	}
}

// NewConfig returns DefaultConfig with the catalog's routing tables applied.
func NewConfig(m catalog.Mapping) *Config {
	c := DefaultConfig()
	if m.DefaultCluster != "" {
		c.DefaultCluster = m.DefaultCluster
	}
	c.TopicCluster = m.TopicCluster
	for k, v := range m.Tracks {
		c.Tracks[k] = v
	}
	for k, v := range m.Overrides {
		c.Overrides[k] = v
	}
	for _, id := range m.Portals {
		c.Portals[id] = true
	}
	return c
}

// =============================================================================
// Pure classifiers
// =============================================================================

func normalizeGrade(grade string) string {
	return strings.ToUpper(strings.TrimSpace(grade))
}

// GradeToMastery maps a letter grade to mastery. Grades are trimmed and
// upper-cased; anything not in the table yields DefaultMastery.
func (c *Config) GradeToMastery(grade string) float64 {
	if m, ok := c.GradeMastery[normalizeGrade(grade)]; ok {
		return m
	}
	return c.DefaultMastery
}

// TopicMastery returns solved/expected clamped to [0,1]. A non-positive
// expected count yields 0.
func TopicMastery(solved, expected int) float64 {
	if expected <= 0 || solved <= 0 {
		return 0
	}
	return min(float64(solved)/float64(expected), 1)
}

// ClassifyTier returns the visual tier of a node. grade is only consulted
// for courses and portal only for project-like kinds.
func (c *Config) ClassifyTier(kind galaxy.Kind, grade string, mastery float64, portal bool) galaxy.Tier {
	switch {
	case kind == galaxy.KindRoot, kind == galaxy.KindCluster:
		return galaxy.TierExceptional
	case kind == galaxy.KindPlaceholder:
		return galaxy.TierUnexplored
	case kind == galaxy.KindCourse:
		if g := normalizeGrade(grade); g == "A+" || g == "A" {
			return galaxy.TierExceptional
		}
		if mastery >= 0.7 {
			return galaxy.TierTypical
		}
		return galaxy.TierMinimal
	case kind.IsWork():
		if portal {
			return galaxy.TierExceptional
		}
		return galaxy.TierTypical
	case kind == galaxy.KindTopic:
		switch {
		case mastery < c.UnexploredThreshold:
			return galaxy.TierUnexplored
		case mastery >= 0.8:
			return galaxy.TierExceptional
		case mastery >= 0.4:
			return galaxy.TierTypical
		}
		return galaxy.TierMinimal
	}
	return galaxy.TierMinimal
}

// LayerFor returns the radial layer of a node kind.
func LayerFor(kind galaxy.Kind, portal bool) galaxy.Layer {
	switch {
	case kind == galaxy.KindRoot, kind == galaxy.KindCluster:
		return galaxy.LayerCore
	case portal:
		return galaxy.LayerSpecial
	case kind == galaxy.KindCourse:
		return galaxy.LayerInner
	case kind.IsWork():
		return galaxy.LayerMid
	}
	return galaxy.LayerOuter
}

// Radius scales the kind's base radius by mastery. Root and cluster hubs
// keep their base radius.
func (c *Config) Radius(kind galaxy.Kind, mastery float64) float64 {
	base, ok := c.BaseRadius[kind]
	if !ok {
		base = c.BaseRadius[galaxy.KindCourse]
	}
	if kind.IsPinned() {
		return base
	}
	return base * (0.6 + 0.4*mastery)
}

// Brightness maps mastery to a glow intensity in [0.15, 1].
func Brightness(mastery float64) float64 {
	return 0.15 + 0.85*mastery
}
