// Package antispoof scores GPS fixes for signs of mock locations, injected
// coordinates and replayed captures.
//
// Scoring is additive over a rule table. The result is reproducible for a
// given sample and clock reading; nothing is remembered between calls.
package antispoof

import (
	"math"
	"strconv"
	"strings"
	"time"

	"spotter/internal/geo"
)

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

const (
	HighRiskScore   = 50
	MediumRiskScore = 25

	decoyRadiusMeters = 50.0
	minDecimalDigits  = 5
	roundTolerance    = 0.001

	injectionWindow = 100 * time.Millisecond
	replayWindow    = 60 * time.Second
)

type Assessment struct {
	Suspicious bool      `json:"suspicious"`
	RiskScore  int       `json:"risk_score"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Reasons    []string  `json:"reasons"`
}

// LevelFor maps a cumulative score to a risk level.
func LevelFor(score int) RiskLevel {
	switch {
	case score >= HighRiskScore:
		return RiskHigh
	case score >= MediumRiskScore:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Decoy is a well-known coordinate that mock-location tools and emulators
// default to.
type Decoy struct {
	Name      string
	Latitude  float64
	Longitude float64
}

var DefaultDecoys = []Decoy{
	{Name: "Tokyo", Latitude: 35.6762, Longitude: 139.6503},
	{Name: "Googleplex", Latitude: 37.4220, Longitude: -122.0841},
	{Name: "Apple Park", Latitude: 37.3349, Longitude: -122.0090},
	{Name: "Null Island", Latitude: 0, Longitude: 0},
	{Name: "Statue of Liberty", Latitude: 40.6892, Longitude: -74.0445},
	{Name: "Eiffel Tower", Latitude: 48.8584, Longitude: 2.2945},
}

// Sample is a fix prepared for rule evaluation.
type Sample struct {
	Coordinate geo.Coordinate
	Now        time.Time
	LatText    string
	LonText    string
}

func newSample(c geo.Coordinate, now time.Time) Sample {
	return Sample{
		Coordinate: c,
		Now:        now,
		LatText:    formatCoordinate(c.Latitude),
		LonText:    formatCoordinate(c.Longitude),
	}
}

// Rule contributes Score once per hit. Match returns one reason per hit.
type Rule struct {
	Name  string
	Score int
	Match func(s Sample) []string
}

// Detector evaluates samples against its rules.
type Detector struct {
	rules []Rule
	clock func() time.Time
}

type Option func(*Detector)

// WithClock sets the time source used by Assess for capture-age checks.
func WithClock(clock func() time.Time) Option {
	return func(d *Detector) {
		if clock != nil {
			d.clock = clock
		}
	}
}

// WithDecoys replaces the decoy list.
func WithDecoys(decoys []Decoy) Option {
	return func(d *Detector) {
		d.rules = DefaultRules(decoys)
	}
}

// WithRules replaces the whole rule table.
func WithRules(rules []Rule) Option {
	return func(d *Detector) {
		d.rules = rules
	}
}

func New(opts ...Option) *Detector {
	d := &Detector{
		rules: DefaultRules(DefaultDecoys),
		clock: time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Assess scores the sample against the detector clock.
func (d *Detector) Assess(c geo.Coordinate) Assessment {
	return d.AssessAt(c, d.clock())
}

// AssessAt scores the sample as of now.
func (d *Detector) AssessAt(c geo.Coordinate, now time.Time) Assessment {
	sample := newSample(c, now)
	out := Assessment{Reasons: []string{}}
	for _, rule := range d.rules {
		reasons := rule.Match(sample)
		out.RiskScore += rule.Score * len(reasons)
		out.Reasons = append(out.Reasons, reasons...)
	}
	out.RiskLevel = LevelFor(out.RiskScore)
	out.Suspicious = len(out.Reasons) > 0
	return out
}

// DefaultRules builds the standard rule table around the given decoys.
func DefaultRules(decoys []Decoy) []Rule {
	return []Rule{
		{
			Name:  "perfect_accuracy",
			Score: 30,
			Match: func(s Sample) []string {
				if acc := s.Coordinate.AccuracyMeters; acc != nil && *acc < 0.5 {
					return []string{"implausibly perfect accuracy"}
				}
				return nil
			},
		},
		{
			Name:  "high_accuracy",
			Score: 15,
			Match: func(s Sample) []string {
				if acc := s.Coordinate.AccuracyMeters; acc != nil && *acc >= 0.5 && *acc < 2 {
					return []string{"unusually high accuracy"}
				}
				return nil
			},
		},
		{
			Name:  "low_precision",
			Score: 20,
			Match: func(s Sample) []string {
				if decimalDigits(s.LatText) < minDecimalDigits || decimalDigits(s.LonText) < minDecimalDigits {
					return []string{"insufficient coordinate precision"}
				}
				return nil
			},
		},
		{
			Name:  "round_coordinates",
			Score: 25,
			Match: func(s Sample) []string {
				if nearInteger(s.Coordinate.Latitude) || nearInteger(s.Coordinate.Longitude) {
					return []string{"suspiciously round coordinates"}
				}
				return nil
			},
		},
		{
			Name:  "decoy_location",
			Score: 40,
			Match: func(s Sample) []string {
				var hits []string
				for _, decoy := range decoys {
					if geo.Distance(s.Coordinate, geo.At(decoy.Latitude, decoy.Longitude)) <= decoyRadiusMeters {
						hits = append(hits, "matches known test location: "+decoy.Name)
					}
				}
				return hits
			},
		},
		{
			Name:  "injection_timing",
			Score: 15,
			Match: func(s Sample) []string {
				if at := s.Coordinate.CapturedAt; at != nil && s.Now.Sub(*at) < injectionWindow {
					return []string{"possible injection"}
				}
				return nil
			},
		},
		{
			Name:  "stale_capture",
			Score: 10,
			Match: func(s Sample) []string {
				if at := s.Coordinate.CapturedAt; at != nil && s.Now.Sub(*at) > replayWindow {
					return []string{"possible replay"}
				}
				return nil
			},
		},
		{
			Name:  "zero_run",
			Score: 10,
			Match: func(s Sample) []string {
				if strings.Contains(s.LatText, "000") || strings.Contains(s.LonText, "000") {
					return []string{"repeated zero pattern"}
				}
				return nil
			},
		},
	}
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func decimalDigits(s string) int {
	_, frac, ok := strings.Cut(s, ".")
	if !ok {
		return 0
	}
	return len(frac)
}

func nearInteger(v float64) bool {
	return math.Abs(v-math.Round(v)) < roundTolerance
}
