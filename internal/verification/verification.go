// Package verification decides whether a reported position is close enough to
// a venue, widening the allowed radius for noisy fixes.
package verification

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"spotter/internal/geo"
)

// MissingAccuracyMeters stands in for fixes that report no accuracy.
const MissingAccuracyMeters = 999.0

const (
	DefaultHighConfidenceAccuracy   = 8.0
	DefaultMediumConfidenceAccuracy = 20.0
)

type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Bracket widens the allowed distance by min(accuracy*Factor, Cap) for fixes
// whose accuracy is at most UpTo meters.
type Bracket struct {
	UpTo   float64
	Factor float64
	Cap    float64
}

// DefaultBrackets apply when Config.Brackets is empty.
var DefaultBrackets = []Bracket{
	{UpTo: 10, Factor: 0.5, Cap: 10},
	{UpTo: 30, Factor: 0.8, Cap: 25},
	{UpTo: math.Inf(1), Factor: 1.0, Cap: 40},
}

type Config struct {
	BaseMaxDistance  float64
	RequiredAccuracy float64
	// EnableHighAccuracy is echoed to clients so they request a precise fix on
	// retry. It does not affect the verdict.
	EnableHighAccuracy bool
	Brackets           []Bracket
	// Confidence ceilings; zero means the package default.
	HighConfidenceAccuracy   float64
	MediumConfidenceAccuracy float64
}

func DefaultConfig() Config {
	return Config{
		BaseMaxDistance:          80,
		RequiredAccuracy:         30,
		EnableHighAccuracy:       true,
		Brackets:                 DefaultBrackets,
		HighConfidenceAccuracy:   DefaultHighConfidenceAccuracy,
		MediumConfidenceAccuracy: DefaultMediumConfidenceAccuracy,
	}
}

type Verdict struct {
	IsValid          bool       `json:"is_valid"`
	DistanceMeters   float64    `json:"distance_meters"`
	MaxAllowedMeters float64    `json:"max_allowed_meters"`
	AccuracyMeters   float64    `json:"accuracy_meters"`
	Confidence       Confidence `json:"confidence"`
}

// Verify computes the verdict for a user fix against a venue location.
func Verify(user, venue geo.Coordinate, cfg Config) Verdict {
	distance := geo.Distance(user, venue)

	accuracy := MissingAccuracyMeters
	if user.AccuracyMeters != nil {
		accuracy = *user.AccuracyMeters
	}

	confidence := cfg.ConfidenceFor(accuracy)
	maxAllowed := MaxAllowedDistance(cfg.BaseMaxDistance, accuracy, cfg.Brackets)

	return Verdict{
		IsValid: distance <= maxAllowed &&
			accuracy <= cfg.RequiredAccuracy &&
			confidence != ConfidenceLow,
		DistanceMeters:   distance,
		MaxAllowedMeters: maxAllowed,
		AccuracyMeters:   accuracy,
		Confidence:       confidence,
	}
}

// ConfidenceFor buckets accuracy with the default ceilings.
func ConfidenceFor(accuracy float64) Confidence {
	return Config{}.ConfidenceFor(accuracy)
}

// ConfidenceFor buckets accuracy with the configured ceilings.
func (c Config) ConfidenceFor(accuracy float64) Confidence {
	high := c.HighConfidenceAccuracy
	if high == 0 {
		high = DefaultHighConfidenceAccuracy
	}
	medium := c.MediumConfidenceAccuracy
	if medium == 0 {
		medium = DefaultMediumConfidenceAccuracy
	}
	switch {
	case accuracy <= high:
		return ConfidenceHigh
	case accuracy <= medium:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// MaxAllowedDistance applies the first bracket whose UpTo covers accuracy.
// Accuracy beyond every bracket gets the last one.
func MaxAllowedDistance(base, accuracy float64, brackets []Bracket) float64 {
	if len(brackets) == 0 {
		brackets = DefaultBrackets
	}
	b := brackets[len(brackets)-1]
	for _, candidate := range brackets {
		if accuracy <= candidate.UpTo {
			b = candidate
			break
		}
	}
	return base + math.Min(accuracy*b.Factor, b.Cap)
}

// Explain renders the user-facing denial message with the verdict numbers.
func (v Verdict) Explain() string {
	return fmt.Sprintf("you are %.0f m from the venue (max %.0f m); GPS accuracy %.0f m",
		v.DistanceMeters, v.MaxAllowedMeters, v.AccuracyMeters)
}

// ParseBrackets reads "upTo:factor:cap" triples separated by commas, e.g.
// "10:0.5:10,30:0.8:25,inf:1:40". Brackets must be in increasing UpTo order.
func ParseBrackets(s string) ([]Bracket, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Bracket, 0, len(parts))
	prev := math.Inf(-1)
	for _, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), ":")
		if len(fields) != 3 {
			return nil, fmt.Errorf("bracket %q: want upTo:factor:cap", part)
		}
		var nums [3]float64
		for i, f := range fields {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("bracket %q: %w", part, err)
			}
			nums[i] = v
		}
		if nums[0] <= prev {
			return nil, fmt.Errorf("bracket %q: upTo must increase", part)
		}
		if nums[1] < 0 || nums[2] < 0 {
			return nil, fmt.Errorf("bracket %q: factor and cap must be non-negative", part)
		}
		prev = nums[0]
		out = append(out, Bracket{UpTo: nums[0], Factor: nums[1], Cap: nums[2]})
	}
	return out, nil
}
