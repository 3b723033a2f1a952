package antispoof

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"spotter/internal/geo"
)

type DetectorSuite struct {
	suite.Suite
	now      time.Time
	detector *Detector
}

func TestDetectorSuite(t *testing.T) {
	suite.Run(t, new(DetectorSuite))
}

func (s *DetectorSuite) SetupTest() {
	s.now = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	s.detector = New(WithClock(func() time.Time { return s.now }))
}

// clean is a precise downtown fix with plausible accuracy and capture age.
func (s *DetectorSuite) clean() geo.Coordinate {
	return geo.At(37.774929, -122.419416).WithAccuracy(8).WithCapturedAt(s.now.Add(-2 * time.Second))
}

func (s *DetectorSuite) TestCleanSampleIsNotSuspicious() {
	a := s.detector.Assess(s.clean())
	s.False(a.Suspicious)
	s.Equal(0, a.RiskScore)
	s.Equal(RiskLow, a.RiskLevel)
	s.Empty(a.Reasons)
	s.NotNil(a.Reasons)
}

func (s *DetectorSuite) TestTokyoDecoy() {
	a := s.detector.Assess(geo.At(35.6762, 139.6503))
	s.True(a.Suspicious)
	s.GreaterOrEqual(a.RiskScore, 40)
	s.Contains(a.Reasons, "matches known test location: Tokyo")
	// four decimal digits also trip the precision rule
	s.Contains(a.Reasons, "insufficient coordinate precision")
	s.Equal(60, a.RiskScore)
	s.Equal(RiskHigh, a.RiskLevel)
}

func (s *DetectorSuite) TestNullIsland() {
	a := s.detector.Assess(geo.At(0, 0))
	s.Equal(20+25+40, a.RiskScore)
	s.Equal(RiskHigh, a.RiskLevel)
	s.Contains(a.Reasons, "suspiciously round coordinates")
}

func (s *DetectorSuite) TestDecoyRadius() {
	s.Run("within 50 m", func() {
		a := s.detector.Assess(geo.At(37.42227, -122.08410))
		s.Contains(a.Reasons, "matches known test location: Googleplex")
	})
	s.Run("outside 50 m", func() {
		a := s.detector.Assess(geo.At(37.42300, -122.08410))
		for _, r := range a.Reasons {
			s.NotContains(r, "Googleplex")
		}
	})
}

func (s *DetectorSuite) TestAccuracyRules() {
	base := geo.At(37.774929, -122.419416)
	cases := []struct {
		name     string
		accuracy float64
		score    int
		reason   string
	}{
		{"perfect", 0.3, 30, "implausibly perfect accuracy"},
		{"boundary 0.5 is high not perfect", 0.5, 15, "unusually high accuracy"},
		{"high", 1.9, 15, "unusually high accuracy"},
		{"normal", 2, 0, ""},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			a := s.detector.Assess(base.WithAccuracy(tc.accuracy))
			s.Equal(tc.score, a.RiskScore)
			if tc.reason != "" {
				s.Equal([]string{tc.reason}, a.Reasons)
			}
		})
	}
}

func (s *DetectorSuite) TestPerfectAccuracyAloneIsMediumRisk() {
	a := s.detector.Assess(geo.At(37.774929, -122.419416).WithAccuracy(0.1))
	s.Equal(RiskMedium, a.RiskLevel)
}

func (s *DetectorSuite) TestCaptureAge() {
	base := geo.At(37.774929, -122.419416).WithAccuracy(8)
	cases := []struct {
		name   string
		age    time.Duration
		score  int
		reason string
	}{
		{"fresh injection", 50 * time.Millisecond, 15, "possible injection"},
		{"future timestamp", -time.Second, 15, "possible injection"},
		{"exactly 100 ms", 100 * time.Millisecond, 0, ""},
		{"exactly 60 s", 60 * time.Second, 0, ""},
		{"stale", 61 * time.Second, 10, "possible replay"},
	}
	for _, tc := range cases {
		s.Run(tc.name, func() {
			a := s.detector.Assess(base.WithCapturedAt(s.now.Add(-tc.age)))
			s.Equal(tc.score, a.RiskScore)
			if tc.reason != "" {
				s.Contains(a.Reasons, tc.reason)
			}
		})
	}
}

func (s *DetectorSuite) TestZeroRun() {
	a := s.detector.Assess(geo.At(37.70001, -122.41941).WithAccuracy(8))
	s.Equal(10, a.RiskScore)
	s.Equal([]string{"repeated zero pattern"}, a.Reasons)
	s.True(a.Suspicious)
	s.Equal(RiskLow, a.RiskLevel)
}

func (s *DetectorSuite) TestDeterministic() {
	c := geo.At(35.6762, 139.6503).WithAccuracy(0.2)
	s.Equal(s.detector.AssessAt(c, s.now), s.detector.AssessAt(c, s.now))
}

func (s *DetectorSuite) TestCustomDecoys() {
	d := New(WithDecoys([]Decoy{{Name: "Lab", Latitude: 51.50722, Longitude: -0.12750}}))
	a := d.AssessAt(geo.At(51.50722, -0.12750), s.now)
	s.Contains(a.Reasons, "matches known test location: Lab")

	// default decoys no longer apply
	b := d.AssessAt(geo.At(35.676200, 139.650300), s.now)
	for _, r := range b.Reasons {
		s.NotContains(r, "Tokyo")
	}
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, RiskLow, LevelFor(0))
	assert.Equal(t, RiskLow, LevelFor(24))
	assert.Equal(t, RiskMedium, LevelFor(25))
	assert.Equal(t, RiskMedium, LevelFor(49))
	assert.Equal(t, RiskHigh, LevelFor(50))
}

func TestWithRules(t *testing.T) {
	always := Rule{Name: "always", Score: 7, Match: func(Sample) []string { return []string{"a", "b"} }}
	d := New(WithRules([]Rule{always}))
	a := d.Assess(geo.At(10.123456, 20.123456))
	require.Equal(t, 14, a.RiskScore)
	assert.Equal(t, []string{"a", "b"}, a.Reasons)
}
