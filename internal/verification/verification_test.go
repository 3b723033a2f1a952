package verification

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spotter/internal/geo"
)

// metersNorth offsets a point by roughly d meters of latitude.
func metersNorth(p geo.Coordinate, d float64) geo.Coordinate {
	return geo.At(p.Latitude+d/(2*math.Pi*geo.EarthRadiusMeters/360), p.Longitude)
}

var venue = geo.At(37.7749, -122.4194)

func TestConfidenceFor(t *testing.T) {
	tests := []struct {
		accuracy float64
		want     Confidence
	}{
		{0, ConfidenceHigh},
		{8, ConfidenceHigh},
		{8.01, ConfidenceMedium},
		{20, ConfidenceMedium},
		{20.01, ConfidenceLow},
		{MissingAccuracyMeters, ConfidenceLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ConfidenceFor(tt.accuracy), "accuracy %v", tt.accuracy)
	}
}

func TestMaxAllowedDistance(t *testing.T) {
	tests := []struct {
		name     string
		accuracy float64
		want     float64
	}{
		{"perfect fix", 0, 80},
		{"tight bracket", 6, 83},
		{"tight bracket edge", 10, 85},
		{"middle bracket", 25, 100},
		{"middle bracket capped", 30, 104},
		{"wide bracket", 35, 115},
		{"wide bracket capped", 500, 120},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, MaxAllowedDistance(80, tt.accuracy, nil), 1e-9)
		})
	}
}

func TestVerify_Scenarios(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("45 m away with 6 m accuracy is valid and high confidence", func(t *testing.T) {
		v := Verify(metersNorth(venue, 45).WithAccuracy(6), venue, cfg)
		assert.True(t, v.IsValid)
		assert.Equal(t, ConfidenceHigh, v.Confidence)
		assert.InDelta(t, 45, v.DistanceMeters, 0.5)
		assert.InDelta(t, 83, v.MaxAllowedMeters, 1e-9)
	})

	t.Run("90 m away with 25 m accuracy is low confidence under default ceilings", func(t *testing.T) {
		v := Verify(metersNorth(venue, 90).WithAccuracy(25), venue, cfg)
		assert.False(t, v.IsValid)
		assert.Equal(t, ConfidenceLow, v.Confidence)
		assert.InDelta(t, 100, v.MaxAllowedMeters, 1e-9)
	})

	t.Run("90 m away with 25 m accuracy is valid once the medium ceiling covers it", func(t *testing.T) {
		relaxed := cfg
		relaxed.MediumConfidenceAccuracy = 30
		v := Verify(metersNorth(venue, 90).WithAccuracy(25), venue, relaxed)
		assert.True(t, v.IsValid)
		assert.Equal(t, ConfidenceMedium, v.Confidence)
	})

	t.Run("90 m away with 15 m accuracy is valid at medium confidence", func(t *testing.T) {
		v := Verify(metersNorth(venue, 90).WithAccuracy(15), venue, cfg)
		assert.True(t, v.IsValid)
		assert.Equal(t, ConfidenceMedium, v.Confidence)
		assert.InDelta(t, 92, v.MaxAllowedMeters, 1e-9)
	})

	t.Run("missing accuracy is treated as worst case", func(t *testing.T) {
		v := Verify(venue, venue, cfg)
		assert.False(t, v.IsValid)
		assert.Equal(t, MissingAccuracyMeters, v.AccuracyMeters)
		assert.Equal(t, ConfidenceLow, v.Confidence)
		assert.InDelta(t, 120, v.MaxAllowedMeters, 1e-9)
	})

	t.Run("too far", func(t *testing.T) {
		v := Verify(metersNorth(venue, 150).WithAccuracy(5), venue, cfg)
		assert.False(t, v.IsValid)
	})

	t.Run("accuracy above requirement fails even when close", func(t *testing.T) {
		strict := cfg
		strict.RequiredAccuracy = 5
		v := Verify(venue.WithAccuracy(6), venue, strict)
		assert.False(t, v.IsValid)
		assert.Equal(t, ConfidenceHigh, v.Confidence)
	})

	t.Run("high accuracy hint does not change the verdict", func(t *testing.T) {
		off := cfg
		off.EnableHighAccuracy = false
		user := metersNorth(venue, 45).WithAccuracy(6)
		assert.Equal(t, Verify(user, venue, cfg), Verify(user, venue, off))
	})
}

func TestVerify_MonotonicInDistance(t *testing.T) {
	cfg := DefaultConfig()
	for _, acc := range []float64{2, 8, 12, 20} {
		seenInvalid := false
		for d := 0.0; d <= 200; d += 5 {
			v := Verify(metersNorth(venue, d).WithAccuracy(acc), venue, cfg)
			if !v.IsValid {
				seenInvalid = true
				continue
			}
			assert.False(t, seenInvalid, "accuracy %v: valid at %v m after an invalid closer distance", acc, d)
		}
	}
}

func TestVerify_MonotonicInAccuracy(t *testing.T) {
	cfg := DefaultConfig()
	user := metersNorth(venue, 60)
	seenInvalid := false
	for acc := 0.0; acc <= 40; acc += 0.5 {
		v := Verify(user.WithAccuracy(acc), venue, cfg)
		if !v.IsValid {
			seenInvalid = true
			continue
		}
		assert.False(t, seenInvalid, "valid at accuracy %v after a sharper fix was rejected", acc)
	}
}

func TestVerdict_Explain(t *testing.T) {
	v := Verdict{DistanceMeters: 152.4, MaxAllowedMeters: 85, AccuracyMeters: 10}
	assert.Equal(t, "you are 152 m from the venue (max 85 m); GPS accuracy 10 m", v.Explain())
}

func TestParseBrackets(t *testing.T) {
	t.Run("round trips the defaults", func(t *testing.T) {
		got, err := ParseBrackets("10:0.5:10, 30:0.8:25, inf:1:40")
		require.NoError(t, err)
		assert.Equal(t, DefaultBrackets, got)
	})

	t.Run("empty means defaults", func(t *testing.T) {
		got, err := ParseBrackets("  ")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		for _, in := range []string{"10:0.5", "x:1:1", "30:1:1,10:1:1", "10:-1:5"} {
			_, err := ParseBrackets(in)
			assert.Error(t, err, in)
		}
	})

	t.Run("custom brackets change the radius", func(t *testing.T) {
		brackets, err := ParseBrackets("50:2:100")
		require.NoError(t, err)
		assert.InDelta(t, 100, MaxAllowedDistance(80, 10, brackets), 1e-9)
	})
}
