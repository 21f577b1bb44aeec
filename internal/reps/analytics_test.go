package reps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repsense-data/repsense/internal/exercise"
	"github.com/repsense-data/repsense/internal/pose"
)

func TestAnalyze(t *testing.T) {
	t.Parallel()

	seg := RepSegment{
		RepNumber:  2,
		StartFrame: 10,
		EndFrame:   40,
		DurationMs: 999.9,
		AngleSamples: []AngleSample{
			{10, "left_elbow", 150.04},
			{20, "left_elbow", 45.01},
			{30, "left_elbow", 92.5},
			{40, "left_elbow", 149.96},
		},
	}

	got := Analyze(seg, curlConfig())
	assert.Equal(t, 2, got.RepNumber)
	assert.Equal(t, 999.9, got.DurationMs)
	assert.Equal(t, 45.0, got.AngleRange.Min)
	assert.Equal(t, 150.0, got.AngleRange.Max)
	// (150.04 + 45.01 + 92.5 + 149.96) / 4 = 109.3775 -> 109.4
	assert.Equal(t, 109.4, got.AverageAngle)
	// 150.04 - 45.01 = 105.03 -> 105.0
	assert.Equal(t, 105.0, got.RangeOfMotion)

	require.NotNil(t, got.TargetAngles)
	assert.Equal(t, 45.0, got.TargetAngles.Min)
	assert.Equal(t, 150.0, got.TargetAngles.Max)
}

func TestAnalyzeTargetAveraging(t *testing.T) {
	t.Parallel()

	cfg := curlConfig()
	cfg.AngleDefinitions[1].TargetLowAngle = ptr(55)
	cfg.AngleDefinitions[1].TargetHighAngle = ptr(160)

	seg := RepSegment{
		RepNumber:    1,
		AngleSamples: []AngleSample{{0, "left_elbow", 100}},
	}
	got := Analyze(seg, cfg)
	require.NotNil(t, got.TargetAngles)
	// (45+55)/2 and (150+160)/2
	assert.Equal(t, 50.0, got.TargetAngles.Min)
	assert.Equal(t, 155.0, got.TargetAngles.Max)
}

func TestAnalyzeTargetsOmitted(t *testing.T) {
	t.Parallel()

	cfg := &exercise.Config{
		Name: "Jumping Jack",
		AngleDefinitions: []exercise.AngleDefinition{
			{Name: "left_shoulder", Points: [3]int{pose.LeftElbow, pose.LeftShoulder, pose.LeftHip}},
		},
		MinPeakDistance:  8,
		InitialDirection: exercise.DirectionUp,
	}
	require.NoError(t, cfg.Validate())

	seg := RepSegment{
		RepNumber:    1,
		AngleSamples: []AngleSample{{0, "left_shoulder", 20}, {1, "left_shoulder", 170}},
	}
	got := Analyze(seg, cfg)
	assert.Nil(t, got.TargetAngles)
	assert.Equal(t, 150.0, got.RangeOfMotion)
}

func TestAnalyzeNoSamples(t *testing.T) {
	t.Parallel()

	got := Analyze(RepSegment{RepNumber: 4, DurationMs: 500}, curlConfig())
	assert.Equal(t, 4, got.RepNumber)
	assert.Zero(t, got.AngleRange.Min)
	assert.Zero(t, got.AngleRange.Max)
	assert.Zero(t, got.AverageAngle)
	assert.Zero(t, got.RangeOfMotion)
}
