package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sma-intervention-api/internal/models"
)

func runAssess(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newAssessCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAssessCommandPrintsRecommendation(t *testing.T) {
	out, err := runAssess(t, "--student", "stu-1", "--domain", "hallways", "--demerit", "--occurrences", "3")
	require.NoError(t, err)

	assert.Contains(t, out, "Incident stu-1 / hallways")
	assert.Contains(t, out, "Recommended level: Tier B")
	assert.Contains(t, out, "demerit_assigned")
	assert.Contains(t, out, "third occurrence")
}

func TestAssessCommandOverrideJSON(t *testing.T) {
	out, err := runAssess(t, "--student", "stu-1", "--domain", "hallways", "--peer-impact", "--prior-level-b", "2", "--json")
	require.NoError(t, err)

	var result models.AssessmentResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, models.LevelC, result.RecommendedLevel)
	assert.True(t, result.IsOverride)
	assert.NotEmpty(t, result.Summary)
}

func TestAssessCommandRequiresStudent(t *testing.T) {
	_, err := runAssess(t, "--domain", "hallways")
	require.Error(t, err)
}
