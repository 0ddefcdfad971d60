package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

func TestCollectCmd_Use(t *testing.T) {
	assert.Equal(t, "collect [event description]", collectCmd.Use)
}

func TestCollectCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"collect"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestCollectCmd_PrintsRunReport(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"collect", "garden wedding for 80 guests"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "test-run")
	assert.Contains(t, buf.String(), "Discovered: 3")
	assert.Contains(t, buf.String(), "Stored:     3")
}

func TestCollectCmd_PrintsFailures(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	collectorService = &mockCollectorService{
		report: &domain.RunReport{
			RunID: "run-f",
			Failures: []domain.Failure{
				{Stage: domain.StageDetails, Key: "place-9", Reason: "not found"},
			},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"collect", "garden wedding"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 failures")
	assert.Contains(t, buf.String(), "[details] place-9: not found")
}

func TestCollectCmd_ErrorsWithoutService(t *testing.T) {
	oldService := collectorService
	collectorService = nil
	defer func() {
		collectorService = oldService
	}()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"collect", "garden wedding"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "collector service not configured")
}
