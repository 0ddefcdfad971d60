package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

func TestVendorsCmd_HasCategoryFlag(t *testing.T) {
	flag := vendorsCmd.Flags().Lookup("category")
	require.NotNil(t, flag, "category flag should exist")
	assert.Equal(t, "c", flag.Shorthand)
}

func TestVendorsCmd_ListsVendors(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	plannerService = &mockPlannerService{
		vendors: []domain.Vendor{
			{ID: "p1", Name: "Bloom Florals", Category: "florist", Rating: 4.5, UserRatingCount: 30},
		},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"vendors"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Bloom Florals")
	assert.Contains(t, buf.String(), "1 vendors")
}

func TestVendorsCmd_EmptyStore(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"vendors"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No vendors stored.")
}
