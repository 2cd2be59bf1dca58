package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

func TestParseDate(t *testing.T) {
	got, err := parseDate("2025-08-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC), got)

	got, err = parseDate("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = parseDate("30/08/2025")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "0:07", formatClock(7.4))
	assert.Equal(t, "12:05", formatClock(725))
	assert.Equal(t, "2:00:01", formatClock(7201))
}

func TestAskCmd_Flags(t *testing.T) {
	assert.NotNil(t, askCmd.Flags().Lookup("from"))
	assert.NotNil(t, askCmd.Flags().Lookup("to"))
	assert.NotNil(t, askCmd.Flags().Lookup("speaker"))
	assert.NotNil(t, askCmd.Flags().Lookup("top-k"))
	assert.NotNil(t, askCmd.Flags().Lookup("json"))
}
