package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

// loadMaster loads the shipped master dataset.
func loadMaster(t *testing.T) *dataset.Master {
	t.Helper()

	ds, err := dataset.Load("../../data/master_data.json")
	require.NoError(t, err)
	return ds
}

// date parses a YYYY-MM-DD literal.
func date(t *testing.T, s string) time.Time {
	t.Helper()

	d, err := ParseDateString(s)
	require.NoError(t, err)
	return d
}
