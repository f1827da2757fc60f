package main

import (
	"bytes"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/coptic-calendar-api/internal/api"
	"github.com/zapponejosh/coptic-calendar-api/internal/config"
	"github.com/zapponejosh/coptic-calendar-api/internal/dataset"
)

func TestRunner_AgainstServer(t *testing.T) {
	ds, err := dataset.Load("../../data/master_data.json")
	require.NoError(t, err)

	cfg := &config.Config{Env: config.EnvDevelopment, DefaultLang: "ar", MaxRangeDays: 31}
	log := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	srv := httptest.NewServer(api.SetupRoutes(api.NewHandlers(ds, nil, nil, cfg, log), cfg, log))
	defer srv.Close()

	var out bytes.Buffer
	runner := NewTestRunner(srv.URL, 2025, true, &out)
	runner.Run()

	assert.Zero(t, runner.errorCount, out.String())
	assert.Contains(t, out.String(), "365 days (computed)")
	assert.Contains(t, out.String(), "NATIVITY_FAST")
}
