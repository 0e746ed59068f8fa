package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/gasflow/internal/config"
	"github.com/mmeshcher/gasflow/internal/model"
)

type stubOps struct {
	createdUsername string
	createdRole     model.Role
	cutoff          *time.Time
	day             *time.Time
	closed          bool
	err             error
}

func (s *stubOps) CreateUser(_ context.Context, username, _ string, role model.Role) (*model.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.createdUsername = username
	s.createdRole = role
	return &model.User{ID: uuid.New(), Username: username, Role: role}, nil
}

func (s *stubOps) StockSummary(_ context.Context, cutoff *time.Time) (model.StockSummary, error) {
	s.cutoff = cutoff
	return model.StockSummary{
		Date:                  cutoff,
		InboundFull:           100,
		DeliveredFull:         40,
		RecoveredEmpty:        10,
		EstimatedFullOnHand:   60,
		EstimatedEmptyAtDepot: 10,
		PendingRecovery:       30,
	}, nil
}

func (s *stubOps) DailyReport(_ context.Context, day *time.Time) (model.DailyReport, error) {
	s.day = day
	d := time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC)
	if day != nil {
		d = *day
	}
	return model.DailyReport{Date: d, Deliveries: 2, DeliveredFull: 5, RecoveredEmpty: 3, Pending: 2}, nil
}

func (s *stubOps) Close() error {
	s.closed = true
	return nil
}

func run(t *testing.T, ops *stubOps, args ...string) (map[string]any, error) {
	t.Helper()
	t.Setenv("DATABASE_URI", "postgres://localhost/gasflow")

	var out bytes.Buffer
	b := backend{
		open: func(*config.Config) (operations, error) { return ops, nil },
		migrate: func(context.Context, *config.Config) (int64, error) {
			return 1, nil
		},
	}
	cmd := newRootCmd(&out, b)
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err != nil {
		return nil, err
	}

	var got map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &got))
	return got, nil
}

func TestMigrate(t *testing.T) {
	got, err := run(t, &stubOps{}, "migrate")
	require.NoError(t, err)
	assert.EqualValues(t, 1, got["schema_version"])
}

func TestMigrateRequiresDatabaseURI(t *testing.T) {
	t.Setenv("DATABASE_URI", "")

	cmd := newRootCmd(&bytes.Buffer{}, backend{})
	cmd.SetArgs([]string{"migrate"})
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database URI is required")
}

func TestUserCreate(t *testing.T) {
	ops := &stubOps{}
	got, err := run(t, ops, "user", "create", "--username", "maria", "--password", "secret1", "--role", "ADMIN")
	require.NoError(t, err)

	assert.Equal(t, "maria", ops.createdUsername)
	assert.Equal(t, model.RoleAdmin, ops.createdRole)
	assert.Equal(t, "maria", got["username"])
	assert.Equal(t, "ADMIN", got["role"])
	assert.True(t, ops.closed)
}

func TestUserCreateDefaultsToDriver(t *testing.T) {
	ops := &stubOps{}
	_, err := run(t, ops, "user", "create", "--username", "juan", "--password", "secret1")
	require.NoError(t, err)
	assert.Equal(t, model.RoleDriver, ops.createdRole)
}

func TestUserCreateError(t *testing.T) {
	ops := &stubOps{err: errors.New("boom")}
	_, err := run(t, ops, "user", "create", "--username", "juan", "--password", "secret1")
	require.EqualError(t, err, "boom")
	assert.True(t, ops.closed)
}

func TestUserCreateRequiresFlags(t *testing.T) {
	_, err := run(t, &stubOps{}, "user", "create", "--username", "juan")
	require.Error(t, err)
}

func TestReportDaily(t *testing.T) {
	ops := &stubOps{}
	got, err := run(t, ops, "report", "daily", "--date", "2026-03-01")
	require.NoError(t, err)

	require.NotNil(t, ops.day)
	assert.Equal(t, "2026-03-01", ops.day.Format(model.DateLayout))
	assert.Equal(t, "2026-03-01", got["date"])
	assert.EqualValues(t, 2, got["entregas_dia"])
	assert.EqualValues(t, 5, got["llenas_entregadas"])
	assert.EqualValues(t, 3, got["vacias_recibidas"])
	assert.EqualValues(t, 2, got["pendiente"])
}

func TestReportDailyDefaultsToToday(t *testing.T) {
	ops := &stubOps{}
	_, err := run(t, ops, "report", "daily")
	require.NoError(t, err)
	assert.Nil(t, ops.day)
}

func TestReportDailyRejectsBadDate(t *testing.T) {
	_, err := run(t, &stubOps{}, "report", "daily", "--date", "01/03/2026")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrValidation)
}

func TestReportStock(t *testing.T) {
	ops := &stubOps{}
	got, err := run(t, ops, "report", "stock")
	require.NoError(t, err)

	assert.Nil(t, ops.cutoff)
	assert.Nil(t, got["date"])
	assert.EqualValues(t, 100, got["inbound_llenas"])
	assert.EqualValues(t, 60, got["llenas_disponibles_estimadas"])
	assert.EqualValues(t, 10, got["vacias_deposito_estimadas"])
	assert.EqualValues(t, 30, got["pendientes_recuperar"])
}

func TestReportStockWithCutoff(t *testing.T) {
	ops := &stubOps{}
	got, err := run(t, ops, "report", "stock", "--date", "2026-02-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-10", got["date"])
}
