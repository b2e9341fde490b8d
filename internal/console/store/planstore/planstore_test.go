package planstore_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/goedr/console/internal/console/domain"
	"github.com/goedr/console/internal/console/store/planstore"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*planstore.Store, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "db.json")
	s, err := planstore.Open(path)
	require.NoError(t, err)
	return s, path
}

func TestOpen_CreatesEmptyDocument(t *testing.T) {
	s, path := newTestStore(t)

	plans, err := s.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, plans)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.JSONEq(t, `{"plans": []}`, string(data))
}

func TestOpen_RejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := planstore.Open(path)
	require.Error(t, err)
}

func TestAdd_AssignsSequentialIDs(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, total, err := s.Add(ctx, domain.PlanInput{Domain: "example.com"}.Normalize())
	require.NoError(t, err)
	require.Equal(t, 1, first.ID)
	require.Equal(t, 1, total)
	require.False(t, first.CreatedAt.IsZero())

	second, total, err := s.Add(ctx, domain.PlanInput{Problem: "open port"}.Normalize())
	require.NoError(t, err)
	require.Equal(t, 2, second.ID)
	require.Equal(t, 2, total)
}

func TestAdd_AppliesDefaults(t *testing.T) {
	s, _ := newTestStore(t)

	p, _, err := s.Add(context.Background(), domain.PlanInput{Domain: "example.com"}.Normalize())
	require.NoError(t, err)

	require.Equal(t, "example.com", p.Domain)
	require.Equal(t, "default-problem", p.Problem)
	require.Equal(t, "default-plan-id", p.PlanID)
	require.Equal(t, "default-plan-text", p.PlanText)
	require.Equal(t, "default-solution", p.Solution)
}

func TestStore_SurvivesReopen(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Add(ctx, domain.PlanInput{Domain: "example.com"}.Normalize())
	require.NoError(t, err)

	reopened, err := planstore.Open(path)
	require.NoError(t, err)

	plans, err := reopened.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.Equal(t, "example.com", plans[0].Domain)
}

func TestReset(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	_, _, err := s.Add(ctx, domain.PlanInput{}.Normalize())
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	plans, err := s.List(ctx)
	require.NoError(t, err)
	require.Empty(t, plans)
}
