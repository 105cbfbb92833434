// Backend lifecycle tests and shared test fixtures.
package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

// setupBackend creates an attached Backend over a temporary directory.
func setupBackend(t *testing.T) *Backend {
	t.Helper()
	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	require.NoError(t, b.Attach(config))
	t.Cleanup(func() { b.Detach() })
	return b
}

// mustInsert creates a node and fails the test on error.
func mustInsert(t *testing.T, b *Backend, parent *string, name, kind string) string {
	t.Helper()
	id, err := b.Insert(context.Background(), parent, &types.Node{Name: name, Kind: kind})
	require.NoError(t, err)
	return id
}

// orgTree is the canonical test fixture: A -> B, B -> C, B -> D.
type orgTree struct {
	a, b, c, d string
}

// buildOrgTree creates the fixture tree and returns its node IDs.
func buildOrgTree(t *testing.T, b *Backend) orgTree {
	t.Helper()
	a := mustInsert(t, b, nil, "A", "umbrella")
	bID := mustInsert(t, b, &a, "B", "region")
	c := mustInsert(t, b, &bID, "C", "site")
	d := mustInsert(t, b, &bID, "D", "site")
	return orgTree{a: a, b: bID, c: c, d: d}
}

// ids extracts node IDs from a node slice, preserving order.
func ids(nodes []*types.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.NodeID
	}
	return out
}

func TestAttachDetach(t *testing.T) {
	t.Run("attach then detach succeeds", func(t *testing.T) {
		b := NewBackend()
		config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
		require.NoError(t, b.Attach(config))
		require.NoError(t, b.Detach())
	})

	t.Run("second attach fails", func(t *testing.T) {
		b := setupBackend(t)
		err := b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
		assert.ErrorIs(t, err, types.ErrAlreadyAttached)
	})

	t.Run("detach is idempotent", func(t *testing.T) {
		b := NewBackend()
		config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
		require.NoError(t, b.Attach(config))
		require.NoError(t, b.Detach())
		require.NoError(t, b.Detach())
	})

	t.Run("operations after detach return ErrDetached", func(t *testing.T) {
		b := NewBackend()
		config := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
		require.NoError(t, b.Attach(config))
		require.NoError(t, b.Detach())

		_, err := b.Get(context.Background(), "anything")
		assert.ErrorIs(t, err, types.ErrDetached)
		_, err = b.Insert(context.Background(), nil, &types.Node{Name: "x"})
		assert.ErrorIs(t, err, types.ErrDetached)
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		b := NewBackend()
		err := b.Attach(types.Config{Backend: "postgres"})
		assert.ErrorIs(t, err, types.ErrBackendUnknown)
	})
}

func TestDataSurvivesReattach(t *testing.T) {
	dataDir := t.TempDir()
	ctx := context.Background()

	b := NewBackend()
	config := types.Config{Backend: types.BackendSQLite, DataDir: dataDir}
	require.NoError(t, b.Attach(config))

	root := mustInsert(t, b, nil, "Persistent root", "umbrella")
	child := mustInsert(t, b, &root, "Persistent child", "site")
	require.NoError(t, b.Detach())

	b2 := NewBackend()
	require.NoError(t, b2.Attach(config))
	t.Cleanup(func() { b2.Detach() })

	got, err := b2.Get(ctx, child)
	require.NoError(t, err)
	assert.Equal(t, "Persistent child", got.Name)

	parent, err := b2.Parent(ctx, child)
	require.NoError(t, err)
	require.NotNil(t, parent)
	assert.Equal(t, root, parent.NodeID)
}
