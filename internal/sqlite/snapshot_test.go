package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := setupBackend(t)
	tree := buildOrgTree(t, src)
	_, err := src.Grant(ctx, "alice@example.com", "admin", tree.b)
	require.NoError(t, err)

	dir := t.TempDir()
	require.NoError(t, src.Export(ctx, dir))

	for _, name := range []string{nodesFile, edgesFile, grantsFile} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	dst := setupBackend(t)
	mustInsert(t, dst, nil, "Leftover", "umbrella")
	require.NoError(t, dst.Import(ctx, dir))

	// Pre-import contents are gone, snapshot contents are back.
	roots, err := dst.Roots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, tree.a, roots[0].NodeID)

	got, err := dst.Get(ctx, tree.c)
	require.NoError(t, err)
	assert.Equal(t, "C", got.Name)
	assert.Equal(t, "site", got.Kind)

	ancestors, err := dst.Ancestors(ctx, tree.c, types.Proper)
	require.NoError(t, err)
	assert.Equal(t, []string{tree.b, tree.a}, ids(ancestors))

	administered, err := dst.AdministeredBy(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tree.b, tree.c, tree.d}, ids(administered))

	require.NoError(t, dst.Verify(ctx))
}

func TestImportRejectsBrokenSnapshot(t *testing.T) {
	ctx := context.Background()
	src := setupBackend(t)
	buildOrgTree(t, src)

	dir := t.TempDir()
	require.NoError(t, src.Export(ctx, dir))

	// Drop the closure file entirely so every node is missing its
	// self-edge.
	require.NoError(t, os.WriteFile(filepath.Join(dir, edgesFile), nil, 0o644))

	dst := setupBackend(t)
	keep := mustInsert(t, dst, nil, "Keep me", "umbrella")

	err := dst.Import(ctx, dir)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrIntegrity)

	// The failed import left the store untouched.
	got, err := dst.Get(ctx, keep)
	require.NoError(t, err)
	assert.Equal(t, "Keep me", got.Name)
	require.NoError(t, dst.Verify(ctx))
}

func TestImportMissingFile(t *testing.T) {
	ctx := context.Background()
	dst := setupBackend(t)

	err := dst.Import(ctx, t.TempDir())
	require.Error(t, err)
}
