// Tests for role grants and the administered-nodes query.
package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func TestGrantRevoke(t *testing.T) {
	ctx := context.Background()

	t.Run("grant then list", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		id, err := b.Grant(ctx, "alice", "coordinator", tree.b)
		require.NoError(t, err)
		require.NotEmpty(t, id)

		grants, err := b.GrantsFor(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, grants, 1)
		assert.Equal(t, "coordinator", grants[0].Role)
		assert.Equal(t, tree.b, grants[0].NodeID)
	})

	t.Run("granting the same triple twice returns the existing grant", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		first, err := b.Grant(ctx, "alice", "coordinator", tree.b)
		require.NoError(t, err)
		second, err := b.Grant(ctx, "alice", "coordinator", tree.b)
		require.NoError(t, err)
		assert.Equal(t, first, second)

		grants, err := b.GrantsFor(ctx, "alice")
		require.NoError(t, err)
		assert.Len(t, grants, 1)
	})

	t.Run("grant at missing node fails", func(t *testing.T) {
		b := setupBackend(t)
		_, err := b.Grant(ctx, "alice", "coordinator", "no-such-node")
		assert.ErrorIs(t, err, types.ErrNotFound)
	})

	t.Run("superadmin grants take no node", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		_, err := b.Grant(ctx, "ops", types.RoleSuperadmin, tree.a)
		assert.ErrorIs(t, err, types.ErrInvalidData)

		_, err = b.Grant(ctx, "ops", types.RoleSuperadmin, "")
		require.NoError(t, err)
	})

	t.Run("revoke removes the grant", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		id, err := b.Grant(ctx, "alice", "coordinator", tree.b)
		require.NoError(t, err)
		require.NoError(t, b.Revoke(ctx, id))

		grants, err := b.GrantsFor(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, grants)

		assert.ErrorIs(t, b.Revoke(ctx, id), types.ErrNotFound)
	})
}

func TestAdministeredBy(t *testing.T) {
	ctx := context.Background()

	t.Run("grant covers the whole subtree", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		_, err := b.Grant(ctx, "alice", "coordinator", tree.b)
		require.NoError(t, err)

		nodes, err := b.AdministeredBy(ctx, "alice")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{tree.b, tree.c, tree.d}, ids(nodes))
	})

	t.Run("overlapping grants are deduplicated", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		_, err := b.Grant(ctx, "alice", "coordinator", tree.b)
		require.NoError(t, err)
		_, err = b.Grant(ctx, "alice", "site coordinator", tree.c)
		require.NoError(t, err)

		nodes, err := b.AdministeredBy(ctx, "alice")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{tree.b, tree.c, tree.d}, ids(nodes))
	})

	t.Run("superadmin administers everything", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		_, err := b.Grant(ctx, "ops", types.RoleSuperadmin, "")
		require.NoError(t, err)

		nodes, err := b.AdministeredBy(ctx, "ops")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{tree.a, tree.b, tree.c, tree.d}, ids(nodes))
	})

	t.Run("subject without grants administers nothing", func(t *testing.T) {
		b := setupBackend(t)
		buildOrgTree(t, b)

		nodes, err := b.AdministeredBy(ctx, "nobody")
		require.NoError(t, err)
		assert.Empty(t, nodes)
	})

	t.Run("results are ordered by name", func(t *testing.T) {
		b := setupBackend(t)
		root := mustInsert(t, b, nil, "root", "umbrella")
		z := mustInsert(t, b, &root, "zulu", "site")
		m := mustInsert(t, b, &root, "mike", "site")

		_, err := b.Grant(ctx, "alice", "coordinator", root)
		require.NoError(t, err)

		nodes, err := b.AdministeredBy(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, []string{m, root, z}, ids(nodes))
	})

	t.Run("deleting a subtree removes its grants", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		_, err := b.Grant(ctx, "alice", "coordinator", tree.c)
		require.NoError(t, err)
		require.NoError(t, b.Delete(ctx, tree.b, true))

		grants, err := b.GrantsFor(ctx, "alice")
		require.NoError(t, err)
		assert.Empty(t, grants)
		require.NoError(t, b.Verify(ctx))
	})
}
