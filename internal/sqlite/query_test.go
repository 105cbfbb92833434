// Tests for the read-side queries.
package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/arbor/pkg/types"
)

func TestAncestors(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered nearest first", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		ancestors, err := b.Ancestors(ctx, tree.c, types.Proper)
		require.NoError(t, err)
		assert.Equal(t, []string{tree.b, tree.a}, ids(ancestors))
	})

	t.Run("root has no proper ancestors", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		ancestors, err := b.Ancestors(ctx, tree.a, types.Proper)
		require.NoError(t, err)
		assert.Empty(t, ancestors)
	})

	t.Run("depth bounds select a slice of the chain", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		tests := []struct {
			name  string
			depth types.DepthRange
			want  []string
		}{
			{"whole chain with self", types.Whole, []string{tree.c, tree.b, tree.a}},
			{"immediate only", types.Immediate, []string{tree.b}},
			{"skip the parent", types.DepthRange{Min: 2}, []string{tree.a}},
			{"negative min clamps to zero", types.DepthRange{Min: -3, Max: 0}, []string{tree.c, tree.b, tree.a}},
			{"empty window", types.DepthRange{Min: 5, Max: 9}, nil},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				got, err := b.Ancestors(ctx, tree.c, tc.depth)
				require.NoError(t, err)
				if tc.want == nil {
					assert.Empty(t, got)
				} else {
					assert.Equal(t, tc.want, ids(got))
				}
			})
		}
	})

	t.Run("missing node fails", func(t *testing.T) {
		b := setupBackend(t)
		_, err := b.Ancestors(ctx, "no-such-node", types.Proper)
		assert.ErrorIs(t, err, types.ErrNotFound)
	})
}

func TestDescendants(t *testing.T) {
	ctx := context.Background()

	t.Run("ordered by depth, node first in subtree", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		subtree, err := b.Subtree(ctx, tree.a)
		require.NoError(t, err)
		require.Len(t, subtree, 4)
		assert.Equal(t, tree.a, subtree[0].NodeID)
		assert.Equal(t, tree.b, subtree[1].NodeID)
		assert.ElementsMatch(t, []string{tree.c, tree.d}, ids(subtree[2:]))
	})

	t.Run("leaf subtree is just the leaf", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		subtree, err := b.Subtree(ctx, tree.d)
		require.NoError(t, err)
		assert.Equal(t, []string{tree.d}, ids(subtree))
	})

	t.Run("children are depth-one descendants", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		children, err := b.Children(ctx, tree.a)
		require.NoError(t, err)
		assert.Equal(t, []string{tree.b}, ids(children))

		children, err = b.Children(ctx, tree.b)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{tree.c, tree.d}, ids(children))
	})
}

func TestParentAndRoots(t *testing.T) {
	ctx := context.Background()

	t.Run("parent walks one step up", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		parent, err := b.Parent(ctx, tree.c)
		require.NoError(t, err)
		require.NotNil(t, parent)
		assert.Equal(t, tree.b, parent.NodeID)
	})

	t.Run("root parent is nil", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)

		parent, err := b.Parent(ctx, tree.a)
		require.NoError(t, err)
		assert.Nil(t, parent)
	})

	t.Run("roots lists only parentless nodes ordered by name", func(t *testing.T) {
		b := setupBackend(t)
		tree := buildOrgTree(t, b)
		z := mustInsert(t, b, nil, "Z root", "umbrella")
		m := mustInsert(t, b, nil, "M root", "umbrella")

		roots, err := b.Roots(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{tree.a, m, z}, ids(roots))
	})
}

func TestIsDescendantOf(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	tree := buildOrgTree(t, b)

	tests := []struct {
		name     string
		node     string
		ancestor string
		want     bool
	}{
		{"grandchild is a descendant", tree.c, tree.a, true},
		{"child is a descendant", tree.b, tree.a, true},
		{"self is not a proper descendant", tree.b, tree.b, false},
		{"ancestor is not a descendant", tree.a, tree.c, false},
		{"siblings are unrelated", tree.c, tree.d, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := b.IsDescendantOf(ctx, tc.node, tc.ancestor)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestKindQueries(t *testing.T) {
	ctx := context.Background()

	// umbrella -> region -> region -> site
	b := setupBackend(t)
	top := mustInsert(t, b, nil, "Top", "umbrella")
	outer := mustInsert(t, b, &top, "Outer region", "region")
	inner := mustInsert(t, b, &outer, "Inner region", "region")
	site := mustInsert(t, b, &inner, "Site", "site")

	t.Run("first ancestor of kind picks the one closest to the root", func(t *testing.T) {
		got, err := b.FirstAncestorOfKind(ctx, site, "region")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, outer, got.NodeID)
	})

	t.Run("first descendant of kind picks the nearest", func(t *testing.T) {
		got, err := b.FirstDescendantOfKind(ctx, top, "region")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, outer, got.NodeID)
	})

	t.Run("no match returns nil without error", func(t *testing.T) {
		got, err := b.FirstAncestorOfKind(ctx, site, "galaxy")
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = b.FirstDescendantOfKind(ctx, site, "region")
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestRegionSplitScenario(t *testing.T) {
	// Build A -> B -> {C, D}, then move B under a new root E and check
	// each side of the split.
	ctx := context.Background()
	b := setupBackend(t)
	tree := buildOrgTree(t, b)

	ancestors, err := b.Ancestors(ctx, tree.c, types.Proper)
	require.NoError(t, err)
	assert.Equal(t, []string{tree.b, tree.a}, ids(ancestors))

	subtree, err := b.Subtree(ctx, tree.a)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{tree.a, tree.b, tree.c, tree.d}, ids(subtree))

	e := mustInsert(t, b, nil, "E", "umbrella")
	require.NoError(t, b.Move(ctx, tree.b, e))

	ancestors, err = b.Ancestors(ctx, tree.c, types.Proper)
	require.NoError(t, err)
	assert.Equal(t, []string{tree.b, e}, ids(ancestors))

	aAncestors, err := b.Ancestors(ctx, tree.a, types.Proper)
	require.NoError(t, err)
	assert.Empty(t, aAncestors)

	eSubtree, err := b.Subtree(ctx, e)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e, tree.b, tree.c, tree.d}, ids(eSubtree))
}
