package cmi_test

import (
	"testing"

	"github.com/aretw0/scorm/pkg/cmi"
	"github.com/aretw0/scorm/pkg/domain"
	"github.com/aretw0/scorm/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScore() *cmi.Composite {
	rule := validate.All(validate.Format(`^-?([0-9]{0,3})(\.[0-9]*)?$`), validate.MustRange("0#100"))
	return cmi.NewComposite(
		cmi.Field("raw", cmi.NewLeaf(rule)),
		cmi.Field("max", cmi.NewLeaf(rule)),
	).ExposeChildren()
}

func newTree() *cmi.Composite {
	return cmi.NewComposite(
		cmi.Field("cmi", cmi.NewComposite(
			cmi.Field("student_id", cmi.NewLeaf(nil, cmi.WithAccess(cmi.ReadOnly))),
			cmi.Field("status", cmi.NewLeaf(
				validate.Enum("passed", "failed"),
				cmi.WithDefault("not attempted"),
				cmi.WithHydrateRule(validate.Enum("passed", "failed", "not attempted")),
			)),
			cmi.Field("score", newScore()),
			cmi.Field("location", cmi.NewLeaf(validate.MaxLength(10), cmi.NoDefault())),
			cmi.Field("items", cmi.NewCollection("id,score")),
		).WithComputed("_version", func() string { return "1.0" })),
	)
}

func TestLeaf_SetValidatesBeforeMutation(t *testing.T) {
	tree := newTree()
	status, ok := cmi.LeafAt(tree, "cmi.status")
	require.True(t, ok)

	assert.Equal(t, "not attempted", status.Value())
	assert.False(t, status.Initialized())

	err := status.Set("not attempted", false)
	require.NotNil(t, err)
	assert.Equal(t, domain.KeyTypeMismatch, err.Key)
	assert.False(t, status.Initialized(), "rejected values leave the leaf untouched")

	assert.Nil(t, status.Set("not attempted", true), "hydration uses its own rule")
	assert.True(t, status.Initialized())

	assert.Nil(t, status.Set("passed", false))
	assert.Equal(t, "passed", status.Value())
}

func TestLeaf_Options(t *testing.T) {
	tree := newTree()
	id, _ := cmi.LeafAt(tree, "cmi.student_id")
	assert.Equal(t, cmi.ReadOnly, id.Access())
	assert.True(t, id.Defaultable())
	assert.Equal(t, cmi.KindScalar, id.Kind())

	loc, _ := cmi.LeafAt(tree, "cmi.location")
	assert.False(t, loc.Defaultable())
	assert.Equal(t, cmi.ReadWrite, loc.Access())
}

func TestComposite(t *testing.T) {
	tree := newTree()
	node, ok := cmi.Walk(tree, "cmi.score")
	require.True(t, ok)
	score := node.(*cmi.Composite)

	children, ok := score.Children()
	assert.True(t, ok)
	assert.Equal(t, "raw,max", children)
	assert.Equal(t, []string{"raw", "max"}, score.Names())

	root, _ := cmi.Walk(tree, "cmi")
	_, ok = root.(*cmi.Composite).Children()
	assert.False(t, ok)
	version, ok := root.(*cmi.Composite).Computed("_version")
	require.True(t, ok)
	assert.Equal(t, "1.0", version())

	assert.Panics(t, func() {
		cmi.NewComposite(cmi.Field("a", cmi.NewLeaf(nil)), cmi.Field("a", cmi.NewLeaf(nil)))
	})
}

func TestCollection(t *testing.T) {
	tree := newTree()
	node, _ := cmi.Walk(tree, "cmi.items")
	items := node.(*cmi.Collection)
	assert.Equal(t, cmi.KindCollection, items.Kind())
	assert.Equal(t, 0, items.Len())

	items.Append(newScore())
	items.Append(newScore())
	assert.Equal(t, 2, items.Len())

	_, ok := cmi.Walk(tree, "cmi.items.1.raw")
	assert.True(t, ok)
	_, ok = cmi.Walk(tree, "cmi.items.2.raw")
	assert.False(t, ok)
	_, ok = cmi.Walk(tree, "cmi.items.x")
	assert.False(t, ok)

	items.Truncate(1)
	assert.Equal(t, 1, items.Len())
	items.Truncate(5)
	assert.Equal(t, 1, items.Len(), "truncate never grows")
	_, ok = items.At(-1)
	assert.False(t, ok)
}

func TestAssignAndValueAt(t *testing.T) {
	tree := newTree()
	require.Nil(t, cmi.Assign(tree, "cmi.student_id", "s-1"))
	assert.Equal(t, "s-1", cmi.ValueAt(tree, "cmi.student_id"))
	assert.Equal(t, "", cmi.ValueAt(tree, "cmi.missing"))

	err := cmi.Assign(tree, "cmi.nope", "x")
	require.NotNil(t, err)
	assert.Equal(t, domain.KeyUndefinedDataModel, err.Key)

	err = cmi.Assign(tree, "cmi.score.raw", "200")
	require.NotNil(t, err)
	assert.Equal(t, domain.KeyValueOutOfRange, err.Key)
}

func TestChildFactory(t *testing.T) {
	f := cmi.NewChildFactory().
		Register(`cmi\.items\.\d+`, newScore).
		Register(`cmi\.items\.\d+\.objectives\.\d+`, func() *cmi.Composite { return cmi.NewComposite() })

	item, ok := f.Build("cmi.items.0")
	require.True(t, ok)
	assert.Equal(t, []string{"raw", "max"}, item.Names())

	nested, ok := f.Build("cmi.items.0.objectives.2")
	require.True(t, ok)
	assert.Empty(t, nested.Names())

	_, ok = f.Build("cmi.items.0.id")
	assert.False(t, ok, "patterns are anchored")
}
