package layers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenestack/scenestack/pkg/adapters/memory"
	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/layers"
)

func newTree(t *testing.T) (*layers.Tree, *memory.Host) {
	t.Helper()
	host := memory.NewHost()
	return layers.New(host), host
}

func TestCreateRejectsDuplicateNames(t *testing.T) {
	tree, _ := newTree(t)

	_, err := tree.Create("menu")
	require.NoError(t, err)

	_, err = tree.Create("menu")
	assert.ErrorIs(t, err, domain.ErrSurfaceExists)
	assert.Equal(t, 1, tree.Len())
}

func TestCreateWithUnknownParentFallsBackToTopLevel(t *testing.T) {
	tree, host := newTree(t)

	l, err := tree.Create("hud", layers.WithParent("missing"))
	require.NoError(t, err)

	c, ok := host.Container("hud")
	require.True(t, ok)
	assert.Nil(t, c.Parent)
	assert.Equal(t, "hud", l.Name())
}

func TestCreateNestsUnderParent(t *testing.T) {
	tree, host := newTree(t)

	_, err := tree.Create("game")
	require.NoError(t, err)
	_, err = tree.Create("overlay", layers.WithParent("game"), layers.WithStackOrder(5))
	require.NoError(t, err)

	parent, _ := host.Container("game")
	child, _ := host.Container("overlay")
	assert.Same(t, parent, child.Parent)
	assert.Equal(t, 5, child.StackOrder)
}

func TestDestroyRemovesDescendantsFirst(t *testing.T) {
	tree, host := newTree(t)

	_, err := tree.Create("root")
	require.NoError(t, err)
	_, err = tree.Create("mid", layers.WithParent("root"))
	require.NoError(t, err)
	leaf, err := tree.Create("leaf", layers.WithParent("mid"))
	require.NoError(t, err)

	var order []string
	leaf.AddCleanupTask(func() { order = append(order, "leaf") })
	mid, _ := tree.Get("mid")
	mid.AddCleanupTask(func() { order = append(order, "mid") })
	root, _ := tree.Get("root")
	root.AddCleanupTask(func() { order = append(order, "root") })

	assert.True(t, tree.Destroy("root"))
	assert.Equal(t, []string{"leaf", "mid", "root"}, order)
	assert.Zero(t, tree.Len())
	assert.Zero(t, host.Len())
}

func TestDestroyUnknownNameReturnsFalse(t *testing.T) {
	tree, _ := newTree(t)
	assert.False(t, tree.Destroy("ghost"))
}

func TestFindReportsMissingSurface(t *testing.T) {
	tree, _ := newTree(t)

	_, err := tree.Find("nowhere")
	assert.ErrorIs(t, err, domain.ErrSurfaceNotFound)

	_, ok := tree.Get("nowhere")
	assert.False(t, ok)
}

func TestDispatchRoutesByContainmentAndSelector(t *testing.T) {
	tree, _ := newTree(t)

	menu, err := tree.Create("menu")
	require.NoError(t, err)
	other, err := tree.Create("other")
	require.NoError(t, err)

	var hits []string
	menu.Subscribe("click", "button.play", func(ev domain.InputEvent) {
		hits = append(hits, "play")
	})
	menu.Subscribe("click", "", func(ev domain.InputEvent) {
		hits = append(hits, "any")
	})
	other.Subscribe("click", "", func(ev domain.InputEvent) {
		hits = append(hits, "other")
	})

	tree.Dispatch(domain.InputEvent{
		Type:   "click",
		Origin: "button.play",
		Path:   []string{"button.play", "menu"},
	})

	assert.Equal(t, []string{"play", "any"}, hits)
}

func TestDelegationInstallsOneUnderlyingListener(t *testing.T) {
	tree, _ := newTree(t)

	menu, err := tree.Create("menu")
	require.NoError(t, err)

	var aHits, bHits int
	subA := menu.Subscribe("click", "a", func(domain.InputEvent) { aHits++ })
	subB := menu.Subscribe("click", "b", func(domain.InputEvent) { bHits++ })
	assert.Equal(t, 1, tree.DelegateCount("click"))

	click := func(origin string) {
		tree.Dispatch(domain.InputEvent{Type: "click", Origin: origin, Path: []string{origin, "menu"}})
	}

	click("a")
	click("b")
	assert.Equal(t, 1, aHits)
	assert.Equal(t, 1, bHits)

	menu.Unsubscribe(subA)
	assert.Equal(t, 1, tree.DelegateCount("click"))
	click("a")
	click("b")
	assert.Equal(t, 1, aHits)
	assert.Equal(t, 2, bHits)

	menu.Unsubscribe(subB)
	assert.Zero(t, tree.DelegateCount("click"))
}
