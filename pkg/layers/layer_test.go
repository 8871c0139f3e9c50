package layers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenestack/scenestack/pkg/adapters/memory"
	"github.com/scenestack/scenestack/pkg/domain"
	"github.com/scenestack/scenestack/pkg/layers"
)

// fakeInput implements ports.InputSource for host-scoped subscriptions.
type fakeInput struct {
	handlers map[string][]domain.InputHandler
	keyFns   []func(string)
}

func newFakeInput() *fakeInput {
	return &fakeInput{handlers: make(map[string][]domain.InputHandler)}
}

func (f *fakeInput) SubscribeKeys(fn func(string)) func() {
	f.keyFns = append(f.keyFns, fn)
	return func() { f.keyFns = nil }
}

func (f *fakeInput) Subscribe(eventType string, fn domain.InputHandler) func() {
	f.handlers[eventType] = append(f.handlers[eventType], fn)
	idx := len(f.handlers[eventType]) - 1
	return func() {
		f.handlers[eventType][idx] = nil
	}
}

func (f *fakeInput) emit(eventType string, ev domain.InputEvent) {
	for _, fn := range f.handlers[eventType] {
		if fn != nil {
			fn(ev)
		}
	}
}

func TestShowHideKeepContent(t *testing.T) {
	host := memory.NewHost()
	tree := layers.New(host)

	l, err := tree.Create("menu")
	require.NoError(t, err)
	l.ReplaceContent("hello")

	l.Hide()
	c, _ := host.Container("menu")
	assert.False(t, c.Visible)
	assert.False(t, l.Visible())
	assert.Equal(t, "hello", c.Content)

	l.Show()
	assert.True(t, c.Visible)
	assert.Equal(t, "hello", c.Content)
}

func TestReplaceContentDropsChildrenAndDelegatedPairs(t *testing.T) {
	host := memory.NewHost()
	tree := layers.New(host)

	l, err := tree.Create("menu")
	require.NoError(t, err)
	_, err = tree.Create("popup", layers.WithParent("menu"))
	require.NoError(t, err)

	hits := 0
	l.Subscribe("click", "", func(domain.InputEvent) { hits++ })

	l.ReplaceContent("fresh")

	_, ok := tree.Get("popup")
	assert.False(t, ok)
	assert.Zero(t, tree.DelegateCount("click"))

	tree.Dispatch(domain.InputEvent{Type: "click", Origin: "menu", Path: []string{"menu"}})
	assert.Zero(t, hits)

	c, _ := host.Container("menu")
	assert.Equal(t, "fresh", c.Content)
}

func TestResetOrderAndPanicIsolation(t *testing.T) {
	host := memory.NewHost()
	input := newFakeInput()
	tree := layers.New(host, layers.WithInputSource(input))

	l, err := tree.Create("menu")
	require.NoError(t, err)
	_, err = tree.Create("child", layers.WithParent("menu"))
	require.NoError(t, err)

	l.ReplaceContent("content")

	var order []string
	l.AddCleanupTask(func() {
		order = append(order, "first")
		panic("cleanup bug")
	})
	l.AddCleanupTask(func() { order = append(order, "second") })

	hostHits := 0
	l.SubscribeToHost("pointermove", func(domain.InputEvent) { hostHits++ })

	l.Reset()

	// Children destroyed, both tasks ran despite the panic, subscriptions
	// and content cleared, the node itself survives.
	_, ok := tree.Get("child")
	assert.False(t, ok)
	assert.Equal(t, []string{"first", "second"}, order)

	input.emit("pointermove", domain.InputEvent{Type: "pointermove"})
	assert.Zero(t, hostHits)

	c, _ := host.Container("menu")
	assert.Nil(t, c.Content)
	_, ok = tree.Get("menu")
	assert.True(t, ok)
}

func TestCleanupTasksRunExactlyOnce(t *testing.T) {
	tree := layers.New(memory.NewHost())

	l, err := tree.Create("menu")
	require.NoError(t, err)

	runs := 0
	l.AddCleanupTask(func() { runs++ })

	l.Reset()
	l.Reset()
	assert.Equal(t, 1, runs)
}

func TestHostSubscriptionWithoutInputSourceIsDropped(t *testing.T) {
	tree := layers.New(memory.NewHost())

	l, err := tree.Create("menu")
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		l.SubscribeToHost("pointermove", func(domain.InputEvent) {})
	})
}
