package ports

import (
	"context"

	"github.com/scenestack/scenestack/pkg/domain"
)

// Resource pairs an externally managed object with the name it was
// instantiated under.
type Resource struct {
	Name   string
	Handle Handle
}

// ResourceManager instantiates and destroys externally managed objects (for
// example 3D scene objects). The core decides when; the manager decides how.
type ResourceManager interface {
	// Instantiate creates the named object. A nil handle with a nil error
	// means the manager declined (unknown name); the entry continues.
	Instantiate(ctx context.Context, name string) (Handle, error)

	// Destroy releases an instantiated object. disposeAssets additionally
	// releases shared assets backing it.
	Destroy(h Handle, disposeAssets bool)

	// StageRoot returns the handle that owns every clearable object.
	StageRoot() Handle

	// FindAllUnder enumerates live objects below root. Implementations must
	// exclude objects that are never clearable, such as the active camera.
	FindAllUnder(root Handle) []Resource
}

// InputSource exposes the host's global key and pointer streams. Both
// subscribe calls return their own unsubscribe function.
type InputSource interface {
	SubscribeKeys(fn func(key string)) (unsubscribe func())
	Subscribe(eventType string, fn domain.InputHandler) (unsubscribe func())
}
