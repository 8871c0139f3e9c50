package domain

import "errors"

// ErrSceneNotFound is returned when a transition targets an unregistered scene.
var ErrSceneNotFound = errors.New("scene not registered")

// ErrSurfaceExists is returned when creating a surface whose name is taken.
var ErrSurfaceExists = errors.New("surface already exists")

// ErrSurfaceNotFound is returned when a surface lookup must not miss.
var ErrSurfaceNotFound = errors.New("surface not found")

// ErrStackFloor is returned when Pop is called with one or zero entries on
// the stack. The stack is never drained below its last entry.
var ErrStackFloor = errors.New("scene stack at floor")

// ErrEntrySuperseded is returned from a transition whose asynchronous entry
// work was cancelled by a later transition. It signals cooperative
// cancellation, not an application fault.
var ErrEntrySuperseded = errors.New("scene entry superseded")
