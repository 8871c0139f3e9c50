// Package domain contains the core types shared across scenestack: scene
// declarations and resolved configurations, lifecycle hook signatures,
// transition records, input events, and sentinel errors.
//
// The package is intentionally dependency-free so adapters and hosts can
// consume these types without pulling in the engine.
package domain
