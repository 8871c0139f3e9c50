// Package dsl provides the fluent builder used to declare scenes in code.
// A SceneBuilder is a pure accumulator: nothing happens until the built
// declaration is registered with a Director, which resolves inheritance and
// wires the executable configuration.
package dsl
