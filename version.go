package scenestack

// Version is the library version, bumped on release.
const Version = "0.1.0"
