// Package ports defines the collaborator interfaces the orchestrator core
// consumes: the rendering surface host, the cooperative scheduler, the
// external resource manager, the global input source, and the state-change
// history store. Adapters live under pkg/adapters.
package ports
