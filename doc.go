// Package flow provides the node-rendering core for interactive diagram
// canvases.
//
// Users import this single package for the complete public API: the reactive
// node store, the collection coordinator and per-node presenters, the node
// type registry, geometry helpers, and the size-measurement observer
// contract. The host application supplies the drawing surface and the
// measurement capability; flow keeps node geometry and per-node render state
// in sync with minimal recomputation.
package flow
