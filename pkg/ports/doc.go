// Package ports declares the boundary contracts between the engine core and
// its adapters: where graphs come from, where simulation runs are persisted,
// and how replicas coordinate access to a run.
package ports
