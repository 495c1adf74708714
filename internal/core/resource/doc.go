// Package resource implements the page controller shared by every console
// screen: a store holding the fetched list, a search filter over it, a modal
// form session for create/edit, a two-step delete guard and a single-slot
// feedback channel. Each page supplies only field accessors, validation and
// persistence through Config.
//
// All state transitions are guarded by per-component mutexes that are never
// held across a collaborator call, so a slow save or fetch leaves the rest of
// the page usable.
package resource
