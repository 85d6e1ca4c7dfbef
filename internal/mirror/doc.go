// Package mirror keeps a second, independently indexed rigid-body renderer
// in sync with a simulation [world.World].
//
// The renderer indexes joints its own way, so a correspondence table is
// built once per world load ([BuildMapping]) and consulted on every state
// application ([Mirror.ApplyState]). Free-floating joints have no renderer
// counterpart; their 6 state values are read as rotation and translation
// offsets from the skeleton's pose recorded at load time.
package mirror
