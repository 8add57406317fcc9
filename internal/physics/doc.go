// Package physics advances the arena by one tick.
//
// [Step] applies, per body in index order:
//
//   - the pointer pull, if the body is captured
//   - gravity along +y (screen coordinates, y grows downward)
//   - velocity damping
//   - explicit Euler integration
//   - wall clamping with the velocity component reversed
//
// and then [Repel]s the body from every later body within the repulsion
// radius. Coincident centers use the world's epsilon as their distance, so
// a step never produces a non-finite velocity.
//
// There is no restitution model and all bodies have the same mass.
package physics
