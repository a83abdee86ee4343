// Package atlas packs a batch of transparent-background images into one
// square texture atlas and reports where each image landed.
//
// A run has four stages:
//   - Normalize converts a decoded image to straight-alpha NRGBA and trims
//     it to the smallest rectangle holding any non-(0,0,0,0) pixel.
//   - EstimateSize picks a power-of-two side from the summed sprite area
//     (times 1.3 slack), clamped to the configured maximum.
//   - Packer places rectangles first-fit in a binary free-space tree,
//     largest first.
//   - Compose blits every placed image into a fully transparent canvas.
//
// Images that do not fit are left out of the placements rather than
// triggering a larger atlas. Everything a run mutates is owned by that run,
// so independent batches may be packed concurrently.
package atlas
