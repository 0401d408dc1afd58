// Package slicing cuts large images into overlapping tiles and re-projects
// bounding-box annotations onto each tile for object-detection training.
//
// # Pipeline
//
// For one image, a Slicer:
//
//  1. Resolves tiling params, either from explicit Options or automatically
//     from the image size (SelectParams).
//  2. Generates tile rectangles in row-major order (GenerateTiles).
//  3. For each tile, copies its pixels out of the source image and
//     re-projects every annotation onto it (Reproject).
//  4. Optionally writes each tile's image and annotation file.
//
// # Coordinate Systems
//
// Annotations pass through three spaces:
//   - Image space: corner-form pixels (BBox) in the original image.
//   - Tile-local pixels: the clipped box minus the tile origin.
//   - Tile space: center-form fractions of the tile size (CenterBox).
//
// Annotation files on disk use the tile-space line format, one record per
// line:
//
//	{category} {center_x} {center_y} {width} {height}
//
// with seven decimal digits per fraction and no trailing newline.
//
// # Output Files
//
// Exported tiles are named "{root}_{left}_{top}_{right}_{bottom}{ext}" with a
// sibling ".txt" annotation file, so names are unique per tile. A "*" in the
// output directory is expanded to "images" and "labels". Re-running into the
// same directory rewrites annotation files the previous run wrote; a foreign
// file with a colliding name fails with ErrFileExists.
//
// # Concurrency
//
// Slicing one image is synchronous. Different images may be sliced in
// parallel with the same Slicer; source images are only read.
package slicing
