// Package imgcodec decodes source images into the two pixel layouts the
// packer works with and encodes transformed images back to JPEG or PNG.
//
// Decoding understands JPEG, PNG and GIF through the standard library and
// BMP, TIFF and WebP through golang.org/x/image. Decoded images are always
// either *image.Gray or *image.RGBA with bounds starting at the origin.
package imgcodec
