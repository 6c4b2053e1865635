// Package listfile reads image list files.
//
// Each line holds an image id, label_width label values, and a path relative
// to the image root:
//
//	<image_id> <label_0> [... <label_{width-1}>] <relative_path>
//
// Lines are split positionally for parallel runs: the file's byte range is
// cut into nsplit equal spans and a line belongs to the span containing its
// first byte, so independent processes cover every line exactly once without
// coordinating.
package listfile
