// Package viz draws soft bodies in the terminal.
//
//   - [Canvas]: braille raster, 2x4 dots per character
//   - [Camera]: orbiting perspective camera with spring-eased controls
//   - [Renderer]: mesh outlines, floor and grab sphere
//   - [Model]: Bubble Tea viewer that steps a world and drives the grabbers
//   - [Recorder]: GIF capture of the canvas
//
// # Key Bindings
//
//	w a s d  move the grab sphere
//	e f      raise / lower the grab sphere
//	g        grab / release the vertex inside the sphere
//	mouse    drag a surface vertex
//	v        squeeze the body onto the floor
//	space    pause / resume
//	r        reset the body
//	x X y Y  orbit the camera
//	+ -      zoom
//	tab j k  select and scale a compliance
//	t        cycle themes
//	c        start / stop GIF recording
//	?        help
//	q        quit
package viz
