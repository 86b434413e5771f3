// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms boxes for the lit geometry passes.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades boxes with directional lights and cascaded
// shadows read from the atlas.
//
//go:embed lit.frag
var LitFragmentShader string

// DepthVertexShader renders shadow casters into an atlas tile.
//
//go:embed depth.vert
var DepthVertexShader string

// DepthFragmentShader writes depth only.
//
//go:embed depth.frag
var DepthFragmentShader string

// BackgroundVertexShader draws a fullscreen triangle at the far plane.
//
//go:embed background.vert
var BackgroundVertexShader string

// BackgroundFragmentShader fills with the viewpoint background color.
//
//go:embed background.frag
var BackgroundFragmentShader string
