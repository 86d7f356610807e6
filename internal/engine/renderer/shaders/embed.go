// Package shaders provides embedded GLSL shader sources.
package shaders

import (
	_ "embed"
	"strings"
)

// commonChunk holds tone mapping and output encoding shared by every
// fragment shader. It replaces the "#pragma common" line.
//
//go:embed common.glsl
var commonChunk string

//go:embed sky.vert
var skyVertex string

//go:embed sky.frag
var skyFragment string

//go:embed surface.vert
var surfaceVertex string

//go:embed glass.frag
var glassFragment string

//go:embed water.frag
var waterFragment string

func withCommon(src string) string {
	return strings.Replace(src, "#pragma common", commonChunk, 1)
}

// Sky returns the vertex and fragment source of the sky pass.
func Sky() (vertex, fragment string) {
	return skyVertex, withCommon(skyFragment)
}

// Glass returns the vertex and fragment source of the glass panel pass.
func Glass() (vertex, fragment string) {
	return surfaceVertex, withCommon(glassFragment)
}

// Water returns the vertex and fragment source of the water pass.
func Water() (vertex, fragment string) {
	return surfaceVertex, withCommon(waterFragment)
}
