// Package shape declares a type whose name is shared with a sibling package.
package shape

type Point struct {
	X, Y int
}
