// Package geom holds the geometric primitives shared by the tetrahedralizer:
// the canonical tet face/edge tables, volume and quality formulas,
// circumsphere tests, and barycentric coordinates.
package geom

// Faces gives, for each of a tetrahedron's four faces, the local vertex
// indices that make up that face under the canonical winding. Neighbour
// slot k of a tet is the tet across Faces[k].
var Faces = [4][3]int{
	{2, 1, 0},
	{0, 1, 3},
	{1, 2, 3},
	{2, 0, 3},
}

// Edges gives the six unordered local-vertex pairs of a tetrahedron.
var Edges = [6][2]int{
	{0, 1},
	{0, 2},
	{0, 3},
	{1, 2},
	{1, 3},
	{2, 3},
}
