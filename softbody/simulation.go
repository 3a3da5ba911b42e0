package softbody

import (
	"log"
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/caldera-labs/tetrasim/grid"
	"github.com/caldera-labs/tetrasim/softbody/device"
	"github.com/caldera-labs/tetrasim/vec3"
)

// Simulation owns the fixed-size vertex/tet/edge/instance buffers and the
// constraint solver state (spec §4.6 "Simulation state and lifecycle").
// Construct with New, register geometries/instances/colliders/anchors, call
// Bake once, then drive it with Update.
type Simulation struct {
	Config Config
	Logger *log.Logger // nil discards (tetra.Options.Verbose convention)

	device device.Device

	geometries []*Geometry
	pending    []registration

	Verts     []Vertex
	Tets      []Tet
	Edges     []Edge
	RestPoses []RestPose // 4 per tet, RestPoses[4*t+corner]
	Instances []Instance
	colliders []Collider
	anchors   []Anchor

	accumulator float64
	baked       bool
	frame       int

	grid grid.Broadphase

	// influencers is the flattened per-vertex (tet, corner) table (spec §3
	// "influencer table"): influencers[v.InfluencerStart : v.InfluencerStart+v.InfluencerCount]
	// lists every tet corner incident to vertex v.
	influencers []influencerEntry

	drag dragState
}

// influencerEntry is one (tet, corner) pair incident to some vertex.
type influencerEntry struct {
	Tet    int32
	Corner int32
}

type dragState struct {
	active   bool
	vertex   int32
	target   vec3.Vec
	strength float64
}

// New constructs an unbaked Simulation. dev is the compute device kernels
// dispatch through; device.NewHostDevice(0) is a reasonable default.
func New(dev device.Device, cfg Config) *Simulation {
	return &Simulation{Config: cfg, device: dev}
}

// Bake lays out the flat vertex/tet/edge arrays from every registered
// instance, computes inverse masses and rest poses, and constructs the
// spatial grid (spec §4.6 "Bake").
func (s *Simulation) Bake() error {
	if s.baked {
		return nil
	}
	if len(s.pending) == 0 {
		return ErrEmptyBake
	}

	var totalVerts, totalTets int
	for _, reg := range s.pending {
		g := s.geometries[reg.geometry]
		totalVerts += len(g.Verts)
		totalTets += len(g.Tets)
	}
	if totalVerts == 0 || totalTets == 0 {
		if s.Logger != nil {
			s.Logger.Printf("softbody: bake called with zero vertices/tets, skipping")
		}
		return ErrEmptyBake
	}

	s.Verts = make([]Vertex, 0, totalVerts)
	s.Tets = make([]Tet, 0, totalTets)
	s.RestPoses = make([]RestPose, 0, totalTets*4)
	s.Instances = make([]Instance, 0, len(s.pending))

	maxRadius := 0.0

	for id, reg := range s.pending {
		g := s.geometries[reg.geometry]
		vertStart := int32(len(s.Verts))
		tetStart := int32(len(s.Tets))

		for _, v := range g.Verts {
			s.Verts = append(s.Verts, Vertex{
				ObjectID: int32(id),
				Pos:      v,
				Prev:     v,
				Rest:     v,
			})
		}

		for _, t := range g.Tets {
			v0 := s.Verts[vertStart+int32(t[0])].Rest
			v1 := s.Verts[vertStart+int32(t[1])].Rest
			v2 := s.Verts[vertStart+int32(t[2])].Rest
			v3 := s.Verts[vertStart+int32(t[3])].Rest

			vol := tetVolume(v0, v1, v2, v3)
			radius := characteristicRadius(vol)
			if radius > maxRadius {
				maxRadius = radius
			}
			centre := v0.Add(v1).Add(v2).Add(v3).DivScalar(4)

			s.Tets = append(s.Tets, Tet{
				ObjectID:   int32(id),
				RestVolume: vol,
				Radius:     radius,
				RestCentre: centre,
				Centre:     centre,
				Orient:     quat.Number{Real: 1},
				V: [4]int32{
					vertStart + int32(t[0]),
					vertStart + int32(t[1]),
					vertStart + int32(t[2]),
					vertStart + int32(t[3]),
				},
				NextTet: grid.Empty,
			})

			// inverse-mass contribution: each vertex accrues 1/(V/4) from
			// every incident tet (spec §3 invariant).
			share := vol / 4
			for _, vi := range t {
				idx := vertStart + int32(vi)
				if share > 1e-18 {
					s.Verts[idx].InvMass += 1 / share
				}
			}

			for _, vi := range t {
				pos := s.Verts[vertStart+int32(vi)].Rest
				s.RestPoses = append(s.RestPoses, RestPose{Pos: pos, Volume: vol})
			}
		}

		s.Instances = append(s.Instances, Instance{
			ID:           int32(id),
			VertStart:    vertStart,
			VertCount:    int32(len(g.Verts)),
			TetStart:     tetStart,
			TetCount:     int32(len(g.Tets)),
			CentreVertex: vertStart,
			Size:         0,
		})
	}

	s.buildEdges()
	s.buildInfluencers()

	cellSize := 2 * maxRadius
	if cellSize < 1e-9 {
		cellSize = 1
	}
	switch s.Config.GridMode {
	case GridHash:
		s.grid = grid.NewHash(cellSize)
	default:
		s.grid = grid.NewLattice(cellSize)
	}

	s.baked = true
	return nil
}

// buildInfluencers groups every (tet, corner) pair by the vertex it
// references into the flattened influencer table, then points each
// Vertex's InfluencerStart/InfluencerCount at its slice (spec §3
// "Simulation vertex", glossary "Influencer table").
func (s *Simulation) buildInfluencers() {
	perVertex := make([][]influencerEntry, len(s.Verts))
	for ti := range s.Tets {
		t := &s.Tets[ti]
		for corner, vi := range t.V {
			perVertex[vi] = append(perVertex[vi], influencerEntry{Tet: int32(ti), Corner: int32(corner)})
		}
	}

	s.influencers = make([]influencerEntry, 0, len(s.Tets)*4)
	for vi := range s.Verts {
		s.Verts[vi].InfluencerStart = int32(len(s.influencers))
		s.Verts[vi].InfluencerCount = int32(len(perVertex[vi]))
		s.influencers = append(s.influencers, perVertex[vi]...)
	}
}

// buildEdges derives the deduplicated edge set from every instance's tets,
// storing each with v0 < v1 (spec §3 "Edge").
func (s *Simulation) buildEdges() {
	seen := map[[2]int32]bool{}
	for ti := range s.Tets {
		t := &s.Tets[ti]
		for _, e := range tetEdgeIndices {
			a, b := t.V[e[0]], t.V[e[1]]
			if a > b {
				a, b = b, a
			}
			key := [2]int32{a, b}
			if seen[key] {
				continue
			}
			seen[key] = true
			rest := s.Verts[a].Rest.Sub(s.Verts[b].Rest).Length()
			s.Edges = append(s.Edges, Edge{V0: a, V1: b, Rest: rest})
		}
	}
}

// tetEdgeIndices mirrors geom.Edges, duplicated here so softbody.Tet does
// not depend on the meshing-side geom package for a six-pair constant.
var tetEdgeIndices = [6][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}

func tetVolume(p0, p1, p2, p3 vec3.Vec) float64 {
	return p1.Sub(p0).Dot(p2.Sub(p0).Cross(p3.Sub(p0))) / 6
}

func characteristicRadius(vol float64) float64 {
	v := math.Abs(vol)
	return math.Cbrt(3 * v / (4 * math.Pi))
}
