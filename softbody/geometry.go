package softbody

import "github.com/caldera-labs/tetrasim/vec3"

// Geometry is a rest-space tet-mesh template (spec §6 "add_geometry(model)"):
// the output of tetra.Tetrahedralize, reduced to the fields the simulator
// needs to stamp out instances.
type Geometry struct {
	Verts []vec3.Vec
	Tets  [][4]uint32
}

// NewGeometry wraps a tetrahedralizer mesh's vertex and tet arrays as a
// reusable simulation template.
func NewGeometry(verts []vec3.Vec, tets [][4]uint32) *Geometry {
	return &Geometry{Verts: verts, Tets: tets}
}

// GeometryHandle references a registered Geometry.
type GeometryHandle int32

// InstanceHandle references a registered, not-yet-baked or baked Instance.
type InstanceHandle int32

// registration is the pre-bake bookkeeping for one instance: which geometry
// it stamps. Its vertex/tet ranges are assigned by Bake when it lays out the
// flat simulation arrays.
type registration struct {
	geometry GeometryHandle
}

// AddGeometry registers a rest-space template and returns a handle usable
// with AddInstance. Rejects calls after Bake (spec §3 "Lifecycle": buffers
// are fixed-size once created).
func (s *Simulation) AddGeometry(g *Geometry) (GeometryHandle, error) {
	if s.baked {
		return 0, ErrAlreadyBaked
	}
	s.geometries = append(s.geometries, g)
	return GeometryHandle(len(s.geometries) - 1), nil
}

// AddInstance reserves a vertex/tet range for one stamped-out copy of a
// registered geometry. The instance starts Idle (size 0); Spawn brings it
// to life.
func (s *Simulation) AddInstance(gh GeometryHandle) (InstanceHandle, error) {
	if s.baked {
		return 0, ErrAlreadyBaked
	}
	if int(gh) < 0 || int(gh) >= len(s.geometries) {
		return 0, ErrResetOutOfRange
	}
	s.pending = append(s.pending, registration{geometry: gh})
	return InstanceHandle(len(s.pending) - 1), nil
}

// AddCollider registers a static or dynamic collider, evaluated by every
// predict/post-collide kernel each substep (spec §3 "Collider").
func (s *Simulation) AddCollider(c Collider) {
	s.colliders = append(s.colliders, c)
}

// AddAnchor registers an anchor def (spec §3 "Anchor"), rejecting once
// MaxAnchors is reached (spec §7 "AnchorOverflow").
func (s *Simulation) AddAnchor(a Anchor) error {
	if len(s.anchors) >= s.Config.MaxAnchors {
		return ErrAnchorOverflow
	}
	s.anchors = append(s.anchors, a)
	return nil
}
