package softbody

import (
	"math"

	"github.com/caldera-labs/tetrasim/buffer"
	"github.com/caldera-labs/tetrasim/vec3"
)

// DeformedPositions is the rendering binding surface (spec §2): the
// minimal read-only contract a host renderer consumes deformed vertex
// positions through, kept separate from Simulation's full read/write API
// so a renderer can depend on this instead of the whole simulation.
type DeformedPositions interface {
	ReadPositions() []vec3.Vec
}

// ReadPositions returns the current position of every vertex, indexed the
// same way as s.Verts (spec §6 "read_positions()"). It is a suspension
// point conceptually (spec §5): on a real device binding it would await a
// device→host transfer; HostDevice has no such transfer to await.
func (s *Simulation) ReadPositions() []vec3.Vec {
	out := make([]vec3.Vec, len(s.Verts))
	for i, v := range s.Verts {
		out[i] = v.Pos
	}
	return out
}

// ReadPositionsBuffer packs every vertex position into a buffer.Typed laid
// out through buffer.Layout, writing it via a buffer.Binding field accessor
// bound into a kernel dispatched by s.device — the structured-buffer
// component's device-kernel contract (spec §4.4), exercised here rather
// than kept self-tested in isolation from the solver. The solver's own
// constraint kernels stay on native float64 vec3.Vec fields (see DESIGN.md
// for why buffer's float32 storage isn't used for the XPBD hot path).
func (s *Simulation) ReadPositionsBuffer() *buffer.Typed {
	layout := buffer.NewLayout([]buffer.Field{{Name: "pos", Kind: buffer.Vec3}})
	buf := buffer.NewTyped(layout, len(s.Verts))
	posField := buffer.Bind(buf).Field("pos")

	s.device.Dispatch(len(s.Verts), func(i int) {
		posField.StoreVec3(i, s.Verts[i].Pos)
	})
	return buf
}

// ReconstructVertex estimates vertex i's position by averaging, over every
// tet in its influencer table, that tet's current rigid shape-matched
// transform (Orient, Centre) applied to the vertex's rest-pose offset from
// that tet's rest centre (spec §3 "Simulation vertex", glossary
// "Influencer table": "weighted reconstruction of a vertex from incident
// rest poses"). Unlike Verts[i].Pos — the raw result of independent,
// non-atomic per-tet Jacobi writes (see DESIGN.md) — this blends every
// incident tet's rotation-consistent view of where the vertex belongs.
func (s *Simulation) ReconstructVertex(i int32) vec3.Vec {
	v := &s.Verts[i]
	if v.InfluencerCount == 0 {
		return v.Pos
	}

	sum := vec3.Vec{}
	for k := int32(0); k < v.InfluencerCount; k++ {
		e := s.influencers[v.InfluencerStart+k]
		t := &s.Tets[e.Tet]
		restCorner := s.RestPoses[4*e.Tet+e.Corner].Pos
		offset := vec3.RotateByQuat(t.Orient, restCorner.Sub(t.RestCentre))
		sum = sum.Add(t.Centre.Add(offset))
	}
	return sum.DivScalar(float64(v.InfluencerCount))
}

// CachedPosition returns the instance's most recently read-back centre
// position and whether ih is valid. The value refreshes only every
// Config.ReadbackIntervalFrames physics steps (spec §9 "Host-visible
// readback cadence") rather than every frame, so callers must tolerate a
// lag of up to that many steps.
func (s *Simulation) CachedPosition(ih InstanceHandle) (vec3.Vec, bool) {
	if int(ih) < 0 || int(ih) >= len(s.Instances) {
		return vec3.Vec{}, false
	}
	return s.Instances[ih].CachedPos, true
}

// NearestVertexHit is the result of FindNearestVertex.
type NearestVertexHit struct {
	VertexID int32
	Pos      vec3.Vec
	AlongRay float64
}

// FindNearestVertex projects every active vertex onto the ray and returns
// the closest one within maxPerpDistance of the ray, or ok=false if none
// qualify (spec §6 "find_nearest_vertex").
func (s *Simulation) FindNearestVertex(origin, dir vec3.Vec, maxPerpDistance float64) (hit NearestVertexHit, ok bool) {
	dir = dir.Normalize()
	bestPerp := math.Inf(1)

	for i := range s.Verts {
		v := &s.Verts[i]
		if !s.Instances[v.ObjectID].Active() {
			continue
		}
		toVert := v.Pos.Sub(origin)
		along := toVert.Dot(dir)
		if along < 0 {
			continue
		}
		closest := origin.Add(dir.MulScalar(along))
		perp := v.Pos.Sub(closest).Length()
		if perp < bestPerp && perp <= maxPerpDistance {
			bestPerp = perp
			hit = NearestVertexHit{VertexID: int32(i), Pos: v.Pos, AlongRay: along}
			ok = true
		}
	}
	return hit, ok
}

// StartDrag pins vertex to follow target with the given strength (0..1)
// until EndDrag (spec §6 "start_drag").
func (s *Simulation) StartDrag(vertex int32, target vec3.Vec, strength float64) {
	s.drag = dragState{active: true, vertex: vertex, target: target, strength: strength}
}

// UpdateDrag moves the active drag's target (spec §6 "update_drag").
func (s *Simulation) UpdateDrag(target vec3.Vec) {
	if s.drag.active {
		s.drag.target = target
	}
}

// EndDrag releases the pinned vertex back to free simulation (spec §6
// "end_drag").
func (s *Simulation) EndDrag() {
	s.drag = dragState{}
}

// ApplyMouseImpulse nudges every active vertex within softRadius of the
// ray's perpendicular distance, encoding the impulse as a Prev adjustment
// so the next predict kernel picks it up as velocity (spec §4.7 "Mouse
// interaction").
func (s *Simulation) ApplyMouseImpulse(origin, dir vec3.Vec, softRadius float64, impulse vec3.Vec) {
	dir = dir.Normalize()
	for i := range s.Verts {
		v := &s.Verts[i]
		if !s.Instances[v.ObjectID].Active() || v.InvMass == 0 {
			continue
		}
		toVert := v.Pos.Sub(origin)
		along := toVert.Dot(dir)
		if along < 0 {
			continue
		}
		closest := origin.Add(dir.MulScalar(along))
		perp := v.Pos.Sub(closest).Length()
		if perp > softRadius {
			continue
		}
		weight := 1 - perp/softRadius
		v.Prev = v.Prev.Sub(impulse.MulScalar(weight))
	}
}

// ApplyAnchors pulls every vertex within an anchor's rest-space radius
// toward target + (rest-centre) with the anchor's falloff weight (spec §3
// "Anchor"). substep calls this once per substep automatically; it stays
// exported so callers driving the solver manually (e.g. tests, tooling)
// can invoke it directly. Spec bounds the per-vertex anchor count to
// Config.MaxAnchors by construction of AddAnchor.
func (s *Simulation) ApplyAnchors() {
	for i := range s.Verts {
		v := &s.Verts[i]
		if !s.Instances[v.ObjectID].Active() || v.InvMass == 0 {
			continue
		}
		for _, a := range s.anchors {
			d := v.Rest.Sub(a.Centre).Length()
			if d >= a.Radius {
				continue
			}
			target := a.Target
			if !a.HasTarget {
				target = a.Centre
			}
			dest := target.Add(v.Rest.Sub(a.Centre))
			weight := (1 - d/a.Radius) * a.Strength
			v.Pos = v.Pos.Add(dest.Sub(v.Pos).MulScalar(weight))
		}
	}
}
