package softbody

import (
	"math"

	"gonum.org/v1/gonum/num/quat"

	"github.com/caldera-labs/tetrasim/grid"
	"github.com/caldera-labs/tetrasim/vec3"
)

// jacobiRelax is the XPBD (under-)relaxation factor applied to every edge and
// volume correction so concurrent threads writing the same vertex position
// converge rather than overshoot (spec §4.7 step 2/3, §5 "Jacobi relaxation
// with ω = 0.25").
const jacobiRelax = 0.25

// maxDt saturates how much wall-clock time one Update call consumes, so a
// dropped frame costs fewer substeps next tick rather than a runaway
// accumulator (spec §5 "update saturates Δt to 1/60").
const maxDt = 1.0 / 60.0

// Update advances the accumulator by dt (saturated to maxDt) and consumes
// as many fixed physics steps as have accrued (spec §4.6 "Step").
func (s *Simulation) Update(dt float64) error {
	if !s.baked {
		return ErrNotBaked
	}
	if dt > maxDt {
		dt = maxDt
	}
	s.accumulator += dt

	fixedStep := 1.0 / float64(s.Config.StepsPerSecond)
	for s.accumulator >= fixedStep {
		s.step()
		s.accumulator -= fixedStep
	}
	return nil
}

// step runs num_substeps XPBD substeps, then rotation extraction and
// broadphase (spec §4.7).
func (s *Simulation) step() {
	sdt := s.Config.substepDt()
	for i := 0; i < s.Config.NumSubsteps; i++ {
		s.substep(sdt)
	}

	s.grid.Clear()
	s.grid.SetAtomic(true)
	s.device.Dispatch(len(s.Tets), func(i int) { s.updateTetState(int32(i)) })
	s.grid.SetAtomic(false)

	s.device.Dispatch(len(s.Tets), func(i int) { s.broadphase(int32(i)) })

	s.frame++
	if interval := s.Config.ReadbackIntervalFrames; interval > 0 && s.frame%interval == 0 {
		s.readbackInstancePositions()
	}
}

func (s *Simulation) substep(sdt float64) {
	s.device.Dispatch(len(s.Verts), func(i int) { s.predict(int32(i), sdt) })
	s.device.Dispatch(len(s.Edges), func(i int) { s.solveEdge(int32(i), sdt) })
	s.device.Dispatch(len(s.Tets), func(i int) { s.solveVolume(int32(i), sdt) })
	s.device.Dispatch(len(s.Verts), func(i int) { s.collide(int32(i)) })
	s.ApplyAnchors()
	s.applyDrag()
}

// readbackInstancePositions refreshes every active instance's CachedPos
// from its reference centre vertex (spec §3 "Object (instance)", §9
// "Host-visible readback cadence").
func (s *Simulation) readbackInstancePositions() {
	for i := range s.Instances {
		in := &s.Instances[i]
		if !in.Active() {
			continue
		}
		in.CachedPos = s.Verts[in.CentreVertex].Pos
	}
}

func (s *Simulation) vertActive(i int32) bool {
	v := &s.Verts[i]
	return s.Instances[v.ObjectID].Active() && v.InvMass > 0
}

// predict is kernel 1: integrate, then resolve against every collider
// (spec §4.7 step 1).
func (s *Simulation) predict(i int32, sdt float64) {
	if !s.vertActive(i) {
		return
	}
	v := &s.Verts[i]

	vel := v.Pos.Sub(v.Prev).MulScalar(s.Config.Damping)
	vel = vel.Add(s.Config.Gravity.MulScalar(sdt * sdt))
	v.Prev = v.Pos
	v.Pos = v.Pos.Add(vel)

	s.resolveColliders(v)
}

// resolveColliders pushes v out of every penetrating collider and
// attenuates its tangential velocity by friction (spec §4.7 steps 1 and 4
// share this exact logic).
func (s *Simulation) resolveColliders(v *Vertex) {
	for _, c := range s.colliders {
		n, sd := c.At(v.Pos)
		if math.IsNaN(sd) || math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
			// CollisionCallbackReturnedNaN (spec §7): skip this collider
			// for this vertex this substep.
			continue
		}
		if sd >= 0 {
			continue
		}
		v.Pos = v.Pos.Sub(n.MulScalar(sd))

		vel := v.Pos.Sub(v.Prev)
		normalComp := vel.Dot(n)
		normalVel := n.MulScalar(normalComp)
		tangentVel := vel.Sub(normalVel)
		newVel := normalVel.Add(tangentVel.MulScalar(1 - s.Config.Friction))
		v.Prev = v.Pos.Sub(newVel)
	}
}

// collide is kernel 4 (spec §4.7 step 4 "post-collide"): identical to the
// collider half of predict, run again after the constraint solves have
// moved vertices.
func (s *Simulation) collide(i int32) {
	if !s.vertActive(i) {
		return
	}
	s.resolveColliders(&s.Verts[i])
}

// solveEdge is kernel 2 (spec §4.7 step 2).
func (s *Simulation) solveEdge(i int32, sdt float64) {
	e := &s.Edges[i]
	v0, v1 := &s.Verts[e.V0], &s.Verts[e.V1]
	if !s.Instances[v0.ObjectID].Active() && !s.Instances[v1.ObjectID].Active() {
		return
	}
	w := v0.InvMass + v1.InvMass
	if w <= 0 {
		return
	}

	delta := v0.Pos.Sub(v1.Pos)
	length := delta.Length()
	if length < 1e-12 {
		return
	}
	grad := delta.DivScalar(length)
	c := length - e.Rest

	alpha := s.Config.EdgeCompliance / (sdt * sdt)
	lambda := -c / (w + alpha)

	v0.Pos = v0.Pos.Add(grad.MulScalar(lambda * v0.InvMass * jacobiRelax))
	v1.Pos = v1.Pos.Sub(grad.MulScalar(lambda * v1.InvMass * jacobiRelax))
}

// solveVolume is kernel 3 (spec §4.7 step 3).
func (s *Simulation) solveVolume(i int32, sdt float64) {
	t := &s.Tets[i]
	if !s.Instances[t.ObjectID].Active() {
		return
	}

	p0, p1, p2, p3 := s.cornerPositions(t)
	w0, w1, w2, w3 := s.cornerInvMasses(t)

	grad0 := p3.Sub(p1).Cross(p2.Sub(p1)).DivScalar(6)
	grad1 := p2.Sub(p0).Cross(p3.Sub(p0)).DivScalar(6)
	grad2 := p3.Sub(p0).Cross(p1.Sub(p0)).DivScalar(6)
	grad3 := p1.Sub(p0).Cross(p2.Sub(p0)).DivScalar(6)

	wgSum := w0*grad0.LengthSqr() + w1*grad1.LengthSqr() + w2*grad2.LengthSqr() + w3*grad3.LengthSqr()
	if wgSum <= 0 {
		return
	}

	vol := p1.Sub(p0).Dot(p2.Sub(p0).Cross(p3.Sub(p0))) / 6
	c := vol - t.RestVolume

	alpha := s.Config.VolCompliance / (sdt * sdt)
	lambda := -c / (wgSum + alpha)

	s.Verts[t.V[0]].Pos = s.Verts[t.V[0]].Pos.Add(grad0.MulScalar(lambda * w0 * jacobiRelax))
	s.Verts[t.V[1]].Pos = s.Verts[t.V[1]].Pos.Add(grad1.MulScalar(lambda * w1 * jacobiRelax))
	s.Verts[t.V[2]].Pos = s.Verts[t.V[2]].Pos.Add(grad2.MulScalar(lambda * w2 * jacobiRelax))
	s.Verts[t.V[3]].Pos = s.Verts[t.V[3]].Pos.Add(grad3.MulScalar(lambda * w3 * jacobiRelax))
}

func (s *Simulation) cornerPositions(t *Tet) (p0, p1, p2, p3 vec3.Vec) {
	return s.Verts[t.V[0]].Pos, s.Verts[t.V[1]].Pos, s.Verts[t.V[2]].Pos, s.Verts[t.V[3]].Pos
}

func (s *Simulation) cornerInvMasses(t *Tet) (w0, w1, w2, w3 float64) {
	return s.Verts[t.V[0]].InvMass, s.Verts[t.V[1]].InvMass, s.Verts[t.V[2]].InvMass, s.Verts[t.V[3]].InvMass
}

// applyDrag is kernel 5, optional and single-threaded (spec §4.7 step 5).
func (s *Simulation) applyDrag() {
	if !s.drag.active {
		return
	}
	v := &s.Verts[s.drag.vertex]
	if v.InvMass == 0 {
		return
	}
	v.Pos = v.Pos.Add(s.drag.target.Sub(v.Pos).MulScalar(s.drag.strength))
	vel := v.Pos.Sub(v.Prev)
	v.Prev = v.Pos.Sub(vel.MulScalar(0.5))
}

// updateTetState is kernel 7: recompute centroid and orientation, insert
// the tet into the spatial grid (spec §4.7 step 7).
func (s *Simulation) updateTetState(i int32) {
	t := &s.Tets[i]
	if !s.Instances[t.ObjectID].Active() {
		return
	}

	p0, p1, p2, p3 := s.cornerPositions(t)
	centre := p0.Add(p1).Add(p2).Add(p3).DivScalar(4)
	t.Centre = centre

	t.Orient = s.extractRotation(i, centre)

	if s.grid != nil {
		cell := s.grid.Cell(centre)
		t.NextTet = s.grid.Insert(cell, i)
	}
}

// extractRotation implements the iterative shape-matching rotation
// extraction of spec §4.7 step 7: Σ = Σⱼ (refⱼ−ref̄)⊗(posⱼ−centroid), then
// rotation_refinement_steps Newton-style refinements of q against Σ's
// columns, seeded from identity each frame (SPEC_FULL §4.7.1, Open
// Question resolution).
func (s *Simulation) extractRotation(ti int32, centre vec3.Vec) quat.Number {
	t := &s.Tets[ti]

	refBar := vec3.Vec{}
	for corner := 0; corner < 4; corner++ {
		refBar = refBar.Add(s.RestPoses[4*int(ti)+corner].Pos)
	}
	refBar = refBar.DivScalar(4)

	var a0, a1, a2 vec3.Vec // columns of Σ
	for corner := 0; corner < 4; corner++ {
		ref := s.RestPoses[4*int(ti)+corner].Pos.Sub(refBar)
		pos := s.Verts[t.V[corner]].Pos.Sub(centre)
		a0 = a0.Add(vec3.Vec{X: ref.X * pos.X, Y: ref.Y * pos.X, Z: ref.Z * pos.X})
		a1 = a1.Add(vec3.Vec{X: ref.X * pos.Y, Y: ref.Y * pos.Y, Z: ref.Z * pos.Y})
		a2 = a2.Add(vec3.Vec{X: ref.X * pos.Z, Y: ref.Y * pos.Z, Z: ref.Z * pos.Z})
	}

	q := quat.Number{Real: 1}
	const eps = 1e-9
	for iter := 0; iter < s.Config.RotationSteps; iter++ {
		x := vec3.RotateByQuat(q, vec3.Vec{X: 1})
		y := vec3.RotateByQuat(q, vec3.Vec{Y: 1})
		z := vec3.RotateByQuat(q, vec3.Vec{Z: 1})

		omega := x.Cross(a0).Add(y.Cross(a1)).Add(z.Cross(a2))
		denom := math.Abs(x.Dot(a0)+y.Dot(a1)+z.Dot(a2)) + eps
		omega = omega.DivScalar(denom)

		angle := omega.Length()
		if angle < 1e-9 {
			break
		}
		axis := omega.DivScalar(angle)
		step := quatFromAxisAngle(axis, angle)
		q = quatNormalize(quatMul(step, q))
	}
	return q
}

func quatFromAxisAngle(axis vec3.Vec, angle float64) quat.Number {
	half := angle / 2
	s := math.Sin(half)
	return quat.Number{Real: math.Cos(half), Imag: axis.X * s, Jmag: axis.Y * s, Kmag: axis.Z * s}
}

func quatMul(a, b quat.Number) quat.Number { return quat.Mul(a, b) }

func quatNormalize(q quat.Number) quat.Number {
	n := math.Sqrt(q.Real*q.Real + q.Imag*q.Imag + q.Jmag*q.Jmag + q.Kmag*q.Kmag)
	if n < 1e-12 {
		return quat.Number{Real: 1}
	}
	return quat.Number{Real: q.Real / n, Imag: q.Imag / n, Jmag: q.Jmag / n, Kmag: q.Kmag / n}
}

// broadphase is kernel 8 (spec §4.7 step 8): push overlapping tet
// centroids apart, skipping pairs that were already touching at rest.
func (s *Simulation) broadphase(i int32) {
	t := &s.Tets[i]
	if !s.Instances[t.ObjectID].Active() {
		return
	}

	cell := s.grid.Cell(t.Centre)
	diff := vec3.Vec{}

	s.grid.Neighbours(cell, func(c grid.CellCoord) {
		for other := s.grid.Head(c); other != grid.Empty; other = s.Tets[other].NextTet {
			if other == i {
				continue
			}
			o := &s.Tets[other]
			if t.ObjectID == o.ObjectID {
				refDist := t.RestCentre.Sub(o.RestCentre).Length()
				refLen := (t.Radius + o.Radius) * s.Config.SelfCollisionRestFactor
				if refDist <= refLen {
					continue
				}
			}

			d := t.Centre.Sub(o.Centre).Length()
			sumR := t.Radius + o.Radius
			if d < sumR && d > 1e-9 {
				push := t.Centre.Sub(o.Centre).DivScalar(d).MulScalar(0.5 * (sumR - d))
				diff = diff.Add(push)
			}
		}
	})

	if diff == (vec3.Vec{}) {
		return
	}
	for _, vi := range t.V {
		s.Verts[vi].Pos = s.Verts[vi].Pos.Add(diff)
	}
}
