package softbody

import (
	"gonum.org/v1/gonum/num/quat"

	"github.com/caldera-labs/tetrasim/vec3"
)

// Spawn activates an instance at a world transform with an initial velocity
// (spec §6 "spawn(instance, pos, quat, scale, velocity)"): it composes the
// transform, resets vertices/tets from their rest poses, and sets size=1 on
// the instance's first vertex thread (spec §4.6 "Activate / reset
// instance").
func (s *Simulation) Spawn(h InstanceHandle, pos vec3.Vec, rot quat.Number, scale float64, velocity vec3.Vec) error {
	if !s.baked {
		return ErrNotBaked
	}
	in, err := s.instance(h)
	if err != nil {
		return err
	}

	sdt := s.Config.substepDt()
	for i := in.VertStart; i < in.VertStart+in.VertCount; i++ {
		v := &s.Verts[i]
		v.Pos = transformPoint(v.Rest, pos, rot, scale)
		v.Prev = v.Pos.Sub(velocity.MulScalar(sdt))
	}
	in.Size = 1

	for i := in.TetStart; i < in.TetStart+in.TetCount; i++ {
		t := &s.Tets[i]
		var centre vec3.Vec
		for corner := 0; corner < 4; corner++ {
			// Verts[...].Rest is never mutated, so re-deriving from it
			// each Spawn keeps respawn idempotent instead of compounding
			// transforms onto an already-transformed RestPose.
			restCorner := s.Verts[t.V[corner]].Rest
			transformed := transformPoint(restCorner, pos, rot, scale)
			s.RestPoses[4*int(i)+corner].Pos = transformed
			centre = centre.Add(transformed)
		}
		centre = centre.DivScalar(4)
		t.Centre = centre
		t.RestCentre = centre
		t.Radius = characteristicRadius(t.RestVolume * scale * scale * scale)
		t.Orient = quat.Number{Real: 1}
	}
	return nil
}

// Despawn deactivates an instance; its kernels are skipped until the next
// Spawn (spec §4.6 "Deactivate").
func (s *Simulation) Despawn(h InstanceHandle) error {
	if !s.baked {
		return ErrNotBaked
	}
	in, err := s.instance(h)
	if err != nil {
		return err
	}
	in.Size = 0
	return nil
}

func (s *Simulation) instance(h InstanceHandle) (*Instance, error) {
	if int(h) < 0 || int(h) >= len(s.Instances) {
		return nil, ErrResetOutOfRange
	}
	return &s.Instances[h], nil
}

// transformPoint applies scale, then rot, then translates by pos, matching
// the TRS composition order spec's "composed transform" uniform expects.
func transformPoint(p vec3.Vec, pos vec3.Vec, rot quat.Number, scale float64) vec3.Vec {
	scaled := p.MulScalar(scale)
	rotated := vec3.RotateByQuat(rot, scaled)
	return rotated.Add(pos)
}
