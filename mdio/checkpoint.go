// Package mdio reads and writes the native-endian binary checkpoint format
// of spec §6, the one external-input/output format inside this codebase's
// scope (text and XML readers, and the VTK/XYZ writers, are explicit
// non-goals left to the external front-end). It generalizes the JSON
// snapshot round-trip idiom of this codebase's lineage to a fixed binary
// record layout.
package mdio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

// TypeRecord is one TypeDesc's checkpoint-relevant raw parameters: mass,
// sigma, epsilon, Δt, and one signed component of the type's gravity
// vector. The checkpoint format stores a scalar g per spec §6; FromContainer
// takes that component from the axis its caller names (cmd/mdsim uses
// axis 2, Z), and Read returns it as stored without applying it.
type TypeRecord struct {
	Mass    float64
	Sigma   float64
	Epsilon float64
	Dt      float64
	Gravity float64
}

// ParticleRecord is one particle's checkpoint-relevant state.
type ParticleRecord struct {
	Pos  vecutil.Vec3
	Vel  vecutil.Vec3
	Type int32
	F    vecutil.Vec3
}

// Checkpoint is the full decoded contents of a checkpoint file.
type Checkpoint struct {
	Types     []TypeRecord
	Particles []ParticleRecord
}

var order = binary.NativeEndian

// Read decodes a checkpoint from r, per the layout: u64 num_types, then
// num_types*(f64 m, f64 sigma, f64 epsilon, f64 dt, f64 g); then
// u64 num_particles, then num_particles*(3xf64 pos, 3xf64 vel, i32 type,
// 3xf64 f).
func Read(r io.Reader) (*Checkpoint, error) {
	var numTypes uint64
	if err := binary.Read(r, order, &numTypes); err != nil {
		return nil, fmt.Errorf("mdio: reading num_types: %w", err)
	}

	types := make([]TypeRecord, numTypes)
	for i := range types {
		if err := readTypeRecord(r, &types[i]); err != nil {
			return nil, fmt.Errorf("mdio: reading type %d: %w", i, err)
		}
	}

	var numParticles uint64
	if err := binary.Read(r, order, &numParticles); err != nil {
		return nil, fmt.Errorf("mdio: reading num_particles: %w", err)
	}

	particles := make([]ParticleRecord, numParticles)
	for i := range particles {
		if err := readParticleRecord(r, &particles[i]); err != nil {
			return nil, fmt.Errorf("mdio: reading particle %d: %w", i, err)
		}
	}

	return &Checkpoint{Types: types, Particles: particles}, nil
}

func readTypeRecord(r io.Reader, t *TypeRecord) error {
	fields := []*float64{&t.Mass, &t.Sigma, &t.Epsilon, &t.Dt, &t.Gravity}
	for _, f := range fields {
		if err := binary.Read(r, order, f); err != nil {
			return err
		}
	}
	return nil
}

func readParticleRecord(r io.Reader, p *ParticleRecord) error {
	if err := binary.Read(r, order, &p.Pos); err != nil {
		return err
	}
	if err := binary.Read(r, order, &p.Vel); err != nil {
		return err
	}
	if err := binary.Read(r, order, &p.Type); err != nil {
		return err
	}
	return binary.Read(r, order, &p.F)
}

// Write encodes a checkpoint to w in the same layout Read consumes.
func Write(w io.Writer, cp *Checkpoint) error {
	if err := binary.Write(w, order, uint64(len(cp.Types))); err != nil {
		return fmt.Errorf("mdio: writing num_types: %w", err)
	}
	for i, t := range cp.Types {
		if err := writeTypeRecord(w, t); err != nil {
			return fmt.Errorf("mdio: writing type %d: %w", i, err)
		}
	}

	if err := binary.Write(w, order, uint64(len(cp.Particles))); err != nil {
		return fmt.Errorf("mdio: writing num_particles: %w", err)
	}
	for i, p := range cp.Particles {
		if err := writeParticleRecord(w, p); err != nil {
			return fmt.Errorf("mdio: writing particle %d: %w", i, err)
		}
	}
	return nil
}

func writeTypeRecord(w io.Writer, t TypeRecord) error {
	for _, f := range []float64{t.Mass, t.Sigma, t.Epsilon, t.Dt, t.Gravity} {
		if err := binary.Write(w, order, f); err != nil {
			return err
		}
	}
	return nil
}

func writeParticleRecord(w io.Writer, p ParticleRecord) error {
	if err := binary.Write(w, order, p.Pos); err != nil {
		return err
	}
	if err := binary.Write(w, order, p.Vel); err != nil {
		return err
	}
	if err := binary.Write(w, order, p.Type); err != nil {
		return err
	}
	return binary.Write(w, order, p.F)
}

// ReadFile opens path and decodes a checkpoint from it.
func ReadFile(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mdio: opening %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// WriteFile creates (or truncates) path and encodes a checkpoint to it.
func WriteFile(path string, cp *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("mdio: creating %s: %w", path, err)
	}
	defer f.Close()
	return Write(f, cp)
}

// FromContainer builds a Checkpoint from live container state.
func FromContainer(types []mdparticle.TypeDesc, particles []mdparticle.Particle, gravityAxis int) *Checkpoint {
	typeRecords := make([]TypeRecord, len(types))
	for i, td := range types {
		typeRecords[i] = TypeRecord{
			Mass:    td.Mass,
			Sigma:   td.Sigma,
			Epsilon: td.Epsilon,
			Dt:      td.Dt(),
			Gravity: td.Gravity[gravityAxis],
		}
	}

	particleRecords := make([]ParticleRecord, len(particles))
	for i, p := range particles {
		particleRecords[i] = ParticleRecord{
			Pos:  p.Pos,
			Vel:  p.Vel,
			Type: int32(p.Type),
			F:    p.F,
		}
	}

	return &Checkpoint{Types: typeRecords, Particles: particleRecords}
}
