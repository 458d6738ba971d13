package mdsim

import (
	"math"
	"testing"

	"github.com/pthm-cable/mdsim/mdboundary"
	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdforce"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/vecutil"
)

func hardBoxFaces(domain vecutil.Vec3) Faces {
	return Faces{
		XNear: mdboundary.NewHardBoundary(mdboundary.AxisX, mdboundary.SideNear, domain),
		XFar:  mdboundary.NewHardBoundary(mdboundary.AxisX, mdboundary.SideFar, domain),
		YNear: mdboundary.NewHardBoundary(mdboundary.AxisY, mdboundary.SideNear, domain),
		YFar:  mdboundary.NewHardBoundary(mdboundary.AxisY, mdboundary.SideFar, domain),
		ZNear: mdboundary.NewHardBoundary(mdboundary.AxisZ, mdboundary.SideNear, domain),
		ZFar:  mdboundary.NewHardBoundary(mdboundary.AxisZ, mdboundary.SideFar, domain),
	}
}

func TestStepperStepAdvancesAndReboundsOffHardWall(t *testing.T) {
	domain := vecutil.Vec3{10, 10, 10}
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 1.0)
	c, err := mdcell.NewBoxContainer(domain, []mdparticle.TypeDesc{td}, 5, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	// Moving fast enough toward x=0 that the half-step would cross it.
	c.Append(mdparticle.NewParticle(vecutil.Vec3{0.5, 5, 5}, vecutil.Vec3{-1, 0, 0}, 0))
	if err := c.UpdatePositions(); err != nil {
		t.Fatal(err)
	}

	calc := mdforce.NewLJCalculator(c)
	stepper := NewStepper(hardBoxFaces(domain))
	stepper.Step(calc, 0)

	pos := c.At(0).Pos[0]
	if pos < 0 || pos > domain[0] {
		t.Errorf("pos.x = %v, want reflected back inside [0, %v]", pos, domain[0])
	}
	if c.At(0).Vel[0] <= 0 {
		t.Errorf("vel.x = %v, want reflected to positive after hitting the near wall", c.At(0).Vel[0])
	}
}

func TestStepperStepRunsTweezersWhileActive(t *testing.T) {
	domain := vecutil.Vec3{10, 10, 10}
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 0.1)
	c, err := mdcell.NewBoxContainer(domain, []mdparticle.TypeDesc{td}, 5, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	c.Append(mdparticle.NewParticle(vecutil.Vec3{5, 5, 5}, vecutil.Zero, 0))
	if err := c.UpdatePositions(); err != nil {
		t.Fatal(err)
	}

	calc := mdforce.NewLJCalculator(c)
	stepper := NewStepper(hardBoxFaces(domain))
	stepper.Tweezers = NewTweezers([]int{0}, vecutil.Vec3{10, 0, 0}, 100)

	stepper.Step(calc, 0)

	// vel += dt/(2m)*(f_old+f); with a single particle f_old is the zero
	// force from before the step and f is the tweezer force after
	// CalculateOldF/CalculateF/tweezer injection.
	want := 0.1 / (2 * 1) * 10
	if math.Abs(c.At(0).Vel[0]-want) > 1e-9 {
		t.Errorf("vel.x = %v, want %v (tweezer force integrated)", c.At(0).Vel[0], want)
	}
}

func TestStepperStepSkipsTweezersAfterEndTime(t *testing.T) {
	domain := vecutil.Vec3{10, 10, 10}
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 0.1)
	c, err := mdcell.NewBoxContainer(domain, []mdparticle.TypeDesc{td}, 5, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	c.Append(mdparticle.NewParticle(vecutil.Vec3{5, 5, 5}, vecutil.Zero, 0))
	if err := c.UpdatePositions(); err != nil {
		t.Fatal(err)
	}

	calc := mdforce.NewLJCalculator(c)
	stepper := NewStepper(hardBoxFaces(domain))
	stepper.Tweezers = NewTweezers([]int{0}, vecutil.Vec3{10, 0, 0}, 1)

	stepper.Step(calc, 5) // past EndTime

	if c.At(0).Vel != vecutil.Zero {
		t.Errorf("vel = %v, want untouched zero once tweezers are inactive", c.At(0).Vel)
	}
}

func TestStepperStepCullsOutflowParticles(t *testing.T) {
	domain := vecutil.Vec3{10, 10, 10}
	td := mdparticle.NewTypeDesc(1, 1, 1, 0, 0, 0, vecutil.Zero, 1.0)
	c, err := mdcell.NewBoxContainer(domain, []mdparticle.TypeDesc{td}, 5, [3]bool{})
	if err != nil {
		t.Fatal(err)
	}
	c.Append(mdparticle.NewParticle(vecutil.Vec3{0.1, 5, 5}, vecutil.Vec3{-10, 0, 0}, 0))
	c.Append(mdparticle.NewParticle(vecutil.Vec3{5, 5, 5}, vecutil.Zero, 0))
	if err := c.UpdatePositions(); err != nil {
		t.Fatal(err)
	}

	faces := hardBoxFaces(domain)
	faces.XNear = mdboundary.NewOutflowBoundary(mdboundary.AxisX, mdboundary.SideNear, domain)

	calc := mdforce.NewLJCalculator(c)
	stepper := NewStepper(faces)
	stepper.Step(calc, 0)

	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1 after the outflow particle is culled", c.Len())
	}
}
