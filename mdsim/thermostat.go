package mdsim

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/pthm-cable/mdsim/mdcell"
)

// Thermostat measures temperature from kinetic energy and rescales
// velocities toward a target temperature, optionally capped by a
// per-invocation slew rate (spec §4.6).
type Thermostat struct {
	Target    float64
	MaxChange float64 // slew cap per invocation; used only when HasCap is set
	HasCap    bool
	Dim       int // spatial dimension, 2 or 3

	container mdcell.Container
}

// NewThermostat returns a thermostat regulating container toward target,
// in a dim-dimensional system, with an optional slew cap.
func NewThermostat(container mdcell.Container, target float64, dim int, maxChange float64, hasCap bool) *Thermostat {
	return &Thermostat{Target: target, MaxChange: maxChange, HasCap: hasCap, Dim: dim, container: container}
}

// Regulate implements the five-step procedure of spec §4.6. Step 1 (the
// kinetic-energy sum) and step 5 (the per-particle scaling) both run over
// GOMAXPROCS(0) chunks of the particle array, joined with a WaitGroup,
// matching the chunked worker-pool idiom the parallel behavior/physics pass
// uses elsewhere in this codebase's lineage.
func (t *Thermostat) Regulate() {
	n := t.container.Len()
	if n == 0 {
		return
	}

	ek := t.sumKineticEnergyParallel(n)

	tCurr := ek / (float64(t.Dim) * float64(n))
	if tCurr == 0 {
		fatal(PhysicalError, fmt.Errorf("zero temperature measured on %d particles", n))
	}

	tStep := t.Target
	if t.HasCap {
		diff := t.Target - tCurr
		if math.Abs(diff) > t.MaxChange {
			if diff > 0 {
				tStep = tCurr + t.MaxChange
			} else {
				tStep = tCurr - t.MaxChange
			}
		}
	}

	beta := math.Sqrt(tStep / tCurr)
	if math.IsNaN(beta) {
		fatal(PhysicalError, fmt.Errorf("NaN thermostat scale factor (T_step=%v, T_curr=%v)", tStep, tCurr))
	}

	t.scaleVelocitiesParallel(n, beta)
}

func (t *Thermostat) sumKineticEnergyParallel(n int) float64 {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	partial := make([]float64, workers)
	var wg sync.WaitGroup
	types := t.container.Types()
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(w, start, end int) {
			defer wg.Done()
			var sum float64
			for i := start; i < end; i++ {
				p := t.container.At(i)
				mass := types[p.Type].Mass
				sum += mass * p.Vel.NormSquared()
			}
			partial[w] = sum
		}(w, start, end)
	}
	wg.Wait()
	return floats.Sum(partial)
}

func (t *Thermostat) scaleVelocitiesParallel(n int, beta float64) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if start >= n {
			break
		}
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				p := t.container.At(i)
				p.Vel = p.Vel.Scale(beta)
			}
		}(start, end)
	}
	wg.Wait()
}
