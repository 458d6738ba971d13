// Command mdsim runs a molecular-dynamics simulation to completion from a
// checkpoint file and a YAML environment, writing a checkpoint back out
// every print_step iterations. The full command-line front-end (parameter
// sweeps, XML/text scene description, VTK/XYZ export) is out of scope here;
// this is the minimal driver the core's external collaborators plug into.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/mdsim/mdanalysis"
	"github.com/pthm-cable/mdsim/mdboundary"
	"github.com/pthm-cable/mdsim/mdcell"
	"github.com/pthm-cable/mdsim/mdconfig"
	"github.com/pthm-cable/mdsim/mdforce"
	"github.com/pthm-cable/mdsim/mdio"
	"github.com/pthm-cable/mdsim/mdparticle"
	"github.com/pthm-cable/mdsim/mdsim"
	"github.com/pthm-cable/mdsim/vecutil"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML environment file, overlaid on the embedded defaults")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	if err := run(*configPath); err != nil {
		slog.Error("mdsim exited with error", "err", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	env, err := mdconfig.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	cp, err := mdio.ReadFile(env.Input.Path)
	if err != nil {
		return fmt.Errorf("reading checkpoint: %w", err)
	}

	domain := vecutil.Vec3(env.Domain)
	gravity := vecutil.Vec3(env.Gravity)
	types := make([]mdparticle.TypeDesc, len(cp.Types))
	for i, tr := range cp.Types {
		types[i] = mdparticle.NewTypeDesc(tr.Mass, tr.Sigma, tr.Epsilon, 0, 0, 0, gravity, env.Dt)
	}

	container, err := mdcell.NewBoxContainer(domain, types, env.RCutoff, env.Periodic)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}
	for _, pr := range cp.Particles {
		p := mdparticle.NewParticle(pr.Pos, pr.Vel, int(pr.Type))
		p.F = pr.F
		container.Append(p)
	}
	if err := container.UpdatePositions(); err != nil {
		return fmt.Errorf("initial bucketing: %w", err)
	}

	calc, err := buildCalculator(env, container)
	if err != nil {
		return err
	}

	stepper := mdsim.NewStepper(buildFaces(env, domain, types))
	if env.Tweezers.Enabled {
		stepper.Tweezers = mdsim.NewTweezers(env.Tweezers.Indices, vecutil.Vec3(env.Tweezers.Force), env.Tweezers.EndTime)
	}

	var thermostat *mdsim.Thermostat
	if env.Thermostat.Enabled {
		thermostat = mdsim.NewThermostat(container, env.Thermostat.Target, env.Thermostat.Dim, env.Thermostat.MaxChange, env.Thermostat.HasCap)
	}

	diffusion := mdanalysis.NewDiffusion()
	var diffWriter *bufio.Writer
	if env.Output.Format == mdconfig.OutputCheckpoint && env.Output.Path != "" {
		f, err := os.Create(env.Output.Path + ".msd.csv")
		if err != nil {
			return fmt.Errorf("opening diffusion log: %w", err)
		}
		defer f.Close()
		diffWriter = bufio.NewWriter(f)
		defer diffWriter.Flush()

		summaryF, err := os.Create(env.Output.Path + ".msd_summary.csv")
		if err != nil {
			return fmt.Errorf("opening diffusion summary log: %w", err)
		}
		defer summaryF.Close()
		summaryWriter := bufio.NewWriter(summaryF)
		defer summaryWriter.Flush()

		flushEvery := env.PrintStep
		if flushEvery <= 0 {
			flushEvery = 1
		}
		stepper.Diffusion = &diffusionLogger{
			diffusion:  diffusion,
			w:          diffWriter,
			window:     mdanalysis.NewDiffusionWindow(),
			summaryW:   summaryWriter,
			flushEvery: flushEvery,
		}
	}

	slog.Info("starting run", "particles", container.Len(), "dt", env.Dt, "t_end", env.TEnd)
	start := time.Now()

	t := 0.0
	iteration := 0
	for t < env.TEnd {
		stepper.Step(calc, t)
		t += env.Dt
		iteration++

		if thermostat != nil && env.TempFrequency > 0 && iteration%env.TempFrequency == 0 {
			thermostat.Regulate()
		}

		if env.PrintStep > 0 && iteration%env.PrintStep == 0 {
			if err := writeCheckpoint(env, container, types); err != nil {
				return fmt.Errorf("writing checkpoint at iteration %d: %w", iteration, err)
			}
			slog.Info("checkpoint written", "iteration", iteration, "t", t)
		}
	}

	slog.Info("run complete", "iterations", iteration, "elapsed", time.Since(start))
	return writeCheckpoint(env, container, types)
}

func buildCalculator(env *mdconfig.Environment, container mdcell.Container) (mdforce.Calculator, error) {
	switch env.Calculator {
	case mdconfig.CalculatorGravity:
		return mdforce.NewGravityCalculator(container), nil
	case mdconfig.CalculatorLJ:
		return mdforce.NewLJCalculator(container), nil
	case mdconfig.CalculatorLJSmooth:
		return mdforce.NewLJSmoothCalculator(container, env.RCutoff*0.9, env.RCutoff), nil
	case mdconfig.CalculatorMolecule:
		return mdforce.NewMolCalculator(container), nil
	default:
		return nil, fmt.Errorf("unknown calculator kind %q", env.Calculator)
	}
}

func buildFaces(env *mdconfig.Environment, domain vecutil.Vec3, types []mdparticle.TypeDesc) mdsim.Faces {
	sigma := make([]float64, len(types))
	for i, td := range types {
		sigma[i] = td.Sigma
	}

	build := func(axis mdboundary.Axis, side mdboundary.Side, kind mdconfig.BoundaryKind) mdboundary.Boundary {
		switch kind {
		case mdconfig.BoundaryHard:
			return mdboundary.NewHardBoundary(axis, side, domain)
		case mdconfig.BoundaryGhost:
			return mdboundary.NewGhostBoundary(axis, side, domain, sigma)
		case mdconfig.BoundaryPeriodic:
			return mdboundary.NewPeriodicBoundary(axis, side, domain)
		case mdconfig.BoundaryOutflow:
			return mdboundary.NewOutflowBoundary(axis, side, domain)
		default:
			return mdboundary.NoBoundary{}
		}
	}

	b := env.Boundaries
	return mdsim.Faces{
		XNear: build(mdboundary.AxisX, mdboundary.SideNear, b.XNear),
		XFar:  build(mdboundary.AxisX, mdboundary.SideFar, b.XFar),
		YNear: build(mdboundary.AxisY, mdboundary.SideNear, b.YNear),
		YFar:  build(mdboundary.AxisY, mdboundary.SideFar, b.YFar),
		ZNear: build(mdboundary.AxisZ, mdboundary.SideNear, b.ZNear),
		ZFar:  build(mdboundary.AxisZ, mdboundary.SideFar, b.ZFar),
	}
}

func writeCheckpoint(env *mdconfig.Environment, container mdcell.Container, types []mdparticle.TypeDesc) error {
	if env.Output.Path == "" {
		return nil
	}
	n := container.Len()
	particles := make([]mdparticle.Particle, n)
	for i := 0; i < n; i++ {
		particles[i] = *container.At(i)
	}
	cp := mdio.FromContainer(types, particles, 2)
	return mdio.WriteFile(env.Output.Path, cp)
}

// diffusionLogger adapts mdanalysis.Diffusion to mdsim.Stepper's
// DiffusionLogger interface, keeping the L4 Stepper ignorant of the
// output-side analytics package per the layering in spec §2. Alongside the
// per-step MSD row it accumulates a windowed mean/p10/p50/p90 summary,
// flushed every flushEvery iterations.
type diffusionLogger struct {
	diffusion  *mdanalysis.Diffusion
	w          *bufio.Writer
	window     *mdanalysis.DiffusionWindow
	summaryW   *bufio.Writer
	flushEvery int
	iteration  int
}

func (d *diffusionLogger) LogStep(t float64, calc mdforce.Calculator) {
	msd := mdanalysis.Sample(calc.Container())
	if err := d.diffusion.Write(d.w, calc.Container(), d.iteration, t); err != nil {
		slog.Warn("diffusion log write failed", "err", err)
	}
	d.window.Add(msd)
	d.iteration++
	if d.iteration%d.flushEvery == 0 {
		if err := d.window.Flush(d.summaryW, d.iteration); err != nil {
			slog.Warn("diffusion summary flush failed", "err", err)
		}
	}
}
