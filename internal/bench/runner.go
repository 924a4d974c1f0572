package bench

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"processPlan/internal/fpp"
	"processPlan/internal/opt"
	"processPlan/internal/precedence"
)

type Algorithm struct {
	Name    string
	Factory func(seed int64) opt.Optimizer
}

// Case — именованный экземпляр задачи для серии запусков.
type Case struct {
	Name     string
	Instance *fpp.Instance
}

// EmbeddedCase берёт экземпляр из встроенного каталога.
func EmbeddedCase(name string) (Case, error) {
	inst, err := fpp.Case(name)
	if err != nil {
		return Case{}, err
	}
	return Case{Name: name, Instance: inst}, nil
}

func FileCase(path string) (Case, error) {
	inst, err := fpp.LoadFile(path)
	if err != nil {
		return Case{}, err
	}
	name := inst.Name
	if name == "" {
		name = filepath.Base(path)
	}
	return Case{Name: name, Instance: inst}, nil
}

// RandomCase генерирует экземпляр; один и тот же seed даёт один и тот же экземпляр.
func RandomCase(ops, machines, tools int, seed int64) Case {
	inst := fpp.RandomInstance(ops, machines, tools, rand.New(rand.NewSource(seed)))
	return Case{Name: fmt.Sprintf("%s-s%d", inst.Name, seed), Instance: inst}
}

type Record struct {
	RunID      string
	Algo       string
	Case       string
	Operations int
	Runs       int

	TimeBestMs float64
	TimeMeanMs float64
	TimeStdMs  float64

	ObjectiveBest float64
	ObjectiveMean float64
	ObjectiveStd  float64

	EvaluationsMean float64
	ConvergedMean   float64
}

type Runner struct {
	Runs          int
	BaseSeed      int64
	PerRunTimeout time.Duration // 0 = no timeout
	// Parallel — число одновременных запусков; <= 1 — последовательно.
	Parallel int
}

type run struct {
	objective   float64
	timeMs      float64
	evaluations int
	converged   int
}

// RunCase выполняет Runs независимых запусков с сидами BaseSeed+i.
// У каждого запуска свой солвер и генератор; общим остаётся только Spec.
func (r Runner) RunCase(ctx context.Context, c Case, algo Algorithm) (Record, error) {
	if r.Runs <= 0 {
		return Record{}, fmt.Errorf("runs must be > 0 (got %d)", r.Runs)
	}
	spec, err := fpp.NewSpec(c.Instance)
	if err != nil {
		return Record{}, fmt.Errorf("case %s: %w", c.Name, err)
	}
	engine, err := precedence.New(spec)
	if err != nil {
		return Record{}, fmt.Errorf("case %s: %w", c.Name, err)
	}

	runs := make([]run, r.Runs)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.Parallel))

	for i := 0; i < r.Runs; i++ {
		i := i
		g.Go(func() error {
			runSeed := r.BaseSeed + int64(i)
			op := algo.Factory(runSeed)

			runCtx := gctx
			cancel := func() {}
			if r.PerRunTimeout > 0 {
				runCtx, cancel = context.WithTimeout(gctx, r.PerRunTimeout)
			}
			start := time.Now()
			res, err := op.Solve(runCtx, spec)
			dur := time.Since(start)
			cancel()

			if err != nil && runCtx.Err() != nil {
				return fmt.Errorf("run %d: cancelled/timeout: %w", i, err)
			}
			if err != nil {
				return fmt.Errorf("run %d: solve error: %w", i, err)
			}
			if err := engine.Check(res.Plan.Order); err != nil {
				return fmt.Errorf("run %d: infeasible plan: %w", i, err)
			}
			eval, err := fpp.NewEvaluator(spec)
			if err != nil {
				return err
			}
			got, err := eval.Objective(res.Plan.States)
			if err != nil {
				return fmt.Errorf("run %d: invalid plan: %w", i, err)
			}
			if math.Abs(got-res.Objective) > 1e-6*math.Max(1, math.Abs(got)) {
				return fmt.Errorf("run %d: reported objective %g, plan evaluates to %g", i, res.Objective, got)
			}

			runs[i] = run{
				objective:   res.Objective,
				timeMs:      float64(dur.Microseconds()) / 1000.0,
				evaluations: res.Evaluations,
				converged:   res.ConvergedAt,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Record{}, fmt.Errorf("%s on %s: %w", algo.Name, c.Name, err)
	}

	objectives := make([]float64, len(runs))
	timesMs := make([]float64, len(runs))
	evals := make([]int, len(runs))
	converged := make([]int, len(runs))
	for i, rr := range runs {
		objectives[i] = rr.objective
		timesMs[i] = rr.timeMs
		evals[i] = rr.evaluations
		converged[i] = rr.converged
	}
	objStats := Calc(objectives)
	tStats := Calc(timesMs)

	return Record{
		RunID:      uuid.NewString(),
		Algo:       algo.Name,
		Case:       c.Name,
		Operations: engine.Size(),
		Runs:       r.Runs,

		TimeBestMs: tStats.Best,
		TimeMeanMs: tStats.Mean,
		TimeStdMs:  tStats.Std,

		ObjectiveBest: objStats.Best,
		ObjectiveMean: objStats.Mean,
		ObjectiveStd:  objStats.Std,

		EvaluationsMean: Calc(evals).Mean,
		ConvergedMean:   Calc(converged).Mean,
	}, nil
}

func WriteCSV(path string, records []Record) error {
	if d := filepath.Dir(path); d != "." {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"run_id", "algo", "case", "operations", "runs",
		"time_best_ms", "time_mean_ms", "time_std_ms",
		"objective_best", "objective_mean", "objective_std",
		"evaluations_mean", "converged_mean",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := []string{
			r.RunID,
			r.Algo,
			r.Case,
			strconv.Itoa(r.Operations),
			strconv.Itoa(r.Runs),

			ftoa(r.TimeBestMs),
			ftoa(r.TimeMeanMs),
			ftoa(r.TimeStdMs),

			ftoa(r.ObjectiveBest),
			ftoa(r.ObjectiveMean),
			ftoa(r.ObjectiveStd),

			ftoa(r.EvaluationsMean),
			ftoa(r.ConvergedMean),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
