package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"processPlan/internal/bench"
	"processPlan/internal/config"
	"processPlan/internal/fpp"
)

var (
	flagParams      string
	flagEvaluations int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, red("Ошибка:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "fpp",
		Short: "Планирование техпроцесса: выбор порядка операций и ресурсов",
		Long: `fpp строит последовательность операций детали с учётом предшествования
и назначает каждой операции станок, инструмент и направление подхода так,
чтобы суммарная стоимость или время с переналадками были минимальны.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagParams, "params", "", "YAML-файл с параметрами алгоритмов")
	root.PersistentFlags().IntVar(&flagEvaluations, "evaluations", 0, "бюджет оценок для всех алгоритмов (0 — по параметрам)")

	root.AddCommand(solveCmd())
	root.AddCommand(benchCmd())
	root.AddCommand(casesCmd())
	return root
}

func loadParams() (config.Params, error) {
	p, err := config.Load(flagParams)
	if err != nil {
		return config.Params{}, err
	}
	return p.WithEvaluations(flagEvaluations), nil
}

func solveCmd() *cobra.Command {
	var (
		caseName string
		file     string
		algo     string
		seed     int64
		timeout  time.Duration
		verbose  bool
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Решить один экземпляр одним алгоритмом",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := pickCase(caseName, file)
			if err != nil {
				return err
			}
			params, err := loadParams()
			if err != nil {
				return err
			}
			var logger *log.Logger
			if verbose {
				logger = log.New(cmd.ErrOrStderr(), "", log.Ltime|log.Lmicroseconds)
			}
			algos, err := params.Select([]string{algo}, logger)
			if err != nil {
				return err
			}
			spec, err := fpp.NewSpec(c.Instance)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			res, err := algos[0].Factory(seed).Solve(ctx, spec)
			if err != nil && res.Plan.Empty() {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s, алгоритм %s, сид %d\n", bold("Экземпляр"), cyan(c.Name), bold(algos[0].Name), seed)
			if err != nil {
				fmt.Fprintf(w, "%s %v\n", boldYellow("Остановлено:"), err)
			}
			fmt.Fprintf(w, "%s %s (%s)\n", bold("Целевая функция:"), boldGreen(ftoa(res.Objective)), spec.Objective)
			fmt.Fprintf(w, "Оценок: %d, сходимость на оценке %d, итераций %d, время %s\n",
				res.Evaluations, res.ConvergedAt, res.Iterations, res.Duration.Round(time.Millisecond))
			for i, a := range res.Plan.Assignments(spec) {
				fmt.Fprintf(w, "  %s %s\n", dim(fmt.Sprintf("%3d.", i+1)), a)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&caseName, "case", "ma2000", "встроенный экземпляр (см. fpp cases)")
	cmd.Flags().StringVar(&file, "file", "", "YAML-файл экземпляра (приоритетнее --case)")
	cmd.Flags().StringVar(&algo, "algo", "VNS", "алгоритм: "+strings.Join(config.AlgorithmNames(), ", "))
	cmd.Flags().Int64Var(&seed, "seed", 1, "сид генератора случайных чисел")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "ограничение времени; 0 — без ограничения")
	cmd.Flags().BoolVar(&verbose, "verbose", false, "журнал улучшений VNS в stderr")
	return cmd
}

func benchCmd() *cobra.Command {
	var (
		cases        string
		random       string
		algos        string
		out          string
		runs         int
		baseSeed     int64
		instanceSeed int64
		parallel     int
		perRunTO     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Сравнить алгоритмы на наборе экземпляров и записать CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := loadParams()
			if err != nil {
				return err
			}
			selected, err := params.Select(splitCSV(algos), nil)
			if err != nil {
				return err
			}

			var all []bench.Case
			for _, name := range splitCSV(cases) {
				c, err := bench.EmbeddedCase(name)
				if err != nil {
					return err
				}
				all = append(all, c)
			}
			generated, err := parseRandom(random, instanceSeed)
			if err != nil {
				return err
			}
			all = append(all, generated...)
			if len(all) == 0 {
				return fmt.Errorf("не задано ни одного экземпляра (--cases или --random)")
			}

			runner := bench.Runner{
				Runs:          runs,
				BaseSeed:      baseSeed,
				PerRunTimeout: perRunTO,
				Parallel:      parallel,
			}

			w := cmd.OutOrStdout()
			var records []bench.Record
			for _, c := range all {
				for _, a := range selected {
					fmt.Fprintf(w, "Запущен алгоритм %s на %s (запусков=%d)...\n", bold(a.Name), cyan(c.Name), runner.Runs)

					rec, err := runner.RunCase(cmd.Context(), c, a)
					if err != nil {
						return err
					}
					records = append(records, rec)

					fmt.Fprintf(w, "  Целевая функция: лучшее=%s среднее=%.2f ст. откл.=%.2f | сходимость=%.0f | время: среднее=%.2fms\n",
						green(ftoa(rec.ObjectiveBest)), rec.ObjectiveMean, rec.ObjectiveStd,
						rec.ConvergedMean, rec.TimeMeanMs,
					)
				}
			}

			if err := bench.WriteCSV(out, records); err != nil {
				return fmt.Errorf("запись CSV: %w", err)
			}
			fmt.Fprintln(w, "Сохранено:", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&cases, "cases", strings.Join(fpp.CaseNames(), ","), "встроенные экземпляры (через запятую)")
	cmd.Flags().StringVar(&random, "random", "", "случайные экземпляры: операции x станки x инструменты, например 30x5x8,60x6x10")
	cmd.Flags().StringVar(&algos, "algos", strings.Join(config.AlgorithmNames(), ","), "алгоритмы (через запятую)")
	cmd.Flags().StringVar(&out, "out", "artifacts/results.csv", "путь к выходному CSV-файлу")
	cmd.Flags().IntVar(&runs, "runs", 30, "количество запусков каждого алгоритма (с разными сидами)")
	cmd.Flags().Int64Var(&baseSeed, "seed", 1000, "базовый сид для запусков алгоритмов")
	cmd.Flags().Int64Var(&instanceSeed, "instance-seed", 777, "базовый сид для генерации случайных экземпляров")
	cmd.Flags().IntVar(&parallel, "parallel", 1, "число одновременных запусков")
	cmd.Flags().DurationVar(&perRunTO, "per-run-timeout", 0, "таймаут одного запуска; 0 — без ограничения")
	return cmd
}

func casesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cases",
		Short: "Показать встроенные экземпляры",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printCases(cmd.OutOrStdout())
		},
	}
}

func printCases(w io.Writer) error {
	for _, name := range fpp.CaseNames() {
		inst, err := fpp.Case(name)
		if err != nil {
			return err
		}
		spec, err := fpp.NewSpec(inst)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\tопераций=%d групп=%d\n", bold(name), inst.Objective, spec.NumOperations(), spec.NumGroups())
		if d := strings.TrimSpace(inst.Description); d != "" {
			for _, line := range strings.Split(d, "\n") {
				fmt.Fprintf(w, "  %s\n", dim(line))
			}
		}
	}
	return nil
}

// helpers

// parseRandom разбирает список "операции x станки x инструменты".
func parseRandom(s string, baseSeed int64) ([]bench.Case, error) {
	parts := splitCSV(s)
	cases := make([]bench.Case, 0, len(parts))

	for i, p := range parts {
		dims := strings.Split(p, "x")
		if len(dims) != 3 {
			return nil, fmt.Errorf("размер %q невалидной схемы, пример: 30x5x8", p)
		}
		var v [3]int
		for k, d := range dims {
			n, err := strconv.Atoi(strings.TrimSpace(d))
			if err != nil {
				return nil, fmt.Errorf("размер %q: %w", p, err)
			}
			if n <= 0 {
				return nil, fmt.Errorf("размер %q: все значения должны быть > 0", p)
			}
			v[k] = n
		}

		seed := baseSeed + int64(i)*10_000 + int64(v[0])*100 + int64(v[1])
		cases = append(cases, bench.RandomCase(v[0], v[1], v[2], seed))
	}
	return cases, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func pickCase(name, file string) (bench.Case, error) {
	if file != "" {
		return bench.FileCase(file)
	}
	return bench.EmbeddedCase(name)
}

func ftoa(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
