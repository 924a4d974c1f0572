// Package config читает файл параметров солверов и строит по нему фабрики
// алгоритмов для CLI и стенда.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"processPlan/internal/aco"
	"processPlan/internal/bench"
	"processPlan/internal/ga"
	"processPlan/internal/opt"
	"processPlan/internal/pso"
	"processPlan/internal/sa"
	"processPlan/internal/ts"
	"processPlan/internal/vns"
)

// Params — параметры всех солверов. Отсутствующие в файле поля
// сохраняют значения DefaultConfig соответствующего пакета.
type Params struct {
	VNS vns.Config `yaml:"vns"`
	GA  ga.Config  `yaml:"ga"`
	ACO aco.Config `yaml:"aco"`
	SA  sa.Config  `yaml:"sa"`
	TS  ts.Config  `yaml:"ts"`
	PSO pso.Config `yaml:"pso"`
}

func Default() Params {
	return Params{
		VNS: vns.DefaultConfig(),
		GA:  ga.DefaultConfig(),
		ACO: aco.DefaultConfig(),
		SA:  sa.DefaultConfig(),
		TS:  ts.DefaultConfig(),
		PSO: pso.DefaultConfig(),
	}
}

// Parse накладывает YAML поверх значений по умолчанию.
// Неизвестные ключи считаются ошибкой.
func Parse(data []byte) (Params, error) {
	p := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Params{}, fmt.Errorf("parse params: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Params{}, err
	}
	return p, nil
}

// Load читает файл параметров; пустой путь означает значения по умолчанию.
func Load(path string) (Params, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("read params %s: %w", path, err)
	}
	p, err := Parse(data)
	if err != nil {
		return Params{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func (p Params) Validate() error {
	checks := []struct {
		name string
		err  error
	}{
		{"vns", p.VNS.Validate()},
		{"ga", p.GA.Validate()},
		{"aco", p.ACO.Validate()},
		{"sa", p.SA.Validate()},
		{"ts", p.TS.Validate()},
		{"pso", p.PSO.Validate()},
	}
	for _, c := range checks {
		if c.err != nil {
			return fmt.Errorf("конфликт в конфигурации %s: %w", c.name, c.err)
		}
	}
	return nil
}

// WithEvaluations задаёт одинаковый явный бюджет оценок всем солверам.
// evaluations <= 0 оставляет бюджеты без изменений.
func (p Params) WithEvaluations(evaluations int) Params {
	if evaluations <= 0 {
		return p
	}
	p.VNS.Evaluations = evaluations
	p.GA.Evaluations = evaluations
	p.ACO.Evaluations = evaluations
	p.SA.Evaluations = evaluations
	p.TS.Evaluations = evaluations
	p.PSO.Evaluations = evaluations
	return p
}

// Фабрики

func newVNSFactory(cfg vns.Config, logger *log.Logger) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := vns.New(cfg, rand.New(rand.NewSource(seed)))
		solver.Log = logger
		return solver
	}
}

func newGAFactory(cfg ga.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ga.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newACOFactory(cfg aco.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := aco.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newSAFactory(cfg sa.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := sa.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newTSFactory(cfg ts.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := ts.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

func newPSOFactory(cfg pso.Config) func(seed int64) opt.Optimizer {
	return func(seed int64) opt.Optimizer {
		solver, _ := pso.New(cfg, rand.New(rand.NewSource(seed)))
		return solver
	}
}

// Algorithms возвращает все алгоритмы по имени. Конфигурация должна быть
// проверена Validate: фабрики не возвращают ошибок.
// logger передаётся только VNS; nil — без журнала.
func (p Params) Algorithms(logger *log.Logger) map[string]bench.Algorithm {
	return map[string]bench.Algorithm{
		"VNS": {Name: "VNS", Factory: newVNSFactory(p.VNS, logger)},
		"GA":  {Name: "GA", Factory: newGAFactory(p.GA)},
		"ACO": {Name: "ACO", Factory: newACOFactory(p.ACO)},
		"SA":  {Name: "SA", Factory: newSAFactory(p.SA)},
		"TS":  {Name: "TS", Factory: newTSFactory(p.TS)},
		"PSO": {Name: "PSO", Factory: newPSOFactory(p.PSO)},
	}
}

// Select выбирает алгоритмы по именам без учёта регистра, сохраняя порядок.
func (p Params) Select(names []string, logger *log.Logger) ([]bench.Algorithm, error) {
	available := p.Algorithms(logger)
	out := make([]bench.Algorithm, 0, len(names))
	for _, n := range names {
		a, ok := available[strings.ToUpper(strings.TrimSpace(n))]
		if !ok {
			return nil, fmt.Errorf("алгоритм %q не предоставлен; доступные: %s", n, strings.Join(AlgorithmNames(), ", "))
		}
		out = append(out, a)
	}
	return out, nil
}

func AlgorithmNames() []string {
	names := make([]string, 0, 6)
	for k := range Default().Algorithms(nil) {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
