package ga

import "fmt"

type Config struct {
	Evaluations             int `yaml:"evaluations"`
	EvaluationsPerOperation int `yaml:"evaluations_per_operation"`

	Population     int     `yaml:"population"`
	TournamentSize int     `yaml:"tournament_size"`
	CrossoverRate  float64 `yaml:"crossover_rate"`
	MutationRate   float64 `yaml:"mutation_rate"`
}

func (c Config) Validate() error {
	if c.Evaluations <= 0 && c.EvaluationsPerOperation <= 0 {
		return fmt.Errorf(
			"должно быть задано Evaluations > 0 или EvaluationsPerOperation > 0",
		)
	}
	if c.Population <= 1 {
		return fmt.Errorf(
			"размер популяции должен быть > 1 (получено %d)",
			c.Population,
		)
	}
	if c.TournamentSize <= 0 || c.TournamentSize > c.Population {
		return fmt.Errorf(
			"размер турнира должен быть в диапазоне [1, population] (получено %d)",
			c.TournamentSize,
		)
	}
	if c.CrossoverRate < 0 || c.CrossoverRate > 1 {
		return fmt.Errorf(
			"вероятность кроссовера должна быть в диапазоне [0,1] (получено %f)",
			c.CrossoverRate,
		)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf(
			"вероятность мутации должна быть в диапазоне [0,1] (получено %f)",
			c.MutationRate,
		)
	}
	return nil
}

func DefaultConfig() Config {
	return Config{
		Evaluations:             0,
		EvaluationsPerOperation: 1000,

		Population:     150,
		TournamentSize: 2,
		CrossoverRate:  0.80,
		MutationRate:   0.20,
	}
}
