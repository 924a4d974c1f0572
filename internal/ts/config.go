package ts

import "fmt"

type Config struct {
	Evaluations             int `yaml:"evaluations"`
	EvaluationsPerOperation int `yaml:"evaluations_per_operation"`

	TabuTenure int `yaml:"tabu_tenure"`

	TabuTenureRand int `yaml:"tabu_tenure_rand"`

	// NeighborsPerIter — сколько случайных 3-exchange соседей декодируется за итерацию.
	NeighborsPerIter int `yaml:"neighbors_per_iter"`
}

func DefaultConfig() Config {
	return Config{
		Evaluations:             0,
		EvaluationsPerOperation: 1000,

		TabuTenure:     7,
		TabuTenureRand: 3,

		NeighborsPerIter: 30,
	}
}

func (c Config) Validate() error {
	if c.Evaluations <= 0 && c.EvaluationsPerOperation <= 0 {
		return fmt.Errorf(
			"должно быть задано Evaluations > 0 или EvaluationsPerOperation > 0",
		)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf(
			"TabuTenure должно быть > 0 (получено %d)",
			c.TabuTenure,
		)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf(
			"TabuTenureRand должно быть >= 0 (получено %d)",
			c.TabuTenureRand,
		)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf(
			"NeighborsPerIter должно быть > 0 (получено %d)",
			c.NeighborsPerIter,
		)
	}
	return nil
}
