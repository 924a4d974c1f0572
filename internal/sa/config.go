package sa

import "fmt"

type Config struct {
	Evaluations             int `yaml:"evaluations"`
	EvaluationsPerOperation int `yaml:"evaluations_per_operation"`

	InitialTemp float64 `yaml:"initial_temp"`
	FinalTemp   float64 `yaml:"final_temp"`
	Alpha       float64 `yaml:"alpha"`

	// MovesPerStep — число случайных 3-exchange ходов в одном соседе.
	MovesPerStep int `yaml:"moves_per_step"`
}

func DefaultConfig() Config {
	return Config{
		Evaluations:             0,
		EvaluationsPerOperation: 1000,

		InitialTemp: 1000.0,
		FinalTemp:   0.01,
		Alpha:       0.999,

		MovesPerStep: 1,
	}
}

func (c Config) Validate() error {
	if c.Evaluations <= 0 && c.EvaluationsPerOperation <= 0 {
		return fmt.Errorf(
			"должно быть задано Evaluations > 0 или EvaluationsPerOperation > 0",
		)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf(
			"InitialTemp должно быть > 0 (получено %f)",
			c.InitialTemp,
		)
	}
	if c.FinalTemp <= 0 {
		return fmt.Errorf(
			"FinalTemp должно быть > 0 (получено %f)",
			c.FinalTemp,
		)
	}
	if c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf(
			"FinalTemp должно быть < InitialTemp (получено %f >= %f)",
			c.FinalTemp,
			c.InitialTemp,
		)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf(
			"alpha должно лежать в интервале (0,1) (получено %f)",
			c.Alpha,
		)
	}
	if c.MovesPerStep <= 0 {
		return fmt.Errorf(
			"MovesPerStep должно быть > 0 (получено %d)",
			c.MovesPerStep,
		)
	}
	return nil
}
