package vns

import (
	"fmt"

	"processPlan/internal/neighborhood"
)

type Config struct {
	Evaluations             int `yaml:"evaluations"`
	EvaluationsPerOperation int `yaml:"evaluations_per_operation"`

	Policy neighborhood.Policy `yaml:"policy"`

	// InitialK — сила первой встряски.
	InitialK int `yaml:"initial_k"`
	// FailureK — сила встряски после итерации без улучшения.
	FailureK int `yaml:"failure_k"`
}

func DefaultConfig() Config {
	return Config{
		Evaluations:             0,
		EvaluationsPerOperation: 1000,

		Policy: neighborhood.PolicyBest,

		InitialK: 1,
		FailureK: 1,
	}
}

func (c Config) Validate() error {
	if c.Evaluations <= 0 && c.EvaluationsPerOperation <= 0 {
		return fmt.Errorf(
			"должно быть задано Evaluations > 0 или EvaluationsPerOperation > 0",
		)
	}
	if err := c.Policy.Validate(); err != nil {
		return err
	}
	if c.InitialK < 0 {
		return fmt.Errorf(
			"InitialK должно быть >= 0 (получено %d)",
			c.InitialK,
		)
	}
	// При FailureK == 0 итерация без улучшения может не тратить оценок.
	if c.FailureK <= 0 {
		return fmt.Errorf(
			"FailureK должно быть > 0 (получено %d)",
			c.FailureK,
		)
	}
	return nil
}
