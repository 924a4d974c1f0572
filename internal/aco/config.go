package aco

import (
	"fmt"

	"processPlan/internal/opt"
)

type Config struct {
	Evaluations             int `yaml:"evaluations"`
	EvaluationsPerOperation int `yaml:"evaluations_per_operation"`

	Ants int `yaml:"ants"`

	Alpha float64 `yaml:"alpha"`
	Beta  float64 `yaml:"beta"`

	Rho float64 `yaml:"rho"`

	Q float64 `yaml:"q"`

	Tau0 float64 `yaml:"tau0"`

	CandidateK int `yaml:"candidate_k"`

	// Fallback — что делать, если веса рулетки вырождены.
	Fallback opt.Fallback `yaml:"fallback"`
}

func DefaultConfig() Config {
	return Config{
		Evaluations:             0,
		EvaluationsPerOperation: 1000,

		Ants: 100,

		Alpha: 1.0,
		Beta:  2.0,

		Rho: 0.10,
		Q:   100.0,

		Tau0: 100.0,

		CandidateK: 0,

		Fallback: opt.FallbackUniform,
	}
}

func (c Config) Validate() error {
	if c.Evaluations <= 0 && c.EvaluationsPerOperation <= 0 {
		return fmt.Errorf(
			"должно быть задано Evaluations > 0 или EvaluationsPerOperation > 0",
		)
	}
	if c.Ants <= 0 {
		return fmt.Errorf(
			"ants должно быть > 0 (получено %d)",
			c.Ants,
		)
	}
	if c.Alpha < 0 {
		return fmt.Errorf(
			"alpha должно быть >= 0 (получено %f)",
			c.Alpha,
		)
	}
	if c.Beta < 0 {
		return fmt.Errorf(
			"beta должно быть >= 0 (получено %f)",
			c.Beta,
		)
	}
	if c.Rho <= 0 || c.Rho >= 1 {
		return fmt.Errorf(
			"rho должно лежать в интервале (0,1) (получено %f)",
			c.Rho,
		)
	}
	if c.Q <= 0 {
		return fmt.Errorf(
			"Q должно быть > 0 (получено %f)",
			c.Q,
		)
	}
	if c.Tau0 <= 0 {
		return fmt.Errorf(
			"tau0 должно быть > 0 (получено %f)",
			c.Tau0,
		)
	}
	if c.CandidateK < 0 {
		return fmt.Errorf(
			"CandidateK должно быть >= 0 (получено %d)",
			c.CandidateK,
		)
	}
	return c.Fallback.Validate()
}
