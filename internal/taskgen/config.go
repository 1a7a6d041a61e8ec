package taskgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated task; the first failure
	// stops the pipeline.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxPriorTitles bounds the deduplication list in the prompt.
	MaxPriorTitles int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&TestCaseValidator{},
			&DifficultyValidator{},
		},
		MaxTokens:      1000,
		Temperature:    0.7,
		MaxPriorTitles: 10,
	}
}
