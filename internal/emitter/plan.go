package emitter

import "github.com/vitalis-app/bin2c/internal/models"

// Plan groups the inputs into output sets. With an empty output name every
// input becomes its own set named after the input path; otherwise all inputs
// go into a single set, in the order given.
func Plan(output string, inputs []string) ([]models.OutputSet, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInputs
	}

	if output == "" {
		sets := make([]models.OutputSet, 0, len(inputs))
		for _, in := range inputs {
			sets = append(sets, models.OutputSet{Base: in, Inputs: []string{in}})
		}
		return sets, nil
	}

	ordered := make([]string, len(inputs))
	copy(ordered, inputs)
	return []models.OutputSet{{Base: output, Inputs: ordered}}, nil
}
