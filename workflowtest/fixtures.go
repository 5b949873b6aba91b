package workflowtest

import (
	"fmt"

	"github.com/amp-labs/workflow"
)

// LinearConfig creates a config whose states form a chain: each state has one
// transition, named advance_<next>, to its successor. Useful as a minimal
// fixture for config-driven tests.
func LinearConfig(name string, states ...string) *workflow.Config {
	config := &workflow.Config{Name: name}

	if len(states) == 0 {
		return config
	}

	config.InitialState = states[0]

	for i, state := range states {
		config.States = append(config.States, workflow.StateConfig{Name: state})

		if i > 0 {
			config.Transitions = append(config.Transitions, workflow.TransitionConfig{
				Name: fmt.Sprintf("advance_%s", state),
				From: []string{states[i-1]},
				To:   state,
			})
		}
	}

	return config
}

// LinearSchema builds a single-field schema from LinearConfig, attached at
// the "state" field.
func LinearSchema(name string, states ...string) (*workflow.Schema, error) {
	def, err := workflow.DefinitionFromConfig(LinearConfig(name, states...))
	if err != nil {
		return nil, err
	}

	return workflow.NewSchema().Attach("state", def).Build()
}
