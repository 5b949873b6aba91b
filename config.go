package workflow

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Config-specific errors.
var (
	// ErrConfigNameRequired indicates a configuration without a workflow name.
	ErrConfigNameRequired = errors.New("config name is required")
	// ErrDuplicateStateName indicates two states configured under the same name.
	ErrDuplicateStateName = errors.New("duplicate state name")
	// ErrDuplicateTransitionName indicates two transitions configured under the same name.
	ErrDuplicateTransitionName = errors.New("duplicate transition name")
)

// Config is the declarative form of a workflow definition, loadable from
// YAML. Unlike the builder, which replaces repeated names in place, a config
// with duplicate state or transition names fails validation: in a flat
// document a duplicate is a mistake, not an override.
type Config struct {
	Name         string             `json:"name"         yaml:"name"`
	InitialState string             `json:"initialState" yaml:"initialState"`
	States       []StateConfig      `json:"states"       yaml:"states"`
	Transitions  []TransitionConfig `json:"transitions"  yaml:"transitions"`
}

// StateConfig configures a single state.
type StateConfig struct {
	Name  string `json:"name"  yaml:"name"`
	Title string `json:"title" yaml:"title"`
}

// TransitionConfig configures a single transition.
type TransitionConfig struct {
	Name string   `json:"name" yaml:"name"`
	From []string `json:"from" yaml:"from"`
	To   string   `json:"to"   yaml:"to"`
}

// LoadConfig loads a workflow configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads a workflow configuration from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFromFS loads a configuration from a filesystem, typically an
// embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrConfigNameRequired
	}

	if c.InitialState == "" {
		return wrapDefinitionError(c.Name, ErrInitialStateRequired)
	}

	if len(c.States) == 0 {
		return wrapDefinitionError(c.Name, ErrNoStates)
	}

	stateNames := make(map[string]bool, len(c.States))

	for _, state := range c.States {
		if !stateNameRe.MatchString(state.Name) {
			return wrapDefinitionError(c.Name, fmt.Errorf("%w: %q", ErrInvalidStateName, state.Name))
		}

		if stateNames[state.Name] {
			return wrapDefinitionError(c.Name, fmt.Errorf("%w: %q", ErrDuplicateStateName, state.Name))
		}

		stateNames[state.Name] = true
	}

	if !stateNames[c.InitialState] {
		return wrapDefinitionError(c.Name, fmt.Errorf("%w: %q", ErrInitialStateNotFound, c.InitialState))
	}

	transitionNames := make(map[string]bool, len(c.Transitions))

	for _, tr := range c.Transitions {
		if tr.Name == "" {
			return wrapDefinitionError(c.Name, ErrTransitionNameRequired)
		}

		if transitionNames[tr.Name] {
			return wrapDefinitionError(c.Name, fmt.Errorf("%w: %q", ErrDuplicateTransitionName, tr.Name))
		}

		transitionNames[tr.Name] = true

		if len(tr.From) == 0 {
			return transitionError(c.Name, tr.Name, ErrTransitionSourceRequired, "")
		}

		for _, from := range tr.From {
			if !stateNames[from] {
				return transitionError(c.Name, tr.Name, ErrUnknownState, from)
			}
		}

		if !stateNames[tr.To] {
			return transitionError(c.Name, tr.Name, ErrUnknownState, tr.To)
		}
	}

	return nil
}

// DefinitionFromConfig builds a workflow definition from a validated
// configuration.
func DefinitionFromConfig(config *Config) (*Definition, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	builder := NewDefinition(config.Name).Initial(config.InitialState)

	for _, state := range config.States {
		builder.AddState(state.Name, state.Title)
	}

	for _, tr := range config.Transitions {
		builder.AddTransition(tr.Name, tr.From, tr.To)
	}

	return builder.Build()
}
