package ml

import "fmt"

// InvalidInputError reports a scoring vector that disagrees with the
// feature set the model was trained on.
type InvalidInputError struct {
	Want   int
	Got    int
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid input: %s", e.Reason)
	}
	return fmt.Sprintf("invalid input: expected %d features, got %d", e.Want, e.Got)
}

// ConfigError reports an unusable training configuration, such as a
// training split that is missing one of the two classes.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("training config: %s", e.Reason)
}
