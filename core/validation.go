package core

import "fmt"

// ValidateModelDescriptor validates a ModelDescriptor.
//
// Validation rules:
//   - Name must not be empty
//   - DimSize must not be negative
func ValidateModelDescriptor(model ModelDescriptor) error {
	if model.Name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidModel)
	}
	if model.DimSize < 0 {
		return fmt.Errorf("%w: negative dim_size %d for %q", ErrInvalidModel, model.DimSize, model.Name)
	}
	return nil
}

// ValidateProvider checks that a Provider is one of the known values.
func ValidateProvider(p Provider) error {
	switch p {
	case ProviderOpenAI, ProviderHuggingFace, ProviderOpenAIService, ProviderRenderForm:
		return nil
	}
	return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, p)
}
