package swagger

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidateSpecFile loads the OpenAPI document and validates it against the
// OpenAPI 3 schema. Run at startup so a broken spec is caught before the
// swagger UI serves it.
func ValidateSpecFile(path string) error {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("loading openapi spec %s: %w", path, err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return fmt.Errorf("validating openapi spec %s: %w", path, err)
	}

	return nil
}
