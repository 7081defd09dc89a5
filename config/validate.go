package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	santhosh "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reglet-dev/numext"
)

const schemaURL = "numext-config.json"

var (
	compileOnce sync.Once
	compiled    *santhosh.Schema
	compileErr  error

	structValidator = newStructValidator()
)

// Schema returns the JSON schema of the configuration document, generated
// from the Config struct.
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		Anonymous:                  true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	return json.Marshal(r.Reflect(&Config{}))
}

func documentSchema() (*santhosh.Schema, error) {
	compileOnce.Do(func() {
		raw, err := Schema()
		if err != nil {
			compileErr = fmt.Errorf("failed to generate config schema: %w", err)
			return
		}
		c := santhosh.NewCompiler()
		if err := c.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
			compileErr = fmt.Errorf("failed to add config schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// validateDocument checks the decoded YAML document against the schema.
// Unknown keys are rejected here.
func validateDocument(doc map[string]any) error {
	sch, err := documentSchema()
	if err != nil {
		return err
	}

	// The validator wants JSON-shaped values (float64 numbers, []any lists).
	b, err := json.Marshal(doc)
	if err != nil {
		return &numext.ConfigError{Err: fmt.Errorf("failed to prepare document: %w", err)}
	}
	var obj any
	if err := json.Unmarshal(b, &obj); err != nil {
		return &numext.ConfigError{Err: fmt.Errorf("failed to prepare document: %w", err)}
	}

	if err := sch.Validate(obj); err != nil {
		var ve *santhosh.ValidationError
		if errors.As(err, &ve) {
			field := ve.InstanceLocation
			if len(ve.Causes) > 0 {
				field = ve.Causes[0].InstanceLocation
			}
			return &numext.ConfigError{Field: field, Err: ve}
		}
		return &numext.ConfigError{Err: err}
	}
	return nil
}

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("glob", func(fl validator.FieldLevel) bool {
		return doublestar.ValidatePattern(fl.Field().String())
	})
	return v
}

// validateStruct enforces the struct tags on the merged configuration.
func validateStruct(cfg Config) error {
	err := structValidator.Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &numext.ConfigError{
			Field: fe.Namespace(),
			Err:   fmt.Errorf("failed on '%s' with value %v", fe.Tag(), fe.Value()),
		}
	}
	return &numext.ConfigError{Err: err}
}
