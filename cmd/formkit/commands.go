package main

import (
	"context"
	"fmt"
	"io"
	"os"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	formkit "github.com/reoring/formkit"
	"github.com/reoring/formkit/i18n"
	"github.com/reoring/formkit/schemafile"
	"github.com/reoring/formkit/source"
)

func loadSchema(path string) (*formkit.Schema, error) {
	if path == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	return schemafile.Load(path,
		formkit.WithLogger(logger),
		formkit.WithTranslator(i18n.Dictionary(lang)))
}

func readValues(path string, stdin io.Reader) (formkit.Values, error) {
	if path == "" || path == "-" {
		return source.JSONReader(stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return source.JSONReader(f)
}

func writeJSON(w io.Writer, v any) error {
	enc := j.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type formReport struct {
	Valid  bool                `json:"valid"`
	Errors formkit.FieldErrors `json:"errors"`
	Issues formkit.Issues      `json:"issues,omitempty"`
}

func newValidateCmd() *cobra.Command {
	var schemaPath, valuesPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a JSON object of values; exits 1 when invalid",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			values, err := readValues(valuesPath, cmd.InOrStdin())
			if err != nil {
				if iss, ok := formkit.AsIssues(err); ok {
					_ = writeJSON(cmd.OutOrStdout(), formReport{Errors: iss.FirstPerField(), Issues: iss})
					return errInvalid
				}
				return err
			}
			return runValidate(cmd.Context(), cmd.OutOrStdout(), s, values)
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (.yaml, .yml, .json)")
	cmd.Flags().StringVar(&valuesPath, "values", "-", "JSON values file, - for stdin")
	return cmd
}

func runValidate(ctx context.Context, w io.Writer, s *formkit.Schema, values formkit.Values) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res := s.ValidateForm(ctx, values)
	logger.Debug("form validated", zap.Bool("valid", res.Valid), zap.Int("issues", len(res.Issues)))
	if err := writeJSON(w, formReport{Valid: res.Valid, Errors: res.Errors, Issues: res.Issues}); err != nil {
		return err
	}
	if !res.Valid {
		return errInvalid
	}
	return nil
}

type fieldReport struct {
	Field string `json:"field"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func newCheckFieldCmd() *cobra.Command {
	var schemaPath, field, value string
	cmd := &cobra.Command{
		Use:   "check-field",
		Short: "Validate one field value as typed into an input",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			if field == "" {
				return fmt.Errorf("--field is required")
			}
			return runCheckField(cmd.Context(), cmd.OutOrStdout(), s, field, value)
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (.yaml, .yml, .json)")
	cmd.Flags().StringVar(&field, "field", "", "field name")
	cmd.Flags().StringVar(&value, "value", "", "raw input text")
	return cmd
}

func runCheckField(ctx context.Context, w io.Writer, s *formkit.Schema, field, value string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	res := s.ValidateField(ctx, field, value)
	if err := writeJSON(w, fieldReport{Field: field, Valid: res.Valid, Error: res.Error}); err != nil {
		return err
	}
	if !res.Valid {
		return errInvalid
	}
	return nil
}

func newJSONSchemaCmd() *cobra.Command {
	var schemaPath string
	cmd := &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the JSON Schema projection of a schema file",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSchema(schemaPath)
			if err != nil {
				return err
			}
			doc, err := s.JSONSchema()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), doc)
		},
	}
	cmd.Flags().StringVar(&schemaPath, "schema", "", "schema file (.yaml, .yml, .json)")
	return cmd
}
