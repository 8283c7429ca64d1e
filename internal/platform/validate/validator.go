package validate

import (
	"context"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
}

// Struct is a thin wrapper around validator.Validate's StructCtx.
// This exists purely to ensure that we only have one validator cache.
func Struct(ctx context.Context, s any) error {
	return validate.StructCtx(ctx, s)
}

// Var validates a single value against a tag, e.g. Var(ctx, id, "required").
func Var(ctx context.Context, field any, tag string) error {
	return validate.VarCtx(ctx, field, tag)
}
