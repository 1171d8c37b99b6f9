package ports

import "context"

// Confirmer is the blocking yes/no prompt shown before a save or delete.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool {
	return f(ctx, prompt)
}
