package movement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/gestion-prep/internal/domain"
	"github.com/jhoicas/gestion-prep/internal/domain/entity"
	"github.com/jhoicas/gestion-prep/internal/domain/movement"
)

func TestEvaluateTransition(t *testing.T) {
	const (
		draft     = entity.MovementStatusDraft
		validated = entity.MovementStatusValidated
		cancelled = entity.MovementStatusCancelled
	)
	cases := []struct {
		name string
		req  movement.TransitionRequest
		want error
	}{
		{"nuevo a borrador", movement.TransitionRequest{To: draft}, nil},
		{"nuevo directo a validado", movement.TransitionRequest{To: validated}, domain.ErrInvalidInput},
		{"borrador a validado", movement.TransitionRequest{From: draft, To: validated}, nil},
		{"borrador a anulado", movement.TransitionRequest{From: draft, To: cancelled}, nil},
		{"borrador a borrador", movement.TransitionRequest{From: draft, To: draft}, domain.ErrInvalidInput},
		{"validado a validado", movement.TransitionRequest{From: validated, To: validated}, domain.ErrImmutableMovement},
		{"validado a anulado", movement.TransitionRequest{From: validated, To: cancelled}, domain.ErrImmutableMovement},
		{"validado a borrador", movement.TransitionRequest{From: validated, To: draft}, domain.ErrImmutableMovement},
		{"anulado a validado", movement.TransitionRequest{From: cancelled, To: validated}, domain.ErrImmutableMovement},
		{"estado desconocido", movement.TransitionRequest{From: draft, To: "ARCHIVE"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := movement.EvaluateTransition(tc.req)
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestTransitionRequest_IsValidation(t *testing.T) {
	assert.True(t, movement.TransitionRequest{From: entity.MovementStatusDraft, To: entity.MovementStatusValidated}.IsValidation())
	assert.False(t, movement.TransitionRequest{From: entity.MovementStatusValidated, To: entity.MovementStatusValidated}.IsValidation(),
		"re-guardar un documento validado no es una validación")
	assert.False(t, movement.TransitionRequest{From: entity.MovementStatusDraft, To: entity.MovementStatusCancelled}.IsValidation())
}
