package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gestion-prep/internal/domain"
)

func TestValidationError_AcumulaYAgrupaPorCampo(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("lignes.1.quantite", domain.ErrInsufficientStock, "stock insuficiente para A. Stock disponible: 3")
	verr.Add("lignes.1.quantite", domain.ErrInvalidQuantity, "")
	verr.Add(domain.FieldAll, domain.ErrEmptyMovement, "")

	fields := verr.Fields()
	require.Len(t, fields["lignes.1.quantite"], 2)
	assert.Equal(t, domain.ErrInvalidQuantity.Error(), fields["lignes.1.quantite"][1], "mensaje vacío usa el del código")
	assert.Contains(t, verr.Error(), "__all__")
}

func TestValidationError_IsAtraviesaWrap(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("x", domain.ErrImmutableMovement, "")
	err := fmt.Errorf("validar: %w", verr)

	assert.ErrorIs(t, err, domain.ErrImmutableMovement)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
	var target *domain.ValidationError
	assert.ErrorAs(t, err, &target)
}

func TestValidationError_OrNilSinErrores(t *testing.T) {
	var nilErr *domain.ValidationError
	assert.True(t, nilErr.Empty())
	assert.NoError(t, (&domain.ValidationError{}).OrNil())
}

func TestValidationError_Without(t *testing.T) {
	verr := &domain.ValidationError{}
	verr.Add("quantite", domain.ErrInsufficientStock, "")
	verr.Add("article", domain.ErrMissingArticle, "")

	rest := verr.Without(domain.ErrInsufficientStock)
	assert.Len(t, rest.Errors, 1)
	assert.True(t, rest.Is(domain.ErrMissingArticle))
	assert.Len(t, verr.Errors, 2, "el original no cambia")
	assert.True(t, verr.Without(domain.ErrMissingArticle).Without(domain.ErrInsufficientStock).Empty())
}
