package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/gift-catalog/internal/domain"
	"github.com/pkordes/gift-catalog/internal/validation"
)

func ptr[T any](v T) *T { return &v }

func validInput() domain.CertificateInput {
	return domain.CertificateInput{
		Name:        ptr("Spa day"),
		Description: ptr("Full day at the spa"),
		Price:       ptr(int64(1)),
		Duration:    ptr(int64(1)),
	}
}

// ---- ValidateForCreate -----------------------------------------------------

func TestValidateForCreate_MinimalValid(t *testing.T) {
	err := validation.New().ValidateForCreate(validInput())

	require.NoError(t, err)
}

func TestValidateForCreate_EachFieldRequired(t *testing.T) {
	cases := map[string]func(*domain.CertificateInput){
		"name":        func(in *domain.CertificateInput) { in.Name = nil },
		"description": func(in *domain.CertificateInput) { in.Description = nil },
		"price":       func(in *domain.CertificateInput) { in.Price = nil },
		"duration":    func(in *domain.CertificateInput) { in.Duration = nil },
	}
	for field, drop := range cases {
		t.Run(field, func(t *testing.T) {
			in := validInput()
			drop(&in)

			err := validation.New().ValidateForCreate(in)

			require.ErrorIs(t, err, domain.ErrRequiredField)
			assert.ErrorContains(t, err, field+" is required")
		})
	}
}

func TestValidateForCreate_BlankNameIsMissing(t *testing.T) {
	in := validInput()
	in.Name = ptr("   ")

	err := validation.New().ValidateForCreate(in)

	assert.ErrorIs(t, err, domain.ErrRequiredField)
}

func TestValidateForCreate_ZeroPrice(t *testing.T) {
	in := validInput()
	in.Price = ptr(int64(0))

	err := validation.New().ValidateForCreate(in)

	require.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.ErrorContains(t, err, "price must be greater than 0")
}

func TestValidateForCreate_NegativeDuration(t *testing.T) {
	in := validInput()
	in.Duration = ptr(int64(-1))

	err := validation.New().ValidateForCreate(in)

	assert.ErrorIs(t, err, domain.ErrInvalidValue)
}

func TestValidateForCreate_MissingWinsOverInvalid(t *testing.T) {
	in := validInput()
	in.Name = nil
	in.Price = ptr(int64(0))

	err := validation.New().ValidateForCreate(in)

	assert.ErrorIs(t, err, domain.ErrRequiredField)
	assert.NotErrorIs(t, err, domain.ErrInvalidValue)
}

// ---- ValidateForUpdate -----------------------------------------------------

func TestValidateForUpdate_EmptyIsValid(t *testing.T) {
	err := validation.New().ValidateForUpdate(domain.CertificateInput{})

	assert.NoError(t, err)
}

func TestValidateForUpdate_PartialValid(t *testing.T) {
	err := validation.New().ValidateForUpdate(domain.CertificateInput{Price: ptr(int64(500))})

	assert.NoError(t, err)
}

func TestValidateForUpdate_NonPositive(t *testing.T) {
	for _, in := range []domain.CertificateInput{
		{Price: ptr(int64(0))},
		{Duration: ptr(int64(-3))},
	} {
		err := validation.New().ValidateForUpdate(in)
		assert.ErrorIs(t, err, domain.ErrInvalidValue)
	}
}

func TestValidateForUpdate_WhitespaceName(t *testing.T) {
	err := validation.New().ValidateForUpdate(domain.CertificateInput{Name: ptr(" \t")})

	require.ErrorIs(t, err, domain.ErrInvalidValue)
	assert.ErrorContains(t, err, "name must not be blank")
}

// ---- ValidateTagName -------------------------------------------------------

func TestValidateTagName(t *testing.T) {
	v := validation.New()

	assert.NoError(t, v.ValidateTagName("sale"))
	assert.ErrorIs(t, v.ValidateTagName(""), domain.ErrRequiredField)
	assert.ErrorIs(t, v.ValidateTagName("   "), domain.ErrRequiredField)
}
