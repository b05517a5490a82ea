package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRUT(t *testing.T) {
	tests := []struct {
		name    string
		rut     string
		wantErr bool
	}{
		{"valid numeric digit", "123456785", false},
		{"valid all ones", "111111111", false},
		{"remainder eleven maps to zero", "000000000", false},
		{"remainder ten maps to k", "00000005k", false},
		{"uppercase k accepted", "00000005K", false},
		{"wrong check digit", "123456789", true},
		{"k where digit expected", "12345678k", true},
		{"too short", "12345678", true},
		{"too long", "1234567855", true},
		{"empty", "", true},
		{"non-digit body", "1234a6785", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRUT(tt.rut)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRUT)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRUT_ErrorCarriesDigits(t *testing.T) {
	err := ValidateRUT("123456789")
	require.Error(t, err)

	var rutErr *RUTError
	require.True(t, errors.As(err, &rutErr))
	assert.Equal(t, "9", rutErr.Provided)
	assert.Equal(t, "5", rutErr.Expected)
	assert.Contains(t, err.Error(), "9")
	assert.Contains(t, err.Error(), "expected 5")
}

func TestCheckDigit(t *testing.T) {
	d, err := CheckDigit("12345678")
	require.NoError(t, err)
	assert.Equal(t, "5", d)

	d, err = CheckDigit("00000005")
	require.NoError(t, err)
	assert.Equal(t, "k", d)
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("AD")
	require.NoError(t, err)
	assert.Equal(t, RoleAdministrador, r)
	assert.Equal(t, GroupAdministrador, r.GroupName())

	r, err = ParseRole("funcionario")
	require.NoError(t, err)
	assert.Equal(t, GroupFuncionario, r.GroupName())

	_, err = ParseRole("guest")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestArtifactValidate(t *testing.T) {
	a := &Artifact{}
	assert.ErrorIs(t, a.Validate(), ErrDescriptionRequired)

	long := make([]rune, MaxDescriptionLength+1)
	for i := range long {
		long[i] = 'á'
	}
	a.Description = string(long)
	assert.ErrorIs(t, a.Validate(), ErrDescriptionTooLong)

	a.Description = "Ceramic bowl"
	assert.NoError(t, a.Validate())
}
