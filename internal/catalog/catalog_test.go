package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hrportal/internal/shared/apperror"
)

func TestValidate(t *testing.T) {
	t.Run("success regular RTT", func(t *testing.T) {
		assert.NoError(t, Validate(MainRegular, SubRTT, ""))
	})

	t.Run("success regular CPP", func(t *testing.T) {
		assert.NoError(t, Validate(MainRegular, SubCPP, ""))
	})

	t.Run("negative regular with specific type", func(t *testing.T) {
		err := Validate(MainRegular, SubRTT, "Absence maladie")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("negative regular with unknown sub", func(t *testing.T) {
		err := Validate(MainRegular, "Sabbatique", "")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("success exceptional with specific type", func(t *testing.T) {
		assert.NoError(t, Validate(MainExceptional, SubMaladie, "Absence maladie"))
	})

	t.Run("negative exceptional without specific type", func(t *testing.T) {
		// Every exceptional group lists its specific types, so one is required.
		err := Validate(MainExceptional, SubGTA, "")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("negative exceptional famille without specific type", func(t *testing.T) {
		err := Validate(MainExceptional, SubFamille, "")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("negative exceptional with foreign specific type", func(t *testing.T) {
		// Specific type belongs to another group
		err := Validate(MainExceptional, SubFamille, "Absence maladie")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("negative unknown exceptional group", func(t *testing.T) {
		err := Validate(MainExceptional, "Vacances", "")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("negative unknown main category", func(t *testing.T) {
		err := Validate("Holiday", SubRTT, "")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("error carries stable code", func(t *testing.T) {
		err := Validate("Holiday", SubRTT, "")
		appErr, ok := err.(*apperror.AppError)
		assert.True(t, ok)
		assert.Equal(t, apperror.CodeInvalidLeaveType, appErr.Code)
	})
}

func TestValidateRequestType(t *testing.T) {
	t.Run("success RTT", func(t *testing.T) {
		assert.NoError(t, ValidateRequestType(SubRTT, ""))
	})

	t.Run("success exceptional group with member sub", func(t *testing.T) {
		assert.NoError(t, ValidateRequestType(SubHandicap, "Inaptitude professionnelle"))
	})

	t.Run("negative exceptional group with foreign sub", func(t *testing.T) {
		err := ValidateRequestType(SubHandicap, "Absence maladie")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})

	t.Run("negative unknown type", func(t *testing.T) {
		err := ValidateRequestType("Vacation", "")
		assert.ErrorIs(t, err, ErrInvalidLeaveType)
	})
}

func TestDebitBucket(t *testing.T) {
	assert.Equal(t, BucketRTT, DebitBucket(SubRTT))
	assert.Equal(t, BucketCPP, DebitBucket(SubCPP))
	assert.Equal(t, BucketNone, DebitBucket(SubMaladie))
	assert.Equal(t, BucketNone, DebitBucket(SubGTA))
}

func TestAllowsBackdate(t *testing.T) {
	assert.True(t, AllowsBackdate(SubGTA))
	assert.False(t, AllowsBackdate(SubRTT))
	assert.False(t, AllowsBackdate(SubMaladie))
}

func TestSupportedTypes(t *testing.T) {
	types := SupportedTypes()

	assert.Len(t, types[MainRegular], 2)
	assert.Len(t, types[MainExceptional], 9)
	assert.Contains(t, types[MainExceptional], SubCivisme)
	assert.Contains(t, types[MainExceptional][SubMaladie], "Absence maternité")

	// Mutating the returned copy must not touch the table
	types[MainExceptional][SubGTA][0] = "tampered"
	assert.Equal(t, "Absence à tort", exceptionalGroups[SubGTA][0])
}

func TestIsExceptional(t *testing.T) {
	assert.True(t, IsExceptional(SubCivisme))
	assert.False(t, IsExceptional(SubRTT))
	assert.False(t, IsExceptional("unknown"))
}
