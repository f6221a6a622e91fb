package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "vaxtrack/pkg/domain-errors"
)

type guardianForm struct {
	Name  string `json:"guardian_name" validate:"notblank,max=100"`
	Phone string `json:"guardian_phone" validate:"required,gh_phone"`
	Batch string `json:"batch,omitempty" validate:"omitempty,batch"`
}

func TestStruct(t *testing.T) {
	t.Run("valid form passes", func(t *testing.T) {
		assert.NoError(t, Struct(guardianForm{Name: "Ama", Phone: "+233241234567", Batch: "BCG12345"}))
		assert.NoError(t, Struct(guardianForm{Name: "Ama", Phone: "0501234567"}))
	})

	t.Run("field messages use json names", func(t *testing.T) {
		err := Struct(guardianForm{Name: "  ", Phone: "0611234567", Batch: "bad"})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, err.Error(), "guardian_name: this field cannot be blank")
		assert.Contains(t, err.Error(), "guardian_phone: must be a Ghana phone number")
		assert.Contains(t, err.Error(), "batch: must be 6-12 uppercase letters or digits")
	})

	t.Run("missing required phone", func(t *testing.T) {
		err := Struct(guardianForm{Name: "Ama"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "guardian_phone")
	})
}

func TestPhonePattern(t *testing.T) {
	valid := []string{"+233201234567", "0241234567", "0551234567", "+233301234567"}
	invalid := []string{"0161234567", "+23324123456", "024123456", "233241234567", "abc"}

	for _, p := range valid {
		assert.True(t, ghanaPhonePattern.MatchString(p), p)
	}
	for _, p := range invalid {
		assert.False(t, ghanaPhonePattern.MatchString(p), p)
	}
}
