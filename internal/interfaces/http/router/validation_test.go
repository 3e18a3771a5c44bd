package router

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type phoneProbe struct {
	Phone string `binding:"sn_phone"`
}

func TestSenegalesePhoneValidation(t *testing.T) {
	registerCustomValidations()

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{"mobile with country code", "+221771234567", true},
		{"mobile without country code", "771234567", true},
		{"fixed line", "+221338234567", true},
		{"empty passes, required is separate", "", true},
		{"too short", "+22177123", false},
		{"too long", "+2217712345678", false},
		{"wrong prefix", "+221991234567", false},
		{"letters", "+22177abc4567", false},
		{"foreign number", "+33612345678", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&phoneProbe{Phone: tt.phone})
			if tt.valid {
				require.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
