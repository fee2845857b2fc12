package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateStruct_ContactFormats(t *testing.T) {
	tests := []struct {
		name       string
		phone      string
		telegram   string
		wantFields []string
	}{
		{"valid", "+79991234567", "@volunteer_1", nil},
		{"phone without plus", "79991234567", "", []string{"phone"}},
		{"phone too short", "+7999123456", "", []string{"phone"}},
		{"foreign phone", "+19991234567", "", []string{"phone"}},
		{"telegram without at", "+79991234567", "volunteer", []string{"telegram"}},
		{"telegram with dash", "+79991234567", "@volun-teer", []string{"telegram"}},
		{"telegram too short", "+79991234567", "@abc", []string{"telegram"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validateStruct(SubmitIncomeRequest{ProjectID: "p1", Phone: tt.phone, Telegram: tt.telegram})
			assert.ElementsMatch(t, tt.wantFields, keys(fields))
		})
	}
}

func TestValidateStruct_NestedPathsUseYamlNames(t *testing.T) {
	fields := validateStruct(ProjectInput{
		Address: &AddressInput{House: strPtr("123456")},
		Photos:  []string{"not a url"},
	})

	assert.Equal(t, []string{"must be at most 5 characters"}, fields["address.house"])
	assert.Equal(t, []string{"must be a valid URL"}, fields["photos[0]"])
}

func TestValidateStruct_LengthMessages(t *testing.T) {
	fields := validateStruct(ProjectInput{Name: strPtr(strings.Repeat("x", 151))})
	assert.Equal(t, []string{"must be at most 150 characters"}, fields["name"])

	fields = validateStruct(ReviewRequest{})
	assert.Equal(t, []string{"this field is required"}, fields["decision"])
}
