package usecase_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aicodepro/landing-api/internal/usecase"
)

func TestValidateSubmitLeadInput(t *testing.T) {
	cases := []struct {
		name      string
		email     string
		phone     string
		wantField string
	}{
		{"valid", "maria@example.com", "(11) 99999-9999", ""},
		{"missing email", "", "11999999999", "email"},
		{"bad email", "not-an-email", "11999999999", "email"},
		{"missing phone", "maria@example.com", "", "phone"},
		{"phone too short", "maria@example.com", "12345", "phone"},
		{"phone too long", "maria@example.com", "1234567890123456789", "phone"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := usecase.ValidateSubmitLeadInput(usecase.SubmitLeadInput{
				Email: tc.email,
				Phone: tc.phone,
			})

			if tc.wantField == "" {
				assert.Empty(t, errs)
				return
			}

			assert.NotEmpty(t, errs)
			assert.Equal(t, tc.wantField, errs[0].Field)
		})
	}
}

func TestValidateSubmitLeadPhoneWithFormatting(t *testing.T) {
	// Punctuation is stripped before the length check.
	errs := usecase.ValidateSubmitLeadInput(usecase.SubmitLeadInput{
		Email: "joao@example.com",
		Phone: "+55 (11) 99999-9999",
	})
	assert.Empty(t, errs)
}

func TestValidateRecordQualificationInput(t *testing.T) {
	yes := true

	errs := usecase.ValidateRecordQualificationInput(usecase.RecordQualificationInput{})
	assert.Len(t, errs, 2)

	errs = usecase.ValidateRecordQualificationInput(usecase.RecordQualificationInput{
		SessionID:    "s1",
		IsProgrammer: &yes,
	})
	assert.Empty(t, errs)

	errs = usecase.ValidateRecordQualificationInput(usecase.RecordQualificationInput{
		SessionID:    "   ",
		IsProgrammer: &yes,
	})
	assert.Len(t, errs, 1)
	assert.Equal(t, "sessionId", errs[0].Field)
}
