package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ericfisherdev/graphpilot/internal/domain/model"
)

func TestCredential_Masked(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "ascii token", token: "EAAB1234567890WXYZ", want: "EAAB…WXYZ"},
		{name: "multibyte runes are kept whole", token: "ÄÖÜß1234éèêë", want: "ÄÖÜß…éèêë"},
		{name: "eight runes or fewer are fully hidden", token: "ÄÖÜßéèêë", want: "********"},
		{name: "empty", token: "", want: "********"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := model.Credential{Token: tt.token}.Masked()
			assert.Equal(t, tt.want, got)
		})
	}
}
