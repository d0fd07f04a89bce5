package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKeyword(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  CRM ", "crm"},
		{"Sales Pipeline", "sales pipeline"},
		{"x", ""},
		{"  ", ""},
		{"ÉÉ", "éé"},
		{"é", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKeyword(tt.in), "input %q", tt.in)
	}
}

func TestTenantProfile_KeywordTexts(t *testing.T) {
	p := TenantProfile{Keywords: []Keyword{
		{Text: "CRM"},
		{Text: "startup"},
		{Text: " crm "},
		{Text: "a"},
		{Text: "Startup"},
	}}

	assert.Equal(t, []string{"crm", "startup"}, p.KeywordTexts())
	assert.Empty(t, TenantProfile{}.KeywordTexts())
}

func TestCycleStats_Totals(t *testing.T) {
	s := &CycleStats{Tenants: []TenantStats{
		{Qualified: 2},
		{Qualified: 3, Failed: true},
		{Failed: true},
	}}

	assert.Equal(t, 5, s.Qualified())
	assert.Equal(t, 2, s.FailedTenants())
}
