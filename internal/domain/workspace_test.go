package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkspace_ValidateCode(t *testing.T) {
	tests := []struct {
		code    string
		wantErr bool
	}{
		{"VILLA01", false},
		{"RS", false},
		{"", true},
		{"V", true},
		{"villa", true},
		{"1VILLA", true},
		{"VILLA-01", true},
		{"TOOLONGCODE", true},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			w := &Workspace{Code: tt.code}
			if tt.wantErr {
				assert.Error(t, w.ValidateCode())
			} else {
				assert.NoError(t, w.ValidateCode())
			}
		})
	}
}

func TestWorkspace_DisplayID(t *testing.T) {
	assert.Equal(t, "VILLA", (&Workspace{ID: "0123456789", Code: "VILLA"}).DisplayID())
	assert.Equal(t, "01234567", (&Workspace{ID: "0123456789"}).DisplayID())
}

func TestDisciplineCatalog_LookupIsCaseInsensitive(t *testing.T) {
	c := NewDisciplineCatalog([]Discipline{
		{Code: "s", NameEn: "Structure"},
		{Code: "S", NameEn: "Duplicate"},
		{Code: " ", NameEn: "Blank"},
		{Code: "A", NameEn: "Architecture"},
	})

	d, ok := c.Lookup("S")
	assert.True(t, ok)
	assert.Equal(t, "Structure", d.NameEn)
	assert.Equal(t, "S", d.Code)
	assert.Equal(t, []string{"S", "A"}, c.Codes())

	var nilCatalog *DisciplineCatalog
	_, ok = nilCatalog.Lookup("S")
	assert.False(t, ok)
	assert.Empty(t, nilCatalog.All())
}
