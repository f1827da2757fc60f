package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "ar", want: "ar"},
		{in: "fr", want: "fr"},
		{in: "fr-FR", want: "fr"},
		{in: "EN", want: "en"},
		{in: " en-GB ", want: "en"},
		{in: "de", wantErr: true},
		{in: "", wantErr: true},
		{in: "not a tag!", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupported)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "fr", Resolve("fr"))
	assert.Equal(t, Base, Resolve("de"))
	assert.Equal(t, Base, Resolve(""))
}

func TestCatalog_MonthNames(t *testing.T) {
	c := Default()

	assert.Equal(t, "توت", c.MonthName("ar", 1))
	assert.Equal(t, "النسئ", c.MonthName("ar", 13))
	assert.Equal(t, "Koiak", c.MonthName("fr", 4))
	assert.Equal(t, "Koiak", c.MonthName("en", 4))

	// Unknown languages degrade to the base locale.
	assert.Equal(t, "كيهك", c.MonthName("de", 4))
}

func TestCatalog_FallsBackToBase(t *testing.T) {
	c := Default()

	// The English file carries no Paramon summary.
	msg, ok := c.Lookup("en", "paramon_summary", nil)
	require.True(t, ok)
	assert.Equal(t, "يوم إعداد وصوم ترقّبي قبل العيد.", msg)
}

func TestCatalog_Template(t *testing.T) {
	c := Default()

	msg, ok := c.Lookup("fr", "paramon_title", map[string]any{"Feast": "Nativité"})
	require.True(t, ok)
	assert.Equal(t, "Paramon de la Nativité", msg)
}

func TestCatalog_UnknownMessage(t *testing.T) {
	c := Default()

	_, ok := c.Lookup("ar", "does_not_exist", nil)
	assert.False(t, ok)
	assert.Equal(t, "does_not_exist", c.Message("ar", "does_not_exist"))
}
