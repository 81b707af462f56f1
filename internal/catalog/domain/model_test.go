package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProviders() []Provider {
	return []Provider{
		{ID: "1", Name: "Raj Electricals", Category: Electrician, SubCategory: "Wiring", Address: "Benachity"},
		{ID: "2", Name: "Flow Fix", Category: Plumber, SubCategory: "Pipe repair", Address: "City Centre"},
		{ID: "3", Name: "Maths Guru", Category: Tutor, SubCategory: "Class 10 maths", Address: "Bidhannagar"},
		{ID: "4", Name: "Stitch Well", Category: Tailor, SubCategory: "Blouse", Address: "city centre market"},
	}
}

func TestParseFilter(t *testing.T) {
	c, err := ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, Category(""), c)

	c, err = ParseFilter("All")
	require.NoError(t, err)
	assert.Equal(t, Category(""), c)

	c, err = ParseFilter("Plumber")
	require.NoError(t, err)
	assert.Equal(t, Plumber, c)

	_, err = ParseFilter("Astrologer")
	assert.ErrorIs(t, err, ErrUnknownCategory)
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	providers := sampleProviders()
	assert.Equal(t, providers, Filter(providers, ""))
}

func TestFilter_WhitespaceIsMatchedLiterally(t *testing.T) {
	providers := []Provider{{ID: "1", Name: "Raj Electricals"}, {ID: "2", Name: "Anil"}}

	got := Filter(providers, " ")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	assert.Empty(t, Filter(providers, "   "))
}

func TestFilter_CaseInsensitiveAcrossFields(t *testing.T) {
	providers := sampleProviders()

	tests := []struct {
		name string
		q    string
		want []string
	}{
		{"by name", "raj", []string{"1"}},
		{"by category", "PLUMB", []string{"2"}},
		{"by sub category", "maths", []string{"3"}},
		{"by address preserves order", "City Centre", []string{"2", "4"}},
		{"no match", "carpenter", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(providers, tt.q)
			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestProvider_Guards(t *testing.T) {
	p := Provider{AdminUID: "owner", Status: StatusOnline}

	assert.True(t, p.IsOwner("owner"))
	assert.False(t, p.IsOwner(""))
	assert.False(t, p.CanBook("owner"))
	assert.True(t, p.CanBook("customer"))

	p.Status = StatusOffline
	assert.False(t, p.CanBook("customer"))
	assert.False(t, p.CanBook("owner"))
}

func TestProvider_EffectiveRating(t *testing.T) {
	assert.Equal(t, DefaultRating, (&Provider{}).EffectiveRating())
	assert.Equal(t, 4.2, (&Provider{Rating: 4.2}).EffectiveRating())
}

func TestProviderStatus_Toggle(t *testing.T) {
	assert.Equal(t, StatusOffline, StatusOnline.Toggle())
	assert.Equal(t, StatusOnline, StatusOffline.Toggle())
}
