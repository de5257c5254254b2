package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRows(t *testing.T) {
	rows := [][]interface{}{
		{"Name", "Price", "Currency", "Description", "Image", "Tags", "Quantity", "Threshold"},
		{"Kebabs", "", "", "", "https://cdn.example.com/kebab.png"},
		{"Adana", "12.50", "USD", "Spicy minced lamb", "https://cdn.example.com/adana.png", "Spicy, Halal", "10", "2"},
		{"Shish", 11, "USD"},
		{},
		{"Drinks"},
		{"Ayran", "3", "USD", "", "", "", " 0 "},
	}

	menu, err := ParseRows(rows)
	require.NoError(t, err)
	require.Len(t, menu.Categories, 2)

	kebabs := menu.Categories[0]
	assert.Equal(t, "Kebabs", kebabs.Name)
	assert.Equal(t, "https://cdn.example.com/kebab.png", kebabs.Icon)
	require.Len(t, kebabs.Items, 2)

	adana := kebabs.Items[0]
	assert.Equal(t, "12.50", adana.Price)
	assert.Equal(t, []string{"Spicy", "Halal"}, adana.Tags)
	require.NotNil(t, adana.Quantity)
	assert.Equal(t, 10, *adana.Quantity)
	require.NotNil(t, adana.Threshold)
	assert.Equal(t, 2, *adana.Threshold)

	shish := kebabs.Items[1]
	assert.Equal(t, "11", shish.Price)
	assert.Nil(t, shish.Quantity)
	assert.Nil(t, shish.Tags)

	drinks := menu.Categories[1]
	assert.Empty(t, drinks.Icon)
	require.Len(t, drinks.Items, 1)
	require.NotNil(t, drinks.Items[0].Quantity)
	assert.Equal(t, 0, *drinks.Items[0].Quantity)
}

func TestParseRowsErrors(t *testing.T) {
	header := []interface{}{"Name", "Price"}

	tests := []struct {
		name string
		rows [][]interface{}
		want string
	}{
		{
			name: "item before category",
			rows: [][]interface{}{header, {"Adana", "12", "USD"}},
			want: "before any category",
		},
		{
			name: "no categories",
			rows: [][]interface{}{header},
			want: "no categories",
		},
		{
			name: "bad quantity",
			rows: [][]interface{}{header, {"Kebabs"}, {"Adana", "12", "USD", "", "", "", "many"}},
			want: "invalid quantity",
		},
		{
			name: "bad threshold",
			rows: [][]interface{}{header, {"Kebabs"}, {"Adana", "12", "USD", "", "", "", "3", "x"}},
			want: "invalid threshold",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRows(tt.rows)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
