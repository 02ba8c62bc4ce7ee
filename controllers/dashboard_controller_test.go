package controllers

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Team-Name-exists/Heritiq/models"
)

func TestProductWorkbook(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Vase", Category: "pottery", Price: decimal.RequireFromString("45.5"), Quantity: 2, IsAvailable: true},
		{ID: 2, Name: "Bowl", Category: "woodwork", Price: decimal.RequireFromString("30"),
			AISuggestedPrice: decimal.NewNullDecimal(decimal.RequireFromString("32.99"))},
	}

	file, err := productWorkbook(products)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 1)

	rows := file.Sheets[0].Rows
	require.Len(t, rows, 3)
	assert.Equal(t, "Name", rows[0].Cells[1].String())
	assert.Equal(t, "Vase", rows[1].Cells[1].String())
	assert.Equal(t, "45.50", rows[1].Cells[3].String())
	assert.Equal(t, "", rows[1].Cells[4].String())
	assert.Equal(t, "32.99", rows[2].Cells[4].String())
}
