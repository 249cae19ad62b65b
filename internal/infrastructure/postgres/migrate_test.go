package postgres

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_OrdenadasYEmbebidas(t *testing.T) {
	names, err := migrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	assert.Equal(t, "0001_init.sql", names[0])
	for i := 1; i < len(names); i++ {
		assert.Less(t, names[i-1], names[i])
	}
}

func TestMigracionInicial_CreaTablasDelDominio(t *testing.T) {
	body, err := migrationFiles.ReadFile("migrations/0001_init.sql")
	require.NoError(t, err)
	sql := string(body)
	for _, table := range []string{"roles", "users", "units", "categories", "products", "stock_movements"} {
		assert.Contains(t, sql, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	// unicidad de código y nombre solo entre categorías activas
	assert.True(t, strings.Contains(sql, "ux_categories_code_active ON categories (upper(code)) WHERE is_active"))
	assert.True(t, strings.Contains(sql, "ux_categories_name_active ON categories (lower(name)) WHERE is_active"))
}
