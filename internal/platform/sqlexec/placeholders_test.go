package sqlexec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountPlaceholders(t *testing.T) {
	tests := []struct {
		statement string
		want      int
	}{
		{"SELECT * FROM users", 0},
		{"SELECT * FROM users WHERE id = ?", 1},
		{"INSERT INTO users (name, age) VALUES (?, ?)", 2},
		{"SELECT * FROM users WHERE name = 'who?' AND id = ?", 1},
		{`SELECT "a?b" FROM t WHERE x = ?`, 1},
		{"SELECT `col?` FROM t", 0},
		{"SELECT * FROM users WHERE name = 'it''s?' AND age > ?", 1},
		{"SELECT * FROM users -- who?\nWHERE id = ?", 1},
		{"SELECT * FROM users WHERE id = ? --?", 1},
		{"SELECT /* why? */ * FROM users WHERE id = ?", 1},
		{"SELECT * FROM users /* unterminated ?", 0},
		{"SELECT 'a\\' FROM users WHERE id = ?", 1},
		{"SELECT * FROM users WHERE id = ? # ?", 2},
	}

	for _, tt := range tests {
		t.Run(tt.statement, func(t *testing.T) {
			assert.Equal(t, tt.want, CountPlaceholders(tt.statement))
		})
	}
}

func TestMySQLSyntaxCountPlaceholders(t *testing.T) {
	tests := []struct {
		statement string
		want      int
	}{
		{`SELECT * FROM users WHERE name = 'it\'s ?'`, 0},
		{`SELECT * FROM users WHERE name = "say \"why?\"" AND id = ?`, 1},
		{`SELECT * FROM users WHERE name = 'back\\' AND id = ?`, 1},
		{"SELECT `a\\` FROM users WHERE id = ?", 1},
		{"SELECT * FROM users -- who?\nWHERE id = ?", 1},
		{"SELECT * FROM users # who?\nWHERE id = ?", 1},
		{"SELECT /* why? */ * FROM users WHERE id = ?", 1},
		{"SELECT 5--? FROM users", 1},
		{"SELECT * FROM users WHERE id = ?--\n", 1},
		{"SELECT /*! SQL_NO_CACHE */ * FROM users WHERE id = ?", 1},
		{"SELECT /*!? */ 1", 1},
	}

	for _, tt := range tests {
		t.Run(tt.statement, func(t *testing.T) {
			assert.Equal(t, tt.want, MySQLSyntax.CountPlaceholders(tt.statement))
		})
	}
}

func TestRebindDollar(t *testing.T) {
	assert.Equal(t, "SELECT * FROM users", RebindDollar("SELECT * FROM users"))
	assert.Equal(t,
		"INSERT INTO users (name, age) VALUES ($1, $2)",
		RebindDollar("INSERT INTO users (name, age) VALUES (?, ?)"))
	assert.Equal(t,
		"SELECT * FROM users WHERE name = 'a?' AND id = $1",
		RebindDollar("SELECT * FROM users WHERE name = 'a?' AND id = ?"))
	assert.Equal(t,
		"SELECT /* why? */ * FROM users -- who?\nWHERE id = $1 AND age > $2",
		RebindDollar("SELECT /* why? */ * FROM users -- who?\nWHERE id = ? AND age > ?"))
}
