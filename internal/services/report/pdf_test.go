package report

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestTruncate_KeepsShortValuesIntact(t *testing.T) {
	assert.Equal(t, "Brent", truncate("Brent", 10))
	assert.Equal(t, "exactly-ten", truncate("exactly-ten", 11))
}

func TestTruncate_CutsOnRuneBoundaries(t *testing.T) {
	got := truncate("Pétrolière Œcuménique Internationale", 12)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 12, len([]rune(got)))
	assert.Equal(t, "Pétrolière .", got)
}
