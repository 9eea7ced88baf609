package model

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scan codes must compare byte-wise. MySQL's default utf8mb4 collations are
// case- and accent-insensitive, which would let a hand-typed "ficam-01"
// match "FICAM-01"; the column tag carries the binary collation so both the
// lookup and the unique index compare exact bytes.
func TestActivityCodeColumnBinaryCollation(t *testing.T) {
	field, ok := reflect.TypeOf(Activity{}).FieldByName("Code")
	require.True(t, ok)

	tag := field.Tag.Get("gorm")
	assert.Contains(t, tag, "collate utf8mb4_bin")
	assert.Contains(t, tag, "uniqueIndex")
}

func TestActivityHasQuestion(t *testing.T) {
	assert.False(t, (&Activity{}).HasQuestion())
	assert.True(t, (&Activity{Question: "Quelle couleur?"}).HasQuestion())
}
