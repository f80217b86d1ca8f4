package diferenco

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMyersDiffIdentical(t *testing.T) {
	changes := MyersDiff([]byte("abcdef"), []byte("abcdef"))
	assert.Empty(t, changes)
}

func TestMyersDiffEmptySequences(t *testing.T) {
	assert.Empty(t, MyersDiff([]byte{}, []byte{}))
	assert.Equal(t, []Change{{Ins: 3}}, MyersDiff([]byte{}, []byte("abc")))
	assert.Equal(t, []Change{{Del: 3}}, MyersDiff([]byte("abc"), []byte{}))
}

func TestMyersDiffSingleEdit(t *testing.T) {
	changes := MyersDiff([]byte("abc"), []byte("axc"))
	var del, ins int
	for _, c := range changes {
		del += c.Del
		ins += c.Ins
	}
	assert.Equal(t, 1, del)
	assert.Equal(t, 1, ins)
}
