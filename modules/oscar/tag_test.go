package oscar_test

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ssc-oscar/oscar-go/modules/oscar"
)

func TestTagIdentity(t *testing.T) {
	fx := newFixture(t)
	s := fx.build(t)
	defer s.Close()
	e := oscar.New(s)

	tagSHA := sha(0x33)
	tag, err := e.Tag(hex.EncodeToString(tagSHA))
	require.NoError(t, err)
	require.Equal(t, hex.EncodeToString(tagSHA), tag.SHA())

	_, err = e.Tag("not-a-sha")
	require.Error(t, err)
}
