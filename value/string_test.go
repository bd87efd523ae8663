package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewStringCopies(t *testing.T) {
	b := []byte("hello")
	s := NewStringFromBytes(b)
	b[0] = 'x'
	require.Equal(t, "hello", s.String())
	require.Equal(t, 5, s.Len())
	require.True(t, s.IsCounted())
	require.Equal(t, int32(1), s.RefCount())
}

func TestEmptyStringSingleton(t *testing.T) {
	require.Same(t, EmptyString(), EmptyString())
	require.True(t, EmptyString().IsEternal())
	require.True(t, EmptyString().Empty())
}

func TestAdoptUncountedString(t *testing.T) {
	block := []byte("shared bytes")
	s := AdoptUncountedString(block, block)
	require.True(t, s.IsUncounted())
	require.Equal(t, int32(1), s.RefCount())
	require.Equal(t, block, s.Block())
}

func TestPersistentIncRef(t *testing.T) {
	counted := NewString("c")
	require.False(t, counted.PersistentIncRef())

	eternal := Intern("string_test eternal")
	require.True(t, eternal.PersistentIncRef())

	block := []byte("u")
	u := AdoptUncountedString(block, block)
	require.True(t, u.PersistentIncRef())
	require.Equal(t, int32(2), u.RefCount())
}

func TestInternIdentity(t *testing.T) {
	a := Intern("string_test identity")
	b := Intern("string_test identity")
	require.Same(t, a, b)
	require.True(t, a.IsEternal())

	found := LookupInterned([]byte("string_test identity"))
	require.Same(t, a, found)
	require.Nil(t, LookupInterned([]byte("string_test never interned")))
}

func TestStringEqualBytes(t *testing.T) {
	s := NewString("a\x00b")
	require.True(t, s.EqualBytes([]byte{'a', 0, 'b'}))
	require.False(t, s.EqualBytes([]byte("ab")))
}
