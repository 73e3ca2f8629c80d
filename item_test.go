package memcadm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestItemDisplayValueShort(t *testing.T) {
	item := NewItem("mykey", bytes.Repeat([]byte("a"), 100), NoExpire, 0)

	assert.Equal(t, strings.Repeat("a", 100), item.DisplayValue())
	assert.Equal(t, 100, item.Size())
}

func TestItemDisplayValueTruncated(t *testing.T) {
	value := []byte(strings.Repeat("abcd", 100)) // 400 bytes
	item := NewItem("mykey", value, NoExpire, 0)

	display := item.DisplayValue()
	assert.Len(t, display, DisplayLimit+2) // 319 original bytes + "..."
	assert.Equal(t, string(value[:DisplayLimit-1]), display[:DisplayLimit-1])
	assert.True(t, strings.HasSuffix(display, "..."))

	// The reported size and the value bytes stay untruncated
	assert.Equal(t, 400, item.Size())
	assert.Equal(t, value, item.Value)
}

func TestItemDisplayValueExactLimit(t *testing.T) {
	item := NewItem("mykey", bytes.Repeat([]byte("x"), DisplayLimit), NoExpire, 0)
	assert.Len(t, item.DisplayValue(), DisplayLimit)
}

func TestItemDisplayValueNotASCII(t *testing.T) {
	value := []byte{0x01, 'a', 'b', 'c'}
	item := NewItem("mykey", value, NoExpire, 0)

	assert.False(t, item.Printable())
	assert.Equal(t, "(Not ASCII)", item.DisplayValue())
	// Display is a rendering concern only: the bytes are never altered
	assert.Equal(t, []byte{0x01, 'a', 'b', 'c'}, item.Value)
}

func TestItemPrintable(t *testing.T) {
	assert.True(t, NewItem("k", []byte("hello"), NoExpire, 0).Printable())
	assert.True(t, NewItem("k", []byte("\tindented"), NoExpire, 0).Printable())
	assert.True(t, NewItem("k", nil, NoExpire, 0).Printable())
	assert.False(t, NewItem("k", []byte{0x00}, NoExpire, 0).Printable())
	assert.False(t, NewItem("k", []byte{0xff, 0xfe}, NoExpire, 0).Printable())
}

func TestItemDigest(t *testing.T) {
	a := NewItem("k", []byte("payload"), NoExpire, 0)
	b := NewItem("other", []byte("payload"), NoExpire, 0)
	c := NewItem("k", []byte("different"), NoExpire, 0)

	assert.Len(t, a.Digest(), 16)
	assert.Equal(t, a.Digest(), b.Digest(), "digest depends only on the value")
	assert.NotEqual(t, a.Digest(), c.Digest())
}

func TestItemIsValueObject(t *testing.T) {
	item := NewItem("mykey", []byte("value"), 60, 42)

	copied := item
	copied.Key = "changed"

	assert.Equal(t, "mykey", item.Key)
	assert.Equal(t, uint32(42), item.Flags)
	assert.Equal(t, int32(60), item.Expire)
}
