package base

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("hello")))
	require.NoError(t, WriteFrame(&buf, []byte{}))
	require.NoError(t, WriteFrame(&buf, bytes.Repeat([]byte{0xab}, 100)))

	assert.Equal(t, []byte{0, 0, 0, 5, 'h', 'e', 'l', 'l', 'o'}, buf.Bytes()[:9])

	scratch := make([]byte, 16)
	data, err := ReadFrame(&buf, scratch, 1024)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), data)

	data, err = ReadFrame(&buf, scratch, 1024)
	require.NoError(t, err)
	assert.Empty(t, data)

	// larger than the scratch buffer
	data, err = ReadFrame(&buf, scratch, 1024)
	require.NoError(t, err)
	assert.Equal(t, bytes.Repeat([]byte{0xab}, 100), data)

	_, err = ReadFrame(&buf, scratch, 1024)
	assert.ErrorIs(t, err, io.EOF)
}

func TestFrameTooLarge(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, make([]byte, 11)))

	_, err := ReadFrame(&buf, nil, 10)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestFrameAnnouncedTooLarge(t *testing.T) {
	// only the header is sent, the payload is never read
	header := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(header, 1<<31)

	_, err := ReadFrame(bytes.NewReader(header), nil, 64<<20)
	assert.ErrorIs(t, err, ErrFrameTooLarge)
}

func TestFrameTruncated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteFrame(&buf, []byte("hello")))

	_, err := ReadFrame(bytes.NewReader(buf.Bytes()[:6]), nil, 0)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	_, err = ReadFrame(bytes.NewReader(buf.Bytes()[:2]), nil, 0)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
