package base

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
)

// HeaderSize is the size of the frame header (payload length, uint32 big endian)
const HeaderSize = 4

// ErrFrameTooLarge is returned by ReadFrame if the announced payload exceeds the limit
var ErrFrameTooLarge = errors.New("frame exceeds the maximum frame size")

// WriteFrame writes a frame to w with the format:
// - 4 bytes: data length (uint32, big endian)
// - N bytes: data payload
// Header and payload are written with a single vectored write.
func WriteFrame(w io.Writer, data []byte) error {
	if uint64(len(data)) > uint64(^uint32(0)) {
		return fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(data))
	}

	header := make([]byte, HeaderSize)
	binary.BigEndian.PutUint32(header, uint32(len(data)))

	b := net.Buffers{header, data}
	_, err := b.WriteTo(w)
	return err
}

// ReadFrame reads a frame from r using the provided buffer.
// If the buffer is too small, it will allocate a new temporary buffer for the data.
// io.EOF is only returned if the stream ended before the first header byte.
func ReadFrame(r io.Reader, buf []byte, maxSize uint32) ([]byte, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, err
	}

	contentLength := binary.BigEndian.Uint32(header[:])
	if maxSize > 0 && contentLength > maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrFrameTooLarge, contentLength, maxSize)
	}

	// If no data, return empty slice
	if contentLength == 0 {
		return []byte{}, nil
	}

	// Check if buffer is large enough for data
	if len(buf) < int(contentLength) {
		buf = make([]byte, contentLength)
	}

	if _, err := io.ReadFull(r, buf[:contentLength]); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf[:contentLength], nil
}
