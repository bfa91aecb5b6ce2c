package pkg

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	frame_header_size = 4
	MaxFrameSize      = 1 << 24
)

var ErrFrameTooLarge = errors.New("frame too large")

// ConnReadBytes reads one length-prefixed frame. The prefix is a big endian uint32.
func ConnReadBytes(r io.Reader) ([]byte, error) {
	header := make([]byte, frame_header_size)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, err
	}

	n := binary.BigEndian.Uint32(header)
	if n > MaxFrameSize {
		return nil, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, n)
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

func ConnWriteBytes(w io.Writer, buf []byte) (int, error) {
	if len(buf) > MaxFrameSize {
		return 0, fmt.Errorf("%w: %d bytes", ErrFrameTooLarge, len(buf))
	}
	header := make([]byte, frame_header_size)
	binary.BigEndian.PutUint32(header, uint32(len(buf)))

	return w.Write(append(header, buf...))
}
