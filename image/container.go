// Package image implements the on-disk container of an assembled program.
//
// A container is, in big-endian order:
//
//	magic          4 bytes  "REGX"
//	version        1 byte
//	payload length 4 bytes
//	header marker  4 bytes  "CODE"
//	payload        payload length bytes
//	footer marker  4 bytes  "END!"
package image

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/ezrec/regmach/cpu"
	"github.com/ezrec/regmach/translate"
)

var f = translate.From

const (
	MAGIC    = uint32(0x52454758) // REGX
	VERSION  = byte(1)            // Current container version.
	HEADER   = uint32(0x434F4445) // CODE
	FOOTER   = uint32(0x454E4421) // END!
	OVERHEAD = 4 + 1 + 4 + 4 + 4  // Container bytes around the payload.
)

var (
	ErrEmpty     = errors.New(f("empty payload"))
	ErrTruncated = errors.New(f("container truncated"))
	ErrMagic     = errors.New(f("container magic mismatch"))
	ErrVersion   = errors.New(f("container version mismatch"))
	ErrLength    = errors.New(f("container length mismatch"))
	ErrHeader    = errors.New(f("container header mismatch"))
	ErrFooter    = errors.New(f("container footer mismatch"))
)

// Encode writes payload as a container.
func Encode(w io.Writer, payload []byte) (err error) {
	if len(payload) == 0 {
		err = ErrEmpty
		return
	}

	buf := make([]byte, 0, OVERHEAD+len(payload))
	buf = cpu.Endian.AppendUint32(buf, MAGIC)
	buf = append(buf, VERSION)
	buf = cpu.Endian.AppendUint32(buf, uint32(len(payload)))
	buf = cpu.Endian.AppendUint32(buf, HEADER)
	buf = append(buf, payload...)
	buf = cpu.Endian.AppendUint32(buf, FOOTER)

	_, err = w.Write(buf)
	return
}

// Decode reads a container of size bytes, returning its payload.
// No payload is returned on any mismatch.
func Decode(r io.Reader, size int64) (payload []byte, err error) {
	if size < OVERHEAD+1 {
		err = ErrTruncated
		return
	}

	var field [4]byte

	readLong := func() (value uint32, err error) {
		_, err = io.ReadFull(r, field[:])
		if err != nil {
			err = errors.Join(ErrTruncated, err)
			return
		}
		value = cpu.Long(field[:], 0)
		return
	}

	magic, err := readLong()
	if err != nil {
		return
	}
	if magic != MAGIC {
		err = ErrMagic
		return
	}

	_, err = io.ReadFull(r, field[:1])
	if err != nil {
		err = errors.Join(ErrTruncated, err)
		return
	}
	if field[0] != VERSION {
		err = ErrVersion
		return
	}

	length, err := readLong()
	if err != nil {
		return
	}
	if int64(length) != size-OVERHEAD {
		err = ErrLength
		return
	}

	header, err := readLong()
	if err != nil {
		return
	}
	if header != HEADER {
		err = ErrHeader
		return
	}

	data := make([]byte, length)
	_, err = io.ReadFull(r, data)
	if err != nil {
		err = errors.Join(ErrTruncated, err)
		return
	}

	footer, err := readLong()
	if err != nil {
		return
	}
	if footer != FOOTER {
		err = ErrFooter
		return
	}

	payload = data
	return
}

// Marshal returns the container of payload.
func Marshal(payload []byte) (data []byte, err error) {
	buff := &bytes.Buffer{}
	err = Encode(buff, payload)
	if err != nil {
		return
	}

	data = buff.Bytes()
	return
}

// Unmarshal returns the payload of a container.
func Unmarshal(data []byte) (payload []byte, err error) {
	return Decode(bytes.NewReader(data), int64(len(data)))
}

// Save writes payload to a container file.
func Save(path string, payload []byte) (err error) {
	data, err := Marshal(payload)
	if err != nil {
		return
	}

	err = os.WriteFile(path, data, 0o644)
	return
}

// Load reads the payload of a container file.
func Load(path string) (payload []byte, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	info, err := inf.Stat()
	if err != nil {
		return
	}

	return Decode(inf, info.Size())
}
