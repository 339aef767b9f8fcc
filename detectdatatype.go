package relsurv

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

type DataType byte

const (
	DataTypeInvalid DataType = iota
	DataTypeNoCompression
	DataTypeGzip
	DataTypeZip
	DataTypeXZ
	DataTypeZ
	DataTypeBZip2
	DataTypeOLE2
)

func (dt DataType) String() string {
	switch dt {
	case DataTypeNoCompression:
		return "uncompressed"
	case DataTypeGzip:
		return "gzip"
	case DataTypeZip:
		return "zip"
	case DataTypeXZ:
		return "xz"
	case DataTypeZ:
		return "zlib"
	case DataTypeBZip2:
		return "bzip2"
	case DataTypeOLE2:
		return "ole2"
	}

	return "invalid"
}

// Byte code signatures from https://stackoverflow.com/a/19127748/199475 . OLE2
// is the container of legacy .xls spreadsheets.
var byteCodeSigs = map[DataType][]byte{
	DataTypeGzip:  {0x1f, 0x8b, 0x08},
	DataTypeZip:   {0x50, 0x4b, 0x03, 0x04},
	DataTypeXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	DataTypeZ:     {0x1f, 0x9d},
	DataTypeBZip2: {0x42, 0x5a, 0x68},
	DataTypeOLE2:  {0xd0, 0xcf, 0x11, 0xe0, 0xa1, 0xb1},
}

// DetectDataType attempts to detect the data type of a stream by checking
// against a set of known signatures. Nothing is consumed from r.
func DetectDataType(r *bufio.Reader) (DataType, error) {
	buff, err := r.Peek(6)
	if err != nil && err != io.EOF {
		return DataTypeInvalid, err
	}

	// Match known signatures
Outer:
	for dt, sig := range byteCodeSigs {
		if len(buff) < len(sig) {
			continue
		}
		for position := range sig {
			if buff[position] != sig[position] {
				continue Outer
			}
		}
		return dt, nil
	}

	return DataTypeNoCompression, nil
}

// DetectDataTypeBytes is DetectDataType for data already in memory.
func DetectDataTypeBytes(data []byte) DataType {
	if len(data) > 6 {
		data = data[:6]
	}
	dt, err := DetectDataType(bufio.NewReaderSize(bytes.NewReader(data), 16))
	if err != nil {
		return DataTypeInvalid
	}
	return dt
}

// MaybeDecompressReader wraps r in a decompressor if r starts with the
// signature of a supported compression format. Only the first member of a zip
// archive is read.
func MaybeDecompressReader(r io.Reader) (io.Reader, DataType, error) {
	br := bufio.NewReader(r)

	dt, err := DetectDataType(br)
	if err != nil {
		return nil, dt, pfx.Err(err)
	}

	switch dt {
	case DataTypeGzip:
		gz, err := gzip.NewReader(br)
		return gz, dt, pfx.Err(err)
	case DataTypeZip:
		zr := zipstream.NewReader(br)
		if _, err := zr.Next(); err != nil {
			return nil, dt, pfx.Err(fmt.Errorf("opening first zip entry: %w", err))
		}
		return zr, dt, nil
	case DataTypeBZip2:
		return bzip2.NewReader(br), dt, nil
	case DataTypeXZ:
		reader, err := xz.NewReader(br, 0)
		if err != nil {
			return nil, dt, pfx.Err(err)
		}
		return reader, dt, nil
	case DataTypeZ:
		zl, err := zlib.NewReader(br)
		return zl, dt, pfx.Err(err)
	}

	// No compression detected. For now, we assume this is plain text.
	return br, dt, nil
}
