package metadata

import (
	"compress/bzip2"
	"compress/gzip"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrUnknownCompression is returned when a checksum is requested for a
// compression scheme the decompressor does not recognize.
var ErrUnknownCompression = errors.New("unknown compression scheme")

// MD5Sum returns the hex MD5 digest of the file at path, streaming the
// content so memory use is independent of file size.
func MD5Sum(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return hashReader(f)
}

// UncompressedMD5Sum returns the hex MD5 digest of the file's content
// after transparent decompression. The scheme must be one of the
// recognized compression tokens; anything else is a hard error so the
// caller never receives a plausible but wrong digest.
func UncompressedMD5Sum(path, compression string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	var r io.Reader
	switch compression {
	case CompressionNone:
		r = f
	case CompressionGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	case CompressionBzip2:
		r = bzip2.NewReader(f)
	default:
		return "", fmt.Errorf("%s: %w: %q", path, ErrUnknownCompression, compression)
	}
	return hashReader(r)
}

func hashReader(r io.Reader) (string, error) {
	h := md5.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
