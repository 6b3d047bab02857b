package cache

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Codec identifies an entry compression format.
type Codec byte

// Codecs. The codec byte prefixes every compressed entry, so a reader
// decodes entries written with any codec.
const (
	CodecNone Codec = 0
	CodecZstd Codec = 1
	CodecLZ4  Codec = 2
)

// ParseCodec maps "none", "zstd" and "lz4" to a codec.
func ParseCodec(name string) (Codec, error) {
	switch name {
	case "", "none":
		return CodecNone, nil
	case "zstd":
		return CodecZstd, nil
	case "lz4":
		return CodecLZ4, nil
	default:
		return 0, fmt.Errorf("unknown codec %q", name)
	}
}

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecZstd:
		return "zstd"
	case CodecLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("codec(%d)", byte(c))
	}
}

var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

// Encode compresses data with codec and prefixes the codec byte.
func Encode(codec Codec, data []byte) ([]byte, error) {
	switch codec {
	case CodecNone:
		return append([]byte{byte(CodecNone)}, data...), nil
	case CodecZstd:
		enc := getZstdEncoder()
		defer zstdEncoderPool.Put(enc)
		return enc.EncodeAll(data, []byte{byte(CodecZstd)}), nil
	case CodecLZ4:
		var buf bytes.Buffer
		buf.WriteByte(byte(CodecLZ4))
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("encode: unknown codec %d", codec)
	}
}

// Decode reverses [Encode].
func Decode(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrCorrupt)
	}
	body := data[1:]
	switch Codec(data[0]) {
	case CodecNone:
		return bytes.Clone(body), nil
	case CodecZstd:
		dec := getZstdDecoder()
		defer zstdDecoderPool.Put(dec)
		out, err := dec.DecodeAll(body, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return out, nil
	case CodecLZ4:
		out, err := io.ReadAll(lz4.NewReader(bytes.NewReader(body)))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unknown codec %d", ErrCorrupt, data[0])
	}
}

// Compressed is a Cache that compresses entries before storing them in an
// inner cache. Corrupt entries are reported as misses.
type Compressed struct {
	inner Cache
	codec Codec
}

// NewCompressed wraps inner, compressing new entries with codec.
func NewCompressed(inner Cache, codec Codec) Cache {
	return &Compressed{inner: inner, codec: codec}
}

// Get implements [Cache].
func (c *Compressed) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok, err := c.inner.Get(ctx, key)
	if err != nil || !ok {
		return nil, ok, err
	}
	out, err := Decode(data)
	if err != nil {
		_ = c.inner.Delete(ctx, key)
		return nil, false, nil
	}
	return out, true, nil
}

// Set implements [Cache].
func (c *Compressed) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	enc, err := Encode(c.codec, data)
	if err != nil {
		return err
	}
	return c.inner.Set(ctx, key, enc, ttl)
}

// Delete implements [Cache].
func (c *Compressed) Delete(ctx context.Context, key string) error { return c.inner.Delete(ctx, key) }

// Close implements [Cache].
func (c *Compressed) Close() error { return c.inner.Close() }

var _ Cache = (*Compressed)(nil)
