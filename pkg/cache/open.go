package cache

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// URLEnv names the environment variable holding the default cache URL.
const URLEnv = "HYPERPART_CACHE_URL"

// Open returns the cache described by rawURL:
//
//	""                     file cache in DefaultDir, zstd compressed
//	"none", "off"          NullCache
//	redis://, rediss://    RedisCache
//	mongodb://, +srv       MongoCache
//	s3://bucket/prefix     ObjectCache
//	file:///dir, /dir      FileCache
//
// A compress query parameter (none, zstd, lz4) selects the entry codec for
// any backend; it is stripped before the URL is handed to the backend.
func Open(ctx context.Context, rawURL string) (Cache, error) {
	switch rawURL {
	case "none", "off":
		return NewNullCache(), nil
	case "":
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return NewCompressed(fc, CodecZstd), nil
	}

	rawURL, codecName, err := splitCodec(rawURL)
	if err != nil {
		return nil, err
	}
	codec, err := ParseCodec(codecName)
	if err != nil {
		return nil, err
	}

	var c Cache
	scheme, rest, hasScheme := strings.Cut(rawURL, "://")
	switch {
	case !hasScheme:
		c, err = NewFileCache(rawURL)
	case scheme == "file":
		c, err = NewFileCache(rest)
	case scheme == "redis" || scheme == "rediss":
		c, err = OpenRedis(ctx, rawURL, "hyperpart:")
	case scheme == "mongodb" || scheme == "mongodb+srv":
		c, err = OpenMongo(ctx, rawURL)
	case scheme == "s3":
		c, err = OpenObject(ctx, rawURL)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURL, rawURL)
	}
	if err != nil {
		return nil, err
	}
	if codec != CodecNone {
		c = NewCompressed(c, codec)
	}
	return c, nil
}

// splitCodec removes the compress parameter from rawURL.
func splitCodec(rawURL string) (string, string, error) {
	base, query, ok := strings.Cut(rawURL, "?")
	if !ok {
		return rawURL, "", nil
	}
	q, err := url.ParseQuery(query)
	if err != nil {
		return "", "", err
	}
	codec := q.Get("compress")
	q.Del("compress")
	if len(q) == 0 {
		return base, codec, nil
	}
	return base + "?" + q.Encode(), codec, nil
}
