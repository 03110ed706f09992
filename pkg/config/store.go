package config

import (
	"github.com/aretw0/scorm/pkg/adapters/file"
	"github.com/aretw0/scorm/pkg/adapters/memory"
	"github.com/aretw0/scorm/pkg/adapters/redis"
	"github.com/aretw0/scorm/pkg/adapters/sqlite"
	"github.com/aretw0/scorm/pkg/persistence/middleware"
	"github.com/aretw0/scorm/pkg/ports"
)

// Backend is an opened commit store.
type Backend struct {
	Store ports.CommitStore
	// Locker is set for stores shared between processes (redis).
	Locker ports.DistributedLocker
	close  func() error
}

// Close releases the underlying connections.
func (b *Backend) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// OpenStore builds the configured store wrapped with redaction and encryption.
func (f File) OpenStore() (*Backend, error) {
	b := &Backend{}
	switch f.Store.Kind {
	case StoreFile:
		b.Store = file.New(f.Store.Path)
	case StoreSQLite:
		path := f.Store.Path
		if path == "" {
			path = "scorm.db"
		}
		s, err := sqlite.NewStore(path)
		if err != nil {
			return nil, err
		}
		b.Store, b.close = s, s.Close
	case StoreRedis:
		var opts []redis.Option
		if f.Store.Prefix != "" {
			opts = append(opts, redis.WithPrefix(f.Store.Prefix))
		}
		if f.Store.TTL > 0 {
			opts = append(opts, redis.WithTTL(f.Store.TTL))
		}
		s := redis.New(f.Store.Addr, "", 0, opts...)
		prefix := f.Store.Prefix
		if prefix == "" {
			prefix = redis.DefaultPrefix
		}
		b.Store, b.close = s, s.Close
		b.Locker = redis.NewLocker(s.Client(), prefix)
	default:
		b.Store = memory.NewStore()
	}

	var mws []middleware.Middleware
	if len(f.Redact) > 0 {
		mws = append(mws, middleware.NewPIIMiddleware(f.Redact))
	}
	key, err := f.Key()
	if err != nil {
		_ = b.Close()
		return nil, err
	}
	if key != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	b.Store = middleware.Chain(b.Store, mws...)
	return b, nil
}
