package repos

import "context"

// ScopedStore namespaces the per-shopper slots of an underlying store by
// session id. Shop-wide slots pass through untouched.
type ScopedStore struct {
	inner Store
	sid   string
}

func Scoped(inner Store, sid string) *ScopedStore { return &ScopedStore{inner: inner, sid: sid} }

func (s *ScopedStore) key(key string) string {
	if IsSessionKey(key) {
		return SessionKey(s.sid, key)
	}
	return key
}

func SessionKey(sid, key string) string { return "session:" + sid + ":" + key }

func (s *ScopedStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Load(ctx, s.key(key))
}

func (s *ScopedStore) Save(ctx context.Context, key string, value []byte) error {
	return s.inner.Save(ctx, s.key(key), value)
}

func (s *ScopedStore) Clear(ctx context.Context, key string) error {
	return s.inner.Clear(ctx, s.key(key))
}
