package services

import (
	"context"
	"encoding/json"

	apperrors "autopecas/internal/errors"
	applog "autopecas/internal/log"
	"autopecas/internal/repos"
)

// loadSlot decodes key into T. A value that fails to decode is logged and
// cleared; the caller then sees ok=false and falls back to its initial state.
func loadSlot[T any](ctx context.Context, store repos.Store, key string) (T, bool, error) {
	var out T
	raw, ok, err := store.Load(ctx, key)
	if err != nil {
		return out, false, apperrors.Wrap(apperrors.CodeDependency, err, "store load "+key)
	}
	if !ok {
		return out, false, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		applog.Warn(nil, "store.malformed", err, map[string]any{"slot": key, "bytes": len(raw)})
		if cerr := store.Clear(ctx, key); cerr != nil {
			applog.Error(nil, "store.clear_failed", cerr, map[string]any{"slot": key})
		}
		var zero T
		return zero, false, nil
	}
	return out, true, nil
}

func saveSlot(ctx context.Context, store repos.Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "encode "+key)
	}
	if err := store.Save(ctx, key, raw); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "store save "+key)
	}
	return nil
}

func clearSlot(ctx context.Context, store repos.Store, key string) error {
	if err := store.Clear(ctx, key); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "store clear "+key)
	}
	return nil
}
