package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sandeepkv93/evcal/internal/storage"
)

// Allocator issues increasing event ids and persists the last one under
// storage.KeyLastID before returning it. If that key is reset while older
// events survive, ids can repeat; the store does not cross-check.
type Allocator struct {
	kv   storage.KV
	last int64
}

// NewAllocator reads the last issued id. A missing or unparseable value
// starts the sequence at zero.
func NewAllocator(ctx context.Context, kv storage.KV) (*Allocator, error) {
	if kv == nil {
		return nil, errors.New("events: nil kv")
	}
	a := &Allocator{kv: kv}
	raw, err := kv.Get(ctx, storage.KeyLastID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return a, nil
		}
		return nil, fmt.Errorf("read %s: %w", storage.KeyLastID, err)
	}
	if v, parseErr := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); parseErr == nil && v > 0 {
		a.last = v
	}
	return a, nil
}

func (a *Allocator) Next(ctx context.Context) (int64, error) {
	next := a.last + 1
	if err := a.kv.Set(ctx, storage.KeyLastID, strconv.FormatInt(next, 10)); err != nil {
		return 0, fmt.Errorf("persist %s: %w", storage.KeyLastID, err)
	}
	a.last = next
	return next, nil
}

func (a *Allocator) Last() int64 {
	return a.last
}
