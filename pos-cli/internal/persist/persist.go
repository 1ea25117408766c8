// Package persist mirrors the durable part of the Data Store under one fixed key.
package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"restaurant-pos/pos-cli/internal/domain"

	"github.com/redis/go-redis/v9"
)

// StoreKey names the mirror in every backend.
const StoreKey = "restaurant-pos-store"

// snapshotVersion is bumped when State changes shape; older snapshots are ignored.
const snapshotVersion = 1

// State is the persisted subset of the Data Store. Sales data and collection status are not kept.
type State struct {
	Dishes      []domain.Dish       `json:"dishes"`
	Ingredients []domain.Ingredient `json:"ingredients"`
	Orders      []domain.Order      `json:"orders"`
	LastSync    *time.Time          `json:"lastSync,omitempty"`
}

type snapshot struct {
	State   State `json:"state"`
	Version int   `json:"version"`
}

func encode(state State) ([]byte, error) {
	return json.Marshal(snapshot{State: state, Version: snapshotVersion})
}

func decode(raw []byte) (State, error) {
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return State{}, fmt.Errorf("failed to decode %s: %w", StoreKey, err)
	}
	if snap.Version != snapshotVersion {
		return State{}, nil
	}
	return snap.State, nil
}

// FilePersister keeps the mirror as Dir/restaurant-pos-store.json.
type FilePersister struct {
	Dir string
}

func NewFilePersister(dir string) *FilePersister {
	return &FilePersister{Dir: dir}
}

func (p *FilePersister) Path() string {
	return filepath.Join(p.Dir, StoreKey+".json")
}

// Load returns an empty State when no mirror has been written yet.
func (p *FilePersister) Load(ctx context.Context) (State, error) {
	raw, err := os.ReadFile(p.Path())
	if errors.Is(err, os.ErrNotExist) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	return decode(raw)
}

// Save replaces the mirror atomically through a temporary file in the same directory.
func (p *FilePersister) Save(ctx context.Context, state State) error {
	payload, err := encode(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", p.Dir, err)
	}

	tmp, err := os.CreateTemp(p.Dir, StoreKey+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write mirror: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p.Path())
}

// RedisPersister keeps the mirror as one string value, without expiry.
type RedisPersister struct {
	Client *redis.Client
}

func NewRedisPersister(client *redis.Client) *RedisPersister {
	return &RedisPersister{Client: client}
}

func (p *RedisPersister) Load(ctx context.Context) (State, error) {
	raw, err := p.Client.Get(ctx, StoreKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return State{}, nil
	}
	if err != nil {
		return State{}, err
	}
	return decode(raw)
}

func (p *RedisPersister) Save(ctx context.Context, state State) error {
	payload, err := encode(state)
	if err != nil {
		return err
	}
	return p.Client.Set(ctx, StoreKey, payload, 0).Err()
}
