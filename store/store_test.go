package store

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryRoundTrip(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	if _, err := kv.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing key, got %v", err)
	}

	if err := kv.Set(ctx, "key", []byte("first")); err != nil {
		t.Fatal(err)
	}
	got, err := kv.Get(ctx, "key")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "first" {
		t.Errorf("Expected %q, got %q", "first", got)
	}

	// Last writer wins.
	if err := kv.Set(ctx, "key", []byte("second")); err != nil {
		t.Fatal(err)
	}
	got, _ = kv.Get(ctx, "key")
	if string(got) != "second" {
		t.Errorf("Expected overwrite, got %q", got)
	}

	if err := kv.Delete(ctx, "key"); err != nil {
		t.Fatal(err)
	}
	if _, err := kv.Get(ctx, "key"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}

func TestMemoryCopiesValues(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	value := []byte("original")
	if err := kv.Set(ctx, "key", value); err != nil {
		t.Fatal(err)
	}
	value[0] = 'X'

	got, err := kv.Get(ctx, "key")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "original" {
		t.Errorf("Expected stored value isolated from caller mutation, got %q", got)
	}

	got[0] = 'Y'
	again, _ := kv.Get(ctx, "key")
	if string(again) != "original" {
		t.Errorf("Expected returned value isolated from store, got %q", again)
	}
}
