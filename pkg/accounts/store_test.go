package accounts

import (
	"context"
	"errors"
	"testing"
)

// fakeSource is a scriptable Source for store tests.
type fakeSource struct {
	list []Account
	err  error
}

func (s *fakeSource) Load(context.Context) ([]Account, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.list, nil
}

func (s *fakeSource) Describe() string { return "fake" }

func TestStore_LoadAndLookup(t *testing.T) {
	src := &fakeSource{list: []Account{
		{Name: "alpha", APIKey: "key-a", Description: "first"},
		{Name: "beta", APIKey: "key-b"},
	}}
	store := NewStore(src)

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	if store.Len() != 2 {
		t.Errorf("expected 2 accounts, got %d", store.Len())
	}

	a, err := store.Get("alpha")
	if err != nil {
		t.Fatalf("get alpha: %v", err)
	}
	if a.APIKey != "key-a" || a.Description != "first" {
		t.Errorf("unexpected account: %+v", a)
	}

	names := store.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("expected configuration order preserved, got %v", names)
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore(&fakeSource{list: []Account{{Name: "alpha", APIKey: "k"}}})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err := store.Get("ghost")
	if err == nil {
		t.Fatal("expected error for unknown account")
	}
	if !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestStore_LoadValidation(t *testing.T) {
	tests := []struct {
		name string
		list []Account
	}{
		{"empty list", nil},
		{"empty name", []Account{{Name: "", APIKey: "k"}}},
		{"empty api key", []Account{{Name: "alpha", APIKey: ""}}},
		{"duplicate name", []Account{
			{Name: "alpha", APIKey: "k1"},
			{Name: "alpha", APIKey: "k2"},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore(&fakeSource{list: tt.list})
			err := store.Load(context.Background())
			if err == nil {
				t.Fatal("expected load to fail validation")
			}
			var cfgErr *ConfigError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected *ConfigError, got %T", err)
			}
		})
	}
}

func TestStore_ReloadSwapsSet(t *testing.T) {
	src := &fakeSource{list: []Account{{Name: "alpha", APIKey: "k1"}}}
	store := NewStore(src)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	src.list = []Account{
		{Name: "beta", APIKey: "k2"},
		{Name: "gamma", APIKey: "k3"},
	}
	if err := store.Reload(context.Background()); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if store.Len() != 2 {
		t.Errorf("expected 2 accounts after reload, got %d", store.Len())
	}
	if _, err := store.Get("alpha"); !errors.Is(err, ErrAccountNotFound) {
		t.Errorf("expected alpha gone after reload, got %v", err)
	}
	if _, err := store.Get("beta"); err != nil {
		t.Errorf("expected beta present after reload, got %v", err)
	}
}

func TestStore_FailedReloadKeepsPreviousSet(t *testing.T) {
	src := &fakeSource{list: []Account{{Name: "alpha", APIKey: "k1"}}}
	store := NewStore(src)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	src.err = errors.New("backend unavailable")
	if err := store.Reload(context.Background()); err == nil {
		t.Fatal("expected reload to fail")
	}

	if store.Len() != 1 {
		t.Errorf("expected previous set retained, got %d accounts", store.Len())
	}
	if _, err := store.Get("alpha"); err != nil {
		t.Errorf("expected alpha still present, got %v", err)
	}
}

func TestStore_AllReturnsCopy(t *testing.T) {
	store := NewStore(&fakeSource{list: []Account{{Name: "alpha", APIKey: "k"}}})
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}

	all := store.All()
	all[0].Name = "mutated"

	a, err := store.Get("alpha")
	if err != nil || a.Name != "alpha" {
		t.Errorf("expected store unaffected by caller mutation, got %+v (%v)", a, err)
	}
}
