package provider

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type testProvider struct {
	name      string
	available bool
}

func (p *testProvider) Name() string                     { return p.name }
func (p *testProvider) IsAvailable(context.Context) bool { return p.available }

func factoryFor(name string, available bool) Factory[*testProvider] {
	return func(map[string]any) (*testProvider, error) {
		return &testProvider{name: name, available: available}, nil
	}
}

func TestRegistryCreate(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("whisper", factoryFor("whisper", true))

	p, err := reg.Create("whisper", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "whisper" {
		t.Errorf("expected name 'whisper', got %q", p.Name())
	}

	if _, err := reg.Create("missing", nil); err == nil || !strings.Contains(err.Error(), "not registered") {
		t.Errorf("expected 'not registered' error, got %v", err)
	}
}

func TestRegistryListSorted(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	reg.RegisterFactory("whisperx", factoryFor("whisperx", true))
	reg.RegisterFactory("whisper", factoryFor("whisper", true))
	names := reg.List()
	if len(names) != 2 || names[0] != "whisper" || names[1] != "whisperx" {
		t.Errorf("expected [whisper whisperx], got %v", names)
	}
}

func TestManagerSelectsAvailable(t *testing.T) {
	mgr := NewManager(NewRegistry[*testProvider](), nil)
	mgr.Register("a", factoryFor("a", false))
	mgr.Register("b", factoryFor("b", true))
	for _, n := range []string{"a", "b"} {
		if err := mgr.Initialize(n, nil); err != nil {
			t.Fatalf("Initialize(%s): %v", n, err)
		}
	}

	p, err := mgr.Get(context.Background())
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Name() != "b" {
		t.Errorf("expected available provider 'b', got %q", p.Name())
	}
}

func TestManagerDefaultWins(t *testing.T) {
	mgr := NewManager(NewRegistry[*testProvider](), nil)
	mgr.Add("a", &testProvider{name: "a", available: false})
	mgr.Add("b", &testProvider{name: "b", available: true})

	if err := mgr.SetDefault("a"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	p, err := mgr.Get(context.Background())
	if err != nil || p.Name() != "a" {
		t.Fatalf("expected default 'a', got %v, %v", p, err)
	}
	if err := mgr.SetDefault("zzz"); err == nil {
		t.Error("expected error for unknown default")
	}
}

func TestManagerInitializeFactoryError(t *testing.T) {
	mgr := NewManager(NewRegistry[*testProvider](), nil)
	mgr.Register("broken", func(map[string]any) (*testProvider, error) {
		return nil, errors.New("bad config")
	})
	err := mgr.Initialize("broken", nil)
	if err == nil || !strings.Contains(err.Error(), "bad config") {
		t.Fatalf("expected wrapped factory error, got %v", err)
	}
	if len(mgr.Available()) != 0 {
		t.Errorf("expected no providers, got %v", mgr.Available())
	}
}

func TestPrioritySelector(t *testing.T) {
	providers := map[string]*testProvider{
		"whisper":  {name: "whisper", available: true},
		"whisperx": {name: "whisperx", available: true},
		"down":     {name: "down", available: false},
	}
	sel := &PrioritySelector[*testProvider]{Priority: []string{"down", "whisperx", "whisper"}}
	p, err := sel.Select(context.Background(), providers)
	if err != nil || p.Name() != "whisperx" {
		t.Fatalf("expected whisperx, got %v, %v", p, err)
	}

	sel = &PrioritySelector[*testProvider]{Priority: []string{"down"}}
	if _, err := sel.Select(context.Background(), providers); err == nil {
		t.Error("expected error when no prioritized provider is available")
	}
}
