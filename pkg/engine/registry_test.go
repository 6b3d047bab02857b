package engine

import (
	"slices"
	"testing"

	errs "github.com/matzehuels/hyperpart/pkg/errors"
)

type stubEngine struct{ name string }

func (s stubEngine) Name() string                            { return s.name }
func (stubEngine) NewContext() Context                       { return nil }
func (stubEngine) ConfigureFromFile(Context, string) error   { return nil }
func (stubEngine) ConfigureFromString(Context, string) error { return nil }
func (stubEngine) SetSeed(Context, int32)                    {}
func (stubEngine) NewHypergraph(int, Input) Hypergraph       { return nil }
func (stubEngine) Partition(Hypergraph, int, float64, Context, []int32) (int64, error) {
	return 0, nil
}

func TestRegisterLookup(t *testing.T) {
	Register(stubEngine{name: "stub-lookup"})

	e, err := Lookup("stub-lookup")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if e.Name() != "stub-lookup" {
		t.Errorf("Name = %q", e.Name())
	}
	if !slices.Contains(Names(), "stub-lookup") {
		t.Errorf("Names = %v", Names())
	}
	if !slices.IsSorted(Names()) {
		t.Error("Names should be sorted")
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("no-such-engine")
	if !errs.Is(err, errs.ErrCodeUnsupported) {
		t.Errorf("error = %v, want UNSUPPORTED", err)
	}
}

func TestRegisterPanics(t *testing.T) {
	tests := []struct {
		name string
		fn   func()
	}{
		{"empty name", func() { Register(stubEngine{}) }},
		{"duplicate", func() {
			Register(stubEngine{name: "stub-dup"})
			Register(stubEngine{name: "stub-dup"})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.fn()
		})
	}
}
