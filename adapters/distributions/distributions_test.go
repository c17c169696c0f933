package distributions

import (
	"errors"
	"math"
	"testing"

	"simlab/domain/core"
	"simlab/domain/simulation"
	"simlab/ports"
)

func TestGenerators_Determinism(t *testing.T) {
	for _, gen := range Reference() {
		desc := gen.Descriptor()
		t.Run(string(desc.Kind), func(t *testing.T) {
			first, err := gen.Generate(250, 12345)
			if err != nil {
				t.Fatalf("first draw failed: %v", err)
			}
			second, err := gen.Generate(250, 12345)
			if err != nil {
				t.Fatalf("second draw failed: %v", err)
			}
			if len(first) != 250 || len(second) != 250 {
				t.Fatalf("expected 250 values, got %d and %d", len(first), len(second))
			}
			for i := range first {
				if first[i] != second[i] {
					t.Fatalf("draws diverge at index %d: %v != %v", i, first[i], second[i])
				}
			}
		})
	}
}

func TestGenerators_DistinctSeedsDiffer(t *testing.T) {
	for _, gen := range Reference() {
		desc := gen.Descriptor()
		t.Run(string(desc.Kind), func(t *testing.T) {
			a, err := gen.Generate(100, 1)
			if err != nil {
				t.Fatal(err)
			}
			b, err := gen.Generate(100, 2)
			if err != nil {
				t.Fatal(err)
			}
			same := true
			for i := range a {
				if a[i] != b[i] {
					same = false
					break
				}
			}
			if same {
				t.Fatal("different seeds produced identical samples")
			}
		})
	}
}

func TestGenerators_TrueMoments(t *testing.T) {
	cases := []struct {
		gen      ports.GeneratorPort
		mean     float64
		variance float64
	}{
		{NewNormal(), 0, 1},
		{NewLogNormal(), math.Exp(0.5), (math.E - 1) * math.E},
		{mustStudentT(t, 4), 0, 2},
		{NewMixture(), 0, 5},
	}

	for _, tc := range cases {
		desc := tc.gen.Descriptor()
		if math.Abs(desc.TrueMean-tc.mean) > 1e-12 {
			t.Errorf("%s: true mean %v, want %v", desc.Kind, desc.TrueMean, tc.mean)
		}
		if math.Abs(desc.TrueVariance-tc.variance) > 1e-12 {
			t.Errorf("%s: true variance %v, want %v", desc.Kind, desc.TrueVariance, tc.variance)
		}
	}
}

func TestGenerators_SampleMeanNearTruth(t *testing.T) {
	// At n=5000 every generator's sample mean should sit well inside a few
	// standard errors of the true mean.
	for _, gen := range Reference() {
		desc := gen.Descriptor()
		sample, err := gen.Generate(5000, 99)
		if err != nil {
			t.Fatalf("%s: %v", desc.Kind, err)
		}
		sum := 0.0
		for _, v := range sample {
			sum += v
		}
		mean := sum / float64(len(sample))
		se := math.Sqrt(desc.TrueVariance / 5000)
		if math.Abs(mean-desc.TrueMean) > 6*se {
			t.Errorf("%s: sample mean %v too far from true mean %v (se %v)", desc.Kind, mean, desc.TrueMean, se)
		}
	}
}

func TestMixture_Split(t *testing.T) {
	gen := NewMixture()

	sample, err := gen.Generate(7, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(sample) != 7 {
		t.Fatalf("expected 7 values, got %d", len(sample))
	}

	n1, n2 := gen.ComponentSizes(7)
	if n1+n2 != 7 {
		t.Fatalf("component sizes %d+%d != 7", n1, n2)
	}
	if diff := n2 - n1; diff < 0 || diff > 1 {
		t.Fatalf("component sizes differ by %d, want at most 1 with the extra on the second side", diff)
	}

	// n=1 assigns the single observation to the second component.
	one, err := gen.Generate(1, 3)
	if err != nil {
		t.Fatal(err)
	}
	if len(one) != 1 {
		t.Fatalf("expected 1 value, got %d", len(one))
	}
	n1, n2 = gen.ComponentSizes(1)
	if n1 != 0 || n2 != 1 {
		t.Fatalf("n=1 split is (%d, %d), want (0, 1)", n1, n2)
	}
}

func TestGenerators_RejectInvalidSize(t *testing.T) {
	for _, gen := range Reference() {
		desc := gen.Descriptor()
		if _, err := gen.Generate(0, 1); !errors.Is(err, core.ErrInvalidSampleSize) {
			t.Errorf("%s: n=0 returned %v, want ErrInvalidSampleSize", desc.Kind, err)
		}
	}
}

func TestStudentT_UndefinedMoments(t *testing.T) {
	if _, err := NewStudentT(1); !errors.Is(err, core.ErrUndefinedMoment) {
		t.Errorf("nu=1 returned %v, want ErrUndefinedMoment", err)
	}
	if _, err := NewStudentT(2); !errors.Is(err, core.ErrUndefinedMoment) {
		t.Errorf("nu=2 returned %v, want ErrUndefinedMoment", err)
	}
	if _, err := NewStudentT(2.5); err != nil {
		t.Errorf("nu=2.5 returned %v, want nil", err)
	}
}

func TestReference_CanonicalOrder(t *testing.T) {
	kinds := []simulation.DistributionKind{
		simulation.DistNormal,
		simulation.DistLognormal,
		simulation.DistStudentT,
		simulation.DistMixture,
	}
	gens := Reference()
	if len(gens) != len(kinds) {
		t.Fatalf("expected %d generators, got %d", len(kinds), len(gens))
	}
	for i, gen := range gens {
		if got := gen.Descriptor().Kind; got != kinds[i] {
			t.Errorf("generator %d is %s, want %s", i, got, kinds[i])
		}
	}
}

func mustStudentT(t *testing.T, nu float64) *StudentT {
	t.Helper()
	gen, err := NewStudentT(nu)
	if err != nil {
		t.Fatal(err)
	}
	return gen
}
