package replication

import (
	"context"
	"errors"
	"math"
	"testing"

	"simlab/adapters/distributions"
	"simlab/domain/simulation"
	"simlab/internal/inference"
	"simlab/ports"
)

type recordingGenerator struct {
	seeds []int64
	fail  bool
}

func (g *recordingGenerator) Descriptor() simulation.DistributionDescriptor {
	return simulation.DistributionDescriptor{Kind: "recording", TrueMean: 0}
}

func (g *recordingGenerator) Generate(n int, seed int64) (simulation.Sample, error) {
	if g.fail {
		return nil, errors.New("generator blew up")
	}
	g.seeds = append(g.seeds, seed)
	out := make(simulation.Sample, n)
	for i := range out {
		out[i] = float64(seed)
	}
	return out, nil
}

// alternatingInterval covers zero on even seeds only, with a fixed width.
type alternatingInterval struct{}

func (alternatingInterval) Name() string { return "alternating" }

func (alternatingInterval) Interval(sample simulation.Sample, seed int64) (simulation.IntervalEstimate, error) {
	if seed%2 == 0 {
		return simulation.IntervalEstimate{Lower: -1, Upper: 1}, nil
	}
	return simulation.IntervalEstimate{Lower: 5, Upper: 9}, nil
}

type failingInterval struct{}

func (failingInterval) Name() string { return "failing" }

func (failingInterval) Interval(sample simulation.Sample, seed int64) (simulation.IntervalEstimate, error) {
	return simulation.IntervalEstimate{}, errors.New("procedure blew up")
}

type alwaysReject struct{}

func (alwaysReject) Name() string { return "always_reject" }

func (alwaysReject) Test(sample simulation.Sample, mu0 float64) (simulation.TestDecision, error) {
	return simulation.TestDecision{PValue: 0, Reject: true}, nil
}

func TestRunIntervalBatch_SeedsAreSequential(t *testing.T) {
	gen := &recordingGenerator{}
	engine := NewEngine()

	_, err := engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator:  gen,
		Procedures: []ports.IntervalProcedure{alternatingInterval{}},
		TrueMean:   0,
		N:          5,
		Replicates: 4,
		SeedStart:  100,
	})
	if err != nil {
		t.Fatal(err)
	}

	want := []int64{100, 101, 102, 103}
	if len(gen.seeds) != len(want) {
		t.Fatalf("generator saw %d seeds, want %d", len(gen.seeds), len(want))
	}
	for i, s := range want {
		if gen.seeds[i] != s {
			t.Errorf("replicate %d used seed %d, want %d", i, gen.seeds[i], s)
		}
	}
}

func TestRunIntervalBatch_Aggregation(t *testing.T) {
	engine := NewEngine()

	summaries, err := engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator:  &recordingGenerator{},
		Procedures: []ports.IntervalProcedure{alternatingInterval{}},
		TrueMean:   0,
		N:          3,
		Replicates: 4,
		SeedStart:  0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(summaries))
	}

	// Seeds 0..3: two even replicates cover with width 2, two odd miss with
	// width 4.
	s := summaries[0]
	if s.Procedure != "alternating" {
		t.Errorf("procedure %q", s.Procedure)
	}
	if s.CoverageRate != 0.5 {
		t.Errorf("coverage %v, want 0.5", s.CoverageRate)
	}
	if s.AvgWidth != 3 {
		t.Errorf("avg width %v, want 3", s.AvgWidth)
	}
}

func TestRunIntervalBatch_FailFast(t *testing.T) {
	engine := NewEngine()

	_, err := engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator:  &recordingGenerator{},
		Procedures: []ports.IntervalProcedure{failingInterval{}},
		N:          3,
		Replicates: 10,
		SeedStart:  0,
	})
	if err == nil {
		t.Fatal("procedure failure should abort the batch")
	}

	gen := &recordingGenerator{fail: true}
	_, err = engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator:  gen,
		Procedures: []ports.IntervalProcedure{alternatingInterval{}},
		N:          3,
		Replicates: 10,
		SeedStart:  0,
	})
	if err == nil {
		t.Fatal("generator failure should abort the batch")
	}
}

func TestRunIntervalBatch_RejectsEmptyBatch(t *testing.T) {
	engine := NewEngine()

	if _, err := engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator:  &recordingGenerator{},
		Procedures: []ports.IntervalProcedure{alternatingInterval{}},
		N:          0,
		Replicates: 10,
	}); err == nil {
		t.Error("n=0 should be rejected")
	}
	if _, err := engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator:  &recordingGenerator{},
		Procedures: nil,
		N:          5,
		Replicates: 10,
	}); err == nil {
		t.Error("empty procedure list should be rejected")
	}
}

func TestRunIntervalBatch_HonorsContext(t *testing.T) {
	engine := NewEngine()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.RunIntervalBatch(ctx, IntervalBatch{
		Generator:  &recordingGenerator{},
		Procedures: []ports.IntervalProcedure{alternatingInterval{}},
		N:          3,
		Replicates: 10,
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}

func TestRunTestBatch_Aggregation(t *testing.T) {
	engine := NewEngine()

	summary, err := engine.RunTestBatch(context.Background(), TestBatch{
		Generator:  &recordingGenerator{},
		Procedure:  alwaysReject{},
		N:          3,
		Replicates: 8,
		SeedStart:  0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.TypeIRate != 1 {
		t.Errorf("rejection rate %v, want 1", summary.TypeIRate)
	}
	if summary.Procedure != "always_reject" {
		t.Errorf("procedure %q", summary.Procedure)
	}
}

func TestCoverage_NormalLargeSampleNearNominal(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte Carlo coverage check")
	}
	engine := NewEngine()

	summaries, err := engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator:  distributions.NewNormal(),
		Procedures: []ports.IntervalProcedure{inference.NewNormalApproxInterval()},
		TrueMean:   0,
		N:          5000,
		Replicates: 3000,
		SeedStart:  0,
	})
	if err != nil {
		t.Fatal(err)
	}

	// With all assumptions satisfied the 95% interval's empirical coverage at
	// R=3000 lands inside [0.94, 0.96] except with negligible probability.
	got := summaries[0].CoverageRate
	if got < 0.94 || got > 0.96 {
		t.Errorf("normal n=5000 coverage %v outside [0.94, 0.96]", got)
	}
}

func TestCoverage_LognormalSmallSampleDegrades(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte Carlo coverage check")
	}
	engine := NewEngine()

	gen := distributions.NewLogNormal()
	summaries, err := engine.RunIntervalBatch(context.Background(), IntervalBatch{
		Generator: gen,
		Procedures: []ports.IntervalProcedure{
			inference.NewNormalApproxInterval(),
			inference.NewLogSpaceInterval(),
		},
		TrueMean:   gen.Descriptor().TrueMean,
		N:          50,
		Replicates: 1500,
		SeedStart:  0,
	})
	if err != nil {
		t.Fatal(err)
	}

	classical := summaries[0].CoverageRate
	logspace := summaries[1].CoverageRate
	if classical >= 0.93 {
		t.Errorf("classical coverage %v on skewed data should sit below nominal", classical)
	}
	if logspace <= classical {
		t.Errorf("log-space coverage %v should beat classical %v", logspace, classical)
	}
	if math.Abs(logspace-0.95) > 0.04 {
		t.Errorf("log-space coverage %v too far from 0.95", logspace)
	}
}

func TestTypeIError_NormalNearAlpha(t *testing.T) {
	if testing.Short() {
		t.Skip("Monte Carlo rejection rate check")
	}
	engine := NewEngine()

	summary, err := engine.RunTestBatch(context.Background(), TestBatch{
		Generator:  distributions.NewNormal(),
		Procedure:  inference.NewOneSampleTTest(0.05),
		Mu0:        0,
		N:          200,
		Replicates: 2000,
		SeedStart:  0,
	})
	if err != nil {
		t.Fatal(err)
	}
	if summary.TypeIRate < 0.03 || summary.TypeIRate > 0.07 {
		t.Errorf("type I rate %v outside [0.03, 0.07]", summary.TypeIRate)
	}
}
