package inference

import (
	"math"
	"math/rand/v2"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"

	"simlab/domain/core"
	"simlab/domain/simulation"
	"simlab/ports"
)

// TwoClusterAnalyzer fits a two-component Gaussian mixture to a
// one-dimensional sample by expectation-maximization, hard-assigns each
// observation to its likelier component, and computes the classical interval
// independently within each group. Demonstrates that one pooled mean hides
// two real populations in bimodal data.
//
// Initialization draws the starting means from an RNG stream keyed the same
// way as the bootstrap procedure, so clustering is reproducible by default
// and configurable like the bootstrap.
type TwoClusterAnalyzer struct {
	MaxIter       int
	Tol           float64
	RunID         string
	Deterministic bool

	rng      ports.RNGPort
	interval *NormalApproxInterval
}

// NewTwoClusterAnalyzer creates the analyzer with reference EM settings.
func NewTwoClusterAnalyzer(runID string, deterministic bool, rngPort ports.RNGPort) *TwoClusterAnalyzer {
	return &TwoClusterAnalyzer{
		MaxIter:       200,
		Tol:           1e-8,
		RunID:         runID,
		Deterministic: deterministic,
		rng:           rngPort,
		interval:      NewNormalApproxInterval(),
	}
}

// Name identifies the analyzer in result records.
func (a *TwoClusterAnalyzer) Name() string {
	return "two_cluster_95_ci"
}

// Clusters fits the mixture and returns per-cluster means and intervals,
// ordered by ascending cluster mean. Requires len(sample) >= 4 so each group
// can carry a defined sample variance.
func (a *TwoClusterAnalyzer) Clusters(sample simulation.Sample, seed int64) ([]simulation.ClusterInterval, error) {
	data := []float64(sample)
	if len(data) < 4 {
		return nil, core.NewSampleSizeError(a.Name(), len(data), 4)
	}

	baseSeed := seed
	if !a.Deterministic {
		baseSeed = rand.Int64()
	}
	stream, err := a.rng.Stream(a.RunID, a.Name(), "replicate_"+strconv.FormatInt(seed, 10), baseSeed)
	if err != nil {
		return nil, err
	}

	model := a.fit(data, stream)
	groups := model.assign(data)

	clusters := make([]simulation.ClusterInterval, 0, 2)
	for _, grp := range groups {
		if len(grp) < 2 {
			return nil, core.ErrDegenerateCluster
		}
		mean, err := stats.Mean(grp)
		if err != nil {
			return nil, err
		}
		ci, err := a.interval.estimate(grp)
		if err != nil {
			return nil, err
		}
		clusters = append(clusters, simulation.ClusterInterval{Mean: mean, Interval: ci, Size: len(grp)})
	}
	sort.Slice(clusters, func(i, j int) bool { return clusters[i].Mean < clusters[j].Mean })
	return clusters, nil
}

// mixtureModel holds the parameters of a two-component 1-D Gaussian mixture.
type mixtureModel struct {
	weight [2]float64
	mean   [2]float64
	vari   [2]float64
}

const minVariance = 1e-6

// fit runs EM from a median-straddling random initialization. Starting the
// component means on opposite sides of the median keeps EM from collapsing
// both components into one mode.
func (a *TwoClusterAnalyzer) fit(data []float64, stream *rand.Rand) mixtureModel {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	half := len(sorted) / 2
	lowerHalf := sorted[:half]
	upperHalf := sorted[half:]

	totalVar, _ := stats.SampleVariance(data)
	if totalVar < minVariance {
		totalVar = minVariance
	}

	m := mixtureModel{
		weight: [2]float64{0.5, 0.5},
		mean: [2]float64{
			lowerHalf[stream.IntN(len(lowerHalf))],
			upperHalf[stream.IntN(len(upperHalf))],
		},
		vari: [2]float64{totalVar, totalVar},
	}

	resp := make([]float64, len(data)) // responsibility of component 1
	prevLL := math.Inf(-1)

	for iter := 0; iter < a.MaxIter; iter++ {
		// E-step
		ll := 0.0
		for i, x := range data {
			p0 := m.weight[0] * normalPDF(x, m.mean[0], m.vari[0])
			p1 := m.weight[1] * normalPDF(x, m.mean[1], m.vari[1])
			total := p0 + p1
			if total <= 0 {
				resp[i] = 0.5
				continue
			}
			resp[i] = p1 / total
			ll += math.Log(total)
		}

		// M-step
		var w1, s1, s0 float64
		for i, x := range data {
			w1 += resp[i]
			s1 += resp[i] * x
			s0 += (1 - resp[i]) * x
		}
		w0 := float64(len(data)) - w1
		if w0 < minVariance || w1 < minVariance {
			break
		}
		m.mean[0] = s0 / w0
		m.mean[1] = s1 / w1

		var v0, v1 float64
		for i, x := range data {
			d0 := x - m.mean[0]
			d1 := x - m.mean[1]
			v0 += (1 - resp[i]) * d0 * d0
			v1 += resp[i] * d1 * d1
		}
		m.vari[0] = math.Max(v0/w0, minVariance)
		m.vari[1] = math.Max(v1/w1, minVariance)
		m.weight[0] = w0 / float64(len(data))
		m.weight[1] = w1 / float64(len(data))

		if math.Abs(ll-prevLL) < a.Tol {
			break
		}
		prevLL = ll
	}
	return m
}

// assign hard-partitions the data by likelier component.
func (m mixtureModel) assign(data []float64) [2][]float64 {
	var groups [2][]float64
	for _, x := range data {
		p0 := m.weight[0] * normalPDF(x, m.mean[0], m.vari[0])
		p1 := m.weight[1] * normalPDF(x, m.mean[1], m.vari[1])
		if p1 > p0 {
			groups[1] = append(groups[1], x)
		} else {
			groups[0] = append(groups[0], x)
		}
	}
	return groups
}

func normalPDF(x, mean, variance float64) float64 {
	d := x - mean
	return math.Exp(-d*d/(2*variance)) / math.Sqrt(2*math.Pi*variance)
}
