package inference

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat/distuv"

	"simlab/domain/core"
	"simlab/domain/simulation"
)

// OneSampleTTest is the classical one-sample location test:
// H0: mean = mu0 against the two-sided alternative, studentized statistic
// referred to a Student-t distribution with n-1 degrees of freedom.
type OneSampleTTest struct {
	Alpha float64
}

// NewOneSampleTTest creates the test procedure at significance level alpha.
func NewOneSampleTTest(alpha float64) *OneSampleTTest {
	return &OneSampleTTest{Alpha: alpha}
}

// Name identifies the procedure in result records.
func (p *OneSampleTTest) Name() string {
	return "one_sample_ttest"
}

// Test computes the two-sided p-value and the reject decision. Requires
// len(sample) >= 2. A zero-variance sample is decided exactly: p=1 when the
// constant equals mu0, p=0 otherwise.
func (p *OneSampleTTest) Test(sample simulation.Sample, mu0 float64) (simulation.TestDecision, error) {
	data := []float64(sample)
	n := len(data)
	if n < 2 {
		return simulation.TestDecision{}, core.NewSampleSizeError(p.Name(), n, 2)
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return simulation.TestDecision{}, err
	}
	sd, err := stats.StandardDeviationSample(data)
	if err != nil {
		return simulation.TestDecision{}, err
	}

	se := sd / math.Sqrt(float64(n))
	if se == 0 {
		pValue := 0.0
		if mean == mu0 {
			pValue = 1.0
		}
		return simulation.TestDecision{PValue: pValue, Reject: pValue < p.Alpha}, nil
	}

	tStat := (mean - mu0) / se
	pValue := tPValue(tStat, n-1)
	return simulation.TestDecision{PValue: pValue, Reject: pValue < p.Alpha}, nil
}

// tPValue computes the exact two-tailed p-value under Student's t with df
// degrees of freedom.
func tPValue(tStat float64, df int) float64 {
	if df <= 0 {
		return 1.0
	}
	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(df)}
	return 2 * (1 - tDist.CDF(math.Abs(tStat)))
}
