// Package maxent implements a binary maximum-entropy classifier trained with
// Improved Iterative Scaling.
//
// Weights are base-2 log potentials: P(label|v) is proportional to
// 2^(sum of weights of the joint features active for v under label).
package maxent

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/charmbracelet/log"
	"github.com/ppiankov/quotex/internal/features"
	"github.com/ppiankov/quotex/internal/logging"
)

// DefaultIterations is the number of IIS passes used when none is configured
const DefaultIterations = 10

const (
	newtonConverge = 1e-12
	maxNewtonSteps = 300
)

// ErrNoSamples is returned when training gets an empty sample set
var ErrNoSamples = errors.New("maxent: no training samples")

// labels is the fixed label set, ordered so ties resolve to false
var labels = [2]bool{false, true}

// Sample is one labeled training vector
type Sample struct {
	Features features.Vector
	Label    bool
}

// Options controls training
type Options struct {
	Iterations int
	Logger     *log.Logger
}

// Model is a trained classifier. It is immutable after Train returns.
type Model struct {
	enc     *encoding
	weights []float64
}

// Distribution is a posterior over the two labels
type Distribution struct {
	probs [2]float64
}

// Prob returns the probability of label
func (d Distribution) Prob(label bool) float64 {
	if label {
		return d.probs[1]
	}
	return d.probs[0]
}

// Max returns the most probable label; ties go to false
func (d Distribution) Max() bool {
	return d.probs[1] > d.probs[0]
}

// Weighted is a joint feature with its learned weight
type Weighted struct {
	Joint
	Weight float64
}

// Train fits a model on samples with Improved Iterative Scaling
func Train(samples []Sample, opts Options) (*Model, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	logger := logging.OrDiscard(opts.Logger)

	enc := newEncoding(samples)
	m := &Model{enc: enc, weights: make([]float64, enc.length())}

	empirical := empiricalFrequencies(samples, enc)
	nfs, nfIndex := activeCounts(samples, enc)

	logger.Debug("training maxent model",
		"samples", len(samples),
		"features", enc.length(),
		"iterations", iterations)

	for i := 0; i < iterations; i++ {
		logger.Debug("iis iteration",
			"iteration", i+1,
			"log_likelihood", m.logLikelihood(samples),
			"accuracy", m.accuracy(samples))

		expected := m.expectedByCount(samples, nfIndex, len(nfs))
		deltas := newtonDeltas(nfs, expected, empirical)
		for id, d := range deltas {
			m.weights[id] += d
		}
	}

	logger.Debug("training finished",
		"log_likelihood", m.logLikelihood(samples),
		"accuracy", m.accuracy(samples))

	return m, nil
}

// empiricalFrequencies returns, per joint feature, the fraction of samples
// in which it fires under the observed label
func empiricalFrequencies(samples []Sample, enc *encoding) []float64 {
	freq := make([]float64, enc.length())
	for _, s := range samples {
		for _, id := range enc.encode(s.Features, s.Label) {
			freq[id]++
		}
	}
	n := float64(len(samples))
	for i := range freq {
		freq[i] /= n
	}
	return freq
}

// activeCounts collects the distinct numbers of active joint features over
// every (sample, label) pair. nfIndex maps a count to its slot in nfs.
func activeCounts(samples []Sample, enc *encoding) ([]float64, map[int]int) {
	seen := make(map[int]bool)
	for _, s := range samples {
		for _, label := range labels {
			seen[len(enc.encode(s.Features, label))] = true
		}
	}

	counts := make([]int, 0, len(seen))
	for c := range seen {
		counts = append(counts, c)
	}
	sort.Ints(counts)

	nfs := make([]float64, len(counts))
	nfIndex := make(map[int]int, len(counts))
	for i, c := range counts {
		nfs[i] = float64(c)
		nfIndex[c] = i
	}
	return nfs, nfIndex
}

// expectedByCount returns A[nf][id]: the model's expected frequency of each
// joint feature, split by the active-feature count of the pair it fired in
func (m *Model) expectedByCount(samples []Sample, nfIndex map[int]int, numNF int) [][]float64 {
	a := make([][]float64, numNF)
	for i := range a {
		a[i] = make([]float64, m.enc.length())
	}

	n := float64(len(samples))
	for _, s := range samples {
		dist := m.ProbClassify(s.Features)
		for _, label := range labels {
			active := m.enc.encode(s.Features, label)
			row := a[nfIndex[len(active)]]
			p := dist.Prob(label)
			for _, id := range active {
				row[id] += p / n
			}
		}
	}
	return a
}

// newtonDeltas solves, for every joint feature i,
//
//	empirical[i] = sum_nf A[nf][i] * 2^(delta[i] * nf)
//
// with Newton's method, all features in lockstep
func newtonDeltas(nfs []float64, a [][]float64, empirical []float64) []float64 {
	deltas := make([]float64, len(empirical))
	for i := range deltas {
		deltas[i] = 1
	}

	for step := 0; step < maxNewtonSteps; step++ {
		var errSum, deltaSum float64
		for id := range deltas {
			var sum1, sum2 float64
			for k, nf := range nfs {
				e := math.Exp2(nf*deltas[id]) * a[k][id]
				sum1 += e
				sum2 += nf * e
			}
			if sum2 == 0 {
				continue
			}
			diff := empirical[id] - sum1
			deltas[id] += diff / sum2
			if math.IsNaN(deltas[id]) || math.IsInf(deltas[id], 0) {
				deltas[id] = 0
			}
			errSum += math.Abs(diff)
			deltaSum += math.Abs(deltas[id])
		}
		if deltaSum == 0 || errSum/deltaSum < newtonConverge {
			break
		}
	}
	return deltas
}

// ProbClassify returns the posterior over labels for v
func (m *Model) ProbClassify(v features.Vector) Distribution {
	var totals [2]float64
	for i, label := range labels {
		for _, id := range m.enc.encode(v, label) {
			totals[i] += m.weights[id]
		}
	}

	// normalize in log space
	hi := math.Max(totals[0], totals[1])
	p0 := math.Exp2(totals[0] - hi)
	p1 := math.Exp2(totals[1] - hi)
	sum := p0 + p1
	return Distribution{probs: [2]float64{p0 / sum, p1 / sum}}
}

// Classify returns the most probable label for v
func (m *Model) Classify(v features.Vector) bool {
	return m.ProbClassify(v).Max()
}

// MostInformative returns up to n joint features ranked by absolute weight.
// Equal weights keep feature id order.
func (m *Model) MostInformative(n int) []Weighted {
	ids := make([]int, len(m.weights))
	for i := range ids {
		ids[i] = i
	}
	sort.SliceStable(ids, func(a, b int) bool {
		return math.Abs(m.weights[ids[a]]) > math.Abs(m.weights[ids[b]])
	})

	if n < 0 || n > len(ids) {
		n = len(ids)
	}
	out := make([]Weighted, 0, n)
	for _, id := range ids[:n] {
		out = append(out, Weighted{Joint: m.enc.joints[id], Weight: m.weights[id]})
	}
	return out
}

// NumFeatures returns the number of joint features in the model
func (m *Model) NumFeatures() int {
	return m.enc.length()
}

// Weight returns the learned weight of j, or 0 when j was never seen
func (m *Model) Weight(j Joint) float64 {
	if id, ok := m.enc.ids[j]; ok {
		return m.weights[id]
	}
	return 0
}

func (m *Model) logLikelihood(samples []Sample) float64 {
	var total float64
	for _, s := range samples {
		p := m.ProbClassify(s.Features).Prob(s.Label)
		if p <= 0 {
			p = math.SmallestNonzeroFloat64
		}
		total += math.Log2(p)
	}
	return total / float64(len(samples))
}

func (m *Model) accuracy(samples []Sample) float64 {
	correct := 0
	for _, s := range samples {
		if m.Classify(s.Features) == s.Label {
			correct++
		}
	}
	return float64(correct) / float64(len(samples))
}

func (w Weighted) String() string {
	return fmt.Sprintf("%8.3f %s label=%v", w.Weight, w.Joint, w.Label)
}
