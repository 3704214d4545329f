// Package config holds the router's tunable hyperparameters (spec.md §6),
// stored as atomics so the display shell can tweak them mid-run, loaded
// from YAML the way the teacher's sample scenes are.
//
// Grounded on original_source/shared/src/hyperparameters.rs.
package config

import (
	"sync/atomic"

	yaml "gopkg.in/yaml.v2"
)

// Params holds every hyperparameter of spec.md §6 as atomic cells. A
// snapshot (Values) is read once per job per spec.md's Design Notes §9
// ("cache an immutable snapshot at job start").
type Params struct {
	UseBayesian                    int32 // bool as 0/1
	AstarMaxExpansions             uint64
	AstarStride                    int64 // geom.Fixed bits
	HalfProbabilityRawScore        uint64 // math.Float64bits
	HalfProbabilityOpportunityCost uint64
	MaxGenerationAttempts          uint64
	FirstIterationProbability      uint64
	SecondIterationProbability     uint64
	SecondIterationNumTraces       uint64
	ViaCost                        uint64
	NumTopRankedToTry              uint64
	SampleIterations               uint64
	UpdateProbaSkipStride          uint64
}

// Values is an immutable snapshot of Params, read once at job start.
type Values struct {
	UseBayesian                     bool
	AstarMaxExpansions              uint
	AstarStride                     float64
	HalfProbabilityRawScore         float64
	HalfProbabilityOpportunityCost  float64
	MaxGenerationAttempts           uint
	FirstIterationProbability       float64
	SecondIterationProbability      float64
	SecondIterationNumTraces        uint
	ViaCost                         float64
	NumTopRankedToTry               uint
	SampleIterations                uint
	UpdateProbaSkipStride           uint
}

// file is the YAML-serializable form of Values, its keys matching the
// names of spec.md §6's hyperparameter table field-for-field.
type file struct {
	UseBayesian                    bool    `yaml:"use_bayesian"`
	AstarMaxExpansions             uint    `yaml:"astar_max_expansions"`
	AstarStride                    float64 `yaml:"astar_stride"`
	HalfProbabilityRawScore        float64 `yaml:"half_probability_raw_score"`
	HalfProbabilityOpportunityCost float64 `yaml:"half_probability_opportunity_cost"`
	MaxGenerationAttempts          uint    `yaml:"max_generation_attempts"`
	FirstIterationProbability      float64 `yaml:"first_iteration_probability"`
	SecondIterationProbability     float64 `yaml:"second_iteration_probability"`
	SecondIterationNumTraces       uint    `yaml:"second_iteration_num_traces"`
	ViaCost                        float64 `yaml:"via_cost"`
	NumTopRankedToTry              uint    `yaml:"num_top_ranked_to_try"`
	SampleIterations               uint    `yaml:"sample_iterations"`
	UpdateProbaSkipStride          uint    `yaml:"update_proba_skip_stride"`
}

// Default returns the "Recommended" column of spec.md §6.
func Default() Values {
	return Values{
		UseBayesian:                    true,
		AstarMaxExpansions:             2000,
		AstarStride:                    1.0,
		HalfProbabilityRawScore:        10,
		HalfProbabilityOpportunityCost: 0.5,
		MaxGenerationAttempts:          4,
		FirstIterationProbability:      0.5,
		SecondIterationProbability:    0.25,
		SecondIterationNumTraces:       3,
		ViaCost:                        5.0,
		NumTopRankedToTry:              3,
		SampleIterations:               2,
		UpdateProbaSkipStride:          2,
	}
}

// Load reads hyperparameters from YAML, defaulting any field the document
// omits.
func Load(data []byte) (Values, error) {
	v := Default()
	var f file
	fromValues(&f, v)
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Values{}, err
	}
	return toValues(f), nil
}

func fromValues(f *file, v Values) {
	f.UseBayesian = v.UseBayesian
	f.AstarMaxExpansions = v.AstarMaxExpansions
	f.AstarStride = v.AstarStride
	f.HalfProbabilityRawScore = v.HalfProbabilityRawScore
	f.HalfProbabilityOpportunityCost = v.HalfProbabilityOpportunityCost
	f.MaxGenerationAttempts = v.MaxGenerationAttempts
	f.FirstIterationProbability = v.FirstIterationProbability
	f.SecondIterationProbability = v.SecondIterationProbability
	f.SecondIterationNumTraces = v.SecondIterationNumTraces
	f.ViaCost = v.ViaCost
	f.NumTopRankedToTry = v.NumTopRankedToTry
	f.SampleIterations = v.SampleIterations
	f.UpdateProbaSkipStride = v.UpdateProbaSkipStride
}

func toValues(f file) Values {
	return Values{
		UseBayesian:                    f.UseBayesian,
		AstarMaxExpansions:             f.AstarMaxExpansions,
		AstarStride:                    f.AstarStride,
		HalfProbabilityRawScore:        f.HalfProbabilityRawScore,
		HalfProbabilityOpportunityCost: f.HalfProbabilityOpportunityCost,
		MaxGenerationAttempts:          f.MaxGenerationAttempts,
		FirstIterationProbability:      f.FirstIterationProbability,
		SecondIterationProbability:     f.SecondIterationProbability,
		SecondIterationNumTraces:       f.SecondIterationNumTraces,
		ViaCost:                        f.ViaCost,
		NumTopRankedToTry:              f.NumTopRankedToTry,
		SampleIterations:               f.SampleIterations,
		UpdateProbaSkipStride:          f.UpdateProbaSkipStride,
	}
}

// NewParams builds atomic Params seeded from a snapshot.
func NewParams(v Values) *Params {
	p := &Params{}
	p.Store(v)
	return p
}

// Store atomically replaces every field of p with v's values.
func (p *Params) Store(v Values) {
	b2i := func(b bool) int32 {
		if b {
			return 1
		}
		return 0
	}
	atomic.StoreInt32(&p.UseBayesian, b2i(v.UseBayesian))
	atomic.StoreUint64(&p.AstarMaxExpansions, uint64(v.AstarMaxExpansions))
	atomic.StoreInt64(&p.AstarStride, int64(v.AstarStride*65536))
	atomic.StoreUint64(&p.HalfProbabilityRawScore, float64bits(v.HalfProbabilityRawScore))
	atomic.StoreUint64(&p.HalfProbabilityOpportunityCost, float64bits(v.HalfProbabilityOpportunityCost))
	atomic.StoreUint64(&p.MaxGenerationAttempts, uint64(v.MaxGenerationAttempts))
	atomic.StoreUint64(&p.FirstIterationProbability, float64bits(v.FirstIterationProbability))
	atomic.StoreUint64(&p.SecondIterationProbability, float64bits(v.SecondIterationProbability))
	atomic.StoreUint64(&p.SecondIterationNumTraces, uint64(v.SecondIterationNumTraces))
	atomic.StoreUint64(&p.ViaCost, float64bits(v.ViaCost))
	atomic.StoreUint64(&p.NumTopRankedToTry, uint64(v.NumTopRankedToTry))
	atomic.StoreUint64(&p.SampleIterations, uint64(v.SampleIterations))
	atomic.StoreUint64(&p.UpdateProbaSkipStride, uint64(v.UpdateProbaSkipStride))
}

// Snapshot reads every field of p into a Values, once, per spec.md's
// Design Notes §9.
func (p *Params) Snapshot() Values {
	return Values{
		UseBayesian:                     atomic.LoadInt32(&p.UseBayesian) != 0,
		AstarMaxExpansions:              uint(atomic.LoadUint64(&p.AstarMaxExpansions)),
		AstarStride:                     float64(atomic.LoadInt64(&p.AstarStride)) / 65536,
		HalfProbabilityRawScore:         float64frombits(atomic.LoadUint64(&p.HalfProbabilityRawScore)),
		HalfProbabilityOpportunityCost:  float64frombits(atomic.LoadUint64(&p.HalfProbabilityOpportunityCost)),
		MaxGenerationAttempts:           uint(atomic.LoadUint64(&p.MaxGenerationAttempts)),
		FirstIterationProbability:       float64frombits(atomic.LoadUint64(&p.FirstIterationProbability)),
		SecondIterationProbability:      float64frombits(atomic.LoadUint64(&p.SecondIterationProbability)),
		SecondIterationNumTraces:        uint(atomic.LoadUint64(&p.SecondIterationNumTraces)),
		ViaCost:                         float64frombits(atomic.LoadUint64(&p.ViaCost)),
		NumTopRankedToTry:               uint(atomic.LoadUint64(&p.NumTopRankedToTry)),
		SampleIterations:                uint(atomic.LoadUint64(&p.SampleIterations)),
		UpdateProbaSkipStride:           uint(atomic.LoadUint64(&p.UpdateProbaSkipStride)),
	}
}
