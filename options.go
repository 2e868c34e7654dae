package bind

import "runtime"

//Options controls a reduction run. The zero value is not usable: get one
//from DefaultOptions and change what you need through the accessor methods,
//which read the current value when called without arguments and set it when
//called with one.
type Options struct {
	mode              string
	featurizer        Featurizer
	varianceThreshold float64
	minComponents     int
	maxComponents     int
	kMin              int
	kMax              int
	anchors           []int
	subset            []int
	torsions          [][4]int
	seed              int64
	init              string
	cpus              int
	part              Partitioner
	validity          ValidityFunc
}

//DefaultOptions returns an Options set with the default values: distance
//features over all atoms, a 0.90 variance threshold with between 2 and 10
//components kept, k swept from 2 to 20, deterministic farthest-point
//initialization and the mean silhouette as validity index.
func DefaultOptions() *Options {
	o := new(Options)
	o.mode = "distance"
	o.varianceThreshold = 0.9
	o.minComponents = 2
	o.maxComponents = 10
	o.kMin = 2
	o.kMax = 20
	o.seed = 1
	o.init = "farthest"
	o.cpus = runtime.NumCPU()
	o.validity = meanSilhouette
	return o
}

//FeatureMode sets/gets the feature extraction mode: "distance",
//"coordinate" or "torsion".
func (o *Options) FeatureMode(mode ...string) string {
	if len(mode) > 0 {
		o.mode = mode[0]
	}
	return o.mode
}

//Featurizer sets/gets a custom featurizer. When set, it overrides
//FeatureMode entirely.
func (o *Options) Featurizer(F ...Featurizer) Featurizer {
	if len(F) > 0 {
		o.featurizer = F[0]
	}
	return o.featurizer
}

//VarianceThreshold sets/gets the cumulative variance fraction the kept
//principal components must reach, in (0,1].
func (o *Options) VarianceThreshold(t ...float64) float64 {
	if len(t) > 0 {
		o.varianceThreshold = t[0]
	}
	return o.varianceThreshold
}

//MinComponents sets/gets the floor on the number of components kept.
func (o *Options) MinComponents(n ...int) int {
	if len(n) > 0 {
		o.minComponents = n[0]
	}
	return o.minComponents
}

//MaxComponents sets/gets the ceiling on the number of components kept.
func (o *Options) MaxComponents(n ...int) int {
	if len(n) > 0 {
		o.maxComponents = n[0]
	}
	return o.maxComponents
}

//KMin sets/gets the smallest cluster count tried.
func (o *Options) KMin(k ...int) int {
	if len(k) > 0 {
		o.kMin = k[0]
	}
	return o.kMin
}

//KMax sets/gets the largest cluster count tried. The sweep never goes past
//one less than the number of conformers, whatever this is set to.
func (o *Options) KMax(k ...int) int {
	if len(k) > 0 {
		o.kMax = k[0]
	}
	return o.kMax
}

//Anchors sets/gets the anchor atoms used for superposition in coordinate
//mode, normally the rigid common substructure of the ensemble.
func (o *Options) Anchors(a ...[]int) []int {
	if len(a) > 0 {
		o.anchors = a[0]
	}
	return o.anchors
}

//Subset sets/gets the atoms considered in distance mode. Empty means all.
func (o *Options) Subset(s ...[]int) []int {
	if len(s) > 0 {
		o.subset = s[0]
	}
	return o.subset
}

//Torsions sets/gets the atom quadruplets used in torsion mode.
func (o *Options) Torsions(t ...[][4]int) [][4]int {
	if len(t) > 0 {
		o.torsions = t[0]
	}
	return o.torsions
}

//Seed sets/gets the seed used by the "rand" initialization.
func (o *Options) Seed(s ...int64) int64 {
	if len(s) > 0 {
		o.seed = s[0]
	}
	return o.seed
}

//Init sets/gets the k-means initialization: "farthest" or "rand".
func (o *Options) Init(i ...string) string {
	if len(i) > 0 {
		o.init = i[0]
	}
	return o.init
}

//Cpus sets/gets how many candidate cluster counts are evaluated at once.
func (o *Options) Cpus(c ...int) int {
	if len(c) > 0 {
		o.cpus = c[0]
	}
	return o.cpus
}

//Partitioner sets/gets a custom partitioner. When set, it overrides the
//Init and Seed settings entirely.
func (o *Options) Partitioner(p ...Partitioner) Partitioner {
	if len(p) > 0 {
		o.part = p[0]
	}
	return o.part
}

//Validity sets/gets the validity index used to pick the cluster count.
func (o *Options) Validity(v ...ValidityFunc) ValidityFunc {
	if len(v) > 0 {
		o.validity = v[0]
	}
	return o.validity
}

//validate checks the whole option set, returning a ConfigError on the
//first problem found. It runs before any computation.
func (o *Options) validate() error {
	if o.varianceThreshold <= 0 || o.varianceThreshold > 1 {
		return configError("variance threshold must be in (0,1], got %v", o.varianceThreshold)
	}
	if o.minComponents < 2 {
		return configError("component floor must be at least 2, got %d", o.minComponents)
	}
	if o.maxComponents < o.minComponents {
		return configError("component ceiling %d below floor %d", o.maxComponents, o.minComponents)
	}
	if o.kMin < 2 {
		return configError("smallest cluster count must be at least 2, got %d", o.kMin)
	}
	if o.kMax < o.kMin {
		return configError("largest cluster count %d below smallest %d", o.kMax, o.kMin)
	}
	if o.cpus < 1 {
		return configError("need at least one CPU, got %d", o.cpus)
	}
	if o.init != "farthest" && o.init != "rand" {
		return configError("unknown initialization %q", o.init)
	}
	if o.validity == nil {
		return configError("nil validity index")
	}
	if o.featurizer != nil {
		return nil //a custom featurizer makes the mode settings moot
	}
	switch o.mode {
	case "distance":
	case "coordinate":
		if len(o.anchors) < 3 {
			return configError("coordinate mode needs at least 3 anchor atoms, got %d", len(o.anchors))
		}
	case "torsion":
		if len(o.torsions) == 0 {
			return configError("torsion mode needs at least one atom quadruplet")
		}
	default:
		return configError("unknown feature mode %q", o.mode)
	}
	return nil
}

//buildFeaturizer returns the featurizer the options call for.
func (o *Options) buildFeaturizer() Featurizer {
	if o.featurizer != nil {
		return o.featurizer
	}
	switch o.mode {
	case "coordinate":
		return NewCoordFeatures(o.anchors)
	case "torsion":
		return NewTorsionFeatures(o.torsions)
	default:
		return NewDistFeatures(o.subset)
	}
}

//partitioner returns the partitioner the options call for.
func (o *Options) partitioner() Partitioner {
	if o.part != nil {
		return o.part
	}
	return NewKMeans(o.init, o.seed)
}
