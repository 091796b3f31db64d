package features

// Option applies a configuration option to the Vectorizer.
type Option func(*Vectorizer)

// WithReferenceYear sets the year that song age is measured against.
func WithReferenceYear(year int) Option {
	return func(v *Vectorizer) {
		if year > 0 {
			v.referenceYear = year
		}
	}
}
