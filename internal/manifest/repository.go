package manifest

// LoadFunc constructs a manifest handle from a file path and options.
// Repositories take it as an injection seam; nil means New.
type LoadFunc func(path string, opts Options) (*Manifest, error)

// defaultLoad builds a lazy handle without touching the file system
func defaultLoad(path string, opts Options) (*Manifest, error) {
	return New(path, opts), nil
}

// Repository indexes manifest handles by site id. The first-added handle
// is designated the default and is never overwritten afterwards. Entries
// are immutable once added; a repository is rebuilt rather than mutated.
type Repository struct {
	load  LoadFunc
	order []string
	byKey map[string]*Manifest
	def   *Manifest
}

// NewRepository creates an empty repository using the given load func,
// nil meaning the package default.
func NewRepository(load LoadFunc) *Repository {
	if load == nil {
		load = defaultLoad
	}
	return &Repository{
		load:  load,
		byKey: make(map[string]*Manifest),
	}
}

// Add constructs a handle for path and stores it under key. Load
// failures propagate unmodified and leave the repository unchanged.
func (r *Repository) Add(key, path string, opts Options) error {
	m, err := r.load(path, opts)
	if err != nil {
		return err
	}

	if _, ok := r.byKey[key]; !ok {
		r.order = append(r.order, key)
	}
	r.byKey[key] = m

	if r.def == nil {
		r.def = m
	}
	return nil
}

// Get returns the handle stored under key, or a LookupError naming it
func (r *Repository) Get(key string) (*Manifest, error) {
	m, ok := r.byKey[key]
	if !ok {
		return nil, &LookupError{Key: key}
	}
	return m, nil
}

// AllManifests returns every stored handle in insertion order
func (r *Repository) AllManifests() []*Manifest {
	out := make([]*Manifest, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, r.byKey[key])
	}
	return out
}

// Default returns the first-added handle, or nil for an empty repository
func (r *Repository) Default() *Manifest {
	return r.def
}

// Keys returns the stored keys in insertion order
func (r *Repository) Keys() []string {
	return append([]string(nil), r.order...)
}

// Len returns the number of stored handles
func (r *Repository) Len() int {
	return len(r.order)
}
