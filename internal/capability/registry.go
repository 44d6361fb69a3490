package capability

// Registry holds the capabilities that were successfully configured at
// startup. Lookup by model name is typed; an unregistered name is not an
// error, it means the pipeline should use the deterministic fallback
// output instead.
type Registry struct {
	transcribers map[string]Transcriber
	summarizers  map[string]Summarizer
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		transcribers: make(map[string]Transcriber),
		summarizers:  make(map[string]Summarizer),
	}
}

// RegisterTranscriber makes t selectable under its own name.
func (r *Registry) RegisterTranscriber(t Transcriber) {
	r.transcribers[t.Name()] = t
}

// RegisterSummarizer makes s selectable under its own name.
func (r *Registry) RegisterSummarizer(s Summarizer) {
	r.summarizers[s.Name()] = s
}

// Transcriber looks up a transcription capability by model name.
func (r *Registry) Transcriber(name string) (Transcriber, bool) {
	t, ok := r.transcribers[name]
	return t, ok
}

// Summarizer looks up a summarization capability by model name.
func (r *Registry) Summarizer(name string) (Summarizer, bool) {
	s, ok := r.summarizers[name]
	return s, ok
}

// Loaded returns how many capabilities are registered, for the health
// endpoint.
func (r *Registry) Loaded() int {
	return len(r.transcribers) + len(r.summarizers)
}
