package markdowncmd

// FeatureGates exposes runtime feature toggles read by markdown command
// handlers. Callers supply closures over the runtime configuration so
// handlers stay decoupled from it.
type FeatureGates struct {
	IngestEnabled func() bool
}

func (g FeatureGates) ingestEnabled() bool {
	if g.IngestEnabled == nil {
		return true
	}
	return g.IngestEnabled()
}
