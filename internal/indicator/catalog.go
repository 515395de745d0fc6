package indicator

// CatalogVersion identifies the set of indicators and columns DefaultRegistry produces.
// Bump the minor version when columns are added and the major version when they change.
const CatalogVersion = "1.0.0"

// DefaultRegistry returns a registry holding the standard catalog with default periods.
func DefaultRegistry() IndicatorRegistry {
	registry := NewIndicatorRegistry()

	for _, indicator := range []Indicator{
		NewMA(),
		NewEMA(),
		NewRSI(),
		NewMACD(),
		NewBollingerBands(),
		NewATR(),
		NewOBV(),
	} {
		// names are distinct, registration cannot fail
		_ = registry.RegisterIndicator(indicator)
	}

	return registry
}
