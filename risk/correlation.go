package risk

// CorrelationTable maps an instrument to the instruments it is considered
// correlated with. Lookups are one-directional; build the table symmetric.
type CorrelationTable map[string][]string

// DefaultCorrelations pairs the majors that historically move together.
func DefaultCorrelations() CorrelationTable {
	return CorrelationTable{
		"EURUSD": {"USDCHF"},
		"USDCHF": {"EURUSD"},
		"GBPUSD": {"GBPJPY"},
		"GBPJPY": {"GBPUSD"},
	}
}

// NewCorrelationTable builds a symmetric table from explicit pairs.
func NewCorrelationTable(pairs [][2]string) CorrelationTable {
	t := make(CorrelationTable)
	for _, p := range pairs {
		t[p[0]] = append(t[p[0]], p[1])
		t[p[1]] = append(t[p[1]], p[0])
	}
	return t
}

// Correlated reports whether a and b are declared correlated.
func (t CorrelationTable) Correlated(a, b string) bool {
	for _, sym := range t[a] {
		if sym == b {
			return true
		}
	}
	return false
}
