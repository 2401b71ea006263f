// README: Ranking engine; preference-weighted scoring with a total order.
package ranking

import "sort"

// Preference names a weighting scheme over ETA, price, and driver rating.
type Preference string

const (
	PreferenceFastest  Preference = "fastest"
	PreferenceCheapest Preference = "cheapest"
	PreferenceBalanced Preference = "balanced"
)

type weights struct {
	eta, price, rating float64
}

// The weight table is fixed; unknown preferences fall back to balanced.
var weightTable = map[Preference]weights{
	PreferenceFastest:  {eta: 0.6, price: 0.2, rating: 0.2},
	PreferenceCheapest: {eta: 0.2, price: 0.6, rating: 0.2},
	PreferenceBalanced: {eta: 0.4, price: 0.4, rating: 0.2},
}

// Normalize maps free-form input onto a known preference.
func Normalize(s string) Preference {
	switch Preference(s) {
	case PreferenceFastest, PreferenceCheapest, PreferenceBalanced:
		return Preference(s)
	default:
		return PreferenceBalanced
	}
}

// Metrics is what the scorer needs to know about one candidate. Rating is 0
// when the vehicle carries no quality signal.
type Metrics struct {
	ID         string
	ETAMinutes float64
	Price      float64
	Rating     float64
}

// Score applies the preference weights to one candidate. Price is scaled down
// by 100 so a typical fare and a typical ETA pull with comparable strength.
func Score(m Metrics, pref Preference) float64 {
	w := weightTable[Normalize(string(pref))]
	return -w.eta*m.ETAMinutes - w.price*(m.Price/100) + w.rating*m.Rating
}

// Rank orders candidates by descending score, breaking ties by ascending ETA
// and then by ID so the order is total and reproducible. The input slice is
// left untouched; Rank is a pure function.
func Rank[Q any](quotes []Q, pref Preference, metrics func(Q) Metrics) []Q {
	type scored struct {
		quote Q
		m     Metrics
		score float64
	}
	rows := make([]scored, len(quotes))
	for i, q := range quotes {
		m := metrics(q)
		rows[i] = scored{quote: q, m: m, score: Score(m, pref)}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].score != rows[j].score {
			return rows[i].score > rows[j].score
		}
		if rows[i].m.ETAMinutes != rows[j].m.ETAMinutes {
			return rows[i].m.ETAMinutes < rows[j].m.ETAMinutes
		}
		return rows[i].m.ID < rows[j].m.ID
	})

	out := make([]Q, len(rows))
	for i, r := range rows {
		out[i] = r.quote
	}
	return out
}
