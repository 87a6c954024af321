// Package weather produces synthetic weather reports. Values are generated
// locally rather than fetched from a live API so tool behavior stays
// deterministic enough for demos and tests.
package weather

import (
	"math"
	"math/rand/v2"
	"sync"
	"time"
)

// Report is the payload returned for a weather lookup.
type Report struct {
	City               string  `json:"city" jsonschema_description:"City the report is for"`
	TemperatureCelsius float64 `json:"temperature_celsius" jsonschema_description:"Temperature in Celsius"`
	Humidity           int     `json:"humidity" jsonschema_description:"Relative humidity percentage"`
	Condition          string  `json:"condition" jsonschema_description:"Sky condition"`
}

var conditions = []string{"Sunny", "Cloudy", "Rainy"}

// Service generates reports from an injectable random source. The source is
// mutex-guarded because the runtime middleware may admit concurrent calls.
type Service struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewService seeds the generator from the clock.
func NewService() *Service {
	now := uint64(time.Now().UnixNano())
	return NewServiceWithSource(rand.NewPCG(now, now>>1))
}

// NewServiceWithSource constructs a Service over a caller-supplied source,
// used by tests for reproducible output.
func NewServiceWithSource(src rand.Source) *Service {
	return &Service{rng: rand.New(src)}
}

// Current returns a synthetic report for city: temperature uniform in
// [20, 35) rounded to two decimals, humidity in [40, 80], and one of three
// conditions.
func (s *Service) Current(city string) Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	temp := 20 + s.rng.Float64()*15
	return Report{
		City:               city,
		TemperatureCelsius: math.Round(temp*100) / 100,
		Humidity:           40 + s.rng.IntN(41),
		Condition:          conditions[s.rng.IntN(len(conditions))],
	}
}
