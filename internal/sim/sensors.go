package sim

import "time"

// Sensor kinds with synthetic readings.
const (
	SensorUltrasonic = "ultrasonic"
	SensorCamera     = "camera"
)

// Reading is one timestamped sensor value.
type Reading struct {
	Kind  string    `json:"kind"`
	Value float64   `json:"value"`
	At    time.Time `json:"timestamp"`
}

// ReadSensor returns a synthetic reading. Ultrasonic distances fall in
// [0.1, 4.0], camera intensity in [0, 1]; any other kind reads 0. Every read
// counts toward sensor objectives.
func (s *Simulator) ReadSensor(kind string) float64 {
	s.mu.Lock()
	var v float64
	switch kind {
	case SensorUltrasonic:
		v = 0.1 + s.rng.Float64()*3.9
	case SensorCamera:
		v = s.rng.Float64()
	default:
		s.logger.Printf("read sensor: unknown sensor %q reads 0", kind)
	}
	s.tracking.SensorReads++
	evs := s.evaluateLocked()
	s.mu.Unlock()

	s.publish(evs)
	return v
}

// SensorData reads kind and wraps the value with a timestamp.
func (s *Simulator) SensorData(kind string) Reading {
	v := s.ReadSensor(kind)
	return Reading{Kind: kind, Value: v, At: s.now()}
}
