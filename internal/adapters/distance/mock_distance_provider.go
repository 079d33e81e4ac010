package distance

import (
	"context"
	"fmt"

	"delivery-route-optimizer/internal/domain"
)

type MockPair struct {
	From, To domain.Coordinates
	Meters   float64
}

// MockDistanceProvider serves fixed point-to-point distances from memory.
// Pairs that were never registered fail, which makes missing-edge behavior
// easy to exercise in tests.
type MockDistanceProvider struct {
	m     map[string]float64
	Calls int
}

func NewMockDistanceProvider(pairs []MockPair) *MockDistanceProvider {
	m := make(map[string]float64, len(pairs))
	for _, p := range pairs {
		m[p.From.Key()+"|"+p.To.Key()] = p.Meters
	}
	return &MockDistanceProvider{m: m}
}

func (p *MockDistanceProvider) Distance(ctx context.Context, origin, destination domain.Coordinates) (float64, error) {
	p.Calls++
	r, ok := p.m[origin.Key()+"|"+destination.Key()]
	if !ok {
		return 0, fmt.Errorf("missing pair %q -> %q", origin.Key(), destination.Key())
	}

	return r, nil
}
