package simulator

import (
	"math"
	"math/rand"
	"time"
)

// Pattern shapes the baseline load the fleet reports over time.
type Pattern interface {
	Apply(base float64) float64
	Name() string
}

var (
	PatternSteady      Pattern = &SteadyPattern{}
	PatternDaily       Pattern = &DailyPattern{}
	PatternSpiky       Pattern = &SpikyPattern{}
	PatternGradualRise Pattern = &GradualRisePattern{startTime: time.Now()}
)

func ParsePattern(name string) Pattern {
	switch name {
	case "daily":
		return PatternDaily
	case "spiky":
		return PatternSpiky
	case "gradual_rise":
		return &GradualRisePattern{startTime: time.Now()}
	default:
		return PatternSteady
	}
}

// SteadyPattern - constant load
type SteadyPattern struct{}

func (p *SteadyPattern) Apply(base float64) float64 {
	return base
}

func (p *SteadyPattern) Name() string {
	return "steady"
}

// DailyPattern - simulates daily traffic cycle (high during business hours)
type DailyPattern struct{}

func (p *DailyPattern) Apply(base float64) float64 {
	hour := time.Now().Hour()

	var modifier float64
	switch {
	case hour >= 9 && hour <= 11:
		modifier = 1.4
	case hour >= 14 && hour <= 16:
		modifier = 1.3
	case hour >= 17 && hour <= 20:
		modifier = 1.1
	case hour >= 0 && hour <= 6:
		modifier = 0.6
	default:
		modifier = 1.0
	}

	return clamp(base * modifier)
}

func (p *DailyPattern) Name() string {
	return "daily"
}

// SpikyPattern - random short bursts on top of the baseline
type SpikyPattern struct{}

func (p *SpikyPattern) Apply(base float64) float64 {
	if rand.Float64() < 0.1 {
		return clamp(base * (1.5 + rand.Float64()*0.5))
	}
	return base
}

func (p *SpikyPattern) Name() string {
	return "spiky"
}

// GradualRisePattern - load climbs slowly from the start of the run
type GradualRisePattern struct {
	startTime time.Time
}

func (p *GradualRisePattern) Apply(base float64) float64 {
	elapsed := time.Since(p.startTime).Minutes()
	rise := math.Min(elapsed*0.5, 40.0)
	return clamp(base + rise)
}

func (p *GradualRisePattern) Name() string {
	return "gradual_rise"
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
