package random

import "math/rand/v2"

//Source is the uniform random capability used to seed cells and pick transformations
//Float64 must return a value in [0, 1)
type Source interface {
	Float64() float64
}

//PCG is a deterministic Source seeded with a fixed value
type PCG struct {
	r *rand.Rand
}

//NewSeeded creates a deterministic source using the provided seed
func NewSeeded(seed int64) *PCG {
	return &PCG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

func (p *PCG) Float64() float64 {
	return p.r.Float64()
}

type global struct{}

func (global) Float64() float64 {
	return rand.Float64()
}

//Global is backed by the process-wide generator, used when nothing is injected
var Global Source = global{}

//Byte draws a value in [0, 256) from the source
func Byte(src Source) byte {
	return byte(src.Float64() * 256)
}
