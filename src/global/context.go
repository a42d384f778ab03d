package global

import (
	"context"
	"sync"

	"github.com/seventv/RainbowProcessor/src/configure"
)

type Context interface {
	context.Context
	Instances() *Instances
	Config() *configure.Config
	// With returns a Context bound to ctx that shares everything else with
	// the receiver.
	With(ctx context.Context) Context
	// Track marks the start of a unit of work, the returned func its end.
	Track() (done func())
	Wait()
}

type GlobalContext struct {
	context.Context
	insts *Instances
	cfg   *configure.Config
	jobs  *sync.WaitGroup
}

func New(ctx context.Context, config *configure.Config) Context {
	return &GlobalContext{
		Context: ctx,
		insts:   &Instances{},
		cfg:     config,
		jobs:    &sync.WaitGroup{},
	}
}

func (g *GlobalContext) Instances() *Instances {
	return g.insts
}

func (g *GlobalContext) Config() *configure.Config {
	return g.cfg
}

func (g *GlobalContext) With(ctx context.Context) Context {
	return &GlobalContext{
		Context: ctx,
		insts:   g.insts,
		cfg:     g.cfg,
		jobs:    g.jobs,
	}
}

func (g *GlobalContext) Track() func() {
	g.jobs.Add(1)
	once := sync.Once{}
	return func() {
		once.Do(g.jobs.Done)
	}
}

// Wait blocks until all tracked work is done.
func (g *GlobalContext) Wait() {
	g.jobs.Wait()
}
