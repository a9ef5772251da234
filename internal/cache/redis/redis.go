package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/cache"
	"github.com/halilbalik/WebTemelliGoruntuIsleme/internal/tracing"
	"github.com/mediocregopher/radix/v4"
	"go.opentelemetry.io/otel/attribute"
)

// Config contains the redis connection and storage settings
type Config struct {
	Address  string
	PoolSize int
	// TTL is how long results are kept, they never expire if it's less than a second
	TTL time.Duration
	// Prefix is prepended to every key, so that several services can share a database
	Prefix string
}

// Provider implements a redis cache
type Provider struct {
	client radix.Client
	tracer *tracing.Tracer
	ttl    string
	prefix string
}

// New returns a new Provider instance
func New(ctx context.Context, tracer *tracing.Tracer, cfg Config) (*Provider, error) {
	poolCfg := radix.PoolConfig{
		Size: cfg.PoolSize,
	}

	client, err := poolCfg.New(ctx, "tcp", cfg.Address)
	if err != nil {
		return nil, err
	}

	p := &Provider{
		client: client,
		tracer: tracer,
		prefix: cfg.Prefix,
	}

	if seconds := int64(cfg.TTL / time.Second); seconds > 0 {
		p.ttl = strconv.FormatInt(seconds, 10)
	}

	return p, nil
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, span := p.tracer.Start(ctx, "redis.Get")
	defer span.End()

	mn := radix.Maybe{Rcv: &data}
	err = p.client.Do(ctx, radix.Cmd(&mn, "GET", p.prefix+key))
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Bool("cache.hit", !mn.Null))
	if mn.Null {
		return nil, cache.ErrNotFound
	}

	return
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	ctx, span := p.tracer.Start(ctx, "redis.Set")
	defer span.End()

	span.SetAttributes(attribute.Int("cache.bytes", len(data)))

	args := []string{p.prefix + key, string(data)}
	if p.ttl != "" {
		args = append(args, "EX", p.ttl)
	}

	if err = p.client.Do(ctx, radix.Cmd(nil, "SET", args...)); err != nil {
		tracing.RecordError(span, err)
	}

	return err
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {
	p.client.Close()
}
