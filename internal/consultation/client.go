package consultation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/UMDhodi/Obsidian/internal/domain"
	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	// Timeout bounds a single provider call
	Timeout time.Duration
	// MinDisplayDuration is the earliest a result may be revealed after Consult starts
	MinDisplayDuration time.Duration
	// BreakerMaxFailures consecutive failures open the circuit
	BreakerMaxFailures uint32
	// BreakerOpenTimeout is how long the circuit stays open before probing again
	BreakerOpenTimeout time.Duration
	CacheWriteTimeout  time.Duration
}

func DefaultOptions() Options {
	return Options{
		Timeout:            15 * time.Second,
		MinDisplayDuration: 2 * time.Second,
		BreakerMaxFailures: 5,
		BreakerOpenTimeout: 30 * time.Second,
		CacheWriteTimeout:  time.Second,
	}
}

type Client struct {
	provider Provider
	cache    Cache
	breaker  *gobreaker.CircuitBreaker[domain.ConsultationResponse]
	sfg      singleflight.Group // collapses identical in-flight requests
	opts     Options
	logger   *zap.Logger
}

func NewClient(provider Provider, cache Cache, opts Options, logger *zap.Logger) *Client {
	if provider == nil {
		provider = UnavailableProvider{}
	}
	if cache == nil {
		cache = NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaults := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}
	if opts.CacheWriteTimeout <= 0 {
		opts.CacheWriteTimeout = defaults.CacheWriteTimeout
	}
	if opts.BreakerMaxFailures == 0 {
		opts.BreakerMaxFailures = defaults.BreakerMaxFailures
	}
	maxFailures := opts.BreakerMaxFailures
	breaker := gobreaker.NewCircuitBreaker[domain.ConsultationResponse](gobreaker.Settings{
		Name:    "consultation-provider",
		Timeout: opts.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
	return &Client{
		provider: provider,
		cache:    cache,
		breaker:  breaker,
		opts:     opts,
		logger:   logger,
	}
}

// Consult always yields a complete response: the provider's answer, a cached one, or the
// built-in fallback for the profile. The result is held back until MinDisplayDuration has
// passed since the call began. The provider request is not cancelled when ctx is; it runs
// to completion (bounded by Timeout) so a cacheable answer is not wasted.
func (c *Client) Consult(ctx context.Context, req domain.ConsultationRequest) domain.ConsultationResponse {
	minDisplay := time.NewTimer(c.opts.MinDisplayDuration)
	defer minDisplay.Stop()

	result := make(chan domain.ConsultationResponse, 1)
	go func() {
		result <- c.resolve(context.WithoutCancel(ctx), req)
	}()

	var resp domain.ConsultationResponse
	select {
	case resp = <-result:
	case <-ctx.Done():
		return Fallback(req.SkinProfile)
	}

	select {
	case <-minDisplay.C:
	case <-ctx.Done():
	}
	return resp
}

func (c *Client) resolve(ctx context.Context, req domain.ConsultationRequest) domain.ConsultationResponse {
	key := CacheKey(req)

	cached, err := c.cache.Get(ctx, key)
	if err == nil {
		return cached.Clone()
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.logger.Warn("consultation cache get failed", zap.Error(err))
	}

	v, err, _ := c.sfg.Do(key, func() (interface{}, error) {
		resp, err := c.breaker.Execute(func() (domain.ConsultationResponse, error) {
			return c.fetch(ctx, req)
		})
		if err != nil {
			return nil, err
		}
		c.store(ctx, key, resp)
		return resp, nil
	})
	if err != nil {
		c.logger.Warn("consultation failed, serving fallback",
			zap.String("skin_profile", string(req.SkinProfile)),
			zap.Error(err))
		return Fallback(req.SkinProfile)
	}
	return v.(domain.ConsultationResponse).Clone()
}

func (c *Client) fetch(ctx context.Context, req domain.ConsultationRequest) (domain.ConsultationResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	type reply struct {
		text string
		err  error
	}
	replies := make(chan reply, 1)
	prompt := BuildPrompt(req)
	start := time.Now()
	go func() {
		text, err := c.provider.Generate(ctx, prompt)
		replies <- reply{text, err}
	}()

	var r reply
	select {
	case r = <-replies:
	case <-ctx.Done():
		return domain.ConsultationResponse{}, fmt.Errorf("provider call: %w", ctx.Err())
	}
	if r.err != nil {
		return domain.ConsultationResponse{}, fmt.Errorf("provider call: %w", r.err)
	}

	resp, err := ParseResponse(r.text)
	if err != nil {
		return domain.ConsultationResponse{}, err
	}
	c.logger.Info("consultation generated",
		zap.String("skin_profile", string(req.SkinProfile)),
		zap.Duration("latency", time.Since(start)))
	return resp, nil
}

func (c *Client) store(ctx context.Context, key string, resp domain.ConsultationResponse) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.CacheWriteTimeout)
	defer cancel()
	if err := c.cache.Set(ctx, key, &resp); err != nil {
		c.logger.Warn("consultation cache set failed", zap.Error(err))
	}
}
