package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
	"github.com/digital-apple/bounty-quests-ng/internal/plugin"
	redisclient "github.com/digital-apple/bounty-quests-ng/internal/redis"
	"github.com/digital-apple/bounty-quests-ng/internal/repositories/cosave"
	"github.com/digital-apple/bounty-quests-ng/internal/simulate"
)

// session is a plugin running on a world seeded from the data directory
type session struct {
	seeded  *simulate.Seeded
	plugin  *plugin.Plugin
	summary *plugin.LoadSummary
}

func openSession(realtime bool) (*session, error) {
	seeded, err := simulate.Seed(settings.DataDir, settings.PluginForms())
	if err != nil {
		return nil, err
	}

	var c clock.Clock = clock.NewFake(time.Now())
	if realtime {
		c = clock.New()
	}

	p, err := plugin.New(&plugin.Config{
		Settings: settings,
		Host:     seeded.World,
		Bridge:   seeded.World,
		Clock:    c,
	})
	if err != nil {
		return nil, err
	}

	summary, err := p.OnDataLoaded()
	if err != nil {
		_ = p.Close() // nolint:errcheck // the load error is the one to report
		return nil, err
	}
	return &session{seeded: seeded, plugin: p, summary: summary}, nil
}

func (s *session) close() {
	if err := s.plugin.Close(); err != nil {
		slog.Warn("Failed to close plugin", "error", err)
	}
}

// openSlots returns the save-slot store: redis when configured, memory
// otherwise
func openSlots(ctx context.Context) (cosave.Repository, func(), error) {
	if settings.RedisAddr == "" {
		slog.Debug("Keeping save slots in memory")
		return cosave.NewInMemory(clock.New()), func() {}, nil
	}

	client, err := redisclient.NewClient(settings.RedisAddr, &redisclient.Options{
		DialTimeout: 5 * time.Second,
		MaxRetries:  2,
	})
	if err != nil {
		return nil, nil, errors.WrapWithCode(err, errors.CodeInvalidArgument, "failed to create redis client")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
		return nil, nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "redis at %s is unreachable", settings.RedisAddr)
	}

	repo, err := cosave.NewRedisRepository(&cosave.Config{Client: client, Clock: clock.New()})
	if err != nil {
		_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
		return nil, nil, err
	}
	cleanup := func() {
		_ = client.Close() // nolint:errcheck // safe to ignore in cleanup
	}
	return repo, cleanup, nil
}
