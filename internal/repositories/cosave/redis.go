package cosave

import (
	"context"
	"sort"
	"strconv"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/digital-apple/bounty-quests-ng/internal/errors"
	"github.com/digital-apple/bounty-quests-ng/internal/pkg/clock"
	redisclient "github.com/digital-apple/bounty-quests-ng/internal/redis"
)

const (
	// Key pattern: cosave:{slot}
	slotKeyPrefix = "cosave:"
	slotIndexKey  = "cosave_slots"

	fieldBlob    = "blob"
	fieldSavedAt = "saved_at"

	errSlotNameEmpty = "slot name cannot be empty"
)

// Config holds the configuration for the Redis repository
type Config struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("Client")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// NewRedisRepository creates a Redis-backed slot store
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  cfg.Clock,
	}, nil
}

func slotKey(name string) string {
	return slotKeyPrefix + name
}

// Put stores a slot
func (r *redisRepository) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errSlotNameEmpty)
	}

	savedAt := r.clock.Now().UTC()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, slotKey(input.Name),
			fieldBlob, input.Blob,
			fieldSavedAt, savedAt.UnixNano(),
		)
		pipe.SAdd(ctx, slotIndexKey, input.Name)
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to store slot %s", input.Name)
	}

	return &PutOutput{Slot: &Slot{
		Name:    input.Name,
		SavedAt: savedAt,
		Size:    len(input.Blob),
		Blob:    input.Blob,
	}}, nil
}

// Get retrieves a slot
func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errSlotNameEmpty)
	}

	fields, err := r.client.HGetAll(ctx, slotKey(input.Name)).Result()
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to read slot %s", input.Name)
	}
	if len(fields) == 0 {
		return nil, errors.NotFoundf("slot %s not found", input.Name)
	}

	slot, err := decodeSlot(input.Name, fields)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Slot: slot}, nil
}

// List returns every slot without its blob
func (r *redisRepository) List(ctx context.Context, _ *ListInput) (*ListOutput, error) {
	names, err := r.client.SMembers(ctx, slotIndexKey).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list slots")
	}
	sort.Strings(names)

	slots := make([]*Slot, 0, len(names))
	for _, name := range names {
		fields, err := r.client.HGetAll(ctx, slotKey(name)).Result()
		if err != nil {
			return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to read slot %s", name)
		}
		if len(fields) == 0 {
			continue
		}
		slot, err := decodeSlot(name, fields)
		if err != nil {
			return nil, err
		}
		slot.Blob = nil
		slots = append(slots, slot)
	}

	return &ListOutput{Slots: slots}, nil
}

// Delete removes a slot
func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if input.Name == "" {
		return nil, errors.InvalidArgument(errSlotNameEmpty)
	}

	var deleted *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, slotKey(input.Name))
		pipe.SRem(ctx, slotIndexKey, input.Name)
		return nil
	})
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeUnavailable, "failed to delete slot %s", input.Name)
	}
	if deleted.Val() == 0 {
		return nil, errors.NotFoundf("slot %s not found", input.Name)
	}

	return &DeleteOutput{}, nil
}

func decodeSlot(name string, fields map[string]string) (*Slot, error) {
	nanos, err := strconv.ParseInt(fields[fieldSavedAt], 10, 64)
	if err != nil {
		return nil, errors.WrapWithCodef(err, errors.CodeDataLoss, "slot %s has a corrupt timestamp", name)
	}
	blob := []byte(fields[fieldBlob])
	return &Slot{
		Name:    name,
		SavedAt: time.Unix(0, nanos).UTC(),
		Size:    len(blob),
		Blob:    blob,
	}, nil
}
