package services

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jojuma-project/backend/internal/pricing"
	"github.com/redis/go-redis/v9"
)

func TestActiveTableStores(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer redisClient.Close()

	stores := map[string]ActiveTableStore{
		"memory": NewMemoryActiveTableStore(),
		"redis":  NewRedisActiveTableStore(redisClient),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			if _, err := store.Get(ctx); !errors.Is(err, pricing.ErrNoActiveTable) {
				t.Fatalf("expected ErrNoActiveTable, got %v", err)
			}

			table := &pricing.ComparisonTable{
				Headers: []string{"cre_id", "marca", "prices|regular"},
				Rows: []pricing.ComparisonRow{
					{CreID: "A1", Marca: "BrandX", Values: []pricing.Cell{pricing.NumberCell(20.5)}},
					{CreID: "B2", Marca: "Pemex", Values: []pricing.Cell{{}}},
				},
			}
			for _, id := range []string{"first", "second"} {
				if err := store.Put(ctx, &ActiveTable{SnapshotID: id, GeneratedAt: time.Now(), Table: table}); err != nil {
					t.Fatalf("put failed: %v", err)
				}
			}

			got, err := store.Get(ctx)
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if got.SnapshotID != "second" {
				t.Errorf("latest write should win, got %q", got.SnapshotID)
			}
			if got.Table.Rows[1].Values[0].Valid {
				t.Error("sentinel cell did not survive the round trip")
			}
			if got.Table.Rows[0].Values[0].Value != 20.5 {
				t.Errorf("unexpected value %v", got.Table.Rows[0].Values[0])
			}
		})
	}
}
