package archive

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jojuma-project/backend/internal/datasource"
	"github.com/jojuma-project/backend/internal/models"
)

func sampleDataset() *datasource.Dataset {
	dif := -0.35
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	return &datasource.Dataset{
		Sites: []models.SiteRow{{PlaceID: 1, CreID: "PL/640/EXP/ES/2015", Marca: "TOTAL GAS", Municipio: "Tijuana", X: -117, Y: 32.5}},
		Work: []models.PriceRow{
			{PlaceID: 10, CreID: "A1", Marca: "Pemex", X: -117.01, Y: 32.51, Prices: 22.49, Product: models.ProductRegular, CompiteA: 1, Dif: &dif},
			{PlaceID: 10, CreID: "A1", Marca: "Pemex", X: -117.01, Y: 32.51, Prices: 24.1, Product: models.ProductPremium, CompiteA: 1},
		},
		History: []models.HistoryRow{
			{PlaceID: 10, CreID: "A1", Marca: "Pemex", Date: day, Prices: 22.3, Product: models.ProductRegular, CompiteA: 1},
		},
		CurrentCosts: []models.CostRow{{Terminal: "AZCAPOTZALCO", Producto: models.ProductRegular, PrecioTar: 22.5, Date: day}},
		PriorCosts:   []models.CostRow{{Terminal: "AZCAPOTZALCO", Producto: models.ProductRegular, PrecioTar: 22, Date: day.AddDate(0, 0, -1)}},
	}
}

func TestArchiveRoundTrip(t *testing.T) {
	ctx := context.Background()
	a, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	loadedAt := time.Date(2024, time.March, 4, 6, 30, 0, 0, time.UTC)
	if err := a.Write(ctx, Meta{SnapshotID: "snap-1", LoadedAt: loadedAt}, sampleDataset()); err != nil {
		t.Fatalf("write: %v", err)
	}

	meta, err := a.Meta(ctx)
	if err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.SnapshotID != "snap-1" || !meta.LoadedAt.Equal(loadedAt) {
		t.Errorf("unexpected meta %+v", meta)
	}

	ds, err := datasource.Load(ctx, a)
	if err != nil {
		t.Fatalf("load from archive: %v", err)
	}

	if len(ds.Work) != 2 {
		t.Fatalf("expected 2 work rows, got %d", len(ds.Work))
	}
	if ds.Work[0].Dif == nil || *ds.Work[0].Dif != -0.35 {
		t.Errorf("dif not preserved: %+v", ds.Work[0])
	}
	if ds.Work[1].Dif != nil {
		t.Errorf("null dif must stay nil, got %v", *ds.Work[1].Dif)
	}
	if ds.Sites[0].Municipio != "Tijuana" {
		t.Errorf("unexpected site %+v", ds.Sites[0])
	}
	if !ds.History[0].Date.Equal(sampleDataset().History[0].Date) {
		t.Errorf("history date changed: %v", ds.History[0].Date)
	}
	// Stored normalized; reading must not rescale
	if ds.CurrentCosts[0].PrecioTar != 22.5 || ds.PriorCosts[0].PrecioTar != 22 {
		t.Errorf("tariffs changed: %v / %v", ds.CurrentCosts[0].PrecioTar, ds.PriorCosts[0].PrecioTar)
	}
}

func TestArchiveWriteReplaces(t *testing.T) {
	ctx := context.Background()
	a, err := Open(filepath.Join(t.TempDir(), "snapshot.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer a.Close()

	if err := a.Write(ctx, Meta{SnapshotID: "first", LoadedAt: time.Now()}, sampleDataset()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := a.Write(ctx, Meta{SnapshotID: "second", LoadedAt: time.Now()}, &datasource.Dataset{}); err != nil {
		t.Fatalf("rewrite: %v", err)
	}

	meta, err := a.Meta(ctx)
	if err != nil || meta.SnapshotID != "second" {
		t.Fatalf("unexpected meta %+v, %v", meta, err)
	}
	work, err := a.WorkTable(ctx)
	if err != nil {
		t.Fatalf("work: %v", err)
	}
	if len(work) != 0 {
		t.Errorf("expected empty work table, got %d rows", len(work))
	}
}

func TestSync(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src, err := Open(filepath.Join(dir, "source.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer src.Close()
	if err := src.Write(ctx, Meta{SnapshotID: "origin", LoadedAt: time.Now()}, sampleDataset()); err != nil {
		t.Fatalf("write: %v", err)
	}

	target := filepath.Join(dir, "copy.db")
	meta, ds, err := Sync(ctx, src, target)
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if meta.SnapshotID == "" || meta.SnapshotID == "origin" {
		t.Errorf("sync should assign a new snapshot id, got %q", meta.SnapshotID)
	}
	if got := ds.Counts()["work"]; got != 2 {
		t.Errorf("work count = %d, want 2", got)
	}

	copied, err := Open(target)
	if err != nil {
		t.Fatalf("open copy: %v", err)
	}
	defer copied.Close()
	stored, err := copied.Meta(ctx)
	if err != nil || stored.SnapshotID != meta.SnapshotID {
		t.Errorf("unexpected stored meta %+v, %v", stored, err)
	}
}
