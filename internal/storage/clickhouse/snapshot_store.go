package clickhouse

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"auction-scanner/internal/domain"
	"auction-scanner/internal/storage"
)

// PriceSnapshotStore implements storage.PriceSnapshotStore using ClickHouse.
// Snapshots are append-only observations; MergeTree fits that shape.
type PriceSnapshotStore struct {
	conn *Conn
}

// NewPriceSnapshotStore creates a new PriceSnapshotStore.
func NewPriceSnapshotStore(conn *Conn) *PriceSnapshotStore {
	return &PriceSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PriceSnapshotStore = (*PriceSnapshotStore)(nil)

// InsertBulk appends snapshot points.
func (s *PriceSnapshotStore) InsertBulk(ctx context.Context, points []*domain.PriceSnapshot) error {
	if len(points) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_snapshots (listing_id, price, bid_count, recorded_at)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(p.ListingID, p.Price, uint32(p.BidCount), p.RecordedAt)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByListing retrieves snapshots for a listing within [start, end]
// (inclusive), ordered by recorded_at ASC.
func (s *PriceSnapshotStore) GetByListing(ctx context.Context, listingID int64, start, end time.Time) ([]*domain.PriceSnapshot, error) {
	query := `
		SELECT listing_id, price, bid_count, recorded_at
		FROM price_snapshots
		WHERE listing_id = ? AND recorded_at >= ? AND recorded_at <= ?
		ORDER BY recorded_at ASC
	`

	rows, err := s.conn.Query(ctx, query, listingID, start, end)
	if err != nil {
		return nil, fmt.Errorf("query snapshots by listing: %w", err)
	}
	defer rows.Close()

	return scanSnapshots(rows)
}

// scanSnapshots scans rows into a slice of PriceSnapshot.
func scanSnapshots(rows driver.Rows) ([]*domain.PriceSnapshot, error) {
	var points []*domain.PriceSnapshot

	for rows.Next() {
		var p domain.PriceSnapshot
		var bidCount uint32

		if err := rows.Scan(&p.ListingID, &p.Price, &bidCount, &p.RecordedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot row: %w", err)
		}

		p.BidCount = int(bidCount)
		points = append(points, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshot rows: %w", err)
	}

	return points, nil
}
