package nellis

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"auction-scanner/internal/domain"
)

// SSE frame markers.
const (
	dataPrefix        = "data:"
	keepalivePing     = "ping"
	connectedSentinel = "connected"
)

// wireUpdate mirrors one stream payload; timestamps may use either date
// encoding so they go through Timestamp.
type wireUpdate struct {
	ProductID    int64     `json:"productId"`
	CurrentPrice float64   `json:"currentPrice"`
	BidCount     int       `json:"bidCount"`
	Timestamp    Timestamp `json:"timestamp"`
}

// StreamLiveUpdates opens the live-update event stream for one listing and
// returns a channel of price updates. The channel is closed when the
// context is cancelled, the stream ends naturally, or the connection fails
// terminally; the three are indistinguishable to the caller except via
// logs. The stream is not restartable: open a new one instead.
//
// Frames without the data marker and keepalive sentinels are skipped
// silently; malformed JSON payloads are logged and skipped.
func (c *Client) StreamLiveUpdates(ctx context.Context, productID int64) <-chan domain.PriceUpdate {
	updates := make(chan domain.PriceUpdate, 16)

	go func() {
		defer close(updates)

		url := fmt.Sprintf("%s/live-products?productId=%d", c.streamURL, productID)
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			c.logger.Printf("stream %d: create request: %v", productID, err)
			return
		}
		req.Header.Set("Accept", "text/event-stream")

		resp, err := c.streamClient.Do(req)
		if err != nil {
			c.logger.Printf("stream %d: connect: %v", productID, err)
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			c.logger.Printf("stream %d: unexpected status %d", productID, resp.StatusCode)
			return
		}

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			line := scanner.Text()
			if !strings.HasPrefix(line, dataPrefix) {
				continue
			}

			payload := strings.TrimSpace(line[len(dataPrefix):])
			if payload == keepalivePing || strings.HasPrefix(payload, connectedSentinel) {
				continue
			}

			var u wireUpdate
			if err := json.Unmarshal([]byte(payload), &u); err != nil {
				c.logger.Printf("stream %d: skip malformed payload: %v", productID, err)
				continue
			}

			update := domain.PriceUpdate{
				ProductID:    u.ProductID,
				CurrentPrice: u.CurrentPrice,
				BidCount:     u.BidCount,
				Timestamp:    u.Timestamp.Time,
			}

			select {
			case updates <- update:
			case <-ctx.Done():
				return
			}
		}

		if err := scanner.Err(); err != nil && ctx.Err() == nil {
			c.logger.Printf("stream %d: read: %v", productID, err)
		}
	}()

	return updates
}
