package payment

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Watch polls Verify for the reference until the gateway settles it or the
// context ends. Network hiccups are logged and polling continues; the
// hosted checkout is happening in a browser meanwhile and there is nothing
// better to do than keep asking. Blocks until done, so callers decide
// whether to run it in a goroutine.
func (c *Client) Watch(ctx context.Context, reference string, interval time.Duration) (*Verification, error) {
	if interval <= 0 {
		interval = 3 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	c.logger.WithFields(logrus.Fields{"reference": reference}).Info("Waiting for payment confirmation")

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
			v, err := c.Verify(ctx, reference)
			if err != nil {
				c.logger.WithFields(logrus.Fields{
					"reference": reference,
					"error":     err,
				}).Warn("Payment verification attempt failed")
				continue
			}
			if v.Settled() {
				c.logger.WithFields(logrus.Fields{
					"reference": reference,
					"status":    v.Status,
				}).Info("Payment settled")
				return v, nil
			}
		}
	}
}
