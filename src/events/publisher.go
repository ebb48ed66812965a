package events

import (
	"context"
	"errors"

	"signaldesk/src/model"
)

// Publisher announces a stored signal to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, signal *model.Signal) error
}

// Multi publishes to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, signal *model.Signal) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, signal); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
