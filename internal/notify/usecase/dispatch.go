package usecase

import (
	"context"

	"notify-srv/internal/metrics"
	"notify-srv/internal/notify"
)

type dispatchResult struct {
	delivered int
	missed    int
	dropped   int
}

// dispatch publishes n.Event to every recipient with a registry entry.
// Recipients without one are skipped; nothing here blocks.
func (uc *implUseCase) dispatch(ctx context.Context, n notify.Notification) dispatchResult {
	var res dispatchResult
	for id := range n.Recipients {
		s, ok := uc.registry.Lookup(id)
		if !ok {
			res.missed++
			continue
		}
		delivered, dropped := s.Send(n.Event)
		res.delivered += delivered
		res.dropped += dropped
	}

	metrics.DispatchDelivered.Add(float64(res.delivered))
	metrics.DispatchMissed.Add(float64(res.missed))
	metrics.EventsDropped.Add(float64(res.dropped))
	return res
}
