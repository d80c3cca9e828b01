package appointment

import (
	"context"
	"log"
	"time"

	"carsure/internal/domain"
)

// SweepExpired force-cancels past-dated appointments stuck in en_attente or
// accepted. ownerID restricts the scan to one seller (the dashboard entry
// path); 0 sweeps everyone. The status write is a compare-and-swap, so a
// concurrent legitimate transition wins and an appointment already swept by
// another run is skipped — running the sweep twice never double-notifies.
func (s *Service) SweepExpired(ctx context.Context, ownerID int64) ([]domain.Appointment, error) {
	today := time.Now().Format(dateLayout)

	expired, err := s.rdvs.ListExpired(ctx, today, ownerID)
	if err != nil {
		return nil, err
	}

	cancelled := make([]domain.Appointment, 0, len(expired))
	workshopUsers := make(map[int64]int64) // workshop id -> account user id

	for _, a := range expired {
		swept, err := s.rdvs.UpdateStatusIf(ctx, a.ID, a.Status, domain.StatusCancelled)
		if err != nil {
			return cancelled, err
		}
		if !swept {
			continue
		}

		now := time.Now()
		a.Status = domain.StatusCancelled
		a.CancelledAt = &now
		cancelled = append(cancelled, a)

		if s.notifs == nil {
			continue
		}

		if err := s.notifs.NotifyRdvCancelled(ctx, a.OwnerID, a.ID, a.CarID, a.WorkshopID, a.Date, a.Time); err != nil {
			log.Printf("rdv %d: owner cancellation notification failed: %v", a.ID, err)
		}

		workshopUserID, ok := workshopUsers[a.WorkshopID]
		if !ok {
			w, err := s.workshops.GetByID(ctx, a.WorkshopID)
			if err != nil {
				continue
			}
			workshopUserID = w.UserID
			workshopUsers[a.WorkshopID] = workshopUserID
		}
		if err := s.notifs.NotifyRdvCancelled(ctx, workshopUserID, a.ID, a.CarID, a.WorkshopID, a.Date, a.Time); err != nil {
			log.Printf("rdv %d: workshop cancellation notification failed: %v", a.ID, err)
		}
	}

	return cancelled, nil
}

// ScheduleSweeps runs the global sweep on a ticker until the returned channel
// is closed or the context ends.
func (s *Service) ScheduleSweeps(ctx context.Context, interval time.Duration) chan struct{} {
	stopCh := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				cancelled, err := s.SweepExpired(ctx, 0)
				if err != nil {
					log.Printf("expiry sweep error: %v", err)
					continue
				}
				if len(cancelled) > 0 {
					log.Printf("expiry sweep cancelled %d stale appointments", len(cancelled))
				}
			case <-stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Printf("expiry sweeper started with interval %v", interval)
	return stopCh
}
