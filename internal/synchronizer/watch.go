package synchronizer

import "context"

// Watch drives the synchronizer from authentication notifications until ctx
// ends or events is closed. Login failures are logged; the synchronizer is
// still AccountActive and a later Reconcile picks the leftovers up.
func (s *Synchronizer[E]) Watch(ctx context.Context, events <-chan AuthEvent) error {
	s.Start(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			s.handle(ctx, ev)
		}
	}
}

func (s *Synchronizer[E]) handle(ctx context.Context, ev AuthEvent) {
	switch ev.Kind {
	case LoginEvent:
		if err := s.Login(ctx, ev.UserID); err != nil {
			s.logg.WarnErr(s.logg.WithUserID(ctx, ev.UserID), "sync.watch_login_failed", err)
		}
	case LogoutEvent:
		s.Logout(ctx)
	default:
		s.logg.Warn(ctx, "sync.watch_unknown_event")
	}
}
