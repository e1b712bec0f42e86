package notifications

import "context"

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, orgID, userID string, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, orgID, userID, limit, offset)
}

func (s *Service) CountUnread(ctx context.Context, orgID, userID string) (int, error) {
	return s.store.CountUnread(ctx, orgID, userID)
}

func (s *Service) MarkRead(ctx context.Context, orgID, userID, notificationID string) error {
	return s.store.MarkRead(ctx, orgID, userID, notificationID)
}
