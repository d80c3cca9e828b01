package notification

import (
	"context"
	"fmt"
)

// Pusher delivers an event to a user's live connections. Delivery is
// best-effort: the persisted record is the source of truth and clients
// refetch on any push.
type Pusher interface {
	Push(userID int64, event any) bool
}

// Store is the persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, n *Notification, data map[string]any) error
	GetByUserID(ctx context.Context, userID int64, limit int) ([]Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkAsRead(ctx context.Context, id, userID int64) error
	MarkAllAsRead(ctx context.Context, userID int64) error
}

type Service struct {
	repo   Store
	pusher Pusher
}

func NewService(repo Store, pusher Pusher) *Service {
	return &Service{repo: repo, pusher: pusher}
}

// Event is the payload pushed over the realtime channel.
type Event struct {
	Type         string       `json:"type"`
	Notification Notification `json:"notification"`
}

// Create persists the notification first, then pushes it to any live
// connection of the recipient.
func (s *Service) Create(ctx context.Context, userID, senderID int64, t Type, title, message string, data map[string]any) error {
	n := &Notification{
		UserID:   userID,
		SenderID: senderID,
		Type:     t,
		Title:    title,
		Message:  message,
		IsRead:   false,
	}
	if err := s.repo.Create(ctx, n, data); err != nil {
		return err
	}

	if s.pusher != nil {
		s.pusher.Push(userID, Event{Type: "new_notification", Notification: *n})
	}
	return nil
}

func (s *Service) GetUserNotifications(ctx context.Context, userID int64, limit int) ([]Notification, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	list, err := s.repo.GetByUserID(ctx, userID, limit)
	if err != nil {
		return nil, 0, err
	}

	unread, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		unread = 0
	}

	return list, unread, nil
}

func (s *Service) MarkAsRead(ctx context.Context, notificationID, userID int64) error {
	return s.repo.MarkAsRead(ctx, notificationID, userID)
}

func (s *Service) MarkAllAsRead(ctx context.Context, userID int64) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}

func rdvData(appointmentID, carID, workshopID int64) map[string]any {
	return map[string]any{
		"id_rdv":      appointmentID,
		"id_car":      carID,
		"id_workshop": workshopID,
	}
}

func (s *Service) NotifyRdvCreated(ctx context.Context, workshopUserID, ownerID, rdvID, carID, workshopID int64, date, slot string) error {
	return s.Create(ctx, workshopUserID, ownerID, TypeRdvCreated,
		"Nouvelle demande de rendez-vous",
		fmt.Sprintf("Un vendeur a demandé un rendez-vous le %s à %s", date, slot),
		rdvData(rdvID, carID, workshopID),
	)
}

func (s *Service) NotifyRdvAccepted(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64, date, slot string) error {
	return s.Create(ctx, ownerID, workshopUserID, TypeRdvAccepted,
		"Rendez-vous accepté",
		fmt.Sprintf("L'atelier a accepté votre rendez-vous du %s à %s", date, slot),
		rdvData(rdvID, carID, workshopID),
	)
}

func (s *Service) NotifyRdvRefused(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error {
	return s.Create(ctx, ownerID, workshopUserID, TypeRdvRefused,
		"Rendez-vous refusé",
		"L'atelier a refusé votre demande de rendez-vous",
		rdvData(rdvID, carID, workshopID),
	)
}

func (s *Service) NotifyRdvReopened(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error {
	return s.Create(ctx, ownerID, workshopUserID, TypeRdvReopened,
		"Rendez-vous remis en attente",
		"L'atelier a remis votre demande de rendez-vous en attente",
		rdvData(rdvID, carID, workshopID),
	)
}

func (s *Service) NotifyRdvStarted(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error {
	return s.Create(ctx, ownerID, workshopUserID, TypeRdvStarted,
		"Inspection en cours",
		"L'inspection de votre véhicule a commencé",
		rdvData(rdvID, carID, workshopID),
	)
}

func (s *Service) NotifyRdvFinished(ctx context.Context, ownerID, workshopUserID, rdvID, carID, workshopID int64) error {
	return s.Create(ctx, ownerID, workshopUserID, TypeRdvFinished,
		"Inspection terminée",
		"Le rapport d'inspection de votre véhicule est disponible",
		rdvData(rdvID, carID, workshopID),
	)
}

// NotifyRdvCancelled tells one party that a stale appointment was cancelled.
func (s *Service) NotifyRdvCancelled(ctx context.Context, recipientID, rdvID, carID, workshopID int64, date, slot string) error {
	return s.Create(ctx, recipientID, 0, TypeRdvCancelled,
		"Rendez-vous annulé",
		fmt.Sprintf("Le rendez-vous du %s à %s a été annulé car sa date est passée", date, slot),
		rdvData(rdvID, carID, workshopID),
	)
}

func (s *Service) NotifyAdminWarning(ctx context.Context, recipientID, adminID int64, message string) error {
	return s.Create(ctx, recipientID, adminID, TypeAdminWarning,
		"Avertissement", message, nil)
}
