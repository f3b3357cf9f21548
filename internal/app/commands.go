package app

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/burnbox/burnbox/internal/export"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/notify"
	"github.com/burnbox/burnbox/internal/store"
)

// tickCountdown schedules the next 1 Hz countdown tick.
func tickCountdown() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return countdownTickMsg(t)
	})
}

// waitForToast returns a command that waits for the next toast from
// the presenter. Re-issued after each toast to keep listening.
func (m Model) waitForToast() tea.Cmd {
	return func() tea.Msg {
		toast, ok := <-m.presenter.Toasts()
		if !ok {
			return nil
		}
		return toastShownMsg{toast: toast}
	}
}

// persistNotification records a toast in the notification history and
// reports the refreshed unread count for the header badge. Best-effort;
// a write failure never disturbs the UI.
func (m Model) persistNotification(toast notify.Toast) tea.Cmd {
	s := m.store
	log := m.log
	return func() tea.Msg {
		ctx := context.Background()
		err := s.CreateNotification(ctx, model.Notification{
			Key:     toast.Key,
			Message: toast.Message,
		})
		if err != nil {
			log.Warn().Err(err).Msg("recording notification")
		}
		return countUnread(ctx, s)
	}
}

// fetchUnreadCount queries the store for the number of unread
// notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		return countUnread(context.Background(), s)
	}
}

// markAlertsRead clears the unread notification badge.
func (m Model) markAlertsRead() tea.Cmd {
	s := m.store
	log := m.log
	return func() tea.Msg {
		ctx := context.Background()
		if err := s.MarkAllNotificationsRead(ctx); err != nil {
			log.Warn().Err(err).Msg("marking notifications read")
		}
		return countUnread(ctx, s)
	}
}

func countUnread(ctx context.Context, s store.Store) tea.Msg {
	notifications, err := s.GetUnreadNotifications(ctx)
	if err != nil {
		return unreadCountMsg{count: 0}
	}
	return unreadCountMsg{count: len(notifications)}
}

// loadSite fetches the current site settings for the header and pages.
func (m Model) loadSite() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		site, err := s.GetSiteSettings(context.Background())
		if err != nil {
			return siteLoadedMsg{site: model.DefaultSiteSettings()}
		}
		return siteLoadedMsg{site: site}
	}
}

// copyAddress copies the active address to the system clipboard.
func (m Model) copyAddress() tea.Cmd {
	snap := m.coordinator.Snapshot()
	if snap.Account == nil {
		return nil
	}
	address := snap.Account.EmailAddress
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(address)}
	}
}

// exportMessage writes the open message to the export directory as a
// .eml file.
func (m Model) exportMessage() tea.Cmd {
	snap := m.coordinator.Snapshot()
	if snap.Selected == nil || snap.Account == nil {
		return nil
	}
	detail := *snap.Selected
	to := snap.Account.EmailAddress
	dir := m.exportDir
	return func() tea.Msg {
		path, err := export.Save(dir, detail, to)
		return exportDoneMsg{path: path, err: err}
	}
}
