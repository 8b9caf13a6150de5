package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/goto/salt/log"
	"github.com/lib/pq"
)

// InvestorsChannel is notified by a trigger on every write to the
// limited_partners table.
const InvestorsChannel = "limited_partners_changed"

const (
	listenerMinReconnect = 10 * time.Second
	listenerMaxReconnect = time.Minute
	listenerPingInterval = 90 * time.Second
)

// ChangeListener subscribes to investor change notifications so that
// cached query results can be dropped when another writer touches the
// table.
type ChangeListener struct {
	logger   log.Logger
	listener *pq.Listener
}

func NewChangeListener(cfg Config, logger log.Logger) (*ChangeListener, error) {
	l := &ChangeListener{logger: logger}
	l.listener = pq.NewListener(cfg.ConnectionURL().String(), listenerMinReconnect, listenerMaxReconnect, l.onEvent)
	if err := l.listener.Listen(InvestorsChannel); err != nil {
		_ = l.listener.Close()
		return nil, fmt.Errorf("listen on %q: %w", InvestorsChannel, err)
	}
	return l, nil
}

// Run calls onChange for every notification until ctx is done. A reconnect
// delivers a nil notification, which also triggers onChange since events
// may have been missed while disconnected.
func (l *ChangeListener) Run(ctx context.Context, onChange func()) error {
	ticker := time.NewTicker(listenerPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return l.listener.Close()
		case n := <-l.listener.NotificationChannel():
			if n != nil {
				l.logger.Debug("investors changed", "channel", n.Channel, "payload", n.Extra)
			}
			onChange()
		case <-ticker.C:
			if err := l.listener.Ping(); err != nil {
				l.logger.Warn("change listener ping failed", "err", err)
			}
		}
	}
}

func (l *ChangeListener) onEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnectionAttemptFailed, pq.ListenerEventDisconnected:
		l.logger.Warn("change listener connection lost", "err", err)
	case pq.ListenerEventReconnected:
		l.logger.Info("change listener reconnected")
	}
}
