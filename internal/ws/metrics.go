package ws

import "expvar"

var (
	metricConnectionsTotal  = expvar.NewInt("ws_connections_total")
	metricConnectionsActive = expvar.NewInt("ws_connections_active")
	metricMessagesIn        = expvar.NewInt("ws_messages_in_total")
	metricActionsApplied    = expvar.NewInt("ws_actions_applied_total")
	metricActionsRejected   = expvar.NewInt("ws_actions_rejected_total")
	metricNewHands          = expvar.NewInt("ws_new_hands_total")
	metricErrorsSent        = expvar.NewInt("ws_errors_sent_total")
	metricSlowConsumers     = expvar.NewInt("ws_slow_consumers_total")
)
