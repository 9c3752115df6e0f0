package httptransport

import "expvar"

var (
	metricSessionCreateTotal  = expvar.NewInt("session_create_total")
	metricSessionCreateErrors = expvar.NewInt("session_create_errors_total")

	metricSessionViewTotal   = expvar.NewInt("session_view_total")
	metricHistoryExportTotal = expvar.NewInt("history_export_total")
	metricHistoryExportBytes = expvar.NewInt("history_export_bytes_total")
	metricRequestErrors      = expvar.NewInt("http_request_errors_total")
)
