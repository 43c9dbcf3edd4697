// Package metric records clikit command and update-check metrics.
//
// CLI processes are short-lived, so nothing is served over HTTP. Instead the
// registry is written to a file in Prometheus text format, suitable for the
// node_exporter textfile collector:
//
//	clikit --metrics-file /var/lib/node_exporter/clikit.prom config show
//
// Metrics:
//
//   - clikit_commands_total{command,result}
//   - clikit_command_duration_seconds{command}
//   - clikit_update_checks_total{result}
package metric
