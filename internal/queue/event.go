// Package queue defines message payloads exchanged over the message broker.
package queue

// AuditQueueName is the durable queue carrying access-log events.
const AuditQueueName = "audit.access"

// AccessLogEvent is published for every inbound request, whatever the auth
// outcome. It carries enough for the consumer to persist an audit row
// without touching the request again.
type AccessLogEvent struct {
	IP         string `json:"ip"`
	Method     string `json:"method"`
	Route      string `json:"route"`
	ObservedAt string `json:"observed_at"`
}
